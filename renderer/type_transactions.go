package renderer

import (
	"time"

	"github.com/etnz/tradesim"
)

// Transactions is the transaction history of an account.
type Transactions struct {
	Name         string            `json:"name"`
	Transactions []TransactionLine `json:"transactions"`
}

// TransactionLine is one executed transaction.
type TransactionLine struct {
	ID       string            `json:"id"`
	Time     time.Time         `json:"time"`
	Side     tradesim.Side     `json:"side"`
	Symbol   string            `json:"symbol"`
	Quantity tradesim.Quantity `json:"quantity"`
	Price    tradesim.Money    `json:"price"`
	Total    tradesim.Money    `json:"total"`
}

// When returns the execution time in UTC.
func (t TransactionLine) When() string { return t.Time.UTC().Format(time.DateTime) }

// NewTransactions lists the transactions of a in chronological order.
func NewTransactions(a *tradesim.Account) *Transactions {
	t := &Transactions{
		Name:         a.Name(),
		Transactions: make([]TransactionLine, 0, a.Ledger().Len()),
	}
	for _, tx := range a.Ledger().Transactions() {
		t.Transactions = append(t.Transactions, TransactionLine{
			ID:       tx.ID(),
			Time:     tx.Time(),
			Side:     tx.Side(),
			Symbol:   tx.Symbol(),
			Quantity: tx.Quantity(),
			Price:    tx.Price(),
			Total:    tx.TotalValue(),
		})
	}
	return t
}
