package tradesim

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Side is a typed string identifying the direction of a transaction.
type Side string

// Sides of a market order.
const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses "buy" or "sell", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

// Transaction is the immutable record of an executed buy or sell.
type Transaction struct {
	id       string
	symbol   string
	side     Side
	quantity Quantity
	price    Money // unit price at execution
	time     time.Time
}

// NewTransaction creates a transaction record. It does not validate it.
func NewTransaction(id, symbol string, side Side, quantity Quantity, price Money, at time.Time) Transaction {
	return Transaction{
		id:       id,
		symbol:   symbol,
		side:     side,
		quantity: quantity,
		price:    price,
		time:     at,
	}
}

// ID returns the unique identifier of the transaction.
func (t Transaction) ID() string { return t.id }

// Symbol returns the traded symbol.
func (t Transaction) Symbol() string { return t.symbol }

// Side returns Buy or Sell.
func (t Transaction) Side() Side { return t.side }

// Quantity returns the number of shares traded.
func (t Transaction) Quantity() Quantity { return t.quantity }

// Price returns the unit price at execution.
func (t Transaction) Price() Money { return t.price }

// Time returns the execution timestamp.
func (t Transaction) Time() time.Time { return t.time }

// TotalValue returns the unit price times the quantity, unrounded.
func (t Transaction) TotalValue() Money { return t.price.Mul(t.quantity) }

func (t Transaction) Equal(o Transaction) bool {
	return t.id == o.id &&
		t.symbol == o.symbol &&
		t.side == o.side &&
		t.quantity == o.quantity &&
		t.price.Equal(o.price) &&
		t.time.Equal(o.time)
}

// Validate checks the fields that do not depend on the ledger state.
func (t Transaction) Validate() error {
	var errs error
	if t.symbol == "" {
		errs = errors.Join(errs, fmt.Errorf("symbol is missing: %w", ErrInvalidSymbol))
	}
	if t.side != Buy && t.side != Sell {
		errs = errors.Join(errs, fmt.Errorf("unknown side %q", t.side))
	}
	if !t.quantity.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("quantity must be positive, got %s: %w", t.quantity, ErrInvalidQuantity))
	}
	if !t.price.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("price must be positive, got %s: %w", t.price.Decimal(), ErrInvalidPrice))
	}
	return errs
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w orderedObject
	w.Set("id", t.id)
	w.Set("side", t.side)
	w.Set("symbol", t.symbol)
	w.Set("quantity", t.quantity)
	w.Set("price", t.price)
	w.Set("time", t.time.UTC().Format(time.RFC3339Nano))
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       string    `json:"id"`
		Side     Side      `json:"side"`
		Symbol   string    `json:"symbol"`
		Quantity Quantity  `json:"quantity"`
		Price    Money     `json:"price"`
		Time     time.Time `json:"time"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = NewTransaction(temp.ID, temp.Symbol, temp.Side, temp.Quantity, temp.Price, temp.Time)
	return nil
}
