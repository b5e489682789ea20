package tradesim

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Record kinds in the accounts JSONL format.
const (
	recordAccount = "account"
	recordTx      = "tx"
)

// This file contains code to persist accounts in a way that is still
// human-readable and git-friendly: one JSON object per line.
//
//   {"record":"account","id":"...","name":"alice","email":"...","cash":10000,"created":"..."}
//   {"record":"tx","account":"...","id":"...","side":"buy","symbol":"AAPL","quantity":10,"price":150,"time":"..."}
//
// Only the initial cash and the transactions are persisted. Cash balances and
// positions are derived by replaying the transactions when decoding.

// EncodeRegistry writes every account of r, each followed by its
// transactions, to w in JSONL format.
func EncodeRegistry(w io.Writer, r *Registry) error {
	for a := range r.Accounts() {
		if err := encodeLine(w, accountRecord(a)); err != nil {
			return fmt.Errorf("cannot encode account %q: %w", a.Name(), err)
		}
		for _, tx := range a.Ledger().Transactions() {
			if err := encodeLine(w, txRecord(a.ID(), tx)); err != nil {
				return fmt.Errorf("cannot encode transaction %q of %q: %w", tx.ID(), a.Name(), err)
			}
		}
	}
	return nil
}

func accountRecord(a *Account) *orderedObject {
	var w orderedObject
	w.Set("record", recordAccount)
	w.Set("id", a.ID())
	w.Set("name", a.Name())
	w.SetNonZero("email", a.Email())
	w.Set("cash", a.Ledger().InitialCash())
	w.Set("created", a.Created().UTC().Format(time.RFC3339Nano))
	return &w
}

func txRecord(accountID string, tx Transaction) *orderedObject {
	var w orderedObject
	w.Set("record", recordTx)
	w.Set("account", accountID)
	w.Merge(tx)
	return &w
}

func encodeLine(w io.Writer, obj *orderedObject) error {
	line, err := obj.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(line, '\n'))
	return err
}

// DecodeRegistry reads accounts and transactions in JSONL format from r and
// returns the registry they describe. Options apply to the decoded registry
// and to its ledgers.
//
// Each ledger is rebuilt by applying its transactions in file order. A
// transaction that cannot be applied is reported with its line number.
func DecodeRegistry(r io.Reader, opts ...Option) (*Registry, error) {
	reg := NewRegistry(opts...)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var i int
	for scanner.Scan() {
		i++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record  string `json:"record"`
			Account string `json:"account"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: not a correct json: %w", i, err)
		}

		switch identifier.Record {
		case recordAccount:
			var temp struct {
				ID      string    `json:"id"`
				Name    string    `json:"name"`
				Email   string    `json:"email"`
				Cash    Money     `json:"cash"`
				Created time.Time `json:"created"`
			}
			if err := json.Unmarshal(line, &temp); err != nil {
				return nil, fmt.Errorf("line %d: invalid account: %w", i, err)
			}
			if _, err := reg.Restore(temp.ID, temp.Name, temp.Email, temp.Created, NewLedger(temp.Cash, opts...)); err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
		case recordTx:
			var tx Transaction
			if err := json.Unmarshal(line, &tx); err != nil {
				return nil, fmt.Errorf("line %d: invalid transaction: %w", i, err)
			}
			a, ok := reg.Find(identifier.Account)
			if !ok {
				return nil, fmt.Errorf("line %d: transaction %q for account %q: %w", i, tx.ID(), identifier.Account, ErrAccountNotFound)
			}
			if err := a.Ledger().Apply(tx); err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("line %d: unknown record %q", i, identifier.Record)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return reg, nil
}
