package tradesim

import "errors"

// Errors reported by ledger and registry operations. They are wrapped with
// context, test them with errors.Is.
var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInvalidName        = errors.New("invalid name")
	ErrDuplicateName      = errors.New("duplicate name")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSymbolNotFound     = errors.New("symbol not found")
)
