// Package tradesim provides the accounting core of a simulated stock-trading
// platform. Accounts are registered with an initial cash endowment, trade
// equities at externally supplied market prices, and review the performance of
// their portfolio.
//
// The core functionalities include:
//   - Ledger Engine: per-account cash balance, per-symbol positions with a
//     weighted-average cost basis, and an append-only, chronological record of
//     every buy and sell.
//   - Valuation: point-in-time portfolio value, unrealized gain or loss per
//     position, net capital invested and the resulting performance.
//   - Account Registry: unique account identities and display names, each owning
//     exactly one Ledger.
//   - Data Persistence: encoding and decoding of accounts and their transaction
//     history to and from human-readable JSONL. Decoding replays transactions
//     through the ledger so the restored state is always consistent with its
//     history.
//
// Prices are never owned by this package. They are supplied by a PriceSource,
// typically the synthetic feed of the market package, and captured once per
// operation.
//
// This package serves as the foundational logic for the `tradesim` command-line
// tool.
package tradesim
