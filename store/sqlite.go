package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/market"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	seq     INTEGER NOT NULL,
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL UNIQUE,
	email   TEXT NOT NULL,
	cash    TEXT NOT NULL,
	created TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	seq        INTEGER NOT NULL,
	id         TEXT PRIMARY KEY,
	account_id TEXT NOT NULL REFERENCES accounts(id),
	side       TEXT NOT NULL,
	symbol     TEXT NOT NULL,
	quantity   INTEGER NOT NULL,
	price      TEXT NOT NULL,
	executed   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS quotes (
	symbol   TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	price    TEXT NOT NULL,
	previous TEXT NOT NULL,
	updated  TEXT NOT NULL,
	history  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS session (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	name TEXT NOT NULL
);
`

// SQLite stores the state in a SQLite database.
//
// Amounts are stored as decimal text, times as RFC 3339 text.
type SQLite struct {
	conn *sql.DB
	path string
	log  zerolog.Logger
	opts []tradesim.Option
}

// OpenSQLite opens or creates the database at dbPath and its schema.
func OpenSQLite(dbPath string, log zerolog.Logger, opts ...tradesim.Option) (*SQLite, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLite{
		conn: conn,
		path: dbPath,
		log:  log.With().Str("component", "store").Str("db", dbPath).Logger(),
		opts: opts,
	}, nil
}

// Close closes the database connection
func (db *SQLite) Close() error {
	return db.conn.Close()
}

// Load reads the whole state in a single read transaction.
func (db *SQLite) Load(ctx context.Context) (*State, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s := NewState(db.opts...)
	if err := db.loadAccounts(ctx, tx, s.Registry); err != nil {
		return nil, err
	}
	if err := loadTransactions(ctx, tx, s.Registry); err != nil {
		return nil, err
	}
	if s.Quotes, err = loadQuotes(ctx, tx); err != nil {
		return nil, err
	}
	err = tx.QueryRowContext(ctx, `SELECT name FROM session WHERE id = 1`).Scan(&s.Session.User)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	db.log.Debug().Int("accounts", s.Registry.Len()).Int("quotes", len(s.Quotes)).Msg("State loaded")
	return s, nil
}

func (db *SQLite) loadAccounts(ctx context.Context, tx *sql.Tx, reg *tradesim.Registry) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, email, cash, created FROM accounts ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, email, cash, created string
		if err := rows.Scan(&id, &name, &email, &cash, &created); err != nil {
			return fmt.Errorf("failed to scan account: %w", err)
		}
		initial, err := tradesim.ParseMoney(cash)
		if err != nil {
			return fmt.Errorf("account %q: %w", id, err)
		}
		at, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return fmt.Errorf("account %q: invalid creation time: %w", id, err)
		}
		if _, err := reg.Restore(id, name, email, at, tradesim.NewLedger(initial, db.opts...)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func loadTransactions(ctx context.Context, tx *sql.Tx, reg *tradesim.Registry) error {
	rows, err := tx.QueryContext(ctx, `SELECT id, account_id, side, symbol, quantity, price, executed FROM transactions ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, accountID, side, symbol, price, at string
			quantity                               int64
		)
		if err := rows.Scan(&id, &accountID, &side, &symbol, &quantity, &price, &at); err != nil {
			return fmt.Errorf("failed to scan transaction: %w", err)
		}
		s, err := tradesim.ParseSide(side)
		if err != nil {
			return fmt.Errorf("transaction %q: %w", id, err)
		}
		unitPrice, err := tradesim.ParseMoney(price)
		if err != nil {
			return fmt.Errorf("transaction %q: %w", id, err)
		}
		when, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return fmt.Errorf("transaction %q: invalid time: %w", id, err)
		}
		a, ok := reg.Find(accountID)
		if !ok {
			return fmt.Errorf("transaction %q for account %q: %w", id, accountID, tradesim.ErrAccountNotFound)
		}
		t := tradesim.NewTransaction(id, symbol, s, tradesim.Quantity(quantity), unitPrice, when)
		if err := a.Ledger().Apply(t); err != nil {
			return fmt.Errorf("transaction %q: %w", id, err)
		}
	}
	return rows.Err()
}

func loadQuotes(ctx context.Context, tx *sql.Tx) ([]market.Quote, error) {
	rows, err := tx.QueryContext(ctx, `SELECT symbol, name, price, previous, updated, history FROM quotes ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []market.Quote
	for rows.Next() {
		var (
			q                                 market.Quote
			price, previous, updated, history string
		)
		if err := rows.Scan(&q.Symbol, &q.Name, &price, &previous, &updated, &history); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		if q.Price, err = tradesim.ParseMoney(price); err != nil {
			return nil, fmt.Errorf("quote %q: %w", q.Symbol, err)
		}
		if q.Previous, err = tradesim.ParseMoney(previous); err != nil {
			return nil, fmt.Errorf("quote %q: %w", q.Symbol, err)
		}
		if q.Updated, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("quote %q: invalid update time: %w", q.Symbol, err)
		}
		if err := json.Unmarshal([]byte(history), &q.History); err != nil {
			return nil, fmt.Errorf("quote %q: invalid history: %w", q.Symbol, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// Save replaces every table content in a single transaction.
func (db *SQLite) Save(ctx context.Context, s *State) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	for _, table := range []string{"transactions", "accounts", "quotes", "session"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	var accounts, transactions int
	for a := range s.Registry.Accounts() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (seq, id, name, email, cash, created) VALUES (?, ?, ?, ?, ?, ?)`,
			accounts, a.ID(), a.Name(), a.Email(), a.Ledger().InitialCash().Decimal().String(), formatTime(a.Created()))
		if err != nil {
			return fmt.Errorf("failed to insert account %q: %w", a.Name(), err)
		}
		accounts++

		for _, t := range a.Ledger().Transactions() {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (seq, id, account_id, side, symbol, quantity, price, executed) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				transactions, t.ID(), a.ID(), string(t.Side()), t.Symbol(), int64(t.Quantity()), t.Price().Decimal().String(), formatTime(t.Time()))
			if err != nil {
				return fmt.Errorf("failed to insert transaction %q: %w", t.ID(), err)
			}
			transactions++
		}
	}

	for _, q := range s.Quotes {
		history, err := json.Marshal(q.History)
		if err != nil {
			return fmt.Errorf("cannot encode history of %q: %w", q.Symbol, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO quotes (symbol, name, price, previous, updated, history) VALUES (?, ?, ?, ?, ?, ?)`,
			q.Symbol, q.Name, q.Price.Decimal().String(), q.Previous.Decimal().String(), formatTime(q.Updated), string(history))
		if err != nil {
			return fmt.Errorf("failed to insert quote %q: %w", q.Symbol, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO session (id, name) VALUES (1, ?)`, s.Session.User); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	db.log.Debug().Int("accounts", accounts).Int("transactions", transactions).Msg("State saved")
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }
