package market

import (
	"math/rand/v2"
	"time"

	"github.com/etnz/tradesim"
)

var opening = time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)

// USD parses a money amount, panics on error.
func USD(s string) tradesim.Money {
	m, err := tradesim.ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// seeded returns a deterministic random source.
func seeded() rand.Source { return rand.NewPCG(1, 2) }

func newTestFeed() *Feed {
	return NewFeed(seeded(), NewQuotes(DefaultListing, opening)...)
}
