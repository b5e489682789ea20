package tradesim

import (
	"fmt"
	"time"
)

// USD is a helper for test to create money from a decimal literal.
func USD(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// sequentialIDs returns a generator of "prefix-1", "prefix-2", ...
func sequentialIDs(prefix string) func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// steppingClock returns a clock starting at 2025-01-02 09:30 UTC that advances
// one minute at each call.
func steppingClock() func() time.Time {
	t := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(time.Minute)
		return now
	}
}

// testOptions are deterministic options for ledgers and registries.
func testOptions() []Option {
	return []Option{WithClock(steppingClock()), WithIDs(sequentialIDs("id"))}
}
