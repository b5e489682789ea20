package market

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// EncodeQuotes writes quotes to w, one JSON object per line.
func EncodeQuotes(w io.Writer, quotes []Quote) error {
	enc := json.NewEncoder(w)
	for _, q := range quotes {
		if err := enc.Encode(q); err != nil {
			return fmt.Errorf("cannot encode quote %q: %w", q.Symbol, err)
		}
	}
	return nil
}

// DecodeQuotes reads quotes written by EncodeQuotes.
func DecodeQuotes(r io.Reader) ([]Quote, error) {
	var quotes []Quote
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var i int
	for scanner.Scan() {
		i++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var q Quote
		if err := json.Unmarshal(line, &q); err != nil {
			return nil, fmt.Errorf("line %d: invalid quote: %w", i, err)
		}
		if q.Symbol == "" {
			return nil, fmt.Errorf("line %d: quote symbol is missing", i)
		}
		quotes = append(quotes, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return quotes, nil
}
