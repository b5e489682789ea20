package market

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuotes(t *testing.T) {
	var buf bytes.Buffer
	q := NewQuote(Listing{"AAPL", "Apple Inc.", USD("150.25")}, opening)
	require.NoError(t, EncodeQuotes(&buf, []Quote{q}))

	want := `{"symbol":"AAPL","name":"Apple Inc.","price":150.25,"previous":150.25,"updated":"2025-01-02T09:30:00Z","history":[150.25]}` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestQuotes_RoundTrip(t *testing.T) {
	f := newTestFeed()
	for range 3 {
		f.Tick(opening)
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeQuotes(&buf, f.Quotes()))

	quotes, err := DecodeQuotes(&buf)
	require.NoError(t, err)
	require.Len(t, quotes, 8)
	for i, q := range f.Quotes() {
		assert.Equal(t, q.Symbol, quotes[i].Symbol)
		assert.True(t, q.Price.Equal(quotes[i].Price))
		assert.True(t, q.Previous.Equal(quotes[i].Previous))
		assert.True(t, q.Updated.Equal(quotes[i].Updated))
		assert.Len(t, quotes[i].History, len(q.History))
	}
}

func TestDecodeQuotes_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "not json", input: "nope", want: "line 1: invalid quote"},
		{name: "no symbol", input: "\n{\"price\":1}", want: "line 2: quote symbol is missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeQuotes(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
