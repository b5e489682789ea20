package renderer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Format is an output format of reports.
type Format string

// Output formats.
const (
	Markdown Format = "md"
	HTML     Format = "html"
	JSON     Format = "json"
)

// ParseFormat parses "md", "html" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Markdown, HTML, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: md, html, json)", s)
	}
}

// md converts markdown, tables included.
var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// ToHTML converts a markdown report to an HTML fragment.
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("cannot convert report to html: %w", err)
	}
	return buf.String(), nil
}

// ToJSON encodes a report as indented JSON.
//
// When query is not empty, it is a JSONPath expression (e.g. "$.positions[0].symbol")
// and only the selected values are encoded.
func ToJSON(report any, query string) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode report: %w", err)
	}
	if query == "" {
		return data, nil
	}

	// jsonpath works on the generic json representation.
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	selected, err := jsonpath.Get(query, v)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", query, err)
	}
	return json.MarshalIndent(selected, "", "  ")
}
