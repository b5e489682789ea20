// Package renderer turns accounts and quotes into reports.
//
// Reports are plain structs built from the accounting engine outputs. They
// can be rendered as markdown, converted to HTML or encoded as JSON.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderHolding renders the Holding struct to a markdown string.
func RenderHolding(h *Holding) string {
	partials := map[string]string{
		"holding_title":     "holding_title.md",
		"holding_positions": "holding_positions.md",
	}
	return renderTemplate("holding", "holding.md", partials, h)
}

// RenderTransactions renders the transaction history to a markdown string.
func RenderTransactions(t *Transactions) string {
	return renderTemplate("transactions", "transactions.md", nil, t)
}

// RenderPerformance renders the Performance struct to a markdown string.
func RenderPerformance(p *Performance) string {
	return renderTemplate("performance", "performance.md", nil, p)
}

// RenderMarket renders the quote board to a markdown string.
func RenderMarket(m *Market) string {
	return renderTemplate("market", "market.md", nil, m)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		// partials are inlined, their final newline belongs to the caller.
		if _, err := tmpl.New(name).Parse(strings.TrimSuffix(string(content), "\n")); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
