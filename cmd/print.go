package cmd

import (
	"errors"
	"flag"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tradesim/renderer"
)

// printMarkdown renders md for the terminal.
func printMarkdown(md string) {
	rendered, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	fmt.Fprint(out, rendered)
}

// reportFlags holds the output flags shared by reports.
type reportFlags struct {
	format string
	query  string
}

func (r *reportFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.format, "format", "md", "Output format: md, html or json")
	f.StringVar(&r.query, "q", "", "JSONPath query applied to the json output, e.g. '$.positions[*].symbol'")
}

// check validates the flags.
func (r *reportFlags) check() error {
	f, err := renderer.ParseFormat(r.format)
	if err != nil {
		return err
	}
	if r.query != "" && f != renderer.JSON {
		return errors.New("-q requires -format json")
	}
	return nil
}

// print prints the report in the selected format. md is its markdown rendering.
func (r *reportFlags) print(md string, report any) error {
	switch renderer.Format(r.format) {
	case renderer.HTML:
		html, err := renderer.ToHTML(md)
		if err != nil {
			return err
		}
		fmt.Fprint(out, html)
	case renderer.JSON:
		data, err := renderer.ToJSON(report, r.query)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	default:
		printMarkdown(md)
	}
	return nil
}
