// Package docs embeds the user documentation of tradesim, one markdown file
// per topic.
package docs

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// index is the topic listing every other topic.
const index = "readme"

// Topic returns the markdown content of a documentation topic.
// The empty name returns the index.
func Topic(name string) (string, error) {
	if name == "" {
		name = index
	}
	content, err := docs.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics returns the content of several topics concatenated together.
// "*" expands to every topic but the index.
func Topics(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			all, err := List()
			if err != nil {
				return "", err
			}
			expanded = all
		}
		for _, n := range expanded {
			content, err := Topic(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// List returns the names of the available topics in alphabetical order, the
// index excluded.
func List() ([]string, error) {
	var names []string
	err := fs.WalkDir(docs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}
		name := strings.TrimSuffix(path.Base(p), ".md")
		if name != index {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}
