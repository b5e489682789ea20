package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/etnz/tradesim"
	"github.com/etnz/tradesim/market"
	"github.com/rs/zerolog"
)

// Files in a File store directory.
const (
	accountsFile = "accounts.jsonl"
	marketFile   = "market.jsonl"
	sessionFile  = "session.json"
)

// File stores the state as files in a directory.
type File struct {
	dir  string
	log  zerolog.Logger
	opts []tradesim.Option
}

// NewFile returns a store in dir. The directory is created on first Save.
func NewFile(dir string, log zerolog.Logger, opts ...tradesim.Option) *File {
	return &File{
		dir:  dir,
		log:  log.With().Str("component", "store").Str("dir", dir).Logger(),
		opts: opts,
	}
}

// Load reads the state files. Missing files are read as empty.
func (f *File) Load(ctx context.Context) (*State, error) {
	s := NewState(f.opts...)

	err := f.read(accountsFile, func(r io.Reader) (err error) {
		s.Registry, err = tradesim.DecodeRegistry(r, f.opts...)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = f.read(marketFile, func(r io.Reader) (err error) {
		s.Quotes, err = market.DecodeQuotes(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = f.read(sessionFile, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&s.Session)
	})
	if err != nil {
		return nil, err
	}

	f.log.Debug().Int("accounts", s.Registry.Len()).Int("quotes", len(s.Quotes)).Msg("State loaded")
	return s, ctx.Err()
}

func (f *File) read(name string, decode func(io.Reader) error) error {
	path := filepath.Join(f.dir, name)
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer file.Close()
	if err := decode(file); err != nil {
		return fmt.Errorf("cannot decode %q: %w", path, err)
	}
	return nil
}

// Save writes every state file. Each file is replaced atomically.
func (f *File) Save(ctx context.Context, s *State) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	writers := []struct {
		name   string
		encode func(io.Writer) error
	}{
		{accountsFile, func(w io.Writer) error { return tradesim.EncodeRegistry(w, s.Registry) }},
		{marketFile, func(w io.Writer) error { return market.EncodeQuotes(w, s.Quotes) }},
		{sessionFile, func(w io.Writer) error { return json.NewEncoder(w).Encode(s.Session) }},
	}
	for _, w := range writers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.write(w.name, w.encode); err != nil {
			return err
		}
	}
	f.log.Debug().Int("accounts", s.Registry.Len()).Msg("State saved")
	return nil
}

// write encodes into a temporary file then renames it to name.
func (f *File) write(name string, encode func(io.Writer) error) error {
	path := filepath.Join(f.dir, name)
	tmp, err := os.CreateTemp(f.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file for %q: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot encode %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot write %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("cannot replace %q: %w", path, err)
	}
	return nil
}

// Close does nothing, files are closed after every operation.
func (f *File) Close() error { return nil }
