package listing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// Tag returns the fixed-width prefix used in a listing line.
func (k Kind) Tag() string {
	if k == KindFile {
		return "FILE "
	}
	return "DIR  "
}

func (k Kind) String() string {
	return strings.TrimSpace(k.Tag())
}

type Entry struct {
	Name string
	Kind Kind
}

var ErrNotDirectory = errors.New("not a directory")

// Entries returns the immediate children of dir sorted by name. Names that
// are not valid UTF-8 are dropped. Anything that does not stat as a regular
// file, including entries that fail to stat, is reported as a directory.
//
// Only failing to open dir is an error. A read that fails part way keeps
// the names already read.
func Entries(dir string) ([]Entry, error) {
	// Stat first: opening a FIFO blocks until a writer shows up.
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open directory %s: %w", dir, ErrNotDirectory)
	}

	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open directory %s: %w", dir, err)
	}
	defer f.Close()

	return collect(dir, f), nil
}

type nameReader interface {
	Readdirnames(n int) ([]string, error)
}

func collect(dir string, r nameReader) []Entry {
	names, _ := r.Readdirnames(-1)
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if !utf8.ValidString(name) {
			continue
		}
		entries = append(entries, Entry{
			Name: name,
			Kind: kindOf(filepath.Join(dir, name)),
		})
	}
	return entries
}

func kindOf(path string) Kind {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return KindDir
	}
	return KindFile
}

// List renders the children of dir as text, one "TAG name\n" line each.
func List(dir string) (string, error) {
	entries, err := Entries(dir)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Kind.Tag())
		b.WriteString(e.Name)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
