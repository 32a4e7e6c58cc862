// Package table loads delimited tables with normalized column names.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent
var ErrMissingColumn = errors.New("missing column")

// Table is an in-memory delimited table
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NormalizeHeader trims, lower-cases and replaces spaces with underscores
func NormalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// DelimiterFor picks tab for .tsv/.tab paths and comma otherwise
func DelimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

// Load reads a table from path using the delimiter implied by its extension
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer func() { _ = file.Close() }()

	t, err := Read(file, DelimiterFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a table with a header row from r
func Read(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	for i, name := range header {
		norm := NormalizeHeader(name)
		t.Columns[i] = norm
		// First occurrence wins on duplicate headers
		if _, exists := t.index[norm]; !exists {
			t.index[norm] = i
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// Has reports whether the (normalized) column exists
func (t *Table) Has(column string) bool {
	_, ok := t.index[NormalizeHeader(column)]
	return ok
}

// Require returns an error naming the first absent column
func (t *Table) Require(columns ...string) error {
	for _, c := range columns {
		if !t.Has(c) {
			return fmt.Errorf("%w: %q (have %s)", ErrMissingColumn, c, strings.Join(t.Columns, ", "))
		}
	}
	return nil
}

// Get returns the cell of row i in column, or "" if the row is short or the column absent
func (t *Table) Get(i int, column string) string {
	idx, ok := t.index[NormalizeHeader(column)]
	if !ok || i < 0 || i >= len(t.Rows) {
		return ""
	}
	row := t.Rows[i]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}
