// Package corpus reads segmented article documents.
//
// A document is a headerless tab-delimited file whose rows are
// (section, paragraph, sentence, text, source_id).
package corpus

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FieldsPerRow is the number of tab-separated fields in a corpus row
const FieldsPerRow = 5

var (
	// ErrMalformedRow is returned when a row does not have FieldsPerRow fields
	ErrMalformedRow = errors.New("malformed corpus row")

	// ErrDocumentNotFound is returned when a listed document is absent on disk
	ErrDocumentNotFound = errors.New("document not found")
)

// Row is one segmented sentence of an article
type Row struct {
	Section   string
	Paragraph string
	Sentence  string
	Text      string
	SourceID  string
	Line      int
}

// DocumentRef points at a document on disk
type DocumentRef struct {
	ID   string
	Path string
}

// Document is a fully read corpus file
type Document struct {
	Ref  DocumentRef
	Rows []Row
}

// DirectoryRefs lists every regular file in dir, sorted by name
func DirectoryRefs(dir string) ([]DocumentRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var refs []DocumentRef
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		refs = append(refs, DocumentRef{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
		})
	}

	// os.ReadDir already sorts, keep it explicit for callers relying on order
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

// IDListRefs builds refs of the form <dir>/<id><ext> for every id in listPath.
// Existence is not checked here; ReadDocument reports missing files.
func IDListRefs(dir, listPath, ext string) ([]DocumentRef, error) {
	ids, err := ReadIDList(listPath)
	if err != nil {
		return nil, err
	}

	return RefsFromIDs(dir, ids, ext), nil
}

// RefsFromIDs maps ids to <dir>/<id><ext> refs, preserving order
func RefsFromIDs(dir string, ids []string, ext string) []DocumentRef {
	refs := make([]DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, DocumentRef{ID: id, Path: filepath.Join(dir, id+ext)})
	}
	return refs
}

// ReadIDList reads document ids from a file (one per line)
func ReadIDList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open id list: %w", err)
	}
	defer func() { _ = file.Close() }()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			ids = append(ids, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan id list: %w", err)
	}

	return ids, nil
}

// ReadDocument reads every row of a document
func ReadDocument(ref DocumentRef) (*Document, error) {
	file, err := os.Open(ref.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, ref.Path)
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows, err := ReadRows(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref.Path, err)
	}

	return &Document{Ref: ref, Rows: rows}, nil
}

// ReadRows parses tab-delimited corpus rows from r
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) != FieldsPerRow {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformedRow, line, len(record), FieldsPerRow)
		}

		rows = append(rows, Row{
			Section:   record[0],
			Paragraph: record[1],
			Sentence:  record[2],
			Text:      record[3],
			SourceID:  record[4],
			Line:      line,
		})
	}

	return rows, nil
}
