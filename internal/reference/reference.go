// Package reference loads the reference protein database used for matching.
package reference

import (
	"bufio"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ppiankov/peptidemine/internal/fasta"
	"github.com/ppiankov/peptidemine/internal/model"
)

// Database is an ordered reference database and a digest of its file content
type Database struct {
	Source  string
	Digest  string // hex sha256 of the file bytes as stored on disk
	Entries []model.ReferenceEntry
}

// ParseHeaderID extracts accession and entry name from a header such as "sp|P12345|NAME_HUMAN desc".
// Both are empty when the first token has fewer than three '|' segments.
func ParseHeaderID(header string) (accession, entryName string) {
	id := header
	if i := strings.IndexAny(id, " \t"); i >= 0 {
		id = id[:i]
	}
	parts := strings.Split(id, "|")
	if len(parts) < 3 {
		return "", ""
	}
	return parts[1], parts[2]
}

// LoadFile reads a FASTA file, gunzipping when the content is gzip-compressed
func LoadFile(path string, logger *log.Logger) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	br := bufio.NewReader(io.TeeReader(f, h))

	var r io.Reader = br
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip reference: %w", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	entries, err := Read(r, logger)
	if err != nil {
		return nil, fmt.Errorf("read reference %s: %w", path, err)
	}

	// Drain whatever the decoder left unread so the digest covers the whole file
	if _, err := io.Copy(io.Discard, br); err != nil {
		return nil, fmt.Errorf("read reference %s: %w", path, err)
	}

	return &Database{
		Source:  path,
		Digest:  hex.EncodeToString(h.Sum(nil)),
		Entries: entries,
	}, nil
}

// Read parses reference entries from FASTA in file order
func Read(r io.Reader, logger *log.Logger) ([]model.ReferenceEntry, error) {
	progress := rate.Sometimes{Interval: 5 * time.Second}

	var entries []model.ReferenceEntry
	err := fasta.Scan(r, func(rec fasta.Record) error {
		acc, name := ParseHeaderID(rec.Header)
		entries = append(entries, model.ReferenceEntry{
			Sequence:  rec.Sequence,
			Header:    rec.Header,
			Accession: acc,
			EntryName: name,
		})
		progress.Do(func() {
			logger.Debug("loading reference", "entries", len(entries))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
