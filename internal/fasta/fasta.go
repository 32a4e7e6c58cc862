// Package fasta reads and writes FASTA formatted sequence files.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLine bounds a single input line; reference files carry titin-sized proteins on one line
const maxLine = 64 * 1024 * 1024

// Record is a single FASTA record (header without '>' and concatenated sequence)
type Record struct {
	Header   string
	Sequence string
}

// ID returns the first whitespace-delimited token of the header
func (r Record) ID() string {
	if i := strings.IndexAny(r.Header, " \t"); i >= 0 {
		return r.Header[:i]
	}
	return r.Header
}

// Scan streams records from r to fn. Lines before the first header are ignored.
// Blank lines and surrounding whitespace are dropped.
func Scan(r io.Reader, fn func(Record) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var (
		current Record
		seq     strings.Builder
		started bool
	)
	flush := func() error {
		if !started {
			return nil
		}
		current.Sequence = seq.String()
		seq.Reset()
		return fn(current)
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return err
			}
			current = Record{Header: strings.TrimSpace(line[1:])}
			started = true
			continue
		}
		if started {
			seq.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan fasta: %w", err)
	}
	return flush()
}

// Parse reads all records from r
func Parse(r io.Reader) ([]Record, error) {
	var records []Record
	err := Scan(r, func(rec Record) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Write writes records to w, wrapping sequence lines at width residues.
// A width of 0 writes each sequence on a single line.
func Write(w io.Writer, records []Record, width int) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, ">%s\n", rec.Header); err != nil {
			return err
		}
		for _, line := range wrap(rec.Sequence, width) {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func wrap(seq string, width int) []string {
	if width <= 0 || len(seq) <= width {
		return []string{seq}
	}
	lines := make([]string, 0, len(seq)/width+1)
	for len(seq) > width {
		lines = append(lines, seq[:width])
		seq = seq[width:]
	}
	if seq != "" {
		lines = append(lines, seq)
	}
	return lines
}
