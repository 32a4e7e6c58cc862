// Package ident assigns stable identifiers to canonical records.
package ident

import (
	"fmt"
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/table"
)

// Assigner maps sequences to identifiers, seeded from an external catalog
type Assigner struct {
	prefix  string
	width   int
	counter int
	bySeq   map[string]string
	used    map[string]bool
}

// NewAssigner creates an assigner. catalog maps sequence -> existing identifier and may be nil.
func NewAssigner(prefix string, width int, catalog map[string]string) *Assigner {
	if width <= 0 {
		width = 4
	}

	a := &Assigner{
		prefix: prefix,
		width:  width,
		bySeq:  make(map[string]string, len(catalog)),
		used:   make(map[string]bool, len(catalog)),
	}
	for seq, id := range catalog {
		a.bySeq[seq] = id
		a.used[id] = true
	}
	return a
}

// Next mints the next unused identifier. The counter only moves forward;
// literals already taken are skipped, never reused.
func (a *Assigner) Next() string {
	for {
		a.counter++
		candidate := fmt.Sprintf("%s%0*d", a.prefix, a.width, a.counter)
		if !a.used[candidate] {
			a.used[candidate] = true
			return candidate
		}
	}
}

// IDFor returns the identifier for sequence, minting one if it is unseen
func (a *Assigner) IDFor(sequence string) string {
	if id, ok := a.bySeq[sequence]; ok {
		return id
	}
	id := a.Next()
	a.bySeq[sequence] = id
	return id
}

// Assign returns a copy of records with IDs set, processed in input order
func (a *Assigner) Assign(records []model.AggregatedRecord) []model.AggregatedRecord {
	out := make([]model.AggregatedRecord, len(records))
	for i, r := range records {
		r.ID = a.IDFor(r.Sequence)
		out[i] = r
	}
	return out
}

// Mapping snapshots the current sequence -> identifier mapping
func (a *Assigner) Mapping() map[string]string {
	m := make(map[string]string, len(a.bySeq))
	for k, v := range a.bySeq {
		m[k] = v
	}
	return m
}

// CatalogFromTable builds a sequence -> identifier map from "sequence" and "id" columns.
// A table without an id column yields an empty catalog and ok=false.
// Later rows win when a sequence repeats; blank cells are skipped.
func CatalogFromTable(t *table.Table) (catalog map[string]string, ok bool, err error) {
	catalog = make(map[string]string)
	if !t.Has("id") {
		return catalog, false, nil
	}
	if err := t.Require("sequence"); err != nil {
		return nil, false, fmt.Errorf("identifier catalog: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		seq := strings.TrimSpace(t.Get(i, "sequence"))
		id := strings.TrimSpace(t.Get(i, "id"))
		if seq == "" || id == "" {
			continue
		}
		catalog[seq] = id
	}
	return catalog, true, nil
}
