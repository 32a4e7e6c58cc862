// Package aggregate deduplicates per-mention records into one canonical record per sequence.
package aggregate

import (
	"sort"
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
)

// Separator joins merged multi-value fields
const Separator = ";"

// ClassifyFunc assigns the canonical label for a merged mechanism string
type ClassifyFunc func(mechanism string) model.MechanismLabel

// valueSet is a commutative, associative accumulator rendered as a sorted unique join
type valueSet map[string]struct{}

func (s valueSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	s[v] = struct{}{}
}

// Sorted returns the members in byte order
func (s valueSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s valueSet) join() string {
	return strings.Join(s.Sorted(), Separator)
}

type group struct {
	mechanisms valueSet
	sources    valueSet
	classes    valueSet
}

func newGroup() *group {
	return &group{
		mechanisms: make(valueSet),
		sources:    make(valueSet),
		classes:    make(valueSet),
	}
}

func (g *group) add(row model.MetadataRow) {
	for _, phrase := range strings.Split(row.Mechanism, ",") {
		g.mechanisms.add(phrase)
	}
	g.sources.add(row.SourceID)
	g.classes.add(row.Class)
}

// Aggregate groups rows by exact sequence and merges their multi-valued fields.
//
// Groups in which no row carries a mechanism are dropped. Rows with an empty
// mechanism still contribute their source id and class to a surviving group.
// classify runs once per group on the merged mechanism string. Output is
// sorted by sequence, so any permutation of rows yields identical records.
func Aggregate(rows []model.MetadataRow, classify ClassifyFunc) []model.AggregatedRecord {
	groups := make(map[string]*group)
	for _, row := range rows {
		seq := strings.TrimSpace(row.Sequence)
		if seq == "" {
			continue
		}
		g, ok := groups[seq]
		if !ok {
			g = newGroup()
			groups[seq] = g
		}
		g.add(row)
	}

	sequences := make([]string, 0, len(groups))
	for seq, g := range groups {
		if len(g.mechanisms) == 0 {
			continue
		}
		sequences = append(sequences, seq)
	}
	sort.Strings(sequences)

	records := make([]model.AggregatedRecord, 0, len(sequences))
	for _, seq := range sequences {
		g := groups[seq]
		mechanism := g.mechanisms.join()
		label := classify(mechanism)
		records = append(records, model.AggregatedRecord{
			Sequence:         seq,
			MechanismRaw:     mechanism,
			SourceIDs:        g.sources.join(),
			OrganismClass:    g.classes.join(),
			PrimaryMechanism: label.Primary,
			Subtype:          label.Subtype,
		})
	}

	return records
}

// SplitJoined reverses the separator join of a merged field
func SplitJoined(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}
