// Package match cross-references canonical sequences against a reference protein database.
package match

import (
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
)

// SequenceMatcher matches a single query sequence
type SequenceMatcher interface {
	Match(sequence string) model.ReferenceMatchResult
}

// Matcher scans reference entries in their given order
type Matcher struct {
	entries []model.ReferenceEntry
}

// NewMatcher creates a matcher over entries; their order is significant
func NewMatcher(entries []model.ReferenceEntry) *Matcher {
	return &Matcher{entries: entries}
}

// Len returns the number of reference entries
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Match reports the first entry, in list order, that equals or contains sequence.
//
// Each entry is tested for equality and then containment before moving on, so
// a substring hit in an earlier entry shadows an exact match further down the
// list. This is first-match, not best-match.
func (m *Matcher) Match(sequence string) model.ReferenceMatchResult {
	if sequence == "" {
		return model.NoMatch(sequence)
	}

	for i := range m.entries {
		e := &m.entries[i]
		if e.Sequence == sequence {
			return hit(sequence, e, model.MatchExact, 0)
		}
		if pos := strings.Index(e.Sequence, sequence); pos >= 0 {
			return hit(sequence, e, model.MatchSubsequence, pos)
		}
	}

	return model.NoMatch(sequence)
}

// MatchAll matches every sequence in order
func (m *Matcher) MatchAll(sequences []string) []model.ReferenceMatchResult {
	out := make([]model.ReferenceMatchResult, len(sequences))
	for i, s := range sequences {
		out[i] = m.Match(s)
	}
	return out
}

func hit(sequence string, e *model.ReferenceEntry, kind model.MatchType, pos int) model.ReferenceMatchResult {
	return model.ReferenceMatchResult{
		Sequence:  sequence,
		Accession: optional(e.Accession),
		EntryName: optional(e.EntryName),
		MatchType: kind,
		Position:  &pos,
	}
}

// optional turns an empty header field into null
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
