package extract

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/ppiankov/peptidemine/internal/corpus"
	"github.com/ppiankov/peptidemine/internal/model"
)

// PeptidePattern matches runs of 10-60 residues from the 20 standard amino acids
const PeptidePattern = `[AC-IK-NP-TVWY]{10,60}`

// SequenceExtractor finds candidate peptide sequences in corpus text
type SequenceExtractor struct {
	pattern  *regexp.Regexp
	stripper *MarkupStripper // nil when markup is matched as-is
}

// NewSequenceExtractor creates an extractor. When stripMarkup is set, inline
// HTML is removed from sentence text before matching.
func NewSequenceExtractor(stripMarkup bool) *SequenceExtractor {
	e := &SequenceExtractor{
		pattern: regexp.MustCompile(PeptidePattern),
	}
	if stripMarkup {
		e.stripper = NewMarkupStripper()
	}
	return e
}

// IsDNA reports whether s consists only of the bases A, G, C and T
func IsDNA(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'G', 'C', 'T':
		default:
			return false
		}
	}
	return true
}

// FindSequences returns every non-DNA pattern match in text, in order
func (e *SequenceExtractor) FindSequences(text string) []string {
	if e.stripper != nil {
		text = e.stripper.Strip(text)
	}

	var out []string
	for _, m := range e.pattern.FindAllString(text, -1) {
		if IsDNA(m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// ExtractDocument emits a mention for every surviving match in doc, in row order,
// and records the document in tally.
func (e *SequenceExtractor) ExtractDocument(doc *corpus.Document, tally *Tally) []model.RawMention {
	tally.documentSeen()

	var mentions []model.RawMention
	for _, row := range doc.Rows {
		section := CategorizeSection(row.Section)
		for _, seq := range e.FindSequences(row.Text) {
			mentions = append(mentions, model.RawMention{
				Section:         row.Section,
				Paragraph:       row.Paragraph,
				Sentence:        row.Sentence,
				Text:            row.Text,
				SourceID:        row.SourceID,
				MatchedSequence: seq,
			})
			tally.matchSeen(row.SourceID, section)
		}
	}

	return mentions
}

// ExtractCorpus reads and extracts every referenced document.
// Missing documents are recorded in the tally and skipped; any other read
// error, including a malformed row, aborts the run.
func (e *SequenceExtractor) ExtractCorpus(refs []corpus.DocumentRef, tally *Tally) ([]model.RawMention, error) {
	var mentions []model.RawMention
	for _, ref := range refs {
		doc, err := corpus.ReadDocument(ref)
		if err != nil {
			if errors.Is(err, corpus.ErrDocumentNotFound) {
				tally.missing(ref.ID)
				continue
			}
			return nil, fmt.Errorf("extract %s: %w", ref.ID, err)
		}
		mentions = append(mentions, e.ExtractDocument(doc, tally)...)
	}
	return mentions, nil
}

// Tally accumulates corpus statistics for one extraction run
type Tally struct {
	total    int
	matched  map[string]bool
	sections map[model.CanonicalSection]int
	absent   []string
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{
		matched:  make(map[string]bool),
		sections: make(map[model.CanonicalSection]int),
	}
}

func (t *Tally) documentSeen() {
	t.total++
}

func (t *Tally) matchSeen(sourceID string, section model.CanonicalSection) {
	t.matched[sourceID] = true
	t.sections[section]++
}

func (t *Tally) missing(id string) {
	t.absent = append(t.absent, id)
}

// Stats snapshots the accumulated statistics
func (t *Tally) Stats() model.CorpusStats {
	ids := make([]string, 0, len(t.matched))
	for id := range t.matched {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sections := make(map[model.CanonicalSection]int, len(t.sections))
	for k, v := range t.sections {
		sections[k] = v
	}

	return model.CorpusStats{
		TotalDocuments:   t.total,
		MatchedDocuments: len(ids),
		MatchedIDs:       ids,
		SectionCounts:    sections,
		MissingDocuments: append([]string(nil), t.absent...),
	}
}
