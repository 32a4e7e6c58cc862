package extract

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ppiankov/peptidemine/internal/corpus"
	"github.com/ppiankov/peptidemine/internal/model"
)

// DefaultMechanismKeywords are the whole-word phrases used to pre-screen articles
// for mechanism descriptions before manual annotation
var DefaultMechanismKeywords = []string{
	"pore",
	"carpet",
	"mechanism",
	"membrane permeability",
	"barrel-stave",
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// KeywordScanner finds mechanism keywords in corpus rows
type KeywordScanner struct {
	patterns []keywordPattern
}

// NewKeywordScanner compiles case-insensitive, word-bounded patterns for keywords
func NewKeywordScanner(keywords []string) *KeywordScanner {
	s := &KeywordScanner{}
	for _, kw := range keywords {
		s.patterns = append(s.patterns, keywordPattern{
			keyword: kw,
			re:      regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`),
		})
	}
	return s
}

// ScanDocument returns one hit per (row, keyword) pair, in row then keyword order
func (s *KeywordScanner) ScanDocument(doc *corpus.Document, tally *KeywordTally) []model.KeywordHit {
	var hits []model.KeywordHit
	for _, row := range doc.Rows {
		for _, p := range s.patterns {
			if !p.re.MatchString(row.Text) {
				continue
			}
			hits = append(hits, model.KeywordHit{
				SourceID:  row.SourceID,
				Section:   row.Section,
				Paragraph: row.Paragraph,
				Sentence:  row.Sentence,
				Text:      row.Text,
				Keyword:   p.keyword,
			})
		}
	}

	tally.checked(doc.Ref.ID, len(hits) > 0)
	return hits
}

// ScanCorpus scans every referenced document; missing files are recorded and skipped
func (s *KeywordScanner) ScanCorpus(refs []corpus.DocumentRef, tally *KeywordTally) ([]model.KeywordHit, error) {
	var hits []model.KeywordHit
	for _, ref := range refs {
		doc, err := corpus.ReadDocument(ref)
		if err != nil {
			if errors.Is(err, corpus.ErrDocumentNotFound) {
				tally.Missing = append(tally.Missing, ref.ID)
				continue
			}
			return nil, fmt.Errorf("keyword scan %s: %w", ref.ID, err)
		}
		hits = append(hits, s.ScanDocument(doc, tally)...)
	}
	return hits, nil
}

// KeywordTally accumulates keyword pre-scan statistics
type KeywordTally struct {
	Checked     int
	WithHits    int
	WithoutHits []string // Document ids in scan order
	Missing     []string
}

// NewKeywordTally creates an empty keyword tally
func NewKeywordTally() *KeywordTally {
	return &KeywordTally{}
}

func (t *KeywordTally) checked(id string, hit bool) {
	t.Checked++
	if hit {
		t.WithHits++
		return
	}
	t.WithoutHits = append(t.WithoutHits, id)
}
