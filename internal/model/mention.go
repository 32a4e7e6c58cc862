package model

// RawMention is one pattern match of a candidate peptide inside a single corpus row
type RawMention struct {
	Section         string `json:"section"`          // Free-text section label as found in the corpus
	Paragraph       string `json:"paragraph"`        // Paragraph index or label
	Sentence        string `json:"sentence"`         // Sentence index or label
	Text            string `json:"text"`             // Full sentence text the match was found in
	SourceID        string `json:"source_id"`        // Source document identifier (e.g. PMC ID)
	MatchedSequence string `json:"matched_sequence"` // The matched residue run
}

// CanonicalSection is the normalized article section a free-text label maps to
type CanonicalSection string

const (
	SectionAbstract     CanonicalSection = "Abstract"
	SectionIntroduction CanonicalSection = "Introduction"
	SectionMethods      CanonicalSection = "Materials and Methods"
	SectionResults      CanonicalSection = "Results"
	SectionDiscussion   CanonicalSection = "Discussion"
	SectionOther        CanonicalSection = "Other"
)

// AllSections returns every canonical section in reporting order
func AllSections() []CanonicalSection {
	return []CanonicalSection{
		SectionAbstract,
		SectionIntroduction,
		SectionMethods,
		SectionResults,
		SectionDiscussion,
		SectionOther,
	}
}

// KeywordHit is a mechanism keyword found in a corpus row during the pre-scan
type KeywordHit struct {
	SourceID  string `json:"source_id"`
	Section   string `json:"section"`
	Paragraph string `json:"paragraph"`
	Sentence  string `json:"sentence"`
	Text      string `json:"text"`
	Keyword   string `json:"hit"`
}

// CorpusStats summarizes one extraction run over a corpus
type CorpusStats struct {
	TotalDocuments   int                      `json:"total_documents"`
	MatchedDocuments int                      `json:"matched_documents"`
	MatchedIDs       []string                 `json:"matched_ids"`                 // Sorted
	SectionCounts    map[CanonicalSection]int `json:"section_counts"`              // Matches per canonical section
	MissingDocuments []string                 `json:"missing_documents,omitempty"` // Listed but absent on disk
}
