package model

// ReferenceEntry is one protein of the reference database, in file order
type ReferenceEntry struct {
	Sequence  string
	Header    string // Full header line without '>'
	Accession string // Second '|' segment of the header id, empty if absent
	EntryName string // Third '|' segment of the header id, empty if absent
}

// MatchType classifies how a query relates to the reference database
type MatchType string

const (
	MatchExact       MatchType = "exact_match"
	MatchSubsequence MatchType = "subsequence"
	MatchNone        MatchType = "no_match"
)

// ReferenceMatchResult is the outcome of matching one sequence.
// Nil pointers are reported as null.
type ReferenceMatchResult struct {
	Sequence  string    `json:"sequence"`
	Accession *string   `json:"uniprot_accession"`
	EntryName *string   `json:"uniprot_entry"`
	MatchType MatchType `json:"match_type"`
	Position  *int      `json:"match_position"` // 0-based offset into the reference sequence
}

// NoMatch returns the result for a sequence absent from the reference database
func NoMatch(sequence string) ReferenceMatchResult {
	return ReferenceMatchResult{Sequence: sequence, MatchType: MatchNone}
}

// AnnotatedRecord is a canonical record with its reference match
type AnnotatedRecord struct {
	AggregatedRecord
	Match ReferenceMatchResult
}
