package model

// MetadataRow is one row of the annotated mechanism table.
// Several rows may share a sequence when it was reported by several articles.
type MetadataRow struct {
	Sequence  string
	Mechanism string // Comma-separated mechanism phrases, may be empty
	SourceID  string
	Class     string // Organism class tag (e.g. Gram stain)
}

// AggregatedRecord is the canonical, one-per-sequence entry
type AggregatedRecord struct {
	ID               string `json:"id,omitempty"`
	Sequence         string `json:"sequence"`
	MechanismRaw     string `json:"mechanism"`       // Semicolon-joined sorted unique phrases
	SourceIDs        string `json:"source_ids"`      // Semicolon-joined sorted unique source ids
	OrganismClass    string `json:"organism_class"`  // Semicolon-joined sorted unique class tags
	PrimaryMechanism string `json:"primary_mechanism"`
	Subtype          string `json:"subtype"`
}

// MechanismLabel is a (primary, subtype) mechanism pair
type MechanismLabel struct {
	Primary string `json:"primary"`
	Subtype string `json:"subtype"`
}

// Unspecified is the label assigned when no mechanism keyword matches
var Unspecified = MechanismLabel{Primary: "unspecified", Subtype: ""}

// Less orders labels lexicographically by primary, then subtype
func (l MechanismLabel) Less(o MechanismLabel) bool {
	if l.Primary != o.Primary {
		return l.Primary < o.Primary
	}
	return l.Subtype < o.Subtype
}
