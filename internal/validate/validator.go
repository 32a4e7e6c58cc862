// Package validate checks canonical records before they are exported.
package validate

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/peptidemine/internal/model"
)

// Severity grades an issue
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Issue codes
const (
	CodeDuplicateSequence = "duplicate_sequence"
	CodeDuplicateID       = "duplicate_id"
	CodeEmptyID           = "empty_id"
	CodeAlphabet          = "non_standard_residue"
	CodeLength            = "length_out_of_range"
)

// Issue is one finding against a record
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	ID       string   `json:"id,omitempty"`
	Sequence string   `json:"sequence"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
}

// Validator checks records for structural problems
type Validator struct {
	alphabet  *regexp.Regexp
	minLength int
	maxLength int
	requireID bool
}

// NewValidator creates a validator for the 20 standard residues and lengths 10-60.
// requireID enables identifier checks; unassigned records skip them.
func NewValidator(requireID bool) *Validator {
	return &Validator{
		alphabet:  regexp.MustCompile(`^[ACDEFGHIKLMNPQRSTVWY]+$`),
		minLength: 10,
		maxLength: 60,
		requireID: requireID,
	}
}

// Validate returns issues in record order
func (v *Validator) Validate(records []model.AggregatedRecord) []Issue {
	var issues []Issue
	seenSeq := make(map[string]int, len(records))
	seenID := make(map[string]int, len(records))

	for i, r := range records {
		if prev, ok := seenSeq[r.Sequence]; ok {
			issues = append(issues, Issue{
				Severity: SeverityCritical,
				Code:     CodeDuplicateSequence,
				ID:       r.ID,
				Sequence: r.Sequence,
				Message:  fmt.Sprintf("sequence also appears in record %d", prev+1),
			})
		} else {
			seenSeq[r.Sequence] = i
		}

		if v.requireID {
			switch prev, ok := seenID[r.ID]; {
			case r.ID == "":
				issues = append(issues, Issue{
					Severity: SeverityCritical,
					Code:     CodeEmptyID,
					Sequence: r.Sequence,
					Message:  "record has no identifier",
				})
			case ok:
				issues = append(issues, Issue{
					Severity: SeverityCritical,
					Code:     CodeDuplicateID,
					ID:       r.ID,
					Sequence: r.Sequence,
					Message:  fmt.Sprintf("identifier also used by record %d", prev+1),
				})
			default:
				seenID[r.ID] = i
			}
		}

		if !v.alphabet.MatchString(r.Sequence) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeAlphabet,
				ID:       r.ID,
				Sequence: r.Sequence,
				Message:  "sequence contains residues outside the standard alphabet",
			})
		}
		if n := len(r.Sequence); n < v.minLength || n > v.maxLength {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Code:     CodeLength,
				ID:       r.ID,
				Sequence: r.Sequence,
				Message:  fmt.Sprintf("length %d outside %d-%d", n, v.minLength, v.maxLength),
			})
		}
	}

	return issues
}

// Critical filters issues down to those that must abort an export
func Critical(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == SeverityCritical {
			out = append(out, i)
		}
	}
	return out
}
