package llm

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrCitationLeak is returned in strict mode when a summary names an unknown identifier
var ErrCitationLeak = errors.New("summary cites identifier outside the dataset")

// ExtractIDs returns distinct identifiers of the form <prefix><digits> in order of appearance
func ExtractIDs(text, prefix string) []string {
	if prefix == "" {
		return nil
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(prefix) + `\d+\b`)

	seen := make(map[string]bool)
	var out []string
	for _, id := range re.FindAllString(text, -1) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CheckCitations fails on the first cited identifier missing from allowed
func CheckCitations(cited, allowed []string) error {
	set := make(map[string]bool, len(allowed))
	for _, id := range allowed {
		set[id] = true
	}
	for _, id := range cited {
		if !set[id] {
			return fmt.Errorf("%w: %s", ErrCitationLeak, id)
		}
	}
	return nil
}
