// Package stats computes the summary figures reported for a run.
package stats

import (
	"math"
	"sort"

	"github.com/ppiankov/peptidemine/internal/model"
)

// Count is a labelled tally
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Percentage returns part/total*100 rounded to two decimals, or 0 when total is 0
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}

// SectionFrequencies lists non-zero section counts in canonical section order
func SectionFrequencies(counts map[model.CanonicalSection]int) []Count {
	var out []Count
	for _, s := range model.AllSections() {
		if n := counts[s]; n > 0 {
			out = append(out, Count{Key: string(s), Count: n})
		}
	}
	return out
}

// MechanismDistribution counts records per primary mechanism
func MechanismDistribution(records []model.AggregatedRecord) []Count {
	m := make(map[string]int)
	for _, r := range records {
		m[r.PrimaryMechanism]++
	}
	return sorted(m)
}

// MatchDistribution counts results per match type
func MatchDistribution(results []model.ReferenceMatchResult) []Count {
	m := make(map[string]int)
	for _, r := range results {
		m[string(r.MatchType)]++
	}
	return sorted(m)
}

// sorted orders by count descending, then key
func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
