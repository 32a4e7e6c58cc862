// Package classify maps free-text mechanism descriptions to mechanism labels.
package classify

import (
	"sort"
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
)

// Rule assigns label when keyword occurs in a normalized description
type Rule struct {
	Keyword string
	Label   model.MechanismLabel
}

// DefaultRules is the mechanism taxonomy. Every matching rule contributes a
// label; order only matters for readability since output is sorted.
var DefaultRules = []Rule{
	{"toroidal pore", model.MechanismLabel{Primary: "pore", Subtype: "toroidal_pore"}},
	{"barrel-stave", model.MechanismLabel{Primary: "pore", Subtype: "barrel_stave"}},
	{"barrel_stave", model.MechanismLabel{Primary: "pore", Subtype: "barrel_stave"}},
	{"ion channel formation", model.MechanismLabel{Primary: "pore", Subtype: "ion_channel"}},
	{"carpet", model.MechanismLabel{Primary: "carpet"}},
	{"membrane micelle formation", model.MechanismLabel{Primary: "carpet", Subtype: "membrane_micelle_formation"}},
	{"pore", model.MechanismLabel{Primary: "pore"}},
	{"non-lytic", model.MechanismLabel{Primary: "non-lytic"}},
	{"membrane permeability", model.MechanismLabel{Primary: "membrane_disruption"}},
	{"membrane disruption", model.MechanismLabel{Primary: "membrane_disruption"}},
	{"membrane", model.MechanismLabel{Primary: "membrane_disruption"}},
	{"fusion of vesicles", model.MechanismLabel{Primary: "membrane_disruption", Subtype: "fusion of vesicles"}},
	{"electrostatic interaction", model.MechanismLabel{Primary: "membrane_disruption", Subtype: "electrostatic_interaction"}},
	{"electrostatic", model.MechanismLabel{Primary: "membrane_disruption", Subtype: "electrostatic_interaction"}},
	{"biofilm destruction", model.MechanismLabel{Primary: "biofilm_destruction"}},
	{"antibiofilm", model.MechanismLabel{Primary: "biofilm_destruction"}},
	{"coaggregation of ribosomal protein", model.MechanismLabel{Primary: "intracellular_targeting", Subtype: "coaggregation_of_ribosomal_protein"}},
	{"bacterial membrane external protrusion", model.MechanismLabel{Primary: "membrane_disruption", Subtype: "bacterial_membrane_external_protrusion"}},
	{"immunomodulatory", model.MechanismLabel{Primary: "immunomodulatory"}},
	{"intracellular targeting", model.MechanismLabel{Primary: "intracellular_targeting"}},
	{"inhibition of outer membrane protein synthesis", model.MechanismLabel{Primary: "non-lytic", Subtype: "inhibition_outer_membrane_protein"}},
}

// Classifier applies an ordered rule table
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier over rules. Keywords are normalized once.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		c.rules[i] = Rule{Keyword: Normalize(r.Keyword), Label: r.Label}
	}
	return c
}

var defaultClassifier = NewClassifier(DefaultRules)

// Normalize lower-cases s and collapses whitespace runs to single spaces
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Labels returns every label whose keyword occurs in description, deduplicated
// and sorted by (primary, subtype). No match yields [model.Unspecified].
func (c *Classifier) Labels(description string) []model.MechanismLabel {
	text := Normalize(description)

	seen := make(map[model.MechanismLabel]bool)
	var labels []model.MechanismLabel
	for _, r := range c.rules {
		if r.Keyword == "" || !strings.Contains(text, r.Keyword) {
			continue
		}
		if !seen[r.Label] {
			seen[r.Label] = true
			labels = append(labels, r.Label)
		}
	}

	if len(labels) == 0 {
		return []model.MechanismLabel{model.Unspecified}
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i].Less(labels[j]) })
	return labels
}

// Canonical returns the lexicographically first label for description.
// With several matches the alphabetically earliest primary wins, not the most specific.
func (c *Classifier) Canonical(description string) model.MechanismLabel {
	return c.Labels(description)[0]
}

// Classify returns the sorted label set using DefaultRules
func Classify(description string) []model.MechanismLabel {
	return defaultClassifier.Labels(description)
}

// Canonical returns the canonical label using DefaultRules
func Canonical(description string) model.MechanismLabel {
	return defaultClassifier.Canonical(description)
}
