package extract

import (
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
)

// sectionRule maps a lower-case keyword to its canonical section
type sectionRule struct {
	keyword  string
	category model.CanonicalSection
}

// sectionRules is checked in order; the more specific phrase must come first
var sectionRules = []sectionRule{
	{"materials and methods", model.SectionMethods},
	{"methods", model.SectionMethods},
	{"results", model.SectionResults},
	{"discussion", model.SectionDiscussion},
	{"introduction", model.SectionIntroduction},
	{"abstract", model.SectionAbstract},
}

// CategorizeSection maps a free-text section label to a canonical section
func CategorizeSection(label string) model.CanonicalSection {
	lower := strings.ToLower(label)
	for _, rule := range sectionRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return model.SectionOther
}
