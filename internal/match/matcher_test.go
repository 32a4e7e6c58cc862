package match

import (
	"reflect"
	"testing"
	"time"

	"github.com/ppiankov/peptidemine/internal/cache"
	"github.com/ppiankov/peptidemine/internal/logging"
	"github.com/ppiankov/peptidemine/internal/model"
)

func entries() []model.ReferenceEntry {
	return []model.ReferenceEntry{
		{Sequence: "MKTAYIAKQRQISFVK", Accession: "P1", EntryName: "A"},
		{Sequence: "MKTAYIAKQR", Accession: "P2", EntryName: "B"},
		{Sequence: "GIGKFLHSAKKFGKAFVGEIMNS", Accession: "P3", EntryName: "MAG2_XENLA"},
		{Sequence: "XXXXKWKLFKKIGAVLKVLXX"},
	}
}

func TestMatch_FirstMatchWinsOverExact(t *testing.T) {
	m := NewMatcher(entries())
	got := m.Match("MKTAYIAKQR")

	if got.MatchType != model.MatchSubsequence {
		t.Fatalf("Expected subsequence, got %s", got.MatchType)
	}
	if got.Accession == nil || *got.Accession != "P1" {
		t.Errorf("Expected accession P1, got %v", got.Accession)
	}
	if got.Position == nil || *got.Position != 0 {
		t.Errorf("Expected position 0, got %v", got.Position)
	}
}

func TestMatch_Exact(t *testing.T) {
	m := NewMatcher(entries())
	got := m.Match("GIGKFLHSAKKFGKAFVGEIMNS")

	if got.MatchType != model.MatchExact {
		t.Fatalf("Expected exact_match, got %s", got.MatchType)
	}
	if *got.Accession != "P3" || *got.EntryName != "MAG2_XENLA" || *got.Position != 0 {
		t.Errorf("Unexpected result: %+v", got)
	}
}

func TestMatch_SubsequenceOffsetAndNullHeaderFields(t *testing.T) {
	m := NewMatcher(entries())
	got := m.Match("KWKLFKKIGAVLKVL")

	if got.MatchType != model.MatchSubsequence {
		t.Fatalf("Expected subsequence, got %s", got.MatchType)
	}
	if *got.Position != 4 {
		t.Errorf("Expected position 4, got %d", *got.Position)
	}
	if got.Accession != nil || got.EntryName != nil {
		t.Errorf("Expected null accession/entry for a header without pipes, got %+v", got)
	}
}

func TestMatch_NoMatch(t *testing.T) {
	m := NewMatcher(entries())
	for _, q := range []string{"WWWWWWWWWWWW", ""} {
		got := m.Match(q)
		if got.MatchType != model.MatchNone {
			t.Errorf("Match(%q) = %s, want no_match", q, got.MatchType)
		}
		if got.Accession != nil || got.EntryName != nil || got.Position != nil {
			t.Errorf("Expected null fields for no_match, got %+v", got)
		}
	}
}

func TestMatch_EmptyReference(t *testing.T) {
	m := NewMatcher(nil)
	if got := m.Match("KWKLFKKIGAVLKVL"); got.MatchType != model.MatchNone {
		t.Errorf("Expected no_match, got %s", got.MatchType)
	}
}

func TestMatchAll_PreservesOrder(t *testing.T) {
	m := NewMatcher(entries())
	queries := []string{"GIGKFLHSAKKFGKAFVGEIMNS", "WWWWWWWWWW", "MKTAYIAKQR"}
	got := m.MatchAll(queries)

	for i, q := range queries {
		if got[i].Sequence != q {
			t.Errorf("got[%d].Sequence = %q, want %q", i, got[i].Sequence, q)
		}
	}
}

type countingMatcher struct {
	inner *Matcher
	calls int
}

func (c *countingMatcher) Match(s string) model.ReferenceMatchResult {
	c.calls++
	return c.inner.Match(s)
}

func TestCachedMatcher_AgreesWithUncached(t *testing.T) {
	plain := NewMatcher(entries())
	counting := &countingMatcher{inner: plain}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	cached := NewCachedMatcher(counting, c, "digest", 0, logging.Discard())

	queries := []string{"MKTAYIAKQR", "GIGKFLHSAKKFGKAFVGEIMNS", "KWKLFKKIGAVLKVL", "WWWWWWWWWW"}
	for round := 0; round < 2; round++ {
		for _, q := range queries {
			if got, want := cached.Match(q), plain.Match(q); !reflect.DeepEqual(got, want) {
				t.Errorf("round %d %s: cached %+v, uncached %+v", round, q, got, want)
			}
		}
	}

	if counting.calls != len(queries) {
		t.Errorf("Expected %d inner calls, got %d", len(queries), counting.calls)
	}
}

func TestCachedMatcher_DigestIsolation(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)

	first := NewCachedMatcher(NewMatcher(entries()), c, "v1", 0, logging.Discard())
	if got := first.Match("MKTAYIAKQR"); got.MatchType != model.MatchSubsequence {
		t.Fatalf("Unexpected first result: %+v", got)
	}

	// Same cache, different reference content
	second := NewCachedMatcher(NewMatcher(entries()[1:2]), c, "v2", 0, logging.Discard())
	if got := second.Match("MKTAYIAKQR"); got.MatchType != model.MatchExact {
		t.Errorf("Expected exact match against new reference, got %+v", got)
	}
}
