package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMatchKey(t *testing.T) {
	a := MatchKey("digest1", "KWKLFKKIGAVLKVL")
	b := MatchKey("digest2", "KWKLFKKIGAVLKVL")
	c := MatchKey("digest1", "KWKLFKKIGAVLKVL")

	if a == b {
		t.Error("Expected different reference digests to give different keys")
	}
	if a != c {
		t.Error("Expected key to be deterministic")
	}
	if !strings.HasPrefix(a, "peptidemine:match:v1:") {
		t.Errorf("Unexpected key prefix: %s", a)
	}
	// Separator prevents ("ab","c") colliding with ("a","bc")
	if MatchKey("ab", "c") == MatchKey("a", "bc") {
		t.Error("Expected digest/sequence boundary to be unambiguous")
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss on empty cache")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("Expected hit with v, got %q %v", v, ok)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	_ = c.Clear()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d", c.Len())
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := MatchKey("d", "s")

	if err := c.Set(key, []byte(`{"match_type":"no_match"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := c.Get(key)
	if !ok || string(v) != `{"match_type":"no_match"}` {
		t.Errorf("Expected stored value, got %q %v", v, ok)
	}

	// Advance the clock past expiry
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, ok := c.Get(key); ok {
		t.Error("Expected expired entry to miss")
	}
	if _, err := os.Stat(c.path(key)); !os.IsNotExist(err) {
		t.Error("Expected expired entry file to be removed")
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	key := MatchKey("d", "s")

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(key); ok {
		t.Error("Expected corrupt entry to miss")
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("Expected deleting a removed entry to be a no-op, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := MatchKey("d", "s")

	// Write through one instance, read through a fresh one (cold memory)
	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if err := first.Set(key, []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	second := NewLayeredCache(time.Minute, dir, time.Hour)
	if v, ok := second.Get(key); !ok || string(v) != "v" {
		t.Fatalf("Expected disk hit, got %q %v", v, ok)
	}

	mem := second.memory.(*MemoryCache)
	if _, ok := mem.Get(key); !ok {
		t.Error("Expected disk hit promoted into memory")
	}

	if err := second.Clear(); err != nil {
		t.Errorf("Clear failed: %v", err)
	}
	if _, ok := NewLayeredCache(time.Minute, dir, time.Hour).Get(key); ok {
		t.Error("Expected miss after Clear")
	}
}
