package reference

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/peptidemine/internal/logging"
	"github.com/ppiankov/peptidemine/internal/model"
)

const sample = ">sp|P1|A desc one\nMKTAYIAKQR\nQISFVK\n>sp|P2|B\nMKTAYIAKQR\n>local_only\nGIGKFLHSAK\n"

func TestParseHeaderID(t *testing.T) {
	tests := []struct {
		header    string
		accession string
		entry     string
	}{
		{"sp|P12345|NAME_HUMAN Some protein OS=Homo", "P12345", "NAME_HUMAN"},
		{"tr|A0A0|X_Y|extra", "A0A0", "X_Y"},
		{"P12345 desc with | pipes | later", "", ""},
		{"sp|P1", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		acc, entry := ParseHeaderID(tt.header)
		if acc != tt.accession || entry != tt.entry {
			t.Errorf("ParseHeaderID(%q) = (%q, %q), want (%q, %q)", tt.header, acc, entry, tt.accession, tt.entry)
		}
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFile_Plain(t *testing.T) {
	p := writeFile(t, "ref.fasta", []byte(sample))
	db, err := LoadFile(p, logging.Discard())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if len(db.Entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(db.Entries))
	}
	want := model.ReferenceEntry{Sequence: "MKTAYIAKQRQISFVK", Header: "sp|P1|A desc one", Accession: "P1", EntryName: "A"}
	if db.Entries[0] != want {
		t.Errorf("Unexpected first entry: %+v", db.Entries[0])
	}
	if db.Entries[2].Accession != "" || db.Entries[2].EntryName != "" {
		t.Errorf("Expected empty accession for bare header, got %+v", db.Entries[2])
	}
	if len(db.Digest) != 64 {
		t.Errorf("Expected hex sha256 digest, got %q", db.Digest)
	}
}

func TestLoadFile_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(sample))
	_ = zw.Close()

	gz, err := LoadFile(writeFile(t, "ref.fasta.gz", buf.Bytes()), logging.Discard())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	plain, err := LoadFile(writeFile(t, "ref.fasta", []byte(sample)), logging.Discard())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if len(gz.Entries) != len(plain.Entries) {
		t.Fatalf("Expected %d entries, got %d", len(plain.Entries), len(gz.Entries))
	}
	for i := range gz.Entries {
		if gz.Entries[i] != plain.Entries[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, gz.Entries[i], plain.Entries[i])
		}
	}
	if gz.Digest == plain.Digest {
		t.Error("Expected digest of the stored bytes, not of the decoded content")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.fasta"), logging.Discard()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func testConfig(dir string) model.ReferenceConfig {
	return model.ReferenceConfig{
		DownloadDir:       dir,
		UserAgent:         "peptidemine-test/1.0",
		Timeout:           5 * time.Second,
		RespectRobots:     true,
		RequestsPerSecond: 100,
		BurstSize:         1,
	}
}

func TestResolve_DownloadsOnce(t *testing.T) {
	var downloads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case "/pub/sprot.fasta":
			downloads.Add(1)
			if ua := r.Header.Get("User-Agent"); ua != "peptidemine-test/1.0" {
				t.Errorf("Unexpected User-Agent %q", ua)
			}
			_, _ = fmt.Fprint(w, sample)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	f := NewFetcher(testConfig(dir), logging.Discard())
	src := server.URL + "/pub/sprot.fasta"

	for i := 0; i < 2; i++ {
		db, err := Resolve(context.Background(), src, f, logging.Discard())
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if db.Source != src || len(db.Entries) != 3 {
			t.Errorf("Unexpected database: source=%q entries=%d", db.Source, len(db.Entries))
		}
	}

	if n := downloads.Load(); n != 1 {
		t.Errorf("Expected 1 download, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "sprot.fasta")); err != nil {
		t.Errorf("Expected downloaded file: %v", err)
	}
}

func TestFetch_RobotsDisallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
			return
		}
		_, _ = fmt.Fprint(w, sample)
	}))
	defer server.Close()

	f := NewFetcher(testConfig(t.TempDir()), logging.Discard())
	_, err := f.Fetch(context.Background(), server.URL+"/sprot.fasta")
	if !errors.Is(err, ErrRobotsDisallowed) {
		t.Errorf("Expected ErrRobotsDisallowed, got %v", err)
	}
}

func TestFetch_BadStatusLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(t.TempDir())
	cfg.RespectRobots = false
	f := NewFetcher(cfg, logging.Discard())

	src := server.URL + "/sprot.fasta"
	if _, err := f.Fetch(context.Background(), src); err == nil {
		t.Fatal("Expected error for 500 response")
	}
	dest, _ := f.LocalPath(src)
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("Expected no file at %s, got %v", dest, err)
	}
}

func TestResolve_EmptySource(t *testing.T) {
	if _, err := Resolve(context.Background(), "", nil, logging.Discard()); err == nil {
		t.Error("Expected error for empty source")
	}
}
