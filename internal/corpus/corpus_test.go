package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReadRows_Valid(t *testing.T) {
	input := "Abstract\t1\t1\tThe peptide GIGKFLHSAKKFGKAFVGEIMNS kills bacteria.\tPMC100\n" +
		"Results\t2\t3\tNo sequence here.\tPMC100\n"

	rows, err := ReadRows(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Section != "Abstract" || rows[0].SourceID != "PMC100" {
		t.Errorf("Unexpected first row: %+v", rows[0])
	}
	if rows[1].Line != 2 {
		t.Errorf("Expected second row on line 2, got %d", rows[1].Line)
	}
}

func TestReadRows_MalformedIsFatal(t *testing.T) {
	input := "Abstract\t1\t1\ttext\tPMC1\nResults\t2\tmissing fields\n"

	_, err := ReadRows(strings.NewReader(input))
	if err == nil {
		t.Fatal("Expected error for malformed row")
	}
	if !errors.Is(err, ErrMalformedRow) {
		t.Errorf("Expected ErrMalformedRow, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected error to name line 2, got %v", err)
	}
}

func TestReadIDList_SkipsCommentsAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ids.txt")
	writeFile(t, path, "PMC1\n\n# comment\nPMC2\nPMC1\n  PMC3  \n")

	ids, err := ReadIDList(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"PMC1", "PMC2", "PMC3"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestDirectoryRefs_SortedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PMC2.tsv"), "")
	writeFile(t, filepath.Join(dir, "PMC1.tsv"), "")
	writeFile(t, filepath.Join(dir, ".hidden"), "")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	refs, err := DirectoryRefs(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 refs, got %d", len(refs))
	}
	if refs[0].ID != "PMC1" || refs[1].ID != "PMC2" {
		t.Errorf("Unexpected order: %+v", refs)
	}
}

func TestReadDocument_Missing(t *testing.T) {
	dir := t.TempDir()
	refs := RefsFromIDs(dir, []string{"PMC404"}, ".tsv")

	_, err := ReadDocument(refs[0])
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}
}
