package table

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		" PMC ID ":   "pmc_id",
		"Sequence":   "sequence",
		"\ufeffid":   "id",
		"Gram":       "gram",
		"mechanism":  "mechanism",
		"Entry Name": "entry_name",
	}
	for in, want := range tests {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDelimiterFor(t *testing.T) {
	if DelimiterFor("a/b/meta.TSV") != '\t' {
		t.Error("Expected tab for .TSV")
	}
	if DelimiterFor("meta.csv") != ',' {
		t.Error("Expected comma for .csv")
	}
}

func TestRead_NormalizedLookup(t *testing.T) {
	input := "Sequence, Mechanism ,PMC ID,Gram\n" +
		"GIGKFLHSAKKFGKAFVGEIMNS,\"pore, carpet\",PMC1,-\n" +
		"KWKLFKKIGAVLKVL\n"

	tbl, err := Read(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", tbl.Len())
	}
	if got := tbl.Get(0, "mechanism"); got != "pore, carpet" {
		t.Errorf("Expected quoted mechanism, got %q", got)
	}
	if got := tbl.Get(0, "PMC ID"); got != "PMC1" {
		t.Errorf("Expected lookup by raw header to normalize, got %q", got)
	}
	if got := tbl.Get(1, "gram"); got != "" {
		t.Errorf("Expected empty cell for short row, got %q", got)
	}
	if got := tbl.Get(5, "sequence"); got != "" {
		t.Errorf("Expected empty cell for out of range row, got %q", got)
	}
}

func TestRequire_MissingColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader("sequence\nAAA\n"), ',')
	if err != nil {
		t.Fatal(err)
	}

	err = tbl.Require("sequence", "id")
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
	if err := tbl.Require("sequence"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestRead_Empty(t *testing.T) {
	if _, err := Read(strings.NewReader(""), ','); err == nil {
		t.Error("Expected error for empty input")
	}
}
