package ident

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/table"
)

func records(seqs ...string) []model.AggregatedRecord {
	out := make([]model.AggregatedRecord, len(seqs))
	for i, s := range seqs {
		out[i] = model.AggregatedRecord{Sequence: s}
	}
	return out
}

func TestAssign_FreshCounter(t *testing.T) {
	a := NewAssigner("ABP", 4, nil)
	got := a.Assign(records("AAA", "CCC", "DDD"))

	want := []string{"ABP0001", "ABP0002", "ABP0003"}
	for i, w := range want {
		if got[i].ID != w {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, w)
		}
	}
}

func TestAssign_ReusesCatalogAndSkipsCollisions(t *testing.T) {
	catalog := map[string]string{
		"KNOWN":  "ABP0002",
		"KNOWN2": "PEP_77",
	}
	a := NewAssigner("ABP", 4, catalog)
	got := a.Assign(records("NEW1", "KNOWN", "NEW2", "KNOWN2", "NEW3"))

	want := map[string]string{
		"NEW1":   "ABP0001",
		"KNOWN":  "ABP0002",
		"NEW2":   "ABP0003", // ABP0002 is taken by the catalog
		"KNOWN2": "PEP_77",
		"NEW3":   "ABP0004",
	}
	for _, r := range got {
		if r.ID != want[r.Sequence] {
			t.Errorf("%s: got %q, want %q", r.Sequence, r.ID, want[r.Sequence])
		}
	}
}

func TestAssign_Injective(t *testing.T) {
	catalog := map[string]string{"S3": "ABP0001", "S7": "ABP0005"}
	a := NewAssigner("ABP", 4, catalog)

	var seqs []string
	for _, c := range "ABCDEFGHIKLMNPQRSTVWY" {
		seqs = append(seqs, "S"+string(c))
	}
	seqs = append(seqs, "S3", "S7")

	seen := make(map[string]string)
	for _, r := range a.Assign(records(seqs...)) {
		if other, dup := seen[r.ID]; dup {
			t.Errorf("ID %s assigned to both %s and %s", r.ID, other, r.Sequence)
		}
		seen[r.ID] = r.Sequence
	}
}

func TestAssign_Reproducible(t *testing.T) {
	catalog := map[string]string{"KNOWN": "ABP0003"}
	in := records("B", "KNOWN", "A", "C")

	first := NewAssigner("ABP", 4, catalog).Assign(in)
	second := NewAssigner("ABP", 4, catalog).Assign(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical runs:\n%+v\n%+v", first, second)
	}
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	in := records("A")
	NewAssigner("ABP", 4, nil).Assign(in)
	if in[0].ID != "" {
		t.Errorf("Expected input untouched, got %q", in[0].ID)
	}
}

func TestNext_CounterNeverRewinds(t *testing.T) {
	a := NewAssigner("X", 2, map[string]string{"s": "X02"})
	got := []string{a.Next(), a.Next(), a.Next()}
	want := []string{"X01", "X03", "X04"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Next() sequence = %v, want %v", got, want)
	}
}

func TestIDFor_RepeatedSequence(t *testing.T) {
	a := NewAssigner("ABP", 4, nil)
	if a.IDFor("AAA") != a.IDFor("AAA") {
		t.Error("Expected same id for repeated sequence")
	}
	if len(a.Mapping()) != 1 {
		t.Errorf("Expected 1 mapping entry, got %d", len(a.Mapping()))
	}
}

func TestCatalogFromTable(t *testing.T) {
	input := "ID,Sequence,Name\nABP0007,KWKLFKKIGAVLKVL,x\n,EMPTYID,y\nABP0008,KWKLFKKIGAVLKVL,z\n"
	tbl, err := table.Read(strings.NewReader(input), ',')
	if err != nil {
		t.Fatal(err)
	}

	catalog, ok, err := CatalogFromTable(tbl)
	if err != nil || !ok {
		t.Fatalf("Expected catalog, got ok=%v err=%v", ok, err)
	}
	if len(catalog) != 1 || catalog["KWKLFKKIGAVLKVL"] != "ABP0008" {
		t.Errorf("Unexpected catalog: %v", catalog)
	}

	tbl, _ = table.Read(strings.NewReader("sequence,name\nAAA,x\n"), ',')
	catalog, ok, err = CatalogFromTable(tbl)
	if err != nil || ok || len(catalog) != 0 {
		t.Errorf("Expected empty catalog without id column, got %v ok=%v err=%v", catalog, ok, err)
	}
}
