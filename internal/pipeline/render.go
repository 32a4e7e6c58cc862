package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/peptidemine/internal/fasta"
	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/stats"
)

// annotatedWrapWidth is the residue count per line in annotated FASTA exports
const annotatedWrapWidth = 60

// nullText marks a missing value in annotated FASTA headers
const nullText = "None"

var (
	mentionHeader   = []string{"section", "paragraph", "sentence", "text", "source_id", "matched_sequence"}
	keywordHeader   = []string{"source_id", "section", "paragraph", "sentence", "text", "hit"}
	recordHeader    = []string{"id", "sequence", "mechanism", "source_ids", "organism_class", "primary_mechanism", "subtype"}
	annotatedHeader = append(append([]string{}, recordHeader...), "uniprot_accession", "uniprot_entry", "match_type", "match_position")
)

// Renderer writes pipeline outputs. Every file is written to a temporary
// sibling and renamed into place, so a failed write never replaces a good file.
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// writeAtomic creates path's directory, streams fn into a temp file and renames it
func writeAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeTable(path string, delim rune, header []string, rows [][]string) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = delim
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	})
}

// WriteMentions writes extracted mentions as TSV
func (r *Renderer) WriteMentions(path string, mentions []model.RawMention) error {
	rows := make([][]string, len(mentions))
	for i, m := range mentions {
		rows[i] = []string{m.Section, m.Paragraph, m.Sentence, m.Text, m.SourceID, m.MatchedSequence}
	}
	return writeTable(path, '\t', mentionHeader, rows)
}

// WriteKeywordHits writes keyword pre-scan hits as TSV
func (r *Renderer) WriteKeywordHits(path string, hits []model.KeywordHit) error {
	rows := make([][]string, len(hits))
	for i, h := range hits {
		rows[i] = []string{h.SourceID, h.Section, h.Paragraph, h.Sentence, h.Text, h.Keyword}
	}
	return writeTable(path, '\t', keywordHeader, rows)
}

// formatPercent prints whole values with one decimal ("50.0") and others as-is ("33.33")
func formatPercent(p float64) string {
	if p == float64(int64(p)) {
		return strconv.FormatFloat(p, 'f', 1, 64)
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// WriteCorpusSummary prints the plain-text extraction summary
func (r *Renderer) WriteCorpusSummary(w io.Writer, s model.CorpusStats) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total articles processed: %d\n", s.TotalDocuments)
	fmt.Fprintf(&b, "Articles with matches: %d (%s%%)\n", s.MatchedDocuments,
		formatPercent(stats.Percentage(s.MatchedDocuments, s.TotalDocuments)))
	b.WriteString("Source IDs with matches:\n")
	for _, id := range s.MatchedIDs {
		b.WriteString(id)
		b.WriteByte('\n')
	}
	b.WriteString("\nFrequency of matches by section:\n")
	for _, c := range stats.SectionFrequencies(s.SectionCounts) {
		fmt.Fprintf(&b, "%s: %d\n", c.Key, c.Count)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCorpusSummaryFile writes the plain-text extraction summary to path
func (r *Renderer) WriteCorpusSummaryFile(path string, s model.CorpusStats) error {
	return writeAtomic(path, func(w io.Writer) error {
		return r.WriteCorpusSummary(w, s)
	})
}

// barWidth is the length of the longest bar in Markdown charts
const barWidth = 40

// WriteCorpusMarkdown writes the extraction summary with a per-section bar chart
func (r *Renderer) WriteCorpusMarkdown(path string, s model.CorpusStats, run model.RunInfo) error {
	return writeAtomic(path, func(w io.Writer) error {
		var b strings.Builder
		b.WriteString("# Peptide Extraction Summary\n\n")
		fmt.Fprintf(&b, "_Run %s, %s, peptidemine %s_\n\n", run.RunID, run.StartedAt.UTC().Format("2006-01-02 15:04:05 MST"), run.Version)

		b.WriteString("| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Articles processed | %d |\n", s.TotalDocuments)
		fmt.Fprintf(&b, "| Articles with matches | %d (%s%%) |\n", s.MatchedDocuments,
			formatPercent(stats.Percentage(s.MatchedDocuments, s.TotalDocuments)))
		if len(s.MissingDocuments) > 0 {
			fmt.Fprintf(&b, "| Missing documents | %d |\n", len(s.MissingDocuments))
		}

		freqs := stats.SectionFrequencies(s.SectionCounts)
		b.WriteString("\n## Matches by Section\n\n")
		if len(freqs) == 0 {
			b.WriteString("_No matches._\n")
		} else {
			top := 0
			for _, c := range freqs {
				if c.Count > top {
					top = c.Count
				}
			}
			b.WriteString("```\n")
			for _, c := range freqs {
				n := c.Count * barWidth / top
				if n == 0 {
					n = 1
				}
				fmt.Fprintf(&b, "%-22s %s %d\n", c.Key, strings.Repeat("█", n), c.Count)
			}
			b.WriteString("```\n")
		}

		if len(s.MatchedIDs) > 0 {
			b.WriteString("\n## Source IDs with Matches\n\n")
			for _, id := range s.MatchedIDs {
				fmt.Fprintf(&b, "- %s\n", id)
			}
		}

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func recordRow(r model.AggregatedRecord) []string {
	return []string{r.ID, r.Sequence, r.MechanismRaw, r.SourceIDs, r.OrganismClass, r.PrimaryMechanism, r.Subtype}
}

func recordFields(r model.AggregatedRecord) []fasta.Field {
	return []fasta.Field{
		{Key: "mechanism", Value: r.PrimaryMechanism},
		{Key: "subtype", Value: r.Subtype},
		{Key: "class", Value: r.OrganismClass},
		{Key: "source_ids", Value: r.SourceIDs},
	}
}

// WriteRecordsCSV writes canonical records as CSV
func (r *Renderer) WriteRecordsCSV(path string, records []model.AggregatedRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = recordRow(rec)
	}
	return writeTable(path, ',', recordHeader, rows)
}

// WriteRecordsFASTA writes canonical records with one-line sequences
func (r *Renderer) WriteRecordsFASTA(path string, records []model.AggregatedRecord) error {
	out := make([]fasta.Record, len(records))
	for i, rec := range records {
		out[i] = fasta.Record{
			Header:   fasta.FormatHeader(rec.ID, recordFields(rec)...),
			Sequence: rec.Sequence,
		}
	}
	return writeAtomic(path, func(w io.Writer) error {
		return fasta.Write(w, out, 0)
	})
}

type recordBody struct {
	Sequence         string `json:"sequence"`
	Mechanism        string `json:"mechanism"`
	SourceIDs        string `json:"source_ids"`
	OrganismClass    string `json:"organism_class"`
	PrimaryMechanism string `json:"primary_mechanism"`
	Subtype          string `json:"subtype"`
}

// WriteRecordsJSON writes an object keyed by identifier, in record order
func (r *Renderer) WriteRecordsJSON(path string, records []model.AggregatedRecord) error {
	return writeAtomic(path, func(w io.Writer) error {
		if len(records) == 0 {
			_, err := io.WriteString(w, "{}\n")
			return err
		}
		if _, err := io.WriteString(w, "{\n"); err != nil {
			return err
		}
		for i, rec := range records {
			key, err := json.Marshal(rec.ID)
			if err != nil {
				return err
			}
			body, err := json.MarshalIndent(recordBody{
				Sequence:         rec.Sequence,
				Mechanism:        rec.MechanismRaw,
				SourceIDs:        rec.SourceIDs,
				OrganismClass:    rec.OrganismClass,
				PrimaryMechanism: rec.PrimaryMechanism,
				Subtype:          rec.Subtype,
			}, "  ", "  ")
			if err != nil {
				return err
			}
			sep := ","
			if i == len(records)-1 {
				sep = ""
			}
			if _, err := fmt.Fprintf(w, "  %s: %s%s\n", key, body, sep); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "}\n")
		return err
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// WriteAnnotatedCSV writes records plus their reference match; nulls are empty cells
func (r *Renderer) WriteAnnotatedCSV(path string, records []model.AnnotatedRecord) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		pos := ""
		if rec.Match.Position != nil {
			pos = strconv.Itoa(*rec.Match.Position)
		}
		rows[i] = append(recordRow(rec.AggregatedRecord),
			deref(rec.Match.Accession),
			deref(rec.Match.EntryName),
			string(rec.Match.MatchType),
			pos,
		)
	}
	return writeTable(path, ',', annotatedHeader, rows)
}

// WriteAnnotatedFASTA writes records with match fields in the header, wrapped at 60 residues
func (r *Renderer) WriteAnnotatedFASTA(path string, records []model.AnnotatedRecord) error {
	out := make([]fasta.Record, len(records))
	for i, rec := range records {
		fields := append(recordFields(rec.AggregatedRecord),
			fasta.Field{Key: "uniprot", Value: derefOr(rec.Match.Accession, nullText)},
			fasta.Field{Key: "entry", Value: derefOr(rec.Match.EntryName, nullText)},
			fasta.Field{Key: "match_type", Value: string(rec.Match.MatchType)},
		)
		out[i] = fasta.Record{
			Header:   fasta.FormatHeader(rec.ID, fields...),
			Sequence: rec.Sequence,
		}
	}
	return writeAtomic(path, func(w io.Writer) error {
		return fasta.Write(w, out, annotatedWrapWidth)
	})
}

type annotatedBody struct {
	ID               string          `json:"id"`
	Sequence         string          `json:"sequence"`
	Mechanism        string          `json:"mechanism"`
	SourceIDs        string          `json:"source_ids"`
	OrganismClass    string          `json:"organism_class"`
	PrimaryMechanism string          `json:"primary_mechanism"`
	Subtype          string          `json:"subtype"`
	Accession        *string         `json:"uniprot_accession"`
	EntryName        *string         `json:"uniprot_entry"`
	MatchType        model.MatchType `json:"match_type"`
	Position         *int            `json:"match_position"`
}

// WriteAnnotatedJSON writes an array of annotated records; nulls stay null
func (r *Renderer) WriteAnnotatedJSON(path string, records []model.AnnotatedRecord) error {
	out := make([]annotatedBody, len(records))
	for i, rec := range records {
		out[i] = annotatedBody{
			ID:               rec.ID,
			Sequence:         rec.Sequence,
			Mechanism:        rec.MechanismRaw,
			SourceIDs:        rec.SourceIDs,
			OrganismClass:    rec.OrganismClass,
			PrimaryMechanism: rec.PrimaryMechanism,
			Subtype:          rec.Subtype,
			Accession:        rec.Match.Accession,
			EntryName:        rec.Match.EntryName,
			MatchType:        rec.Match.MatchType,
			Position:         rec.Match.Position,
		}
	}
	return writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	})
}

// WriteText writes pre-rendered text such as the LLM summary
func (r *Renderer) WriteText(path, text string) error {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}
