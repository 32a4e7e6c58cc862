package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/peptidemine/internal/corpus"
	"github.com/ppiankov/peptidemine/internal/pipeline"
)

var (
	extractIDs         string
	extractExt         string
	extractMatches     string
	extractSummary     string
	extractMD          string
	extractStripMarkup bool
	extractAnnotate    string
	extractCatalog     string
	extractOutDir      string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <corpus-dir>",
	Short: "Find candidate peptide sequences in a segmented corpus",
	Long: `Extract scans every sentence of a segmented article corpus for runs of
10-60 standard amino acid residues, discarding pure DNA (ACGT) runs.

Each corpus file is headerless TSV: section, paragraph, sentence, text, source_id.
Without --ids every file in <corpus-dir> is read; with --ids only the listed
documents are read and missing ones are reported.

Example:
  peptidemine extract ./corpus
  peptidemine extract ./corpus --ids pmc_ids.txt --matches hits.tsv --md summary.md
  peptidemine extract ./corpus --annotate mechanisms.csv --out-dir ./dataset`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractIDs, "ids", "", "file listing document ids to read (one per line)")
	extractCmd.Flags().StringVar(&extractExt, "ext", "", "document file extension used with --ids (default from config)")
	extractCmd.Flags().StringVar(&extractMatches, "matches", "matches.tsv", "output TSV of raw mentions")
	extractCmd.Flags().StringVar(&extractSummary, "summary", "", "also write the text summary to this path")
	extractCmd.Flags().StringVar(&extractMD, "md", "", "output Markdown summary path (optional)")
	extractCmd.Flags().BoolVar(&extractStripMarkup, "strip-markup", false, "remove inline HTML from sentences before matching")
	extractCmd.Flags().StringVar(&extractAnnotate, "annotate", "", "mechanism table used to build records from the mentions")
	extractCmd.Flags().StringVar(&extractCatalog, "catalog", "", "identifier catalog with sequence and id columns (with --annotate)")
	extractCmd.Flags().StringVar(&extractOutDir, "out-dir", "", "output directory for records (with --annotate)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("strip-markup") {
		cfg.Corpus.StripMarkup = extractStripMarkup
	}
	if extractExt != "" {
		cfg.Corpus.Extension = extractExt
	}
	if extractOutDir != "" {
		cfg.Output.Dir = extractOutDir
	}

	var refs []corpus.DocumentRef
	if extractIDs != "" {
		refs, err = corpus.IDListRefs(dir, extractIDs, cfg.Corpus.Extension)
	} else {
		refs, err = corpus.DirectoryRefs(dir)
	}
	if err != nil {
		return err
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Corpus: %s (%d documents)\n", dir, len(refs))
		fmt.Fprintf(os.Stderr, "Strip markup: %v\n", cfg.Corpus.StripMarkup)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, newLogger(cfg), Version)
	result, err := p.Extract(refs)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	r := p.Renderer()
	if err := r.WriteMentions(extractMatches, result.Mentions); err != nil {
		return fmt.Errorf("write mentions: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ %d mentions written to %s\n", len(result.Mentions), extractMatches)

	if extractSummary != "" {
		if err := r.WriteCorpusSummaryFile(extractSummary, result.Stats); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Summary written to %s\n", extractSummary)
	}
	if extractMD != "" {
		if err := r.WriteCorpusMarkdown(extractMD, result.Stats, p.Run()); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Markdown summary written to %s\n", extractMD)
	}

	if extractAnnotate != "" {
		rows, err := p.LoadMetadata(extractAnnotate)
		if err != nil {
			return err
		}
		catalog, err := p.LoadCatalog(extractCatalog)
		if err != nil {
			return err
		}
		built, err := p.Build(pipeline.AnnotateMentions(result.Mentions, rows), catalog)
		if err != nil {
			return err
		}
		out, err := p.ExportRecords(cfg.Output.Dir, built.Records)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ %d records written to %s\n", len(built.Records), filepath.Dir(out.CSV))
	}

	fmt.Fprintln(os.Stderr)
	return r.WriteCorpusSummary(os.Stdout, result.Stats)
}
