package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/pipeline"
	"github.com/ppiankov/peptidemine/internal/stats"
)

var (
	matchReference string
	matchWorkers   int
	matchNoCache   bool
	matchTimeout   time.Duration
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match <records.fasta>",
	Short: "Cross-reference records against a reference protein database",
	Long: `Match looks up every record sequence in a reference FASTA database
(plain or gzip, local path or http(s) URL) and reports, for the first
entry in file order that equals or contains it, the accession, entry name,
match type (exact_match, subsequence, no_match) and 0-based position.

URL sources are downloaded once into reference.download_dir, honouring
robots.txt and the configured rate limit. Results are cached per reference
digest unless --no-cache is given.

Example:
  peptidemine match peptides.fasta --reference uniprot_sprot.fasta.gz
  peptidemine match peptides.fasta --reference https://example.org/sprot.fasta.gz --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	addMatchFlags(matchCmd)
	matchCmd.Flags().StringVar(&buildOutDir, "out-dir", "", "output directory (default from config)")
	addLLMFlags(matchCmd)
}

func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&matchReference, "reference", "", "reference FASTA path or URL (default from config)")
	cmd.Flags().IntVar(&matchWorkers, "workers", 0, "number of matching workers (default from config)")
	cmd.Flags().BoolVar(&matchNoCache, "no-cache", false, "disable the match cache")
	cmd.Flags().DurationVar(&matchTimeout, "timeout", 0, "overall timeout, 0 for none")
}

func applyMatchFlags(cfg *model.Config) error {
	if matchReference != "" {
		cfg.Reference.Source = matchReference
	}
	if cfg.Reference.Source == "" {
		return fmt.Errorf("no reference database: pass --reference or set reference.source")
	}
	if matchWorkers > 0 {
		cfg.Concurrency.Workers = matchWorkers
	}
	if matchNoCache {
		cfg.Cache.Enabled = false
	}
	return nil
}

// matchContext cancels on interrupt and, when set, after --timeout
func matchContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(signalContext(cmd), os.Interrupt)
	if matchTimeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, matchTimeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBuildFlags(cfg)
	if err := applyMatchFlags(cfg); err != nil {
		return err
	}

	ctx, cancel := matchContext(cmd)
	defer cancel()

	p := pipeline.NewPipeline(cfg, newLogger(cfg), Version)
	records, err := p.LoadRecordsFASTA(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d records from %s\n", len(records), args[0])

	return matchAndExport(ctx, p, cfg, records)
}

func matchAndExport(ctx context.Context, p *pipeline.Pipeline, cfg *model.Config, records []model.AggregatedRecord) error {
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Reference: %s\n", cfg.Reference.Source)
		fmt.Fprintf(os.Stderr, "Workers:   %d\n", cfg.Concurrency.Workers)
		fmt.Fprintf(os.Stderr, "Cache:     %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	start := time.Now()
	result, err := p.Match(ctx, records)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Matched %d records against %d reference entries in %s\n",
		len(result.Records), len(result.Reference.Entries), time.Since(start).Round(time.Millisecond))

	out, err := p.ExportAnnotated(cfg.Output.Dir, result.Records)
	if err != nil {
		return err
	}
	printOutputs(out)

	results := pipeline.MatchResults(result.Records)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Match Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Records:   %d\n", len(results))
	for _, c := range stats.MatchDistribution(results) {
		fmt.Fprintf(os.Stderr, "  %-12s %d (%.2f%%)\n", c.Key+":", c.Count, stats.Percentage(c.Count, len(results)))
	}
	fmt.Fprintf(os.Stderr, "  Run:       %s\n", p.Run().RunID)
	fmt.Fprintf(os.Stderr, "\n")

	if summary := p.Summarize(ctx, records, results); summary != nil {
		return exportSummary(p, cfg.Output.Dir, summary)
	}
	return nil
}
