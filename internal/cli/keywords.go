package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/peptidemine/internal/corpus"
	"github.com/ppiankov/peptidemine/internal/pipeline"
	"github.com/ppiankov/peptidemine/internal/stats"
)

var (
	keywordsIDs string
	keywordsExt string
	keywordsOut string
)

// keywordsCmd represents the keywords command
var keywordsCmd = &cobra.Command{
	Use:   "keywords <corpus-dir>",
	Short: "Pre-screen listed articles for mechanism keywords",
	Long: `Keywords checks each listed article for whole-word, case-insensitive
mentions of mechanism terms (pore, carpet, mechanism, membrane permeability,
barrel-stave) so annotators can prioritize which articles to read.

Listed documents missing from <corpus-dir> are reported and excluded from totals.

Example:
  peptidemine keywords ./corpus --ids pmc_ids.txt
  peptidemine keywords ./corpus --ids pmc_ids.txt --out mechanism_hits.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywords,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)

	keywordsCmd.Flags().StringVar(&keywordsIDs, "ids", "", "file listing document ids to check (required)")
	keywordsCmd.Flags().StringVar(&keywordsExt, "ext", "", "document file extension (default from config)")
	keywordsCmd.Flags().StringVar(&keywordsOut, "out", "keyword_hits.tsv", "output TSV of keyword hits")
	_ = keywordsCmd.MarkFlagRequired("ids")
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if keywordsExt != "" {
		cfg.Corpus.Extension = keywordsExt
	}

	refs, err := corpus.IDListRefs(args[0], keywordsIDs, cfg.Corpus.Extension)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg, newLogger(cfg), Version)
	result, err := p.Keywords(refs)
	if err != nil {
		return fmt.Errorf("keyword scan failed: %w", err)
	}

	if err := p.Renderer().WriteKeywordHits(keywordsOut, result.Hits); err != nil {
		return fmt.Errorf("write keyword hits: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ %d keyword hits written to %s\n", len(result.Hits), keywordsOut)

	t := result.Tally
	fmt.Println()
	fmt.Printf("Total articles checked: %d\n", t.Checked)
	fmt.Printf("Articles with hits: %d (%.2f%%)\n", t.WithHits, stats.Percentage(t.WithHits, t.Checked))
	if len(t.Missing) > 0 {
		fmt.Printf("Articles not found: %d\n", len(t.Missing))
	}
	if len(t.WithoutHits) > 0 {
		fmt.Println("Articles without hits:")
		for _, id := range t.WithoutHits {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}
