package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/pipeline"
)

var (
	buildCatalog string
	buildPrefix  string
	buildOutDir  string
	llmProvider  string
	llmModel     string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <metadata>",
	Short: "Build canonical, identified records from a mechanism table",
	Long: `Build groups an annotated mechanism table (CSV or TSV) by sequence,
merges mechanism phrases, source ids and organism classes, assigns a
canonical mechanism label and a stable identifier to every sequence,
validates the result and exports CSV, FASTA and JSON.

Rows without any mechanism are dropped. Identifiers from --catalog are
reused; new ones are minted past any identifier already taken.

Example:
  peptidemine build mechanisms.csv
  peptidemine build mechanisms.csv --catalog previous.csv --out-dir ./dataset
  peptidemine build mechanisms.csv --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	addBuildFlags(buildCmd)
	addLLMFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&buildCatalog, "catalog", "", "identifier catalog with sequence and id columns")
	cmd.Flags().StringVar(&buildPrefix, "prefix", "", "identifier prefix (default from config)")
	cmd.Flags().StringVar(&buildOutDir, "out-dir", "", "output directory (default from config)")
}

func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&llmProvider, "llm", "", "generate a narrative summary with this provider (openai, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// applyBuildFlags copies explicitly set flags over the loaded config
func applyBuildFlags(cfg *model.Config) {
	if buildPrefix != "" {
		cfg.Identifier.Prefix = buildPrefix
	}
	if buildOutDir != "" {
		cfg.Output.Dir = buildOutDir
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyBuildFlags(cfg)

	p := pipeline.NewPipeline(cfg, newLogger(cfg), Version)
	built, err := buildRecords(p, args[0])
	if err != nil {
		return err
	}

	out, err := p.ExportRecords(cfg.Output.Dir, built.Records)
	if err != nil {
		return err
	}
	printOutputs(out)

	if summary := p.Summarize(cmd.Context(), built.Records, nil); summary != nil {
		return exportSummary(p, cfg.Output.Dir, summary)
	}
	return nil
}

func buildRecords(p *pipeline.Pipeline, metadata string) (*pipeline.BuildResult, error) {
	rows, err := p.LoadMetadata(metadata)
	if err != nil {
		return nil, err
	}
	catalog, err := p.LoadCatalog(buildCatalog)
	if err != nil {
		return nil, err
	}

	built, err := p.Build(rows, catalog)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Built %d records from %d rows\n", len(built.Records), len(rows))
	if n := len(built.Issues); n > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  %d validation warnings\n", n)
	}
	return built, nil
}

func printOutputs(out pipeline.OutputPaths) {
	fmt.Fprintf(os.Stderr, "✓ CSV written to %s\n", out.CSV)
	fmt.Fprintf(os.Stderr, "✓ FASTA written to %s\n", out.FASTA)
	fmt.Fprintf(os.Stderr, "✓ JSON written to %s\n", out.JSON)
}

func exportSummary(p *pipeline.Pipeline, dir string, summary *model.DatasetSummary) error {
	path, err := p.ExportSummary(dir, summary)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(os.Stderr, "✓ LLM summary written to %s (%s/%s)\n", path, summary.Provider, summary.Model)
	}
	return nil
}

// signalContext is the parent context for long-running commands
func signalContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
