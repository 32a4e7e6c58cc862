package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/peptidemine/internal/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <metadata>",
	Short: "Build records and match them against the reference database",
	Long: `Run performs build and match in one pass: canonical records are exported,
then cross-referenced and exported again with the _annotated suffix.

Example:
  peptidemine run mechanisms.csv --reference uniprot_sprot.fasta.gz
  peptidemine run mechanisms.csv --catalog previous.csv --reference sprot.fasta --out-dir ./dataset --llm ollama`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addBuildFlags(runCmd)
	addMatchFlags(runCmd)
	addLLMFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
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
	built, err := buildRecords(p, args[0])
	if err != nil {
		return err
	}
	out, err := p.ExportRecords(cfg.Output.Dir, built.Records)
	if err != nil {
		return err
	}
	printOutputs(out)

	return matchAndExport(ctx, p, cfg, built.Records)
}
