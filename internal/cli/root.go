package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/peptidemine/internal/logging"
	"github.com/ppiankov/peptidemine/internal/model"
)

// Version is the release version, overridable with -ldflags
var Version = "v0.3.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "peptidemine",
	Short: "peptidemine - Antimicrobial peptide mining from article corpora",
	Long: `peptidemine mines candidate antimicrobial peptide sequences from
segmented scientific articles and turns annotated mentions into a
deduplicated, identified dataset.

Stages:
  extract   find peptide-like sequences in a corpus
  keywords  pre-screen articles for mechanism keywords
  build     merge an annotated mechanism table into canonical records
  match     cross-reference records against a reference protein database
  run       build + match in one go`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of peptidemine.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("peptidemine %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.peptidemine/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (implies --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".peptidemine"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// PEPTIDEMINE_REFERENCE_SOURCE overrides reference.source, and so on
	viper.SetEnvPrefix("PEPTIDEMINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env vars resolve during Unmarshal
func setDefaults(cfg *model.Config) {
	defaults := map[string]any{
		"corpus.extension":              cfg.Corpus.Extension,
		"corpus.strip_markup":           cfg.Corpus.StripMarkup,
		"metadata.columns.sequence":     cfg.Metadata.Columns.Sequence,
		"metadata.columns.mechanism":    cfg.Metadata.Columns.Mechanism,
		"metadata.columns.source_id":    cfg.Metadata.Columns.SourceID,
		"metadata.columns.class":        cfg.Metadata.Columns.Class,
		"identifier.prefix":             cfg.Identifier.Prefix,
		"identifier.width":              cfg.Identifier.Width,
		"reference.source":              cfg.Reference.Source,
		"reference.download_dir":        cfg.Reference.DownloadDir,
		"reference.user_agent":          cfg.Reference.UserAgent,
		"reference.timeout":             cfg.Reference.Timeout,
		"reference.respect_robots":      cfg.Reference.RespectRobots,
		"reference.requests_per_second": cfg.Reference.RequestsPerSecond,
		"reference.burst_size":          cfg.Reference.BurstSize,
		"reference.http_proxy":          cfg.Reference.HTTPProxy,
		"reference.https_proxy":         cfg.Reference.HTTPSProxy,
		"cache.enabled":                 cfg.Cache.Enabled,
		"cache.dir":                     cfg.Cache.Dir,
		"cache.memory_ttl":              cfg.Cache.MemoryTTL,
		"cache.disk_ttl":                cfg.Cache.DiskTTL,
		"concurrency.workers":           cfg.Concurrency.Workers,
		"output.dir":                    cfg.Output.Dir,
		"output.basename":               cfg.Output.Basename,
		"output.verbose":                cfg.Output.Verbose,
		"llm.provider":                  cfg.LLM.Provider,
		"llm.model":                     cfg.LLM.Model,
		"llm.api_key":                   cfg.LLM.APIKey,
		"llm.base_url":                  cfg.LLM.BaseURL,
		"llm.timeout":                   cfg.LLM.Timeout,
		"llm.max_tokens":                cfg.LLM.MaxTokens,
		"llm.strict":                    cfg.LLM.Strict,
		"log.level":                     cfg.Log.Level,
	}
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// loadConfig resolves the effective configuration (flags > env > file > defaults)
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Output.Verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.BaseURL == "" && cfg.LLM.Provider == "ollama" {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) *log.Logger {
	return logging.New(os.Stderr, cfg.Log.Level)
}
