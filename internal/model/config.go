package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds all runtime settings
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Metadata    MetadataConfig    `yaml:"metadata" mapstructure:"metadata"`
	Identifier  IdentifierConfig  `yaml:"identifier" mapstructure:"identifier"`
	Reference   ReferenceConfig   `yaml:"reference" mapstructure:"reference"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// CorpusConfig controls how article documents are located and read
type CorpusConfig struct {
	Extension   string `yaml:"extension" mapstructure:"extension"`       // File extension for ID-list lookups
	StripMarkup bool   `yaml:"strip_markup" mapstructure:"strip_markup"` // Remove inline HTML before matching
}

// MetadataConfig names the columns of the mechanism table (after header normalization)
type MetadataConfig struct {
	Columns ColumnConfig `yaml:"columns" mapstructure:"columns"`
}

// ColumnConfig maps logical fields to table columns
type ColumnConfig struct {
	Sequence  string `yaml:"sequence" mapstructure:"sequence"`
	Mechanism string `yaml:"mechanism" mapstructure:"mechanism"`
	SourceID  string `yaml:"source_id" mapstructure:"source_id"`
	Class     string `yaml:"class" mapstructure:"class"`
}

// IdentifierConfig controls minted identifiers
type IdentifierConfig struct {
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
	Width  int    `yaml:"width" mapstructure:"width"`
}

// ReferenceConfig controls loading of the reference protein database
type ReferenceConfig struct {
	Source            string        `yaml:"source" mapstructure:"source"`             // Path or http(s) URL
	DownloadDir       string        `yaml:"download_dir" mapstructure:"download_dir"` // Where URL sources are stored
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
}

// CacheConfig controls the reference match cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls parallel matching
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls exports
type OutputConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	Basename string `yaml:"basename" mapstructure:"basename"` // File stem for record exports
	Verbose  bool   `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures the optional dataset summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" disables
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Strict    bool   `yaml:"strict" mapstructure:"strict"` // Reject identifiers outside the dataset
}

// LogConfig controls the logger
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".peptidemine")

	return &Config{
		Corpus: CorpusConfig{
			Extension:   ".tsv",
			StripMarkup: false,
		},
		Metadata: MetadataConfig{
			Columns: ColumnConfig{
				Sequence:  "sequence",
				Mechanism: "mechanism",
				SourceID:  "pmc_id",
				Class:     "gram",
			},
		},
		Identifier: IdentifierConfig{
			Prefix: "ABP",
			Width:  4,
		},
		Reference: ReferenceConfig{
			DownloadDir:       filepath.Join(base, "reference"),
			UserAgent:         "peptidemine/0.3 (+https://github.com/ppiankov/peptidemine)",
			Timeout:           10 * time.Minute,
			RespectRobots:     true,
			RequestsPerSecond: 1,
			BurstSize:         1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(base, "cache"),
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Dir:      ".",
			Basename: "peptides",
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
			Strict:    true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
