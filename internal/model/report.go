package model

import "time"

// RunInfo identifies a single pipeline run in exported artifacts
type RunInfo struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Version   string    `json:"version"`
}

// DatasetSummary is the optional LLM-generated narrative about a dataset
// It never feeds back into records.
type DatasetSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	Strict    bool     `json:"strict"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
