package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
)

// Summarizer wraps a Provider and turns failures into warnings
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; a disabled config yields a no-op summarizer
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary returns nil when disabled. Provider problems are reported as
// warnings on the returned summary, never as an error.
func (s *Summarizer) GenerateSummary(ctx context.Context, facts DatasetFacts, allowedIDs []string) (*model.DatasetSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.DatasetSummary{
		Provider: s.provider.Name(),
		Model:    s.config.Model,
		Strict:   s.config.Strict,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available", s.provider.Name()))
		return summary, nil
	}
	summary.Enabled = true

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Facts:      facts,
		AllowedIDs: allowedIDs,
		Model:      s.config.Model,
		MaxTokens:  s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Summary generation failed: %v", err))
		return summary, nil
	}

	summary.Model = resp.Model
	summary.SummaryMD = resp.Summary
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if len(resp.CitedIDs) > 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Verified %d citations", len(resp.CitedIDs)))
	}
	return summary, nil
}

// RenderMarkdown renders a summary as a standalone Markdown document.
// It returns "" for nil or disabled summaries.
func RenderMarkdown(summary *model.DatasetSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# Dataset Summary\n\n")
	b.WriteString("> GENERATED CONTENT. Records, identifiers and matches in the exported files were\n")
	b.WriteString("> determined independently of this text.\n\n")
	fmt.Fprintf(&b, "- **Provider**: %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model**: %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict identifiers**: %t\n\n", summary.Strict)

	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}
