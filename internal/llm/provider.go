// Package llm produces an optional narrative summary of a finished dataset.
// Its output is written alongside the exports and never feeds back into records.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/peptidemine/internal/stats"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a summary of the dataset facts
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// DatasetFacts are the figures handed to the model; it sees nothing else
type DatasetFacts struct {
	Records    int
	Documents  int           // Distinct source documents across records
	Mechanisms []stats.Count // Per primary mechanism
	Matches    []stats.Count // Per match type, empty before matching
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	Facts DatasetFacts

	// AllowedIDs is the allowlist of record identifiers the model may cite
	AllowedIDs []string

	// Prompt overrides BuildPrompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	CitedIDs   []string // Identifiers found in the summary
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string // Any OpenAI-compatible endpoint

	Timeout int // seconds

	// Strict rejects summaries citing identifiers outside the allowlist
	Strict bool

	MaxTokens int

	// IDPrefix is the record identifier prefix used to spot citations
	IDPrefix string
}

// maxPromptIDs caps how many identifiers are listed in the prompt
const maxPromptIDs = 50

// BuildPrompt constructs the default prompt
func BuildPrompt(facts DatasetFacts, allowedIDs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are describing a curated dataset of antibacterial peptide sequences mined from literature.

RULES:
1. You may ONLY mention record identifiers from this list:
%s

2. DO NOT invent sequences, identifiers, organisms or mechanisms.
3. Describe the dataset composition; do not make claims about efficacy.

Dataset:
- Records: %d
- Source documents: %d
`, joinIDs(allowedIDs), facts.Records, facts.Documents)

	b.WriteString("\nMechanisms:\n")
	writeCounts(&b, facts.Mechanisms)

	if len(facts.Matches) > 0 {
		b.WriteString("\nReference database matches:\n")
		writeCounts(&b, facts.Matches)
	}

	b.WriteString("\nWrite a 3-5 sentence overview in Markdown.")
	return b.String()
}

func writeCounts(b *strings.Builder, counts []stats.Count) {
	if len(counts) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(b, "- %s: %d\n", c.Key, c.Count)
	}
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "(no identifiers)"
	}
	var b strings.Builder
	for i, id := range ids {
		if i >= maxPromptIDs {
			fmt.Fprintf(&b, "\n... and %d more", len(ids)-maxPromptIDs)
			break
		}
		fmt.Fprintf(&b, "\n- %s", id)
	}
	return b.String()
}
