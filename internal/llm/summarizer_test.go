package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/peptidemine/internal/model"
	"github.com/ppiankov/peptidemine/internal/stats"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
	lastReq   SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func sampleFacts() DatasetFacts {
	return DatasetFacts{
		Records:    3,
		Documents:  2,
		Mechanisms: []stats.Count{{Key: "pore", Count: 2}, {Key: "carpet", Count: 1}},
	}
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	summarizer, err := NewSummarizer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleFacts(), nil)
	if err != nil || summary != nil {
		t.Errorf("Expected nil summary and error when disabled, got %v, %v", summary, err)
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestSummarizer_ProviderUnavailable(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: false},
		config:   Config{Strict: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleFacts(), nil)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected summary object with warnings")
	}
	if summary.Enabled {
		t.Error("Expected summary to be marked as disabled")
	}
	if len(summary.Warnings) == 0 || !strings.Contains(summary.Warnings[0], "not available") {
		t.Errorf("Expected warning about provider unavailability, got %v", summary.Warnings)
	}
}

func TestSummarizer_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &SummarizeResponse{
			Summary:    "Pore formers dominate, e.g. ABP0001 and ABP0002.",
			CitedIDs:   []string{"ABP0001", "ABP0002"},
			Model:      "test-model",
			TokensUsed: 150,
		},
	}
	summarizer := &Summarizer{
		provider: mock,
		config:   Config{Model: "test-model", Strict: true, MaxTokens: 300},
	}

	allowed := []string{"ABP0001", "ABP0002", "ABP0003"}
	summary, err := summarizer.GenerateSummary(context.Background(), sampleFacts(), allowed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.Enabled || summary.Provider != "test-provider" || summary.Model != "test-model" || !summary.Strict {
		t.Errorf("Unexpected summary metadata: %+v", summary)
	}
	if summary.SummaryMD != mock.response.Summary {
		t.Errorf("Expected summary text to match, got %q", summary.SummaryMD)
	}
	if len(mock.lastReq.AllowedIDs) != 3 || mock.lastReq.MaxTokens != 300 {
		t.Errorf("Unexpected request: %+v", mock.lastReq)
	}

	joined := strings.Join(summary.Warnings, "\n")
	if !strings.Contains(joined, "Tokens used: 150") || !strings.Contains(joined, "Verified 2 citations") {
		t.Errorf("Expected token and citation notes, got %v", summary.Warnings)
	}
}

func TestSummarizer_ProviderError(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: true, err: errors.New("API rate limit exceeded")},
		config:   Config{Strict: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleFacts(), nil)
	if err != nil {
		t.Errorf("Expected no error (graceful degradation), got %v", err)
	}
	if summary == nil || !summary.Enabled {
		t.Fatalf("Expected enabled summary carrying the failure, got %+v", summary)
	}

	found := false
	for _, w := range summary.Warnings {
		if strings.Contains(w, "failed") && strings.Contains(w, "rate limit") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected warning to mention error: %v", summary.Warnings)
	}
}

func TestRenderMarkdown(t *testing.T) {
	if RenderMarkdown(nil) != "" {
		t.Error("Expected empty markdown when nil")
	}
	if RenderMarkdown(&model.DatasetSummary{Enabled: false}) != "" {
		t.Error("Expected empty markdown when disabled")
	}

	md := RenderMarkdown(&model.DatasetSummary{
		Enabled:   true,
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		Strict:    true,
		SummaryMD: "Generated overview.",
		Warnings:  []string{"Tokens used: 150"},
	})
	for _, want := range []string{"# Dataset Summary", "GENERATED CONTENT", "openai", "gpt-4o-mini", "Generated overview.", "## Notes", "Tokens used: 150", "determined independently"} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	empty := RenderMarkdown(&model.DatasetSummary{Enabled: true, Provider: "x"})
	if !strings.Contains(empty, "No summary generated") {
		t.Error("Expected message about no summary")
	}
}

func TestBuildPrompt(t *testing.T) {
	facts := sampleFacts()
	facts.Matches = []stats.Count{{Key: "no_match", Count: 2}, {Key: "exact_match", Count: 1}}

	prompt := BuildPrompt(facts, []string{"ABP0001", "ABP0002"})
	for _, want := range []string{"ONLY mention record identifiers", "- ABP0001", "- ABP0002", "Records: 3", "Source documents: 2", "- pore: 2", "Reference database matches", "- no_match: 2"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestBuildPrompt_TruncatesIDs(t *testing.T) {
	ids := make([]string, maxPromptIDs+5)
	for i := range ids {
		ids[i] = "ABP"
	}
	if !strings.Contains(BuildPrompt(DatasetFacts{}, ids), "... and 5 more") {
		t.Error("Expected identifier list to be truncated")
	}
}

func TestExtractIDsAndCheckCitations(t *testing.T) {
	ids := ExtractIDs("See ABP0001, ABP0012 and ABP0001 again; XABP9 is not one.", "ABP")
	if len(ids) != 2 || ids[0] != "ABP0001" || ids[1] != "ABP0012" {
		t.Fatalf("Unexpected ids: %v", ids)
	}

	if err := CheckCitations(ids, []string{"ABP0001", "ABP0012"}); err != nil {
		t.Errorf("Expected allowed citations, got %v", err)
	}
	err := CheckCitations(ids, []string{"ABP0001"})
	if !errors.Is(err, ErrCitationLeak) || !strings.Contains(err.Error(), "ABP0012") {
		t.Errorf("Expected citation leak naming ABP0012, got %v", err)
	}
}
