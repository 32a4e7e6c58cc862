package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/peptidemine/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name disables summaries and returns nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)
	case "ollama":
		return NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig, idPrefix string) Config {
	return Config{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		Strict:    c.Strict,
		MaxTokens: c.MaxTokens,
		IDPrefix:  idPrefix,
	}
}
