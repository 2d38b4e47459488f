// Package llmutils is the completion client utility package
package llmutils

import (
	"fmt"
	"os"

	"github.com/papergrid/askdocs/pkg/llm"
	"github.com/papergrid/askdocs/pkg/llm/provider/anthropic"
	"github.com/papergrid/askdocs/pkg/llm/provider/ollama"
	"github.com/papergrid/askdocs/pkg/llm/provider/openai"
)

type NewClientOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

// NewClient creates a completion client for the configured provider.
// API keys fall back to the conventional environment variables
// (OPENAI_API_KEY, ANTHROPIC_API_KEY) when not set explicitly.
func NewClient(o *NewClientOpts) (llm.Client, error) {
	switch o.ProviderType {
	case "openai":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewClient(openai.Config{
			BaseURL: o.TargetURL,
			APIKey:  apiKey,
			Model:   o.Model,
		})
	case "anthropic":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		return anthropic.NewClient(anthropic.Config{
			BaseURL: o.TargetURL,
			APIKey:  apiKey,
			Model:   o.Model,
		})
	case "ollama":
		return ollama.NewClient(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", o.ProviderType)
	}
}
