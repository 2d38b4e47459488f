// Package embeddingutils is the embeddings utility package
package embeddingutils

import (
	"fmt"
	"os"

	"github.com/papergrid/askdocs/pkg/embeddings"
	"github.com/papergrid/askdocs/pkg/embeddings/ollama"
	"github.com/papergrid/askdocs/pkg/embeddings/openai"
)

type NewEmbedderOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
}

// NewEmbedder creates an embedder for the configured provider.
func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	switch o.ProviderType {
	case "ollama":
		return ollama.NewEmbedder(ollama.EmbedderConfig{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	case "openai":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewEmbedder(openai.EmbedderConfig{
			BaseURL: o.TargetURL,
			APIKey:  apiKey,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
