package config

const (
	// CurrentV is the currently supported config version.
	CurrentV = 0

	defaultListen = ":8080"

	defaultCompletionProvider = "ollama"
	defaultCompletionTarget   = "http://localhost:11434"
	defaultCompletionModel    = "llama3.2"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultVectorProvider   = "sqlite"
	defaultVectorTarget     = "askdocs.db"
	defaultVectorCollection = "askdocs"

	defaultRetryMaxAttempts = 6
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Completion: CompletionConfig{
			Provider: defaultCompletionProvider,
			Target:   defaultCompletionTarget,
			Model:    defaultCompletionModel,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			Collection: defaultVectorCollection,
		},
		Retry: RetryConfig{
			MaxAttempts: defaultRetryMaxAttempts,
		},
	}
}
