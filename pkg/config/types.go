// Package config holds the askdocs configuration: a config.toml file layered
// under ASKDOCS_* environment variables and CLI flags via viper.
package config

// Config represents the persistent askdocs configuration stored as
// config.toml. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Server      ServerConfig      `toml:"server"`
	Completion  CompletionConfig  `toml:"completion"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Retry       RetryConfig       `toml:"retry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// CompletionConfig holds completion model provider settings. API keys are
// never stored in the file; they come from the environment.
type CompletionConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// RetryConfig bounds the backoff applied to remote model and index calls.
type RetryConfig struct {
	MaxAttempts int `toml:"max_attempts,omitempty"`
}
