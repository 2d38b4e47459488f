// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/api"
	"github.com/papergrid/askdocs/pkg/chat"
	"github.com/papergrid/askdocs/pkg/config"
	embeddingutils "github.com/papergrid/askdocs/pkg/embeddings/utils"
	llmutils "github.com/papergrid/askdocs/pkg/llm/utils"
	"github.com/papergrid/askdocs/pkg/logger"
	"github.com/papergrid/askdocs/pkg/retry"
	vectorutils "github.com/papergrid/askdocs/pkg/vector/utils"
)

type ServeCommander struct {
	configDir string
	listen    string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the Askdocs API server.

The server answers POST /v1/chat requests by reformulating the conversation
into a search query, retrieving matching passages from the vector store, and
synthesizing a cited answer with the completion model.

Configuration is read from config.toml in the config directory, overridden
by ASKDOCS_* environment variables and flags.

Examples:
  askdocs serve
  askdocs serve --listen :9090
  ASKDOCS_VECTOR_STORE_PROVIDER=qdrant askdocs serve`

const serveShortDesc string = "Run the Askdocs API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.configDir, "config-dir", "c", "", "Directory containing config.toml (default: current directory)")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the API server to listen on (overrides config)")

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg := config.FromViper(v)
	if c.listen != "" {
		cfg.Server.Listen = c.listen
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	driver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType:   cfg.VectorStore.Provider,
		Target:         cfg.VectorStore.Target,
		CollectionName: cfg.VectorStore.Collection,
		Dimensions:     cfg.Embedding.Dimensions,
		Logger:         c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector driver: %w", err)
	}
	defer driver.Close()

	client, err := llmutils.NewClient(&llmutils.NewClientOpts{
		ProviderType: cfg.Completion.Provider,
		TargetURL:    cfg.Completion.Target,
		Model:        cfg.Completion.Model,
	})
	if err != nil {
		return fmt.Errorf("creating completion client: %w", err)
	}
	defer client.Close()

	retryCfg := retry.DefaultConfig()
	if cfg.Retry.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.Retry.MaxAttempts
	}

	registry := chat.NewRegistry()
	rtr := chat.NewRetrieveThenRead(client, embedder, driver, retryCfg, c.logger)
	registry.Register(chat.KeyRetrieveThenRead, rtr)
	registry.Register(chat.KeyRetrieveThenReadCompat, rtr)

	c.logger.Info("configured pipeline",
		zap.String("completion_provider", cfg.Completion.Provider),
		zap.String("completion_model", cfg.Completion.Model),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("vector_store", cfg.VectorStore.Provider),
		zap.String("collection", cfg.VectorStore.Collection),
	)

	apiConfig := api.Config{
		ListenAddr: cfg.Server.Listen,
	}
	apiServer := api.NewServer(apiConfig, registry, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}
