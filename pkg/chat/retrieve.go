package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/embeddings"
	"github.com/papergrid/askdocs/pkg/retry"
	"github.com/papergrid/askdocs/pkg/utils"
	"github.com/papergrid/askdocs/pkg/vector"
)

// Metadata keys the retriever reads from stored passages.
const (
	metadataSource   = "source"
	metadataPage     = "page"
	metadataCategory = "category"
)

// Passage is one retrieved source passage. Read-only; its lifetime is the
// single Run call that retrieved it.
type Passage struct {
	Content string
	Source  string
	Page    int
	Score   float32
}

// DataPoint renders the passage as the "source:content" form used both in
// the prompt's sources block and in the response's data points, with inner
// line breaks collapsed.
func (p Passage) DataPoint() string {
	return p.Source + ":" + nonewlines(p.Content)
}

// Retriever wraps the embedder and vector store behind the pipeline's
// retrieval stage.
type Retriever struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	retry    retry.Config
	logger   *zap.Logger
}

// NewRetriever creates a Retriever over the given embedder and vector driver.
func NewRetriever(embedder embeddings.Embedder, driver vector.Driver, retryCfg retry.Config, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		driver:   driver,
		retry:    retryCfg,
		logger:   logger,
	}
}

// Retrieve embeds the standalone query and returns up to limit passages in
// the store's relevance order. When excludeCategory is set, passages whose
// category metadata equals it are excluded. Zero results is a valid outcome,
// not an error.
func (r *Retriever) Retrieve(ctx context.Context, query, excludeCategory string, limit int) ([]Passage, error) {
	var filter string
	if excludeCategory != "" {
		filter = vector.NotEquals(metadataCategory, excludeCategory)
	}

	var embedding []float32
	err := retry.Do(ctx, r.retry, func(ctx context.Context) error {
		var embedErr error
		embedding, embedErr = r.embedder.Embed(ctx, query)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	var results []vector.QueryResult
	err = retry.Do(ctx, r.retry, func(ctx context.Context) error {
		var queryErr error
		results, queryErr = r.driver.Query(ctx, embedding, filter, limit)
		return queryErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	passages := make([]Passage, 0, len(results))
	for _, result := range results {
		passages = append(passages, Passage{
			Content: result.Content,
			Source:  metadataString(result.Metadata, metadataSource),
			Page:    metadataInt(result.Metadata, metadataPage),
			Score:   result.Score,
		})
	}

	r.logger.Debug("retrieved passages",
		zap.String("query", utils.Truncate(query, 120)),
		zap.String("filter", filter),
		zap.Int("count", len(passages)),
	)

	return passages, nil
}

func metadataString(metadata map[string]any, key string) string {
	if s, ok := metadata[key].(string); ok {
		return s
	}
	return ""
}

// metadataInt tolerates the numeric types different stores hand back for
// what is logically an int.
func metadataInt(metadata map[string]any, key string) int {
	switch v := metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
