package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/embeddings"
	"github.com/papergrid/askdocs/pkg/llm"
	"github.com/papergrid/askdocs/pkg/retry"
	"github.com/papergrid/askdocs/pkg/vector"
)

// Strategy keys for the retrieve-then-read pipeline. KeyRetrieveThenReadCompat
// is the key older clients still send.
const (
	KeyRetrieveThenRead       = "rtr"
	KeyRetrieveThenReadCompat = "crs"
)

// RetrieveThenRead is the simple retrieve-then-read strategy: one query
// reformulation, one similarity search, one grounded synthesis. Stages run
// strictly in sequence; the first failing stage aborts the run.
type RetrieveThenRead struct {
	reformulator *Reformulator
	retriever    *Retriever
	synthesizer  *Synthesizer
	logger       *zap.Logger
}

// NewRetrieveThenRead wires a RetrieveThenRead strategy from its
// collaborators. All dependencies are read-only after construction and shared
// safely across concurrent runs.
func NewRetrieveThenRead(
	client llm.Client,
	embedder embeddings.Embedder,
	driver vector.Driver,
	retryCfg retry.Config,
	logger *zap.Logger,
) *RetrieveThenRead {
	return &RetrieveThenRead{
		reformulator: NewReformulator(client, retryCfg, logger),
		retriever:    NewRetriever(embedder, driver, retryCfg, logger),
		synthesizer:  NewSynthesizer(client, retryCfg, logger),
		logger:       logger,
	}
}

// Run executes the four pipeline stages for one request. Errors propagate
// unwrapped in meaning: generation failures carry llm.ErrGeneration,
// retrieval failures ErrRetrieval, template failures ErrMalformedOverride.
func (s *RetrieveThenRead) Run(ctx context.Context, history History, overrides Overrides) (*Result, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	o := overrides.withDefaults()
	start := time.Now()

	query, err := s.reformulator.Reformulate(ctx, history)
	if err != nil {
		return nil, err
	}

	passages, err := s.retriever.Retrieve(ctx, query, o.ExcludeCategory, o.Top)
	if err != nil {
		return nil, err
	}

	prompt, err := AssemblePrompt(passages, history, o.SuggestFollowupQuestions, o.PromptTemplate)
	if err != nil {
		return nil, err
	}

	answer, err := s.synthesizer.Synthesize(ctx, prompt, o.Temperature, passages)
	if err != nil {
		return nil, err
	}

	dataPoints := make([]string, len(passages))
	for i, p := range passages {
		dataPoints[i] = p.DataPoint()
	}

	s.logger.Debug("pipeline complete",
		zap.String("query", query),
		zap.Int("passages", len(passages)),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Answer:     answer,
		DataPoints: dataPoints,
		Thoughts:   Thoughts(query, prompt),
	}, nil
}
