package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/llm"
	"github.com/papergrid/askdocs/pkg/retry"
)

// queryPromptTemplate asks the model to turn the conversation and the new
// question into one standalone search query.
const queryPromptTemplate = `Below is a history of the conversation so far, and a new question asked by the user that needs to be answered by searching in a knowledge base about products and releases.
Generate a search query based on the conversation and the new question.
Do not include cited source filenames and document names e.g info.txt or doc.pdf in the search query terms.
Do not include any text inside [] or <<>> in the search query terms.
If the question is not in English, translate the question to English before generating the search query.

Chat History:
{chat_history}

Question:
{question}

Search query:
`

// reformulateMaxTokens bounds the query completion; a search query is short.
const reformulateMaxTokens = 32

// Reformulator turns a conversation into a standalone search query with one
// completion call.
type Reformulator struct {
	client llm.Client
	retry  retry.Config
	logger *zap.Logger
}

// NewReformulator creates a Reformulator backed by the given completion client.
func NewReformulator(client llm.Client, retryCfg retry.Config, logger *zap.Logger) *Reformulator {
	return &Reformulator{
		client: client,
		retry:  retryCfg,
		logger: logger,
	}
}

// Reformulate produces the standalone search query for the history's
// in-flight turn. The transcript excludes the in-flight turn; the question is
// passed separately. An empty completion is a generation error.
func (r *Reformulator) Reformulate(ctx context.Context, history History) (string, error) {
	prompt, err := renderTemplate(queryPromptTemplate, map[string]string{
		"chat_history": history.Transcript(false, DefaultApproxMaxTokens),
		"question":     history.LastUser(),
	})
	if err != nil {
		return "", err
	}

	var text string
	err = retry.Do(ctx, r.retry, func(ctx context.Context) error {
		var completeErr error
		text, completeErr = r.client.Complete(ctx, llm.CompletionRequest{
			Messages:  []llm.Message{llm.NewUserMessage(prompt)},
			MaxTokens: reformulateMaxTokens,
			Stop:      []string{"\n"},
			N:         1,
		})
		return completeErr
	})
	if err != nil {
		return "", fmt.Errorf("reformulating query: %w", err)
	}

	query := strings.TrimSpace(text)
	if query == "" {
		return "", fmt.Errorf("%w: empty reformulated query", llm.ErrGeneration)
	}

	r.logger.Debug("reformulated query",
		zap.String("query", query),
	)

	return query, nil
}
