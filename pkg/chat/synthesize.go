package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/llm"
	"github.com/papergrid/askdocs/pkg/retry"
)

// synthesisMaxTokens is the output budget for the final answer.
const synthesisMaxTokens = 1024

// synthesisStop matches the prompt's own block delimiters so the model cannot
// spill into fabricated system or user turns.
var synthesisStop = []string{"<|im_end|>", "<|im_start|>"}

// Synthesizer issues the final generation call and post-processes the raw
// text into a cited answer.
type Synthesizer struct {
	client llm.Client
	retry  retry.Config
	logger *zap.Logger
}

// NewSynthesizer creates a Synthesizer backed by the given completion client.
func NewSynthesizer(client llm.Client, retryCfg retry.Config, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		client: client,
		retry:  retryCfg,
		logger: logger,
	}
}

// Synthesize completes the assembled prompt at the given temperature and
// appends the citation suffix for the first retrieved passage. When no
// passages were retrieved the citation is skipped and the raw answer is
// returned unannotated; the prompt's own instructions make the model say it
// doesn't know.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string, temperature float64, passages []Passage) (string, error) {
	var text string
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		var completeErr error
		text, completeErr = s.client.Complete(ctx, llm.CompletionRequest{
			Messages:    []llm.Message{llm.NewUserMessage(prompt)},
			MaxTokens:   synthesisMaxTokens,
			Temperature: temperature,
			Stop:        synthesisStop,
		})
		return completeErr
	})
	if err != nil {
		return "", fmt.Errorf("synthesizing answer: %w", err)
	}

	answer := strings.TrimSpace(text)

	if len(passages) > 0 {
		first := passages[0]
		answer += fmt.Sprintf("  [Citation - Page: %d, Document Path: %s]", first.Page, first.Source)
	}

	s.logger.Debug("synthesized answer",
		zap.Int("passages", len(passages)),
		zap.Int("answer_len", len(answer)),
	)

	return answer, nil
}

// Thoughts renders the human-readable trace of a pipeline run: the standalone
// query and the fully rendered prompt, with line breaks converted to an
// explicit marker for display.
func Thoughts(query, prompt string) string {
	return "Searched for:<br>" + query + "<br><br>Prompt:<br>" + strings.ReplaceAll(prompt, "\n", "<br>")
}
