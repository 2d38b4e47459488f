package chat_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/chat"
	"github.com/papergrid/askdocs/pkg/llm"
	"github.com/papergrid/askdocs/pkg/retry"
	testutils "github.com/papergrid/askdocs/pkg/utils/test"
)

// fastRetry keeps test retries from sleeping.
func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, BaseWait: time.Nanosecond, MaxWait: time.Nanosecond}
}

var _ = Describe("Reformulator", func() {
	var (
		client *testutils.MockClient
		r      *chat.Reformulator
		ctx    context.Context
	)

	BeforeEach(func() {
		client = testutils.NewMockClient("  v2 new features  ")
		r = chat.NewReformulator(client, fastRetry(), zap.NewNop())
		ctx = context.Background()
	})

	It("returns the trimmed completion as the standalone query", func() {
		query, err := r.Reformulate(ctx, chat.History{{User: "what's new in v2?"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(query).To(Equal("v2 new features"))
	})

	It("asks for a short single completion stopped at the first newline", func() {
		_, err := r.Reformulate(ctx, chat.History{{User: "what's new in v2?"}})
		Expect(err).NotTo(HaveOccurred())

		Expect(client.Requests).To(HaveLen(1))
		req := client.Requests[0]
		Expect(req.MaxTokens).To(Equal(32))
		Expect(req.Stop).To(Equal([]string{"\n"}))
		Expect(req.N).To(Equal(1))
	})

	It("puts the question in the prompt but excludes it from the chat history", func() {
		history := chat.History{
			{User: "what is v1?", Bot: strPtr("v1 is the first release.")},
			{User: "and what about v2?"},
		}
		_, err := r.Reformulate(ctx, history)
		Expect(err).NotTo(HaveOccurred())

		prompt := client.Requests[0].Messages[0].Content
		Expect(prompt).To(ContainSubstring("Question:\nand what about v2?"))
		Expect(prompt).To(ContainSubstring("what is v1?"))
		// The in-flight turn appears once, as the question, not in the history.
		Expect(prompt).NotTo(ContainSubstring("<|im_start|>user\nand what about v2?"))
	})

	It("treats an empty completion as a generation error", func() {
		client.Responses = []string{"   "}
		_, err := r.Reformulate(ctx, chat.History{{User: "anything"}})
		Expect(err).To(MatchError(llm.ErrGeneration))
	})

	It("wraps client failures as generation errors", func() {
		client.Err = llm.ErrGeneration
		_, err := r.Reformulate(ctx, chat.History{{User: "anything"}})
		Expect(err).To(MatchError(llm.ErrGeneration))
	})
})
