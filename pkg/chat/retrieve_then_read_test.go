package chat_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/chat"
	"github.com/papergrid/askdocs/pkg/llm"
	testutils "github.com/papergrid/askdocs/pkg/utils/test"
	"github.com/papergrid/askdocs/pkg/vector"
)

var _ = Describe("RetrieveThenRead", func() {
	var (
		client   *testutils.MockClient
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
		strategy *chat.RetrieveThenRead
		ctx      context.Context
	)

	BeforeEach(func() {
		client = testutils.NewMockClient(
			"v2 new features",
			"v2 adds dark mode and improves speed.",
		)
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		driver.Results = []vector.QueryResult{
			{
				Document: vector.Document{
					ID:       "p1",
					Content:  "v2 adds dark mode",
					Metadata: map[string]any{"source": "rel.pdf", "page": 1},
				},
				Score: 0.92,
			},
			{
				Document: vector.Document{
					ID:       "p2",
					Content:  "v2 improves speed",
					Metadata: map[string]any{"source": "rel.pdf", "page": 2},
				},
				Score: 0.88,
			},
		}

		strategy = chat.NewRetrieveThenRead(client, embedder, driver, fastRetry(), zap.NewNop())
		ctx = context.Background()
	})

	It("answers the in-flight question with a citation and data points", func() {
		history := chat.History{
			{User: "what's new in v2?"},
		}

		result, err := strategy.Run(ctx, history, chat.Overrides{Top: 2})
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Answer).To(Equal("v2 adds dark mode and improves speed.  [Citation - Page: 1, Document Path: rel.pdf]"))
		Expect(result.DataPoints).To(Equal([]string{
			"rel.pdf:v2 adds dark mode",
			"rel.pdf:v2 improves speed",
		}))
		Expect(result.Thoughts).To(HavePrefix("Searched for:<br>v2 new features<br><br>Prompt:<br>"))
	})

	It("embeds the reformulated query, not the raw question", func() {
		history := chat.History{
			{User: "what's new in v2?"},
		}

		_, err := strategy.Run(ctx, history, chat.Overrides{})
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder.Calls).To(Equal([]string{"v2 new features"}))
	})

	It("defaults to the top three passages", func() {
		history := chat.History{{User: "question"}}

		_, err := strategy.Run(ctx, history, chat.Overrides{})
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastTopK).To(Equal(3))
	})

	It("honors the per-request top override", func() {
		history := chat.History{{User: "question"}}

		_, err := strategy.Run(ctx, history, chat.Overrides{Top: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastTopK).To(Equal(1))
	})

	It("passes the category exclusion through to the store", func() {
		history := chat.History{{User: "question"}}

		_, err := strategy.Run(ctx, history, chat.Overrides{ExcludeCategory: "drafts"})
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastFilter).To(Equal("category ne 'drafts'"))
	})

	It("answers without a citation when nothing is retrieved", func() {
		driver.Results = nil
		client.Responses = []string{"v2 new features", "I don't know."}
		history := chat.History{{User: "question"}}

		result, err := strategy.Run(ctx, history, chat.Overrides{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Answer).To(Equal("I don't know."))
		Expect(result.DataPoints).To(BeEmpty())
	})

	It("rejects an empty history", func() {
		_, err := strategy.Run(ctx, chat.History{}, chat.Overrides{})
		Expect(err).To(MatchError(chat.ErrEmptyHistory))
	})

	It("fails on a malformed template override without calling the model again", func() {
		history := chat.History{{User: "question"}}

		_, err := strategy.Run(ctx, history, chat.Overrides{PromptTemplate: "no sources slot here"})
		Expect(err).To(MatchError(chat.ErrMalformedOverride))
		// Only the reformulation call went out; synthesis never ran.
		Expect(client.Requests).To(HaveLen(1))
	})

	It("aborts before retrieval when reformulation fails", func() {
		client.Err = llm.ErrGeneration
		history := chat.History{{User: "question"}}

		_, err := strategy.Run(ctx, history, chat.Overrides{})
		Expect(err).To(MatchError(llm.ErrGeneration))
		Expect(embedder.Calls).To(BeEmpty())
	})

	It("surfaces retrieval failures without synthesizing", func() {
		driver.Err = testutils.ErrMockVector
		history := chat.History{{User: "question"}}

		_, err := strategy.Run(ctx, history, chat.Overrides{})
		Expect(err).To(MatchError(chat.ErrRetrieval))
		Expect(client.Requests).To(HaveLen(1))
	})
})
