package chat_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/chat"
	testutils "github.com/papergrid/askdocs/pkg/utils/test"
	"github.com/papergrid/askdocs/pkg/vector"
)

var _ = Describe("Retriever", func() {
	var (
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
		r        *chat.Retriever
		ctx      context.Context
	)

	BeforeEach(func() {
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
		r = chat.NewRetriever(embedder, driver, fastRetry(), zap.NewNop())
		ctx = context.Background()
	})

	It("embeds the query and maps results to passages", func() {
		driver.Results = []vector.QueryResult{
			{
				Document: vector.Document{
					ID:      "d1",
					Content: "v2 adds dark mode",
					Metadata: map[string]any{
						"source": "rel.pdf",
						"page":   1,
					},
				},
				Score: 0.9,
			},
		}

		passages, err := r.Retrieve(ctx, "v2 new features", "", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(embedder.Calls).To(Equal([]string{"v2 new features"}))
		Expect(passages).To(HaveLen(1))
		Expect(passages[0].Content).To(Equal("v2 adds dark mode"))
		Expect(passages[0].Source).To(Equal("rel.pdf"))
		Expect(passages[0].Page).To(Equal(1))
		Expect(passages[0].Score).To(BeNumerically("~", 0.9, 0.001))
	})

	It("passes the limit through to the store", func() {
		driver.Results = make([]vector.QueryResult, 5)
		for i := range driver.Results {
			driver.Results[i] = vector.QueryResult{Document: vector.Document{Content: "p"}}
		}

		passages, err := r.Retrieve(ctx, "query", "", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastTopK).To(Equal(3))
		Expect(passages).To(HaveLen(3))
	})

	It("sends no filter without an excluded category", func() {
		_, err := r.Retrieve(ctx, "query", "", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastFilter).To(Equal(""))
	})

	It("builds a category exclusion filter", func() {
		_, err := r.Retrieve(ctx, "query", "internal", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastFilter).To(Equal("category ne 'internal'"))
	})

	It("escapes single quotes in the excluded category", func() {
		_, err := r.Retrieve(ctx, "query", "bob's docs", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(driver.LastFilter).To(Equal("category ne 'bob''s docs'"))
	})

	It("treats zero results as a valid outcome", func() {
		passages, err := r.Retrieve(ctx, "query", "", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(passages).To(BeEmpty())
	})

	It("wraps store failures as retrieval errors", func() {
		driver.Err = testutils.ErrMockVector
		_, err := r.Retrieve(ctx, "query", "", 3)
		Expect(err).To(MatchError(chat.ErrRetrieval))
		Expect(err).To(MatchError(testutils.ErrMockVector))
	})

	It("wraps embedding failures as retrieval errors", func() {
		embedder.FailOn = "doomed query"
		_, err := r.Retrieve(ctx, "doomed query", "", 3)
		Expect(err).To(MatchError(chat.ErrRetrieval))
	})

	It("tolerates numeric page metadata decoded as float64", func() {
		driver.Results = []vector.QueryResult{
			{
				Document: vector.Document{
					Content: "content",
					Metadata: map[string]any{
						"source": "doc.pdf",
						"page":   float64(7),
					},
				},
			},
		}

		passages, err := r.Retrieve(ctx, "query", "", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(passages[0].Page).To(Equal(7))
	})
})

var _ = Describe("Passage", func() {
	It("renders as source:content with line breaks collapsed", func() {
		p := chat.Passage{Content: "first line\nsecond line", Source: "doc.pdf"}
		Expect(p.DataPoint()).To(Equal("doc.pdf:first line second line"))
	})
})
