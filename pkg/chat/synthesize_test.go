package chat_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papergrid/askdocs/pkg/chat"
	"github.com/papergrid/askdocs/pkg/llm"
	testutils "github.com/papergrid/askdocs/pkg/utils/test"
)

var _ = Describe("Synthesizer", func() {
	var (
		client *testutils.MockClient
		s      *chat.Synthesizer
		ctx    context.Context
	)

	BeforeEach(func() {
		client = testutils.NewMockClient("The answer.")
		s = chat.NewSynthesizer(client, fastRetry(), zap.NewNop())
		ctx = context.Background()
	})

	It("appends a citation for the first retrieved passage", func() {
		passages := []chat.Passage{
			{Content: "fact one", Source: "rel.pdf", Page: 1},
			{Content: "fact two", Source: "other.pdf", Page: 9},
		}
		answer, err := s.Synthesize(ctx, "prompt", 0.7, passages)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("The answer.  [Citation - Page: 1, Document Path: rel.pdf]"))
	})

	It("skips the citation when nothing was retrieved", func() {
		answer, err := s.Synthesize(ctx, "prompt", 0.7, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("The answer."))
	})

	It("trims whitespace from the raw completion", func() {
		client.Responses = []string{"\n  The answer.  \n"}
		answer, err := s.Synthesize(ctx, "prompt", 0.7, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(answer).To(Equal("The answer."))
	})

	It("stops generation at chat-markup delimiters", func() {
		_, err := s.Synthesize(ctx, "prompt", 0.7, nil)
		Expect(err).NotTo(HaveOccurred())

		req := client.Requests[0]
		Expect(req.Stop).To(Equal([]string{"<|im_end|>", "<|im_start|>"}))
		Expect(req.MaxTokens).To(Equal(1024))
		Expect(req.Temperature).To(BeNumerically("~", 0.7, 0.001))
	})

	It("propagates generation failures", func() {
		client.Err = llm.ErrGeneration
		_, err := s.Synthesize(ctx, "prompt", 0.7, nil)
		Expect(err).To(MatchError(llm.ErrGeneration))
	})
})

var _ = Describe("Thoughts", func() {
	It("renders the query and prompt with line breaks as <br>", func() {
		Expect(chat.Thoughts("the query", "line one\nline two")).
			To(Equal("Searched for:<br>the query<br><br>Prompt:<br>line one<br>line two"))
	})
})
