package chat_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papergrid/askdocs/pkg/chat"
)

func strPtr(s string) *string {
	return &s
}

var _ = Describe("History", func() {
	Describe("LastUser", func() {
		It("returns the in-flight turn's question", func() {
			h := chat.History{
				{User: "what is v1?", Bot: strPtr("v1 is the first release.")},
				{User: "and v2?"},
			}
			Expect(h.LastUser()).To(Equal("and v2?"))
		})

		It("returns empty for an empty history", func() {
			Expect(chat.History{}.LastUser()).To(Equal(""))
		})
	})

	Describe("Transcript", func() {
		It("serializes a completed turn with both roles", func() {
			h := chat.History{
				{User: "hello", Bot: strPtr("hi there")},
			}
			text := h.Transcript(true, 1000)
			Expect(text).To(Equal("<|im_start|>user\nhello\n<|im_end|>\n<|im_start|>assistant\nhi there<|im_end|>\n"))
		})

		It("leaves the assistant block open for the in-flight turn", func() {
			h := chat.History{
				{User: "hello"},
			}
			text := h.Transcript(true, 1000)
			Expect(text).To(HaveSuffix("<|im_start|>assistant\n\n"))
			Expect(text).NotTo(ContainSubstring("assistant\n<|im_end|>"))
		})

		It("excludes the in-flight turn when asked", func() {
			h := chat.History{
				{User: "first", Bot: strPtr("answer one")},
				{User: "second"},
			}
			text := h.Transcript(false, 1000)
			Expect(text).To(ContainSubstring("first"))
			Expect(text).NotTo(ContainSubstring("second"))
		})

		It("returns empty when excluding the only turn", func() {
			h := chat.History{
				{User: "only"},
			}
			Expect(h.Transcript(false, 1000)).To(Equal(""))
		})

		It("orders turns oldest first", func() {
			h := chat.History{
				{User: "one", Bot: strPtr("a")},
				{User: "two", Bot: strPtr("b")},
				{User: "three"},
			}
			text := h.Transcript(true, 1000)
			Expect(strings.Index(text, "one")).To(BeNumerically("<", strings.Index(text, "two")))
			Expect(strings.Index(text, "two")).To(BeNumerically("<", strings.Index(text, "three")))
		})

		It("drops the oldest turns when the budget is exceeded", func() {
			long := strings.Repeat("x", 200)
			h := chat.History{
				{User: "oldest " + long, Bot: strPtr(long)},
				{User: "middle " + long, Bot: strPtr(long)},
				{User: "newest question"},
			}
			// 100 tokens ~ 400 characters: room for the newest turn plus the
			// one that crosses the budget, not the oldest.
			text := h.Transcript(true, 100)
			Expect(text).To(ContainSubstring("newest question"))
			Expect(text).To(ContainSubstring("middle"))
			Expect(text).NotTo(ContainSubstring("oldest"))
		})

		It("always retains the newest turn even over budget", func() {
			h := chat.History{
				{User: strings.Repeat("q", 5000)},
			}
			text := h.Transcript(true, 100)
			Expect(text).To(ContainSubstring("qqqq"))
		})
	})
})
