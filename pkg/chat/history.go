// Package chat implements the retrieval-then-read pipeline that answers
// questions over the document corpus: reformulate the conversation into a
// standalone search query, retrieve similar passages from the vector store,
// assemble a citation-constrained prompt, and synthesize a grounded answer.
package chat

// Turn is one exchange in a conversation. Bot is nil for the in-flight turn
// currently being answered.
type Turn struct {
	User string  `json:"user"`
	Bot  *string `json:"bot,omitempty"`
}

// History is an ordered conversation, oldest first. The last turn is the one
// being answered; its Bot field is unset at call time.
type History []Turn

// DefaultApproxMaxTokens is the token budget for transcript serialization.
// The character budget is approximated as four characters per token.
const DefaultApproxMaxTokens = 1000

// LastUser returns the in-flight turn's question, or "" for an empty history.
func (h History) LastUser() string {
	if len(h) == 0 {
		return ""
	}
	return h[len(h)-1].User
}

// Transcript serializes the conversation as chat-markup text, walking turns
// newest first and prepending each one, so the newest turns are always
// retained. Serialization stops once the accumulated text exceeds
// 4×approxMaxTokens characters. When includeLastTurn is false the in-flight
// turn is skipped entirely.
func (h History) Transcript(includeLastTurn bool, approxMaxTokens int) string {
	if approxMaxTokens <= 0 {
		approxMaxTokens = DefaultApproxMaxTokens
	}

	turns := h
	if !includeLastTurn && len(turns) > 0 {
		turns = turns[:len(turns)-1]
	}

	budget := approxMaxTokens * 4

	var text string
	for i := len(turns) - 1; i >= 0; i-- {
		t := turns[i]

		var bot string
		if t.Bot != nil && *t.Bot != "" {
			bot = *t.Bot + "<|im_end|>"
		}

		text = "<|im_start|>user\n" + t.User + "\n<|im_end|>\n<|im_start|>assistant\n" + bot + "\n" + text

		if len(text) > budget {
			break
		}
	}

	return text
}
