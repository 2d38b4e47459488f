// Package llm provides provider-agnostic types and the client contract for
// chat completion APIs. Provider implementations live under pkg/llm/provider.
package llm

// Roles understood by every provider client.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user message with the given text.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}
