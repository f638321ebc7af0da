// Package llm wraps the chat-completion and embedding APIs behind a small
// client interface so services can degrade gracefully when no model is
// configured.
package llm

import "context"

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single message in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Client is the model-facing abstraction used by all apps.
type Client interface {
	// GenerateJSON sends a system/user prompt pair and decodes the JSON
	// object embedded in the response into out. When schema is non-nil the
	// payload is validated against it before decoding.
	GenerateJSON(ctx context.Context, system, user string, schema *Schema, out any) error

	// StreamChat streams assistant deltas for the given conversation,
	// invoking onDelta for each chunk, and returns the full reply.
	StreamChat(ctx context.Context, system string, history []Message, onDelta func(delta string) error) (string, error)

	// Embed returns the embedding vector for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// ModelID returns the chat model identifier this client is configured with.
	ModelID() string
}
