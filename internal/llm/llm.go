// Package llm streams chat completions from an OpenAI-compatible API, or from a canned
// mock for offline development.
package llm

import (
	"context"

	"github.com/sakif/tdd-playground/internal/apperror"
	"github.com/sakif/tdd-playground/internal/config"
)

// Role represents a chat message role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a role callers may send.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// StreamHandler receives text deltas as they arrive. Returning an error stops the stream.
type StreamHandler func(delta string) error

// Client is the interface for streaming chat completions.
type Client interface {
	ChatCompletionStream(ctx context.Context, messages []Message, handler StreamHandler) error
}

// New returns the mock client when cfg.UseMock is set, otherwise the OpenAI client.
func New(cfg config.LLMConfig) (Client, error) {
	if cfg.UseMock {
		return NewMockClient(), nil
	}
	if cfg.APIKey == "" {
		return nil, apperror.Unavailable("llm", "OpenAI API key is required")
	}
	return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature), nil
}
