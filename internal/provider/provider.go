// Package provider implements text-generation adapters for SQL
// synthesis and result narration.
package provider

import (
	"context"
	"time"
)

// DefaultTimeout is the default timeout for generation calls.
const DefaultTimeout = 60 * time.Second

// Role tags a conversation message with its author.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Generator defines the interface for text-generation providers.
// Input is an ordered sequence of role-tagged messages; output is a
// single text blob.
type Generator interface {
	// Name returns the provider name (e.g., "openai", "anthropic")
	Name() string

	// Available checks if the provider is usable (API key present)
	Available() bool

	// Chat sends the message sequence and returns the model's reply.
	Chat(ctx context.Context, msgs []Message) (string, error)
}
