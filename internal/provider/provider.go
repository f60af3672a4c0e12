// Package provider holds the language-model collaborator: a blocking
// chat-completion call behind a narrow interface, with an error taxonomy
// that keeps rate limits distinguishable from everything else.
package provider

import "context"

// Completer is the language-model port. Implementations block until the
// model replies, the context is cancelled, or the HTTP timeout elapses.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}
