// Package llm provides the text-generation collaborator used to draft
// protocols. A Generator is chosen once at startup; callers never inspect
// which implementation they hold.
package llm

import (
	"context"

	"github.com/rotisserie/eris"
)

// Message roles understood by every Generator.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrUnavailable means no live backend can serve the request. It is returned
// by the offline generator and by an open breaker.
var ErrUnavailable = eris.New("llm: generator unavailable")

// Message is one entry of a chat instruction.
type Message struct {
	Role    string
	Content string
}

// Generator turns a chat instruction into free-form text.
type Generator interface {
	Generate(ctx context.Context, msgs []Message) (string, error)
	// Name reports the backend, e.g. "anthropic", "ollama" or "offline".
	Name() string
}

// Offline is the Generator used when no live backend could be constructed.
type Offline struct{}

// Generate always fails with ErrUnavailable.
func (Offline) Generate(context.Context, []Message) (string, error) {
	return "", ErrUnavailable
}

// Name returns "offline".
func (Offline) Name() string { return "offline" }
