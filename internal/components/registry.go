// Package components routes interactive-control activations to single-use
// handlers keyed by an opaque token.
package components

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/chatvault/chatvault/internal/chat"
)

// Handler is invoked at most once, on the first activation of its control.
// ack is the deferred ephemeral reply tied to the activation.
type Handler func(ctx context.Context, ack chat.Ack)

// Registry holds live control handlers. A handler is removed before its first
// invocation, so repeat activations of the same control are impossible.
type Registry struct {
	mu       sync.Mutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register stores h and returns the token identifying the control.
func (r *Registry) Register(h Handler) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.handlers[token] = h
	r.mu.Unlock()
	return token
}

// Deregister removes the handler for token, if still present.
func (r *Registry) Deregister(token string) {
	r.mu.Lock()
	delete(r.handlers, token)
	r.mu.Unlock()
}

// Take removes and returns the handler for token. Removal happens before the
// handler can run anywhere, which makes a second activation a no-op.
func (r *Registry) Take(token string) (Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handlers[token]
	if ok {
		delete(r.handlers, token)
	}
	return h, ok
}

// Dispatch fires the handler registered under token and reports whether one
// was found. The handler is deregistered before it runs.
func (r *Registry) Dispatch(ctx context.Context, token string, ack chat.Ack) bool {
	h, ok := r.Take(token)
	if !ok {
		return false
	}
	h(ctx, ack)
	return true
}
