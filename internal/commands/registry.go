// Package commands routes inbound user requests to their handlers by command
// name.
package commands

import (
	"context"
	"sync"

	"github.com/chatvault/chatvault/internal/chat"
)

// Interaction carries the requester context a command handler needs.
type Interaction struct {
	ChannelID string
	UserID    string
	Status    chat.Status
}

// Handler processes one command invocation.
type Handler func(ctx context.Context, inter Interaction)

// Registry maps command names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds name to h, replacing any previous binding.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	r.handlers[name] = h
	r.mu.Unlock()
}

// Dispatch invokes the handler bound to name on its own goroutine and reports
// whether a handler exists. Handlers may run for a long time; dispatch never
// blocks on them.
func (r *Registry) Dispatch(ctx context.Context, name string, inter Interaction) bool {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	go h(ctx, inter)
	return true
}
