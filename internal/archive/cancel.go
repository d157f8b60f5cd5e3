package archive

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/chatvault/chatvault/internal/chat"
)

// Controller is the cooperative cancellation flag for one job plus its
// user-facing acknowledgement wiring. The transition to the triggered state is
// one-way and happens at most once; the pagination loop polls Requested at
// safe checkpoints.
type Controller struct {
	status chat.Status
	log    zerolog.Logger

	triggered atomic.Bool

	mu        sync.Mutex
	activated bool
	ack       chat.Ack
}

func NewController(status chat.Status, log zerolog.Logger) *Controller {
	return &Controller{status: status, log: log}
}

// HandleActivation is registered as the cancel control's one-shot handler.
// The flag is raised last: the moment Requested reports true the job may
// discard its output and call Finish, so the ack and the "Cancelling..."
// edit must already be in place by then.
func (c *Controller) HandleActivation(ctx context.Context, ack chat.Ack) {
	c.mu.Lock()
	if c.activated {
		c.mu.Unlock()
		return
	}
	c.activated = true
	c.ack = ack
	c.mu.Unlock()

	if err := c.status.Edit(ctx, "Cancelling..."); err != nil {
		c.log.Warn().Err(err).Msg("edit status to cancelling")
	}
	c.triggered.Store(true)
}

// Requested reports whether cancellation has been requested.
func (c *Controller) Requested() bool {
	return c.triggered.Load()
}

// Finish performs the final user-visible confirmation: the public status is
// removed and the ephemeral acknowledgement is filled in.
func (c *Controller) Finish(ctx context.Context) {
	if err := c.status.Delete(ctx); err != nil {
		c.log.Warn().Err(err).Msg("delete status after cancellation")
	}
	c.mu.Lock()
	ack := c.ack
	c.mu.Unlock()
	if ack != nil {
		if err := ack.Edit(ctx, "Archival cancelled!"); err != nil {
			c.log.Warn().Err(err).Msg("edit cancellation confirmation")
		}
	}
}
