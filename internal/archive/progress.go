package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/chatvault/chatvault/internal/chat"
)

const progressTimeLayout = "2 Jan 2006, 15:04 (-07:00)"

// reporter edits the status message with a running count at a fixed cadence.
type reporter struct {
	status chat.Status
	every  int
}

func newReporter(status chat.Status, every int) *reporter {
	return &reporter{status: status, every: every}
}

// observe reports progress when n is a multiple of the reporting interval.
// oldest is the timestamp of the oldest message processed so far.
func (r *reporter) observe(ctx context.Context, n int, oldest time.Time) error {
	if n == 0 || n%r.every != 0 {
		return nil
	}
	text := fmt.Sprintf("Archiving... (%d total, up to %s)", n, oldest.Format(progressTimeLayout))
	return r.status.Edit(ctx, text)
}
