// Package history pages backward through a channel's message history.
package history

import (
	"context"

	"github.com/chatvault/chatvault/internal/chat"
)

// Walker produces a finite sequence of message batches ordered newest to
// oldest. It is not restartable; create a new Walker per job.
type Walker struct {
	source    chat.History
	channelID string
	batchSize int

	before string // id of the oldest message seen so far
	done   bool
}

func NewWalker(source chat.History, channelID string, batchSize int) *Walker {
	return &Walker{source: source, channelID: channelID, batchSize: batchSize}
}

// Next returns the next batch, or an empty batch once history is exhausted.
// An empty batch from the source ends the sequence immediately; a batch
// smaller than the configured size is the final (oldest) batch and is
// returned before the sequence ends. Transport errors propagate without
// retry.
func (w *Walker) Next(ctx context.Context) ([]chat.Message, error) {
	if w.done {
		return nil, nil
	}

	batch, err := w.source.Messages(ctx, w.channelID, w.before, w.batchSize)
	if err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		w.done = true
		return nil, nil
	}

	w.before = batch[len(batch)-1].ID
	if len(batch) < w.batchSize {
		w.done = true
	}
	return batch, nil
}
