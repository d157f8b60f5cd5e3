package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatvault/chatvault/internal/chat"
)

type scriptedHistory struct {
	batches [][]chat.Message
	calls   int
	befores []string
	err     error
}

func (s *scriptedHistory) Messages(ctx context.Context, channelID, before string, limit int) ([]chat.Message, error) {
	s.calls++
	s.befores = append(s.befores, before)
	if s.err != nil {
		return nil, s.err
	}
	if s.calls > len(s.batches) {
		return nil, nil
	}
	return s.batches[s.calls-1], nil
}

func mkBatch(ids ...string) []chat.Message {
	msgs := make([]chat.Message, 0, len(ids))
	for _, id := range ids {
		msgs = append(msgs, chat.Message{ID: id, Timestamp: time.Now()})
	}
	return msgs
}

func TestWalker_ThreadsCursorThroughBatches(t *testing.T) {
	src := &scriptedHistory{batches: [][]chat.Message{
		mkBatch("m1", "m2", "m3"),
		mkBatch("m4", "m5", "m6"),
		mkBatch("m7"),
	}}
	w := NewWalker(src, "chan1", 3)

	b1, err := w.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, b1, 3)

	b2, err := w.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, b2, 3)

	b3, err := w.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, b3, 1)

	assert.Equal(t, []string{"", "m3", "m6"}, src.befores)
}

func TestWalker_EndsAfterShortBatch(t *testing.T) {
	src := &scriptedHistory{batches: [][]chat.Message{
		mkBatch("m1", "m2", "m3"),
		mkBatch("m4"),
	}}
	w := NewWalker(src, "chan1", 3)

	_, err := w.Next(context.Background())
	require.NoError(t, err)

	b2, err := w.Next(context.Background())
	require.NoError(t, err)
	assert.Len(t, b2, 1, "short batch is still consumed")

	b3, err := w.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b3)
	assert.Equal(t, 2, src.calls, "no source call after a short batch")
}

func TestWalker_EndsOnEmptyBatch(t *testing.T) {
	src := &scriptedHistory{batches: [][]chat.Message{
		mkBatch("m1", "m2", "m3"),
		{},
	}}
	w := NewWalker(src, "chan1", 3)

	_, err := w.Next(context.Background())
	require.NoError(t, err)

	b2, err := w.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b2)

	// The walker is exhausted for good.
	b3, err := w.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b3)
	assert.Equal(t, 2, src.calls)
}

func TestWalker_PropagatesTransportErrors(t *testing.T) {
	src := &scriptedHistory{err: errors.New("boom")}
	w := NewWalker(src, "chan1", 3)

	_, err := w.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error(), "no wrapping, no retry")
}
