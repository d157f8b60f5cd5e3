package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterCadence(t *testing.T) {
	status := &fakeStatus{}
	r := newReporter(status, 200)

	ts := time.Date(2022, 5, 1, 9, 30, 0, 0, time.UTC)
	for n := 1; n <= 450; n++ {
		require.NoError(t, r.observe(context.Background(), n, ts))
	}

	assert.Len(t, status.edits, 2, "reports at 200 and 400 only")
	assert.Contains(t, status.edits[0], "(200 total")
	assert.Contains(t, status.edits[1], "(400 total")
}

func TestReporterFormatsOldestTimestamp(t *testing.T) {
	status := &fakeStatus{}
	r := newReporter(status, 10)

	ts := time.Date(2022, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, r.observe(context.Background(), 10, ts))

	require.Len(t, status.edits, 1)
	assert.Equal(t, "Archiving... (10 total, up to 1 May 2022, 09:30 (+00:00))", status.edits[0])
}

func TestReporterSkipsZero(t *testing.T) {
	status := &fakeStatus{}
	r := newReporter(status, 200)

	require.NoError(t, r.observe(context.Background(), 0, time.Now()))
	assert.Empty(t, status.edits)
}
