package harness

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhr3/memmembench/matrix"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner(t *testing.T) {
	require.NoError(t, SetBenchtime("10x"))

	calls := 0
	bms := []matrix.Benchmark{
		{
			Name:   "memmem/impl/oneshotiter/x/common-a",
			Corpus: []byte("aaab"),
			Body: func(tm matrix.Timer) {
				for tm.Loop() {
					calls++
				}
			},
		},
		{
			Name:   "memmem/impl/oneshot/x/never-z",
			Corpus: []byte("aaab"),
			Body: func(tm matrix.Timer) {
				for tm.Loop() {
					tm.Fatalf("found = %t, want %t", true, false)
				}
			},
		},
	}

	r := NewRunner(3, discardLogger())
	results, err := r.Run(context.Background(), bms)
	assert.ErrorIs(t, err, ErrFailed)
	require.Len(t, results, 2)

	ok := results[0]
	assert.False(t, ok.Failed())
	assert.Equal(t, int64(4), ok.Bytes)
	require.Len(t, ok.Runs, 3)
	for _, run := range ok.Runs {
		assert.Positive(t, run.Iters)
		assert.GreaterOrEqual(t, run.NsPerOp, 0.0)
	}
	assert.Len(t, ok.NsPerOp(), 3)
	assert.Positive(t, calls)

	bad := results[1]
	assert.True(t, bad.Failed())
	assert.Equal(t, "found = true, want false", bad.Failure)
	assert.Empty(t, bad.Runs)
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bms := []matrix.Benchmark{{Name: "x", Body: func(tm matrix.Timer) {
		for tm.Loop() {
		}
	}}}
	results, err := NewRunner(1, discardLogger()).Run(ctx, bms)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestNewRunnerCount(t *testing.T) {
	assert.Equal(t, 1, NewRunner(0, discardLogger()).Count)
	assert.Equal(t, 5, NewRunner(5, discardLogger()).Count)
}
