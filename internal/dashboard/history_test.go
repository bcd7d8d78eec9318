package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pgdash/internal/stats"
)

func sampleWithCommitRate(rate float64) stats.Sample {
	return stats.Sample{
		Snapshot: &stats.Snapshot{CapturedAt: time.Now()},
		Rates:    stats.Rates{CommitsPerSec: rate},
	}
}

func TestHistoryBufferFIFO(t *testing.T) {
	h := NewHistoryBuffer(3)

	// A, B, C, D with capacity 3: A is evicted.
	for _, rate := range []float64{1, 2, 3, 4} {
		h.Push(sampleWithCommitRate(rate))
	}

	require.Equal(t, 3, h.Len())
	series := h.Series(func(s stats.Sample) float64 { return s.Rates.CommitsPerSec })
	assert.Equal(t, []float64{2, 3, 4}, series, "oldest sample evicted, rest in order")
}

func TestHistoryBufferNeverExceedsCapacity(t *testing.T) {
	h := NewHistoryBuffer(5)
	for i := 0; i < 50; i++ {
		h.Push(sampleWithCommitRate(float64(i)))
		assert.LessOrEqual(t, h.Len(), 5)
	}
	assert.Equal(t, 5, h.Len())

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, float64(49), last.Rates.CommitsPerSec)
}

func TestHistoryBufferEmpty(t *testing.T) {
	h := NewHistoryBuffer(3)
	assert.Zero(t, h.Len())
	assert.Nil(t, h.Series(func(s stats.Sample) float64 { return 0 }))

	_, ok := h.Last()
	assert.False(t, ok)
}

func TestHistoryBufferDefaultCapacity(t *testing.T) {
	h := NewHistoryBuffer(0)
	assert.Equal(t, DefaultHistorySize, h.Cap())
}

func TestHistoryBufferSamplesIsCopy(t *testing.T) {
	h := NewHistoryBuffer(3)
	h.Push(sampleWithCommitRate(1))

	samples := h.Samples()
	samples[0].Rates.CommitsPerSec = 99

	last, _ := h.Last()
	assert.Equal(t, float64(1), last.Rates.CommitsPerSec)
}

func TestHistoryBufferClear(t *testing.T) {
	h := NewHistoryBuffer(3)
	h.Push(sampleWithCommitRate(1))
	h.Clear()
	assert.Zero(t, h.Len())
}
