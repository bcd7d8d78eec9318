package dashboard

import "github.com/rileyhilliard/pgdash/internal/stats"

// DefaultHistorySize is the default number of samples retained for the
// rate graphs.
const DefaultHistorySize = 30

// HistoryBuffer is a fixed-capacity FIFO of rate samples, oldest first.
// Appending beyond capacity evicts the oldest sample. Not goroutine-safe;
// it is owned and mutated only by the Model.
type HistoryBuffer struct {
	samples []stats.Sample
	cap     int
}

// NewHistoryBuffer creates a buffer. A non-positive capacity uses
// DefaultHistorySize.
func NewHistoryBuffer(capacity int) *HistoryBuffer {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &HistoryBuffer{cap: capacity}
}

// Push appends a sample, evicting the oldest when full.
func (h *HistoryBuffer) Push(sample stats.Sample) {
	if len(h.samples) == h.cap {
		copy(h.samples, h.samples[1:])
		h.samples[len(h.samples)-1] = sample
		return
	}
	h.samples = append(h.samples, sample)
}

// Len returns the number of stored samples.
func (h *HistoryBuffer) Len() int {
	return len(h.samples)
}

// Cap returns the buffer's capacity.
func (h *HistoryBuffer) Cap() int {
	return h.cap
}

// Samples returns the stored samples oldest first. The returned slice is
// a copy.
func (h *HistoryBuffer) Samples() []stats.Sample {
	out := make([]stats.Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Last returns the most recent sample, if any.
func (h *HistoryBuffer) Last() (stats.Sample, bool) {
	if len(h.samples) == 0 {
		return stats.Sample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// Series extracts one value per stored sample, oldest first. Used to
// feed sparklines.
func (h *HistoryBuffer) Series(extract func(stats.Sample) float64) []float64 {
	if len(h.samples) == 0 {
		return nil
	}
	out := make([]float64, len(h.samples))
	for i, s := range h.samples {
		out[i] = extract(s)
	}
	return out
}

// Clear drops all stored samples.
func (h *HistoryBuffer) Clear() {
	h.samples = h.samples[:0]
}
