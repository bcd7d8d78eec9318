package stats

import "time"

// Rates holds per-second rates derived from the cumulative counters of
// two consecutive snapshots.
type Rates struct {
	CommitsPerSec    float64
	RollbacksPerSec  float64
	BlocksReadPerSec float64
	BlocksHitPerSec  float64
}

// Sample pairs a snapshot with the rates derived at its capture time.
type Sample struct {
	Snapshot *Snapshot
	At       time.Time
	Rates    Rates
}

// RateEngine turns a stream of snapshots into rate samples. It keeps
// only the previous sample; samples must arrive in non-decreasing
// capture-time order, and anything older is discarded.
type RateEngine struct {
	prev *Sample
}

// NewRateEngine creates an engine with no previous sample. The first
// pushed snapshot yields zero rates.
func NewRateEngine() *RateEngine {
	return &RateEngine{}
}

// Push derives rates for snap against the stored previous sample and
// advances the engine. An out-of-order snapshot (capture time not after
// the previous sample's) is discarded: the previous sample is returned
// unchanged and stays stored, so a later in-order snapshot still
// computes against it.
func (e *RateEngine) Push(snap *Snapshot) Sample {
	if e.prev == nil {
		sample := Sample{Snapshot: snap, At: snap.CapturedAt}
		e.prev = &sample
		return sample
	}

	if !snap.CapturedAt.After(e.prev.At) {
		return *e.prev
	}

	dt := snap.CapturedAt.Sub(e.prev.At).Seconds()
	prev := e.prev.Snapshot.Counters
	cur := snap.Counters

	sample := Sample{
		Snapshot: snap,
		At:       snap.CapturedAt,
		Rates: Rates{
			CommitsPerSec:    rate(cur.Commits, prev.Commits, dt),
			RollbacksPerSec:  rate(cur.Rollbacks, prev.Rollbacks, dt),
			BlocksReadPerSec: rate(cur.BlocksRead, prev.BlocksRead, dt),
			BlocksHitPerSec:  rate(cur.BlocksHit, prev.BlocksHit, dt),
		},
	}
	e.prev = &sample
	return sample
}

// Reset drops the stored previous sample, e.g. after switching the
// monitored database.
func (e *RateEngine) Reset() {
	e.prev = nil
}

// rate computes a per-second delta clamped at zero. A counter going
// backwards means the server restarted or stats were reset, which
// renders as a flat zero rather than a negative spike.
func rate(cur, prev int64, dt float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / dt
}
