package scheduler

import (
	"sync"
	"time"
)

const (
	passTraceSamplesDefault   = 240
	defaultPassTraceThreshold = 16667 * time.Microsecond
)

// PassSample is a single frame trace sample.
type PassSample struct {
	Timestamp int64   `json:"ts"`
	FrameMs   float64 `json:"frameMs"`
	Posted    int     `json:"posted"`
	Roots     int     `json:"roots"`
	Units     int     `json:"units"`
	Commits   int     `json:"commits"`
	Discards  int     `json:"discards"`
	Errors    int     `json:"errors,omitempty"`
	Pending   bool    `json:"pending,omitempty"`
}

// PassTimeline is a chronological view of the trace buffer.
type PassTimeline struct {
	Samples       []PassSample `json:"samples"`
	DroppedFrames int          `json:"droppedFrames"`
	ThresholdMs   float64      `json:"thresholdMs"`
}

// PassTraceBuffer stores recent frame samples in a ring buffer. Frames that
// took longer than the threshold are counted as dropped.
type PassTraceBuffer struct {
	mu        sync.RWMutex
	samples   []PassSample
	index     int
	count     int
	dropped   int
	threshold time.Duration
}

// NewPassTraceBuffer creates a new trace buffer.
func NewPassTraceBuffer(capacity int, threshold time.Duration) *PassTraceBuffer {
	if capacity <= 0 {
		capacity = passTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultPassTraceThreshold
	}
	return &PassTraceBuffer{
		samples:   make([]PassSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *PassTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Threshold returns the dropped frame threshold.
func (b *PassTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a sample and updates the dropped frame count.
func (b *PassTraceBuffer) Add(sample PassSample, frameDuration time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if frameDuration > b.threshold {
		b.dropped++
	}
	b.mu.Unlock()
}

// Dropped returns the number of frames that exceeded the threshold.
func (b *PassTraceBuffer) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

// Snapshot returns a chronological copy of samples and stats.
func (b *PassTraceBuffer) Snapshot() PassTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return PassTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]PassSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return PassTimeline{
		Samples:       result,
		DroppedFrames: b.dropped,
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
