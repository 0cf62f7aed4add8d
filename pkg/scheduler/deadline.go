package scheduler

import "time"

// Clock provides time for frame deadlines. The default implementation uses
// system time; tests inject a fake clock with WithClock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// FrameDeadline is the time slice granted to one frame, measured on a Clock.
// It satisfies core.Deadline.
type FrameDeadline struct {
	clock Clock
	end   time.Time
}

// NewFrameDeadline returns a deadline that expires budget after the clock's
// current time.
func NewFrameDeadline(clock Clock, budget time.Duration) FrameDeadline {
	if clock == nil {
		clock = realClock{}
	}
	return FrameDeadline{clock: clock, end: clock.Now().Add(budget)}
}

// TimeRemaining returns the time left in the slice, or zero once it expired.
func (d FrameDeadline) TimeRemaining() time.Duration {
	remaining := d.end.Sub(d.clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// End returns the instant the slice expires.
func (d FrameDeadline) End() time.Time { return d.end }
