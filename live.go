package main

import (
	"errors"
	"fmt"
	"time"
)

// defaultSampleRate is the sampling frequency in cycles per second when no
// rate flag is given.
const defaultSampleRate = 20

// maxConsecutiveSampleErrors bounds transient retries before live sampling
// gives up for good.
const maxConsecutiveSampleErrors = 8

// LiveFeedState tracks one live sampling feed. All mutation happens on the
// update loop; sampling cycles only report back through messages.
type LiveFeedState struct {
	Pid       int
	Rate      int
	StartedAt time.Time

	// Frozen suspends merging: batches arriving while set are dropped, not
	// queued, so unfreezing resumes from live data only.
	Frozen bool

	Running bool
	Exited  bool
	Err     error

	transient   int
	everSampled bool
}

func newLiveFeed(pid, rate int, frozen bool) *LiveFeedState {
	if rate <= 0 {
		rate = defaultSampleRate
	}
	return &LiveFeedState{
		Pid:       pid,
		Rate:      rate,
		StartedAt: time.Now(),
		Frozen:    frozen,
		Running:   true,
	}
}

// Interval converts the sampling rate into the delay between cycles.
func (l *LiveFeedState) Interval() time.Duration {
	return time.Second / time.Duration(l.Rate)
}

// recordBatch notes a successful cycle and reports whether its stacks should
// be merged. A frozen feed drops them.
func (l *LiveFeedState) recordBatch() bool {
	l.transient = 0
	l.everSampled = true
	return !l.Frozen
}

// recordError absorbs a failed cycle and reports whether sampling should
// continue. Terminal errors and the transient cap both end the feed.
func (l *LiveFeedState) recordError(err error) bool {
	if isTerminalSampleError(err) {
		l.stop(err)
		return false
	}
	l.transient++
	if l.transient >= maxConsecutiveSampleErrors {
		l.stop(fmt.Errorf("giving up after %d consecutive sampling failures: %w", l.transient, err))
		return false
	}
	return true
}

func (l *LiveFeedState) stop(err error) {
	l.Running = false
	l.Err = err
	// A vanished process that sampled fine before has simply finished.
	if l.everSampled && errors.Is(err, ErrProcessNotFound) {
		l.Exited = true
	}
}

// StatusLabel is the badge shown next to the pid in the header.
func (l *LiveFeedState) StatusLabel() string {
	switch {
	case l.Exited:
		return "Exited"
	case !l.Running:
		return "Stopped"
	default:
		return "Running"
	}
}

func (l *LiveFeedState) Elapsed(now time.Time) time.Duration {
	return now.Sub(l.StartedAt)
}
