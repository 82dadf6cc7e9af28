package touch

import (
	"slices"
	"time"
)

// Timer is a pending callback. Cancel is safe to call more than once and
// after the callback already ran.
type Timer interface {
	Cancel()
}

// Scheduler runs callbacks on the event goroutine after a delay. Times are
// monotonic offsets from an arbitrary origin, the same clock touch events use.
type Scheduler interface {
	Now() time.Duration
	Arm(delay time.Duration, fn func()) Timer
}

// ManualScheduler is a virtual clock. Callbacks only run from Advance and
// AdvanceTo, in deadline order, ties broken by arming order.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

func (t *manualTimer) Cancel() { t.cancelled = true }

func NewManualScheduler(start time.Duration) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) Now() time.Duration { return s.now }

func (s *ManualScheduler) Arm(delay time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{at: s.now + delay, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)

	return t
}

// AdvanceTo fires every timer due at or before now, including timers armed
// by the callbacks themselves. Going backwards is ignored.
func (s *ManualScheduler) AdvanceTo(now time.Duration) {
	for {
		next := s.popDue(now)
		if next == nil {
			break
		}

		s.now = max(s.now, next.at)
		next.fn()
	}

	s.now = max(s.now, now)
}

func (s *ManualScheduler) Advance(d time.Duration) {
	s.AdvanceTo(s.now + d)
}

// Pending counts armed timers that were not cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0

	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}

	return n
}

func (s *ManualScheduler) popDue(now time.Duration) *manualTimer {
	s.timers = slices.DeleteFunc(s.timers, func(t *manualTimer) bool { return t.cancelled })

	best := -1

	for i, t := range s.timers {
		if t.at > now {
			continue
		}

		if best < 0 || t.at < s.timers[best].at || (t.at == s.timers[best].at && t.seq < s.timers[best].seq) {
			best = i
		}
	}

	if best < 0 {
		return nil
	}

	t := s.timers[best]
	s.timers = slices.Delete(s.timers, best, best+1)

	return t
}
