package touch

import (
	"log/slog"
	"slices"
	"time"
)

// PointerQueue holds the trackers whose pointer is down, oldest first.
type PointerQueue struct {
	trackers []*PointerTracker

	hadTwoFingers bool
	twoFingersAt  time.Duration
}

func (q *PointerQueue) Len() int { return len(q.trackers) }

// Trackers returns a copy of the queue, oldest first.
func (q *PointerQueue) Trackers() []*PointerTracker {
	return slices.Clone(q.trackers)
}

// Add appends t unless it is queued already.
func (q *PointerQueue) Add(t *PointerTracker, eventTime time.Duration) {
	if q.LastIndexOf(t) >= 0 {
		return
	}

	q.trackers = append(q.trackers, t)

	if len(q.trackers) == 2 {
		q.MarkTwoFingers(eventTime)
	}
}

func (q *PointerQueue) Remove(t *PointerTracker) {
	if i := q.LastIndexOf(t); i >= 0 {
		q.trackers = slices.Delete(q.trackers, i, i+1)
	}
}

func (q *PointerQueue) LastIndexOf(t *PointerTracker) int {
	for i := len(q.trackers) - 1; i >= 0; i-- {
		if q.trackers[i] == t {
			return i
		}
	}

	return -1
}

func (q *PointerQueue) MarkTwoFingers(eventTime time.Duration) {
	q.hadTwoFingers = true
	q.twoFingersAt = eventTime
}

// IsAtTwoFingersState is true while two pointers are down and for linger
// after the last time that happened.
func (q *PointerQueue) IsAtTwoFingersState(now, linger time.Duration) bool {
	return len(q.trackers) > 1 || (q.hadTwoFingers && now-q.twoFingersAt < linger)
}

// ReleaseAllPointersOlderThan finishes every non-modifier pointer queued
// before t, oldest first.
func (q *PointerQueue) ReleaseAllPointersOlderThan(t *PointerTracker, eventTime time.Duration) {
	i := 0

	for i < len(q.trackers) {
		other := q.trackers[i]
		if other == t {
			break
		}

		if other.IsModifier() {
			i++

			continue
		}

		other.onPhantomUp(eventTime)
		q.trackers = slices.Delete(q.trackers, i, i+1)
	}
}

// ReleaseAllPointersExcept finishes every pointer but t and leaves only t
// queued. t may be nil.
func (q *PointerQueue) ReleaseAllPointersExcept(t *PointerTracker, eventTime time.Duration) {
	for _, other := range q.trackers {
		if other != t {
			other.onPhantomUp(eventTime)
		}
	}

	q.trackers = q.trackers[:0]

	if t != nil {
		q.trackers = append(q.trackers, t)
	}
}

// ActionDispatcher routes down, up and cancel of one pointer through the queue.
type ActionDispatcher struct {
	queue *PointerQueue
}

func (d *ActionDispatcher) OnDown(t *PointerTracker, x, y int, eventTime time.Duration) {
	if t.isOnModifierKey(x, y) {
		d.queue.ReleaseAllPointersExcept(t, eventTime)
	}

	t.OnDown(x, y, eventTime)
	d.queue.Add(t, eventTime)
}

func (d *ActionDispatcher) OnUp(t *PointerTracker, x, y int, eventTime time.Duration) {
	switch {
	case t.IsModifier():
		d.queue.ReleaseAllPointersExcept(t, eventTime)
	case d.queue.LastIndexOf(t) >= 0:
		d.queue.ReleaseAllPointersOlderThan(t, eventTime)
	default:
		slog.WarnContext(logCtx, "Up event without a matching down, dropping", "pointer", t.ID)

		return
	}

	t.OnUp(x, y, eventTime)
	d.queue.Remove(t)
}

func (d *ActionDispatcher) OnCancel(t *PointerTracker) {
	t.OnCancel()
	d.queue.Remove(t)
}
