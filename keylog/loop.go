package keylog

import (
	"context"
	"sync"
	"time"

	"github.com/dasdy/softkeys/touch"
)

// Loop runs posted functions one at a time on a single goroutine. The input
// engine is not safe for concurrent use, so every event and timer callback
// goes through the loop.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	start time.Time
}

var _ touch.Scheduler = (*Loop)(nil)

func NewLoop(buffer int) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
		start: time.Now(),
	}
}

// Run executes posted functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn. It reports false when the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Now is the time since the loop was created, the clock touch events use.
func (l *Loop) Now() time.Duration {
	return time.Since(l.start)
}

type loopTimer struct {
	timer     *time.Timer
	cancelled bool
}

// Cancel must be called on the loop goroutine.
func (t *loopTimer) Cancel() {
	t.cancelled = true
	t.timer.Stop()
}

// Arm runs fn on the loop after delay, unless the timer is cancelled first.
func (l *Loop) Arm(delay time.Duration, fn func()) touch.Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(delay, func() {
		l.Post(func() {
			if !t.cancelled {
				fn()
			}
		})
	})

	return t
}
