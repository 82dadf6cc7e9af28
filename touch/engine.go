package touch

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
)

var logCtx = logging.PackageCtx("touch")

type Action int

const (
	ActionDown Action = iota
	ActionMove
	ActionUp
	ActionCancel
)

var actionNames = [...]string{"down", "move", "up", "cancel"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}

	return actionNames[a]
}

func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}

	return 0, false
}

// Event is one pointer event. Time uses the same clock as the Scheduler.
type Event struct {
	Action    Action
	PointerID int
	X, Y      int
	Time      time.Duration
}

// Engine owns the trackers of one keyboard view and feeds them touch events.
// It must only be used from the event goroutine.
type Engine struct {
	config   Config
	shared   sharedData
	detector *Detector
	sched    Scheduler
	listener Listener
	proxy    UIProxy

	queue      PointerQueue
	dispatcher ActionDispatcher
	trackers   map[int]*PointerTracker
	down       map[int]bool

	keyboard *model.Keyboard
	swipe    SwipeConfig
	now      time.Duration

	touchesDisabled bool
}

// NewEngine creates an engine. proxy may be nil.
func NewEngine(cfg Config, sched Scheduler, listener Listener, proxy UIProxy) *Engine {
	if proxy == nil {
		proxy = nopProxy{}
	}

	e := &Engine{
		detector: NewDetector(),
		sched:    sched,
		listener: listener,
		proxy:    proxy,
		trackers: map[int]*PointerTracker{},
		down:     map[int]bool{},
	}
	e.shared.lastSentKeyIndex = NotAKey
	e.dispatcher.queue = &e.queue
	e.SetConfig(cfg)

	return e
}

// SetConfig applies new tunables. Trackers pick them up on their next event.
func (e *Engine) SetConfig(cfg Config) {
	e.config = cfg
	e.shared.config = cfg
	e.detector.SetProximityCorrectionEnabled(cfg.ProximityCorrection)
	e.swipe = NewSwipeConfig(cfg.SwipeVelocityThreshold, cfg.SwipeXDistanceThreshold)
	e.swipe.RecomputeForKeyboard(e.keyboard)
}

func (e *Engine) Config() Config { return e.config }

func (e *Engine) SetKeyboard(kb *model.Keyboard) {
	e.keyboard = kb

	keys := e.detector.SetKeyboard(kb)
	for _, t := range e.trackers {
		t.SetKeyboard(keys)
	}

	e.swipe.RecomputeForKeyboard(kb)
}

func (e *Engine) Keyboard() *model.Keyboard { return e.keyboard }
func (e *Engine) Detector() *Detector       { return e.detector }
func (e *Engine) Queue() *PointerQueue      { return &e.queue }
func (e *Engine) Swipe() SwipeConfig        { return e.swipe }

// Tracker returns the tracker of a pointer id, creating it on first use.
func (e *Engine) Tracker(id int) *PointerTracker {
	t, ok := e.trackers[id]
	if !ok {
		t = newPointerTracker(id, e)
		e.trackers[id] = t
	}

	return t
}

func (e *Engine) sortedTrackers() []*PointerTracker {
	ids := slices.Sorted(maps.Keys(e.trackers))

	result := make([]*PointerTracker, 0, len(ids))
	for _, id := range ids {
		result = append(result, e.trackers[id])
	}

	return result
}

func (e *Engine) IsAtTwoFingersState() bool {
	return e.queue.IsAtTwoFingersState(e.now, e.config.TwoFingersLinger)
}

func (e *Engine) IsInKeyRepeat() bool {
	for _, t := range e.trackers {
		if t.IsInKeyRepeat() {
			return true
		}
	}

	return false
}

func (e *Engine) CancelKeyRepeat() {
	for _, t := range e.trackers {
		t.cancelKeyRepeatTimer()
	}
}

// DisableTouchesTillFingersAreUp cancels every pointer and ignores events until
// no finger is on the keyboard anymore.
func (e *Engine) DisableTouchesTillFingersAreUp() {
	for _, t := range e.sortedTrackers() {
		e.dispatcher.OnCancel(t)
	}

	e.touchesDisabled = true
}

func (e *Engine) AreTouchesDisabled() bool { return e.touchesDisabled }

// pointerCount returns how many pointers are down during ev, counting a
// lifted pointer for its own up event.
func (e *Engine) pointerCount(ev Event) int {
	switch ev.Action {
	case ActionDown:
		e.down[ev.PointerID] = true

		return len(e.down)
	case ActionUp, ActionCancel:
		n := len(e.down)
		delete(e.down, ev.PointerID)

		return n
	default:
		return len(e.down)
	}
}

// OnTouch handles one event and reports whether it was consumed.
func (e *Engine) OnTouch(ev Event) bool {
	if e.keyboard == nil {
		return false
	}

	wasDown := e.down[ev.PointerID]
	e.now = ev.Time

	count := e.pointerCount(ev)
	if count > 1 {
		e.queue.MarkTwoFingers(ev.Time)
	}

	if e.touchesDisabled {
		if count != 1 || ev.Action == ActionMove {
			return true
		}

		e.touchesDisabled = false

		// the last finger of the disabled sequence
		if ev.Action != ActionDown {
			return true
		}
	}

	if e.IsInKeyRepeat() {
		if ev.Action == ActionMove {
			return true
		}

		if count > 1 && !e.Tracker(ev.PointerID).IsModifier() {
			e.CancelKeyRepeat()
		}
	}

	switch ev.Action {
	case ActionDown:
		e.dispatcher.OnDown(e.Tracker(ev.PointerID), ev.X, ev.Y, ev.Time)
	case ActionMove:
		if !wasDown {
			slog.WarnContext(logCtx, "Move event without a matching down, dropping", "pointer", ev.PointerID)

			return true
		}

		e.Tracker(ev.PointerID).OnMove(ev.X, ev.Y, ev.Time)
	case ActionUp:
		if !wasDown {
			slog.WarnContext(logCtx, "Up event without a matching down, dropping", "pointer", ev.PointerID)

			return true
		}

		e.dispatcher.OnUp(e.Tracker(ev.PointerID), ev.X, ev.Y, ev.Time)
	case ActionCancel:
		e.dispatcher.OnCancel(e.Tracker(ev.PointerID))
	default:
		slog.DebugContext(logCtx, "Unhandled pointer action", "action", ev.Action.String())
	}

	return true
}
