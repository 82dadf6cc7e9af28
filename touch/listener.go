package touch

import (
	"time"

	"github.com/dasdy/softkeys/model"
)

// Listener receives the key actions produced by pointer trackers.
type Listener interface {
	OnPress(code int)
	OnRelease(code int)
	// OnKey sends a key. tapCount > 0 means the key is a multi-tap repetition
	// and the previously sent code should be replaced.
	OnKey(code int, key *model.Key, tapCount int, nearby []int, isLongPress bool)
	OnText(key *model.Key, text string)
	OnCancel()
	OnFirstDownKey(code int)

	// OnGestureTypingInputStart returns true when the host wants the path of
	// this pointer instead of discrete key transitions.
	OnGestureTypingInputStart(x, y int, key *model.Key, eventTime time.Duration) bool
	OnGestureTypingInput(x, y int, eventTime time.Duration)
	// OnGestureTypingInputDone returns true when the gesture produced input.
	OnGestureTypingInputDone() bool

	OnLongPressDone(key *model.Key)
}

// UIProxy is the drawing side of the keyboard.
type UIProxy interface {
	ShowPreview(keyIndex int, tracker *PointerTracker)
	HidePreview(keyIndex int, tracker *PointerTracker)
	InvalidateKey(key *model.Key)
	// OnLongPress handles a long-press of a key without a long-press code,
	// usually by opening its popup. It returns true when it did.
	OnLongPress(key *model.Key, tracker *PointerTracker) bool
}

type nopProxy struct{}

func (nopProxy) ShowPreview(int, *PointerTracker)             {}
func (nopProxy) HidePreview(int, *PointerTracker)             {}
func (nopProxy) InvalidateKey(*model.Key)                     {}
func (nopProxy) OnLongPress(*model.Key, *PointerTracker) bool { return false }

// Config holds the tunables shared by all trackers of an engine.
type Config struct {
	RepeatStartDelay time.Duration
	RepeatInterval   time.Duration
	LongPressTimeout time.Duration
	MultiTapTimeout  time.Duration
	TwoFingersLinger time.Duration

	HysteresisDistance  int
	ProximityCorrection bool

	SwipeVelocityThreshold  int
	SwipeXDistanceThreshold int
}

func DefaultConfig() Config {
	return Config{
		RepeatStartDelay:        400 * time.Millisecond,
		RepeatInterval:          50 * time.Millisecond,
		LongPressTimeout:        350 * time.Millisecond,
		MultiTapTimeout:         700 * time.Millisecond,
		TwoFingersLinger:        30 * time.Millisecond,
		HysteresisDistance:      8,
		ProximityCorrection:     true,
		SwipeVelocityThreshold:  400,
		SwipeXDistanceThreshold: 240,
	}
}

// sharedData is state common to every tracker of one engine.
type sharedData struct {
	lastSentKeyIndex int
	config           Config
}
