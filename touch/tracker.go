package touch

import (
	"time"

	"github.com/dasdy/softkeys/model"
)

const quickLongPressDelay = time.Millisecond

// PointerTracker turns the events of one pointer id into key actions.
type PointerTracker struct {
	ID int

	detector   *Detector
	proxy      UIProxy
	listener   Listener
	sched      Scheduler
	shared     *sharedData
	twoFingers func() bool

	keys []*model.Key

	state    pointerKeyState
	multiTap multiTap
	gesture  gesturePath

	// layoutChanged is set when the keyboard was swapped, possibly from inside a
	// listener callback, so the key index must be resolved again.
	layoutChanged bool
	// alreadyProcessed is set once the pointer was turned into a key action
	// some other way (long-press, cancel, phantom up).
	alreadyProcessed bool
	repeatable       bool
	previousKey      int

	repeatTimer    Timer
	longPressTimer Timer
	inKeyRepeat    bool
}

func newPointerTracker(id int, e *Engine) *PointerTracker {
	t := &PointerTracker{
		ID:          id,
		detector:    e.detector,
		proxy:       e.proxy,
		listener:    e.listener,
		sched:       e.sched,
		shared:      &e.shared,
		twoFingers:  e.IsAtTwoFingersState,
		state:       newPointerKeyState(e.detector),
		multiTap:    newMultiTap(&e.shared),
		previousKey: NotAKey,
	}
	t.SetKeyboard(e.detector.Keys())

	return t
}

// SetKeyboard swaps the key array the tracker resolves indexes against.
func (t *PointerTracker) SetKeyboard(keys []*model.Key) {
	t.keys = keys
	t.layoutChanged = true
}

func (t *PointerTracker) isValidKeyIndex(index int) bool {
	return index >= 0 && index < len(t.keys)
}

// Key returns the key at index, or nil.
func (t *PointerTracker) Key(index int) *model.Key {
	if !t.isValidKeyIndex(index) {
		return nil
	}

	return t.keys[index]
}

func (t *PointerTracker) KeyIndex() int { return t.state.keyIndex }
func (t *PointerTracker) LastX() int    { return t.state.lastX }
func (t *PointerTracker) LastY() int    { return t.state.lastY }

func (t *PointerTracker) isModifierIndex(index int) bool {
	key := t.Key(index)

	return key != nil && key.Modifier
}

// IsModifier reports whether the pointer is on a modifier key.
func (t *PointerTracker) IsModifier() bool {
	return t.isModifierIndex(t.state.keyIndex)
}

func (t *PointerTracker) isOnModifierKey(x, y int) bool {
	return t.isModifierIndex(t.detector.KeyIndex(x, y))
}

func (t *PointerTracker) IsInKeyRepeat() bool { return t.inKeyRepeat }

// GesturePath returns the points collected since the host accepted a gesture.
func (t *PointerTracker) GesturePath() []Point { return t.gesture.points }

func (t *PointerTracker) PreviewText(key *model.Key) string {
	return t.multiTap.previewText(key, t.detector.IsKeyShifted(key))
}

func (t *PointerTracker) shifted(key *model.Key) bool {
	return t.detector.IsKeyShifted(key)
}

func (t *PointerTracker) updateKey(keyIndex int) {
	if t.alreadyProcessed && keyIndex != NotAKey {
		return
	}

	old := t.previousKey
	t.previousKey = keyIndex

	if keyIndex == old {
		return
	}

	if key := t.Key(old); key != nil {
		key.Pressed = false
		t.proxy.InvalidateKey(key)
	}

	if key := t.Key(keyIndex); key != nil {
		key.Pressed = true
		t.proxy.InvalidateKey(key)
	}
}

func (t *PointerTracker) showKeyPreviewAndUpdateKey(keyIndex int) {
	t.updateKey(keyIndex)

	if !t.gesture.isInGestureTyping() {
		t.proxy.ShowPreview(keyIndex, t)
	}
}

func (t *PointerTracker) OnDown(x, y int, eventTime time.Duration) {
	keyIndex := t.state.onDownKey(x, y)
	t.layoutChanged = false
	t.alreadyProcessed = false
	t.repeatable = false
	t.gesture.reset()

	if key := t.Key(keyIndex); key != nil {
		t.multiTap.checkMultiTap(key, keyIndex, eventTime)

		if !t.twoFingers() && t.listener.OnGestureTypingInputStart(x, y, key, eventTime) {
			t.gesture.start()
		}

		if code := key.CodeAt(0, t.shifted(key)); code != model.KeyCodeNone {
			t.listener.OnPress(code)
			t.listener.OnFirstDownKey(code)
		}

		if t.layoutChanged {
			t.layoutChanged = false
			keyIndex = t.state.onDownKey(x, y)
		}
	}

	if key := t.Key(keyIndex); key != nil {
		if key.Repeatable {
			t.repeatKey(keyIndex)
			t.startKeyRepeatTimer(t.shared.config.RepeatStartDelay, keyIndex)
			t.repeatable = true
		} else {
			t.startLongPressTimer(keyIndex)
		}
	}

	t.showKeyPreviewAndUpdateKey(keyIndex)
}

func (t *PointerTracker) OnMove(x, y int, eventTime time.Duration) {
	if t.twoFingers() {
		t.gesture.reset()
	} else if t.gesture.canDoGestureTyping() {
		t.gesture.add(x, y, eventTime)
		t.listener.OnGestureTypingInput(x, y, eventTime)
	}

	if t.alreadyProcessed {
		return
	}

	oldKeyIndex := t.state.keyIndex
	oldKey := t.Key(oldKeyIndex)
	keyIndex := t.state.onMoveKey(x, y)

	switch {
	case t.isValidKeyIndex(keyIndex) && oldKey == nil:
		// slid onto a key from outside every key
		key := t.keys[keyIndex]
		t.listener.OnPress(key.CodeAt(0, t.shifted(key)))
		keyIndex = t.resolveAfterLayoutChange(keyIndex, x, y)

		t.state.onMoveToNewKey(keyIndex, x, y)
		t.startLongPressTimer(keyIndex)
	case t.isValidKeyIndex(keyIndex) && !t.isMinorMoveBounce(x, y, keyIndex):
		if !t.gesture.isInGestureTyping() {
			t.listener.OnRelease(oldKey.CodeAt(0, t.shifted(oldKey)))
		}

		t.multiTap.reset()

		if t.gesture.canDoGestureTyping() {
			t.gesture.markAdditionalKeyVisited()
		} else {
			key := t.keys[keyIndex]
			t.listener.OnPress(key.CodeAt(0, t.shifted(key)))
		}

		keyIndex = t.resolveAfterLayoutChange(keyIndex, x, y)

		t.state.onMoveToNewKey(keyIndex, x, y)
		t.startLongPressTimer(keyIndex)

		if oldKeyIndex != keyIndex {
			t.proxy.HidePreview(oldKeyIndex, t)
		}
	case !t.isValidKeyIndex(keyIndex) && oldKey != nil && !t.isMinorMoveBounce(x, y, keyIndex):
		t.listener.OnRelease(oldKey.CodeAt(0, t.shifted(oldKey)))
		t.multiTap.reset()
		t.state.onMoveToNewKey(keyIndex, x, y)
		t.cancelLongPressTimer()

		if oldKeyIndex != keyIndex {
			t.proxy.HidePreview(oldKeyIndex, t)
		}
	}

	t.showKeyPreviewAndUpdateKey(t.state.keyIndex)
}

func (t *PointerTracker) resolveAfterLayoutChange(keyIndex, x, y int) int {
	if !t.layoutChanged {
		return keyIndex
	}

	t.layoutChanged = false

	return t.state.onMoveKey(x, y)
}

func (t *PointerTracker) OnUp(x, y int, eventTime time.Duration) {
	t.cancelAllTimers()
	t.proxy.HidePreview(t.state.keyIndex, t)
	t.showKeyPreviewAndUpdateKey(NotAKey)

	if t.alreadyProcessed {
		return
	}

	keyIndex := t.state.onUpKey(x, y)
	if t.isMinorMoveBounce(x, y, keyIndex) {
		keyIndex = t.state.keyIndex
		x = t.state.keyX
		y = t.state.keyY
	}

	if t.repeatable {
		if key := t.Key(keyIndex); key != nil {
			t.listener.OnRelease(key.PrimaryCode())
		}
	} else {
		notHandled := true

		if t.gesture.isInGestureTyping() {
			t.gesture.reset()
			notHandled = !t.listener.OnGestureTypingInputDone()
		}

		if notHandled {
			t.detectAndSendKey(keyIndex, x, y, eventTime, true)
		}
	}

	if key := t.Key(keyIndex); key != nil {
		t.proxy.InvalidateKey(key)
	}
}

// onPhantomUp finishes the pointer on behalf of another one, at its last
// known position.
func (t *PointerTracker) onPhantomUp(eventTime time.Duration) {
	t.OnUp(t.state.lastX, t.state.lastY, eventTime)
	t.alreadyProcessed = true
}

// OnCancel drops the pointer without sending a key. Calling it again is harmless.
func (t *PointerTracker) OnCancel() {
	t.gesture.reset()
	t.cancelAllTimers()

	keyIndex := t.state.keyIndex
	t.proxy.HidePreview(keyIndex, t)
	t.showKeyPreviewAndUpdateKey(NotAKey)

	if key := t.Key(keyIndex); key != nil {
		t.proxy.InvalidateKey(key)
	}

	t.alreadyProcessed = true
}

func (t *PointerTracker) isMinorMoveBounce(x, y, newKey int) bool {
	current := t.state.keyIndex

	if newKey == current {
		return true
	}

	key := t.Key(current)
	if key == nil {
		return false
	}

	hysteresis := t.shared.config.HysteresisDistance

	return key.SquaredDistanceToEdge(x, y) < hysteresis*hysteresis
}

func (t *PointerTracker) repeatKey(keyIndex int) {
	if key := t.Key(keyIndex); key != nil {
		t.sendKey(keyIndex, key, key.X, key.Y, -1, false)
	}
}

func (t *PointerTracker) detectAndSendKey(keyIndex, x, y int, eventTime time.Duration, withRelease bool) {
	t.sendKey(keyIndex, t.Key(keyIndex), x, y, eventTime, withRelease)
}

func (t *PointerTracker) sendKey(keyIndex int, key *model.Key, x, y int, eventTime time.Duration, withRelease bool) {
	if key == nil {
		t.listener.OnCancel()

		return
	}

	shifted := t.shifted(key)

	text := key.Text
	if shifted && key.ShiftedText != "" {
		text = key.ShiftedText
	}

	if text != "" {
		t.listener.OnText(key, text)

		if withRelease {
			t.listener.OnRelease(model.KeyCodeNone)
		}
	} else {
		code := key.CodeAt(0, shifted)
		tapCount := 0

		if t.multiTap.inMultiTap {
			// first tap of a multi-tap key
			if t.multiTap.tapCount < 0 {
				t.multiTap.tapCount = 0
			}

			tapCount = t.multiTap.tapCount
			code = key.MultiTapCode(tapCount, shifted)
		}

		_, nearby := t.detector.KeyIndexAndNearbyCodes(x, y)
		t.listener.OnKey(code, key, tapCount, nearby, false)

		if withRelease {
			t.listener.OnRelease(code)
		}
	}

	t.multiTap.markKeySent(keyIndex, eventTime)
}

func shouldLongPressQuickly(key *model.Key) bool {
	return key.CodesCount() == 0 && key.Popup != "" && key.Text == ""
}

func (t *PointerTracker) startLongPressTimer(keyIndex int) {
	t.cancelLongPressTimer()

	key := t.Key(keyIndex)
	if key == nil || t.gesture.isInGestureTyping() {
		return
	}

	delay := t.shared.config.LongPressTimeout
	if shouldLongPressQuickly(key) {
		delay = quickLongPressDelay
	}

	t.longPressTimer = t.sched.Arm(delay, func() { t.onLongPressTimer(keyIndex) })
}

func (t *PointerTracker) onLongPressTimer(keyIndex int) {
	t.longPressTimer = nil

	key := t.Key(keyIndex)
	if key == nil || !t.longPress(key) {
		return
	}

	t.alreadyProcessed = true
	t.cancelKeyRepeatTimer()
	t.proxy.HidePreview(keyIndex, t)
	t.listener.OnLongPressDone(key)
}

// longPress sends the long-press code of key, or lets the UI open its popup.
func (t *PointerTracker) longPress(key *model.Key) bool {
	if key.LongPressCode != model.KeyCodeNone {
		t.listener.OnKey(key.LongPressCode, key, 0, []int{key.LongPressCode}, true)

		return true
	}

	return t.proxy.OnLongPress(key, t)
}

func (t *PointerTracker) startKeyRepeatTimer(delay time.Duration, keyIndex int) {
	if t.repeatTimer != nil {
		t.repeatTimer.Cancel()
	}

	t.inKeyRepeat = true
	t.repeatTimer = t.sched.Arm(delay, func() { t.onRepeatTimer(keyIndex) })
}

func (t *PointerTracker) onRepeatTimer(keyIndex int) {
	key := t.Key(keyIndex)
	if key != nil && key.LongPressCode != model.KeyCodeNone {
		t.longPress(key)
	} else {
		t.repeatKey(keyIndex)
	}

	t.startKeyRepeatTimer(t.shared.config.RepeatInterval, keyIndex)
}

func (t *PointerTracker) cancelLongPressTimer() {
	if t.longPressTimer != nil {
		t.longPressTimer.Cancel()
		t.longPressTimer = nil
	}
}

func (t *PointerTracker) cancelKeyRepeatTimer() {
	t.inKeyRepeat = false

	if t.repeatTimer != nil {
		t.repeatTimer.Cancel()
		t.repeatTimer = nil
	}
}

func (t *PointerTracker) cancelAllTimers() {
	t.cancelKeyRepeatTimer()
	t.cancelLongPressTimer()
}
