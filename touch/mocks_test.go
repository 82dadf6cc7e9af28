package touch_test

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/touch"
)

func codeName(code int) string {
	if name := model.KeyCodeName(code); name != "" {
		return name
	}

	return strconv.Itoa(code)
}

// ListenerMock records every callback as a short line.
type ListenerMock struct {
	Events []string
	Nearby [][]int

	Gesture        bool
	GestureHandled bool
	GestureInputs  int

	OnPressHook func(code int)
}

func (l *ListenerMock) record(format string, args ...any) {
	l.Events = append(l.Events, fmt.Sprintf(format, args...))
}

func (l *ListenerMock) OnPress(code int) {
	l.record("press %s", codeName(code))

	if l.OnPressHook != nil {
		l.OnPressHook(code)
	}
}

func (l *ListenerMock) OnRelease(code int) { l.record("release %s", codeName(code)) }

func (l *ListenerMock) OnKey(code int, _ *model.Key, tapCount int, nearby []int, isLongPress bool) {
	if isLongPress {
		l.record("long %s", codeName(code))
	} else {
		l.record("key %s tap=%d", codeName(code), tapCount)
	}

	l.Nearby = append(l.Nearby, nearby)
}

func (l *ListenerMock) OnText(_ *model.Key, text string) { l.record("text %s", text) }
func (l *ListenerMock) OnCancel()                        { l.record("cancel") }
func (l *ListenerMock) OnFirstDownKey(code int)          { l.record("first %s", codeName(code)) }

func (l *ListenerMock) OnGestureTypingInputStart(int, int, *model.Key, time.Duration) bool {
	return l.Gesture
}

func (l *ListenerMock) OnGestureTypingInput(int, int, time.Duration) {
	l.GestureInputs++
}

func (l *ListenerMock) OnGestureTypingInputDone() bool {
	l.record("gesture done")

	return l.GestureHandled
}

func (l *ListenerMock) OnLongPressDone(key *model.Key) {
	l.record("long done %s", codeName(key.PrimaryCode()))
}

// Filter returns the recorded events starting with prefix.
func (l *ListenerMock) Filter(prefix string) []string {
	var result []string

	for _, e := range l.Events {
		if strings.HasPrefix(e, prefix) {
			result = append(result, e)
		}
	}

	return result
}

func (l *ListenerMock) Reset() {
	l.Events = nil
	l.Nearby = nil
}

// ProxyMock opens a popup for every key that has one.
type ProxyMock struct {
	LongPressed []*model.Key
	Previews    int
}

func (p *ProxyMock) ShowPreview(keyIndex int, _ *touch.PointerTracker) {
	if keyIndex != touch.NotAKey {
		p.Previews++
	}
}

func (p *ProxyMock) HidePreview(int, *touch.PointerTracker) {}
func (p *ProxyMock) InvalidateKey(*model.Key)               {}

func (p *ProxyMock) OnLongPress(key *model.Key, _ *touch.PointerTracker) bool {
	p.LongPressed = append(p.LongPressed, key)

	return key.Popup != ""
}
