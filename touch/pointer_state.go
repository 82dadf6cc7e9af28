package touch

import (
	"strings"
	"time"

	"github.com/dasdy/softkeys/model"
)

// pointerKeyState remembers the key a pointer is on and where it got there.
type pointerKeyState struct {
	detector *Detector

	keyIndex int
	keyX     int
	keyY     int

	lastX int
	lastY int
}

func newPointerKeyState(d *Detector) pointerKeyState {
	return pointerKeyState{detector: d, keyIndex: NotAKey}
}

func (s *pointerKeyState) onDownKey(x, y int) int {
	return s.onMoveToNewKey(s.onMoveKey(x, y), x, y)
}

func (s *pointerKeyState) onMoveKey(x, y int) int {
	s.lastX = x
	s.lastY = y

	return s.detector.KeyIndex(x, y)
}

func (s *pointerKeyState) onMoveToNewKey(keyIndex, x, y int) int {
	s.keyIndex = keyIndex
	s.keyX = x
	s.keyY = y

	return keyIndex
}

func (s *pointerKeyState) onUpKey(x, y int) int {
	return s.onMoveKey(x, y)
}

// multiTap counts taps on keys with several codes. The last sent key index is
// shared between all trackers.
type multiTap struct {
	shared *sharedData

	tapCount    int
	lastTapTime time.Duration
	inMultiTap  bool
}

func newMultiTap(shared *sharedData) multiTap {
	m := multiTap{shared: shared}
	m.reset()

	return m
}

func (m *multiTap) reset() {
	m.shared.lastSentKeyIndex = NotAKey
	m.tapCount = 0
	m.lastTapTime = -1
	m.inMultiTap = false
}

func (m *multiTap) markKeySent(keyIndex int, eventTime time.Duration) {
	m.shared.lastSentKeyIndex = keyIndex
	m.lastTapTime = eventTime
}

func (m *multiTap) checkMultiTap(key *model.Key, keyIndex int, eventTime time.Duration) {
	isMultiTap := eventTime < m.lastTapTime+m.shared.config.MultiTapTimeout &&
		keyIndex == m.shared.lastSentKeyIndex

	if key.CodesCount() > 1 {
		m.inMultiTap = true

		if isMultiTap {
			m.tapCount++
		} else {
			m.tapCount = -1
		}

		return
	}

	if !isMultiTap {
		m.reset()
	}
}

// previewText is the label shown in the preview for the current tap.
func (m *multiTap) previewText(key *model.Key, shifted bool) string {
	switch {
	case shifted && key.ShiftedLabel != "":
		return key.ShiftedLabel
	case key.Label != "" && shifted:
		return strings.ToUpper(key.Label)
	case key.Label != "":
		return key.Label
	}

	code := key.MultiTapCode(max(m.tapCount, 0), shifted)
	if code < ' ' {
		code = ' '
	}

	return string(rune(code))
}

// Point is one sample of a gesture path.
type Point struct {
	X, Y int
	Time time.Duration
}

// gesturePath follows a pointer once the host accepted a gesture. The pointer
// counts as gesture typing only after it reached a second key.
type gesturePath struct {
	started bool
	visited bool
	points  []Point
}

func (g *gesturePath) start() {
	g.started = true
	g.points = g.points[:0]
}

func (g *gesturePath) reset() {
	g.started = false
	g.visited = false
	g.points = g.points[:0]
}

func (g *gesturePath) add(x, y int, t time.Duration) {
	if g.started {
		g.points = append(g.points, Point{x, y, t})
	}
}

func (g *gesturePath) markAdditionalKeyVisited() {
	if g.started {
		g.visited = true
	}
}

func (g *gesturePath) canDoGestureTyping() bool { return g.started }
func (g *gesturePath) isInGestureTyping() bool  { return g.started && g.visited }
