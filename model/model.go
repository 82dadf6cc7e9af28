package model

import (
	"time"
)

type EventKind string

const (
	EventPress     EventKind = "press"
	EventRelease   EventKind = "release"
	EventKey       EventKind = "key"
	EventLongPress EventKind = "longpress"
	EventText      EventKind = "text"
)

// KeyEvent is a key event emitted by the engine, as recorded in storage.
type KeyEvent struct {
	KeyboardID string
	KeyIndex   int
	Code       int
	TapCount   int
	Kind       EventKind
	Text       string
}

func (e *KeyEvent) Ref() KeyRef { return KeyRef{KeyboardID: e.KeyboardID, KeyIndex: e.KeyIndex} }

// Sent reports whether the event put something into the editor.
func (e *KeyEvent) Sent() bool {
	return e.Kind == EventKey || e.Kind == EventLongPress || e.Kind == EventText
}

type KeyEventWithTimestamp struct {
	KeyEvent
	Timestamp time.Time
}

// KeyCount aggregates sent keys per keyboard key.
type KeyCount struct {
	KeyboardID string
	KeyIndex   int
	Count      int
}

// KeyRef identifies a key on a composed keyboard.
type KeyRef struct {
	KeyboardID string
	KeyIndex   int
}

// Neighbor counts how often To was sent right after From.
type Neighbor struct {
	From  KeyRef
	To    KeyRef
	Count int
}
