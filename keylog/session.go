package keylog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/keylog/parser"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/prefs"
	"github.com/dasdy/softkeys/switcher"
	"github.com/dasdy/softkeys/touch"
)

var logCtx = logging.PackageCtx("keylog")

var ErrNoKeyboard = errors.New("no keyboard available")

type SessionConfig struct {
	Factory   switcher.Factory
	Store     switcher.PackageStore
	Storage   db.Storage
	Tracker   db.Tracker
	Prefs     prefs.Preferences
	Scheduler touch.Scheduler
	Verbose   bool
}

// Session stands in for the editor side of an input method. It feeds editor
// and touch events to the switcher and the engine, applies the keys they
// send to an in-memory text and records them.
type Session struct {
	Switcher *switcher.Switcher
	Engine   *touch.Engine

	storage db.Storage
	tracker db.Tracker
	verbose bool
	domain  string

	editor switcher.EditorInfo
	text   []rune
}

var (
	_ touch.Listener    = (*Session)(nil)
	_ touch.UIProxy     = (*Session)(nil)
	_ switcher.Listener = (*Session)(nil)
)

func NewSession(cfg SessionConfig) *Session {
	s := &Session{
		storage: cfg.Storage,
		tracker: cfg.Tracker,
		verbose: cfg.Verbose,
		domain:  cfg.Prefs.Rows.DefaultDomain,
	}
	s.Engine = touch.NewEngine(cfg.Prefs.TouchConfig(), cfg.Scheduler, s, s)
	s.Switcher = switcher.New(cfg.Factory, s, cfg.Store, cfg.Prefs.SwitcherSettings())

	return s
}

// Text is everything typed so far.
func (s *Session) Text() string { return string(s.text) }

func (s *Session) Editor() switcher.EditorInfo { return s.editor }

// ApplySettings hands changed preferences to the engine and the switcher.
func (s *Session) ApplySettings(p prefs.Preferences) {
	s.domain = p.Rows.DefaultDomain
	s.Engine.SetConfig(p.TouchConfig())
	s.Switcher.ApplySettings(p.SwitcherSettings())
}

// Apply runs one script command. Wait commands are a no-op here, the caller
// owns the clock.
func (s *Session) Apply(cmd *parser.Command) error {
	switch cmd.Kind {
	case parser.CommandTouch:
		s.Engine.OnTouch(cmd.Touch)
	case parser.CommandMode:
		s.editor = cmd.Editor

		res := s.Switcher.SetKeyboardMode(cmd.Mode, cmd.Editor, cmd.Restarting)
		if res.Keyboard == nil {
			return fmt.Errorf("%w for input mode %d", ErrNoKeyboard, cmd.Mode)
		}
	case parser.CommandNext:
		if s.Switcher.NextKeyboard(s.editor, cmd.Navigation) == nil {
			return fmt.Errorf("%w for navigation %d", ErrNoKeyboard, cmd.Navigation)
		}
	case parser.CommandShow:
		if s.Switcher.ShowAlphabetKeyboardByID(s.editor, cmd.KeyboardID) == nil {
			return fmt.Errorf("%w with id %s", ErrNoKeyboard, cmd.KeyboardID)
		}
	case parser.CommandWait:
	}

	return nil
}

// Close stores the keyboard per package mapping.
func (s *Session) Close() error {
	if err := s.Switcher.Destroy(); err != nil {
		return fmt.Errorf("could not store keyboard per package mapping: %w", err)
	}

	return nil
}

func (s *Session) record(kind model.EventKind, key *model.Key, code, tapCount int, text string) {
	event := model.KeyEvent{KeyIndex: -1, Code: code, TapCount: tapCount, Kind: kind, Text: text}

	if kb := s.Engine.Keyboard(); kb != nil {
		event.KeyboardID = kb.ID

		if key != nil {
			event.KeyIndex = kb.IndexOf(key)
		}
	}

	if s.verbose {
		slog.InfoContext(logCtx, "Event!", "event", event)
	}

	if s.tracker != nil {
		s.tracker.HandleKey(&event)
	}

	if s.storage != nil {
		if err := s.storage.Store(&event); err != nil {
			slog.WarnContext(logCtx, "Could not store key event", "error", err)
		}
	}
}

func (s *Session) OnPress(code int)   { s.record(model.EventPress, nil, code, 0, "") }
func (s *Session) OnRelease(code int) { s.record(model.EventRelease, nil, code, 0, "") }

func (s *Session) OnKey(code int, key *model.Key, tapCount int, _ []int, isLongPress bool) {
	kind := model.EventKey
	if isLongPress {
		kind = model.EventLongPress
	}

	s.record(kind, key, code, tapCount, "")

	if code > 0 {
		s.typeRune(rune(code), tapCount > 0)

		return
	}

	s.functionalKey(code, key)
}

func (s *Session) typeRune(r rune, replace bool) {
	if replace && len(s.text) > 0 {
		s.text[len(s.text)-1] = r
	} else {
		s.text = append(s.text, r)
	}

	kb := s.Engine.Keyboard()
	if kb != nil && unicode.IsLetter(r) && kb.IsShifted() && !kb.IsShiftLocked() {
		kb.SetShifted(false)
	}
}

var navigationByCode = map[int]switcher.NavigationType{
	model.KeyCodeModeSymbols:        switcher.NavSymbols,
	model.KeyCodeModeAlphabet:       switcher.NavAlphabet,
	model.KeyCodeKeyboardCycle:      switcher.NavAny,
	model.KeyCodeKeyboardReverse:    switcher.NavPreviousAny,
	model.KeyCodeCycleInsideMode:    switcher.NavAnyInsideMode,
	model.KeyCodeKeyboardModeChange: switcher.NavOtherMode,
}

func (s *Session) functionalKey(code int, key *model.Key) {
	if nav, ok := navigationByCode[code]; ok {
		s.Switcher.NextKeyboard(s.editor, nav)

		return
	}

	switch code {
	case model.KeyCodeShift:
		if kb := s.Engine.Keyboard(); kb != nil {
			kb.SetShifted(!kb.IsShifted())
		}
	case model.KeyCodeDelete:
		if len(s.text) > 0 {
			s.text = s.text[:len(s.text)-1]
		}
	case model.KeyCodeDeleteWord:
		s.deleteWord()
	case model.KeyCodeDomain, model.KeyCodeQuickText:
		if key != nil {
			s.text = append(s.text, []rune(key.Text)...)
		}
	default:
		slog.DebugContext(logCtx, "Ignoring functional key", "code", model.KeyCodeName(code))
	}
}

func (s *Session) deleteWord() {
	end := len(s.text)
	for end > 0 && unicode.IsSpace(s.text[end-1]) {
		end--
	}

	for end > 0 && !unicode.IsSpace(s.text[end-1]) {
		end--
	}

	s.text = s.text[:end]
}

func (s *Session) OnText(key *model.Key, text string) {
	s.record(model.EventText, key, 0, 0, text)
	s.text = append(s.text, []rune(text)...)
}

func (s *Session) OnCancel() {
	slog.DebugContext(logCtx, "Key cancelled")
}

func (s *Session) OnFirstDownKey(int) {}

func (s *Session) OnGestureTypingInputStart(int, int, *model.Key, time.Duration) bool {
	return false
}

func (s *Session) OnGestureTypingInput(int, int, time.Duration) {}
func (s *Session) OnGestureTypingInputDone() bool                { return false }
func (s *Session) OnLongPressDone(*model.Key)                    {}

func (s *Session) ShowPreview(int, *touch.PointerTracker) {}
func (s *Session) HidePreview(int, *touch.PointerTracker) {}
func (s *Session) InvalidateKey(*model.Key)               {}

// OnLongPress picks the first popup character, as if the popup was opened
// and the finger released on its first key. The domains popup types the
// default domain.
func (s *Session) OnLongPress(key *model.Key, _ *touch.PointerTracker) bool {
	popup := strings.TrimSpace(key.Popup)
	if popup == "" {
		return false
	}

	if popup == layout.DomainsPopup {
		if s.domain == "" {
			return false
		}

		s.OnText(key, s.domain)

		return true
	}

	r, _ := utf8.DecodeRuneInString(popup)
	s.record(model.EventLongPress, key, int(r), 0, "")
	s.typeRune(r, false)

	return true
}

func (s *Session) OnAlphabetKeyboardSet(kb *model.Keyboard) {
	slog.InfoContext(logCtx, "Alphabet keyboard set", "keyboard", kb.ID, "mode", kb.Mode.String())
	s.Engine.SetKeyboard(kb)
}

func (s *Session) OnSymbolsKeyboardSet(kb *model.Keyboard) {
	slog.InfoContext(logCtx, "Symbols keyboard set", "keyboard", kb.ID)
	s.Engine.SetKeyboard(kb)
}

func (s *Session) OnAvailableKeyboardsChanged(builders []switcher.Builder) {
	ids := make([]string, 0, len(builders))
	for _, b := range builders {
		ids = append(ids, b.ID())
	}

	slog.InfoContext(logCtx, "Available keyboards changed", "keyboards", ids)
}
