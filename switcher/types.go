package switcher

import (
	"github.com/dasdy/softkeys/model"
)

// InputMode is the kind of field the editor asks a keyboard for.
type InputMode int

const (
	InputModeText InputMode = iota + 1
	InputModeSymbols
	InputModePhone
	InputModeURL
	InputModeEmail
	InputModeIM
	InputModeDatetime
	InputModeNumbers
)

var inputModeNames = map[string]InputMode{
	"text":     InputModeText,
	"symbols":  InputModeSymbols,
	"phone":    InputModePhone,
	"url":      InputModeURL,
	"email":    InputModeEmail,
	"im":       InputModeIM,
	"datetime": InputModeDatetime,
	"numbers":  InputModeNumbers,
}

func ParseInputMode(s string) (InputMode, bool) {
	m, ok := inputModeNames[s]

	return m, ok
}

// SymbolsSlot indexes the symbols keyboards.
type SymbolsSlot int

const (
	SymbolsRegular SymbolsSlot = iota
	SymbolsAlt
	SymbolsAltNumbers
	SymbolsNumbers
	SymbolsPhone
	SymbolsDatetime
	SymbolsSlotCount

	lastCycleSymbols = SymbolsAltNumbers
)

var symbolsSlotNames = [SymbolsSlotCount]string{
	"regular", "alt", "alt-numbers", "numbers", "phone", "datetime",
}

func (s SymbolsSlot) String() string {
	if s < 0 || s >= SymbolsSlotCount {
		return "unknown"
	}

	return symbolsSlotNames[s]
}

func ParseSymbolsSlot(s string) (SymbolsSlot, bool) {
	for i, name := range symbolsSlotNames {
		if name == s {
			return SymbolsSlot(i), true
		}
	}

	return 0, false
}

type NavigationType int

const (
	NavAlphabet NavigationType = iota
	NavAlphabetSupportsPhysical
	NavSymbols
	NavAny
	NavPreviousAny
	NavAnyInsideMode
	NavOtherMode
)

var navigationNames = map[string]NavigationType{
	"alphabet":          NavAlphabet,
	"alphabet-physical": NavAlphabetSupportsPhysical,
	"symbols":           NavSymbols,
	"any":               NavAny,
	"previous-any":      NavPreviousAny,
	"inside-mode":       NavAnyInsideMode,
	"other-mode":        NavOtherMode,
}

func ParseNavigationType(s string) (NavigationType, bool) {
	n, ok := navigationNames[s]

	return n, ok
}

// Variation narrows a text field. It drives the row mode.
type Variation int

const (
	VariationNormal Variation = iota
	VariationURI
	VariationEmail
	VariationPassword
	VariationShortMessage
)

var variationNames = map[string]Variation{
	"normal":   VariationNormal,
	"uri":      VariationURI,
	"email":    VariationEmail,
	"password": VariationPassword,
	"message":  VariationShortMessage,
}

func ParseVariation(s string) (Variation, bool) {
	v, ok := variationNames[s]

	return v, ok
}

// EditorInfo describes the focused field.
type EditorInfo struct {
	PackageName string
	InputType   int
	Variation   Variation
}

// Builder creates one keyboard layout for a row mode.
type Builder interface {
	ID() string
	Name() string
	Physical() bool
	SentenceSeparators() string
	Build(mode model.RowMode) (*model.Keyboard, error)
}

// Factory lists the keyboards available to the switcher.
type Factory interface {
	EnabledAlphabets() []Builder
	// Symbols returns nil when there is no keyboard for the slot.
	Symbols(slot SymbolsSlot, sixteenKeys bool) Builder
	// AddOnByID finds any alphabet keyboard, enabled or not.
	AddOnByID(id string) Builder
}

type Listener interface {
	OnAlphabetKeyboardSet(kb *model.Keyboard)
	OnSymbolsKeyboardSet(kb *model.Keyboard)
	OnAvailableKeyboardsChanged(builders []Builder)
}

// PackageStore persists which keyboard was last used in which application.
type PackageStore interface {
	Load() (map[string]string, error)
	Store(mapping map[string]string) error
}

// Settings are the preferences the switcher reads.
type Settings struct {
	Use16KeysSymbols        bool
	PersistLayoutPerPackage bool
	CycleOverAllSymbols     bool
	ShowLanguagePopup       bool
	InternetLayoutID        string
	RowModes                RowModeToggles
}

// RowModeToggles enables the special row variants. A disabled mode falls back to normal.
type RowModeToggles struct {
	IM       bool
	URL      bool
	Email    bool
	Password bool
}

func DefaultSettings() Settings {
	return Settings{
		CycleOverAllSymbols: true,
		ShowLanguagePopup:   true,
		RowModes:            RowModeToggles{IM: true, URL: true, Email: true, Password: true},
	}
}

// ModeResult is what SetKeyboardMode decided to show.
type ModeResult struct {
	Keyboard *model.Keyboard
	// Resubmitted is false when the already shown keyboard was kept as is.
	Resubmitted bool
}
