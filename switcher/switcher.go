package switcher

import (
	"log/slog"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
)

var logCtx = logging.PackageCtx("switcher")

const lockedTooltip = "keyboard change locked"

// Switcher decides which keyboard is shown. It is not safe for concurrent use:
// all calls come from the input event loop.
type Switcher struct {
	factory  Factory
	listener Listener
	store    PackageStore
	settings Settings

	creators  []Builder
	alphabets *keyboardCache
	symbols   *keyboardCache

	alphabetMode      bool
	locked            bool
	lastAlphabetIndex int
	lastSymbolsIndex  SymbolsSlot
	internetIndex     int
	rowMode           model.RowMode
	lastEditor        *EditorInfo
	direct            *model.Keyboard

	keyboardByPackage map[string]string
}

// New creates a switcher and loads the package mapping from store.
func New(factory Factory, listener Listener, store PackageStore, settings Settings) *Switcher {
	s := &Switcher{
		factory:           factory,
		listener:          listener,
		store:             store,
		settings:          settings,
		alphabets:         newKeyboardCache(0),
		symbols:           newKeyboardCache(0),
		alphabetMode:      true,
		internetIndex:     -1,
		rowMode:           model.RowModeNormal,
		keyboardByPackage: make(map[string]string),
	}

	if store != nil {
		mapping, err := store.Load()
		if err != nil {
			slog.WarnContext(logCtx, "Could not load keyboard per package mapping", "error", err)
		}

		for pkg, id := range mapping {
			s.keyboardByPackage[pkg] = id
		}
	}

	return s
}

// ApplySettings replaces the preferences. Cached keyboards are dropped since
// the symbols variant or internet layout may have changed.
func (s *Switcher) ApplySettings(settings Settings) {
	s.settings = settings
	s.FlushKeyboardsCache()
}

func (s *Switcher) IsAlphabetMode() bool          { return s.alphabetMode }
func (s *Switcher) IsLocked() bool                { return s.locked }
func (s *Switcher) LastAlphabetIndex() int        { return s.lastAlphabetIndex }
func (s *Switcher) LastSymbolsIndex() SymbolsSlot { return s.lastSymbolsIndex }
func (s *Switcher) RowMode() model.RowMode        { return s.rowMode }

// PackageMapping returns a copy of the package to keyboard id map.
func (s *Switcher) PackageMapping() map[string]string {
	result := make(map[string]string, len(s.keyboardByPackage))
	for k, v := range s.keyboardByPackage {
		result[k] = v
	}

	return result
}

// EnabledBuilders returns the alphabet keyboards the user can cycle through.
func (s *Switcher) EnabledBuilders() []Builder {
	s.ensureKeyboardsAreBuilt()

	return s.creators
}

func (s *Switcher) ensureKeyboardsAreBuilt() {
	if len(s.creators) == 0 || s.alphabets.Len() == 0 {
		s.creators = s.factory.EnabledAlphabets()
		s.alphabets = newKeyboardCache(len(s.creators))
		s.internetIndex = s.findIndex(s.settings.InternetLayoutID)
		s.lastAlphabetIndex = 0

		if s.listener != nil {
			s.listener.OnAvailableKeyboardsChanged(s.creators)
		}
	}

	if s.symbols.Len() == 0 {
		s.symbols = newKeyboardCache(int(SymbolsSlotCount))
		if s.lastSymbolsIndex >= SymbolsSlotCount {
			s.lastSymbolsIndex = SymbolsRegular
		}
	}
}

func (s *Switcher) findIndex(id string) int {
	if id == "" {
		return -1
	}

	for i, c := range s.creators {
		if c.ID() == id {
			return i
		}
	}

	return -1
}

// FlushKeyboardsCache drops every built keyboard and the enabled keyboard list.
func (s *Switcher) FlushKeyboardsCache() {
	s.creators = nil
	s.alphabets = newKeyboardCache(0)
	s.symbols = newKeyboardCache(0)
	s.internetIndex = -1
	s.lastEditor = nil
	s.direct = nil
}

// SetKeyboardMode selects the keyboard for a newly focused field.
func (s *Switcher) SetKeyboardMode(mode InputMode, info EditorInfo, restarting bool) ModeResult {
	s.ensureKeyboardsAreBuilt()
	s.direct = nil

	previousType := 0
	if s.lastEditor != nil {
		previousType = s.lastEditor.InputType
	}

	globalModeChanged := info.InputType != previousType
	s.lastEditor = &info
	s.rowMode = ResolveRowMode(&info, s.settings.RowModes)

	var slot SymbolsSlot

	switch mode {
	case InputModeDatetime:
		slot = SymbolsDatetime
	case InputModeNumbers:
		slot = SymbolsNumbers
	case InputModeSymbols:
		slot = SymbolsRegular
	case InputModePhone:
		slot = SymbolsPhone
	default:
		return s.setAlphabetMode(mode, &info, restarting, globalModeChanged)
	}

	s.alphabetMode = false
	s.locked = true
	kb := s.getSymbolsKeyboard(slot)

	if kb != nil && s.listener != nil {
		s.listener.OnSymbolsKeyboardSet(kb)
	}

	return ModeResult{Keyboard: kb, Resubmitted: true}
}

func (s *Switcher) setAlphabetMode(mode InputMode, info *EditorInfo, restarting, globalModeChanged bool) ModeResult {
	s.locked = false
	s.lastAlphabetIndex = s.selectStartIndex(mode, info, restarting)

	// A new field, or a restarted field whose type changed, gets a fresh alphabet keyboard.
	if !restarting || globalModeChanged {
		s.alphabetMode = true
		kb := s.getAlphabetKeyboard(s.lastAlphabetIndex, info)

		if kb != nil && s.listener != nil {
			s.listener.OnAlphabetKeyboardSet(kb)
		}

		return ModeResult{Keyboard: kb, Resubmitted: true}
	}

	return ModeResult{Keyboard: s.currentKeyboard(), Resubmitted: false}
}

func (s *Switcher) selectStartIndex(mode InputMode, info *EditorInfo, restarting bool) int {
	if !restarting && s.internetIndex >= 0 && (mode == InputModeURL || mode == InputModeEmail) {
		return s.internetIndex
	}

	if s.settings.PersistLayoutPerPackage && info != nil && info.PackageName != "" {
		if id, ok := s.keyboardByPackage[info.PackageName]; ok {
			if idx := s.findIndex(id); idx >= 0 {
				return idx
			}
		}
	}

	return s.lastAlphabetIndex
}

func (s *Switcher) currentKeyboard() *model.Keyboard {
	if s.alphabetMode {
		if s.direct != nil {
			return s.direct
		}

		return s.getAlphabetKeyboard(s.lastAlphabetIndex, s.lastEditor)
	}

	return s.getSymbolsKeyboard(s.lastSymbolsIndex)
}

// CurrentKeyboard returns the keyboard shown right now, building it if needed.
func (s *Switcher) CurrentKeyboard() *model.Keyboard {
	s.ensureKeyboardsAreBuilt()

	return s.currentKeyboard()
}

func (s *Switcher) getAlphabetKeyboard(index int, info *EditorInfo) *model.Keyboard {
	return s.getAlphabetKeyboardWithRetry(index, info, true)
}

func (s *Switcher) getAlphabetKeyboardWithRetry(index int, info *EditorInfo, retry bool) *model.Keyboard {
	s.ensureKeyboardsAreBuilt()

	if index >= s.alphabets.Len() || index < 0 {
		index = 0
	}

	mode := ResolveRowMode(info, s.settings.RowModes)

	kb, err := s.alphabets.GetOrBuild(index, mode, func() (*model.Keyboard, error) {
		return s.creators[index].Build(mode)
	})
	if err != nil {
		slog.WarnContext(logCtx, "Could not build alphabet keyboard", "index", index, "error", err)
	}

	if kb == nil {
		if !retry {
			slog.ErrorContext(logCtx, "No usable alphabet keyboard", "count", len(s.creators))

			return nil
		}

		s.FlushKeyboardsCache()

		return s.getAlphabetKeyboardWithRetry(0, info, false)
	}

	s.rememberKeyboardForPackage(info, kb)

	return kb
}

func (s *Switcher) rememberKeyboardForPackage(info *EditorInfo, kb *model.Keyboard) {
	if info == nil || info.PackageName == "" {
		return
	}

	s.keyboardByPackage[info.PackageName] = kb.ID
}

func (s *Switcher) getSymbolsKeyboard(slot SymbolsSlot) *model.Keyboard {
	s.ensureKeyboardsAreBuilt()

	kb, err := s.symbols.GetOrBuild(int(slot), s.rowMode, func() (*model.Keyboard, error) {
		builder := s.factory.Symbols(slot, s.settings.Use16KeysSymbols)
		if builder == nil && slot != SymbolsRegular {
			slog.WarnContext(logCtx, "No keyboard for symbols slot, using regular", "slot", slot.String())

			builder = s.factory.Symbols(SymbolsRegular, s.settings.Use16KeysSymbols)
		}

		if builder == nil {
			return nil, nil
		}

		return builder.Build(s.rowMode)
	})
	if err != nil {
		slog.WarnContext(logCtx, "Could not build symbols keyboard", "slot", slot.String(), "error", err)
	}

	if kb != nil {
		s.lastSymbolsIndex = slot
	}

	return kb
}

// lockedKeyboard returns the current keyboard when the switcher is locked.
func (s *Switcher) lockedKeyboard() (*model.Keyboard, bool) {
	if !s.locked {
		return nil, false
	}

	kb := s.currentKeyboard()
	slog.DebugContext(logCtx, "Switcher is locked, keeping keyboard")

	if kb != nil && s.listener != nil {
		s.listener.OnSymbolsKeyboardSet(kb)
	}

	return kb, true
}

// NextKeyboard moves to another keyboard as requested by the user.
func (s *Switcher) NextKeyboard(info EditorInfo, nav NavigationType) *model.Keyboard {
	if kb, ok := s.lockedKeyboard(); ok {
		return kb
	}

	s.ensureKeyboardsAreBuilt()
	s.direct = nil
	count := len(s.creators)

	switch nav {
	case NavAlphabet, NavAlphabetSupportsPhysical:
		return s.scrollAlphabetKeyboard(&info, nav == NavAlphabetSupportsPhysical, 1)
	case NavSymbols:
		return s.scrollSymbolsKeyboard(1)
	case NavAny:
		if s.alphabetMode {
			if s.lastAlphabetIndex >= count-1 {
				s.lastAlphabetIndex = 0

				return s.scrollSymbolsKeyboard(1)
			}

			return s.scrollAlphabetKeyboard(&info, false, 1)
		}

		if s.lastSymbolsIndex >= lastCycleSymbols {
			s.lastSymbolsIndex = SymbolsRegular

			return s.scrollAlphabetKeyboard(&info, false, 1)
		}

		return s.scrollSymbolsKeyboard(1)
	case NavPreviousAny:
		if s.alphabetMode {
			if s.lastAlphabetIndex <= 0 {
				s.lastAlphabetIndex = 0

				return s.scrollSymbolsKeyboard(-1)
			}

			return s.scrollAlphabetKeyboard(&info, false, -1)
		}

		if s.lastSymbolsIndex <= SymbolsRegular {
			s.lastSymbolsIndex = SymbolsRegular
			s.lastAlphabetIndex = count - 1

			return s.scrollAlphabetKeyboard(&info, false, 1)
		}

		return s.scrollSymbolsKeyboard(-1)
	case NavAnyInsideMode:
		if s.alphabetMode {
			return s.scrollAlphabetKeyboard(&info, false, 1)
		}

		return s.scrollSymbolsKeyboard(1)
	case NavOtherMode:
		if s.alphabetMode {
			return s.scrollSymbolsKeyboard(1)
		}

		return s.scrollAlphabetKeyboard(&info, false, 1)
	default:
		return s.scrollAlphabetKeyboard(&info, false, 1)
	}
}

func (s *Switcher) scrollAlphabetKeyboard(info *EditorInfo, supportsPhysical bool, scroll int) *model.Keyboard {
	count := len(s.creators)

	if s.alphabetMode {
		s.lastAlphabetIndex += scroll
	}

	s.alphabetMode = true
	s.lastAlphabetIndex = Wrap(s.lastAlphabetIndex, count)

	if supportsPhysical {
		if idx, ok := s.findPhysical(s.lastAlphabetIndex, scroll, count); ok {
			s.lastAlphabetIndex = idx
		} else {
			slog.WarnContext(logCtx, "Could not locate a physical keyboard, keeping current", "index", s.lastAlphabetIndex)
		}
	}

	kb := s.getAlphabetKeyboard(s.lastAlphabetIndex, info)
	s.lastSymbolsIndex = SymbolsRegular

	if kb != nil && s.listener != nil {
		s.listener.OnAlphabetKeyboardSet(kb)
	}

	return kb
}

// findPhysical looks for a keyboard that supports a physical keyboard, starting
// at start and moving by scroll.
func (s *Switcher) findPhysical(start, scroll, count int) (int, bool) {
	if scroll == 0 {
		scroll = 1
	}

	idx := start
	for range count {
		if s.creators[idx].Physical() {
			return idx, true
		}

		idx = Wrap(idx+scroll, count)
	}

	return start, false
}

func (s *Switcher) nextSymbolsIndex(scroll int) SymbolsSlot {
	if !s.settings.CycleOverAllSymbols {
		return SymbolsRegular
	}

	if !s.alphabetMode {
		next := s.lastSymbolsIndex + SymbolsSlot(scroll)

		switch {
		case next > lastCycleSymbols:
			return SymbolsRegular
		case next < SymbolsRegular:
			return lastCycleSymbols
		default:
			return next
		}
	}

	if scroll > 0 {
		return SymbolsRegular
	}

	return lastCycleSymbols
}

func (s *Switcher) scrollSymbolsKeyboard(scroll int) *model.Keyboard {
	s.lastSymbolsIndex = s.nextSymbolsIndex(scroll)
	s.alphabetMode = false

	kb := s.getSymbolsKeyboard(s.lastSymbolsIndex)
	if kb != nil && s.listener != nil {
		s.listener.OnSymbolsKeyboardSet(kb)
	}

	return kb
}

// NextAlphabetKeyboardByID shows an enabled alphabet keyboard by its id.
func (s *Switcher) NextAlphabetKeyboardByID(info EditorInfo, id string) *model.Keyboard {
	if kb, ok := s.lockedKeyboard(); ok {
		return kb
	}

	s.ensureKeyboardsAreBuilt()
	s.direct = nil

	idx := s.findIndex(id)
	if idx < 0 {
		slog.WarnContext(logCtx, "No enabled keyboard with id", "id", id)

		return nil
	}

	kb := s.getAlphabetKeyboard(idx, &info)
	s.alphabetMode = true
	s.lastAlphabetIndex = idx
	s.lastSymbolsIndex = SymbolsRegular

	if kb != nil && s.listener != nil {
		s.listener.OnAlphabetKeyboardSet(kb)
	}

	return kb
}

// ShowAlphabetKeyboardByID shows any known alphabet keyboard, even one that is
// not enabled. Such a keyboard is not cached and is dropped on the next switch.
func (s *Switcher) ShowAlphabetKeyboardByID(info EditorInfo, id string) *model.Keyboard {
	if id == "" {
		slog.WarnContext(logCtx, "Requested to show keyboard with empty id")

		return nil
	}

	if kb, ok := s.lockedKeyboard(); ok {
		return kb
	}

	s.ensureKeyboardsAreBuilt()

	if s.findIndex(id) >= 0 {
		return s.NextAlphabetKeyboardByID(info, id)
	}

	builder := s.factory.AddOnByID(id)
	if builder == nil {
		slog.WarnContext(logCtx, "Could not find keyboard in factory", "id", id)

		return nil
	}

	s.direct = nil

	kb, err := builder.Build(ResolveRowMode(&info, s.settings.RowModes))
	if err != nil || kb == nil {
		slog.WarnContext(logCtx, "Failed to create keyboard", "id", id, "error", err)

		return nil
	}

	s.alphabetMode = true
	s.lastEditor = &info
	s.direct = kb

	if s.listener != nil {
		s.listener.OnAlphabetKeyboardSet(kb)
	}

	if info.PackageName != "" {
		s.keyboardByPackage[info.PackageName] = id
	}

	return kb
}

// NextAlterKeyboard toggles between the regular and alt symbols keyboards.
// In alphabet mode it returns the current keyboard.
func (s *Switcher) NextAlterKeyboard(info EditorInfo) *model.Keyboard {
	if kb, ok := s.lockedKeyboard(); ok {
		return kb
	}

	s.ensureKeyboardsAreBuilt()
	s.direct = nil

	if s.alphabetMode {
		return s.currentKeyboard()
	}

	if s.lastSymbolsIndex == SymbolsRegular {
		s.lastSymbolsIndex = SymbolsAlt
	} else {
		s.lastSymbolsIndex = SymbolsRegular
	}

	kb := s.getSymbolsKeyboard(s.lastSymbolsIndex)
	if kb != nil && s.listener != nil {
		s.listener.OnSymbolsKeyboardSet(kb)
	}

	return kb
}

// PeekNextSymbolsKeyboard names the symbols keyboard the next switch would show.
func (s *Switcher) PeekNextSymbolsKeyboard() string {
	if s.locked {
		return lockedTooltip
	}

	s.ensureKeyboardsAreBuilt()

	return s.nextSymbolsIndex(1).String()
}

// PeekNextAlphabetKeyboard names the alphabet keyboard the next switch would show.
func (s *Switcher) PeekNextAlphabetKeyboard() string {
	if s.locked {
		return lockedTooltip
	}

	s.ensureKeyboardsAreBuilt()

	if len(s.creators) == 0 {
		return ""
	}

	idx := s.lastAlphabetIndex
	if s.alphabetMode {
		idx++
	}

	return s.creators[Wrap(idx, len(s.creators))].Name()
}

// CurrentKeyboardSentenceSeparators is empty outside alphabet mode.
func (s *Switcher) CurrentKeyboardSentenceSeparators() string {
	if !s.alphabetMode {
		return ""
	}

	s.ensureKeyboardsAreBuilt()

	if s.lastAlphabetIndex < len(s.creators) {
		return s.creators[s.lastAlphabetIndex].SentenceSeparators()
	}

	return ""
}

func (s *Switcher) IsCurrentKeyboardPhysical() bool {
	kb := s.CurrentKeyboard()

	return kb != nil && kb.Physical
}

// OnLowMemory keeps only the keyboards in use: the current alphabet, and the
// current symbols keyboard when symbols are shown.
func (s *Switcher) OnLowMemory() {
	if s.alphabetMode {
		s.symbols.KeepOnly(-1)
	} else {
		s.symbols.KeepOnly(int(s.lastSymbolsIndex))
	}

	s.alphabets.KeepOnly(s.lastAlphabetIndex)
}

// ShouldPopupForLanguageSwitch is true in alphabet mode with more than two
// alphabets, when the preference asks for it.
func (s *Switcher) ShouldPopupForLanguageSwitch() bool {
	s.ensureKeyboardsAreBuilt()

	return s.alphabetMode && s.alphabets.Len() > 2 && s.settings.ShowLanguagePopup
}

// Destroy stores the package mapping and drops all state.
func (s *Switcher) Destroy() error {
	var err error
	if s.store != nil {
		err = s.store.Store(s.PackageMapping())
	}

	s.FlushKeyboardsCache()
	clear(s.keyboardByPackage)

	return err
}
