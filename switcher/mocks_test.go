package switcher_test

import (
	"errors"
	"fmt"

	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/switcher"
)

// BuilderMock builds an empty keyboard and counts builds.
type BuilderMock struct {
	KeyboardID string
	Physic     bool
	Fail       bool
	BuildCount int
}

func (b *BuilderMock) ID() string                 { return b.KeyboardID }
func (b *BuilderMock) Name() string               { return "name-" + b.KeyboardID }
func (b *BuilderMock) Physical() bool             { return b.Physic }
func (b *BuilderMock) SentenceSeparators() string { return ".!?" }

func (b *BuilderMock) Build(mode model.RowMode) (*model.Keyboard, error) {
	b.BuildCount++

	if b.Fail {
		return nil, errors.New("broken builder")
	}

	kb := model.NewKeyboard(b.KeyboardID, mode)
	kb.Alphabet = true
	kb.Physical = b.Physic

	return kb, nil
}

// FactoryMock serves a fixed list of alphabets and one builder per symbols slot.
type FactoryMock struct {
	Alphabets []*BuilderMock
	Symbols16 bool
	Extra     map[string]*BuilderMock
	symbols   map[switcher.SymbolsSlot]*BuilderMock
}

func NewFactoryMock(alphabetIDs ...string) *FactoryMock {
	f := &FactoryMock{
		Extra:   map[string]*BuilderMock{},
		symbols: map[switcher.SymbolsSlot]*BuilderMock{},
	}

	for _, id := range alphabetIDs {
		f.Alphabets = append(f.Alphabets, &BuilderMock{KeyboardID: id})
	}

	for slot := switcher.SymbolsRegular; slot < switcher.SymbolsSlotCount; slot++ {
		f.symbols[slot] = &BuilderMock{KeyboardID: fmt.Sprintf("symbols-%s", slot)}
	}

	return f
}

func (f *FactoryMock) EnabledAlphabets() []switcher.Builder {
	result := make([]switcher.Builder, 0, len(f.Alphabets))
	for _, a := range f.Alphabets {
		result = append(result, a)
	}

	return result
}

func (f *FactoryMock) Symbols(slot switcher.SymbolsSlot, sixteenKeys bool) switcher.Builder {
	f.Symbols16 = sixteenKeys

	b, ok := f.symbols[slot]
	if !ok {
		return nil
	}

	return b
}

func (f *FactoryMock) AddOnByID(id string) switcher.Builder {
	if b, ok := f.Extra[id]; ok {
		return b
	}

	for _, a := range f.Alphabets {
		if a.KeyboardID == id {
			return a
		}
	}

	return nil
}

type ListenerMock struct {
	AlphabetSet  []*model.Keyboard
	SymbolsSet   []*model.Keyboard
	Availability int
}

func (l *ListenerMock) OnAlphabetKeyboardSet(kb *model.Keyboard) {
	l.AlphabetSet = append(l.AlphabetSet, kb)
}

func (l *ListenerMock) OnSymbolsKeyboardSet(kb *model.Keyboard) {
	l.SymbolsSet = append(l.SymbolsSet, kb)
}

func (l *ListenerMock) OnAvailableKeyboardsChanged(_ []switcher.Builder) {
	l.Availability++
}

type StoreMock struct {
	Mapping map[string]string
	Stored  map[string]string
}

func (s *StoreMock) Load() (map[string]string, error) {
	return s.Mapping, nil
}

func (s *StoreMock) Store(mapping map[string]string) error {
	s.Stored = mapping

	return nil
}
