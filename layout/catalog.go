package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/switcher"
)

var (
	ErrDuplicateID     = errors.New("duplicate keyboard id")
	ErrUnknownKeyboard = errors.New("unknown keyboard")
)

type symbolsKey struct {
	slot        switcher.SymbolsSlot
	sixteenKeys bool
}

// Catalog holds every loaded definition and builds composed keyboards from them.
type Catalog struct {
	Dimens   model.Dimens
	Composer *Composer

	TopRowID    string
	BottomRowID string

	defs      []*Definition
	byID      map[string]*Definition
	alphabets []*Definition
	symbols   map[symbolsKey]*Definition
	tops      []*Definition
	bottoms   []*Definition
}

var _ switcher.Factory = (*Catalog)(nil)

func NewCatalog(defs []Definition, dimens model.Dimens, opts ComposerOptions) (*Catalog, error) {
	c := &Catalog{
		Dimens:  dimens,
		byID:    map[string]*Definition{},
		symbols: map[symbolsKey]*Definition{},
	}
	c.Composer = NewComposer(opts, func() int { return len(c.alphabets) })

	for i := range defs {
		def := &defs[i]

		if _, ok := c.byID[def.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
		}

		c.byID[def.ID] = def
		c.defs = append(c.defs, def)

		switch def.Kind {
		case KindAlphabet:
			if !def.Disabled {
				c.alphabets = append(c.alphabets, def)
			}
		case KindSymbols:
			slot := switcher.SymbolsRegular
			if def.Slot != "" {
				var ok bool

				slot, ok = switcher.ParseSymbolsSlot(def.Slot)
				if !ok {
					return nil, fmt.Errorf("keyboard %s has unknown symbols slot %q", def.ID, def.Slot)
				}
			}

			c.symbols[symbolsKey{slot, def.SixteenKeys}] = def
		case KindTop:
			c.tops = append(c.tops, def)
		case KindBottom:
			c.bottoms = append(c.bottoms, def)
		}
	}

	slog.InfoContext(logCtx, "Loaded layout catalog",
		"definitions", len(c.defs), "alphabets", len(c.alphabets), "symbols", len(c.symbols))

	return c, nil
}

// LoadCatalog reads every layout file in dir.
func LoadCatalog(dir string, dimens model.Dimens, opts ComposerOptions) (*Catalog, error) {
	files, err := ListDefinitionFiles(dir)
	if err != nil {
		return nil, err
	}

	var defs []Definition

	for _, f := range files {
		loaded, err := LoadFile(f)
		if err != nil {
			return nil, err
		}

		defs = append(defs, loaded...)
	}

	return NewCatalog(defs, dimens, opts)
}

// Definitions returns all definitions in load order.
func (c *Catalog) Definitions() []*Definition {
	return c.defs
}

func (c *Catalog) EnabledAlphabets() []switcher.Builder {
	result := make([]switcher.Builder, 0, len(c.alphabets))
	for _, def := range c.alphabets {
		result = append(result, c.builder(def))
	}

	return result
}

// Symbols falls back to the normal variant when no 16-key one exists.
func (c *Catalog) Symbols(slot switcher.SymbolsSlot, sixteenKeys bool) switcher.Builder {
	if def, ok := c.symbols[symbolsKey{slot, sixteenKeys}]; ok {
		return c.builder(def)
	}

	if def, ok := c.symbols[symbolsKey{slot, false}]; ok && sixteenKeys {
		return c.builder(def)
	}

	return nil
}

func (c *Catalog) AddOnByID(id string) switcher.Builder {
	def, ok := c.byID[id]
	if !ok || def.Kind != KindAlphabet {
		return nil
	}

	return c.builder(def)
}

// KeyboardIDs lists alphabet and symbols keyboards, disabled ones included,
// in load order.
func (c *Catalog) KeyboardIDs() []string {
	var ids []string

	for _, def := range c.defs {
		if def.Kind == KindAlphabet || def.Kind == KindSymbols {
			ids = append(ids, def.ID)
		}
	}

	return ids
}

// Keyboard builds the composed keyboard with the given id.
func (c *Catalog) Keyboard(id string, mode model.RowMode) (*model.Keyboard, error) {
	def, ok := c.byID[id]
	if !ok || (def.Kind != KindAlphabet && def.Kind != KindSymbols) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKeyboard, id)
	}

	return c.builder(def).Build(mode)
}

// TopRow picks the generic top row by TopRowID, or the first one loaded.
func (c *Catalog) TopRow() Extension {
	return pickExtension(c.tops, c.TopRowID)
}

func (c *Catalog) BottomRow() Extension {
	return pickExtension(c.bottoms, c.BottomRowID)
}

func pickExtension(defs []*Definition, id string) Extension {
	for _, def := range defs {
		if id == "" || def.ID == id {
			return def
		}
	}

	return nil
}

func (c *Catalog) builder(def *Definition) switcher.Builder {
	return &keyboardBuilder{def: def, catalog: c}
}

type keyboardBuilder struct {
	def     *Definition
	catalog *Catalog
}

func (b *keyboardBuilder) ID() string                 { return b.def.ID }
func (b *keyboardBuilder) Name() string               { return b.def.Name }
func (b *keyboardBuilder) Physical() bool             { return b.def.Physical }
func (b *keyboardBuilder) SentenceSeparators() string { return b.def.Separators }

func (b *keyboardBuilder) Build(mode model.RowMode) (*model.Keyboard, error) {
	c := b.catalog

	kb, err := b.def.Build(mode, c.Dimens)
	if err != nil {
		return nil, fmt.Errorf("could not build keyboard %s: %w", b.def.ID, err)
	}

	return c.Composer.Compose(kb, c.TopRow(), c.BottomRow(), mode, c.Dimens), nil
}
