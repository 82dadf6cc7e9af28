package layout_test

import (
	"testing"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/switcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *layout.Catalog {
	t.Helper()

	c, err := layout.LoadCatalog("data/layouts", testDimens, layout.ComposerOptions{DefaultDomain: ".com"})
	require.NoError(t, err)

	return c
}

func builderIDs(builders []switcher.Builder) []string {
	ids := make([]string, 0, len(builders))
	for _, b := range builders {
		ids = append(ids, b.ID())
	}

	return ids
}

func TestCatalogBuilders(t *testing.T) {
	c := loadCatalog(t)

	assert.Equal(t, []string{"english-qwerty", "hebrew"}, builderIDs(c.EnabledAlphabets()))

	require.NotNil(t, c.AddOnByID("english-abc"), "disabled alphabets are still add-ons")
	assert.Nil(t, c.AddOnByID("symbols"))
	assert.Nil(t, c.AddOnByID("missing"))

	tests := []struct {
		slot    switcher.SymbolsSlot
		sixteen bool
		want    string
	}{
		{switcher.SymbolsRegular, false, "symbols"},
		{switcher.SymbolsRegular, true, "symbols-16"},
		{switcher.SymbolsAlt, true, "symbols-alt"},
		{switcher.SymbolsAltNumbers, false, "symbols-alt-numbers"},
		{switcher.SymbolsNumbers, false, "numbers"},
		{switcher.SymbolsPhone, false, "phone"},
		{switcher.SymbolsDatetime, true, "datetime"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			b := c.Symbols(tt.slot, tt.sixteen)
			require.NotNil(t, b)
			assert.Equal(t, tt.want, b.ID())
		})
	}
}

func TestCatalogBuildComposes(t *testing.T) {
	c := loadCatalog(t)
	english := c.AddOnByID("english-qwerty")

	kb, err := english.Build(model.RowModeNormal)
	require.NoError(t, err)

	assert.Equal(t, '1', rune(kb.Keys[0].PrimaryCode()))
	assert.Equal(t, 240, kb.Height)
	assert.NotNil(t, kb.ShiftKey())
	assert.NotNil(t, kb.EnterKey())
	assert.True(t, kb.Physical)
	assert.False(t, kb.RightToLeft())

	languageKeys := 0
	for _, k := range kb.Keys {
		if k.PrimaryCode() == model.KeyCodeModeAlphabet {
			languageKeys++
		}
	}

	assert.Equal(t, 1, languageKeys)

	t.Run("url mode has the domain key", func(t *testing.T) {
		kb, err := english.Build(model.RowModeURL)
		require.NoError(t, err)

		var domain *model.Key
		for _, k := range kb.Keys {
			if k.PrimaryCode() == model.KeyCodeDomain {
				domain = k
			}
		}

		require.NotNil(t, domain)
		assert.Equal(t, ".com", domain.Text)
	})

	t.Run("hebrew is right to left", func(t *testing.T) {
		kb, err := c.AddOnByID("hebrew").Build(model.RowModeNormal)
		require.NoError(t, err)
		assert.True(t, kb.RightToLeft())
	})

	t.Run("unknown generic row id", func(t *testing.T) {
		c := loadCatalog(t)
		c.TopRowID = "missing"

		kb, err := c.AddOnByID("english-qwerty").Build(model.RowModeNormal)
		require.NoError(t, err)
		assert.Equal(t, 200, kb.Height)
		assert.Equal(t, 'q', rune(kb.Keys[0].PrimaryCode()))
	})
}

func TestNewCatalogErrors(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := layout.NewCatalog([]layout.Definition{
			{ID: "a", Kind: layout.KindAlphabet},
			{ID: "a", Kind: layout.KindSymbols},
		}, testDimens, layout.ComposerOptions{})
		assert.ErrorIs(t, err, layout.ErrDuplicateID)
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := layout.NewCatalog([]layout.Definition{
			{ID: "a", Kind: layout.KindSymbols, Slot: "emoji"},
		}, testDimens, layout.ComposerOptions{})
		assert.Error(t, err)
	})
}

func TestCatalogDrivesSwitcher(t *testing.T) {
	c := loadCatalog(t)
	s := switcher.New(c, nil, nil, switcher.DefaultSettings())

	info := switcher.EditorInfo{PackageName: "com.example"}

	res := s.SetKeyboardMode(switcher.InputModeText, info, false)
	require.NotNil(t, res.Keyboard)
	assert.Equal(t, "english-qwerty", res.Keyboard.ID)

	next := s.NextKeyboard(info, switcher.NavAlphabet)
	assert.Equal(t, "hebrew", next.ID)

	symbols := s.NextKeyboard(info, switcher.NavSymbols)
	assert.Equal(t, "symbols", symbols.ID)
}

func TestCatalogKeyboardByID(t *testing.T) {
	c := loadCatalog(t)

	ids := c.KeyboardIDs()
	assert.Contains(t, ids, "english-abc")
	assert.Contains(t, ids, "symbols")
	assert.NotContains(t, ids, "top-numbers")

	kb, err := c.Keyboard("symbols", model.RowModeNormal)
	require.NoError(t, err)
	assert.Equal(t, "symbols", kb.ID)

	_, err = c.Keyboard("top-numbers", model.RowModeNormal)
	require.ErrorIs(t, err, layout.ErrUnknownKeyboard)

	_, err = c.Keyboard("missing", model.RowModeNormal)
	require.ErrorIs(t, err, layout.ErrUnknownKeyboard)
}
