package prefs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dasdy/softkeys/prefs"
	"github.com/dasdy/softkeys/switcher"
	"github.com/dasdy/softkeys/touch"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, config string) *viper.Viper {
	t.Helper()

	v := viper.New()
	prefs.SetDefaults(v)
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(config)))

	return v
}

func TestDefaults(t *testing.T) {
	p, err := prefs.Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, prefs.Default(), p)
	assert.Equal(t, switcher.DefaultSettings(), p.SwitcherSettings())
	assert.Equal(t, touch.DefaultConfig(), p.TouchConfig())
	assert.Equal(t, ".com", p.ComposerOptions().DefaultDomain)
	assert.Equal(t, 1080, p.Dimens().MaxWidth)
}

func TestLoadOverrides(t *testing.T) {
	v := newViper(t, `
[keyboard]
use_16_keys_symbols = true
persist_layout_per_package = true
internet_layout = "english-qwerty"

[rows]
top = "top-numbers"
always_hide_language_key = true
url_mode = false

[touch]
long_press_timeout = "500ms"
hysteresis_distance = 12
proximity_correction = false

[screen]
width = 720
`)

	p, err := prefs.Load(v)
	require.NoError(t, err)

	settings := p.SwitcherSettings()
	assert.True(t, settings.Use16KeysSymbols)
	assert.True(t, settings.PersistLayoutPerPackage)
	assert.True(t, settings.CycleOverAllSymbols, "untouched keys keep their default")
	assert.Equal(t, "english-qwerty", settings.InternetLayoutID)
	assert.False(t, settings.RowModes.URL)
	assert.True(t, settings.RowModes.Email)

	assert.Equal(t, "top-numbers", p.Rows.TopRowID)
	assert.True(t, p.ComposerOptions().AlwaysHideLanguageKey)

	cfg := p.TouchConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.LongPressTimeout)
	assert.Equal(t, 50*time.Millisecond, cfg.RepeatInterval)
	assert.Equal(t, 12, cfg.HysteresisDistance)
	assert.False(t, cfg.ProximityCorrection)

	assert.Equal(t, 720, p.Dimens().MaxWidth)
	assert.Equal(t, 140, p.Dimens().NormalKeyHeight)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"zero width", "[screen]\nwidth = 0\n"},
		{"not a duration", "[touch]\nlong_press_timeout = \"soon\"\n"},
		{"not a number", "[touch]\nhysteresis_distance = \"far\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prefs.Load(newViper(t, tt.config))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	v := newViper(t, "[rows]\ntop = \"top-numbers\"\nbottom = \"bottom-default\"\n")

	p, err := prefs.Load(v)
	require.NoError(t, err)

	catalog, err := p.LoadCatalog("data/layouts")
	require.NoError(t, err)

	assert.Equal(t, "top-numbers", catalog.TopRowID)
	assert.Equal(t, "bottom-default", catalog.BottomRowID)
	assert.Equal(t, 1080, catalog.Dimens.MaxWidth)

	_, err = p.LoadCatalog(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softkeys.toml")
	require.NoError(t, os.WriteFile(path, []byte("[touch]\nhysteresis_distance = 8\n"), 0o644))

	v := viper.New()
	prefs.SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	changed := make(chan prefs.Preferences, 4)
	prefs.Watch(v, func(p prefs.Preferences) {
		select {
		case changed <- p:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("[touch]\nhysteresis_distance = 20\n"), 0o644))

	timeout := time.After(5 * time.Second)

	// a truncating write may be seen half done first
	for {
		select {
		case p := <-changed:
			if p.Touch.HysteresisDistance == 20 {
				return
			}
		case <-timeout:
			t.Fatal("config change was not noticed")
		}
	}
}
