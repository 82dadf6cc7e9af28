package prefs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/switcher"
	"github.com/dasdy/softkeys/touch"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var logCtx = logging.PackageCtx("prefs")

// Preferences is the user configuration the input engine reads. It is
// loaded from the [keyboard], [rows], [touch] and [screen] tables of the
// config file.
type Preferences struct {
	Keyboard KeyboardPrefs `mapstructure:"keyboard"`
	Rows     RowPrefs      `mapstructure:"rows"`
	Touch    TouchPrefs    `mapstructure:"touch"`
	Screen   ScreenPrefs   `mapstructure:"screen"`
}

type KeyboardPrefs struct {
	Use16KeysSymbols        bool   `mapstructure:"use_16_keys_symbols"`
	PersistLayoutPerPackage bool   `mapstructure:"persist_layout_per_package"`
	CycleOverAllSymbols     bool   `mapstructure:"cycle_over_all_symbols"`
	ShowLanguagePopup       bool   `mapstructure:"show_language_popup"`
	InternetLayoutID        string `mapstructure:"internet_layout"`
}

type RowPrefs struct {
	TopRowID                   string `mapstructure:"top"`
	BottomRowID                string `mapstructure:"bottom"`
	DisallowGenericRowOverride bool   `mapstructure:"disallow_generic_row_override"`
	AlwaysHideLanguageKey      bool   `mapstructure:"always_hide_language_key"`
	DefaultDomain              string `mapstructure:"default_domain"`

	IMMode       bool `mapstructure:"im_mode"`
	URLMode      bool `mapstructure:"url_mode"`
	EmailMode    bool `mapstructure:"email_mode"`
	PasswordMode bool `mapstructure:"password_mode"`
}

type TouchPrefs struct {
	RepeatStartDelay time.Duration `mapstructure:"repeat_start_delay"`
	RepeatInterval   time.Duration `mapstructure:"repeat_interval"`
	LongPressTimeout time.Duration `mapstructure:"long_press_timeout"`
	MultiTapTimeout  time.Duration `mapstructure:"multi_tap_timeout"`
	TwoFingersLinger time.Duration `mapstructure:"two_fingers_linger"`

	HysteresisDistance  int  `mapstructure:"hysteresis_distance"`
	ProximityCorrection bool `mapstructure:"proximity_correction"`

	SwipeVelocityThreshold int `mapstructure:"swipe_velocity_threshold"`
	SwipeDistanceThreshold int `mapstructure:"swipe_distance_threshold"`
}

type ScreenPrefs struct {
	Width           int `mapstructure:"width"`
	NormalKeyHeight int `mapstructure:"normal_key_height"`
	LargeKeyHeight  int `mapstructure:"large_key_height"`
	SmallKeyHeight  int `mapstructure:"small_key_height"`
	HorizontalGap   int `mapstructure:"horizontal_gap"`
	VerticalGap     int `mapstructure:"vertical_gap"`
}

// Default returns the preferences used when the config file sets nothing.
func Default() Preferences {
	s := switcher.DefaultSettings()
	t := touch.DefaultConfig()

	return Preferences{
		Keyboard: KeyboardPrefs{
			Use16KeysSymbols:        s.Use16KeysSymbols,
			PersistLayoutPerPackage: s.PersistLayoutPerPackage,
			CycleOverAllSymbols:     s.CycleOverAllSymbols,
			ShowLanguagePopup:       s.ShowLanguagePopup,
			InternetLayoutID:        s.InternetLayoutID,
		},
		Rows: RowPrefs{
			DefaultDomain: ".com",
			IMMode:        s.RowModes.IM,
			URLMode:       s.RowModes.URL,
			EmailMode:     s.RowModes.Email,
			PasswordMode:  s.RowModes.Password,
		},
		Touch: TouchPrefs{
			RepeatStartDelay:       t.RepeatStartDelay,
			RepeatInterval:         t.RepeatInterval,
			LongPressTimeout:       t.LongPressTimeout,
			MultiTapTimeout:        t.MultiTapTimeout,
			TwoFingersLinger:       t.TwoFingersLinger,
			HysteresisDistance:     t.HysteresisDistance,
			ProximityCorrection:    t.ProximityCorrection,
			SwipeVelocityThreshold: t.SwipeVelocityThreshold,
			SwipeDistanceThreshold: t.SwipeXDistanceThreshold,
		},
		Screen: ScreenPrefs{
			Width:           1080,
			NormalKeyHeight: 140,
			LargeKeyHeight:  160,
			SmallKeyHeight:  100,
			HorizontalGap:   8,
			VerticalGap:     12,
		},
	}
}

// SetDefaults registers Default with v, so every key is known to viper even
// when the config file does not mention it.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("keyboard.use_16_keys_symbols", d.Keyboard.Use16KeysSymbols)
	v.SetDefault("keyboard.persist_layout_per_package", d.Keyboard.PersistLayoutPerPackage)
	v.SetDefault("keyboard.cycle_over_all_symbols", d.Keyboard.CycleOverAllSymbols)
	v.SetDefault("keyboard.show_language_popup", d.Keyboard.ShowLanguagePopup)
	v.SetDefault("keyboard.internet_layout", d.Keyboard.InternetLayoutID)

	v.SetDefault("rows.top", d.Rows.TopRowID)
	v.SetDefault("rows.bottom", d.Rows.BottomRowID)
	v.SetDefault("rows.disallow_generic_row_override", d.Rows.DisallowGenericRowOverride)
	v.SetDefault("rows.always_hide_language_key", d.Rows.AlwaysHideLanguageKey)
	v.SetDefault("rows.default_domain", d.Rows.DefaultDomain)
	v.SetDefault("rows.im_mode", d.Rows.IMMode)
	v.SetDefault("rows.url_mode", d.Rows.URLMode)
	v.SetDefault("rows.email_mode", d.Rows.EmailMode)
	v.SetDefault("rows.password_mode", d.Rows.PasswordMode)

	v.SetDefault("touch.repeat_start_delay", d.Touch.RepeatStartDelay)
	v.SetDefault("touch.repeat_interval", d.Touch.RepeatInterval)
	v.SetDefault("touch.long_press_timeout", d.Touch.LongPressTimeout)
	v.SetDefault("touch.multi_tap_timeout", d.Touch.MultiTapTimeout)
	v.SetDefault("touch.two_fingers_linger", d.Touch.TwoFingersLinger)
	v.SetDefault("touch.hysteresis_distance", d.Touch.HysteresisDistance)
	v.SetDefault("touch.proximity_correction", d.Touch.ProximityCorrection)
	v.SetDefault("touch.swipe_velocity_threshold", d.Touch.SwipeVelocityThreshold)
	v.SetDefault("touch.swipe_distance_threshold", d.Touch.SwipeDistanceThreshold)

	v.SetDefault("screen.width", d.Screen.Width)
	v.SetDefault("screen.normal_key_height", d.Screen.NormalKeyHeight)
	v.SetDefault("screen.large_key_height", d.Screen.LargeKeyHeight)
	v.SetDefault("screen.small_key_height", d.Screen.SmallKeyHeight)
	v.SetDefault("screen.horizontal_gap", d.Screen.HorizontalGap)
	v.SetDefault("screen.vertical_gap", d.Screen.VerticalGap)
}

// Load decodes the preferences currently held by v.
func Load(v *viper.Viper) (Preferences, error) {
	var p Preferences

	if err := v.Unmarshal(&p); err != nil {
		return Preferences{}, fmt.Errorf("could not decode preferences: %w", err)
	}

	if p.Screen.Width <= 0 {
		return Preferences{}, fmt.Errorf("screen width must be positive, got %d", p.Screen.Width)
	}

	return p, nil
}

// Watch calls onChange with the reloaded preferences every time the config
// file changes on disk. Reloads that fail to decode are logged and skipped.
func Watch(v *viper.Viper, onChange func(Preferences)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		slog.InfoContext(logCtx, "Config file changed", "file", e.Name, "op", e.Op.String())

		p, err := Load(v)
		if err != nil {
			slog.ErrorContext(logCtx, "Could not reload preferences", "error", err)

			return
		}

		onChange(p)
	})
	v.WatchConfig()
}

func (p Preferences) SwitcherSettings() switcher.Settings {
	return switcher.Settings{
		Use16KeysSymbols:        p.Keyboard.Use16KeysSymbols,
		PersistLayoutPerPackage: p.Keyboard.PersistLayoutPerPackage,
		CycleOverAllSymbols:     p.Keyboard.CycleOverAllSymbols,
		ShowLanguagePopup:       p.Keyboard.ShowLanguagePopup,
		InternetLayoutID:        p.Keyboard.InternetLayoutID,
		RowModes: switcher.RowModeToggles{
			IM:       p.Rows.IMMode,
			URL:      p.Rows.URLMode,
			Email:    p.Rows.EmailMode,
			Password: p.Rows.PasswordMode,
		},
	}
}

func (p Preferences) ComposerOptions() layout.ComposerOptions {
	return layout.ComposerOptions{
		DisallowGenericRowOverride: p.Rows.DisallowGenericRowOverride,
		AlwaysHideLanguageKey:      p.Rows.AlwaysHideLanguageKey,
		DefaultDomain:              p.Rows.DefaultDomain,
	}
}

func (p Preferences) TouchConfig() touch.Config {
	return touch.Config{
		RepeatStartDelay:        p.Touch.RepeatStartDelay,
		RepeatInterval:          p.Touch.RepeatInterval,
		LongPressTimeout:        p.Touch.LongPressTimeout,
		MultiTapTimeout:         p.Touch.MultiTapTimeout,
		TwoFingersLinger:        p.Touch.TwoFingersLinger,
		HysteresisDistance:      p.Touch.HysteresisDistance,
		ProximityCorrection:     p.Touch.ProximityCorrection,
		SwipeVelocityThreshold:  p.Touch.SwipeVelocityThreshold,
		SwipeXDistanceThreshold: p.Touch.SwipeDistanceThreshold,
	}
}

func (p Preferences) Dimens() model.Dimens {
	return model.Dimens{
		MaxWidth:        p.Screen.Width,
		NormalKeyHeight: p.Screen.NormalKeyHeight,
		LargeKeyHeight:  p.Screen.LargeKeyHeight,
		SmallKeyHeight:  p.Screen.SmallKeyHeight,
		HorizontalGap:   p.Screen.HorizontalGap,
		VerticalGap:     p.Screen.VerticalGap,
	}
}

// LoadCatalog loads the layout files of dir with these preferences applied.
func (p Preferences) LoadCatalog(dir string) (*layout.Catalog, error) {
	catalog, err := layout.LoadCatalog(dir, p.Dimens(), p.ComposerOptions())
	if err != nil {
		return nil, fmt.Errorf("could not load layouts from %s: %w", dir, err)
	}

	catalog.TopRowID = p.Rows.TopRowID
	catalog.BottomRowID = p.Rows.BottomRowID

	return catalog, nil
}
