package layout

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/dasdy/softkeys/model"
	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindAlphabet Kind = "alphabet"
	KindSymbols  Kind = "symbols"
	KindTop      Kind = "top"
	KindBottom   Kind = "bottom"
)

const defaultKeyWidthPercent = 10.0

var ErrUnknownFormat = errors.New("unknown layout definition format")

// Definition describes one keyboard, or one generic top/bottom row set, as
// written in a layout file.
type Definition struct {
	ID          string   `toml:"id"           yaml:"id"`
	Name        string   `toml:"name"         yaml:"name"`
	Kind        Kind     `toml:"kind"         yaml:"kind"`
	Slot        string   `toml:"slot"         yaml:"slot"`
	SixteenKeys bool     `toml:"sixteen_keys" yaml:"sixteen_keys"`
	Physical    bool     `toml:"physical"     yaml:"physical"`
	Disabled    bool     `toml:"disabled"     yaml:"disabled"`
	Separators  string   `toml:"separators"   yaml:"separators"`
	Rows        []RowDef `toml:"rows"         yaml:"rows"`
}

type RowDef struct {
	Modes  []string `toml:"modes"  yaml:"modes"`
	Edge   string   `toml:"edge"   yaml:"edge"`
	Height string   `toml:"height" yaml:"height"`
	Keys   []KeyDef `toml:"keys"   yaml:"keys"`
}

type KeyDef struct {
	// Chars lists one code per character, in multi-tap order.
	Chars string `toml:"chars" yaml:"chars"`
	// Code is a symbolic or numeric code, used instead of Chars.
	Code        string  `toml:"code"         yaml:"code"`
	Shifted     string  `toml:"shifted"      yaml:"shifted"`
	Width       float64 `toml:"width"        yaml:"width"`
	Label       string  `toml:"label"        yaml:"label"`
	Text        string  `toml:"text"         yaml:"text"`
	Popup       string  `toml:"popup"        yaml:"popup"`
	LongPress   string  `toml:"long_press"   yaml:"long_press"`
	Repeatable  bool    `toml:"repeatable"   yaml:"repeatable"`
	Modifier    bool    `toml:"modifier"     yaml:"modifier"`
	ShowAlways  bool    `toml:"show_always"  yaml:"show_always"`
	ShiftAlways *bool   `toml:"shift_always" yaml:"shift_always"`
	Disabled    bool    `toml:"disabled"     yaml:"disabled"`
}

// Decode reads definitions from r. format is a file extension: toml, yaml or yml.
func Decode(r io.Reader, format string) ([]Definition, error) {
	var file struct {
		Keyboards []Definition `toml:"keyboards" yaml:"keyboards"`
	}

	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("could not decode toml layout: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("could not decode yaml layout: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	for i := range file.Keyboards {
		if err := file.Keyboards[i].Validate(); err != nil {
			return nil, err
		}
	}

	return file.Keyboards, nil
}

// LoadFile opens a layout file relative to the project root unless the path is absolute.
func LoadFile(path string) ([]Definition, error) {
	file, err := OpenPath(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	defs, err := Decode(file, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", path, err)
	}

	return defs, nil
}

func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("keyboard %q has no id", d.Name)
	}

	switch d.Kind {
	case KindAlphabet, KindSymbols, KindTop, KindBottom:
	default:
		return fmt.Errorf("keyboard %s has unknown kind %q", d.ID, d.Kind)
	}

	for ri, row := range d.Rows {
		for ki, key := range row.Keys {
			if _, err := key.codes(); err != nil {
				return fmt.Errorf("keyboard %s row %d key %d: %w", d.ID, ri, ki, err)
			}
		}
	}

	return nil
}

func (r *RowDef) appliesTo(mode model.RowMode) bool {
	return len(r.Modes) == 0 || slices.Contains(r.Modes, mode.String())
}

func (r *RowDef) edge() model.EdgeFlag {
	switch r.Edge {
	case "top":
		return model.EdgeTop
	case "bottom":
		return model.EdgeBottom
	default:
		return 0
	}
}

func (r *RowDef) height(dimens model.Dimens) int {
	switch r.Height {
	case "large":
		return dimens.LargeKeyHeight
	case "small":
		return dimens.SmallKeyHeight
	default:
		return dimens.NormalKeyHeight
	}
}

// ParseCode accepts a symbolic name such as SHIFT, a decimal number, or a
// single character.
func ParseCode(s string) (int, error) {
	if code, ok := model.KeyCodeByName(strings.ToUpper(s)); ok {
		return code, nil
	}

	if n, err := strconv.Atoi(s); err == nil && utf8.RuneCountInString(s) > 1 {
		return n, nil
	}

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)

		return int(r), nil
	}

	return 0, fmt.Errorf("unknown key code %q", s)
}

func runesToCodes(s string) []int {
	codes := make([]int, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		codes = append(codes, int(r))
	}

	return codes
}

func (k *KeyDef) codes() ([]int, error) {
	if k.Code != "" {
		code, err := ParseCode(k.Code)
		if err != nil {
			return nil, err
		}

		return []int{code}, nil
	}

	if k.Chars == "" && k.Text == "" && k.Popup == "" {
		return nil, errors.New("key has neither chars, code, text nor popup")
	}

	return runesToCodes(k.Chars), nil
}

func (k *KeyDef) toKey() (*model.Key, error) {
	codes, err := k.codes()
	if err != nil {
		return nil, err
	}

	var shifted []int
	if k.Shifted != "" {
		shifted = runesToCodes(k.Shifted)
	}

	key := model.NewKey(codes, shifted)
	if k.ShiftAlways != nil {
		key.ShiftCodesAlways = *k.ShiftAlways
	}

	if k.LongPress != "" {
		key.LongPressCode, err = ParseCode(k.LongPress)
		if err != nil {
			return nil, fmt.Errorf("long press: %w", err)
		}
	}

	key.Label = k.Label
	key.Text = k.Text
	key.Popup = k.Popup
	key.Repeatable = k.Repeatable
	key.Modifier = k.Modifier

	if k.ShowAlways {
		key.Visibility = model.ShowAlways
	}

	if k.Disabled {
		key.Disable()
	}

	return key, nil
}

// Build lays out the rows of d that apply to mode. Keys are placed left to
// right and rows top to bottom, with widths given in percent of dimens.MaxWidth.
func (d *Definition) Build(mode model.RowMode, dimens model.Dimens) (*model.Keyboard, error) {
	kb := model.NewKeyboard(d.ID, mode)
	kb.Name = d.Name
	kb.Alphabet = d.Kind == KindAlphabet
	kb.Physical = d.Physical
	kb.SentenceSeparators = runesToCodes(d.Separators)

	y := 0

	for _, rd := range d.Rows {
		if !rd.appliesTo(mode) {
			continue
		}

		height := rd.height(dimens)
		rowID := kb.AddRow(model.Row{
			EdgeFlags:   rd.edge(),
			Mode:        mode,
			Height:      height,
			VerticalGap: dimens.VerticalGap,
			Generic:     d.Kind == KindTop || d.Kind == KindBottom,
		})

		x := 0

		for _, kd := range rd.Keys {
			key, err := kd.toKey()
			if err != nil {
				return nil, fmt.Errorf("keyboard %s: %w", d.ID, err)
			}

			percent := kd.Width
			if percent <= 0 {
				percent = defaultKeyWidthPercent
			}

			key.Gap = dimens.HorizontalGap
			key.Width = int(percent*float64(dimens.MaxWidth)/100) - key.Gap
			key.Height = height
			key.X = x
			key.Y = y
			key.Row = rowID

			x += key.Width + key.Gap
			kb.Keys = append(kb.Keys, key)
		}

		kb.Width = max(kb.Width, x)
		y += height + dimens.VerticalGap
	}

	kb.Height = y

	return kb, nil
}

// BuildRows makes a Definition usable as a generic row extension.
func (d *Definition) BuildRows(mode model.RowMode, dimens model.Dimens) (*model.Keyboard, error) {
	return d.Build(mode, dimens)
}

// ExtensionID identifies the extension in diagnostics.
func (d *Definition) ExtensionID() string {
	return d.ID
}
