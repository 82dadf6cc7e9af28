package layout

import (
	"log/slog"
	"unicode"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	"golang.org/x/text/unicode/bidi"
)

var logCtx = logging.PackageCtx("layout")

// Extension is a source of generic top or bottom rows.
type Extension interface {
	ExtensionID() string
	BuildRows(mode model.RowMode, dimens model.Dimens) (*model.Keyboard, error)
}

type ComposerOptions struct {
	// DisallowGenericRowOverride merges generic rows even when the layout
	// declares its own top or bottom row.
	DisallowGenericRowOverride bool
	AlwaysHideLanguageKey      bool
	DefaultDomain              string
}

// Composer merges a language keyboard with the generic top and bottom rows.
type Composer struct {
	Options ComposerOptions
	// EnabledAlphabets reports how many alphabet keyboards the user can switch between.
	EnabledAlphabets func() int
}

func NewComposer(opts ComposerOptions, enabledAlphabets func() int) *Composer {
	return &Composer{Options: opts, EnabledAlphabets: enabledAlphabets}
}

var functionalCodes = map[int]bool{
	model.KeyCodeDelete:             true,
	model.KeyCodeForwardDelete:      true,
	model.KeyCodeModeAlphabet:       true,
	model.KeyCodeKeyboardModeChange: true,
	model.KeyCodeKeyboardCycle:      true,
	model.KeyCodeCycleInsideMode:    true,
	model.KeyCodeKeyboardReverse:    true,
	model.KeyCodeAlt:                true,
	model.KeyCodeModeSymbols:        true,
	model.KeyCodeQuickText:          true,
	model.KeyCodeDomain:             true,
	model.KeyCodeCancel:             true,
	model.KeyCodeCtrl:               true,
	model.KeyCodeShift:              true,
	model.KeyCodeVoiceInput:         true,
	model.KeyCodeAltModifier:        true,
	model.KeyCodeFunction:           true,
}

var roleCodes = map[int]model.Role{
	model.KeyCodeShift:       model.RoleShift,
	model.KeyCodeCtrl:        model.RoleControl,
	model.KeyCodeAltModifier: model.RoleAlt,
	model.KeyCodeFunction:    model.RoleFunction,
	model.KeyCodeVoiceInput:  model.RoleVoice,
	model.KeyCodeEnter:       model.RoleEnter,
}

// DomainsPopup is the popup of domain keys. It names the list of domains
// instead of holding popup characters.
const DomainsPopup = "domains"

// Compose returns base with generic rows merged in, roles assigned and
// redundant language keys removed. base is modified in place.
func (c *Composer) Compose(base *model.Keyboard, top, bottom Extension, mode model.RowMode, dimens model.Dimens) *model.Keyboard {
	kb := base
	segments := [][]*model.Key{nil, kb.Keys, nil}

	if c.Options.DisallowGenericRowOverride || !kb.HasRowWithEdge(model.EdgeTop) {
		if rows := c.extensionRows(top, mode, dimens, false); rows != nil {
			segments[0] = applyTopRow(kb, rows)
		}
	}

	if c.Options.DisallowGenericRowOverride || !kb.HasRowWithEdge(model.EdgeBottom) {
		if rows := c.extensionRows(bottom, mode, dimens, true); rows != nil {
			segments[2] = applyBottomRow(kb, rows)
		}
	}

	var languageKeys []*model.Key

	for _, segment := range segments {
		languageKeys = append(languageKeys, c.initSegment(kb, segment)...)
	}

	if len(languageKeys) > 0 && c.languageKeysRedundant() {
		RemoveRedundantKeys(kb, languageKeys)
	}

	FixEdgeFlags(kb)

	return kb
}

func (c *Composer) extensionRows(ext Extension, mode model.RowMode, dimens model.Dimens, normalFallback bool) *model.Keyboard {
	if ext == nil {
		slog.WarnContext(logCtx, "No generic row extension, skipping", "mode", mode.String())

		return nil
	}

	rows, err := ext.BuildRows(mode, dimens)
	if err != nil {
		slog.WarnContext(logCtx, "Could not build generic rows", "extension", ext.ExtensionID(), "error", err)

		return nil
	}

	if len(rows.Keys) == 0 && normalFallback && mode != model.RowModeNormal {
		slog.DebugContext(logCtx, "Generic rows empty for mode, using normal mode", "extension", ext.ExtensionID(), "mode", mode.String())

		return c.extensionRows(ext, model.RowModeNormal, dimens, false)
	}

	if len(rows.Keys) == 0 {
		slog.WarnContext(logCtx, "Generic rows have no keys", "extension", ext.ExtensionID(), "mode", mode.String())

		return nil
	}

	return rows
}

// spliceRows copies the rows of generic into the arena of kb and re-points the
// generic keys at the copies.
func spliceRows(kb, generic *model.Keyboard) {
	offset := model.RowID(len(kb.Rows))

	for _, row := range generic.Rows {
		row.Generic = true
		kb.AddRow(row)
	}

	for _, key := range generic.Keys {
		if key.Row != model.NoRow {
			key.Row += offset
		}
	}
}

func applyTopRow(kb, generic *model.Keyboard) []*model.Key {
	height := generic.Height

	for _, key := range kb.Keys {
		key.Y += height
	}

	spliceRows(kb, generic)

	keys := make([]*model.Key, 0, len(generic.Keys)+len(kb.Keys))
	keys = append(keys, generic.Keys...)
	kb.Keys = append(keys, kb.Keys...)

	kb.Height += height
	kb.GenericHeight += height
	kb.Width = max(kb.Width, generic.Width)

	return generic.Keys
}

func applyBottomRow(kb, generic *model.Keyboard) []*model.Key {
	offset := kb.Height

	for _, key := range generic.Keys {
		key.Y += offset
	}

	spliceRows(kb, generic)
	kb.Keys = append(kb.Keys, generic.Keys...)

	kb.Height += generic.Height
	kb.GenericHeight += generic.Height
	kb.Width = max(kb.Width, generic.Width)

	return generic.Keys
}

// initSegment sets functional flags and roles for one composition pass.
// Inside a pass the first key with a role wins; a later pass overrides an earlier one.
func (c *Composer) initSegment(kb *model.Keyboard, keys []*model.Key) []*model.Key {
	seen := map[model.Role]bool{}

	var languageKeys []*model.Key

	for _, key := range keys {
		code := key.PrimaryCode()

		if functionalCodes[code] {
			key.Functional = true
		}

		if role, ok := roleCodes[code]; ok && !seen[role] {
			seen[role] = true
			kb.AssignRole(role, key)

			if role != model.RoleEnter && role != model.RoleVoice {
				key.Modifier = true
			}
		}

		c.initMembers(key)

		if code == model.KeyCodeModeAlphabet && key.Visibility != model.ShowAlways {
			languageKeys = append(languageKeys, key)
		}

		if !kb.RightToLeft() && isRightToLeft(code) {
			kb.MarkRightToLeft()
		}
	}

	return languageKeys
}

func (c *Composer) initMembers(key *model.Key) {
	code := key.PrimaryCode()

	switch code {
	case model.KeyCodeQuickText:
		if key.LongPressCode == 0 && key.Popup == "" {
			key.LongPressCode = model.KeyCodeQuickTextPopup
		}
	case model.KeyCodeDomain:
		if key.Text == "" {
			key.Text = c.Options.DefaultDomain
		}

		if key.Label == "" {
			key.Label = key.Text
		}

		if key.Popup == "" {
			key.Popup = DomainsPopup
		}
	case model.KeyCodeDelete:
		key.Repeatable = true

		if key.LongPressCode == 0 {
			key.LongPressCode = model.KeyCodeDeleteWord
		}
	}

	if key.Label == "" && key.Text == "" && code > 31 && !unicode.IsSpace(rune(code)) {
		key.Label = string(rune(code))
	}
}

func (c *Composer) languageKeysRedundant() bool {
	if c.Options.AlwaysHideLanguageKey {
		return true
	}

	return c.EnabledAlphabets != nil && c.EnabledAlphabets() <= 1
}

func isRightToLeft(code int) bool {
	if code <= 0 {
		return false
	}

	props, _ := bidi.LookupRune(rune(code))
	class := props.Class()

	return class == bidi.R || class == bidi.AL
}

// FixEdgeFlags recomputes edge flags from key positions: the first and last key
// of every visual row get LEFT and RIGHT, keys of the first and last rows get TOP and BOTTOM.
func FixEdgeFlags(kb *model.Keyboard) {
	if len(kb.Keys) == 0 {
		return
	}

	minY, maxY := kb.Keys[0].Y, kb.Keys[0].Y
	for _, key := range kb.Keys {
		minY = min(minY, key.Y)
		maxY = max(maxY, key.Y)
	}

	for i, key := range kb.Keys {
		var flags model.EdgeFlag

		if key.Y == minY {
			flags |= model.EdgeTop
		}

		if key.Y == maxY {
			flags |= model.EdgeBottom
		}

		if i == 0 || kb.Keys[i-1].Y != key.Y {
			flags |= model.EdgeLeft
		}

		if i == len(kb.Keys)-1 || kb.Keys[i+1].Y != key.Y {
			flags |= model.EdgeRight
		}

		key.EdgeFlags = flags
	}
}
