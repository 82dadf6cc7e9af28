package model

// RowMode selects which variant of a row is used for the current editor.
type RowMode int

const (
	RowModeNormal RowMode = iota + 1
	RowModeIM
	RowModeURL
	RowModeEmail
	RowModePassword
)

func (m RowMode) String() string {
	switch m {
	case RowModeNormal:
		return "normal"
	case RowModeIM:
		return "im"
	case RowModeURL:
		return "url"
	case RowModeEmail:
		return "email"
	case RowModePassword:
		return "password"
	default:
		return "unknown"
	}
}

type Row struct {
	EdgeFlags   EdgeFlag
	Mode        RowMode
	Height      int
	VerticalGap int
	Generic     bool
}

type Role int

const (
	RoleShift Role = iota
	RoleControl
	RoleAlt
	RoleFunction
	RoleVoice
	RoleEnter
	roleCount
)

// Dimens are the display metrics a layout is resolved against.
type Dimens struct {
	MaxWidth        int
	NormalKeyHeight int
	LargeKeyHeight  int
	SmallKeyHeight  int
	HorizontalGap   int
	VerticalGap     int
}

// Keyboard is a composed layout. Keys are ordered top to bottom and, inside a
// row, left to right. Rows is the arena Key.Row points into.
type Keyboard struct {
	ID       string
	Name     string
	Mode     RowMode
	Alphabet bool
	Physical bool

	Keys []*Key
	Rows []Row

	Height        int
	Width         int
	GenericHeight int

	SentenceSeparators []int

	roles [roleCount]*Key
	rtl   bool
	mods  ModifierStates
}

// ModifierStates holds the toggles of modifier keys.
type ModifierStates struct {
	Shifted        bool
	ShiftLocked    bool
	Control        bool
	AltActive      bool
	AltLocked      bool
	FunctionActive bool
	FunctionLocked bool
	VoiceActive    bool
	VoiceLocked    bool
}

func NewKeyboard(id string, mode RowMode) *Keyboard {
	return &Keyboard{ID: id, Mode: mode}
}

// AddRow appends a row to the arena and returns its handle.
func (kb *Keyboard) AddRow(row Row) RowID {
	kb.Rows = append(kb.Rows, row)

	return RowID(len(kb.Rows) - 1)
}

func (kb *Keyboard) RowOf(k *Key) (Row, bool) {
	if k.Row < 0 || int(k.Row) >= len(kb.Rows) {
		return Row{}, false
	}

	return kb.Rows[k.Row], true
}

// HasRowWithEdge reports whether the layout itself declares a row with the given edge.
func (kb *Keyboard) HasRowWithEdge(edge EdgeFlag) bool {
	for _, r := range kb.Rows {
		if !r.Generic && r.EdgeFlags&edge != 0 {
			return true
		}
	}

	return false
}

func (kb *Keyboard) IndexOf(k *Key) int {
	for i, key := range kb.Keys {
		if key == k {
			return i
		}
	}

	return -1
}

func (kb *Keyboard) RoleKey(r Role) *Key {
	if r < 0 || r >= roleCount {
		return nil
	}

	return kb.roles[r]
}

// AssignRole binds a key to a modifier role. Only layout construction calls this.
func (kb *Keyboard) AssignRole(r Role, k *Key) {
	if r < 0 || r >= roleCount {
		return
	}

	kb.roles[r] = k
}

func (kb *Keyboard) ShiftKey() *Key { return kb.roles[RoleShift] }
func (kb *Keyboard) EnterKey() *Key { return kb.roles[RoleEnter] }

// IsModifierKey reports whether k is the key of any modifier role.
func (kb *Keyboard) IsModifierKey(k *Key) bool {
	if k == nil {
		return false
	}

	for r := range roleCount {
		if r != RoleEnter && kb.roles[r] == k {
			return true
		}
	}

	return k.Modifier
}

func (kb *Keyboard) RightToLeft() bool { return kb.rtl }

// MarkRightToLeft sets the RTL flag. It is never cleared for a loaded keyboard.
func (kb *Keyboard) MarkRightToLeft() { kb.rtl = true }

func (kb *Keyboard) Modifiers() ModifierStates { return kb.mods }

// SetShifted returns true if the state changed.
func (kb *Keyboard) SetShifted(on bool) bool {
	if kb.ShiftKey() == nil {
		return false
	}

	changed := kb.mods.Shifted != on
	kb.mods.Shifted = on

	if !on && kb.mods.ShiftLocked {
		kb.mods.ShiftLocked = false
		changed = true
	}

	return changed
}

func (kb *Keyboard) SetShiftLocked(locked bool) bool {
	if kb.ShiftKey() == nil {
		return false
	}

	changed := kb.mods.ShiftLocked != locked
	kb.mods.ShiftLocked = locked

	if locked && !kb.mods.Shifted {
		kb.mods.Shifted = true
		changed = true
	}

	return changed
}

func (kb *Keyboard) IsShifted() bool {
	return kb.ShiftKey() != nil && (kb.mods.Shifted || kb.mods.ShiftLocked)
}

func (kb *Keyboard) IsShiftLocked() bool {
	return kb.ShiftKey() != nil && kb.mods.ShiftLocked
}

func (kb *Keyboard) SetControl(on bool) bool {
	if kb.roles[RoleControl] == nil {
		return false
	}

	changed := kb.mods.Control != on
	kb.mods.Control = on

	return changed
}

func (kb *Keyboard) IsControlActive() bool {
	return kb.roles[RoleControl] != nil && kb.mods.Control
}

func setPair(active, locked *bool, newActive, newLocked bool) bool {
	newLocked = newLocked && newActive
	changed := *active != newActive || *locked != newLocked
	*active = newActive
	*locked = newLocked

	return changed
}

// SetAlt sets the alt toggle. Locked implies active.
func (kb *Keyboard) SetAlt(active, locked bool) bool {
	if kb.roles[RoleAlt] == nil {
		return false
	}

	return setPair(&kb.mods.AltActive, &kb.mods.AltLocked, active, locked)
}

func (kb *Keyboard) IsAltActive() bool { return kb.roles[RoleAlt] != nil && kb.mods.AltActive }
func (kb *Keyboard) IsAltLocked() bool { return kb.roles[RoleAlt] != nil && kb.mods.AltLocked }

func (kb *Keyboard) SetFunction(active, locked bool) bool {
	if kb.roles[RoleFunction] == nil {
		return false
	}

	return setPair(&kb.mods.FunctionActive, &kb.mods.FunctionLocked, active, locked)
}

func (kb *Keyboard) IsFunctionActive() bool {
	return kb.roles[RoleFunction] != nil && kb.mods.FunctionActive
}

func (kb *Keyboard) IsFunctionLocked() bool {
	return kb.roles[RoleFunction] != nil && kb.mods.FunctionLocked
}

func (kb *Keyboard) SetVoice(active, locked bool) bool {
	if kb.roles[RoleVoice] == nil {
		return false
	}

	return setPair(&kb.mods.VoiceActive, &kb.mods.VoiceLocked, active, locked)
}

func (kb *Keyboard) IsVoiceActive() bool { return kb.roles[RoleVoice] != nil && kb.mods.VoiceActive }
func (kb *Keyboard) IsVoiceLocked() bool { return kb.roles[RoleVoice] != nil && kb.mods.VoiceLocked }

// MinWidth is the widest of the base rows and any generic row overflow.
func (kb *Keyboard) MinWidth() int {
	width := kb.Width
	for _, k := range kb.Keys {
		width = max(width, k.EndX())
	}

	return width
}
