package model

import "unicode"

type EdgeFlag int

const (
	EdgeLeft EdgeFlag = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Visibility decides whether a key survives redundant key removal.
type Visibility int

const (
	ShowIfApplicable Visibility = iota
	ShowAlways
	ShowNever
)

// RowID is an index into Keyboard.Rows.
type RowID int

const NoRow RowID = -1

type Key struct {
	Codes        []int
	ShiftedCodes []int

	X      int
	Y      int
	Width  int
	Height int
	Gap    int

	Row       RowID
	EdgeFlags EdgeFlag

	Repeatable bool
	Modifier   bool
	Functional bool

	LongPressCode int
	Popup         string
	Text          string
	ShiftedText   string
	Label         string
	ShiftedLabel  string
	Visibility    Visibility

	// ShiftCodesAlways means the shifted code is used whenever the keyboard is
	// shifted, not only when it is shift-locked.
	ShiftCodesAlways bool

	Pressed  bool
	disabled bool
}

// NewKey creates a key with shifted codes padded to the length of codes.
// Missing shifted entries are the upper case of letter codes, or the code itself.
func NewKey(codes, shiftedCodes []int) *Key {
	k := &Key{
		Codes: codes,
		Row:   NoRow,
	}

	k.ShiftCodesAlways = len(shiftedCodes) == 0 || isShiftAlwaysCode(shiftedCodes[0])
	k.ShiftedCodes = PadShiftedCodes(codes, shiftedCodes)

	return k
}

func isShiftAlwaysCode(code int) bool {
	r := rune(code)

	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// PadShiftedCodes returns a slice the same length as codes. Declared shifted codes
// are kept in place; extra declared codes beyond len(codes) are dropped.
func PadShiftedCodes(codes, shiftedCodes []int) []int {
	result := make([]int, len(codes))

	for i, code := range codes {
		switch {
		case i < len(shiftedCodes):
			result[i] = shiftedCodes[i]
		case code > 0 && unicode.IsLetter(rune(code)):
			result[i] = int(unicode.ToUpper(rune(code)))
		default:
			result[i] = code
		}
	}

	return result
}

func (k *Key) PrimaryCode() int {
	if len(k.Codes) == 0 {
		return KeyCodeNone
	}

	return k.Codes[0]
}

func (k *Key) CodesCount() int {
	return len(k.Codes)
}

// CodeAt returns the code at index, or 0 when the index is out of range.
func (k *Key) CodeAt(index int, shifted bool) int {
	codes := k.Codes
	if shifted {
		codes = k.ShiftedCodes
	}

	if index < 0 || index >= len(codes) {
		return KeyCodeNone
	}

	return codes[index]
}

// MultiTapCode picks the code a key emits after tapCount consecutive taps.
func (k *Key) MultiTapCode(tapCount int, shifted bool) int {
	if len(k.Codes) == 0 {
		return KeyCodeNone
	}

	if tapCount < 0 {
		tapCount = 0
	}

	return k.CodeAt(tapCount%len(k.Codes), shifted)
}

func (k *Key) EndX() int { return k.X + k.Width }
func (k *Key) EndY() int { return k.Y + k.Height }

func (k *Key) Enable()       { k.disabled = false }
func (k *Key) Disable()      { k.disabled = true }
func (k *Key) Enabled() bool { return !k.disabled }

// IsInside reports whether the point is on the key. Keys on a keyboard edge
// extend to that edge, and disabled keys are never hit.
func (k *Key) IsInside(x, y int) bool {
	if k.disabled {
		return false
	}

	left := k.EdgeFlags&EdgeLeft != 0
	right := k.EdgeFlags&EdgeRight != 0
	top := k.EdgeFlags&EdgeTop != 0
	bottom := k.EdgeFlags&EdgeBottom != 0

	return (x >= k.X || (left && x <= k.EndX())) &&
		(x < k.EndX() || (right && x >= k.X)) &&
		(y >= k.Y || (top && y <= k.EndY())) &&
		(y < k.EndY() || (bottom && y >= k.Y))
}

// SquaredDistanceToEdge is zero for points inside the key rectangle.
func (k *Key) SquaredDistanceToEdge(x, y int) int {
	edgeX := min(max(x, k.X), k.EndX())
	edgeY := min(max(y, k.Y), k.EndY())
	dx := x - edgeX
	dy := y - edgeY

	return dx*dx + dy*dy
}
