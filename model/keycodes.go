package model

// Key codes. Positive values are unicode code points, negative values are
// functional keys handled by the input engine itself.
const (
	KeyCodeNone  = 0
	KeyCodeTab   = 9
	KeyCodeEnter = 10
	KeyCodeSpace = 32

	KeyCodeShift              = -1
	KeyCodeModeSymbols        = -2
	KeyCodeCancel             = -3
	KeyCodeVoiceInput         = -4
	KeyCodeDelete             = -5
	KeyCodeAlt                = -6
	KeyCodeDeleteWord         = -7
	KeyCodeForwardDelete      = -8
	KeyCodeDomain             = -9
	KeyCodeQuickText          = -10
	KeyCodeCtrl               = -11
	KeyCodeAltModifier        = -12
	KeyCodeFunction           = -13
	KeyCodeQuickTextPopup     = -102
	KeyCodeModeAlphabet       = -99
	KeyCodeKeyboardCycle      = -97
	KeyCodeKeyboardReverse    = -96
	KeyCodeCycleInsideMode    = -95
	KeyCodeKeyboardModeChange = -94
)

var keyCodeNames = map[int]string{
	KeyCodeTab:                "TAB",
	KeyCodeEnter:              "ENTER",
	KeyCodeSpace:              "SPACE",
	KeyCodeShift:              "SHIFT",
	KeyCodeModeSymbols:        "MODE_SYMBOLS",
	KeyCodeCancel:             "CANCEL",
	KeyCodeVoiceInput:         "VOICE",
	KeyCodeDelete:             "DELETE",
	KeyCodeAlt:                "ALT",
	KeyCodeDeleteWord:         "DELETE_WORD",
	KeyCodeForwardDelete:      "FORWARD_DELETE",
	KeyCodeDomain:             "DOMAIN",
	KeyCodeQuickText:          "QUICK_TEXT",
	KeyCodeCtrl:               "CTRL",
	KeyCodeAltModifier:        "ALT_MODIFIER",
	KeyCodeFunction:           "FUNCTION",
	KeyCodeQuickTextPopup:     "QUICK_TEXT_POPUP",
	KeyCodeModeAlphabet:       "MODE_ALPHABET",
	KeyCodeKeyboardCycle:      "KEYBOARD_CYCLE",
	KeyCodeKeyboardReverse:    "KEYBOARD_REVERSE_CYCLE",
	KeyCodeCycleInsideMode:    "CYCLE_INSIDE_MODE",
	KeyCodeKeyboardModeChange: "KEYBOARD_MODE_CHANGE",
}

// KeyCodeName returns the symbolic name of a functional code, or the
// character itself for printable code points.
func KeyCodeName(code int) string {
	if name, ok := keyCodeNames[code]; ok {
		return name
	}

	if code > 0 {
		return string(rune(code))
	}

	return ""
}

// KeyCodeByName resolves a symbolic name as used in layout definition files.
func KeyCodeByName(name string) (int, bool) {
	for code, n := range keyCodeNames {
		if n == name {
			return code, true
		}
	}

	return 0, false
}
