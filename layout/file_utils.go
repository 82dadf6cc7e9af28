package layout

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/dasdy/softkeys/model"
)

func GetBinaryPath() string {
	// TODO: parameterize;
	//nolint:dogsled
	_, b, _, _ := runtime.Caller(0)

	// Root folder of this project
	fp := filepath.Join(filepath.Dir(b), "..")

	return fp
}

func OpenPath(path string) (*os.File, error) {
	var err error

	var file *os.File

	if filepath.IsAbs(path) {
		slog.DebugContext(logCtx, "Opening absolute path", "path", path)
		file, err = os.Open(path)
	} else {
		slog.DebugContext(logCtx, "Opening relative path", "path", path)
		file, err = os.Open(filepath.Join(GetBinaryPath(), path))
	}

	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}

// ListDefinitionFiles returns layout files in dir, sorted by name.
func ListDefinitionFiles(dir string) ([]string, error) {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(GetBinaryPath(), dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read layouts directory %s: %w", dir, err)
	}

	result := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".toml", ".yaml", ".yml":
			result = append(result, filepath.Join(dir, e.Name()))
		}
	}

	slices.Sort(result)

	return result, nil
}

var labels = map[int]string{
	model.KeyCodeShift:              "⇧",
	model.KeyCodeCtrl:               "^",
	model.KeyCodeAltModifier:        "⌥",
	model.KeyCodeFunction:           "Fn",
	model.KeyCodeEnter:              "↵",
	model.KeyCodeDelete:             "⌫",
	model.KeyCodeForwardDelete:      "⌦",
	model.KeyCodeSpace:              "␣",
	model.KeyCodeTab:                "⇥",
	model.KeyCodeModeSymbols:        "?123",
	model.KeyCodeModeAlphabet:       "🌐",
	model.KeyCodeKeyboardModeChange: "ABC",
	model.KeyCodeKeyboardCycle:      "⟳",
	model.KeyCodeKeyboardReverse:    "⟲",
	model.KeyCodeCycleInsideMode:    "↻",
	model.KeyCodeAlt:                "Alt",
	model.KeyCodeVoiceInput:         "🎤",
	model.KeyCodeQuickText:          "☺",
	model.KeyCodeCancel:             "✕",
}

// KeyLabel is the text shown for a key.
func KeyLabel(key *model.Key) string {
	if key.Label != "" {
		return key.Label
	}

	if v, ok := labels[key.PrimaryCode()]; ok {
		return v
	}

	if key.Text != "" {
		return key.Text
	}

	return model.KeyCodeName(key.PrimaryCode())
}
