package parser_test

import (
	"testing"
	"time"

	"github.com/dasdy/softkeys/keylog/parser"
	"github.com/dasdy/softkeys/switcher"
	"github.com/dasdy/softkeys/touch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parseLineTest struct {
	name           string
	line           string
	expectedResult *parser.Command
}

type errorLineTest struct {
	name string
	line string
}

func touchCommand(action touch.Action, id, x, y int, t time.Duration) *parser.Command {
	return &parser.Command{
		Kind:  parser.CommandTouch,
		Touch: touch.Event{Action: action, PointerID: id, X: x, Y: y, Time: t},
	}
}

func TestParseLine(t *testing.T) {
	testCases := []parseLineTest{
		{"down", "down 0 120 45 10", touchCommand(touch.ActionDown, 0, 120, 45, 10*time.Millisecond)},
		{"move with duration", "move 1 -3 45 1.5s", touchCommand(touch.ActionMove, 1, -3, 45, 1500*time.Millisecond)},
		{"up with commas", "up 0, 120, 45, 250ms", touchCommand(touch.ActionUp, 0, 120, 45, 250*time.Millisecond)},
		{"cancel", "cancel 2 0 0 30", touchCommand(touch.ActionCancel, 2, 0, 0, 30*time.Millisecond)},
		{
			"device noise before the command",
			"[23:09:36.886,444] <dbg> touch: down 0 10 20 5\x1b[0m",
			touchCommand(touch.ActionDown, 0, 10, 20, 5*time.Millisecond),
		},
		{
			"trailing comment",
			"up 0 10 20 40 # lift",
			touchCommand(touch.ActionUp, 0, 10, 20, 40*time.Millisecond),
		},
		{
			"mode only",
			"mode text",
			&parser.Command{
				Kind:   parser.CommandMode,
				Mode:   switcher.InputModeText,
				Editor: switcher.EditorInfo{InputType: int(switcher.InputModeText)},
			},
		},
		{
			"mode with editor",
			"mode url com.example.browser uri restart",
			&parser.Command{
				Kind: parser.CommandMode,
				Mode: switcher.InputModeURL,
				Editor: switcher.EditorInfo{
					PackageName: "com.example.browser",
					InputType:   int(switcher.InputModeURL),
					Variation:   switcher.VariationURI,
				},
				Restarting: true,
			},
		},
		{"next", "next symbols", &parser.Command{Kind: parser.CommandNext, Navigation: switcher.NavSymbols}},
		{"show", "show hebrew", &parser.Command{Kind: parser.CommandShow, KeyboardID: "hebrew"}},
		{"wait", "wait 2s", &parser.Command{Kind: parser.CommandWait, Time: 2 * time.Second}},
	}

	for _, item := range testCases {
		t.Run("parses "+item.name, func(t *testing.T) {
			res, err := parser.ParseLine(item.line)

			require.NoError(t, err)
			assert.Equal(t, item.expectedResult, res)
		})
	}

	ignored := []string{"", "   ", "# a comment", "[23:09:36] <inf> booting"}

	for _, line := range ignored {
		t.Run("ignores "+line, func(t *testing.T) {
			res, err := parser.ParseLine(line)

			require.NoError(t, err)
			assert.Nil(t, res)
		})
	}

	errorTestCases := []errorLineTest{
		{"too few values", "down 0 10 20"},
		{"pointer malformed", "down p 10 20 5"},
		{"x malformed", "move 0 k 20 5"},
		{"time malformed", "up 0 10 20 soon"},
		{"unknown mode", "mode braille"},
		{"unknown variation", "mode text com.example shouting"},
		{"bad restart flag", "mode text com.example normal again"},
		{"unknown navigation", "next sideways"},
		{"show without id", "show"},
		{"wait without time", "wait"},
	}

	for _, item := range errorTestCases {
		t.Run("does not parse "+item.name, func(t *testing.T) {
			res, err := parser.ParseLine(item.line)

			require.Error(t, err)
			assert.Nil(t, res)
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"0", 0},
		{"350", 350 * time.Millisecond},
		{"350ms", 350 * time.Millisecond},
		{"2s", 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parser.ParseTime(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var result *parser.Command

func BenchmarkParseLine(b *testing.B) {
	line := "[23:09:36.886,444] <dbg> touch: move 0 120 45 1500\x1b[0m"

	var r *parser.Command

	for range b.N {
		r, _ = parser.ParseLine(line)
	}

	result = r
}
