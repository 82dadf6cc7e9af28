package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dasdy/softkeys/switcher"
	"github.com/dasdy/softkeys/touch"
)

type CommandKind int

const (
	// CommandTouch is a pointer event: "down|move|up|cancel <pointer> <x> <y> <time>".
	CommandTouch CommandKind = iota
	// CommandMode focuses a field: "mode <input mode> [package] [variation] [restart]".
	CommandMode
	// CommandNext asks for another keyboard: "next <navigation>".
	CommandNext
	// CommandShow shows an alphabet keyboard by id: "show <keyboard id>".
	CommandShow
	// CommandWait lets timers run until the given time: "wait <time>".
	CommandWait
)

// Command is one parsed line of an event script.
type Command struct {
	Kind CommandKind

	Touch touch.Event

	Mode       switcher.InputMode
	Editor     switcher.EditorInfo
	Restarting bool

	Navigation switcher.NavigationType
	KeyboardID string
	Time       time.Duration
}

var ErrMalformed = errors.New("malformed command")

// ParseLine finds a command in line. Device logs prefix commands with their
// own noise, so everything before the first command word is skipped. Lines
// without a command, blank lines and # comments give nil, nil.
func ParseLine(line string) (*Command, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	// Trim the reset escape code some serial consoles append.
	line = strings.TrimSuffix(strings.TrimSpace(line), "\x1b[0m")
	fields := strings.Fields(line)

	for ix, field := range fields {
		args := fields[ix+1:]

		if action, ok := touch.ParseAction(field); ok {
			return parseTouch(action, args)
		}

		switch field {
		case "mode":
			return parseMode(args)
		case "next":
			return parseNext(args)
		case "show":
			if len(args) != 1 {
				return nil, fmt.Errorf("%w: show expects a keyboard id", ErrMalformed)
			}

			return &Command{Kind: CommandShow, KeyboardID: args[0]}, nil
		case "wait":
			if len(args) != 1 {
				return nil, fmt.Errorf("%w: wait expects a time", ErrMalformed)
			}

			t, err := ParseTime(args[0])
			if err != nil {
				return nil, err
			}

			return &Command{Kind: CommandWait, Time: t}, nil
		}
	}

	return nil, nil
}

func parseTouch(action touch.Action, args []string) (*Command, error) {
	if len(args) != 4 {
		return nil, fmt.Errorf("%w: %s expects pointer, x, y and time, got %d values", ErrMalformed, action, len(args))
	}

	var numbers [3]int

	for i, name := range []string{"pointer", "x", "y"} {
		n, err := strconv.Atoi(strings.TrimRight(args[i], ","))
		if err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", name, err)
		}

		numbers[i] = n
	}

	t, err := ParseTime(args[3])
	if err != nil {
		return nil, err
	}

	return &Command{
		Kind: CommandTouch,
		Touch: touch.Event{
			Action:    action,
			PointerID: numbers[0],
			X:         numbers[1],
			Y:         numbers[2],
			Time:      t,
		},
	}, nil
}

func parseMode(args []string) (*Command, error) {
	if len(args) == 0 || len(args) > 4 {
		return nil, fmt.Errorf("%w: mode expects an input mode and up to three editor values", ErrMalformed)
	}

	mode, ok := switcher.ParseInputMode(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: unknown input mode %q", ErrMalformed, args[0])
	}

	cmd := &Command{Kind: CommandMode, Mode: mode}
	cmd.Editor.InputType = int(mode)

	if len(args) > 1 {
		cmd.Editor.PackageName = args[1]
	}

	if len(args) > 2 {
		variation, ok := switcher.ParseVariation(args[2])
		if !ok {
			return nil, fmt.Errorf("%w: unknown variation %q", ErrMalformed, args[2])
		}

		cmd.Editor.Variation = variation
	}

	if len(args) > 3 {
		if args[3] != "restart" {
			return nil, fmt.Errorf("%w: expected restart, got %q", ErrMalformed, args[3])
		}

		cmd.Restarting = true
	}

	return cmd, nil
}

func parseNext(args []string) (*Command, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: next expects a navigation type", ErrMalformed)
	}

	nav, ok := switcher.ParseNavigationType(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: unknown navigation %q", ErrMalformed, args[0])
	}

	return &Command{Kind: CommandNext, Navigation: nav}, nil
}

// ParseTime reads "250ms", "1.5s" or a bare number of milliseconds.
func ParseTime(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("could not parse time %q: %w", s, err)
	}

	return d, nil
}
