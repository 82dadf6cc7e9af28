package keylog

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/dasdy/softkeys/keylog/parser"
	"github.com/dasdy/softkeys/touch"
	"github.com/schollz/progressbar/v3"
)

type ReplayStats struct {
	Lines    int
	Commands int
	Errors   int
}

// Replay runs a recorded event script against session. The virtual clock of
// sched follows the script times, so timers fire between events exactly as
// they would have live.
func Replay(r io.Reader, session *Session, sched *touch.ManualScheduler, showProgress bool) (ReplayStats, error) {
	var (
		lines []string
		stats ReplayStats
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("could not read script: %w", err)
	}

	stats.Lines = len(lines)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(lines)), "Replaying events...")
	} else {
		bar = progressbar.DefaultSilent(int64(len(lines)))
	}

	for i, line := range lines {
		if err := bar.Add(1); err != nil {
			slog.ErrorContext(logCtx, "could not update progress bar", "error", err)
		}

		cmd, err := parser.ParseLine(line)
		if err != nil {
			stats.Errors++
			slog.WarnContext(logCtx, "Could not parse line", "line-number", i+1, "error", err)

			continue
		}

		if cmd == nil {
			continue
		}

		stats.Commands++

		switch cmd.Kind {
		case parser.CommandTouch:
			sched.AdvanceTo(cmd.Touch.Time)
		case parser.CommandWait:
			sched.AdvanceTo(cmd.Time)
		default:
		}

		if err := session.Apply(cmd); err != nil {
			stats.Errors++
			slog.WarnContext(logCtx, "Could not apply command", "line-number", i+1, "error", err)
		}
	}

	if err := bar.Finish(); err != nil {
		slog.ErrorContext(logCtx, "could not finish progress bar", "error", err)
	}

	return stats, nil
}
