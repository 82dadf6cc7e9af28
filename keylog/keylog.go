package keylog

import (
	"context"
	"log/slog"

	"github.com/dasdy/softkeys/keylog/parser"
)

// KeyLogLoop parses lines from ch and applies them to session on loop.
// Touch times are replaced with the loop clock, so timers and event times
// agree. It returns when ch is closed or ctx is done.
func KeyLogLoop(ctx context.Context, ch <-chan string, loop *Loop, session *Session) error {
	for {
		select {
		case line, ok := <-ch:
			if !ok {
				slog.InfoContext(logCtx, "Input closed, bailing out")

				return nil
			}

			parsed, err := parser.ParseLine(line)
			if err != nil {
				slog.WarnContext(logCtx, "Got warning", "error", err, "line", line)

				continue
			}

			if parsed == nil {
				continue
			}

			if parsed.Kind == parser.CommandWait {
				slog.DebugContext(logCtx, "Ignoring wait on a live input", "line", line)

				continue
			}

			loop.Post(func() {
				parsed.Touch.Time = loop.Now()

				if err := session.Apply(parsed); err != nil {
					slog.WarnContext(logCtx, "Could not apply command", "error", err, "line", line)
				}
			})
		case <-ctx.Done():
			slog.InfoContext(logCtx, "Received done, bailing out")

			return nil
		}
	}
}
