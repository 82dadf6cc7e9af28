package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/dasdy/softkeys/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttributesAreLogged(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.NewHandler(&buf, slog.LevelInfo, false))
	ctx := logging.PackageCtx("touch")

	logger.InfoContext(ctx, "pointer down", "id", 1)
	logger.DebugContext(ctx, "hidden")

	out := buf.String()
	assert.Contains(t, out, "msg=\"pointer down\"")
	assert.Contains(t, out, "id=1")
	assert.Contains(t, out, "package=touch")
	assert.NotContains(t, out, "hidden")
}

func TestWithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.NewHandler(&buf, slog.LevelInfo, false)).With("keyboard", "hebrew")
	logger.InfoContext(logging.PackageCtx("switcher"), "set")

	assert.Contains(t, buf.String(), "keyboard=hebrew")
	assert.Contains(t, buf.String(), "package=switcher")
}

func TestAppendCtxDoesNotShareAttributes(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(logging.NewHandler(&buf, slog.LevelInfo, false))
	base := logging.PackageCtx("keylog")

	first := logging.AppendCtx(base, slog.String("pointer", "first"))
	second := logging.AppendCtx(base, slog.String("pointer", "second"))

	logger.InfoContext(first, "a")
	assert.Contains(t, buf.String(), "pointer=first")
	buf.Reset()

	logger.InfoContext(second, "b")
	assert.Contains(t, buf.String(), "pointer=second")
	assert.NotContains(t, buf.String(), "pointer=first")
	buf.Reset()

	logger.InfoContext(base, "c")
	assert.NotContains(t, buf.String(), "pointer=")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}
