package routes

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	cs "github.com/dasdy/softkeys/web/components"
)

// BuildStatsRenderContext builds the render context for the stats page.
func (s *ServerHandler) BuildStatsRenderContext(kb *model.Keyboard, dbStats []model.KeyCount) cs.RenderContext {
	c := newRenderContext(kb, s.Keyboards.KeyboardIDs(), cs.PageTypeStats)

	for _, key := range dbStats {
		if key.KeyboardID != kb.ID {
			continue
		}

		if key.KeyIndex < 0 || key.KeyIndex >= len(c.Items) {
			slog.WarnContext(logCtx, "Key index not found in layout", "keyboard", kb.ID, "index", key.KeyIndex)

			continue
		}

		c.Items[key.KeyIndex].Count += key.Count
		c.MaxVal = max(c.MaxVal, c.Items[key.KeyIndex].Count)
	}

	return c
}

// StatsHandle handles requests to the stats page.
func (s *ServerHandler) StatsHandle(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(logCtx, "Handling stats page request")

	kb, err := s.loadKeyboard(r)
	if err != nil {
		writeKeyboardError(w, err)

		return
	}

	curStats, err := s.Storage.GatherAll()
	if err != nil {
		slog.ErrorContext(logCtx, "Failed to get stats", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	renderContext := s.BuildStatsRenderContext(kb, curStats)

	if err := SafeRenderTemplate(cs.HeatMap(&renderContext), w); err != nil {
		slog.ErrorContext(logCtx, "Failed to render stats", "error", err)
	}
}

func writeKeyboardError(w http.ResponseWriter, err error) {
	if errors.Is(err, layout.ErrUnknownKeyboard) {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	slog.ErrorContext(logCtx, "Failed to build keyboard", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
