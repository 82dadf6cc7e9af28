package routes

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/model"
	cs "github.com/dasdy/softkeys/web/components"
)

var logCtx = logging.PackageCtx("web")

// Keyboards builds the keyboards drawn by the pages.
type Keyboards interface {
	KeyboardIDs() []string
	Keyboard(id string, mode model.RowMode) (*model.Keyboard, error)
}

// ServerHandler holds all dependencies needed for the web server handlers.
type ServerHandler struct {
	Storage         db.Storage
	Keyboards       Keyboards
	NeighborTracker db.Tracker
}

// SafeRenderTemplate safely renders a templ component to an http.ResponseWriter.
func SafeRenderTemplate(component templ.Component, w http.ResponseWriter) error {
	// Do not write to w because it implies 200 status
	var buf bytes.Buffer

	err := component.Render(context.Background(), &buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return fmt.Errorf("could not render template: %w", err)
	}

	// This implies a 200 OK status code
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")

	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(logCtx, "Failed to write response", "error", err)

		return fmt.Errorf("could not write to response writer: %w", err)
	}

	return nil
}

// loadKeyboard reads the layout query parameter, the first keyboard when empty.
// Stats are drawn on the normal row variant.
func (s *ServerHandler) loadKeyboard(r *http.Request) (*model.Keyboard, error) {
	id := r.URL.Query().Get("layout")
	if id == "" {
		ids := s.Keyboards.KeyboardIDs()
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: no keyboards loaded", layout.ErrUnknownKeyboard)
		}

		id = ids[0]
	}

	kb, err := s.Keyboards.Keyboard(id, model.RowModeNormal)
	if err != nil {
		return nil, fmt.Errorf("could not build keyboard %q: %w", id, err)
	}

	return kb, nil
}

// InitItems returns one empty item per key of kb.
func InitItems(kb *model.Keyboard) []cs.Item {
	items := make([]cs.Item, 0, len(kb.Keys))

	for i, k := range kb.Keys {
		items = append(items, cs.Item{
			KeyIndex: i,
			Label:    layout.KeyLabel(k),
			X:        k.X,
			Y:        k.Y,
			Width:    k.Width,
			Height:   k.Height,
		})
	}

	return items
}

func newRenderContext(kb *model.Keyboard, ids []string, page cs.PageType) cs.RenderContext {
	return cs.RenderContext{
		KeyboardID:     kb.ID,
		Keyboards:      ids,
		Width:          kb.Width,
		Height:         kb.Height,
		Items:          InitItems(kb),
		HighlightIndex: -1,
		Page:           page,
	}
}
