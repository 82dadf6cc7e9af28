package routes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dasdy/softkeys/model"
	cs "github.com/dasdy/softkeys/web/components"
)

const maxConnections = 5

// BuildNeighborsRenderContext builds the render context for the neighbors
// page. neighbors must be sorted by count, highest first.
func (s *ServerHandler) BuildNeighborsRenderContext(kb *model.Keyboard, neighbors []model.Neighbor, index int) cs.RenderContext {
	c := newRenderContext(kb, s.Keyboards.KeyboardIDs(), cs.PageTypeNeighbors)
	c.HighlightIndex = index

	if index >= 0 && index < len(c.Items) {
		c.Items[index].Highlight = true
	}

	for _, n := range neighbors {
		if n.To.KeyboardID != kb.ID || n.To.KeyIndex < 0 || n.To.KeyIndex >= len(c.Items) {
			slog.WarnContext(logCtx, "Neighbor not found in layout", "neighbor", n.To)

			continue
		}

		c.Items[n.To.KeyIndex].Count += n.Count
		c.MaxVal = max(c.MaxVal, c.Items[n.To.KeyIndex].Count)

		if len(c.Connections) < maxConnections {
			c.Connections = append(c.Connections, cs.Connection{From: index, To: n.To.KeyIndex, Count: n.Count})
		}
	}

	slog.DebugContext(logCtx, "Found neighbor connections", "count", len(c.Connections))

	return c
}

// NeighborsHandle handles requests to the neighbors page.
func (s *ServerHandler) NeighborsHandle(w http.ResponseWriter, r *http.Request) {
	slog.InfoContext(logCtx, "Handling neighbors page request")

	index, err := strconv.Atoi(r.URL.Query().Get("key"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	kb, err := s.loadKeyboard(r)
	if err != nil {
		writeKeyboardError(w, err)

		return
	}

	neighbors := s.NeighborTracker.GatherNeighbors(model.KeyRef{KeyboardID: kb.ID, KeyIndex: index})

	renderContext := s.BuildNeighborsRenderContext(kb, neighbors, index)

	if err := SafeRenderTemplate(cs.HeatMap(&renderContext), w); err != nil {
		slog.ErrorContext(logCtx, "Failed to render neighbors", "error", err)
	}
}
