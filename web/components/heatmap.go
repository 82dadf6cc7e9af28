package components

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so markup can be written without
// checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}

	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func esc(s string) string { return templ.EscapeString(s) }

// Page wraps body into the html document shared by all pages.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`)
		h.printf(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
		h.printf(`<title>%s</title><link rel="stylesheet" href="/assets/style.css"></head><body>`, esc(title))

		if h.err != nil {
			return h.err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		h.printf(`</body></html>`)

		return h.err
	})
}

// LayoutList links every keyboard, the current one marked.
func LayoutList(c *RenderContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<nav class="layouts"><ul>`)

		for _, id := range c.Keyboards {
			class := ""
			if id == c.KeyboardID {
				class = ` class="current"`
			}

			h.printf(`<li%s><a href="%s">%s</a></li>`, class, esc(getLinkForLayout(id, c.Page)), esc(id))
		}

		h.printf(`</ul></nav>`)

		return h.err
	})
}

// HeatMap draws the keyboard with every key colored by its count.
func HeatMap(c *RenderContext) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := LayoutList(c).Render(ctx, w); err != nil {
			return err
		}

		h := &htmlWriter{w: w}

		switch c.Page {
		case PageTypeNeighbors:
			h.printf(`<p class="mode"><a href="%s">%s</a></p>`,
				esc(getLinkForLayout(c.KeyboardID, c.Page)), esc(getSwitchModeButtonText(c.Page)))
		case PageTypeStats:
			h.printf(`<p class="mode">%s</p>`, esc(getSwitchModeButtonText(c.Page)))
		}

		h.printf(`<svg class="keyboard" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, c.Width, c.Height)

		for _, it := range c.Items {
			class := "key"
			if it.Highlight {
				class += " highlight"
			}

			h.printf(`<a href="%s"><g class="%s" data-key="%d">`, esc(getLinkForKey(c.KeyboardID, it.KeyIndex)), class, it.KeyIndex)
			h.printf(`<rect x="%d" y="%d" width="%d" height="%d" rx="8" fill="%s"></rect>`,
				it.X, it.Y, it.Width, it.Height, HeatColor(it.Count, c.MaxVal))

			cx, cy := center(it)
			h.printf(`<text x="%d" y="%d" text-anchor="middle">%s</text>`, cx, cy, esc(it.Label))
			h.printf(`<text class="count" x="%d" y="%d" text-anchor="middle">%s</text>`,
				cx, it.Y+it.Height-8, strconv.Itoa(it.Count))
			h.printf(`</g></a>`)
		}

		for _, conn := range c.Connections {
			from, okFrom := c.ItemAt(conn.From)
			to, okTo := c.ItemAt(conn.To)

			if !okFrom || !okTo {
				continue
			}

			x1, y1 := center(from)
			x2, y2 := center(to)
			h.printf(`<line class="connection" x1="%d" y1="%d" x2="%d" y2="%d" stroke-width="%d"></line>`,
				x1, y1, x2, y2, connectionWidth(conn.Count, c.MaxVal))
		}

		h.printf(`</svg>`)

		return h.err
	})

	title := "Key presses"
	if c.Page == PageTypeNeighbors {
		title = "Typed after"
	}

	return Page(title+" - "+c.KeyboardID, body)
}

func connectionWidth(count, maxVal int) int {
	if maxVal <= 0 {
		return 1
	}

	return 1 + 7*count/maxVal
}
