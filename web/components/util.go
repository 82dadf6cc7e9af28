package components

import (
	"fmt"
	"math"
	"net/url"
)

// getLinkForKey returns the page opened by clicking a key.
func getLinkForKey(keyboardID string, index int) string {
	return fmt.Sprintf("/neighbors?layout=%s&key=%d", url.QueryEscape(keyboardID), index)
}

func getLinkForLayout(keyboardID string, page PageType) string {
	switch page {
	case PageTypeNeighbors, PageTypeStats:
		return "/?layout=" + url.QueryEscape(keyboardID)
	default:
		return "/"
	}
}

// getSwitchModeButtonText returns the text of the link leaving the current page.
func getSwitchModeButtonText(page PageType) string {
	switch page {
	case PageTypeNeighbors:
		return "Back to stats"
	case PageTypeStats:
		return "Click a key to see what is typed after it"
	default:
		return ""
	}
}

// HeatColor maps count to a color going from blue through green to red,
// blended halfway to white.
func HeatColor(count, maxVal int) string {
	if maxVal <= 0 || count <= 0 {
		return "rgb(235, 235, 235)"
	}

	value := math.Min(float64(count)/float64(maxVal), 1)

	var r, g, b float64

	if value <= 0.5 {
		ratio := value / 0.5
		g = 255 * ratio
		b = 255 * (1 - ratio)
	} else {
		ratio := (value - 0.5) / 0.5
		r = 255 * ratio
		g = 255 * (1 - ratio)
	}

	blend := func(c float64) int { return int(math.Round(c + (255-c)*0.5)) }

	return fmt.Sprintf("rgb(%d, %d, %d)", blend(r), blend(g), blend(b))
}

func center(it Item) (int, int) {
	return it.X + it.Width/2, it.Y + it.Height/2
}
