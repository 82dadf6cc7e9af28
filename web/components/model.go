package components

type PageType int

const (
	PageTypeStats PageType = iota
	PageTypeNeighbors
)

// Item is one key drawn on the heat map, in keyboard coordinates.
type Item struct {
	KeyIndex  int
	Label     string
	Count     int
	Highlight bool

	X      int
	Y      int
	Width  int
	Height int
}

// Connection is an arrow from the highlighted key to a key typed after it.
type Connection struct {
	From  int
	To    int
	Count int
}

type RenderContext struct {
	KeyboardID string
	Keyboards  []string

	Width  int
	Height int

	Items       []Item
	MaxVal      int
	Connections []Connection

	HighlightIndex int
	Page           PageType
}

// ItemAt returns the item drawn for the key index.
func (c *RenderContext) ItemAt(index int) (Item, bool) {
	for _, it := range c.Items {
		if it.KeyIndex == index {
			return it, true
		}
	}

	return Item{}, false
}
