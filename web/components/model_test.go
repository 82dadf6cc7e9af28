package components_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/dasdy/softkeys/web/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatColor(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		maxVal int
		want   string
	}{
		{name: "nothing pressed", count: 0, maxVal: 0, want: "rgb(235, 235, 235)"},
		{name: "zero count", count: 0, maxVal: 10, want: "rgb(235, 235, 235)"},
		{name: "lowest", count: 1, maxVal: 1000, want: "rgb(128, 128, 255)"},
		{name: "middle", count: 5, maxVal: 10, want: "rgb(128, 255, 128)"},
		{name: "highest", count: 10, maxVal: 10, want: "rgb(255, 128, 128)"},
		{name: "above max", count: 20, maxVal: 10, want: "rgb(255, 128, 128)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, components.HeatColor(tt.count, tt.maxVal))
		})
	}
}

func TestItemAt(t *testing.T) {
	c := components.RenderContext{Items: []components.Item{{KeyIndex: 3, Label: "a"}, {KeyIndex: 5, Label: "b"}}}

	it, ok := c.ItemAt(5)
	require.True(t, ok)
	assert.Equal(t, "b", it.Label)

	_, ok = c.ItemAt(4)
	assert.False(t, ok)
}

func render(t *testing.T, c *components.RenderContext) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, components.HeatMap(c).Render(context.Background(), &buf))

	return buf.String()
}

func TestHeatMap(t *testing.T) {
	c := &components.RenderContext{
		KeyboardID: "english",
		Keyboards:  []string{"english", "hebrew"},
		Width:      200,
		Height:     50,
		Items: []components.Item{
			{KeyIndex: 0, Label: "<a>", Count: 4, X: 0, Y: 0, Width: 100, Height: 50},
			{KeyIndex: 1, Label: "b", Count: 2, X: 100, Y: 0, Width: 100, Height: 50, Highlight: true},
		},
		MaxVal:      4,
		Connections: []components.Connection{{From: 1, To: 0, Count: 4}, {From: 1, To: 9, Count: 1}},
		Page:        components.PageTypeNeighbors,
	}

	out := render(t, c)

	assert.Contains(t, out, `viewBox="0 0 200 50"`)
	assert.Contains(t, out, "&lt;a&gt;")
	assert.NotContains(t, out, "<a>")
	assert.Contains(t, out, `<li class="current"><a href="/?layout=english">english</a></li>`)
	assert.Contains(t, out, `href="/neighbors?layout=english&amp;key=1"`)
	assert.Contains(t, out, `class="key highlight"`)
	assert.Contains(t, out, `<line class="connection" x1="150" y1="25" x2="50" y2="25" stroke-width="8">`)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("<line")), "connections to unknown keys are skipped")
	assert.Contains(t, out, "<title>Typed after - english</title>")
}
