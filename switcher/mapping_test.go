package switcher_test

import (
	"testing"

	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/switcher"
	"github.com/stretchr/testify/assert"
)

func TestMappingRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		mapping map[string]string
	}{
		{"empty", map[string]string{}},
		{"single", map[string]string{"com.example.mail": "english"}},
		{"several", map[string]string{
			"com.chat":     "c4f0bb2e",
			"org.browser":  "hebrew-qwerty",
			"net.terminal": "dvorak",
		}},
		{"arrow without spaces", map[string]string{"a->b": "c->d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := switcher.DecodeMapping(switcher.EncodeMapping(tt.mapping))
			assert.Equal(t, tt.mapping, got)
		})
	}
}

func TestEncodeMapping(t *testing.T) {
	entries := switcher.EncodeMapping(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a -> 1", "b -> 2"}, entries)
}

func TestDecodeMappingSkipsMalformed(t *testing.T) {
	got := switcher.DecodeMapping([]string{
		"com.ok -> kb1",
		"no separator",
		"too -> many -> parts",
		"tabs\t->\tkb2",
	})

	assert.Equal(t, map[string]string{"com.ok": "kb1", "tabs": "kb2"}, got)
}

func TestResolveRowMode(t *testing.T) {
	all := switcher.RowModeToggles{IM: true, URL: true, Email: true, Password: true}

	tests := []struct {
		name    string
		info    *switcher.EditorInfo
		toggles switcher.RowModeToggles
		want    model.RowMode
	}{
		{"nil editor", nil, all, model.RowModeNormal},
		{"plain text", &switcher.EditorInfo{}, all, model.RowModeNormal},
		{"uri", &switcher.EditorInfo{Variation: switcher.VariationURI}, all, model.RowModeURL},
		{"email", &switcher.EditorInfo{Variation: switcher.VariationEmail}, all, model.RowModeEmail},
		{"password", &switcher.EditorInfo{Variation: switcher.VariationPassword}, all, model.RowModePassword},
		{"message", &switcher.EditorInfo{Variation: switcher.VariationShortMessage}, all, model.RowModeIM},
		{"disabled uri", &switcher.EditorInfo{Variation: switcher.VariationURI}, switcher.RowModeToggles{}, model.RowModeNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, switcher.ResolveRowMode(tt.info, tt.toggles))
		})
	}
}
