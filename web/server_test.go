package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDimens = model.Dimens{
	MaxWidth:        1000,
	NormalKeyHeight: 60,
	LargeKeyHeight:  70,
	SmallKeyHeight:  40,
	HorizontalGap:   10,
	VerticalGap:     10,
}

func newServer(t *testing.T) (*httptest.Server, *db.SQLiteStorage, *layout.Catalog) {
	t.Helper()

	catalog, err := layout.LoadCatalog("data/layouts", testDimens, layout.ComposerOptions{})
	require.NoError(t, err)

	storage, err := db.ConnectDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	server := httptest.NewServer(web.BuildServer(storage, db.NewNeighborCounter(), catalog, true))
	t.Cleanup(server.Close)

	return server, storage, catalog
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url) //nolint:noctx
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestServerRoutes(t *testing.T) {
	server, storage, _ := newServer(t)

	require.NoError(t, storage.Store(&model.KeyEvent{KeyboardID: "english-qwerty", KeyIndex: 12, Code: 'q', Kind: model.EventKey}))

	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/?layout=hebrew", http.StatusOK},
		{"/?layout=symbols-alt", http.StatusOK},
		{"/?layout=top-numbers", http.StatusNotFound},
		{"/neighbors?layout=english-qwerty&key=12", http.StatusOK},
		{"/neighbors?layout=english-qwerty", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, server.URL+tt.path)

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServerDisablesCacheForAssets(t *testing.T) {
	server, _, _ := newServer(t)

	resp := get(t, server.URL+"/assets/style.css")

	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}
