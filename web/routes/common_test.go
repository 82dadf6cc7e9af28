package routes_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/web/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		render   func(w io.Writer) error
		wantErr  bool
		wantCode int
		wantBody string
		wantHTML bool
	}{
		{
			name: "page is written",
			render: func(w io.Writer) error {
				_, err := io.WriteString(w, "<p>keys</p>")

				return err
			},
			wantCode: http.StatusOK,
			wantBody: "<p>keys</p>",
			wantHTML: true,
		},
		{
			name: "partial output is discarded on failure",
			render: func(w io.Writer) error {
				_, _ = io.WriteString(w, "<p>half")

				return errors.New("layout went away")
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
			wantBody: "layout went away\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			component := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
				return tt.render(w)
			})

			err := routes.SafeRenderTemplate(component, recorder)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "could not render template")
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, tt.wantBody, recorder.Body.String())

			if tt.wantHTML {
				assert.Equal(t, "text/html; charset=UTF-8", recorder.Header().Get("Content-Type"))
			}
		})
	}
}

func TestInitItems(t *testing.T) {
	kb := createTestKeyboard()
	kb.Keys[KeyC].Codes = []int{model.KeyCodeDelete}

	items := routes.InitItems(kb)

	require.Len(t, items, 3)
	assert.Equal(t, "a", items[KeyA].Label)
	assert.Equal(t, "⌫", items[KeyC].Label)

	assert.Equal(t, KeyB, items[KeyB].KeyIndex)
	assert.Equal(t, 100, items[KeyB].X)
	assert.Equal(t, 50, items[KeyC].Y)
	assert.Equal(t, 100, items[KeyC].Width)
	assert.Zero(t, items[KeyA].Count)
}
