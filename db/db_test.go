package db_test

import (
	"path/filepath"
	"testing"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *db.SQLiteStorage {
	t.Helper()

	storage, err := db.ConnectDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(storage.Close)

	return storage
}

func sent(keyboard string, index int) *model.KeyEvent {
	return &model.KeyEvent{KeyboardID: keyboard, KeyIndex: index, Code: 'a' + index, Kind: model.EventKey}
}

func TestConnectToMemoryDB(t *testing.T) {
	t.Run("should insert and gather correctly", func(t *testing.T) {
		storage := connect(t)

		items, err := storage.GatherAll()
		require.NoError(t, err)
		assert.Empty(t, items)

		for range 5 {
			require.NoError(t, storage.Store(&model.KeyEvent{KeyboardID: "qwerty", KeyIndex: 0, Kind: model.EventPress}))
			require.NoError(t, storage.Store(sent("qwerty", 0)))
			require.NoError(t, storage.Store(&model.KeyEvent{KeyboardID: "qwerty", KeyIndex: 0, Kind: model.EventRelease}))
		}

		for i := range 3 {
			require.NoError(t, storage.Store(sent("hebrew", i)))
		}

		require.NoError(t, storage.Store(&model.KeyEvent{KeyboardID: "qwerty", KeyIndex: 7, Kind: model.EventText, Text: ".com"}))
		require.NoError(t, storage.Store(&model.KeyEvent{KeyboardID: "qwerty", KeyIndex: 4, Kind: model.EventLongPress}))

		items, err = storage.GatherAll()
		require.NoError(t, err)

		assert.Equal(t, []model.KeyCount{
			{KeyboardID: "hebrew", KeyIndex: 0, Count: 1},
			{KeyboardID: "hebrew", KeyIndex: 1, Count: 1},
			{KeyboardID: "hebrew", KeyIndex: 2, Count: 1},
			{KeyboardID: "qwerty", KeyIndex: 0, Count: 5},
			{KeyboardID: "qwerty", KeyIndex: 4, Count: 1},
			{KeyboardID: "qwerty", KeyIndex: 7, Count: 1},
		}, items)
	})

	t.Run("creates a file database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keys.sqlite")

		storage, err := db.ConnectDB(path)
		require.NoError(t, err)
		require.NoError(t, storage.Store(sent("qwerty", 1)))
		storage.Close()

		reopened, err := db.ConnectDB(path)
		require.NoError(t, err)
		defer reopened.Close()

		items, err := reopened.GatherAll()
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestAllIterator(t *testing.T) {
	storage := connect(t)

	require.NoError(t, storage.Store(sent("qwerty", 1)))
	require.NoError(t, storage.Store(&model.KeyEvent{KeyboardID: "qwerty", KeyIndex: 2, Kind: model.EventText, Text: "hello"}))
	require.NoError(t, storage.Store(sent("qwerty", 3)))

	events, err := storage.AllIterator()
	require.NoError(t, err)

	var got []model.KeyEvent

	for e := range events {
		assert.False(t, e.Timestamp.IsZero())

		got = append(got, e.KeyEvent)
	}

	require.Len(t, got, 3)
	assert.Equal(t, *sent("qwerty", 1), got[0])
	assert.Equal(t, "hello", got[1].Text)
	assert.Equal(t, model.EventText, got[1].Kind)
	assert.Equal(t, 3, got[2].KeyIndex)
}

func TestAllIteratorStopsEarly(t *testing.T) {
	storage := connect(t)

	for i := range 4 {
		require.NoError(t, storage.Store(sent("qwerty", i)))
	}

	events, err := storage.AllIterator()
	require.NoError(t, err)

	n := 0

	for range events {
		n++
		if n == 2 {
			break
		}
	}

	assert.Equal(t, 2, n)

	// the connection was released by the early break
	require.NoError(t, storage.Store(sent("qwerty", 9)))
}

func TestLayoutByPackage(t *testing.T) {
	storage := connect(t)
	store := storage.LayoutByPackage()

	mapping, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, mapping)

	want := map[string]string{
		"com.example.chat": "hebrew",
		"com.example.mail": "english-qwerty",
	}
	require.NoError(t, store.Store(want))

	mapping, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, mapping)

	require.NoError(t, store.Store(map[string]string{"org.notes": "hebrew"}))

	mapping, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"org.notes": "hebrew"}, mapping, "store replaces the previous mapping")
}
