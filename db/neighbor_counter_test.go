package db_test

import (
	"testing"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(keyboard string, index int) model.KeyRef {
	return model.KeyRef{KeyboardID: keyboard, KeyIndex: index}
}

func TestNeighborCounter(t *testing.T) {
	t.Run("counts consecutive sent keys", func(t *testing.T) {
		nc := db.NewNeighborCounter()

		// 0 1 0 1 0 2
		for _, i := range []int{0, 1, 0, 1, 0, 2} {
			nc.HandleKey(sent("qwerty", i))
		}

		assert.Equal(t, []model.Neighbor{
			{From: ref("qwerty", 0), To: ref("qwerty", 1), Count: 2},
			{From: ref("qwerty", 0), To: ref("qwerty", 2), Count: 1},
		}, nc.GatherNeighbors(ref("qwerty", 0)))

		assert.Equal(t, []model.Neighbor{
			{From: ref("qwerty", 1), To: ref("qwerty", 0), Count: 2},
		}, nc.GatherNeighbors(ref("qwerty", 1)))

		assert.Empty(t, nc.GatherNeighbors(ref("qwerty", 2)))
	})

	t.Run("ignores presses and keyboard switches", func(t *testing.T) {
		nc := db.NewNeighborCounter()

		nc.HandleKey(sent("qwerty", 0))
		nc.HandleKey(&model.KeyEvent{KeyboardID: "qwerty", KeyIndex: 5, Kind: model.EventPress})
		nc.HandleKey(sent("hebrew", 1))
		nc.HandleKey(sent("hebrew", 2))

		assert.Empty(t, nc.GatherNeighbors(ref("qwerty", 0)))
		assert.Len(t, nc.GatherNeighbors(ref("hebrew", 1)), 1)
	})
}

func TestNeighborCounterFromDB(t *testing.T) {
	storage := connect(t)

	for _, i := range []int{3, 4, 3, 4} {
		require.NoError(t, storage.Store(sent("qwerty", i)))
	}

	nc, err := db.NewNeighborCounterFromDB(storage)
	require.NoError(t, err)

	assert.Equal(t, []model.Neighbor{
		{From: ref("qwerty", 3), To: ref("qwerty", 4), Count: 2},
	}, nc.GatherNeighbors(ref("qwerty", 3)))

	nc.HandleKey(sent("qwerty", 3))
	assert.Equal(t, 2, nc.GatherNeighbors(ref("qwerty", 4))[0].Count)
}
