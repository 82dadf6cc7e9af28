package db

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/dasdy/softkeys/model"
)

// NeighborCounter counts keys sent directly after each other on the same keyboard.
type NeighborCounter struct {
	lastKey   model.KeyRef
	hasLast   bool
	counts    map[model.KeyRef]map[model.KeyRef]int
	stateLock sync.RWMutex
}

var _ Tracker = (*NeighborCounter)(nil)

func NewNeighborCounter() *NeighborCounter {
	return &NeighborCounter{
		counts: make(map[model.KeyRef]map[model.KeyRef]int),
	}
}

// NewNeighborCounterFromDB creates a counter and fills it from the stored
// events in the background. Readers block until that is done.
func NewNeighborCounterFromDB(storage Storage) (*NeighborCounter, error) {
	iterator, err := storage.AllIterator()
	if err != nil {
		return nil, err
	}

	nc := NewNeighborCounter()

	nc.stateLock.Lock()

	go func() {
		defer nc.stateLock.Unlock()

		nc.initCounter(iterator)
	}()

	return nc, nil
}

func (nc *NeighborCounter) initCounter(items iter.Seq[model.KeyEventWithTimestamp]) {
	n := 0

	for item := range items {
		nc.handleKey(&item.KeyEvent)
		n++
	}

	slog.InfoContext(logCtx, "Neighbor counter initialized", "events", n)
}

func (nc *NeighborCounter) HandleKey(event *model.KeyEvent) {
	nc.stateLock.Lock()
	defer nc.stateLock.Unlock()

	nc.handleKey(event)
}

func (nc *NeighborCounter) handleKey(event *model.KeyEvent) {
	if !event.Sent() {
		return
	}

	current := event.Ref()

	// switching keyboards breaks the sequence
	if nc.hasLast && nc.lastKey.KeyboardID == current.KeyboardID {
		if _, exists := nc.counts[nc.lastKey]; !exists {
			nc.counts[nc.lastKey] = make(map[model.KeyRef]int)
		}

		nc.counts[nc.lastKey][current]++
	}

	nc.lastKey = current
	nc.hasLast = true
}

// GatherNeighbors returns the keys sent right after key, most frequent first.
func (nc *NeighborCounter) GatherNeighbors(key model.KeyRef) []model.Neighbor {
	nc.stateLock.RLock()
	defer nc.stateLock.RUnlock()

	counts := nc.counts[key]
	result := make([]model.Neighbor, 0, len(counts))

	for next, count := range counts {
		result = append(result, model.Neighbor{From: key, To: next, Count: count})
	}

	slices.SortFunc(result, func(a, b model.Neighbor) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(a.To.KeyIndex, b.To.KeyIndex)
	})

	return result
}
