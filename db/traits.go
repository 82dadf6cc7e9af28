package db

import (
	"iter"

	"github.com/dasdy/softkeys/model"
)

// Tracker keeps live statistics over sent keys.
type Tracker interface {
	HandleKey(event *model.KeyEvent)
	GatherNeighbors(key model.KeyRef) []model.Neighbor
}

type Storage interface {
	Store(event *model.KeyEvent) error
	GatherAll() ([]model.KeyCount, error)
	AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error)
	Close()
}
