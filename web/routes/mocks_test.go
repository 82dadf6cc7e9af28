package routes_test

import (
	"fmt"
	"iter"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/dasdy/softkeys/web/routes"
)

// Key indices of the test keyboard.
const (
	KeyA = iota
	KeyB
	KeyC
)

const testLayout = "test"

// SimpleStorageMock is a simple manual mock implementation of the Storage interface
type SimpleStorageMock struct {
	ReturnStats []model.KeyCount
	ReturnError error
	CallCount   int
}

func (m *SimpleStorageMock) GatherAll() ([]model.KeyCount, error) {
	m.CallCount++

	return m.ReturnStats, m.ReturnError
}

func (m *SimpleStorageMock) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	return func(func(model.KeyEventWithTimestamp) bool) {}, nil
}

func (m *SimpleStorageMock) Close() {}

func (m *SimpleStorageMock) Store(*model.KeyEvent) error { return nil }

// TrackerMock is a simple mock implementation of the Tracker interface
type TrackerMock struct {
	ReturnNeighbors []model.Neighbor
	CallCount       int
	LastKey         model.KeyRef
}

func (m *TrackerMock) HandleKey(*model.KeyEvent) {}

func (m *TrackerMock) GatherNeighbors(key model.KeyRef) []model.Neighbor {
	m.CallCount++
	m.LastKey = key

	return m.ReturnNeighbors
}

// KeyboardsMock serves the keyboards it was given.
type KeyboardsMock struct {
	Boards map[string]*model.Keyboard
	Order  []string
	Err    error
}

func (m *KeyboardsMock) KeyboardIDs() []string { return m.Order }

func (m *KeyboardsMock) Keyboard(id string, _ model.RowMode) (*model.Keyboard, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	kb, ok := m.Boards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", layout.ErrUnknownKeyboard, id)
	}

	return kb, nil
}

// createTestKeyboard creates a keyboard with keys a and b on the first row
// and c on the second one.
func createTestKeyboard() *model.Keyboard {
	kb := model.NewKeyboard(testLayout, model.RowModeNormal)

	for i, c := range "abc" {
		k := model.NewKey([]int{int(c)}, nil)
		k.X = (i % 2) * 100
		k.Y = (i / 2) * 50
		k.Width = 100
		k.Height = 50
		kb.Keys = append(kb.Keys, k)
	}

	kb.Width = 200
	kb.Height = 100

	return kb
}

// MockServerHandler helper struct for testing
type MockServerHandler struct {
	routes.ServerHandler
	MockStorage         *SimpleStorageMock
	MockNeighborTracker *TrackerMock
	MockKeyboards       *KeyboardsMock
}

func setupMockServerHandler() MockServerHandler {
	mockStorage := &SimpleStorageMock{}
	mockTracker := &TrackerMock{}
	mockKeyboards := &KeyboardsMock{
		Boards: map[string]*model.Keyboard{testLayout: createTestKeyboard()},
		Order:  []string{testLayout},
	}

	return MockServerHandler{
		ServerHandler: routes.ServerHandler{
			Storage:         mockStorage,
			Keyboards:       mockKeyboards,
			NeighborTracker: mockTracker,
		},
		MockStorage:         mockStorage,
		MockNeighborTracker: mockTracker,
		MockKeyboards:       mockKeyboards,
	}
}
