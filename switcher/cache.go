package switcher

import "github.com/dasdy/softkeys/model"

// Wrap maps an out of range index to the other end of [0, count).
// An empty range always wraps to 0.
func Wrap(index, count int) int {
	switch {
	case count <= 0:
		return 0
	case index >= count:
		return 0
	case index < 0:
		return count - 1
	default:
		return index
	}
}

// keyboardCache holds built keyboards by index.
type keyboardCache struct {
	entries []*model.Keyboard
}

func newKeyboardCache(size int) *keyboardCache {
	return &keyboardCache{entries: make([]*model.Keyboard, size)}
}

func (c *keyboardCache) Len() int {
	return len(c.entries)
}

// GetOrBuild returns the cached keyboard when it was built for mode, and calls
// build otherwise. A failed build leaves the slot empty.
func (c *keyboardCache) GetOrBuild(index int, mode model.RowMode, build func() (*model.Keyboard, error)) (*model.Keyboard, error) {
	if index < 0 || index >= len(c.entries) {
		return nil, nil
	}

	if kb := c.entries[index]; kb != nil && kb.Mode == mode {
		return kb, nil
	}

	kb, err := build()
	if err != nil {
		return nil, err
	}

	c.entries[index] = kb

	return kb, nil
}

func (c *keyboardCache) Get(index int) *model.Keyboard {
	if index < 0 || index >= len(c.entries) {
		return nil
	}

	return c.entries[index]
}

func (c *keyboardCache) Invalidate() {
	clear(c.entries)
}

// KeepOnly evicts every entry but index. A negative index evicts everything.
func (c *keyboardCache) KeepOnly(index int) {
	for i := range c.entries {
		if i != index {
			c.entries[i] = nil
		}
	}
}
