package layout

import (
	"log/slog"
	"slices"

	"github.com/dasdy/softkeys/model"
)

// RemoveRedundantKeys drops keys from kb and hands their width and gap to the
// keys left in the same row, so the row keeps its total width. Keys marked
// ShowAlways are kept.
func RemoveRedundantKeys(kb *model.Keyboard, redundant []*model.Key) {
	for _, key := range redundant {
		if key.Visibility == model.ShowAlways {
			continue
		}

		idx := kb.IndexOf(key)
		if idx < 0 {
			continue
		}

		row := make([]*model.Key, 0)
		for _, k := range kb.Keys {
			if k.Y == key.Y {
				row = append(row, k)
			}
		}

		kb.Keys = slices.Delete(kb.Keys, idx, idx+1)

		reflowRow(row, key)

		slog.DebugContext(logCtx, "Removed redundant key", "keyboard", kb.ID, "code", key.PrimaryCode(), "rowKeys", len(row)-1)
	}
}

// reflowRow spreads removed.Width+removed.Gap over the other keys of row.
// Keys after the removed one move left by the removed share.
func reflowRow(row []*model.Key, removed *model.Key) {
	remaining := len(row) - 1
	if remaining <= 0 {
		return
	}

	widthToRemove := removed.Width + removed.Gap
	share := widthToRemove / remaining
	remainder := widthToRemove % remaining

	offset := 0
	i := 0

	for _, k := range row {
		if k == removed {
			offset -= widthToRemove

			continue
		}

		added := share
		if i < remainder {
			added++
		}

		i++

		k.X += offset
		k.Width += added
		offset += added
	}
}
