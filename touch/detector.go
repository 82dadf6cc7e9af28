package touch

import (
	"cmp"
	"slices"

	"github.com/dasdy/softkeys/model"
)

// NotAKey is the key index of a point that resolves to no key.
const NotAKey = -1

const proximityFactor = 1.4

// Detector resolves coordinates to keys of the bound keyboard.
type Detector struct {
	keyboard            *model.Keyboard
	keys                []*model.Key
	proximityCorrection bool
	proximityThreshold  int
}

func NewDetector() *Detector {
	return &Detector{}
}

// SetKeyboard binds the detector to kb and returns its keys.
func (d *Detector) SetKeyboard(kb *model.Keyboard) []*model.Key {
	d.keyboard = kb
	d.keys = nil

	if kb != nil {
		d.keys = kb.Keys
	}

	d.proximityThreshold = ProximityThreshold(d.keys)

	return d.keys
}

func (d *Detector) Keyboard() *model.Keyboard { return d.keyboard }
func (d *Detector) Keys() []*model.Key        { return d.keys }

func (d *Detector) SetProximityCorrectionEnabled(enabled bool) {
	d.proximityCorrection = enabled
}

func (d *Detector) ProximityCorrectionEnabled() bool { return d.proximityCorrection }

// ProximityThreshold is the distance, in pixels, within which a touch outside
// every key still resolves to the nearest key.
func (d *Detector) ProximityThreshold() int { return d.proximityThreshold }

// ProximityThreshold is 1.4 times the average of min(width, height)+gap over keys.
func ProximityThreshold(keys []*model.Key) int {
	if len(keys) == 0 {
		return 0
	}

	sum := 0
	for _, k := range keys {
		sum += min(k.Width, k.Height) + k.Gap
	}

	if sum < 0 {
		return 0
	}

	return int(float64(sum) * proximityFactor / float64(len(keys)))
}

// Key returns the key at index, or nil.
func (d *Detector) Key(index int) *model.Key {
	if index < 0 || index >= len(d.keys) {
		return nil
	}

	return d.keys[index]
}

// KeyIndex is KeyIndexAndNearbyCodes without the nearby codes.
func (d *Detector) KeyIndex(x, y int) int {
	index, _ := d.locate(x, y, false)

	return index
}

// KeyIndexAndNearbyCodes returns the key under the point and the codes the
// touch could have meant: the codes of the hit key first, then, with
// proximity correction, the primary codes of close keys, nearest first.
func (d *Detector) KeyIndexAndNearbyCodes(x, y int) (int, []int) {
	return d.locate(x, y, true)
}

type candidate struct {
	index int
	dist  int
}

func (d *Detector) locate(x, y int, withNearby bool) (int, []int) {
	primary := NotAKey
	closest := NotAKey
	thresholdSq := d.proximityThreshold * d.proximityThreshold
	closestDist := thresholdSq

	var near []candidate

	for i, key := range d.keys {
		if primary == NotAKey && key.IsInside(x, y) {
			primary = i
		}

		if !d.proximityCorrection || !key.Enabled() {
			continue
		}

		dist := key.SquaredDistanceToEdge(x, y)
		if dist >= thresholdSq {
			continue
		}

		if dist < closestDist {
			closest = i
			closestDist = dist
		}

		if withNearby {
			near = append(near, candidate{i, dist})
		}
	}

	if primary == NotAKey {
		primary = closest
	}

	if !withNearby {
		return primary, nil
	}

	return primary, d.nearbyCodes(primary, near)
}

func (d *Detector) nearbyCodes(primary int, near []candidate) []int {
	var codes []int

	if key := d.Key(primary); key != nil {
		codes = append(codes, key.Codes...)
	}

	slices.SortStableFunc(near, func(a, b candidate) int { return cmp.Compare(a.dist, b.dist) })

	for _, c := range near {
		if c.index == primary {
			continue
		}

		if code := d.keys[c.index].PrimaryCode(); code > 0 && !slices.Contains(codes, code) {
			codes = append(codes, code)
		}
	}

	return codes
}

// IsKeyShifted reports whether key emits its shifted codes right now. Keys
// whose shifted codes are not letters only shift while shift is locked.
func (d *Detector) IsKeyShifted(key *model.Key) bool {
	if d.keyboard == nil || key == nil || !d.keyboard.IsShifted() {
		return false
	}

	return key.ShiftCodesAlways || d.keyboard.IsShiftLocked()
}
