package touch

import "github.com/dasdy/softkeys/model"

// SwipeConfig holds the distances and velocity a move must exceed to count
// as a swipe. The vertical and space bar distances depend on the keyboard.
type SwipeConfig struct {
	VelocityThreshold       int
	XDistanceThreshold      int
	YDistanceThreshold      int
	SpaceXDistanceThreshold int
}

func NewSwipeConfig(velocity, xDistance int) SwipeConfig {
	return SwipeConfig{
		VelocityThreshold:       velocity,
		XDistanceThreshold:      xDistance,
		SpaceXDistanceThreshold: xDistance / 2,
	}
}

// RecomputeForKeyboard scales the vertical threshold by the keyboard aspect ratio.
func (s *SwipeConfig) RecomputeForKeyboard(kb *model.Keyboard) {
	s.SpaceXDistanceThreshold = s.XDistanceThreshold / 2
	s.YDistanceThreshold = 0

	if kb == nil || kb.MinWidth() <= 0 {
		return
	}

	y := int(float64(s.XDistanceThreshold) * float64(kb.Height) / float64(kb.MinWidth()))
	s.YDistanceThreshold = y / 2
}
