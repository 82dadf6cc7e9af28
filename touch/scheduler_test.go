package touch_test

import (
	"testing"

	"github.com/dasdy/softkeys/touch"
	"github.com/stretchr/testify/assert"
)

func TestManualScheduler(t *testing.T) {
	t.Run("fires in deadline order", func(t *testing.T) {
		s := touch.NewManualScheduler(0)

		var fired []string

		s.Arm(ms(30), func() { fired = append(fired, "c") })
		s.Arm(ms(10), func() { fired = append(fired, "a") })
		s.Arm(ms(10), func() { fired = append(fired, "b") })
		assert.Equal(t, 3, s.Pending())

		s.AdvanceTo(ms(20))
		assert.Equal(t, []string{"a", "b"}, fired)
		assert.Equal(t, ms(20), s.Now())

		s.Advance(ms(10))
		assert.Equal(t, []string{"a", "b", "c"}, fired)
		assert.Equal(t, 0, s.Pending())
	})

	t.Run("cancelled timers never fire", func(t *testing.T) {
		s := touch.NewManualScheduler(0)
		fired := false

		timer := s.Arm(ms(5), func() { fired = true })
		timer.Cancel()
		timer.Cancel()

		s.Advance(ms(10))
		assert.False(t, fired)
		assert.Equal(t, 0, s.Pending())
	})

	t.Run("callbacks see their own deadline and may rearm", func(t *testing.T) {
		s := touch.NewManualScheduler(ms(100))

		var at []int64

		var tick func()
		tick = func() {
			at = append(at, s.Now().Milliseconds())
			if len(at) < 3 {
				s.Arm(ms(50), tick)
			}
		}

		s.Arm(ms(50), tick)
		s.AdvanceTo(ms(1000))

		assert.Equal(t, []int64{150, 200, 250}, at)
		assert.Equal(t, ms(1000), s.Now())
	})

	t.Run("never goes backwards", func(t *testing.T) {
		s := touch.NewManualScheduler(ms(100))
		s.AdvanceTo(ms(50))

		assert.Equal(t, ms(100), s.Now())
	})
}
