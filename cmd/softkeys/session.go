package softkeys

import (
	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/keylog"
	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/prefs"
	"github.com/dasdy/softkeys/touch"
)

// newSession wires a session that logs to storage and tracker.
func newSession(
	catalog *layout.Catalog,
	storage *db.SQLiteStorage,
	tracker db.Tracker,
	p prefs.Preferences,
	sched touch.Scheduler,
) *keylog.Session {
	return keylog.NewSession(keylog.SessionConfig{
		Factory:   catalog,
		Store:     storage.LayoutByPackage(),
		Storage:   storage,
		Tracker:   tracker,
		Prefs:     p,
		Scheduler: sched,
		Verbose:   verbose,
	})
}
