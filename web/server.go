package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/web/routes"
)

var logCtx = logging.PackageCtx("web")

func disableCacheInDevMode(dev bool, next http.Handler) http.Handler {
	if !dev {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func BuildServer(storage db.Storage, neighborTracker db.Tracker, keyboards routes.Keyboards, dev bool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/assets/",
		disableCacheInDevMode(dev,
			http.StripPrefix("/assets",
				http.FileServer(http.Dir("assets")))))

	handler := routes.ServerHandler{
		Storage:         storage,
		Keyboards:       keyboards,
		NeighborTracker: neighborTracker,
	}
	mux.Handle("/neighbors", http.HandlerFunc(handler.NeighborsHandle))
	mux.Handle("/", http.HandlerFunc(handler.StatsHandle))

	return mux
}

// StartServer serves handler until ctx is done.
func StartServer(ctx context.Context, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(logCtx, "Could not shut down server", "error", err)
		}
	}()

	slog.InfoContext(logCtx, "Running interface", "port", port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not run server: %w", err)
	}

	return nil
}
