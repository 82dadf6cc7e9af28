package main

import (
	"log/slog"
	"os"

	"github.com/dasdy/softkeys/cmd/softkeys"
	"github.com/dasdy/softkeys/logging"
)

func main() {
	// The handler must wrap a fresh text handler: wrapping slog.Default().Handler()
	// deadlocks once it is installed with SetDefault.
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, softkeys.LogLevel, true)))

	softkeys.Execute()
}
