package softkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/keylog"
	"github.com/dasdy/softkeys/keylog/parser"
	"github.com/dasdy/softkeys/keylog/ports"
	"github.com/dasdy/softkeys/prefs"
	"github.com/dasdy/softkeys/switcher"
	"github.com/dasdy/softkeys/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// trackCmd represents the track command.
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Read touch events and log typed keys",
	Long: `Provide paths to touch panels to read from, use --monitor to pick up
panels as they are plugged in, or leave empty to read from stdin.
Typed keys are logged to a sqlite file, and optionally a web server visualizes the data.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := loadPreferences()
		if err != nil {
			return err
		}

		catalog, err := p.LoadCatalog(layoutsDir)
		if err != nil {
			return err
		}

		slog.InfoContext(logCtx, "Output file", "path", storagePath)

		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return err
		}
		defer storage.Close()

		counter, err := db.NewNeighborCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create neighbor tracker: %w", err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		ch, closer, err := openInput(ctx)
		if err != nil {
			return err
		}
		defer closer()

		loop := keylog.NewLoop(64)
		session := newSession(catalog, storage, counter, p, loop)

		loop.Post(func() {
			err := session.Apply(&parser.Command{
				Kind:   parser.CommandMode,
				Mode:   switcher.InputModeText,
				Editor: switcher.EditorInfo{InputType: int(switcher.InputModeText)},
			})
			if err != nil {
				slog.ErrorContext(logCtx, "Could not show the first keyboard", "error", err)
			}
		})

		if viper.ConfigFileUsed() != "" {
			prefs.Watch(viper.GetViper(), func(p prefs.Preferences) {
				loop.Post(func() { session.ApplySettings(p) })
			})
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			if err := loop.Run(gctx); !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		})

		g.Go(func() error {
			defer cancel()

			return keylog.KeyLogLoop(gctx, ch, loop, session)
		})

		if !disableInterface {
			g.Go(func() error {
				return web.StartServer(gctx, port, web.BuildServer(storage, counter, catalog, dev))
			})
		}

		slog.InfoContext(logCtx, "Main loop")

		err = g.Wait()

		if closeErr := session.Close(); closeErr != nil {
			slog.ErrorContext(logCtx, "Could not close session", "error", closeErr)
		}

		return err
	},
}

// openInput picks the line source: monitored panels, given panels or stdin.
func openInput(ctx context.Context) (<-chan string, func(), error) {
	switch {
	case monitor:
		reader := ports.DefaultMonitoringDeviceReader(baudRate)

		return reader.Channel(ctx), func() {}, nil
	case len(filenames) > 0:
		ch, closer, err := ports.OpenDevices(filenames, baudRate)
		if err == nil {
			return ch, closer, nil
		}

		names, errInner := ports.GetAvailableDevices()
		if errInner != nil {
			return nil, nil, fmt.Errorf("could not open file: %w; Could not suggest devices: %w", err, errInner)
		}

		if len(names) > 0 {
			return nil, nil, fmt.Errorf("error opening files: %w. Maybe try instead: %+v", err, names)
		}

		return nil, nil, fmt.Errorf("error opening files: %w. It does not seem like any touch panel is connected", err)
	default:
		names, err := ports.GetAvailableDevices()
		if err != nil {
			slog.WarnContext(logCtx, "Could not list devices", "error", err)
		}

		slog.InfoContext(logCtx, "Will proceed to read from stdin", "suggested-devices", names)

		return ports.ReadFile(os.Stdin), func() {}, nil
	}
}

var (
	filenames        []string
	storagePath      string
	port             int
	baudRate         int
	monitor          bool
	disableInterface bool
	dev              bool
)

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringSliceVarP(
		&filenames,
		"file",
		"f",
		[]string{},
		"List of touch panels or files to get input from",
	)

	trackCmd.Flags().StringVarP(
		&storagePath,
		"out",
		"o",
		"./keypresses.sqlite",
		"Output path for statistics")

	trackCmd.Flags().IntVarP(
		&port, "port", "p", 3000,
		"Port on which server should be watching")

	trackCmd.Flags().IntVar(
		&baudRate, "baud-rate", 115200,
		"Baud rate of serial touch panels")

	trackCmd.Flags().BoolVar(&monitor,
		"monitor",
		false,
		"Keep looking for touch panels and read from every one that shows up")

	trackCmd.Flags().BoolVar(&disableInterface,
		"no-interface",
		false,
		"If provided, no web server will be run with visualization")

	trackCmd.Flags().BoolVar(&dev,
		"dev",
		false,
		"Enable developer mode")
}
