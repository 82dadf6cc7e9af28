package softkeys

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/web"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showCmd represents the show command.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show collected statistics",
	Long:  `Use log data collected by track or replay commands to show web interface with statistics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		slog.DebugContext(logCtx, "Config", "file", viper.ConfigFileUsed(), "settings", viper.AllSettings())
		slog.InfoContext(logCtx, "Statistics file", "path", storagePath)

		p, err := loadPreferences()
		if err != nil {
			return err
		}

		catalog, err := p.LoadCatalog(layoutsDir)
		if err != nil {
			return err
		}

		storage, err := db.ConnectDB(storagePath)
		if err != nil {
			return err
		}
		defer storage.Close()

		neighborTracker, err := db.NewNeighborCounterFromDB(storage)
		if err != nil {
			return fmt.Errorf("could not create neighbor tracker: %w", err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		return web.StartServer(ctx, port, web.BuildServer(storage, neighborTracker, catalog, dev))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&port, "port", "p", 9000,
		"Port on which server should be watching")

	showCmd.Flags().StringVarP(
		&storagePath,
		"storage",
		"s",
		"./keypresses.sqlite",
		"Path to collected statistics")

	showCmd.Flags().BoolVar(&dev,
		"dev",
		false,
		"Enable developer mode")
}
