package softkeys

import (
	"fmt"
	"io"
	"os"

	"github.com/dasdy/softkeys/db"
	"github.com/dasdy/softkeys/keylog"
	"github.com/dasdy/softkeys/touch"
	"github.com/spf13/cobra"
)

// replayCmd represents the replay command.
var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run a recorded event script",
	Long: `Run an event script through the input engine on a virtual clock, so long
presses, key repeats and multi-taps behave as they did when recorded. Reads
stdin when no script is given. Prints the typed text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPreferences()
		if err != nil {
			return err
		}

		catalog, err := p.LoadCatalog(layoutsDir)
		if err != nil {
			return err
		}

		var in io.Reader = os.Stdin

		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open script: %w", err)
			}
			defer f.Close()

			in = f
		}

		storage, err := db.ConnectDB(replayStoragePath)
		if err != nil {
			return err
		}
		defer storage.Close()

		sched := touch.NewManualScheduler(0)
		session := newSession(catalog, storage, db.NewNeighborCounter(), p, sched)

		stats, err := keylog.Replay(in, session, sched, showProgress)
		if err != nil {
			return err
		}

		if err := session.Close(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d lines, %d commands, %d errors\n", stats.Lines, stats.Commands, stats.Errors)
		fmt.Fprintln(out, session.Text())

		if stats.Errors > 0 && strict {
			return fmt.Errorf("replay had %d errors", stats.Errors)
		}

		return nil
	},
}

var (
	replayStoragePath string
	showProgress      bool
	strict            bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(
		&replayStoragePath,
		"out",
		"o",
		":memory:",
		"Output path for statistics")

	replayCmd.Flags().BoolVar(&showProgress,
		"progress",
		true,
		"Show a progress bar")

	replayCmd.Flags().BoolVar(&strict,
		"strict",
		false,
		"Fail when a line could not be parsed or applied")
}
