package softkeys

import (
	"errors"
	"fmt"
	"os"

	"github.com/dasdy/softkeys/db"
	"github.com/spf13/cobra"
)

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge databases into one",
	Long:  `Given several log files, create a new one, which is just a union of input databases`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if len(mergeInputs) == 0 {
			return errors.New("no input files given")
		}

		if _, err := os.Stat(mergeOutput); err == nil {
			return fmt.Errorf("output file %s already exists", mergeOutput)
		}

		inputs := make([]db.Storage, 0, len(mergeInputs))

		for _, fn := range mergeInputs {
			if _, err := os.Stat(fn); err != nil {
				return fmt.Errorf("could not open input: %w", err)
			}

			store, err := db.ConnectDB(fn)
			if err != nil {
				return err
			}
			defer store.Close()

			inputs = append(inputs, store)
		}

		output, err := db.ConnectDB(mergeOutput)
		if err != nil {
			return err
		}
		defer output.Close()

		return db.Merge(inputs, output)
	},
}

var (
	mergeInputs []string
	mergeOutput string
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVarP(
		&mergeInputs,
		"file",
		"f",
		[]string{},
		"List of filenames to merge data from",
	)

	mergeCmd.Flags().StringVarP(
		&mergeOutput,
		"out",
		"o",
		"./merged.sqlite",
		"Output path for statistics")
}
