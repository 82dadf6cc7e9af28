package softkeys

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dasdy/softkeys/layout"
	"github.com/dasdy/softkeys/model"
	"github.com/spf13/cobra"
)

// layoutsCmd represents the layouts command.
var layoutsCmd = &cobra.Command{
	Use:   "layouts [keyboard id]",
	Short: "List keyboard layouts, or draw one of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPreferences()
		if err != nil {
			return err
		}

		catalog, err := p.LoadCatalog(layoutsDir)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			return listLayouts(cmd.OutOrStdout(), catalog)
		}

		mode, err := parseRowMode(rowMode)
		if err != nil {
			return err
		}

		kb, err := catalog.Keyboard(args[0], mode)
		if err != nil {
			return err
		}

		drawKeyboard(cmd.OutOrStdout(), kb)

		return nil
	},
}

func listLayouts(out io.Writer, catalog *layout.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tNAME\tNOTES")

	for _, def := range catalog.Definitions() {
		var notes []string
		if def.Disabled {
			notes = append(notes, "disabled")
		}

		if def.Slot != "" {
			notes = append(notes, "slot="+def.Slot)
		}

		if def.SixteenKeys {
			notes = append(notes, "16 keys")
		}

		if def.Physical {
			notes = append(notes, "physical")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.ID, def.Kind, def.Name, strings.Join(notes, ", "))
	}

	return w.Flush()
}

// drawKeyboard prints one line per row of kb.
func drawKeyboard(out io.Writer, kb *model.Keyboard) {
	fmt.Fprintf(out, "%s (%dx%d)\n", kb.ID, kb.Width, kb.Height)

	var (
		line  []string
		lastY = -1
	)

	for _, k := range kb.Keys {
		if k.Y != lastY && line != nil {
			fmt.Fprintln(out, strings.Join(line, " | "))
			line = nil
		}

		lastY = k.Y
		line = append(line, layout.KeyLabel(k))
	}

	if line != nil {
		fmt.Fprintln(out, strings.Join(line, " | "))
	}
}

func parseRowMode(s string) (model.RowMode, error) {
	for m := model.RowModeNormal; m <= model.RowModePassword; m++ {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("unknown row mode %q", s)
}

var rowMode string

func init() {
	rootCmd.AddCommand(layoutsCmd)

	layoutsCmd.Flags().StringVar(&rowMode, "mode", "normal",
		"Row variant to draw: normal, im, url, email or password")
}
