package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"x4map/internal/log"
	"x4map/internal/tui"
)

// debugLogFile receives log output while the browser owns the terminal
const debugLogFile = "x4map_debug.log"

func (a *app) browseCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse sectors and their objects in the terminal",
		Long: `Open the sector browser: a filterable sector list with tags beside the
objects and resource areas of the selected sector. Enter on a gate jumps to
the sector it leads to.

Keys: / filter, Tab switch pane, Enter jump, Esc back or clear filter, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return fmt.Errorf("browse needs a terminal")
			}

			result, src, err := a.loadResult(cmd, file)
			if err != nil {
				return err
			}

			if a.cfg.Logging.File == "" {
				if err := log.SetFileOutput(debugLogFile); err != nil {
					a.logger.Warn("could not redirect logging to file", "file", debugLogFile, "error", err)
				}
			}
			return tui.NewApplication(result, src.name, src.size).Run()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "parse this save instead of using the stored result")
	return cmd
}
