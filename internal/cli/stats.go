package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"x4map/internal/stats"
)

func (a *app) statsCommand() *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored result",
		Long: `Print sector, station, gate, vault and resource area counts of the
stored result, or of a save file given with --file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := a.loadResult(cmd, file)
			if err != nil {
				return err
			}
			summary := stats.Summarize(result)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), stats.Format(summary))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "parse this save instead of using the stored result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
