package cli

import (
	"github.com/spf13/cobra"

	"x4map/internal/mcpserver"
)

func (a *app) mcpCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the stored result as MCP tools over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing read-only
tools over the stored result: list_sectors, sector_details, find_vaults,
route and stats.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, src, err := a.loadResult(cmd, file)
			if err != nil {
				return err
			}
			a.logger.Info("serving MCP tools", "source", src.name, "sectors", len(result.Sectors))
			return mcpserver.ServeStdio(result, a.version)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "parse this save instead of using the stored result")
	return cmd
}
