package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"x4map/internal/gatemap"
)

func (a *app) routeCommand() *cobra.Command {
	var file string
	var opts gatemap.Options

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Shortest gate route between two sectors",
		Long: `Print the shortest route between two sectors over gates and super
highways. Sectors are given by macro or display name.

Examples:
  x4map route "Argon Prime" "Hatikvah's Choice I"
  x4map route cluster_14_sector001_macro cluster_29_sector001_macro`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, _, err := a.loadResult(cmd, file)
			if err != nil {
				return err
			}
			network, err := gatemap.Build(result, opts)
			if err != nil {
				return err
			}

			from, err := network.Lookup(args[0])
			if err != nil {
				return err
			}
			to, err := network.Lookup(args[1])
			if err != nil {
				return err
			}
			path, err := network.Route(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s: %d jumps\n", network.Name(from), network.Name(to), len(path)-1)
			for i, macro := range path {
				if i == 0 {
					fmt.Fprintf(out, "  %s\n", network.Name(macro))
					continue
				}
				fmt.Fprintf(out, "  %s  (%s)\n", network.Name(macro), linkKind(network, path[i-1], macro))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "parse this save instead of using the stored result")
	cmd.Flags().BoolVar(&opts.IncludeInactive, "include-inactive", false, "also travel through inactive gates")
	return cmd
}

func linkKind(network *gatemap.Network, from, to string) string {
	for _, l := range network.Neighbors(from) {
		if l.To == to {
			return l.Kind
		}
	}
	return gatemap.KindGate
}
