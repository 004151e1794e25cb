package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"x4map/internal/gatemap"
)

// Map output formats
const (
	formatDOT   = "dot"
	formatPNG   = "png"
	formatSixel = "sixel"
)

func (a *app) mapCommand() *cobra.Command {
	var (
		file     string
		format   string
		output   string
		from, to string
		width    int
		dither   bool
		opts     gatemap.Options
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Draw the gate network",
		Long: `Draw the gate network of the stored result as Graphviz DOT, as a PNG, or
as a sixel image in the terminal. With --from and --to the shortest route
between the two sectors is highlighted.

Examples:
  x4map map --format dot -o universe.dot
  x4map map --format png -o universe.png --from "Argon Prime" --to "Grand Exchange I"
  x4map map --width 1600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatDOT
				if output == "" && isTerminal(os.Stdout) {
					format = formatSixel
				}
			}
			switch format {
			case formatDOT, formatPNG, formatSixel:
			default:
				return fmt.Errorf("unknown format %q (expected %s, %s or %s)", format, formatDOT, formatPNG, formatSixel)
			}
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}

			result, _, err := a.loadResult(cmd, file)
			if err != nil {
				return err
			}
			network, err := gatemap.Build(result, opts)
			if err != nil {
				return err
			}

			var route []string
			if from != "" {
				if route, err = resolveRoute(network, from, to); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			} else if format == formatSixel && (cmd.OutOrStdout() != io.Writer(os.Stdout) || !isTerminal(os.Stdout)) {
				return fmt.Errorf("sixel output needs a terminal, use --format png -o map.png instead")
			}

			if format == formatDOT {
				return network.RenderDOT(out)
			}

			data, err := network.RenderPNG(cmd.Context(), route)
			if err != nil {
				return err
			}
			if format == formatPNG {
				_, err = io.Copy(out, bytes.NewReader(data))
				return err
			}
			return gatemap.WriteTerminalImage(out, data, width, dither)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "parse this save instead of using the stored result")
	cmd.Flags().StringVar(&format, "format", "", "dot, png or sixel (default sixel on a terminal, dot otherwise)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&from, "from", "", "highlight the route starting at this sector")
	cmd.Flags().StringVar(&to, "to", "", "highlight the route ending at this sector")
	cmd.Flags().IntVar(&width, "width", 1200, "maximum sixel image width in pixels")
	cmd.Flags().BoolVar(&dither, "dither", false, "dither the sixel image to a fixed palette")
	cmd.Flags().BoolVar(&opts.IncludeInactive, "include-inactive", false, "also draw inactive gates")
	return cmd
}

func resolveRoute(network *gatemap.Network, from, to string) ([]string, error) {
	src, err := network.Lookup(from)
	if err != nil {
		return nil, err
	}
	dst, err := network.Lookup(to)
	if err != nil {
		return nil, err
	}
	return network.Route(src, dst)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
