package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"x4map/internal/analytics"
	"x4map/internal/api"
	"x4map/internal/database"
	"x4map/internal/stats"
	"x4map/internal/streaming"
)

func (a *app) parseCommand() *cobra.Command {
	var noStore, asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <save>",
		Short: "Parse a save file and store the result",
		Long: `Parse an X4 Foundations save file, print a summary and replace the
stored result with it.

Examples:
  x4map parse ~/Documents/Egosoft/X4/save/quicksave.xml.gz
  x4map parse --json --no-store save_001.xml > sectors.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			result, _, err := a.parseSave(cmd, path)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("failed to encode result: %w", err)
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), stats.Format(stats.Summarize(result)))
			}

			if noStore {
				return nil
			}
			return a.storeResult(cmd, path, result)
		},
	}

	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not replace the stored result")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON instead of a summary")
	return cmd
}

// parseSave parses the save at path, reporting progress on stderr and
// publishing the outcome when analytics are enabled
func (a *app) parseSave(cmd *cobra.Command, path string) (api.SectorsMap, int64, error) {
	tables, err := a.cfg.LoadTables()
	if err != nil {
		return api.SectorsMap{}, 0, err
	}

	var size int64 = -1
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	onStatus, done := a.statusPrinter(cmd)
	start := time.Now()
	result, err := streaming.ParseFile(cmd.Context(), path, tables, a.cfg.StreamingOptions(), onStatus)
	done()
	elapsed := time.Since(start)

	a.publish(cmd, result, size, elapsed, err)
	if err != nil {
		return api.SectorsMap{}, size, err
	}

	a.logger.Info("save parsed", "file", path, "sectors", len(result.Sectors), "objects", result.ObjectCount(), "elapsed", elapsed)
	if len(result.Sectors) == 0 {
		a.logger.Warn("No sectors found", "file", path)
	}
	return result, size, nil
}

// statusPrinter rewrites one stderr line per status on a terminal, and logs
// statuses at debug otherwise
func (a *app) statusPrinter(cmd *cobra.Command) (func(streaming.Event), func()) {
	out := cmd.ErrOrStderr()
	if out != os.Stderr || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func(ev streaming.Event) {
			a.logger.Debug("parse status", "status", ev.Status, "percent", ev.Percent)
		}, func() {}
	}

	printed := false
	onStatus := func(ev streaming.Event) {
		fmt.Fprintf(out, "\r\033[K%s", ev.Status)
		printed = true
	}
	done := func() {
		if printed {
			fmt.Fprint(out, "\r\033[K")
		}
	}
	return onStatus, done
}

func (a *app) publish(cmd *cobra.Command, result api.SectorsMap, size int64, elapsed time.Duration, parseErr error) {
	if !a.cfg.Analytics.Enabled() {
		return
	}
	publisher, err := analytics.Connect(a.cfg.Analytics.NATSURL, a.cfg.Analytics.Subject)
	if err != nil {
		a.logger.Warn("analytics disabled for this run", "error", err)
		return
	}
	defer publisher.Close()

	var summary *api.Stats
	if parseErr == nil {
		s := stats.Summarize(result)
		summary = &s
	}
	if err := publisher.SaveProcessed(cmd.Context(), analytics.NewEvent(summary, size, elapsed, parseErr)); err != nil {
		a.logger.Warn("failed to publish analytics event", "error", err)
		return
	}
	if err := publisher.Flush(2 * time.Second); err != nil {
		a.logger.Warn("failed to flush analytics event", "error", err)
	}
}

func (a *app) storeResult(cmd *cobra.Command, path string, result api.SectorsMap) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if err := store.SaveResult(ctx, result); err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := store.SetMeta(ctx, database.MetaSource, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Stored %d sectors in %s\n", len(result.Sectors), a.cfg.Database.Path)
	return nil
}
