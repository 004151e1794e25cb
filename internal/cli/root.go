// Package cli is the x4map command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"x4map/internal/api"
	"x4map/internal/config"
	"x4map/internal/database"
	"x4map/internal/log"
)

// app carries what every command needs once the root has initialized
type app struct {
	cfg     *config.Config
	version string
	logger  *slog.Logger

	// persistent flag overrides
	assetsDir string
	dbPath    string
	logLevel  string
}

// NewRootCommand builds the command tree
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "x4map",
		Short: "Explore X4 Foundations save files",
		Long: `x4map streams an X4 Foundations save file (plain or gzipped XML) and
extracts the sectors, gates, stations, data vaults, abandoned ships and
resource areas it contains.

The last parsed result is kept in a SQLite database so the other commands
can query, route, draw and browse it without parsing again.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip initialization for help commands
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.assetsDir, "assets", "", "directory with the lookup tables (default $X4MAP_ASSETS_DIR or ./assets)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database holding the last parsed result (default $X4MAP_DB_PATH or ./x4map.db)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default $X4MAP_LOG_LEVEL or info)")

	root.AddCommand(
		a.parseCommand(),
		a.statsCommand(),
		a.storeCommand(),
		a.routeCommand(),
		a.mapCommand(),
		a.browseCommand(),
		a.mcpCommand(),
	)
	return root
}

// Execute runs the command tree until ctx is canceled
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.assetsDir != "" {
		cfg.AssetsDir = a.assetsDir
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	if err := log.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if cfg.Logging.File != "" {
		if err := log.SetFileOutput(cfg.Logging.File); err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
	} else {
		// stdout belongs to command output, and to the protocol for mcp
		log.SetOutput(cmd.ErrOrStderr())
	}
	a.logger = log.With("cli")
	return nil
}

func (a *app) openStore() (*database.SQLiteStore, error) {
	store, err := database.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", a.cfg.Database.Path, err)
	}
	return store, nil
}

// source identifies where a result came from
type source struct {
	name string
	size int64
}

// loadResult parses file when given, otherwise loads the stored result
func (a *app) loadResult(cmd *cobra.Command, file string) (api.SectorsMap, source, error) {
	if file != "" {
		result, size, err := a.parseSave(cmd, file)
		return result, source{name: file, size: size}, err
	}

	store, err := a.openStore()
	if err != nil {
		return api.SectorsMap{}, source{}, err
	}
	defer store.Close()

	ctx := cmd.Context()
	result, err := store.LoadResult(ctx)
	if errors.Is(err, database.ErrNoResult) {
		return api.SectorsMap{}, source{}, fmt.Errorf("%w in %s, run \"x4map parse <save>\" first", err, a.cfg.Database.Path)
	}
	if err != nil {
		return api.SectorsMap{}, source{}, err
	}

	meta, err := store.LoadMeta(ctx)
	if err != nil {
		return api.SectorsMap{}, source{}, err
	}
	src := source{name: meta.Source}
	if info, err := os.Stat(meta.Source); err == nil {
		src.size = info.Size()
	}
	return result, src, nil
}
