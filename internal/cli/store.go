package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"x4map/internal/api"
	"x4map/internal/database"
)

func (a *app) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Show what the database holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database  %s\n", a.cfg.Database.Path)

			migrations, err := store.MigrationStatus()
			if err != nil {
				return fmt.Errorf("failed to read migrations: %w", err)
			}
			for _, m := range migrations {
				state := "pending"
				if m.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "Migration %d  %s (%s)\n", m.ID, m.Description, state)
			}

			meta, err := store.LoadMeta(cmd.Context())
			if errors.Is(err, database.ErrNoResult) {
				fmt.Fprintln(out, "No parsed result stored.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Source    %s\n", meta.Source)
			fmt.Fprintf(out, "Stored    %s (%s)\n", meta.SavedAt.Local().Format(time.DateTime), humanize.Time(meta.SavedAt))
			fmt.Fprintf(out, "Sectors   %s\n", humanize.Comma(int64(meta.Sectors)))
			fmt.Fprintf(out, "Objects   %s\n", humanize.Comma(int64(meta.Objects)))
			return nil
		},
	}

	cmd.AddCommand(a.findCommand())
	return cmd
}

func (a *app) findCommand() *cobra.Command {
	var filter database.ObjectFilter

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Query objects of the stored result",
		Long: `Find objects of the stored result by class, owner, sector or vault loot.

Examples:
  x4map store find --loot blueprints
  x4map store find --class station --owner khaak
  x4map store find --sector cluster_01_sector001_macro --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.FindObjects(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No results found")
				return nil
			}
			for _, r := range records {
				o := r.Object
				fmt.Fprintf(out, "%s  %s  %s  (%.0f, %.0f, %.0f)\n", r.SectorName, o.Code, o.Title(), o.X, o.Y, o.Z)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&filter.Classes, "class", nil, "object classes, e.g. station,gate,datavault")
	cmd.Flags().StringVar(&filter.Owner, "owner", "", "owning faction")
	cmd.Flags().StringVar(&filter.SectorMacro, "sector", "", "sector macro")
	cmd.Flags().BoolVar(&filter.VaultsOnly, "vaults", false, "only data vaults")
	cmd.Flags().StringVar(&filter.Loot, "loot", "", fmt.Sprintf("only vaults holding %s, %s, %s, or %s vaults",
		api.LootBlueprints, api.LootWares, api.LootSignalleak, api.LootEmpty))
	cmd.Flags().Uint64Var(&filter.Limit, "limit", 0, "maximum number of results, 0 for all")
	return cmd
}
