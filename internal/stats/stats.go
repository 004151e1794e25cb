package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"x4map/internal/api"
)

// Summarize computes the aggregate counts of a parsed save
func Summarize(m api.SectorsMap) api.Stats {
	s := api.Stats{StationsByFaction: make(map[string]int)}

	for _, sector := range m.Sectors {
		s.Sectors++
		if sector.IsKnown {
			s.KnownSectors++
		}
		s.ResourceAreas += len(sector.ResourceAreas)

		for _, o := range sector.Objects {
			switch {
			case o.IsStation():
				s.Stations++
				if !o.IsWreck {
					s.StationsByFaction[o.Owner]++
				}
			case o.IsGate():
				s.Gates++
			case o.IsShip():
				s.AbandonedShips++
			}

			if !o.IsVault() {
				continue
			}
			if !o.HasLoot() {
				s.Vaults.Empty++
			}
			if o.HasBlueprints {
				s.Vaults.WithBlueprints++
			}
			if o.HasWares {
				s.Vaults.WithWares++
			}
			if o.HasSignalleak {
				s.Vaults.WithSignalleaks++
			}
		}
	}
	return s
}

// Format renders s as an aligned plain-text report
func Format(s api.Stats) string {
	var sb strings.Builder
	row := func(label string, n int) {
		fmt.Fprintf(&sb, "%-20s %s\n", label, humanize.Comma(int64(n)))
	}
	row("Sectors", s.Sectors)
	row("Known sectors", s.KnownSectors)
	row("Stations", s.Stations)
	row("Gates", s.Gates)
	row("Abandoned ships", s.AbandonedShips)
	row("Resource areas", s.ResourceAreas)
	row("Empty vaults", s.Vaults.Empty)
	row("Vaults w/ blueprints", s.Vaults.WithBlueprints)
	row("Vaults w/ wares", s.Vaults.WithWares)
	row("Vaults w/ signal leak", s.Vaults.WithSignalleaks)

	if len(s.StationsByFaction) > 0 {
		factions := make([]string, 0, len(s.StationsByFaction))
		for f := range s.StationsByFaction {
			factions = append(factions, f)
		}
		sort.Slice(factions, func(i, j int) bool {
			a, b := s.StationsByFaction[factions[i]], s.StationsByFaction[factions[j]]
			if a != b {
				return a > b
			}
			return factions[i] < factions[j]
		})
		sb.WriteString("\nStations by faction\n")
		for _, f := range factions {
			fmt.Fprintf(&sb, "  %-18s %s\n", f, humanize.Comma(int64(s.StationsByFaction[f])))
		}
	}
	return sb.String()
}
