package api

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Sidebar tag labels
const (
	TagVaultBlueprints = "Vault with Blueprints"
	TagVaultWares      = "Vault with Wares"
	TagVaultSignalleak = "Vault with Signal Leak"
	TagVaultEmpty      = "Vault (empty)"
	TagAbandonedShip   = "Abandoned Ship"
	TagKhaakHive       = "Khaak Hive"
	TagKhaakNest       = "Khaak Nest"
	TagUnexplored      = "Unexplored"
)

// Tags returns the labels shown next to a sector in the sector list.
// At most one vault tag and one khaak tag are returned; every faction
// headquarter gets its own tag.
func (s *Sector) Tags() []string {
	var tags []string

	var blueprints, wares, signalleak, emptyVault bool
	var ship, hive, nest bool
	var headquarters []string
	for _, o := range s.SortedObjects() {
		blueprints = blueprints || o.HasBlueprints
		wares = wares || o.HasWares
		signalleak = signalleak || o.HasSignalleak
		if o.IsVault() && !o.HasBlueprints && !o.HasWares {
			emptyVault = true
		}
		if o.IsShip() {
			ship = true
		}
		if o.Owner == OwnerKhaak && !o.IsWreck {
			if strings.Contains(o.Macro, "_hive_") {
				hive = true
			} else {
				nest = true
			}
		}
		if o.IsHeadquarter {
			headquarters = append(headquarters, capitalize(o.Owner)+" Headquarter")
		}
	}

	switch {
	case blueprints:
		tags = append(tags, TagVaultBlueprints)
	case wares:
		tags = append(tags, TagVaultWares)
	case signalleak:
		tags = append(tags, TagVaultSignalleak)
	case emptyVault:
		tags = append(tags, TagVaultEmpty)
	}
	if ship {
		tags = append(tags, TagAbandonedShip)
	}
	switch {
	case hive:
		tags = append(tags, TagKhaakHive)
	case nest:
		tags = append(tags, TagKhaakNest)
	}
	tags = append(tags, headquarters...)
	if !s.IsKnown {
		tags = append(tags, TagUnexplored)
	}
	return tags
}

// SearchText is the lowercase text a sector filter matches against
func (s *Sector) SearchText() string {
	return strings.ToLower(s.Name + " " + strings.Join(s.Tags(), " "))
}

// Title returns the human-readable label of an object
func (o *SpaceObject) Title() string {
	switch {
	case o.IsStation() && o.Owner == OwnerKhaak:
		title := "Khaak Weapon Platform"
		if strings.Contains(o.Macro, "_hive_") {
			title = TagKhaakHive
		} else if strings.Contains(o.Macro, "_nest_") {
			title = TagKhaakNest
		}
		return withWreck(title, o.IsWreck)
	case o.IsStation() && o.Owner == OwnerPlayer:
		return withWreck("Player Station", o.IsWreck)
	case o.IsStation():
		title := capitalize(o.Owner) + " Station"
		if o.IsHeadquarter {
			title = capitalize(o.Owner) + " Headquarter"
		}
		return withWreck(title, o.IsWreck)
	case o.Class == ClassGate:
		activity := ""
		if !o.IsActive {
			activity = "(Inactive) "
		}
		return activity + "Gate to " + targetLabel(o)
	case o.IsHighwayGate():
		direction := "Exit from"
		if o.Class == ClassHighwayEntryGate {
			direction = "Entry to"
		}
		return fmt.Sprintf("Super Highway %s %s", direction, targetLabel(o))
	case o.IsShip():
		return fmt.Sprintf("%s (%s)", TagAbandonedShip, o.Macro)
	case o.HasBlueprints:
		return TagVaultBlueprints
	case o.HasWares:
		return TagVaultWares
	case o.HasSignalleak:
		return TagVaultSignalleak
	default:
		return TagVaultEmpty
	}
}

func targetLabel(o *SpaceObject) string {
	if o.TargetSectorName != "" {
		return o.TargetSectorName
	}
	if o.TargetSectorMacro != "" {
		return o.TargetSectorMacro
	}
	return "unknown sector"
}

func withWreck(title string, wreck bool) string {
	if wreck {
		return title + " (destroyed)"
	}
	return title
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Summary lists the wares of a resource area as "ware current/max", ordered by ware
func (a ResourceArea) Summary() string {
	wares := make([]string, 0, len(a.Resources))
	for ware := range a.Resources {
		wares = append(wares, ware)
	}
	sort.Strings(wares)

	parts := make([]string, 0, len(wares))
	for _, ware := range wares {
		r := a.Resources[ware]
		part := fmt.Sprintf("%s %d/%d", ware, r.RechargeCurrent, r.RechargeMax)
		if r.Yield != "" {
			part += " (" + r.Yield + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

// Summary renders a ware total as "N areas, spawn/h, current/max"
func (t ResourceTotal) Summary() string {
	areas := "areas"
	if t.Areas == 1 {
		areas = "area"
	}
	return fmt.Sprintf("%d %s, %s/h, %s/%s", t.Areas, areas,
		humanize.CommafWithDigits(t.HourlySpawn, 1),
		humanize.Comma(int64(t.TotalCurrent)), humanize.Comma(int64(t.TotalMax)))
}

// SortedWares returns the wares of totals in name order
func SortedWares(totals map[string]ResourceTotal) []string {
	wares := make([]string, 0, len(totals))
	for ware := range totals {
		wares = append(wares, ware)
	}
	sort.Strings(wares)
	return wares
}
