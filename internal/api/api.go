package api

import (
	"sort"
	"strings"
)

// Object classes as they appear in the class attribute of a save-file component
const (
	ClassSector           = "sector"
	ClassStation          = "station"
	ClassGate             = "gate"
	ClassHighway          = "highway"
	ClassHighwayEntryGate = "highwayentrygate"
	ClassHighwayExitGate  = "highwayexitgate"
	ClassDataVault        = "datavault"

	ShipClassPrefix = "ship_"
	OwnerPlayer     = "player"
	OwnerOwnerless  = "ownerless"
	OwnerKhaak      = "khaak"
)

// SectorsMap is the complete result of one save-file parse
type SectorsMap struct {
	Sectors map[string]*Sector `json:"sectors"` // Keyed by sector macro
}

// NewSectorsMap creates an empty result
func NewSectorsMap() SectorsMap {
	return SectorsMap{Sectors: make(map[string]*Sector)}
}

// Sector returns the sector with the given macro, or nil
func (m SectorsMap) Sector(macro string) *Sector {
	if m.Sectors == nil {
		return nil
	}
	return m.Sectors[macro]
}

// SortedSectors returns all sectors ordered by display name, then macro
func (m SectorsMap) SortedSectors() []*Sector {
	sectors := make([]*Sector, 0, len(m.Sectors))
	for _, s := range m.Sectors {
		sectors = append(sectors, s)
	}
	sort.Slice(sectors, func(i, j int) bool {
		a, b := strings.ToLower(sectors[i].Name), strings.ToLower(sectors[j].Name)
		if a != b {
			return a < b
		}
		return sectors[i].Macro < sectors[j].Macro
	})
	return sectors
}

// ObjectCount returns the number of objects across all sectors
func (m SectorsMap) ObjectCount() int {
	n := 0
	for _, s := range m.Sectors {
		n += len(s.Objects)
	}
	return n
}

// Sector is a named region of space with its points of interest
type Sector struct {
	Macro         string                  `json:"macro"`          // Stable sector key
	Name          string                  `json:"name"`           // Resolved display name
	IsKnown       bool                    `json:"is_known"`       // Explored or visible to the player
	Objects       map[string]*SpaceObject `json:"objects"`        // Keyed by object code
	ResourceAreas []ResourceArea          `json:"resource_areas"` // In document order
}

// NewSector creates an empty sector record
func NewSector(macro, name string, known bool) *Sector {
	return &Sector{
		Macro:         macro,
		Name:          name,
		IsKnown:       known,
		Objects:       make(map[string]*SpaceObject),
		ResourceAreas: []ResourceArea{},
	}
}

// SortedObjects returns the sector's objects ordered by class, then code
func (s *Sector) SortedObjects() []*SpaceObject {
	objects := make([]*SpaceObject, 0, len(s.Objects))
	for _, o := range s.Objects {
		objects = append(objects, o)
	}
	sort.Slice(objects, func(i, j int) bool {
		if objects[i].Class != objects[j].Class {
			return objects[i].Class < objects[j].Class
		}
		return objects[i].Code < objects[j].Code
	})
	return objects
}

// SpaceObject is a point of interest inside a sector
type SpaceObject struct {
	Class string  `json:"class"`
	Code  string  `json:"code"`
	Macro string  `json:"macro"` // Connection name for sector gates, ship name for abandoned ships
	Owner string  `json:"owner"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`

	// Stations
	IsWreck       bool `json:"is_wreck,omitempty"`
	IsHeadquarter bool `json:"is_headquarter,omitempty"`

	// Gates; initialized to true when the gate is created
	IsActive bool `json:"is_active"`

	// Vaults
	HasBlueprints bool `json:"has_blueprints"`
	HasWares      bool `json:"has_wares"`
	HasSignalleak bool `json:"has_signalleak"`

	// Raw connection id recorded during the walk, consumed by target resolution
	TargetID string `json:"-"`

	// Set by target resolution; empty when the target could not be resolved
	TargetSectorMacro string `json:"target_sector_macro,omitempty"`
	TargetSectorName  string `json:"target_sector_name,omitempty"`
}

// IsGate reports whether the object is a sector gate or a super-highway gate
func (o *SpaceObject) IsGate() bool {
	return o.Class == ClassGate || o.IsHighwayGate()
}

// IsHighwayGate reports whether the object is one end of a super-highway step
func (o *SpaceObject) IsHighwayGate() bool {
	return o.Class == ClassHighwayEntryGate || o.Class == ClassHighwayExitGate
}

// IsStation reports whether the object is a station
func (o *SpaceObject) IsStation() bool {
	return o.Class == ClassStation
}

// IsShip reports whether the object is an (abandoned) ship
func (o *SpaceObject) IsShip() bool {
	return strings.HasPrefix(o.Class, ShipClassPrefix)
}

// IsVault reports whether the object is a data vault. Erlking vaults are
// recognised by macro during the walk and keep their own class, so the loot
// flags are the reliable marker here.
func (o *SpaceObject) IsVault() bool {
	return o.Class == ClassDataVault || strings.Contains(o.Macro, "erlking_vault")
}

// HasLoot reports whether any vault loot flag is set
func (o *SpaceObject) HasLoot() bool {
	return o.HasBlueprints || o.HasWares || o.HasSignalleak
}

// Vault loot filters
const (
	LootBlueprints = "blueprints"
	LootWares      = "wares"
	LootSignalleak = "signalleak"
	LootEmpty      = "empty"
)

// ValidLoot reports whether loot is empty or one of the loot filters
func ValidLoot(loot string) bool {
	switch loot {
	case "", LootBlueprints, LootWares, LootSignalleak, LootEmpty:
		return true
	}
	return false
}

// MatchesLoot reports whether the object is a vault holding the given loot.
// An empty filter matches every vault.
func (o *SpaceObject) MatchesLoot(loot string) bool {
	if !o.IsVault() {
		return false
	}
	switch loot {
	case "":
		return true
	case LootBlueprints:
		return o.HasBlueprints
	case LootWares:
		return o.HasWares
	case LootSignalleak:
		return o.HasSignalleak
	case LootEmpty:
		return !o.HasLoot()
	}
	return false
}

// HasTarget reports whether gate target resolution succeeded for this object
func (o *SpaceObject) HasTarget() bool {
	return o.TargetSectorMacro != ""
}

// ResourceArea is a coarse grid cell holding harvestable wares
type ResourceArea struct {
	X         int                  `json:"x"`
	Y         int                  `json:"y"`
	Z         int                  `json:"z"`
	Resources map[string]*Resource `json:"resources"` // Keyed by ware name
}

// Resource describes one ware inside a resource area
type Resource struct {
	RechargeMax     int    `json:"recharge_max"`
	RechargeCurrent int    `json:"recharge_current"`
	RechargeTime    int    `json:"recharge_time"`
	Yield           string `json:"yield,omitempty"`
}

// ResourceTotal sums one ware over all resource areas of a sector
type ResourceTotal struct {
	Areas        int     `json:"areas"`
	HourlySpawn  float64 `json:"hourly_spawn"` // recharge_max scaled from recharge_time to one hour
	TotalMax     int     `json:"total_max"`
	TotalCurrent int     `json:"total_current"`
}

// ResourceTotals aggregates the sector's resource areas per ware. Areas
// without a recharge time still count but add nothing to the hourly spawn.
func (s *Sector) ResourceTotals() map[string]ResourceTotal {
	totals := make(map[string]ResourceTotal)
	for _, area := range s.ResourceAreas {
		for ware, r := range area.Resources {
			t := totals[ware]
			t.Areas++
			t.TotalMax += r.RechargeMax
			t.TotalCurrent += r.RechargeCurrent
			if r.RechargeTime > 0 {
				t.HourlySpawn += float64(r.RechargeMax) * 3600 / float64(r.RechargeTime)
			}
			totals[ware] = t
		}
	}
	return totals
}

// VaultStats counts vaults by the loot they still hold
type VaultStats struct {
	Empty           int `json:"empty"`
	WithBlueprints  int `json:"with_blueprints"`
	WithWares       int `json:"with_wares"`
	WithSignalleaks int `json:"with_signalleaks"`
}

// Stats is the aggregate summary handed to analytics collaborators
type Stats struct {
	Sectors           int            `json:"sectors"`
	KnownSectors      int            `json:"known_sectors"`
	Stations          int            `json:"stations"`
	Gates             int            `json:"gates"`
	AbandonedShips    int            `json:"abandoned_ships"`
	ResourceAreas     int            `json:"resource_areas"`
	Vaults            VaultStats     `json:"vaults"`
	StationsByFaction map[string]int `json:"stations_by_faction"` // Wrecks excluded
}
