package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectorTags(t *testing.T) {
	tests := []struct {
		name    string
		known   bool
		objects []*SpaceObject
		want    []string
	}{
		{"nothing", true, nil, nil},
		{"unexplored", false, nil, []string{TagUnexplored}},
		{
			"blueprints win over wares",
			true,
			[]*SpaceObject{
				{Class: ClassDataVault, Code: "V1", HasWares: true},
				{Class: ClassDataVault, Code: "V2", HasBlueprints: true},
			},
			[]string{TagVaultBlueprints},
		},
		{
			"empty vault",
			true,
			[]*SpaceObject{{Class: ClassDataVault, Code: "V1"}},
			[]string{TagVaultEmpty},
		},
		{
			"erlking vault by macro",
			true,
			[]*SpaceObject{{Class: "object", Code: "V1", Macro: "landmarks_erlking_vault_01_macro", HasSignalleak: true}},
			[]string{TagVaultSignalleak},
		},
		{
			"ship, hive and headquarters",
			false,
			[]*SpaceObject{
				{Class: "ship_s", Code: "S1", Owner: OwnerOwnerless},
				{Class: ClassStation, Code: "K1", Owner: OwnerKhaak, Macro: "station_kha_hive_01_macro"},
				{Class: ClassStation, Code: "K2", Owner: OwnerKhaak, Macro: "station_kha_nest_01_macro"},
				{Class: ClassStation, Code: "H1", Owner: "argon", IsHeadquarter: true},
			},
			[]string{TagAbandonedShip, TagKhaakHive, "Argon Headquarter", TagUnexplored},
		},
		{
			"destroyed khaak stations are not tagged",
			true,
			[]*SpaceObject{{Class: ClassStation, Code: "K1", Owner: OwnerKhaak, IsWreck: true}},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSector("sector", "Sector", tt.known)
			for _, o := range tt.objects {
				s.Objects[o.Code] = o
			}
			assert.Equal(t, tt.want, s.Tags())
		})
	}
}

func TestSearchText(t *testing.T) {
	s := NewSector("sector", "Argon Prime", false)
	assert.Equal(t, "argon prime unexplored", s.SearchText())
}

func TestObjectTitle(t *testing.T) {
	tests := []struct {
		object SpaceObject
		want   string
	}{
		{SpaceObject{Class: ClassStation, Owner: "teladi"}, "Teladi Station"},
		{SpaceObject{Class: ClassStation, Owner: "argon", IsHeadquarter: true}, "Argon Headquarter"},
		{SpaceObject{Class: ClassStation, Owner: OwnerPlayer, IsWreck: true}, "Player Station (destroyed)"},
		{SpaceObject{Class: ClassStation, Owner: OwnerKhaak, Macro: "station_kha_hive_01_macro"}, TagKhaakHive},
		{SpaceObject{Class: ClassStation, Owner: OwnerKhaak, Macro: "station_kha_weapon_macro"}, "Khaak Weapon Platform"},
		{SpaceObject{Class: ClassGate, IsActive: true, TargetSectorName: "The Reach"}, "Gate to The Reach"},
		{SpaceObject{Class: ClassGate, TargetSectorMacro: "sector_b"}, "(Inactive) Gate to sector_b"},
		{SpaceObject{Class: ClassHighwayEntryGate, TargetSectorName: "Void"}, "Super Highway Entry to Void"},
		{SpaceObject{Class: ClassHighwayExitGate}, "Super Highway Exit from unknown sector"},
		{SpaceObject{Class: "ship_m", Macro: "Elite Vanguard"}, "Abandoned Ship (Elite Vanguard)"},
		{SpaceObject{Class: ClassDataVault, HasWares: true}, TagVaultWares},
		{SpaceObject{Class: ClassDataVault}, TagVaultEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.object.Title())
		})
	}
}

func TestMatchesLoot(t *testing.T) {
	blueprints := &SpaceObject{Class: ClassDataVault, HasBlueprints: true}
	empty := &SpaceObject{Class: ClassDataVault}
	station := &SpaceObject{Class: ClassStation}

	tests := []struct {
		loot                       string
		blueprints, empty, station bool
	}{
		{"", true, true, false},
		{LootBlueprints, true, false, false},
		{LootWares, false, false, false},
		{LootSignalleak, false, false, false},
		{LootEmpty, false, true, false},
		{"gold", false, false, false},
	}
	for _, tt := range tests {
		t.Run("loot="+tt.loot, func(t *testing.T) {
			assert.Equal(t, tt.blueprints, blueprints.MatchesLoot(tt.loot))
			assert.Equal(t, tt.empty, empty.MatchesLoot(tt.loot))
			assert.Equal(t, tt.station, station.MatchesLoot(tt.loot))
		})
	}

	assert.True(t, ValidLoot(""))
	assert.True(t, ValidLoot(LootSignalleak))
	assert.False(t, ValidLoot("gold"))
}

func TestResourceAreaSummary(t *testing.T) {
	area := ResourceArea{Resources: map[string]*Resource{
		"ore":    {RechargeMax: 50, RechargeCurrent: 20},
		"helium": {RechargeMax: 100, RechargeCurrent: 100, Yield: "medium"},
	}}
	assert.Equal(t, "helium 100/100 (medium), ore 20/50", area.Summary())
	assert.Equal(t, "", ResourceArea{}.Summary())
}

func TestResourceTotals(t *testing.T) {
	s := NewSector("s", "Sector", true)
	s.ResourceAreas = []ResourceArea{
		{Resources: map[string]*Resource{
			"ore":    {RechargeMax: 100, RechargeCurrent: 40, RechargeTime: 3600},
			"helium": {RechargeMax: 60, RechargeCurrent: 60, RechargeTime: 0},
		}},
		{Resources: map[string]*Resource{
			"ore": {RechargeMax: 300, RechargeCurrent: 300, RechargeTime: 1800},
		}},
	}

	totals := s.ResourceTotals()
	assert.Equal(t, []string{"helium", "ore"}, SortedWares(totals))
	assert.Equal(t, ResourceTotal{Areas: 2, HourlySpawn: 700, TotalMax: 400, TotalCurrent: 340}, totals["ore"])
	// no recharge time: counted, but spawns nothing
	assert.Equal(t, ResourceTotal{Areas: 1, HourlySpawn: 0, TotalMax: 60, TotalCurrent: 60}, totals["helium"])

	assert.Equal(t, "2 areas, 700/h, 340/400", totals["ore"].Summary())
	assert.Equal(t, "1 area, 0/h, 60/60", totals["helium"].Summary())

	assert.Empty(t, NewSector("e", "Empty", true).ResourceTotals())
}
