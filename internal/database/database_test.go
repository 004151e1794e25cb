package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4map/internal/api"
)

// newTestStore creates an in-memory store for testing
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testResult() api.SectorsMap {
	m := api.NewSectorsMap()

	a := api.NewSector("cluster_01_sector001_macro", "Argon Prime", true)
	a.Objects["STA-1"] = &api.SpaceObject{Class: api.ClassStation, Code: "STA-1", Owner: "argon", X: 1, Y: 2, Z: 3, IsHeadquarter: true}
	a.Objects["GAT-1"] = &api.SpaceObject{
		Class: api.ClassGate, Code: "GAT-1", Macro: "connection_clustergate001", IsActive: true,
		TargetSectorMacro: "cluster_02_sector001_macro", TargetSectorName: "The Reach",
	}
	a.Objects["VLT-1"] = &api.SpaceObject{Class: api.ClassDataVault, Code: "VLT-1", HasBlueprints: true}
	a.Objects["VLT-2"] = &api.SpaceObject{Class: api.ClassDataVault, Code: "VLT-2"}
	a.ResourceAreas = append(a.ResourceAreas,
		api.ResourceArea{X: 1, Y: 0, Z: -2, Resources: map[string]*api.Resource{
			"ore":     {RechargeMax: 100, RechargeCurrent: 40, RechargeTime: 600, Yield: "high"},
			"silicon": {RechargeMax: 50, RechargeCurrent: 50, RechargeTime: 300},
		}},
		api.ResourceArea{X: 4, Y: 0, Z: 4, Resources: map[string]*api.Resource{
			"ice": {RechargeMax: 10, RechargeCurrent: 10, RechargeTime: 60},
		}},
	)
	m.Sectors[a.Macro] = a

	b := api.NewSector("cluster_02_sector001_macro", "The Reach", false)
	b.Objects["SHP-1"] = &api.SpaceObject{Class: "ship_m", Code: "SHP-1", Macro: "Elite Vanguard", Owner: api.OwnerOwnerless}
	b.Objects["VLT-3"] = &api.SpaceObject{Class: "object", Code: "VLT-3", Macro: "landmarks_erlking_vault_02_macro", HasWares: true, HasSignalleak: true}
	b.Objects["STA-2"] = &api.SpaceObject{Class: api.ClassStation, Code: "STA-2", Owner: "argon", IsWreck: true}
	m.Sectors[b.Macro] = b

	return m
}

func TestOpen_AppliesMigrations(t *testing.T) {
	store := newTestStore(t)

	status, err := store.MigrationStatus()
	require.NoError(t, err)
	require.Len(t, status, len(migrations))
	for _, s := range status {
		if !s.Applied {
			t.Errorf("Expected migration %d to be applied", s.ID)
		}
	}

	// running again is a no-op
	require.NoError(t, store.runMigrations())
}

func TestLoadResult_Empty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadResult(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)

	_, err = store.LoadMeta(context.Background())
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestSaveAndLoadResult(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	want := testResult()

	require.NoError(t, store.SaveResult(ctx, want))
	require.NoError(t, store.SetMeta(ctx, MetaSource, "quicksave.xml.gz"))

	got, err := store.LoadResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	meta, err := store.LoadMeta(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Sectors)
	assert.Equal(t, 7, meta.Objects)
	assert.Equal(t, "quicksave.xml.gz", meta.Source)
	assert.False(t, meta.SavedAt.IsZero())
}

func TestSaveResult_ReplacesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, testResult()))

	next := api.NewSectorsMap()
	c := api.NewSector("cluster_03_sector001_macro", "Black Hole Sun", true)
	c.Objects["STA-9"] = &api.SpaceObject{Class: api.ClassStation, Code: "STA-9", Owner: "teladi"}
	next.Sectors[c.Macro] = c
	require.NoError(t, store.SaveResult(ctx, next))

	got, err := store.LoadResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	records, err := store.FindObjects(ctx, ObjectFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestFindObjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveResult(ctx, testResult()))

	tests := []struct {
		name   string
		filter ObjectFilter
		codes  []string
	}{
		{"everything", ObjectFilter{}, []string{"VLT-1", "VLT-2", "GAT-1", "STA-1", "VLT-3", "SHP-1", "STA-2"}},
		{"by class", ObjectFilter{Classes: []string{api.ClassStation}}, []string{"STA-1", "STA-2"}},
		{"by classes", ObjectFilter{Classes: []string{api.ClassStation, api.ClassGate}}, []string{"GAT-1", "STA-1", "STA-2"}},
		{"by owner", ObjectFilter{Owner: "argon"}, []string{"STA-1", "STA-2"}},
		{"by sector", ObjectFilter{SectorMacro: "cluster_02_sector001_macro"}, []string{"VLT-3", "SHP-1", "STA-2"}},
		{"vaults", ObjectFilter{VaultsOnly: true}, []string{"VLT-1", "VLT-2", "VLT-3"}},
		{"blueprints", ObjectFilter{Loot: api.LootBlueprints}, []string{"VLT-1"}},
		{"wares", ObjectFilter{Loot: api.LootWares}, []string{"VLT-3"}},
		{"signal leaks", ObjectFilter{Loot: api.LootSignalleak}, []string{"VLT-3"}},
		{"empty vaults", ObjectFilter{Loot: api.LootEmpty}, []string{"VLT-2"}},
		{"limit", ObjectFilter{Classes: []string{api.ClassStation}, Limit: 1}, []string{"STA-1"}},
		{"no match", ObjectFilter{Owner: "xenon"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.FindObjects(ctx, tt.filter)
			require.NoError(t, err)

			var codes []string
			for _, r := range records {
				codes = append(codes, r.Object.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestFindObjects_SectorColumns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveResult(ctx, testResult()))

	records, err := store.FindObjects(ctx, ObjectFilter{Loot: api.LootWares})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "cluster_02_sector001_macro", records[0].SectorMacro)
	assert.Equal(t, "The Reach", records[0].SectorName)
	assert.True(t, records[0].Object.HasSignalleak)
}

func TestFindObjects_InvalidLoot(t *testing.T) {
	store := newTestStore(t)
	_, err := store.FindObjects(context.Background(), ObjectFilter{Loot: "gold"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
