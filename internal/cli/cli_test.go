package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4map/internal/api"
	"x4map/internal/database"
	"x4map/internal/lookup"
)

const saveDoc = `<?xml version="1.0" encoding="UTF-8"?>
<savegame>
 <universe>
  <component class="sector" macro="cluster_01_sector001_macro" code="SEC-A" known="1">
   <connections>
    <connection connection="stations">
     <component class="station" macro="station_macro" code="STA-1" owner="player"/>
    </connection>
   </connections>
  </component>
 </universe>
</savegame>
`

// testEnv isolates a command run from the caller's environment
func testEnv(t *testing.T) (dbPath, assetsDir string) {
	t.Helper()
	for _, key := range []string{"X4MAP_NATS_URL", "X4MAP_LOG_FILE", "X4MAP_LOG_LEVEL", "X4MAP_ASSETS_DIR", "X4MAP_DB_PATH"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	assetsDir = filepath.Join(dir, "assets")
	require.NoError(t, os.Mkdir(assetsDir, 0o755))
	tables := map[string]string{
		lookup.SectorNamesFile: `{"cluster_01_sector001_macro": "{20,1}"}`,
		lookup.ShipNamesFile:   `{}`,
		lookup.PositionsFile:   `{}`,
		lookup.StringsFile:     `{"20": {"1": "Argon Prime"}}`,
	}
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(assetsDir, name), []byte(content), 0o644))
	}
	return filepath.Join(dir, "x4map.db"), assetsDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func seedStore(t *testing.T, dbPath string) {
	t.Helper()
	m := api.NewSectorsMap()

	a := api.NewSector("sector_a", "Argon Prime", true)
	a.Objects["GAT-A"] = &api.SpaceObject{Class: api.ClassGate, Code: "GAT-A", IsActive: true, TargetSectorMacro: "sector_b", TargetSectorName: "The Reach"}
	a.Objects["VLT-1"] = &api.SpaceObject{Class: api.ClassDataVault, Code: "VLT-1", HasBlueprints: true}
	m.Sectors[a.Macro] = a

	b := api.NewSector("sector_b", "The Reach", true)
	b.Objects["HWY-B"] = &api.SpaceObject{Class: api.ClassHighwayEntryGate, Code: "HWY-B", IsActive: true, TargetSectorMacro: "sector_c", TargetSectorName: "Void"}
	m.Sectors[b.Macro] = b

	m.Sectors["sector_c"] = api.NewSector("sector_c", "Void", false)

	store, err := database.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.SaveResult(context.Background(), m))
	require.NoError(t, store.SetMeta(context.Background(), database.MetaSource, "/saves/quicksave.xml.gz"))
}

func TestParseAndStats(t *testing.T) {
	dbPath, assetsDir := testEnv(t)
	save := filepath.Join(t.TempDir(), "save.xml")
	require.NoError(t, os.WriteFile(save, []byte(saveDoc), 0o644))

	out, err := run(t, "--db", dbPath, "--assets", assetsDir, "parse", save)
	require.NoError(t, err)
	assert.Regexp(t, `Sectors\s+1\n`, out)
	assert.Regexp(t, `player\s+1\n`, out)

	out, err = run(t, "--db", dbPath, "stats")
	require.NoError(t, err)
	assert.Regexp(t, `Stations\s+1\n`, out)

	out, err = run(t, "--db", dbPath, "store", "find", "--class", "station")
	require.NoError(t, err)
	assert.Equal(t, "Argon Prime  STA-1  Player Station  (0, 0, 0)\n", out)
}

func TestParse_NoStore(t *testing.T) {
	dbPath, assetsDir := testEnv(t)
	save := filepath.Join(t.TempDir(), "save.xml")
	require.NoError(t, os.WriteFile(save, []byte(saveDoc), 0o644))

	out, err := run(t, "--db", dbPath, "--assets", assetsDir, "parse", "--no-store", "--json", save)
	require.NoError(t, err)
	assert.Contains(t, out, `"cluster_01_sector001_macro"`)

	_, err = run(t, "--db", dbPath, "stats")
	assert.ErrorIs(t, err, database.ErrNoResult)
}

func TestParse_Failures(t *testing.T) {
	dbPath, assetsDir := testEnv(t)

	_, err := run(t, "--db", dbPath, "--assets", t.TempDir(), "parse", "save.xml")
	assert.ErrorIs(t, err, lookup.ErrTableMissing)

	_, err = run(t, "--db", dbPath, "--assets", assetsDir, "parse", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)

	_, err = run(t, "--db", dbPath, "parse")
	assert.Error(t, err, "a save file argument is required")
}

func TestStore(t *testing.T) {
	dbPath, _ := testEnv(t)

	out, err := run(t, "--db", dbPath, "store")
	require.NoError(t, err)
	assert.Contains(t, out, "Migration 1")
	assert.Contains(t, out, "No parsed result stored.")

	seedStore(t, dbPath)
	out, err = run(t, "--db", dbPath, "store")
	require.NoError(t, err)
	assert.Contains(t, out, "Source    /saves/quicksave.xml.gz")
	assert.Contains(t, out, "Sectors   3")
	assert.Contains(t, out, "Objects   3")
}

func TestStoreFind(t *testing.T) {
	dbPath, _ := testEnv(t)
	seedStore(t, dbPath)

	out, err := run(t, "--db", dbPath, "store", "find", "--loot", "blueprints")
	require.NoError(t, err)
	assert.Equal(t, "Argon Prime  VLT-1  Vault with Blueprints  (0, 0, 0)\n", out)

	out, err = run(t, "--db", dbPath, "store", "find", "--owner", "xenon")
	require.NoError(t, err)
	assert.Equal(t, "No results found\n", out)

	_, err = run(t, "--db", dbPath, "store", "find", "--loot", "gold")
	assert.ErrorIs(t, err, database.ErrInvalidFilter)
}

func TestRoute(t *testing.T) {
	dbPath, _ := testEnv(t)
	seedStore(t, dbPath)

	out, err := run(t, "--db", dbPath, "route", "argon prime", "sector_c")
	require.NoError(t, err)
	assert.Equal(t, "Argon Prime -> Void: 2 jumps\n"+
		"  Argon Prime\n"+
		"  The Reach  (gate)\n"+
		"  Void  (highway)\n", out)

	_, err = run(t, "--db", dbPath, "route", "sector_c", "sector_a")
	assert.Error(t, err)

	_, err = run(t, "--db", dbPath, "route", "Nowhere", "sector_a")
	assert.Error(t, err)
}

func TestMap(t *testing.T) {
	dbPath, _ := testEnv(t)
	seedStore(t, dbPath)

	out, err := run(t, "--db", dbPath, "map", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "sector_a")

	png := filepath.Join(t.TempDir(), "map.png")
	_, err = run(t, "--db", dbPath, "map", "--format", "png", "-o", png, "--from", "sector_a", "--to", "sector_c")
	require.NoError(t, err)
	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = run(t, "--db", dbPath, "map", "--format", "svg")
	assert.Error(t, err)

	_, err = run(t, "--db", dbPath, "map", "--format", "dot", "--from", "sector_a")
	assert.Error(t, err)

	_, err = run(t, "--db", dbPath, "map", "--format", "sixel")
	assert.Error(t, err, "sixel needs a terminal")
}
