package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"x4map/internal/api"
)

func testUniverse(t *testing.T) *universe {
	t.Helper()
	m := api.NewSectorsMap()

	a := api.NewSector("sector_a", "Argon Prime", true)
	a.Objects["GAT-A"] = &api.SpaceObject{Class: api.ClassGate, Code: "GAT-A", IsActive: true, TargetSectorMacro: "sector_b", TargetSectorName: "The Reach"}
	a.Objects["VLT-1"] = &api.SpaceObject{Class: api.ClassDataVault, Code: "VLT-1", HasBlueprints: true, X: 10}
	a.Objects["STA-1"] = &api.SpaceObject{Class: api.ClassStation, Code: "STA-1", Owner: "argon", IsHeadquarter: true}
	a.ResourceAreas = append(a.ResourceAreas, api.ResourceArea{X: 1, Y: 2, Z: 3, Resources: map[string]*api.Resource{
		"ore": {RechargeMax: 100, RechargeCurrent: 40, RechargeTime: 1800},
	}})
	m.Sectors[a.Macro] = a

	b := api.NewSector("sector_b", "The Reach", false)
	b.Objects["GAT-B"] = &api.SpaceObject{Class: api.ClassGate, Code: "GAT-B", IsActive: true, TargetSectorMacro: "sector_a", TargetSectorName: "Argon Prime"}
	b.Objects["VLT-2"] = &api.SpaceObject{Class: api.ClassDataVault, Code: "VLT-2"}
	m.Sectors[b.Macro] = b

	c := api.NewSector("sector_c", "Void", true)
	m.Sectors[c.Macro] = c

	s := server.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterTools(s, m))

	u, err := newUniverse(m)
	require.NoError(t, err)
	return u
}

func call(t *testing.T, handler server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestListSectors(t *testing.T) {
	u := testUniverse(t)

	text, isErr := call(t, u.listSectors, nil)
	assert.False(t, isErr)
	assert.Equal(t, "sector_a  Argon Prime  [Vault with Blueprints, Argon Headquarter]\n"+
		"sector_b  The Reach  [Vault (empty), Unexplored]\n"+
		"sector_c  Void\n", text)

	text, _ = call(t, u.listSectors, map[string]any{"filter": "UNEXPLORED"})
	assert.Equal(t, "sector_b  The Reach  [Vault (empty), Unexplored]\n", text)

	text, _ = call(t, u.listSectors, map[string]any{"filter": "nothing like this"})
	assert.Equal(t, "No results.", text)
}

func TestSectorDetails(t *testing.T) {
	u := testUniverse(t)

	text, isErr := call(t, u.sectorDetails, map[string]any{"macro": "argon prime"})
	assert.False(t, isErr)
	assert.Contains(t, text, "Argon Prime (sector_a)")
	assert.Contains(t, text, "Objects (3):")
	assert.Contains(t, text, "GAT-A  Gate to The Reach  (0, 0, 0)")
	assert.Contains(t, text, "Argon Headquarter")
	assert.Contains(t, text, "(1, 2, 3)  ore 40/100")
	assert.Contains(t, text, "Resources:\n  ore  1 area, 200/h, 40/100")

	text, isErr = call(t, u.sectorDetails, map[string]any{"macro": "sector_b"})
	assert.False(t, isErr)
	assert.Contains(t, text, "Unexplored")

	_, isErr = call(t, u.sectorDetails, map[string]any{"macro": "nowhere"})
	assert.True(t, isErr)

	_, isErr = call(t, u.sectorDetails, nil)
	assert.True(t, isErr)
}

func TestFindVaults(t *testing.T) {
	u := testUniverse(t)

	tests := []struct {
		loot string
		want string
	}{
		{"", "Argon Prime  VLT-1  Vault with Blueprints  (10, 0, 0)\nThe Reach  VLT-2  Vault (empty)  (0, 0, 0)\n"},
		{api.LootBlueprints, "Argon Prime  VLT-1  Vault with Blueprints  (10, 0, 0)\n"},
		{api.LootEmpty, "The Reach  VLT-2  Vault (empty)  (0, 0, 0)\n"},
		{api.LootWares, "No results."},
	}
	for _, tt := range tests {
		t.Run("loot="+tt.loot, func(t *testing.T) {
			text, isErr := call(t, u.findVaults, map[string]any{"loot": tt.loot})
			assert.False(t, isErr)
			assert.Equal(t, tt.want, text)
		})
	}

	text, isErr := call(t, u.findVaults, map[string]any{"loot": "gold"})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid loot")
}

func TestRoute(t *testing.T) {
	u := testUniverse(t)

	text, isErr := call(t, u.route, map[string]any{"from": "sector_a", "to": "The Reach"})
	assert.False(t, isErr)
	assert.Equal(t, "1 jumps: Argon Prime -> The Reach", text)

	text, isErr = call(t, u.route, map[string]any{"from": "sector_a", "to": "sector_c"})
	assert.True(t, isErr)
	assert.Contains(t, text, "no route")

	_, isErr = call(t, u.route, map[string]any{"from": "sector_a"})
	assert.True(t, isErr)
}

func TestSummary(t *testing.T) {
	u := testUniverse(t)
	text, isErr := call(t, u.summary, nil)
	assert.False(t, isErr)
	assert.Regexp(t, `Sectors\s+3`, text)
}

func TestNewServer(t *testing.T) {
	s, err := NewServer(api.NewSectorsMap(), "1.0.0")
	require.NoError(t, err)
	assert.NotNil(t, s)
}
