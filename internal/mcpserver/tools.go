package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"x4map/internal/api"
	"x4map/internal/gatemap"
	"x4map/internal/stats"
)

// universe is the parsed result the tools answer from
type universe struct {
	result  api.SectorsMap
	network *gatemap.Network
}

func newUniverse(result api.SectorsMap) (*universe, error) {
	network, err := gatemap.Build(result, gatemap.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to build gate network: %w", err)
	}
	return &universe{result: result, network: network}, nil
}

// RegisterTools adds the read-only map tools to the MCP server
func RegisterTools(s *server.MCPServer, result api.SectorsMap) error {
	u, err := newUniverse(result)
	if err != nil {
		return err
	}

	s.AddTool(listSectorsTool(), u.listSectors)
	s.AddTool(sectorDetailsTool(), u.sectorDetails)
	s.AddTool(findVaultsTool(), u.findVaults)
	s.AddTool(routeTool(), u.route)
	s.AddTool(statsTool(), u.summary)
	return nil
}

// --- list_sectors ---

func listSectorsTool() mcp.Tool {
	return mcp.NewTool("list_sectors",
		mcp.WithDescription("List the sectors of the parsed save with their tags (vaults, abandoned ships, khaak, headquarters, unexplored)."),
		mcp.WithString("filter",
			mcp.Description("Case-insensitive substring matched against sector names and tags"),
		),
	)
}

func (u *universe) listSectors(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := strings.ToLower(strings.TrimSpace(req.GetString("filter", "")))

	var matched []*api.Sector
	for _, s := range u.result.SortedSectors() {
		if filter == "" || strings.Contains(s.SearchText(), filter) {
			matched = append(matched, s)
		}
	}
	return formatEntities(matched, formatSector)
}

// --- sector_details ---

func sectorDetailsTool() mcp.Tool {
	return mcp.NewTool("sector_details",
		mcp.WithDescription("Show the objects and resource areas of one sector."),
		mcp.WithString("macro",
			mcp.Description("Sector macro (e.g. cluster_01_sector001_macro) or display name"),
			mcp.Required(),
		),
	)
}

func (u *universe) sectorDetails(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("macro", "")
	if query == "" {
		return toolError(fmt.Errorf("macro is required"))
	}
	macro, err := u.network.Lookup(query)
	if err != nil {
		return toolError(err)
	}
	sector := u.result.Sector(macro)
	if sector == nil {
		return toolError(fmt.Errorf("%w: %s", gatemap.ErrUnknownSector, query))
	}
	return mcp.NewToolResultText(describeSector(sector)), nil
}

// --- find_vaults ---

func findVaultsTool() mcp.Tool {
	return mcp.NewTool("find_vaults",
		mcp.WithDescription("Find data vaults, optionally only those still holding a kind of loot."),
		mcp.WithString("loot",
			mcp.Description("Loot filter"),
			mcp.Enum(api.LootBlueprints, api.LootWares, api.LootSignalleak, api.LootEmpty),
		),
	)
}

type vaultHit struct {
	sector *api.Sector
	object *api.SpaceObject
}

func (u *universe) findVaults(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loot := req.GetString("loot", "")
	if !api.ValidLoot(loot) {
		return toolError(fmt.Errorf("invalid loot %q (expected %s, %s, %s or %s)",
			loot, api.LootBlueprints, api.LootWares, api.LootSignalleak, api.LootEmpty))
	}

	var hits []vaultHit
	for _, s := range u.result.SortedSectors() {
		for _, o := range s.SortedObjects() {
			if o.MatchesLoot(loot) {
				hits = append(hits, vaultHit{sector: s, object: o})
			}
		}
	}
	return formatEntities(hits, func(h vaultHit) string {
		return fmt.Sprintf("%s  %s  %s  %s", h.sector.Name, h.object.Code, h.object.Title(), formatPosition(h.object))
	})
}

// --- route ---

func routeTool() mcp.Tool {
	return mcp.NewTool("route",
		mcp.WithDescription("Shortest gate and super-highway route between two sectors."),
		mcp.WithString("from",
			mcp.Description("Start sector macro or name"),
			mcp.Required(),
		),
		mcp.WithString("to",
			mcp.Description("Destination sector macro or name"),
			mcp.Required(),
		),
	)
}

func (u *universe) route(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := u.network.Lookup(req.GetString("from", ""))
	if err != nil {
		return toolError(err)
	}
	to, err := u.network.Lookup(req.GetString("to", ""))
	if err != nil {
		return toolError(err)
	}

	path, err := u.network.Route(from, to)
	if err != nil {
		return toolError(err)
	}
	names := make([]string, len(path))
	for i, macro := range path {
		names[i] = u.network.Name(macro)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d jumps: %s", len(path)-1, strings.Join(names, " -> "))), nil
}

// --- stats ---

func statsTool() mcp.Tool {
	return mcp.NewTool("stats",
		mcp.WithDescription("Aggregate counts of the parsed save."),
	)
}

func (u *universe) summary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(stats.Format(stats.Summarize(u.result))), nil
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSector(s *api.Sector) string {
	line := fmt.Sprintf("%s  %s", s.Macro, s.Name)
	if tags := s.Tags(); len(tags) > 0 {
		line += "  [" + strings.Join(tags, ", ") + "]"
	}
	return line
}

func formatPosition(o *api.SpaceObject) string {
	return fmt.Sprintf("(%.0f, %.0f, %.0f)", o.X, o.Y, o.Z)
}

func describeSector(s *api.Sector) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", s.Name, s.Macro)
	if !s.IsKnown {
		sb.WriteString("Unexplored\n")
	}

	objects := s.SortedObjects()
	fmt.Fprintf(&sb, "\nObjects (%d):\n", len(objects))
	for _, o := range objects {
		fmt.Fprintf(&sb, "  %s  %s  %s\n", o.Code, o.Title(), formatPosition(o))
	}

	if len(s.ResourceAreas) > 0 {
		fmt.Fprintf(&sb, "\nResource areas (%d):\n", len(s.ResourceAreas))
		for _, area := range s.ResourceAreas {
			fmt.Fprintf(&sb, "  (%d, %d, %d)  %s\n", area.X, area.Y, area.Z, area.Summary())
		}

		totals := s.ResourceTotals()
		sb.WriteString("\nResources:\n")
		for _, ware := range api.SortedWares(totals) {
			fmt.Fprintf(&sb, "  %s  %s\n", ware, totals[ware].Summary())
		}
	}
	return sb.String()
}
