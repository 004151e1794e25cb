package gatemap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"x4map/internal/api"
)

// Edge kinds
const (
	KindGate    = "gate"
	KindHighway = "highway"
)

var (
	// ErrNoRoute is returned when the target sector cannot be reached
	ErrNoRoute = errors.New("no route between sectors")
	// ErrUnknownSector is returned for a sector that is not part of the network
	ErrUnknownSector = errors.New("unknown sector")
)

// Options controls which gates become edges
type Options struct {
	IncludeInactive bool
}

// Link is one directed connection between two sectors
type Link struct {
	From  string
	To    string
	Kind  string
	Gates int // gates of any kind backing this connection
}

// Network is the directed gate graph over sector macros
type Network struct {
	g       graph.Graph[string, string]
	sectors map[string]*api.Sector
	byName  []*api.Sector // display name order, for deterministic lookups
	links   map[[2]string]*Link
}

// Build creates the gate network of a parsed save. One edge is added per
// connected sector pair; gates without a resolved target are skipped.
func Build(m api.SectorsMap, opts Options) (*Network, error) {
	n := &Network{
		g:       graph.New(graph.StringHash, graph.Directed()),
		sectors: m.Sectors,
		links:   make(map[[2]string]*Link),
	}

	sectors := m.SortedSectors()
	n.byName = sectors
	for _, sector := range sectors {
		if err := n.addVertex(sector.Macro); err != nil {
			return nil, err
		}
	}

	for _, sector := range sectors {
		for _, o := range sector.SortedObjects() {
			if !o.IsGate() || !o.HasTarget() {
				continue
			}
			if o.Class == api.ClassGate && !o.IsActive && !opts.IncludeInactive {
				continue
			}
			if o.TargetSectorMacro == sector.Macro {
				continue
			}
			if err := n.addVertex(o.TargetSectorMacro); err != nil {
				return nil, err
			}
			if err := n.addLink(sector.Macro, o.TargetSectorMacro, kindOf(o)); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

func kindOf(o *api.SpaceObject) string {
	if o.IsHighwayGate() {
		return KindHighway
	}
	return KindGate
}

func (n *Network) addVertex(macro string) error {
	err := n.g.AddVertex(macro, graph.VertexAttribute("label", n.Name(macro)))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add sector %s: %w", macro, err)
	}
	return nil
}

func (n *Network) addLink(from, to, kind string) error {
	key := [2]string{from, to}
	if link, ok := n.links[key]; ok {
		link.Gates++
		return nil
	}

	style := "solid"
	if kind == KindHighway {
		style = "dashed"
	}
	err := n.g.AddEdge(from, to, graph.EdgeAttribute("kind", kind), graph.EdgeAttribute("style", style))
	if err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", from, to, err)
	}
	n.links[key] = &Link{From: from, To: to, Kind: kind, Gates: 1}
	return nil
}

// Name returns the display name of a sector, falling back to its macro
func (n *Network) Name(macro string) string {
	if s := n.sectors[macro]; s != nil && s.Name != "" {
		return s.Name
	}
	return macro
}

// Lookup finds a sector by macro or by case-insensitive display name.
// Among sectors sharing a name the lowest macro wins.
func (n *Network) Lookup(query string) (string, error) {
	if _, err := n.g.Vertex(query); err == nil {
		return query, nil
	}
	for _, s := range n.byName {
		if strings.EqualFold(s.Name, query) {
			return s.Macro, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSector, query)
}

// Route returns the sector macros of the shortest hop path from -> to, both ends included
func (n *Network) Route(from, to string) ([]string, error) {
	for _, macro := range []string{from, to} {
		if _, err := n.g.Vertex(macro); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSector, macro)
		}
	}
	if from == to {
		return []string{from}, nil
	}

	path, err := graph.ShortestPath(n.g, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s: %w", ErrNoRoute, n.Name(from), n.Name(to), err)
	}
	return path, nil
}

// Links returns every connection, ordered by source then target
func (n *Network) Links() []Link {
	links := make([]Link, 0, len(n.links))
	for _, l := range n.links {
		links = append(links, *l)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].From != links[j].From {
			return links[i].From < links[j].From
		}
		return links[i].To < links[j].To
	})
	return links
}

// Neighbors returns the outgoing connections of a sector
func (n *Network) Neighbors(macro string) []Link {
	var out []Link
	for _, l := range n.Links() {
		if l.From == macro {
			out = append(out, l)
		}
	}
	return out
}

// Order returns the number of sectors in the network
func (n *Network) Order() int {
	order, err := n.g.Order()
	if err != nil {
		return 0
	}
	return order
}
