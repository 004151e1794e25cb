package parser

import (
	"log/slog"
	"strings"

	"x4map/internal/api"
	"x4map/internal/log"
	"x4map/internal/lookup"
	"x4map/internal/streaming/tags"
)

// SaveParser builds a sectors map from the element events of one save file.
// A SaveParser holds the state of a single parse; create a new one per file.
type SaveParser struct {
	tables *lookup.Tables
	logger *slog.Logger

	result  api.SectorsMap
	current *api.Sector
	area    *api.ResourceArea

	// transient linkage, dropped by Finish
	componentPositions map[string]lookup.Position
	sectorOfConnection map[string]string
	highwaySteps       map[string]string
	lastEntryGateID    string
	lastExitGateID     string

	objects int
}

// NewSaveParser creates a parser using the given lookup tables
func NewSaveParser(tables *lookup.Tables) *SaveParser {
	if tables == nil {
		tables = lookup.NewTables()
	}
	return &SaveParser{
		tables:             tables,
		logger:             log.With("parser"),
		result:             api.NewSectorsMap(),
		componentPositions: make(map[string]lookup.Position),
		sectorOfConnection: make(map[string]string),
		highwaySteps:       make(map[string]string),
	}
}

// OpenElement implements tags.Handler
func (p *SaveParser) OpenElement(path tags.Path) {
	p.storeComponentPosition(path)
	p.storeObject(path)
	p.startResource(path)
}

// CloseElement implements tags.Handler
func (p *SaveParser) CloseElement(path tags.Path) {
	p.storeSuperHighwayStep(path)
	p.storePosition(path)
	p.endResource(path)
}

func (p *SaveParser) storeComponentPosition(path tags.Path) {
	if !isComponentPosition(path) {
		return
	}
	pos := path.Last()
	code := path.At(2).Attr(attrCode)
	p.componentPositions[code] = lookup.Position{
		X: strToFloatSafe(pos.Attr("x")),
		Y: strToFloatSafe(pos.Attr("y")),
		Z: strToFloatSafe(pos.Attr("z")),
	}
}

// storeObject applies at most one handler to the opened element
func (p *SaveParser) storeObject(path tags.Path) {
	last := path.Last()

	if isSector(path) {
		p.openSector(last)
		return
	}

	kind := classifyObject(path)
	switch {
	case kind.any():
		p.createObject(path, kind)
	case isVaultLoot(path):
		p.markVaultLoot(path)
	case isGateConnected(path):
		p.linkGate(path)
	case isSuperHighwayStepEntry(path):
		p.lastEntryGateID = last.Attr(attrID)
	case isSuperHighwayStepExit(path):
		p.lastExitGateID = last.Attr(attrID)
	case isGateActivity(path):
		if obj := p.object(path.At(1).Attr(attrCode)); obj != nil {
			obj.IsActive = last.Attr("active") != "0"
		}
	}
}

func (p *SaveParser) openSector(el *tags.Element) {
	macro := el.Attr(attrMacro)
	known := el.Attr("known") == "1" || el.Attr("knownto") == api.OwnerPlayer
	sector := api.NewSector(macro, p.tables.SectorName(macro), known)
	p.result.Sectors[macro] = sector
	p.current = sector
}

func (p *SaveParser) createObject(path tags.Path, kind objectKind) {
	if p.current == nil {
		return
	}
	el := path.Last()

	var macro string
	switch {
	case kind.sectorGate:
		macro = strings.ToLower(path.At(1).Attr(attrConnection))
	case kind.abandonedShip:
		macro = p.tables.ShipName(el.Attr(attrMacro))
	default:
		macro = el.Attr(attrMacro)
	}

	code := el.Attr(attrCode)
	obj := &api.SpaceObject{
		Class: el.Attr(attrClass),
		Code:  code,
		Macro: macro,
		Owner: el.Attr(attrOwner),
	}
	if kind.station {
		obj.IsWreck = el.Attr("state") == "wreck"
		obj.IsHeadquarter = el.Attr("factionheadquarters") == "1"
	}
	if kind.gate() {
		obj.IsActive = true
	}

	p.current.Objects[code] = obj
	p.objects++
}

func (p *SaveParser) markVaultLoot(path tags.Path) {
	vault := p.object(path.At(3).Attr(attrCode))
	if vault == nil {
		return
	}
	switch path.Last().Attr(attrClass) {
	case lootBlueprints:
		vault.HasBlueprints = true
	case lootWares:
		vault.HasWares = true
	case lootSignalleak:
		vault.HasSignalleak = true
	}
}

// linkGate records which sector a connection id lives in and which id the
// gate leads to
func (p *SaveParser) linkGate(path tags.Path) {
	if p.current == nil {
		return
	}
	gate := path.At(3)
	outerID := path.At(1).Attr(attrID)
	innerID := path.Last().Attr(attrConnection)

	if innerID != "" {
		p.sectorOfConnection[innerID] = p.current.Macro
	}

	obj := p.object(gate.Attr(attrCode))
	if obj == nil {
		return
	}
	if gate.Attr(attrClass) == api.ClassGate {
		obj.TargetID = outerID
	} else {
		obj.TargetID = innerID
	}
}

// storeSuperHighwayStep pairs the latest entry and exit gates when a
// highway component closes
func (p *SaveParser) storeSuperHighwayStep(path tags.Path) {
	if !isHighway(path) {
		return
	}
	if p.lastEntryGateID == "" || p.lastExitGateID == "" {
		return
	}
	p.highwaySteps[p.lastEntryGateID] = p.lastExitGateID
	p.highwaySteps[p.lastExitGateID] = p.lastEntryGateID
}

// storePosition sums the offsets along the path into the closing object's
// absolute position
func (p *SaveParser) storePosition(path tags.Path) {
	if !classifyObject(path).any() {
		return
	}
	obj := p.object(path.Last().Attr(attrCode))
	if obj == nil {
		return
	}

	var x, y, z float64
	add := func(pos lookup.Position) {
		x += pos.X
		y += pos.Y
		z += pos.Z
	}
	for _, el := range path {
		switch el.Name {
		case tagComponent:
			if pos, ok := p.componentPositions[el.Attr(attrCode)]; ok {
				add(pos)
			}
			if pos, ok := p.tables.Offset(el.Attr(attrMacro)); ok {
				add(pos)
			}
		case tagConnection:
			if conn := el.Attr(attrConnection); strings.HasPrefix(conn, clusterGatePrefix) {
				if pos, ok := p.tables.Offset(conn); ok {
					add(pos)
				}
			}
		}
	}
	obj.X, obj.Y, obj.Z = x, y, z
}

// object returns the object with the given code in the current sector
func (p *SaveParser) object(code string) *api.SpaceObject {
	if p.current == nil {
		return nil
	}
	return p.current.Objects[code]
}

// Finish resolves gate targets and returns the completed sectors map.
// The parser must not be fed after Finish.
func (p *SaveParser) Finish() api.SectorsMap {
	resolved := p.resolveGateTargets()
	p.logger.Debug("parse finished",
		"sectors", len(p.result.Sectors),
		"objects", p.objects,
		"connections", len(p.sectorOfConnection),
		"highway_steps", len(p.highwaySteps)/2,
		"resolved_gates", resolved)

	p.componentPositions = nil
	p.sectorOfConnection = nil
	p.highwaySteps = nil
	p.current = nil
	p.area = nil
	return p.result
}
