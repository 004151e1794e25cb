package parser

import (
	"strings"

	"x4map/internal/api"
	"x4map/internal/streaming/tags"
)

// Tag and attribute vocabulary of the save format
const (
	tagComponent     = "component"
	tagConnection    = "connection"
	tagConnected     = "connected"
	tagObject        = "object"
	tagOffset        = "offset"
	tagPosition      = "position"
	tagResourceAreas = "resourceareas"
	tagArea          = "area"
	tagWares         = "wares"
	tagWare          = "ware"
	tagRecharge      = "recharge"
	tagYields        = "yields"
	tagYield         = "yield"

	attrClass      = "class"
	attrCode       = "code"
	attrMacro      = "macro"
	attrOwner      = "owner"
	attrConnection = "connection"
	attrID         = "id"
	attrWare       = "ware"

	clusterGatePrefix    = "connection_clustergate"
	clusterGateConnected = "clustergate"
	destinationConn      = "destination"
	entryGateConn        = "entrygate"
	exitGateConn         = "exitgate"
)

// Vault loot component classes
const (
	lootWares      = "collectablewares"
	lootBlueprints = "collectableblueprints"
	lootSignalleak = "signalleak"
)

func isComponentOfClass(el *tags.Element, class string) bool {
	return el.Is(tagComponent) && el.Attr(attrClass) == class
}

func isSector(path tags.Path) bool {
	return isComponentOfClass(path.Last(), api.ClassSector)
}

func isStation(path tags.Path) bool {
	return isComponentOfClass(path.Last(), api.ClassStation)
}

func isAbandonedShip(path tags.Path) bool {
	last := path.Last()
	return last.Is(tagComponent) &&
		strings.HasPrefix(last.Attr(attrClass), api.ShipClassPrefix) &&
		last.Attr(attrOwner) == api.OwnerOwnerless
}

func isSectorGate(path tags.Path) bool {
	parent := path.At(1)
	return path.Last().Is(tagComponent) &&
		parent.Is(tagConnection) &&
		strings.HasPrefix(parent.Attr(attrConnection), clusterGatePrefix)
}

func isSuperHighwayGate(path tags.Path) bool {
	last := path.Last()
	if !last.Is(tagComponent) {
		return false
	}
	class := last.Attr(attrClass)
	return (class == api.ClassHighwayEntryGate || class == api.ClassHighwayExitGate) &&
		strings.Contains(last.Attr(attrMacro), "superhighway")
}

func isVault(path tags.Path) bool {
	last := path.Last()
	return last.Is(tagComponent) &&
		(last.Attr(attrClass) == api.ClassDataVault || strings.Contains(last.Attr(attrMacro), "erlking_vault"))
}

// component/connections/connection/component: the loot sits three levels below its vault
func isVaultLoot(path tags.Path) bool {
	if len(path) < 4 {
		return false
	}
	last := path.Last()
	if !last.Is(tagComponent) {
		return false
	}
	switch last.Attr(attrClass) {
	case lootWares, lootBlueprints, lootSignalleak:
		return isVault(path.Trim(3))
	}
	return false
}

// gate component/connections/connection/connected
func isGateConnected(path tags.Path) bool {
	if !path.Last().Is(tagConnected) || len(path) < 4 {
		return false
	}
	gate := path.Trim(3)
	if isSuperHighwayGate(gate) {
		return true
	}
	conn := path.At(1).Attr(attrConnection)
	return (conn == destinationConn || strings.HasPrefix(conn, clusterGateConnected)) && isSectorGate(gate)
}

func isSuperHighwayStepEntry(path tags.Path) bool {
	last := path.Last()
	return last.Is(tagConnection) && last.Attr(attrConnection) == entryGateConn
}

func isSuperHighwayStepExit(path tags.Path) bool {
	last := path.Last()
	return last.Is(tagConnection) && last.Attr(attrConnection) == exitGateConn
}

func isGateActivity(path tags.Path) bool {
	if !path.Last().Is(tagObject) || len(path) < 2 {
		return false
	}
	gate := path.Trim(1)
	return isSectorGate(gate) || isSuperHighwayGate(gate)
}

func isComponentPosition(path tags.Path) bool {
	return path.EndsWith(tagComponent, tagOffset, tagPosition)
}

func isHighway(path tags.Path) bool {
	return isComponentOfClass(path.Last(), api.ClassHighway)
}

// objectKind records which object predicates hold for one path snapshot
type objectKind struct {
	station, sectorGate, highwayGate, vault, abandonedShip bool
}

func classifyObject(path tags.Path) objectKind {
	return objectKind{
		station:       isStation(path),
		sectorGate:    isSectorGate(path),
		highwayGate:   isSuperHighwayGate(path),
		vault:         isVault(path),
		abandonedShip: isAbandonedShip(path),
	}
}

// any reports whether the element defines a position-bearing object
func (k objectKind) any() bool {
	return k.station || k.sectorGate || k.highwayGate || k.vault || k.abandonedShip
}

func (k objectKind) gate() bool {
	return k.sectorGate || k.highwayGate
}
