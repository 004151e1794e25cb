package parser

// resolveGateTargets writes the target sector of every gate whose connection
// can be followed. Gates with dangling linkage keep empty target fields.
func (p *SaveParser) resolveGateTargets() int {
	resolved := 0
	for _, sector := range p.result.Sectors {
		for _, obj := range sector.Objects {
			if !obj.IsGate() {
				continue
			}
			targetID := obj.TargetID
			if obj.IsHighwayGate() {
				targetID = p.highwaySteps[targetID]
			}
			if targetID == "" {
				continue
			}
			macro, ok := p.sectorOfConnection[targetID]
			if !ok || macro == "" {
				continue
			}
			obj.TargetSectorMacro = macro
			obj.TargetSectorName = p.sectorName(macro)
			resolved++
		}
	}
	return resolved
}

func (p *SaveParser) sectorName(macro string) string {
	if s := p.result.Sector(macro); s != nil {
		return s.Name
	}
	return p.tables.SectorName(macro)
}
