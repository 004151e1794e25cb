package parser

import (
	"x4map/internal/api"
	"x4map/internal/streaming/tags"
)

// startResource opens a resource area accumulator or fills in one of its wares
func (p *SaveParser) startResource(path tags.Path) {
	if path.EndsWith(tagResourceAreas, tagArea) {
		el := path.Last()
		p.area = &api.ResourceArea{
			X:         strToIntSafe(el.Attr("x")),
			Y:         strToIntSafe(el.Attr("y")),
			Z:         strToIntSafe(el.Attr("z")),
			Resources: make(map[string]*api.Resource),
		}
		return
	}
	if p.area == nil {
		return
	}

	switch {
	case path.EndsWith(tagResourceAreas, tagArea, tagWares, tagWare, tagRecharge):
		res := p.resource(path.At(1).Attr(attrWare))
		el := path.Last()
		res.RechargeMax = strToIntSafe(el.Attr("max"))
		if current, ok := el.Lookup("current"); ok {
			res.RechargeCurrent = strToIntSafe(current)
		} else {
			res.RechargeCurrent = res.RechargeMax
		}
		res.RechargeTime = strToIntSafe(el.Attr("time"))
	case path.EndsWith(tagResourceAreas, tagArea, tagYields, tagWare, tagYield):
		p.resource(path.At(1).Attr(attrWare)).Yield = path.Last().Attr("name")
	}
}

func (p *SaveParser) resource(ware string) *api.Resource {
	res, ok := p.area.Resources[ware]
	if !ok {
		res = &api.Resource{}
		p.area.Resources[ware] = res
	}
	return res
}

// endResource appends the finished area to the current sector. Areas without
// any resource are dropped.
func (p *SaveParser) endResource(path tags.Path) {
	if !path.EndsWith(tagResourceAreas, tagArea) {
		return
	}
	if p.area != nil && p.current != nil && len(p.area.Resources) > 0 {
		p.current.ResourceAreas = append(p.current.ResourceAreas, *p.area)
	}
	p.area = nil
}
