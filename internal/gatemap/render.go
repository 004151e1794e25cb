package gatemap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/png"
	"io"

	"github.com/BourgeoisBear/rasterm"
	gdraw "github.com/dominikbraun/graph/draw"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/mattn/go-sixel"
	xdraw "golang.org/x/image/draw"
)

// RenderDOT writes the network in DOT format
func (n *Network) RenderDOT(w io.Writer) error {
	if err := gdraw.DOT(n.g, w, gdraw.GraphAttribute("rankdir", "LR")); err != nil {
		return fmt.Errorf("failed to render DOT: %w", err)
	}
	return nil
}

// RenderPNG lays the network out with graphviz and returns a PNG image.
// Sectors on route are highlighted.
func (n *Network) RenderPNG(ctx context.Context, route []string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	gvGraph, err := gv.Graph()
	if err != nil {
		return nil, fmt.Errorf("failed to create graphviz graph: %w", err)
	}
	defer gvGraph.Close()

	gvGraph.SetLayout("neato")
	gvGraph.SetBackgroundColor("black")
	gvGraph.SetOverlap(false)
	gvGraph.SetSplines("true")
	gvGraph.Attr(int(cgraph.EDGE), "color", "white")
	gvGraph.Attr(int(cgraph.NODE), "style", "filled,rounded")
	gvGraph.Attr(int(cgraph.NODE), "color", "white")

	onRoute := make(map[string]bool, len(route))
	for _, macro := range route {
		onRoute[macro] = true
	}

	adjacency, err := n.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get adjacency map: %w", err)
	}

	nodes := make(map[string]*graphviz.Node, len(adjacency))
	for macro := range adjacency {
		node, err := gvGraph.CreateNodeByName(macro)
		if err != nil {
			return nil, fmt.Errorf("failed to create node %s: %w", macro, err)
		}
		node.SetLabel(n.Name(macro))
		node.SetShape("box")
		node.SetFontColor("black")
		node.SetFillColor(n.fillColor(macro, onRoute[macro]))
		nodes[macro] = node
	}

	for from, targets := range adjacency {
		for to, e := range targets {
			edge, err := gvGraph.CreateEdgeByName("", nodes[from], nodes[to])
			if err != nil {
				return nil, fmt.Errorf("failed to create edge %s->%s: %w", from, to, err)
			}
			edge.SetArrowSize(0.8)
			if e.Properties.Attributes["kind"] == KindHighway {
				edge.SetStyle("dashed")
			}
			if onRoute[from] && onRoute[to] {
				edge.SetColor("yellow")
				edge.SetPenWidth(3)
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, gvGraph, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render PNG: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("graphviz render produced no PNG output")
	}
	return buf.Bytes(), nil
}

func (n *Network) fillColor(macro string, highlighted bool) string {
	switch {
	case highlighted:
		return "yellow"
	case n.sectors[macro] == nil:
		return "gray40"
	case !n.sectors[macro].IsKnown:
		return "gray70"
	}
	return "lightblue"
}

// WriteTerminalImage scales a PNG down to maxWidth pixels and writes it as
// sixel data. With dither the image is reduced to the Plan9 palette first.
func WriteTerminalImage(w io.Writer, data []byte, maxWidth int, dither bool) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode PNG: %w", err)
	}
	img = scaleToWidth(img, maxWidth)

	if dither {
		bounds := img.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
		if err := rasterm.SixelWriteImage(w, paletted); err != nil {
			return fmt.Errorf("failed to write sixel image: %w", err)
		}
		return nil
	}

	encoder := sixel.NewEncoder(w)
	encoder.Dither = false
	if err := encoder.Encode(img); err != nil {
		return fmt.Errorf("failed to encode sixel image: %w", err)
	}
	return nil
}

func scaleToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return img
	}
	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled
}
