package swimlane

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"github.com/sproutworks/furrow/pkg/layout"
)

// rightMargin keeps the last tier's nodes clear of the frame edge.
const rightMargin = 50.0

// SVGOption configures diagram rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme     Theme
	showEdges bool
	laneNames bool
	recovered map[string]bool
}

// WithTheme selects the color theme. Defaults to [Light].
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithEdges draws prerequisite edges between nodes.
func WithEdges() SVGOption { return func(r *svgRenderer) { r.showEdges = true } }

// WithLaneNames draws the lane label column.
func WithLaneNames() SVGOption { return func(r *svgRenderer) { r.laneNames = true } }

// RenderSVG renders the layout as an SVG swim-lane diagram. The constants
// must be the ones the layout was built with; they size the frame and the
// node boxes.
func RenderSVG(res layout.Result, c layout.Constants, opts ...SVGOption) []byte {
	r := svgRenderer{theme: Light(), recovered: make(map[string]bool)}
	for _, opt := range opts {
		opt(&r)
	}
	for _, rec := range res.Recoveries {
		r.recovered[rec.ItemID] = true
	}

	width, height := frameSize(res, c)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)

	renderLanes(&buf, &r, res, width)
	if r.showEdges {
		renderEdges(&buf, &r, res, c)
	}
	renderNodes(&buf, &r, res, c)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frameSize computes the outer dimensions from the solved geometry.
func frameSize(res layout.Result, c layout.Constants) (w, h float64) {
	maxTier := 0
	for _, n := range res.Nodes {
		if n.Tier > maxTier {
			maxTier = n.Tier
		}
	}
	w = c.LabelWidth + float64(maxTier+1)*c.TierWidth + rightMargin

	for _, b := range res.Boundaries {
		if b.EndY > h {
			h = b.EndY
		}
	}
	h += c.LanePadding
	return w, h
}

// renderLanes draws the background bands in stacking order so output is
// deterministic.
func renderLanes(buf *bytes.Buffer, r *svgRenderer, res layout.Result, width float64) {
	for _, lane := range layout.LaneOrder() {
		b, ok := res.Boundaries[lane]
		if !ok {
			continue
		}
		fmt.Fprintf(buf, `  <rect x="0" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			b.StartY, width, b.Height, r.theme.laneFill(lane), r.theme.LaneBorder)
		if r.laneNames {
			fmt.Fprintf(buf, `  <text x="12" y="%.1f" font-family="%s" font-size="13" fill="%s" dominant-baseline="middle">%s</text>`+"\n",
				b.CenterY, r.theme.FontFamily, r.theme.LaneLabelColor, escape(string(lane)))
		}
	}
}

// renderEdges draws each prerequisite as a cubic curve from the source's
// right edge to the target's left edge. Edges go under nodes.
func renderEdges(buf *bytes.Buffer, r *svgRenderer, res layout.Result, c layout.Constants) {
	for _, e := range res.Edges {
		src, ok := res.Node(e.Source)
		if !ok {
			continue
		}
		dst, ok := res.Node(e.Target)
		if !ok {
			continue
		}

		x1 := src.Position.X + c.NodeWidth/2
		y1 := src.Position.Y
		x2 := dst.Position.X - c.NodeWidth/2
		y2 := dst.Position.Y
		mid := (x1 + x2) / 2

		fmt.Fprintf(buf, `  <path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			x1, y1, mid, y1, mid, y2, x2, y2, r.theme.EdgeStroke)
	}
}

func renderNodes(buf *bytes.Buffer, r *svgRenderer, res layout.Result, c layout.Constants) {
	nodes := make([]layout.Node, len(res.Nodes))
	copy(nodes, res.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		x := n.Position.X - c.NodeWidth/2
		y := n.Position.Y - c.NodeHeight/2

		border := r.theme.NodeBorder
		if r.recovered[n.ID] {
			border = r.theme.RecoveredBorder
		}

		fmt.Fprintf(buf, `  <rect id="node-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
			escape(n.ID), x, y, c.NodeWidth, c.NodeHeight, r.theme.NodeFill, border)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="12" fill="%s" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			n.Position.X, n.Position.Y, r.theme.FontFamily, r.theme.NodeText, escape(nodeLabel(n)))
	}
}

func nodeLabel(n layout.Node) string {
	if n.Item.Name != "" {
		return n.Item.Name
	}
	return n.ID
}

// escape makes a string safe for SVG text and attribute content.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
