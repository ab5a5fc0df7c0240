package swimlane

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/sproutworks/furrow/pkg/layout"
)

// DOTOptions configures node-link graph export.
type DOTOptions struct {
	// Detailed includes lane, tier, and cost in node labels. When false,
	// only the display name is shown.
	Detailed bool
	// Clustered groups nodes into one Graphviz cluster per lane.
	Clustered bool
}

// ToDOT converts a layout result to Graphviz DOT for a classic left-to-
// right node-link view of the progression graph. The string renders with
// [RenderDOT] or any dot(1) toolchain.
func ToDOT(res layout.Result, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph progression {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if opts.Clustered {
		writeClusters(&buf, res, opts)
	} else {
		for _, n := range sortedNodes(res) {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, dotLabel(n, opts.Detailed))
		}
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func sortedNodes(res layout.Result) []layout.Node {
	nodes := make([]layout.Node, len(res.Nodes))
	copy(nodes, res.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

func writeClusters(buf *bytes.Buffer, res layout.Result, opts DOTOptions) {
	byLane := make(map[layout.Lane][]layout.Node)
	for _, n := range res.Nodes {
		byLane[n.Lane] = append(byLane[n.Lane], n)
	}

	for i, lane := range layout.LaneOrder() {
		nodes := byLane[lane]
		if len(nodes) == 0 {
			continue
		}
		sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID < nodes[b].ID })

		fmt.Fprintf(buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(buf, "    label=%q;\n", string(lane))
		buf.WriteString("    style=\"rounded\";\n")
		buf.WriteString("    color=grey;\n")
		for _, n := range nodes {
			fmt.Fprintf(buf, "    %q [label=%q];\n", n.ID, dotLabel(n, opts.Detailed))
		}
		buf.WriteString("  }\n")
	}
}

func dotLabel(n layout.Node, detailed bool) string {
	label := nodeLabel(n)
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("lane: %s", n.Lane),
		fmt.Sprintf("tier: %d", n.Tier),
	}
	if n.Item.Cost > 0 {
		parts = append(parts, fmt.Sprintf("cost: %g", n.Item.Cost))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz <svg> tag so the viewBox starts
// at the origin and the element carries explicit pixel dimensions, which
// embedding contexts expect.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
