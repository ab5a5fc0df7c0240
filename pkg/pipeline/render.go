package pipeline

import (
	"bytes"
	"fmt"

	"github.com/sproutworks/furrow/pkg/graphio"
	"github.com/sproutworks/furrow/pkg/layout"
	"github.com/sproutworks/furrow/pkg/render/swimlane"
)

// renderFormats produces every requested format from the solved layout.
func renderFormats(res layout.Result, consts layout.Constants, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(res, consts, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(res layout.Result, consts layout.Constants, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return swimlane.RenderSVG(res, consts, svgOptions(opts)...), nil

	case FormatDOT:
		dot := swimlane.ToDOT(res, swimlane.DOTOptions{
			Detailed:  opts.Detailed,
			Clustered: true,
		})
		return []byte(dot), nil

	case FormatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(graphio.NewDocument(res, consts), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, ValidateFormat(format)
	}
}

func svgOptions(opts Options) []swimlane.SVGOption {
	svgOpts := []swimlane.SVGOption{
		swimlane.WithTheme(swimlane.ThemeByName(opts.Theme)),
	}
	if opts.ShowEdges {
		svgOpts = append(svgOpts, swimlane.WithEdges())
	}
	if opts.LaneNames {
		svgOpts = append(svgOpts, swimlane.WithLaneNames())
	}
	return svgOpts
}
