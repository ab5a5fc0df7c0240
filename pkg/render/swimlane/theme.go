package swimlane

import "github.com/sproutworks/furrow/pkg/layout"

// Theme holds the colors and type settings for one diagram rendition.
// Geometry is untouched by theming; only paint changes.
type Theme struct {
	Name string

	Background string
	LaneFills  map[layout.Lane]string
	// LaneFillFallback paints lanes missing from LaneFills.
	LaneFillFallback string
	LaneLabelColor   string
	LaneBorder       string

	NodeFill   string
	NodeBorder string
	NodeText   string
	// RecoveredBorder outlines nodes whose position was adjusted away
	// from ideal spacing, so crowded regions read at a glance.
	RecoveredBorder string

	EdgeStroke string
	FontFamily string
}

// laneFill resolves the band color for a lane.
func (t Theme) laneFill(lane layout.Lane) string {
	if c, ok := t.LaneFills[lane]; ok {
		return c
	}
	return t.LaneFillFallback
}

// Light is the default theme: soft pastel bands on white.
func Light() Theme {
	return Theme{
		Name:       "light",
		Background: "#ffffff",
		LaneFills: map[layout.Lane]string{
			layout.LaneFarm:      "#eef7e8",
			layout.LaneMining:    "#f0ebe3",
			layout.LaneCombat:    "#faeaea",
			layout.LaneTools:     "#e9f0f7",
			layout.LaneAdventure: "#f3ecf8",
			layout.LaneTower:     "#fdf3e3",
			layout.LaneVendors:   "#e8f5f4",
			layout.LaneGeneral:   "#f2f2f2",
		},
		LaneFillFallback: "#f2f2f2",
		LaneLabelColor:   "#555555",
		LaneBorder:       "#dddddd",
		NodeFill:         "#ffffff",
		NodeBorder:       "#888888",
		NodeText:         "#222222",
		RecoveredBorder:  "#d97706",
		EdgeStroke:       "#aaaaaa",
		FontFamily:       "Helvetica, Arial, sans-serif",
	}
}

// Dark is the inverse palette for dark backgrounds.
func Dark() Theme {
	return Theme{
		Name:       "dark",
		Background: "#1e1e22",
		LaneFills: map[layout.Lane]string{
			layout.LaneFarm:      "#24301f",
			layout.LaneMining:    "#2e2a24",
			layout.LaneCombat:    "#332424",
			layout.LaneTools:     "#222a33",
			layout.LaneAdventure: "#2b2433",
			layout.LaneTower:     "#332d20",
			layout.LaneVendors:   "#203030",
			layout.LaneGeneral:   "#2a2a2a",
		},
		LaneFillFallback: "#2a2a2a",
		LaneLabelColor:   "#aaaaaa",
		LaneBorder:       "#3a3a3a",
		NodeFill:         "#2d2d33",
		NodeBorder:       "#777777",
		NodeText:         "#e8e8e8",
		RecoveredBorder:  "#f59e0b",
		EdgeStroke:       "#555555",
		FontFamily:       "Helvetica, Arial, sans-serif",
	}
}

// ThemeByName resolves a theme from its name, defaulting to Light for
// anything unknown.
func ThemeByName(name string) Theme {
	if name == "dark" {
		return Dark()
	}
	return Light()
}
