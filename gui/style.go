package gui

import (
	"github.com/hubastard/canopy/gmath"
	"github.com/hubastard/canopy/paint"
)

// Style is the visual data widgets thread through: colors, spacing,
// rounding. Pure data; the core attaches no behavior to it.
type Style struct {
	ItemSpacing  gmath.Vec2
	Padding      gmath.Vec2
	CornerRadius float32

	TextColor     paint.Color
	WeakTextColor paint.Color

	WindowFill  paint.Color
	WidgetFill  paint.Color
	HoveredFill paint.Color
	ActiveFill  paint.Color

	Stroke        paint.Stroke
	FocusedStroke paint.Stroke

	// ScrollbarWidth is the gutter width of scroll areas, in points.
	ScrollbarWidth float32
}

// DefaultStyle is a plain dark theme.
func DefaultStyle() Style {
	return Style{
		ItemSpacing:  gmath.V2(8, 6),
		Padding:      gmath.V2(6, 4),
		CornerRadius: 3,

		TextColor:     paint.Gray(220),
		WeakTextColor: paint.Gray(140),

		WindowFill:  paint.RGB(24, 24, 27),
		WidgetFill:  paint.RGB(60, 60, 66),
		HoveredFill: paint.RGB(80, 80, 90),
		ActiveFill:  paint.RGB(100, 100, 115),

		Stroke:        paint.Stroke{Width: 1, Color: paint.Gray(110)},
		FocusedStroke: paint.Stroke{Width: 1.5, Color: paint.RGB(110, 160, 255)},

		ScrollbarWidth: 8,
	}
}
