package ui

import (
	"maps"
	"slices"
)

// Position is where an overlay widget is anchored inside its map.
type Position string

// Overlay positions.
const (
	TopLeft      Position = "top-left"
	TopCenter    Position = "top-center"
	TopRight     Position = "top-right"
	MiddleLeft   Position = "middle-left"
	MiddleRight  Position = "middle-right"
	BottomLeft   Position = "bottom-left"
	BottomCenter Position = "bottom-center"
	BottomRight  Position = "bottom-right"
)

var positions = []Position{TopLeft, TopCenter, TopRight, MiddleLeft, MiddleRight, BottomLeft, BottomCenter, BottomRight}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	return slices.Contains(positions, p)
}

// Flow is the direction a panel lays out its children.
type Flow string

// Panel flows.
const (
	Horizontal Flow = "horizontal"
	Vertical   Flow = "vertical"
)

// Other returns the perpendicular flow.
func (f Flow) Other() Flow {
	if f == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Style keys understood by the renderers.
const (
	KeyPosition        = "position"
	KeyPadding         = "padding"
	KeyMargin          = "margin"
	KeyFontSize        = "fontSize"
	KeyFontWeight      = "fontWeight"
	KeyWidth           = "width"
	KeyHeight          = "height"
	KeyStretch         = "stretch"
	KeyBackgroundColor = "backgroundColor"
	KeyShown           = "shown"
)

// Style is a set of CSS-like properties attached to a widget.
type Style map[string]string

// Set stores a property and returns the style for chaining.
func (s Style) Set(key, value string) Style {
	s[key] = value
	return s
}

// Get returns a property, or "" when unset.
func (s Style) Get(key string) string {
	return s[key]
}

// Position returns the overlay position, or "" when unset.
func (s Style) Position() Position {
	return Position(s[KeyPosition])
}

// Shown reports whether the widget is visible. Widgets are visible unless
// "shown" is explicitly "false".
func (s Style) Shown() bool {
	return s[KeyShown] != "false"
}

// Clone returns an independent copy of the style.
func (s Style) Clone() Style {
	if s == nil {
		return Style{}
	}
	return maps.Clone(s)
}
