// Package render turns a [ui.Root] widget tree into output through a
// pluggable [Host].
//
// # Overview
//
// Widgets in [ui] are plain data. A host decides what they look like. This
// package provides:
//
//   - The [Host] interface that concrete renderers implement
//   - A compositor ([Compose]) that lays out the root panel tree, splits
//     stretched maps along panel flows and anchors overlays inside maps
//   - Widget measurement ([Measure]) shared by every host
//   - Generic format conversion (SVG to PNG/PDF)
//
// # Hosts
//
// The [svg] subpackage renders a root to a standalone SVG document, with
// charts drawn by go-chart and rasters embedded as PNG data URIs. The [term]
// subpackage renders the same tree to coloured terminal cells.
//
//	svg, err := svg.RenderRoot(root, svg.WithSize(1200, 800))
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// # Coordinates
//
// All rectangles are in display pixels with the origin at the top left.
// Hosts that draw on a coarser grid (the terminal host) convert rectangles
// themselves.
//
// [svg]: github.com/matzehuels/mapvis/pkg/render/svg
// [term]: github.com/matzehuels/mapvis/pkg/render/term
// [ui]: github.com/matzehuels/mapvis/pkg/ui
// [ui.Root]: github.com/matzehuels/mapvis/pkg/ui#Root
package render
