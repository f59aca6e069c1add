// Package ui defines the widget model that mapvis builds and renderers draw.
//
// Widgets are plain values: a [Panel] holds child widgets and a [Flow]
// direction, a [Label] holds text, a [Thumbnail] holds a small raster, a
// [Chart] holds time series and click handlers, and a [Map] holds layers and
// overlaid widgets. Nothing in this package draws; see the render package and
// its svg and term subpackages for hosts that turn a widget tree into output.
//
// # Display Root
//
// A [Root] is the top-level container a host displays. It is the only shared
// mutable object in the model and is safe for concurrent use, so an HTTP
// preview can read it while a click handler swaps layers:
//
//	root := ui.NewRoot()
//	root.Clear()
//	root.Add(panel)
//
// # Linked Maps
//
// A [Linker] ties several maps to one viewport. Calling [Map.SetCenter] on any
// linked map moves all of them.
package ui
