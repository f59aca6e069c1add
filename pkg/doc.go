// Package pkg provides the libraries behind mapvis map displays.
//
// # Overview
//
// mapvis composes displays out of plain widget data and hands them to a
// renderer. The pkg directory is organized into four areas:
//
//  1. Widgets: [ui] (maps, panels, labels, charts), [grid] (panel
//     arrangement), [legend] and [series] (click-to-inspect charts)
//  2. Data: [imagery] (image collections, reducers, regions), [palette]
//     (colour parsing and ramps), [scene] (YAML display descriptions)
//  3. Output: [render] with its [render/svg] and [render/term] hosts
//  4. Orchestration: [pipeline] (build and render with [cache]), [server]
//     (browser preview), [observability] hooks
//
// # Architecture
//
// The typical data flow:
//
//	scene.yaml + collections + regions
//	         ↓
//	    [scene] package (parse and validate)
//	         ↓
//	    [pipeline] Build: [grid] plan → install → layers, [series], [legend]
//	         ↓
//	    ui.Root (clicks mutate it in place)
//	         ↓
//	    [pipeline] Render: [render/svg] or [render/term], rsvg-convert
//	         ↓
//	    SVG/PNG/PDF/text output
//
// # Quick Start
//
// Lay out two linked panels and put a legend on the first:
//
//	arr, err := grid.Plan(2)
//	if err != nil {
//	    return err
//	}
//	root := ui.NewRoot()
//	grid.Install(root, arr)
//
//	vis := ui.VisParams{Min: ui.Float(0), Max: ui.Float(1), Palette: []string{"white", "green"}}
//	if _, err := legend.Gradient(vis, legend.Title("NDVI"), legend.Plot(arr.Panels[0])); err != nil {
//	    return err
//	}
//	svgData, err := svg.RenderRoot(root, svg.WithSize(1200, 800))
package pkg
