package grid

import "github.com/matzehuels/mapvis/pkg/ui"

// Compose builds the panel tree for an arrangement: one panel per group
// flowing along the inner axis, stacked in a panel flowing along the outer
// axis. Both stretch to fill the display.
func Compose(arr Arrangement) *ui.Panel {
	stretch := ui.Style{ui.KeyStretch: "both"}
	outer := ui.NewPanel(arr.Outer, stretch)
	for _, group := range arr.Groups {
		row := ui.NewPanel(arr.Inner, stretch)
		for _, m := range group {
			row.Add(m)
		}
		outer.Add(row)
	}
	return outer
}

// Install replaces everything root displays with the composed arrangement and
// returns the installed panel. It is the only function in this package that
// mutates shared state; call it once per arrangement.
func Install(root *ui.Root, arr Arrangement) *ui.Panel {
	panel := Compose(arr)
	root.Clear()
	root.Add(panel)
	return panel
}
