package grid

import (
	"testing"

	"github.com/matzehuels/mapvis/pkg/ui"
)

func TestCompose(t *testing.T) {
	arr, _ := Plan(3)
	panel := Compose(arr)

	if panel.Layout != ui.Vertical {
		t.Errorf("outer layout = %s, want vertical", panel.Layout)
	}
	rows := panel.Widgets()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	first := rows[0].(*ui.Panel)
	if first.Layout != ui.Horizontal || first.Len() != 2 {
		t.Errorf("first row = %s with %d panels, want horizontal with 2", first.Layout, first.Len())
	}
	if rows[1].(*ui.Panel).Len() != 1 {
		t.Error("second row should hold one panel")
	}
	if panel.Style().Get(ui.KeyStretch) != "both" {
		t.Error("composed panel should stretch")
	}
}

func TestInstallReplacesRoot(t *testing.T) {
	root := ui.NewRoot()
	root.Add(ui.NewLabel("previous", nil))

	arr, _ := Plan(4)
	installed := Install(root, arr)

	widgets := root.Widgets()
	if len(widgets) != 1 || widgets[0] != installed {
		t.Fatalf("root widgets = %v, want only the installed panel", widgets)
	}
	if got := len(root.Maps()); got != 4 {
		t.Errorf("root maps = %d, want 4", got)
	}
}

func TestInstallEmpty(t *testing.T) {
	root := ui.NewRoot()
	arr, _ := Plan(0)
	panel := Install(root, arr)
	if panel.Len() != 0 {
		t.Errorf("empty arrangement installed %d groups", panel.Len())
	}
}
