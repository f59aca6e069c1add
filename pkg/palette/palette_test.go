package palette

import (
	"math"
	"testing"

	"github.com/matzehuels/mapvis/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"hex with hash", "#ff0000", "#ff0000", false},
		{"hex without hash", "00FF00", "#00ff00", false},
		{"short hex", "#fff", "#ffffff", false},
		{"named", "Blue", "#0000ff", false},
		{"padded", "  red ", "#ff0000", false},
		{"garbage", "notacolor", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hex(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Hex(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidColor) {
					t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidColor)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Hex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRampAt(t *testing.T) {
	r, err := NewRamp([]string{"000000", "ffffff"})
	if err != nil {
		t.Fatal(err)
	}

	if got := r.At(0).Hex(); got != "#000000" {
		t.Errorf("At(0) = %s, want #000000", got)
	}
	if got := r.At(1).Hex(); got != "#ffffff" {
		t.Errorf("At(1) = %s, want #ffffff", got)
	}
	if got := r.At(-5).Hex(); got != "#000000" {
		t.Errorf("At(-5) = %s, want clamped #000000", got)
	}
	mid := r.At(0.5)
	if math.Abs(mid.R-0.5) > 1e-9 || math.Abs(mid.G-0.5) > 1e-9 {
		t.Errorf("At(0.5) = %v, want mid grey", mid)
	}
}

func TestRampThreeStops(t *testing.T) {
	r, _ := NewRamp([]string{"red", "lime", "blue"})
	if got := r.At(0.5).Hex(); got != "#00ff00" {
		t.Errorf("At(0.5) = %s, want #00ff00", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestRampInvalid(t *testing.T) {
	if _, err := NewRamp([]string{"ff0000", "bogus"}); err == nil {
		t.Error("NewRamp should reject invalid colours")
	}
}

func TestSteps(t *testing.T) {
	r, _ := NewRamp(nil)
	steps := r.Steps(100)
	if len(steps) != 100 {
		t.Fatalf("len(Steps(100)) = %d", len(steps))
	}
	if steps[0].Hex() != "#000000" || steps[99].Hex() != "#ffffff" {
		t.Errorf("Steps endpoints = %s..%s, want #000000..#ffffff", steps[0].Hex(), steps[99].Hex())
	}
	if r.Steps(0) != nil {
		t.Error("Steps(0) should be nil")
	}
}

func TestStretch(t *testing.T) {
	tests := []struct {
		v, min, max, gamma, want float64
	}{
		{5, 0, 10, 1, 0.5},
		{-1, 0, 10, 1, 0},
		{20, 0, 10, 1, 1},
		{0.25, 0, 1, 2, 0.5},
		{3, 3, 3, 1, 0},
	}
	for _, tt := range tests {
		if got := Stretch(tt.v, tt.min, tt.max, tt.gamma); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Stretch(%g, %g, %g, %g) = %g, want %g", tt.v, tt.min, tt.max, tt.gamma, got, tt.want)
		}
	}
}

func TestGradient(t *testing.T) {
	r, _ := NewRamp([]string{"000000", "ffffff"})
	img := Gradient(r, 20, 200, 100)

	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 200 {
		t.Fatalf("bounds = %v, want 20x200", b)
	}
	top := img.RGBAAt(0, 0)
	bottom := img.RGBAAt(0, 199)
	if top.R != 255 || bottom.R != 0 {
		t.Errorf("top/bottom red = %d/%d, want 255/0", top.R, bottom.R)
	}
}
