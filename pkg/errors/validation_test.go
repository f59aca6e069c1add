package errors

import (
	"math"
	"testing"
)

func TestValidateSameLength(t *testing.T) {
	if err := ValidateSameLength("names", 3, "palette", 3); err != nil {
		t.Errorf("equal lengths: unexpected error %v", err)
	}
	err := ValidateSameLength("names", 3, "palette", 2)
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("unequal lengths: error = %v, want %s", err, ErrCodeInvalidInput)
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{"ordinary", 0, 1, false},
		{"negative", -10, -5, false},
		{"equal", 3, 3, false},
		{"inverted", 5, 1, false},
		{"nan", math.NaN(), 1, true},
		{"inf", 0, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%g, %g) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{2000, false},
		{0.5, false},
		{0, true},
		{-1, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		if err := ValidatePositive("scale", tt.v); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositive(%g) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "ndvi", false},
		{"valid with space", "Land cover", false},
		{"valid with colon", "system:index", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"markup", "<script>", true},
		{"quote", `a"b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
