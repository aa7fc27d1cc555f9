package dither

import (
	"math"
	"testing"
)

func TestAdjustIdentity(t *testing.T) {
	for v := -0.5; v <= 1.5; v += 0.01 {
		c := RGB{v, 1 - v, v / 2}

		if got, want := Adjust(c, 0, 0, false), c.Clamp(); got != want {
			t.Fatalf("Adjust(%v,0,0,false) = %v, want %v", c, got, want)
		}

		inverted := RGB{Clamp01(1 - c.R), Clamp01(1 - c.G), Clamp01(1 - c.B)}
		if got := Adjust(c, 0, 0, true); got != inverted {
			t.Fatalf("Adjust(%v,0,0,true) = %v, want %v", c, got, inverted)
		}
	}
}

func TestAdjustContrastBrightness(t *testing.T) {
	tests := []struct {
		name       string
		in         float64
		contrast   float64
		brightness float64
		invert     bool
		want       float64
	}{
		{"double contrast darkens below mid", 0.25, 1, 0, false, 0},
		{"double contrast brightens above mid", 0.75, 1, 0, false, 1},
		{"flat contrast collapses to mid", 0.9, -1, 0, false, 0.5},
		{"brightness shifts", 0.5, 0, 0.25, false, 0.75},
		{"brightness clamps", 0.9, 0, 0.5, false, 1},
		{"invert after clamp", 0.9, 0, 0.5, true, 0},
		{"negative brightness", 0.2, 0, -0.5, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Adjust(RGB{tt.in, tt.in, tt.in}, tt.contrast, tt.brightness, tt.invert)
			if math.Abs(got.R-tt.want) > 1e-12 || got.R != got.G || got.G != got.B {
				t.Errorf("Adjust = %v, want %v on every channel", got, tt.want)
			}
		})
	}
}
