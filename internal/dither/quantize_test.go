package dither

import (
	"errors"
	"math"
	"testing"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		v      float64
		levels int
		want   float64
	}{
		{0, 2, 0},
		{0.49, 2, 0},
		{0.5, 2, 1},
		{1, 2, 1},
		{0.3, 3, 0.5},
		{0.2, 3, 0},
		{0.9, 5, 1},
		{-3, 4, 0},
		{7, 4, 1},
	}

	for _, tt := range tests {
		if got := Quantize(tt.v, tt.levels); got != tt.want {
			t.Errorf("Quantize(%v, %d) = %v, want %v", tt.v, tt.levels, got, tt.want)
		}
	}
}

func TestQuantizeIsIdempotent(t *testing.T) {
	mx, _ := GenerateMatrix(2, 2)

	for levels := 2; levels <= 16; levels++ {
		for i := 0; i <= 1000; i++ {
			q := Quantize(float64(i)/1000, levels)
			if again := Quantize(q, levels); again != q {
				t.Fatalf("Quantize(Quantize(%v)) at %d levels = %v, want %v", q, levels, again, q)
			}
			stored := float64(float32(q))
			if again := Quantize(stored, levels); again != q {
				t.Fatalf("Quantize(float32 %v) at %d levels = %v, want %v", stored, levels, again, q)
			}
			for _, th := range mx.Normalized() {
				if got := DitherChannel(stored, float64(th), levels); got != q {
					t.Fatalf("DitherChannel(%v, %v, %d) = %v, want unchanged", stored, th, levels, got)
				}
			}
		}
	}
}

func TestDitherLevelIsMonotonic(t *testing.T) {
	mx, _ := GenerateMatrix(3, 3)

	for levels := 2; levels <= 8; levels++ {
		for _, th := range mx.Normalized() {
			prev := -1
			for i := 0; i <= 2000; i++ {
				level := DitherLevel(float64(i)/2000, float64(th), levels)
				if level < prev {
					t.Fatalf("level dropped from %d to %d at v=%v threshold=%v levels=%d",
						prev, level, float64(i)/2000, th, levels)
				}
				if level < 0 || level > levels-1 {
					t.Fatalf("level %d outside [0,%d]", level, levels-1)
				}
				prev = level
			}
		}
	}
}

func TestDitherLevelRoundsAgainstThreshold(t *testing.T) {
	tests := []struct {
		v         float64
		threshold float64
		levels    int
		want      int
	}{
		{0.5, 0, 2, 1},
		{0.5, 0.25, 2, 1},
		{0.5, 0.5, 2, 0},
		{0.5, 0.75, 2, 0},
		{1, 0, 2, 1},
		{0.4, 0.1, 4, 2},
		{0.4, 0.3, 4, 1},
		{0.45, 0.3, 4, 2},
	}

	for _, tt := range tests {
		if got := DitherLevel(tt.v, tt.threshold, tt.levels); got != tt.want {
			t.Errorf("DitherLevel(%v, %v, %d) = %d, want %d", tt.v, tt.threshold, tt.levels, got, tt.want)
		}
	}
}

func TestDitherPixelColorModeDecidesPerChannel(t *testing.T) {
	c := RGB{0.2, 0.5, 0.8}

	got := DitherPixel(c, 0.4, 2, true, true)
	if want := (RGB{0, 1, 1}); got != want {
		t.Errorf("DitherPixel = %v, want %v", got, want)
	}

	got = DitherPixel(c, 0.4, 2, true, false)
	if want := (RGB{0, 1, 1}); got != want {
		t.Errorf("DitherPixel without dither = %v, want %v", got, want)
	}
}

func TestDitherPixelLuminanceModeKeepsHue(t *testing.T) {
	c := RGB{0.6, 0.3, 0.15}

	got := DitherPixel(c, 0, 4, false, false)
	if math.Abs(got.R/got.G-2) > 1e-9 || math.Abs(got.G/got.B-2) > 1e-9 {
		t.Errorf("channel ratios changed: %v", got)
	}
	if y := Luminance(got); math.Abs(y-1.0/3) > 1e-9 {
		t.Errorf("luminance = %v, want 1/3", y)
	}

	if got := DitherPixel(RGB{}, 0, 4, false, true); got != (RGB{}) {
		t.Errorf("black = %v, want black", got)
	}
}

func TestValidateLevels(t *testing.T) {
	for _, levels := range []int{-1, 0, 1} {
		if err := ValidateLevels(levels); !errors.Is(err, ErrInvalidQuantizeLevels) {
			t.Errorf("ValidateLevels(%d) = %v", levels, err)
		}
	}
	if err := ValidateLevels(2); err != nil {
		t.Errorf("ValidateLevels(2) = %v", err)
	}
}
