package ui

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
	}{
		{"rising", []float64{0, 1, 2, 3, 4, 5, 6, 7}, 8},
		{"flat", []float64{5, 5, 5, 5}, 4},
		{"compressed", []float64{0, 10, 0, 10, 0, 10, 0, 10, 0, 10}, 5},
		{"stretched", []float64{0, 10}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sparkline(tt.values, tt.width)
			if n := utf8.RuneCountInString(got); n != tt.width {
				t.Errorf("width = %d, want %d", n, tt.width)
			}
		})
	}
}

func TestSparkline_Extremes(t *testing.T) {
	got := Sparkline([]float64{0, 100}, 2)
	if !strings.HasPrefix(got, "▁") {
		t.Errorf("minimum should render lowest block, got %q", got)
	}
	if !strings.HasSuffix(got, "█") {
		t.Errorf("maximum should render highest block, got %q", got)
	}
}

func TestSparkline_Empty(t *testing.T) {
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("nil values should render empty, got %q", got)
	}
	if got := Sparkline([]float64{1, 2}, 0); got != "" {
		t.Errorf("zero width should render empty, got %q", got)
	}
}
