package ui

// sparkBlocks are the Unicode block characters for sparklines (0 = lowest, 7 = highest).
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a series as a fixed-width row of block characters,
// resampled to width and normalized to the observed min/max.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	samples := resample(values, width)

	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	out := make([]rune, len(samples))
	for i, v := range samples {
		idx := int((v - lo) / span * 7.0)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		out[i] = sparkBlocks[idx]
	}
	return string(out)
}

// resample stretches or compresses values to exactly width points using
// nearest-neighbor sampling.
func resample(values []float64, width int) []float64 {
	if len(values) == width {
		out := make([]float64, width)
		copy(out, values)
		return out
	}

	out := make([]float64, width)
	for i := 0; i < width; i++ {
		src := i * (len(values) - 1)
		if width > 1 {
			src /= width - 1
		} else {
			src = 0
		}
		out[i] = values[src]
	}
	return out
}
