package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks are block characters for 8-level vertical resolution,
// lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders a single-row sparkline of the data, scaled to
// the series' own maximum. Rates have no natural upper bound, so each
// graph is normalized independently; an all-zero series renders flat.
func RenderSparkline(data []float64, width int, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	resampled := resample(data, width)

	maxVal := 0.0
	for _, v := range resampled {
		if v > maxVal {
			maxVal = v
		}
	}

	var b strings.Builder
	for _, v := range resampled {
		idx := 0
		if maxVal > 0 {
			idx = int(v / maxVal * float64(len(sparkBlocks)-1))
			if idx < 0 {
				idx = 0
			}
			if idx > len(sparkBlocks)-1 {
				idx = len(sparkBlocks) - 1
			}
		}
		b.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// resample fits data into width points. Shorter series pass through
// unchanged (the graph fills from the left); longer series are
// downsampled with per-bucket maximums so short spikes stay visible.
func resample(data []float64, width int) []float64 {
	if len(data) <= width {
		return data
	}

	out := make([]float64, width)
	bucket := float64(len(data)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}
		maxVal := data[start]
		for j := start + 1; j < end; j++ {
			if data[j] > maxVal {
				maxVal = data[j]
			}
		}
		out[i] = maxVal
	}
	return out
}
