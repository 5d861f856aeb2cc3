package viz

import "github.com/guptarohit/asciigraph"

// PlotSeries draws values as an ascii line chart. Fewer than two values
// produce an empty string.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) < 2 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, opts...)
}
