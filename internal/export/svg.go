package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/san-kum/bouncesim/internal/paint"
)

// Palette colors circles by ColorIndex, wrapping around.
var Palette = []string{"#ff5f5f", "#5fafff", "#5fff87", "#ffd75f"}

const (
	background  = "#0a0a0a"
	lineColor   = "#cccccc"
	textColor   = "#ffffff"
	fontSize    = 24
	minStrokePx = 1.0
)

// ShapesToSVG renders a snapshot at its own coordinates. An empty list
// renders as an empty string.
func ShapesToSVG(list paint.ShapeList) string {
	if list.Empty() {
		return ""
	}

	ox, oy := list.UpperLeft.X, list.UpperLeft.Y
	w, h := list.Width(), list.Height()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background))

	for _, item := range list.Items {
		switch s := item.(type) {
		case paint.Circle:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, s.Center.X-ox, s.Center.Y-oy, s.Radius, ColorFor(s.ColorIndex)))
		case paint.Line:
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, s.Start.X-ox, s.Start.Y-oy, s.End.X-ox, s.End.Y-oy, lineColor, max(s.Width, minStrokePx)))
		case paint.Text:
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="%d">%s</text>
`, s.Position.X-ox, s.Position.Y-oy, textColor, fontSize, html.EscapeString(s.Text)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSVG writes ShapesToSVG(list) to w.
func WriteSVG(w io.Writer, list paint.ShapeList) error {
	_, err := io.WriteString(w, ShapesToSVG(list))
	return err
}

func ColorFor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}

// SeriesToSVG plots a time series as a polyline over a padded range.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	last := float64(len(values) - 1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
