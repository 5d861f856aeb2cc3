package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/bouncesim/internal/paint"
)

func testList() paint.ShapeList {
	return paint.ShapeList{
		UpperLeft:  paint.Point{X: 0, Y: 0},
		LowerRight: paint.Point{X: 800, Y: 600},
		Items: []paint.Shape{
			paint.Line{Start: paint.Point{X: 0, Y: 0}, End: paint.Point{X: 800, Y: 0}, Width: 1},
			paint.Circle{Center: paint.Point{X: 100, Y: 200}, Radius: 30, ColorIndex: 1},
			paint.Circle{Center: paint.Point{X: 300, Y: 200}, Radius: 30, ColorIndex: 5},
			paint.Text{Text: "Lost: <2>", Position: paint.Point{X: 40, Y: 60}},
		},
	}
}

func TestShapesToSVG(t *testing.T) {
	svg := ShapesToSVG(testList())

	checks := []struct {
		name string
		want string
		n    int
	}{
		{"header", `viewBox="0 0 800 600"`, 1},
		{"circles", "<circle ", 2},
		{"line", `<line x1="0.0" y1="0.0" x2="800.0" y2="0.0"`, 1},
		{"palette wraps", `fill="` + Palette[1] + `"`, 2},
		{"escaped text", "Lost: &lt;2&gt;", 1},
		{"closed", "</svg>", 1},
	}
	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			if got := strings.Count(svg, tc.want); got != tc.n {
				t.Errorf("count(%q) = %d, want %d", tc.want, got, tc.n)
			}
		})
	}
}

func TestShapesToSVG_Offset(t *testing.T) {
	list := paint.ShapeList{
		UpperLeft:  paint.Point{X: 10, Y: 20},
		LowerRight: paint.Point{X: 110, Y: 120},
		Items:      []paint.Shape{paint.Circle{Center: paint.Point{X: 60, Y: 70}, Radius: 5}},
	}
	svg := ShapesToSVG(list)
	if !strings.Contains(svg, `cx="50.0" cy="50.0"`) {
		t.Errorf("circle not shifted to origin:\n%s", svg)
	}
}

func TestShapesToSVG_Empty(t *testing.T) {
	if svg := ShapesToSVG(paint.ShapeList{}); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testList()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Error("missing xml prolog")
	}
}

func TestColorFor(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, Palette[0]},
		{3, Palette[3]},
		{4, Palette[0]},
		{-1, Palette[1]},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.index); got != tt.want {
			t.Errorf("ColorFor(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 100, 50, "#fff") != "" {
		t.Error("single point should not render")
	}
	svg := SeriesToSVG([]float64{1, 2, 3}, 100, 50, "#00ff00")
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("stroke color missing")
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments:\n%s", svg)
	}
	flat := SeriesToSVG([]float64{5, 5, 5}, 100, 50, "#fff")
	if flat == "" || strings.Contains(flat, "NaN") {
		t.Errorf("flat series rendered badly:\n%s", flat)
	}
}
