package stream

import (
	"math"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/bouncesim/internal/paint"
	"github.com/san-kum/bouncesim/internal/sim"
)

// WireFrame is the snapshot sent to stream clients. Coordinates are rounded
// to one decimal to keep frames small.
type WireFrame struct {
	Tick       uint64       `msgpack:"tick" json:"tick"`
	Time       float64      `msgpack:"t" json:"time"`
	State      string       `msgpack:"st" json:"state"`
	Width      float64      `msgpack:"w" json:"width"`
	Height     float64      `msgpack:"h" json:"height"`
	Population int          `msgpack:"n" json:"population"`
	Lost       int          `msgpack:"lost" json:"lost"`
	Circles    []WireCircle `msgpack:"c" json:"circles"`
	Lines      []WireLine   `msgpack:"l" json:"lines"`
	Texts      []WireText   `msgpack:"x" json:"texts"`
}

type WireCircle struct {
	X     float64 `msgpack:"x" json:"x"`
	Y     float64 `msgpack:"y" json:"y"`
	R     float64 `msgpack:"r" json:"r"`
	Color int     `msgpack:"c" json:"color"`
}

type WireLine struct {
	X1    float64 `msgpack:"x1" json:"x1"`
	Y1    float64 `msgpack:"y1" json:"y1"`
	X2    float64 `msgpack:"x2" json:"x2"`
	Y2    float64 `msgpack:"y2" json:"y2"`
	Width float64 `msgpack:"w" json:"width"`
}

type WireText struct {
	Text string  `msgpack:"s" json:"text"`
	X    float64 `msgpack:"x" json:"x"`
	Y    float64 `msgpack:"y" json:"y"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// NewWireFrame captures s with coordinates relative to the arena's upper left.
// It must run on the goroutine that owns s.
func NewWireFrame(tick uint64, s *sim.Simulator) WireFrame {
	list := s.Snapshot()
	f := WireFrame{
		Tick:       tick,
		Time:       round1(s.SimulationTime()),
		State:      s.State().String(),
		Population: s.Population(),
		Lost:       s.LostBalls(),
	}
	f.addShapes(list)
	return f
}

func (f *WireFrame) addShapes(list paint.ShapeList) {
	if list.Empty() {
		return
	}
	f.Width, f.Height = round1(list.Width()), round1(list.Height())
	ox, oy := list.UpperLeft.X, list.UpperLeft.Y
	f.Circles = make([]WireCircle, 0, list.Count(paint.KindCircle))
	f.Lines = make([]WireLine, 0, list.Count(paint.KindLine))

	for _, item := range list.Items {
		switch s := item.(type) {
		case paint.Circle:
			f.Circles = append(f.Circles, WireCircle{
				X: round1(s.Center.X - ox), Y: round1(s.Center.Y - oy),
				R: round1(s.Radius), Color: s.ColorIndex,
			})
		case paint.Line:
			f.Lines = append(f.Lines, WireLine{
				X1: round1(s.Start.X - ox), Y1: round1(s.Start.Y - oy),
				X2: round1(s.End.X - ox), Y2: round1(s.End.Y - oy),
				Width: s.Width,
			})
		case paint.Text:
			f.Texts = append(f.Texts, WireText{
				Text: s.Text, X: round1(s.Position.X - ox), Y: round1(s.Position.Y - oy),
			})
		}
	}
}

func EncodeFrame(f WireFrame) ([]byte, error) {
	return msgpack.Marshal(&f)
}

func DecodeFrame(data []byte) (WireFrame, error) {
	var f WireFrame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}
