package model

import "fmt"

type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

func (p Position) Add(dx, dy int) Position { return Position{X: p.X + dx, Y: p.Y + dy} }

// Direction is one of the eight compass steps, numbered clockwise from top
// the way the substrate numbers spawn directions.
type Direction int

const (
	Top Direction = iota + 1
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
	Left
	TopLeft
)

var directionOffsets = map[Direction][2]int{
	Top:         {0, -1},
	TopRight:    {1, -1},
	Right:       {1, 0},
	BottomRight: {1, 1},
	Bottom:      {0, 1},
	BottomLeft:  {-1, 1},
	Left:        {-1, 0},
	TopLeft:     {-1, -1},
}

// Step returns the neighbouring tile in direction d.
func (p Position) Step(d Direction) Position {
	off := directionOffsets[d]
	return p.Add(off[0], off[1])
}

// DirectionTo returns the direction of an adjacent tile, or 0 if q is not a
// neighbour of p.
func (p Position) DirectionTo(q Position) Direction {
	for d := Top; d <= TopLeft; d++ {
		if p.Step(d) == q {
			return d
		}
	}
	return 0
}

// Neighbors returns the eight surrounding tiles, clockwise from top. Bounds
// are not checked.
func (p Position) Neighbors() []Position {
	out := make([]Position, 0, 8)
	for d := Top; d <= TopLeft; d++ {
		out = append(out, p.Step(d))
	}
	return out
}

// Range is the Chebyshev distance, the metric the substrate uses for every
// action range.
func Range(a, b Position) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// DistanceSq is the squared Euclidean distance.
func DistanceSq(a, b Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func Adjacent(a, b Position) bool { return Range(a, b) <= 1 }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
