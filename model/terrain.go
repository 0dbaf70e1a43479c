package model

// TerrainType classifies a single arena tile.
type TerrainType byte

const (
	Plain TerrainType = 0
	Wall  TerrainType = 1
	Swamp TerrainType = 2
)

func (t TerrainType) String() string {
	switch t {
	case Wall:
		return "wall"
	case Swamp:
		return "swamp"
	default:
		return "plain"
	}
}

// TerrainGrid stores one TerrainType per tile, row-major.
type TerrainGrid struct {
	Width  int
	Height int
	Tiles  []TerrainType
}

func NewTerrainGrid(width, height int) *TerrainGrid {
	return &TerrainGrid{Width: width, Height: height, Tiles: make([]TerrainType, width*height)}
}

// InBounds reports whether p lies on the grid.
func (g *TerrainGrid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the terrain at p. Out-of-bounds tiles read as Wall so callers
// never path off the map.
func (g *TerrainGrid) At(p Position) TerrainType {
	if !g.InBounds(p) {
		return Wall
	}
	return g.Tiles[p.Y*g.Width+p.X]
}

// Set writes the terrain at p; out-of-bounds writes are ignored.
func (g *TerrainGrid) Set(p Position, t TerrainType) {
	if !g.InBounds(p) {
		return
	}
	g.Tiles[p.Y*g.Width+p.X] = t
}

// Fill sets every tile in the inclusive rectangle [from, to] to t.
func (g *TerrainGrid) Fill(from, to Position, t TerrainType) {
	for y := from.Y; y <= to.Y; y++ {
		for x := from.X; x <= to.X; x++ {
			g.Set(Position{X: x, Y: y}, t)
		}
	}
}
