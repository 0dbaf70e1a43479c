package model

import "testing"

func TestTerrainGridAt(t *testing.T) {
	grid := &TerrainGrid{
		Width:  4,
		Height: 3,
		Tiles: []TerrainType{
			Plain, Plain, Swamp, Swamp,
			Plain, Wall, Swamp, Plain,
			Wall, Plain, Plain, Plain,
		},
	}

	tests := []struct {
		x, y int
		want TerrainType
	}{
		{0, 0, Plain},
		{2, 0, Swamp},
		{1, 1, Wall},
		{3, 1, Plain},
		{0, 2, Wall},
	}
	for _, tc := range tests {
		got := grid.At(Position{X: tc.x, Y: tc.y})
		if got != tc.want {
			t.Errorf("At(%d, %d) = %s, want %s", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestTerrainGridAtOutOfBounds(t *testing.T) {
	grid := NewTerrainGrid(2, 2)

	// Off-map tiles must never look walkable.
	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := grid.At(p); got != Wall {
			t.Errorf("At(%v) = %s, want wall", p, got)
		}
	}
}

func TestTerrainGridFill(t *testing.T) {
	grid := NewTerrainGrid(5, 5)
	grid.Fill(Position{X: 1, Y: 1}, Position{X: 2, Y: 3}, Swamp)

	count := 0
	for _, tile := range grid.Tiles {
		if tile == Swamp {
			count++
		}
	}
	if count != 6 {
		t.Errorf("Fill produced %d swamp tiles, want 6", count)
	}
	if grid.At(Position{X: 3, Y: 3}) != Plain {
		t.Error("tile outside the rectangle should stay plain")
	}

	// Writes past the edge are dropped rather than wrapping.
	grid.Fill(Position{X: 4, Y: 4}, Position{X: 6, Y: 6}, Wall)
	if grid.At(Position{X: 4, Y: 4}) != Wall {
		t.Error("in-bounds corner should be wall")
	}
	if grid.At(Position{X: 0, Y: 0}) != Plain {
		t.Error("out-of-bounds fill leaked into the grid")
	}
}
