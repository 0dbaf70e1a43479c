package combat

import (
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/world"
)

// Terrain answers tile questions from the cached snapshot.
type Terrain struct {
	cache *world.Cache
	size  int
}

func NewTerrain(cache *world.Cache) Terrain {
	return Terrain{cache: cache, size: cache.Config().Arena.Size}
}

func (t Terrain) IsValidPosition(p model.Position) bool {
	return p.X >= 0 && p.X < t.size && p.Y >= 0 && p.Y < t.size
}

func (t Terrain) IsWall(p model.Position) bool {
	return t.cache.TerrainAt(p) == model.Wall
}

func (t Terrain) IsSwamp(p model.Position) bool {
	return t.cache.TerrainAt(p) == model.Swamp
}

// IsSlowed reports whether a slowdown area effect covers p.
func (t Terrain) IsSlowed(p model.Position) bool {
	for _, e := range t.cache.AreaEffects() {
		if e.Pos == p && e.Effect == model.EffectSlowdown {
			return true
		}
	}
	return false
}

// blocked reports structures a creep cannot step onto: constructed walls and
// enemy ramparts.
func (t Terrain) blocked(p model.Position) bool {
	for _, s := range t.cache.StructuresAt(p) {
		if s.Kind == model.KindWall {
			return true
		}
		if s.Kind == model.KindRampart && !s.My {
			return true
		}
	}
	return false
}

// ValidAdjacentPositions returns the neighbours of c a retreating creep could
// step onto: in bounds, not wall terrain, not occupied, not a blocking
// structure.
func (t Terrain) ValidAdjacentPositions(c model.Creep) []model.Position {
	var out []model.Position
	for _, p := range c.Pos.Neighbors() {
		if !t.IsValidPosition(p) || t.IsWall(p) {
			continue
		}
		if _, taken := t.cache.OccupiedBy(p); taken {
			continue
		}
		if t.blocked(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
