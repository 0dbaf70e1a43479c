package combat

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/nstehr/vimy/arena-core/model"
)

// Kiter picks retreat tiles for ranged units.
type Kiter struct {
	terrain Terrain
}

func NewKiter(t Terrain) Kiter { return Kiter{terrain: t} }

// FindBestRetreatPosition chooses the neighbour of c that maximizes the
// minimum range to any threat. Ties prefer tiles that are neither swamp nor
// slowed, then the greatest Euclidean distance to the nearest threat, then
// the earliest tile in neighbour order. ok is false when there are no
// threats or nowhere to step.
func (k Kiter) FindBestRetreatPosition(c model.Creep, threats []model.Creep) (model.Position, bool) {
	if len(threats) == 0 {
		return model.Position{}, false
	}
	candidates := k.terrain.ValidAdjacentPositions(c)
	if len(candidates) == 0 {
		return model.Position{}, false
	}

	type score struct {
		minRange int
		fast     bool
		distSq   float64
	}
	better := func(a, b score) bool {
		if a.minRange != b.minRange {
			return a.minRange > b.minRange
		}
		if a.fast != b.fast {
			return a.fast
		}
		return a.distSq > b.distSq
	}

	var best model.Position
	var bestScore score
	for i, p := range candidates {
		s := score{fast: !k.terrain.IsSwamp(p) && !k.terrain.IsSlowed(p)}
		nearest := threats[0]
		for j, e := range threats {
			r := model.Range(p, e.Pos)
			if j == 0 || r < s.minRange {
				s.minRange = r
				nearest = e
			}
		}
		s.distSq = r2.Norm2(r2.Sub(vec(p), vec(nearest.Pos)))
		if i == 0 || better(s, bestScore) {
			best, bestScore = p, s
		}
	}
	return best, true
}

func vec(p model.Position) r2.Vec { return r2.Vec{X: float64(p.X), Y: float64(p.Y)} }
