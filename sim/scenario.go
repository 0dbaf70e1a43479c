package sim

import (
	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
)

// demoObjectiveTotal is the build progress the demo's win objective needs.
const demoObjectiveTotal = 2000

// Demo lays out a mirrored arena: spawns on the left and right edges, the
// win objective next to our spawn, a source in each corner and two in the
// middle. Corner sources are backed by walls toward the map corner.
func Demo(cfg *config.Config) *Arena {
	a := New(cfg)
	size := cfg.Arena.Size
	mid := size / 2

	a.AddSpawn(model.Position{X: 5, Y: mid}, true, 1000)
	a.AddSpawn(model.Position{X: size - 6, Y: mid}, false, 1000)
	a.AddConstructionSite(model.KindObjective, model.Position{X: 7, Y: mid}, true, demoObjectiveTotal)

	corners := []model.Position{
		{X: 3, Y: 4}, {X: size - 4, Y: 4},
		{X: 3, Y: size - 5}, {X: size - 4, Y: size - 5},
	}
	for _, p := range corners {
		// Wall off the map corner behind the source.
		from, to := model.Position{X: 0, Y: 0}, p
		if p.X >= mid {
			from.X, to.X = p.X, size-1
		}
		if p.Y >= mid {
			from.Y, to.Y = p.Y, size-1
		}
		a.terrain.Fill(from, to, model.Wall)
		a.terrain.Set(p, model.Plain)
		a.AddSource(p)
	}
	a.AddSource(model.Position{X: mid, Y: mid - 10})
	a.AddSource(model.Position{X: mid, Y: mid + 10})

	a.terrain.Fill(model.Position{X: mid - 3, Y: mid - 3}, model.Position{X: mid + 3, Y: mid + 3}, model.Swamp)
	a.AddAreaEffect(model.Position{X: mid, Y: mid}, model.EffectSlowdown)

	for _, dy := range []int{-3, 3} {
		a.AddStructure(model.KindRampart, model.Position{X: 9, Y: mid + dy}, true)
		a.AddStructure(model.KindRampart, model.Position{X: size - 10, Y: mid + dy}, false)
	}
	return a
}

// EnemyWave places n enemy creeps with body near the enemy spawn.
func (a *Arena) EnemyWave(n int, body []model.Part) []model.ID {
	size := a.cfg.Arena.Size
	ids := make([]model.ID, 0, n)
	for i := 0; i < n; i++ {
		pos := model.Position{X: size - 12, Y: size/2 - n/2 + i}
		ids = append(ids, a.AddCreep(CreepSpec{Pos: pos, Body: body}))
	}
	return ids
}
