package combat

import (
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/world"
)

// SplitByRampart separates enemies standing on their own ramparts from the
// exposed ones. Attacking a rampart occupant damages the rampart first, so
// exposed targets are always preferred.
func SplitByRampart(cache *world.Cache, enemies []model.Creep) (exposed, covered []model.Creep) {
	for _, e := range enemies {
		if _, ok := cache.EnemyRampartAt(e.Pos); ok {
			covered = append(covered, e)
		} else {
			exposed = append(exposed, e)
		}
	}
	return exposed, covered
}

// NearestTarget returns the nearest exposed enemy, falling back to the
// nearest covered one.
func NearestTarget(cache *world.Cache, from model.Position, enemies []model.Creep) (model.Creep, bool) {
	exposed, covered := SplitByRampart(cache, enemies)
	if i := model.Closest(from, exposed); i >= 0 {
		return exposed[i], true
	}
	if i := model.Closest(from, covered); i >= 0 {
		return covered[i], true
	}
	return model.Creep{}, false
}

// DamagedAllies returns own creeps below full health, excluding self.
func DamagedAllies(cache *world.Cache, self model.ID) []model.Creep {
	var out []model.Creep
	for _, c := range cache.MyCreeps() {
		if c.ID != self && !c.Spawning && c.Damaged() {
			out = append(out, c)
		}
	}
	return out
}

// RetreatRampart picks the nearest own rampart that no other creep holds.
// A creep already standing on one of its own ramparts keeps it.
func RetreatRampart(cache *world.Cache, c model.Creep) (model.Structure, bool) {
	if r, ok := cache.MyRampartAt(c.Pos); ok {
		return r, true
	}
	var free []model.Structure
	for _, r := range cache.MyRamparts() {
		if id, taken := cache.OccupiedBy(r.Pos); taken && id != c.ID {
			continue
		}
		free = append(free, r)
	}
	if i := model.Closest(c.Pos, free); i >= 0 {
		return free[i], true
	}
	return model.Structure{}, false
}
