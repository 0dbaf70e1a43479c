package jobs

import (
	"github.com/nstehr/vimy/arena-core/combat"
	"github.com/nstehr/vimy/arena-core/model"
)

// fighter is the melee job. It engages exposed enemies close by, breaks
// fortified miners, and otherwise patrols the centre band.
type fighter struct {
	Unit
	route patrolState
}

func (f *fighter) Act() {
	self, ok := f.self()
	if !ok {
		return
	}
	if f.defensiveRetreat(self, f.strikeAdjacent) {
		return
	}

	enemies := f.liveEnemies()
	exposed, _ := combat.SplitByRampart(f.env.Cache, enemies)
	nearby := model.Within(self.Pos, exposed, f.env.Config.Combat.EngagementRadius)
	if i := model.Closest(self.Pos, nearby); i >= 0 {
		target := nearby[i]
		f.approach("attack", target.Pos, f.env.Act.Attack(f.ID, target.ID))
		return
	}

	// A dug-in miner cannot be hit directly; breaking its rampart is
	// the only way to reach it.
	if fm := f.env.Cache.FortifiedMiner(); fm != nil {
		f.approach("attack", fm.Rampart.Pos, f.env.Act.Attack(f.ID, fm.Rampart.ID))
		return
	}

	f.patrol(self, &f.route)
}

func (f *fighter) strikeAdjacent(self model.Creep, enemies []model.Creep) {
	adjacent := model.Within(self.Pos, enemies, 1)
	if i := model.Closest(self.Pos, adjacent); i >= 0 {
		f.approach("attack", adjacent[i].Pos, f.env.Act.Attack(f.ID, adjacent[i].ID))
	}
}
