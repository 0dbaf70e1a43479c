package jobs

import (
	"slices"
)

// tug is a MOVE-only helper that joins the tug chain to drag a miner to its
// mining tile.
type tug struct {
	Unit
}

func (t *tug) Act() {
	self, ok := t.self()
	if !ok {
		return
	}
	cache := t.env.Cache
	chain := cache.TugChain()

	if len(chain) == 0 {
		// Idle near the spawn, where the next miner will appear.
		if spawn := cache.MySpawn(); spawn != nil && !isNear(self.Pos, spawn.Pos) {
			t.moveTo(spawn.Pos)
		}
		return
	}
	if slices.Contains(chain, t.ID) {
		return
	}

	last, ok := cache.Creep(chain[len(chain)-1])
	if !ok {
		return
	}
	if isNear(self.Pos, last.Pos) {
		cache.JoinTugChain(t.ID)
		return
	}
	t.moveTo(last.Pos)
}
