package build

import (
	"log/slog"

	"github.com/nstehr/vimy/arena-core/jobs"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/strategy"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/world"
)

// Roster is the unit registry as seen by the queue.
type Roster interface {
	Has(id model.ID) bool
	Add(kind jobs.Kind, tier int, id model.ID) error
	Counts() map[jobs.Kind]int
}

// Pending is the job of the creep the spawn was last asked to make, held
// until the creep shows up in the spawn's snapshot.
type Pending struct {
	Kind jobs.Kind
	Tier int
}

// Queue issues spawn orders and reconciles them with the spawning creep.
type Queue struct {
	cache   *world.Cache
	act     substrate.Actions
	roster  Roster
	win     model.ID
	pending *Pending
}

func NewQueue(cache *world.Cache, act substrate.Actions, roster Roster, win model.ID) *Queue {
	return &Queue{cache: cache, act: act, roster: roster, win: win}
}

// PendingSpawn returns the job awaiting its creep, or nil.
func (q *Queue) PendingSpawn() *Pending { return q.pending }

// CheckAndAddSpawningCreep registers the creep the spawn is making for the
// pending job. The spawning creep's id may be missing for a tick; the job
// stays pending until it appears. A pending job with no spawning creep is
// stale and dropped.
func (q *Queue) CheckAndAddSpawningCreep() {
	if q.pending == nil {
		return
	}
	spawn := q.cache.MySpawn()
	if spawn == nil || spawn.Spawning == nil {
		slog.Debug("dropping stale pending spawn", "job", q.pending.Kind)
		q.pending = nil
		return
	}

	id := spawn.Spawning.CreepID
	if id == "" {
		slog.Info("spawning creep has no id yet", "job", q.pending.Kind)
		return
	}
	if !q.roster.Has(id) {
		if err := q.roster.Add(q.pending.Kind, q.pending.Tier, id); err != nil {
			slog.Error("failed to register spawned creep", "creep", id, "job", q.pending.Kind, "error", err)
		}
	}
	q.pending = nil
}

// TrySpawn asks the spawn for the chosen creep if the spawn is idle and
// energy covers the cost.
func (q *Queue) TrySpawn(c *strategy.Choice, energy int) bool {
	spawn := q.cache.MySpawn()
	if c == nil || spawn == nil || spawn.Busy() {
		return false
	}
	if energy < c.Cost {
		return false
	}

	if c.Kind == jobs.Miner {
		q.aimAtObjective(*spawn)
	}
	id, err := q.act.SpawnCreep(spawn.ID, c.Body)
	if err != nil {
		slog.Debug("spawn refused", "job", c.Kind, "cost", c.Cost, "energy", energy, "error", err)
		return false
	}
	q.pending = &Pending{Kind: c.Kind, Tier: c.Tier}
	slog.Info("started spawning", "job", c.Kind, "tier", c.Tier, "cost", c.Cost, "energy", energy, "rule", c.Rule, "creep", id)
	return true
}

// aimAtObjective points the spawn exit at tiles next to both the spawn and
// the win objective, so an immobile miner can reach both without moving.
func (q *Queue) aimAtObjective(spawn model.Spawn) {
	site, ok := q.cache.ConstructionSite(q.win)
	if !ok {
		return
	}
	var dirs []model.Direction
	for d := model.Top; d <= model.TopLeft; d++ {
		p := spawn.Pos.Step(d)
		if q.cache.TerrainAt(p) == model.Wall || !model.Adjacent(p, site.Pos) {
			continue
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		return
	}
	if err := q.act.SetSpawnDirections(spawn.ID, dirs); err != nil {
		slog.Debug("spawn directions refused", "spawn", spawn.ID, "error", err)
	}
}
