// Package controller owns the roster of live units and drives each one's
// job every tick.
package controller

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/arena-core/jobs"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/world"
)

// UnitRegistry is the roster: every own creep that has been given a job, in
// the order they were added.
type UnitRegistry struct {
	cache *world.Cache
	jobs  *jobs.Registry
	env   *jobs.Env
	units []jobs.Job
	byID  map[model.ID]jobs.Job
}

func NewUnitRegistry(cache *world.Cache, act substrate.Actions, win model.ID) (*UnitRegistry, error) {
	reg, err := jobs.NewRegistry(cache.Config())
	if err != nil {
		return nil, fmt.Errorf("job registry: %w", err)
	}
	u := &UnitRegistry{
		cache: cache,
		jobs:  reg,
		byID:  make(map[model.ID]jobs.Job),
	}
	u.env = jobs.NewEnv(cache, act, u, win)
	return u, nil
}

// Jobs exposes the job registry for descriptor lookups.
func (u *UnitRegistry) Jobs() *jobs.Registry { return u.jobs }

func (u *UnitRegistry) Has(id model.ID) bool {
	_, ok := u.byID[id]
	return ok
}

// Add gives the creep id a job. Adding the first miner flips the cache's
// has-built-miner flag, which redirects haulers to the win objective.
func (u *UnitRegistry) Add(kind jobs.Kind, tier int, id model.ID) error {
	if u.Has(id) {
		return fmt.Errorf("unit %s already registered", id)
	}
	j, err := u.jobs.New(kind, tier, id, u.env)
	if err != nil {
		return err
	}
	u.units = append(u.units, j)
	u.byID[id] = j
	if kind == jobs.Miner && !u.cache.HasBuiltMiner() {
		u.cache.MarkMinerBuilt()
		slog.Info("first miner registered", "unit", id)
	}
	slog.Info("unit registered", "unit", id, "job", kind, "tier", j.Base().Tier, "roster", len(u.units))
	return nil
}

// UpdateCreeps drops units whose creep is gone, then lets every unit that
// has finished spawning act.
func (u *UnitRegistry) UpdateCreeps() {
	alive := u.units[:0]
	for _, j := range u.units {
		b := j.Base()
		c, ok := u.cache.Creep(b.ID)
		if !ok {
			slog.Info("removing dead unit", "unit", b.ID, "job", b.Kind)
			delete(u.byID, b.ID)
			continue
		}
		alive = append(alive, j)
		if c.Spawning {
			continue
		}
		j.Act()
	}
	clear(u.units[len(alive):])
	u.units = alive
}

// Units returns the roster in insertion order.
func (u *UnitRegistry) Units() []jobs.Job { return u.units }

func (u *UnitRegistry) Len() int { return len(u.units) }

// Counts tallies units per job.
func (u *UnitRegistry) Counts() map[jobs.Kind]int {
	out := make(map[jobs.Kind]int, len(jobs.Kinds))
	for _, j := range u.units {
		out[j.Base().Kind]++
	}
	return out
}

// CountOthers counts units of kind other than self.
func (u *UnitRegistry) CountOthers(kind jobs.Kind, self model.ID) int {
	n := 0
	for _, j := range u.units {
		if b := j.Base(); b.Kind == kind && b.ID != self {
			n++
		}
	}
	return n
}
