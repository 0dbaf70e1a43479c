// Package jobs implements the per-unit behaviors. Every own creep is driven
// by exactly one Job, chosen when it is spawned and kept for its lifetime.
package jobs

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/arena-core/combat"
	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/tugchain"
	"github.com/nstehr/vimy/arena-core/world"
)

// Kind names a job. The set is closed; see Registry.
type Kind string

const (
	Miner   Kind = "miner"
	Hauler  Kind = "hauler"
	Fighter Kind = "fighter"
	Archer  Kind = "archer"
	Cleric  Kind = "cleric"
	Tug     Kind = "tug"
)

// Kinds lists every job in a stable order.
var Kinds = []Kind{Miner, Hauler, Fighter, Archer, Cleric, Tug}

var ErrUnknownJob = errors.New("unknown job")

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownJob)
}

// Descriptor is the static shape of a job at a tier. Cost is always derived
// from Body.
type Descriptor struct {
	Kind Kind
	Tier int
	Body []model.Part
	Cost int
}

// Roster is the part of the unit registry jobs consult.
type Roster interface {
	// CountOthers counts live units of kind, excluding self.
	CountOthers(kind Kind, self model.ID) int
}

// Env bundles the collaborators shared by every job.
type Env struct {
	Cache        *world.Cache
	Act          substrate.Actions
	Config       *config.Config
	Roster       Roster
	Chain        *tugchain.Coordinator
	Estimator    combat.Estimator
	Terrain      combat.Terrain
	Kiter        combat.Kiter
	WinObjective model.ID

	cmpTick int
	cmp     combat.Comparison
}

func NewEnv(cache *world.Cache, act substrate.Actions, roster Roster, win model.ID) *Env {
	terrain := combat.NewTerrain(cache)
	return &Env{
		Cache:        cache,
		Act:          act,
		Config:       cache.Config(),
		Roster:       roster,
		Chain:        tugchain.NewCoordinator(cache, act),
		Estimator:    combat.NewEstimator(cache.Config()),
		Terrain:      terrain,
		Kiter:        combat.NewKiter(terrain),
		WinObjective: win,
	}
}

// Comparison returns this tick's strength comparison, computing it at most
// once per tick.
func (e *Env) Comparison() combat.Comparison {
	if e.cmpTick != e.Cache.Tick() {
		e.cmp = e.Estimator.Compare(e.Cache.MyCreeps(), e.Cache.EnemyCreeps())
		e.cmpTick = e.Cache.Tick()
	}
	return e.cmp
}

// Unit is the state common to all jobs.
type Unit struct {
	ID   model.ID
	Kind Kind
	Tier int
	env  *Env
}

// Job is one unit's behavior. Act is called once per tick while the creep
// exists and is not spawning.
type Job interface {
	Base() *Unit
	Act()
}

func (u *Unit) Base() *Unit { return u }

// self looks the unit's creep up in this tick's snapshot.
func (u *Unit) self() (model.Creep, bool) {
	c, ok := u.env.Cache.Creep(u.ID)
	if !ok {
		slog.Warn("unit has no creep", "unit", u.ID, "job", u.Kind)
	}
	return c, ok
}

func (u *Unit) moveTo(p model.Position) {
	if err := u.env.Act.MoveTo(u.ID, p); err != nil {
		slog.Debug("move refused", "unit", u.ID, "job", u.Kind, "target", p, "error", err)
	}
}

// approach runs action and, when the target is out of range, moves toward
// it. Other refusals are logged and dropped; the next tick re-decides.
func (u *Unit) approach(action string, pos model.Position, err error) {
	switch {
	case err == nil:
	case errors.Is(err, substrate.ErrNotInRange):
		u.moveTo(pos)
	default:
		slog.Debug("action refused", "unit", u.ID, "job", u.Kind, "action", action, "error", err)
	}
}

// liveEnemies drops enemy creeps still inside a spawn.
func (u *Unit) liveEnemies() []model.Creep {
	var out []model.Creep
	for _, e := range u.env.Cache.EnemyCreeps() {
		if !e.Spawning {
			out = append(out, e)
		}
	}
	return out
}
