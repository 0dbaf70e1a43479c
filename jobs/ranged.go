package jobs

import (
	"log/slog"

	"github.com/nstehr/vimy/arena-core/combat"
	"github.com/nstehr/vimy/arena-core/model"
)

// specialization is what distinguishes ranged jobs from each other.
type specialization interface {
	// heal runs before any combat logic each tick.
	heal(r *rangedJob, self model.Creep)
	// support reports whether a wounded ally claims the unit's movement
	// this tick: it walks to a distant ally and holds beside an adjacent one.
	support(r *rangedJob, self model.Creep) bool
}

// rangedJob keeps enemies at the desired range, kiting when they close in
// and closing the gap when they drift out.
type rangedJob struct {
	Unit
	spec  specialization
	route patrolState
}

func newRangedJob(u Unit, spec specialization) *rangedJob {
	if spec == nil {
		panic("jobs: ranged job constructed without a specialization")
	}
	return &rangedJob{Unit: u, spec: spec}
}

func (r *rangedJob) Act() {
	self, ok := r.self()
	if !ok {
		return
	}
	r.spec.heal(r, self)

	if r.defensiveRetreat(self, r.strikeInRange) {
		return
	}

	enemies := r.liveEnemies()
	target, ok := combat.NearestTarget(r.env.Cache, self.Pos, enemies)
	if !ok {
		if !r.spec.support(r, self) {
			r.patrol(self, &r.route)
		}
		return
	}

	desired := r.env.Config.Combat.DesiredRange
	dist := model.Range(self.Pos, target.Pos)
	switch {
	case dist < desired:
		if pos, ok := r.env.Kiter.FindBestRetreatPosition(self, enemies); ok {
			r.moveTo(pos)
		}
	case dist > desired:
		if !r.spec.support(r, self) {
			r.moveTo(target.Pos)
		}
	}

	// Movement and the ranged attack are independent actions; the attack
	// resolves from the current tile.
	r.fire(target)
}

func (r *rangedJob) fire(target model.Creep) {
	if err := r.env.Act.RangedAttack(r.ID, target.ID); err != nil {
		slog.Debug("ranged attack refused", "unit", r.ID, "job", r.Kind, "target", target.ID, "error", err)
	}
}

func (r *rangedJob) strikeInRange(self model.Creep, enemies []model.Creep) {
	inRange := model.Within(self.Pos, enemies, r.env.Config.Combat.DesiredRange)
	if i := model.Closest(self.Pos, inRange); i >= 0 {
		r.fire(inRange[i])
	}
}

type archerSpec struct{}

func (archerSpec) heal(*rangedJob, model.Creep)         {}
func (archerSpec) support(*rangedJob, model.Creep) bool { return false }

// clericSpec heals itself first, then the nearest wounded ally, and
// prefers staying with the wounded over chasing targets.
type clericSpec struct{}

func (clericSpec) heal(r *rangedJob, self model.Creep) {
	if self.Damaged() {
		r.approach("heal", self.Pos, r.env.Act.Heal(r.ID, r.ID))
		return
	}
	allies := combat.DamagedAllies(r.env.Cache, r.ID)
	i := model.Closest(self.Pos, allies)
	if i < 0 {
		return
	}
	ally := allies[i]
	switch dist := model.Range(self.Pos, ally.Pos); {
	case dist <= 1:
		r.approach("heal", ally.Pos, r.env.Act.Heal(r.ID, ally.ID))
	case dist <= r.env.Config.Combat.HealRange:
		r.approach("ranged_heal", ally.Pos, r.env.Act.RangedHeal(r.ID, ally.ID))
	}
}

func (clericSpec) support(r *rangedJob, self model.Creep) bool {
	allies := combat.DamagedAllies(r.env.Cache, r.ID)
	i := model.Closest(self.Pos, allies)
	if i < 0 {
		return false
	}
	if model.Range(self.Pos, allies[i].Pos) > 1 {
		r.moveTo(allies[i].Pos)
	}
	return true
}
