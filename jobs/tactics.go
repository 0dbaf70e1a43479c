package jobs

import (
	"log/slog"

	"github.com/nstehr/vimy/arena-core/combat"
	"github.com/nstehr/vimy/arena-core/model"
)

// defensiveRetreat takes over the tick when the team is outmatched: the unit
// falls back to the nearest free own rampart and holds it, striking anything
// that comes into reach. Returns false when the team is not outmatched or no
// rampart is available.
func (u *Unit) defensiveRetreat(self model.Creep, strike func(self model.Creep, enemies []model.Creep)) bool {
	cmp := u.env.Comparison()
	if !u.env.Estimator.Defensive(cmp) {
		return false
	}
	rampart, ok := combat.RetreatRampart(u.env.Cache, self)
	if !ok {
		return false
	}
	strike(self, u.liveEnemies())
	if self.Pos != rampart.Pos {
		slog.Debug("falling back", "unit", u.ID, "job", u.Kind, "rampart", rampart.Pos, "ratio", cmp.Ratio)
		u.moveTo(rampart.Pos)
	}
	return true
}

// patrolState remembers which centre-band waypoint the unit is heading for.
type patrolState struct {
	leg int
}

// patrol keeps idle combat units in the centre band. A unit that has drifted
// into the enemy's outer third walks home instead.
func (u *Unit) patrol(self model.Creep, st *patrolState) {
	size := u.env.Config.Arena.Size
	if spawn := u.env.Cache.MySpawn(); spawn != nil && u.overextended(self.Pos, spawn.Pos) {
		u.moveTo(spawn.Pos)
		return
	}

	waypoints := [2]model.Position{
		{X: size / 2, Y: size / 3},
		{X: size / 2, Y: 2 * size / 3},
	}
	wp := waypoints[st.leg]
	if model.Range(self.Pos, wp) <= 1 {
		st.leg = 1 - st.leg
		wp = waypoints[st.leg]
	}
	u.moveTo(wp)
}

// overextended reports whether p lies in the third of the arena nearest the
// enemy's side.
func (u *Unit) overextended(p, home model.Position) bool {
	size := u.env.Config.Arena.Size
	if home.X < size/2 {
		return p.X >= size-size/3
	}
	return p.X < size/3
}

func isNear(a, b model.Position) bool { return model.Range(a, b) <= 1 }
