// Package combat holds the tactical heuristics shared by the combat jobs:
// strength estimation, terrain checks, kiting and target selection.
package combat

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
)

// Class is the role a creep's body implies for strength estimation.
type Class string

const (
	ClassRanged  Class = "ranged"
	ClassMelee   Class = "melee"
	ClassSupport Class = "support"
	ClassNone    Class = "none"
)

// Assessment summarizes a strength comparison.
type Assessment string

const (
	Favorable   Assessment = "favorable"
	Unfavorable Assessment = "unfavorable"
	Even        Assessment = "even"
)

// Estimator scores creeps by body composition. Ranged damage is weighted
// by the ranged advantage since ranged units can kite melee ones; healing
// counts for more on a ranged body than on a melee one.
type Estimator struct {
	c config.CombatConfig
}

func NewEstimator(cfg *config.Config) Estimator {
	return Estimator{c: cfg.Combat}
}

// Breakdown is a per-creep view of the strength calculation.
type Breakdown struct {
	ID           model.ID
	Class        Class
	Attack       int
	RangedAttack int
	Heal         int
	Strength     float64
}

func (e Estimator) Breakdown(c model.Creep) Breakdown {
	b := Breakdown{
		ID:           c.ID,
		Attack:       c.Count(model.Attack),
		RangedAttack: c.Count(model.RangedAttack),
		Heal:         c.Count(model.Heal),
	}
	heal := float64(b.Heal) * e.c.HealPower

	switch {
	case b.RangedAttack > 0:
		b.Class = ClassRanged
		b.Strength = float64(b.RangedAttack) * e.c.RangedAttackPower * e.c.RangedAdvantage
		b.Strength += heal * e.c.RangedHealBonus
	case b.Attack > 0:
		b.Class = ClassMelee
		b.Strength = float64(b.Attack)*e.c.AttackPower + heal*e.c.MeleeHealBonus
	case b.Heal > 0:
		b.Class = ClassSupport
		b.Strength = heal * e.c.SupportHealBonus
	default:
		b.Class = ClassNone
	}
	return b
}

// Strength scores a single creep. Creeps without combat parts score 0.
func (e Estimator) Strength(c model.Creep) float64 {
	return e.Breakdown(c).Strength
}

// TeamStrength sums the strength of every creep.
func (e Estimator) TeamStrength(creeps []model.Creep) float64 {
	s := make([]float64, len(creeps))
	for i, c := range creeps {
		s[i] = e.Strength(c)
	}
	return floats.Sum(s)
}

// Comparison is the outcome of weighing two teams against each other.
type Comparison struct {
	Own        float64
	Enemy      float64
	Advantage  float64
	Ratio      float64 // +Inf when the enemy has no strength
	Assessment Assessment
}

func (e Estimator) Compare(own, enemy []model.Creep) Comparison {
	c := Comparison{
		Own:   e.TeamStrength(own),
		Enemy: e.TeamStrength(enemy),
	}
	c.Advantage = c.Own - c.Enemy
	if c.Enemy == 0 {
		c.Ratio = math.Inf(1)
	} else {
		c.Ratio = c.Own / c.Enemy
	}
	switch {
	case c.Advantage > 0:
		c.Assessment = Favorable
	case c.Advantage < 0:
		c.Assessment = Unfavorable
	default:
		c.Assessment = Even
	}
	return c
}

// Defensive reports whether the ratio calls for falling back to ramparts.
func (e Estimator) Defensive(c Comparison) bool {
	return c.Ratio < e.c.DefensiveThreshold
}
