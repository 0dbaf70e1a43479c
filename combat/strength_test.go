package combat

import (
	"math"
	"testing"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
)

func body(parts ...model.Part) model.Creep {
	return model.Creep{Body: parts, Hits: 100 * len(parts), HitsMax: 100 * len(parts)}
}

func TestStrength(t *testing.T) {
	est := NewEstimator(config.Default())

	tests := []struct {
		name  string
		creep model.Creep
		want  float64
		class Class
	}{
		{"archer", body(model.Move, model.RangedAttack), 30, ClassRanged},
		{"cleric", body(model.Move, model.Move, model.RangedAttack, model.Heal), 54, ClassRanged},
		{"fighter", body(model.Move, model.Attack), 30, ClassMelee},
		{"healing fighter", body(model.Attack, model.Heal), 36, ClassMelee},
		{"pure healer", body(model.Move, model.Heal), 3, ClassSupport},
		{"hauler", body(model.Work, model.Carry, model.Move), 0, ClassNone},
		{"mixed ranged and melee", body(model.Attack, model.RangedAttack), 30, ClassRanged},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := est.Breakdown(tc.creep)
			if b.Strength != tc.want {
				t.Errorf("Strength = %v, want %v", b.Strength, tc.want)
			}
			if b.Class != tc.class {
				t.Errorf("Class = %s, want %s", b.Class, tc.class)
			}
		})
	}
}

func TestStrengthMonotonic(t *testing.T) {
	est := NewEstimator(config.Default())
	bodies := []model.Creep{
		body(model.Move, model.RangedAttack),
		body(model.Move, model.Attack),
		body(model.Move, model.Heal),
		body(model.RangedAttack, model.Heal),
		body(model.Attack, model.Heal),
	}
	for _, b := range bodies {
		base := est.Strength(b)
		for _, extra := range []model.Part{model.Attack, model.RangedAttack, model.Heal} {
			grown := b
			grown.Body = append(append([]model.Part{}, b.Body...), extra)
			if est.Strength(grown) < base {
				t.Errorf("adding %s to %v lowered strength %v -> %v", extra, b.Body, base, est.Strength(grown))
			}
		}
	}
}

func TestTeamStrengthAdditive(t *testing.T) {
	est := NewEstimator(config.Default())
	team := []model.Creep{
		body(model.Move, model.RangedAttack),
		body(model.Move, model.Attack),
	}
	before := est.TeamStrength(team)
	after := est.TeamStrength(append(team, body(model.Move, model.Attack)))
	if after != before+30 {
		t.Errorf("adding a fighter changed team strength %v -> %v, want +30", before, after)
	}
	if est.TeamStrength(nil) != 0 {
		t.Error("empty team should have zero strength")
	}
}

func TestCompare(t *testing.T) {
	est := NewEstimator(config.Default())
	fighter := body(model.Move, model.Attack)
	archer := body(model.Move, model.RangedAttack)

	c := est.Compare([]model.Creep{fighter}, nil)
	if !math.IsInf(c.Ratio, 1) {
		t.Errorf("ratio against no enemies = %v, want +Inf", c.Ratio)
	}
	if c.Assessment != Favorable {
		t.Errorf("assessment = %s, want favorable", c.Assessment)
	}

	c = est.Compare([]model.Creep{fighter}, []model.Creep{fighter, archer})
	if c.Ratio != 0.5 {
		t.Errorf("ratio = %v, want 0.5", c.Ratio)
	}
	if c.Advantage != -30 || c.Assessment != Unfavorable {
		t.Errorf("advantage = %v (%s), want -30 unfavorable", c.Advantage, c.Assessment)
	}
	if !est.Defensive(c) {
		t.Error("ratio 0.5 should be defensive")
	}

	c = est.Compare([]model.Creep{archer}, []model.Creep{fighter})
	if c.Assessment != Even || est.Defensive(c) {
		t.Errorf("equal teams: assessment %s defensive %v", c.Assessment, est.Defensive(c))
	}
}

func TestSupportBonusIsTunable(t *testing.T) {
	cfg := config.Default()
	cfg.Combat.SupportHealBonus = 1.0
	est := NewEstimator(cfg)
	if got := est.Strength(body(model.Move, model.Heal)); got != 12 {
		t.Errorf("support strength with bonus 1.0 = %v, want 12", got)
	}
}
