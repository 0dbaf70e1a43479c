package strategy

import (
	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/jobs"
)

// actions is the closed set rule configs may name.
var actions = map[string]ActionFunc{
	"bootstrap":         ActionBootstrap,
	"counter_fortified": ActionCounterFortified,
	"economy":           ActionEconomy,
	"military":          ActionMilitary,
}

func ActionBootstrap(env Env) (config.BuildEntry, bool) {
	return nextEntry(env.build.Bootstrap, env.Counts)
}

// ActionCounterFortified builds a melee unit, the only kind that can break
// the rampart under a dug-in enemy miner.
func ActionCounterFortified(Env) (config.BuildEntry, bool) {
	return config.BuildEntry{Job: string(jobs.Fighter), Tier: 1}, true
}

func ActionEconomy(env Env) (config.BuildEntry, bool) {
	if e, ok := nextEntry(env.build.Economy, env.Counts); ok {
		return e, true
	}
	return env.build.Fallback, true
}

// ActionMilitary keeps archers and clerics at the configured ratio, counting
// one cleric ahead so the first archers come before the next cleric.
func ActionMilitary(env Env) (config.BuildEntry, bool) {
	archers := env.Counts[string(jobs.Archer)]
	clerics := env.Counts[string(jobs.Cleric)]
	if archers < (clerics+1)*env.build.ArchersPerCleric {
		return config.BuildEntry{Job: string(jobs.Archer), Tier: 1}, true
	}
	return config.BuildEntry{Job: string(jobs.Cleric), Tier: 1}, true
}
