package strategy

import "github.com/nstehr/vimy/arena-core/config"

// Env is the environment rule conditions are evaluated against. Exported
// fields and methods are callable from expr.
type Env struct {
	StrengthRatio       float64
	StrengthThreshold   float64
	FortifiedMinerAlert bool
	Counts              map[string]int

	build config.BuildConfig
}

// JobCount returns the number of live units with the named job.
func (e Env) JobCount(name string) int { return e.Counts[name] }

// BootstrapPending is true while some opening build entry is unmet.
func (e Env) BootstrapPending() bool {
	_, ok := nextEntry(e.build.Bootstrap, e.Counts)
	return ok
}

// EconomyPending is true while some economy build entry is unmet. Once it is
// false the economy rule builds the fallback forever.
func (e Env) EconomyPending() bool {
	_, ok := nextEntry(e.build.Economy, e.Counts)
	return ok
}

// nextEntry returns the first entry whose expected count up to and including
// its position exceeds the live count of that job.
func nextEntry(entries []config.BuildEntry, counts map[string]int) (config.BuildEntry, bool) {
	expected := make(map[string]int, len(entries))
	for _, e := range entries {
		expected[e.Job]++
		if counts[e.Job] < expected[e.Job] {
			return e, true
		}
	}
	return config.BuildEntry{}, false
}
