// Package strategy decides which creep to spawn next. The decision is a set
// of prioritized rules: an expr condition over the strategy environment
// paired with one of a closed set of build actions.
package strategy

import (
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/vimy/arena-core/config"
)

// ActionFunc picks the build entry for a rule whose condition held. A false
// result lets the next rule try.
type ActionFunc func(env Env) (config.BuildEntry, bool)

// Rule is one condition → action pair.
type Rule struct {
	Name         string
	Priority     int    // higher = evaluated first
	ConditionSrc string // expr source
	ActionName   string
	program      *vm.Program
	Action       ActionFunc
}
