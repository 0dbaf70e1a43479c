package strategy

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/jobs"
	"github.com/nstehr/vimy/arena-core/model"
)

// Choice is the creep the strategy wants spawned next.
type Choice struct {
	Kind jobs.Kind
	Tier int
	Body []model.Part
	Cost int
	Rule string // name of the rule that produced it
}

// Input is the per-tick state the strategy decides on.
type Input struct {
	Counts              map[jobs.Kind]int
	StrengthRatio       float64
	FortifiedMinerAlert bool
}

// Engine evaluates the build rules. It holds no per-tick state, so the same
// Input always yields the same Choice.
type Engine struct {
	rules []*Rule
	reg   *jobs.Registry
	build config.BuildConfig
}

// NewEngine compiles the configured rules and sorts them by priority.
func NewEngine(cfg *config.Config, reg *jobs.Registry) (*Engine, error) {
	rules, err := RulesFromConfig(cfg.Build.Rules)
	if err != nil {
		return nil, err
	}
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled, reg: reg, build: cfg.Build}, nil
}

// RulesFromConfig binds each rule config to its action.
func RulesFromConfig(cfgs []config.RuleConfig) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(cfgs))
	for _, c := range cfgs {
		action, ok := actions[c.Action]
		if !ok {
			return nil, fmt.Errorf("rule %q: unknown action %q", c.Name, c.Action)
		}
		rules = append(rules, &Rule{
			Name:         c.Name,
			Priority:     c.Priority,
			ConditionSrc: c.When,
			ActionName:   c.Action,
			Action:       action,
		})
	}
	return rules, nil
}

// Decide returns the next creep to build, or nil when no rule fires.
func (e *Engine) Decide(in Input) *Choice {
	counts := make(map[string]int, len(in.Counts))
	for k, n := range in.Counts {
		counts[string(k)] = n
	}
	env := Env{
		StrengthRatio:       in.StrengthRatio,
		StrengthThreshold:   e.build.StrengthThreshold,
		FortifiedMinerAlert: in.FortifiedMinerAlert,
		Counts:              counts,
		build:               e.build,
	}

	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}
		entry, ok := r.Action(env)
		if !ok {
			continue
		}
		choice, err := e.resolve(entry, r.Name)
		if err != nil {
			slog.Warn("rule produced unbuildable entry", "rule", r.Name, "job", entry.Job, "error", err)
			continue
		}
		return choice
	}
	return nil
}

func (e *Engine) resolve(entry config.BuildEntry, rule string) (*Choice, error) {
	kind, err := jobs.ParseKind(entry.Job)
	if err != nil {
		return nil, err
	}
	d, err := e.reg.Descriptor(kind, entry.Tier)
	if err != nil {
		return nil, err
	}
	return &Choice{Kind: d.Kind, Tier: d.Tier, Body: d.Body, Cost: d.Cost, Rule: rule}, nil
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule { return e.rules }

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(Env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
