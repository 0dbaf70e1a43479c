// Package agent runs one game: it wires the cache, roster, build order and
// jobs together and advances them one tick at a time.
package agent

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/arena-core/build"
	"github.com/nstehr/vimy/arena-core/combat"
	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/controller"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/strategy"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/world"
)

// Agent owns the decision-making for a single player.
type Agent struct {
	Cache  *world.Cache
	Units  *controller.UnitRegistry
	Build  *build.Order
	Win    model.ID
	cfg    *config.Config
	est    combat.Estimator
	prev   *snapshot
	events []Event

	lastDiagTick int
}

// TickReport summarizes what one Tick decided.
type TickReport struct {
	Tick       int
	Choice     *strategy.Choice
	Spawned    bool
	Units      int
	Energy     int
	Comparison combat.Comparison
	Events     []Event
}

// New builds an agent over s. The win objective is the first own
// construction site of the objective kind present at start.
func New(s substrate.Substrate, cfg *config.Config) (*Agent, error) {
	win := findWinObjective(s.ConstructionSites())
	if win == "" {
		slog.Warn("no win objective found")
	}

	cache := world.NewCache(s, cfg)
	units, err := controller.NewUnitRegistry(cache, s, win)
	if err != nil {
		return nil, fmt.Errorf("unit registry: %w", err)
	}
	engine, err := strategy.NewEngine(cfg, units.Jobs())
	if err != nil {
		return nil, fmt.Errorf("build strategy: %w", err)
	}
	queue := build.NewQueue(cache, s, units, win)

	return &Agent{
		Cache: cache,
		Units: units,
		Build: build.NewOrder(cache, units, engine, queue),
		Win:   win,
		cfg:   cfg,
		est:   combat.NewEstimator(cfg),
	}, nil
}

func findWinObjective(sites []model.ConstructionSite) model.ID {
	for _, s := range sites {
		if s.My && s.Kind == model.KindObjective {
			return s.ID
		}
	}
	return ""
}

// Tick runs one full decision cycle: refresh, reconcile the spawn, spawn the
// next creep if affordable, then let every unit act.
func (a *Agent) Tick() TickReport {
	a.Cache.Refresh()
	a.Build.CheckAndAddSpawningCreep()
	choice, spawned := a.Build.TrySpawnNextCreep()
	a.Units.UpdateCreeps()

	cmp := a.est.Compare(a.Cache.MyCreeps(), a.Cache.EnemyCreeps())
	cur := takeSnapshot(a.Cache, a.Units.Units(), a.est.Defensive(cmp))
	events := detectEvents(cur, a.prev)
	if a.prev != nil && a.prev.contact {
		// Contact is sticky so first_contact fires once per game.
		cur.contact = true
	}
	a.prev = &cur
	for _, e := range events {
		slog.Info("game event", "kind", e.Kind, "tick", e.Tick, "detail", e.Detail)
	}
	a.events = append(a.events, events...)

	report := TickReport{
		Tick:       a.Cache.Tick(),
		Choice:     choice,
		Spawned:    spawned,
		Units:      a.Units.Len(),
		Energy:     a.Build.Energy().TotalEnergy(),
		Comparison: cmp,
		Events:     events,
	}
	a.logDiagnostics(report)
	return report
}

// Events returns every event detected so far.
func (a *Agent) Events() []Event { return a.events }

// logDiagnostics dumps the strength picture every few ticks so a long run
// can be followed without debug logging.
func (a *Agent) logDiagnostics(r TickReport) {
	if a.lastDiagTick != 0 && r.Tick-a.lastDiagTick < a.cfg.Diagnostics.Every {
		return
	}
	a.lastDiagTick = r.Tick

	counts := a.Units.Counts()
	slog.Info("strength diagnostics",
		"tick", r.Tick,
		"own", r.Comparison.Own,
		"enemy", r.Comparison.Enemy,
		"ratio", r.Comparison.Ratio,
		"assessment", r.Comparison.Assessment,
		"units", counts,
		"energy", r.Energy,
		"tugChain", len(a.Cache.TugChain()),
	)
	for _, c := range a.Cache.AllCreeps() {
		b := a.est.Breakdown(c)
		if b.Class == combat.ClassNone {
			continue
		}
		slog.Debug("creep strength", "creep", b.ID, "my", c.My, "class", b.Class,
			"attack", b.Attack, "ranged", b.RangedAttack, "heal", b.Heal, "strength", b.Strength)
	}
}
