package agent

import (
	"testing"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/jobs"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/sim"
)

func newGame(t *testing.T, spawnEnergy int) (*sim.Arena, *Agent) {
	t.Helper()
	cfg := config.Default()
	a := sim.New(cfg)
	a.AddSpawn(model.Position{X: 5, Y: 50}, true, spawnEnergy)
	a.AddSpawn(model.Position{X: 94, Y: 50}, false, 0)
	a.AddConstructionSite(model.KindObjective, model.Position{X: 7, Y: 50}, true, 0)
	a.AddSource(model.Position{X: 30, Y: 50})
	ag, err := New(a, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, ag
}

func TestNewFindsWinObjective(t *testing.T) {
	_, ag := newGame(t, 0)
	if ag.Win == "" {
		t.Error("win objective not found")
	}
}

func TestTickBootstrap(t *testing.T) {
	a, ag := newGame(t, 1000)

	r := ag.Tick()
	if r.Tick != 1 {
		t.Errorf("Tick = %d, want 1", r.Tick)
	}
	if r.Choice == nil || r.Choice.Kind != jobs.Cleric || !r.Spawned {
		t.Fatalf("first tick choice = %+v spawned=%v, want cleric spawned", r.Choice, r.Spawned)
	}
	a.Step()

	r = ag.Tick()
	if r.Units != 1 {
		t.Errorf("Units = %d, want 1 after the cleric registers", r.Units)
	}
	if r.Choice == nil || r.Choice.Kind != jobs.Hauler || r.Spawned {
		t.Errorf("second tick choice = %+v spawned=%v, want hauler waiting on a busy spawn", r.Choice, r.Spawned)
	}
}

func TestTickReportsFirstContactOnce(t *testing.T) {
	a, ag := newGame(t, 0)
	ag.Tick()
	a.Step()

	enemy := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 60, Y: 50}, Body: []model.Part{model.Move, model.Attack}})
	r := ag.Tick()
	if !hasEvent(r.Events, EventFirstContact) {
		t.Errorf("events = %+v, want first_contact", r.Events)
	}
	a.Step()

	a.UpdateCreep(enemy, func(c *model.Creep) { c.Hits = 0 })
	a.Step()
	ag.Tick()
	a.Step()
	a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 60, Y: 50}, Body: []model.Part{model.Move, model.Attack}})
	if r := ag.Tick(); hasEvent(r.Events, EventFirstContact) {
		t.Errorf("first_contact fired twice: %+v", r.Events)
	}
	if n := len(ag.Events()); n == 0 {
		t.Error("Events() is empty")
	}
}

func TestRunUntilMinerRegisters(t *testing.T) {
	a, ag := newGame(t, 5000)
	for i := 0; i < 200 && !ag.Cache.HasBuiltMiner(); i++ {
		ag.Tick()
		a.Step()
	}
	if !ag.Cache.HasBuiltMiner() {
		t.Fatalf("no miner after 200 ticks; roster %v", ag.Units.Counts())
	}
}

// settledMiner finds an own MOVE-less worker next to corner and counts the
// own extensions around it.
func settledMiner(a *sim.Arena, corner model.Position) (model.Creep, int) {
	for _, c := range a.Creeps() {
		if !c.My || c.Spawning || !c.Has(model.Work) || c.Has(model.Move) || model.Range(c.Pos, corner) > 1 {
			continue
		}
		ext := 0
		for _, s := range a.Structures() {
			if s.My && s.Kind == model.KindExtension && model.Range(s.Pos, c.Pos) <= 1 {
				ext++
			}
		}
		return c, ext
	}
	return model.Creep{}, 0
}

func TestDemoMinerReachesCornerAndBuildsExtensions(t *testing.T) {
	cfg := config.Default()
	a := sim.Demo(cfg)
	ag, err := New(a, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	corner := model.Position{X: 3, Y: 4}
	var miner model.Creep
	ext := 0
	tick := 0
	for ; tick < 1500 && ext == 0; tick++ {
		ag.Tick()
		a.Step()
		miner, ext = settledMiner(a, corner)
	}

	counts := ag.Units.Counts()
	if miner.ID == "" {
		t.Fatalf("no miner beside the corner source after %d ticks; roster %v", tick, counts)
	}
	if ext == 0 {
		t.Fatalf("miner at %v built no extensions in %d ticks", miner.Pos, tick)
	}
	if counts[jobs.Tug] == 0 {
		t.Errorf("roster %v has no tug", counts)
	}
}
