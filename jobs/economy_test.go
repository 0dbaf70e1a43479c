package jobs

import (
	"testing"

	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/sim"
	"github.com/nstehr/vimy/arena-core/substrate"
)

func TestHaulerDelivery(t *testing.T) {
	tests := []struct {
		name       string
		minerBuilt bool
		wantType   string
	}{
		{"spawn before first miner", false, substrate.TypeTransfer},
		{"objective after first miner", true, substrate.TypeBuild},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			spawn := h.arena.AddSpawn(model.Position{X: 5, Y: 50}, true, 0)
			site := h.arena.AddConstructionSite(model.KindObjective, model.Position{X: 7, Y: 50}, true, 0)
			h.env.WinObjective = site
			id := h.arena.AddCreep(sim.CreepSpec{
				Pos: model.Position{X: 6, Y: 50}, My: true, Energy: 50,
				Body: body(model.Work, model.Carry, model.Move, model.Move),
			})
			if tc.minerBuilt {
				h.cache.MarkMinerBuilt()
			}
			h.cache.Refresh()

			h.job(t, Hauler, id).Act()

			want := spawn
			if tc.minerBuilt {
				want = site
			}
			got := h.orders(id, tc.wantType)
			if len(got) != 1 || got[0].Target != want {
				t.Errorf("%s orders = %+v, want one on %s", tc.wantType, got, want)
			}
		})
	}
}

func TestHaulerHarvestsCentralSource(t *testing.T) {
	h := newHarness(t)
	h.arena.AddSource(model.Position{X: 12, Y: 12}) // corner band
	central := h.arena.AddSource(model.Position{X: 30, Y: 50})
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 10, Y: 12}, My: true, Body: body(model.Work, model.Carry, model.Move, model.Move)})
	h.cache.Refresh()

	h.job(t, Hauler, id).Act()

	if got, _ := h.lastMove(id); got != (model.Position{X: 30, Y: 50}) {
		t.Errorf("move = %v, want central source (30,50)", got)
	}
	for _, o := range h.arena.OrdersFor(id) {
		if o.Type == substrate.TypeHarvest && o.Target != central {
			t.Errorf("harvested %s, want central %s", o.Target, central)
		}
	}
}

func TestHaulerSwitchesModeSameTick(t *testing.T) {
	h := newHarness(t)
	spawn := h.arena.AddSpawn(model.Position{X: 5, Y: 50}, true, 0)
	h.arena.AddSource(model.Position{X: 30, Y: 50})
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 6, Y: 50}, My: true, Energy: 50, Body: body(model.Work, model.Carry, model.Move, model.Move)})
	h.cache.Refresh()

	j := h.job(t, Hauler, id)
	j.Act()
	if got := h.orders(id, substrate.TypeTransfer); len(got) != 1 || got[0].Target != spawn {
		t.Fatalf("transfer orders = %+v, want one on spawn", got)
	}

	h.arena.Step()
	h.cache.Refresh()
	j.Act()
	if got, _ := h.lastMove(id); got != (model.Position{X: 30, Y: 50}) {
		t.Errorf("empty hauler move = %v, want source (30,50)", got)
	}
}

func TestTug(t *testing.T) {
	tests := []struct {
		name      string
		chained   bool
		tugPos    model.Position
		wantChain int
		wantMove  *model.Position
	}{
		{"parks at spawn without a chain", false, model.Position{X: 20, Y: 50}, 0, &model.Position{X: 5, Y: 50}},
		{"already parked", false, model.Position{X: 6, Y: 50}, 0, nil},
		{"joins when adjacent", true, model.Position{X: 11, Y: 10}, 2, nil},
		{"walks to the chain tail", true, model.Position{X: 15, Y: 10}, 1, &model.Position{X: 10, Y: 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.arena.AddSpawn(model.Position{X: 5, Y: 50}, true, 0)
			head := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 10, Y: 10}, My: true, Body: body(model.Work, model.Carry)})
			id := h.arena.AddCreep(sim.CreepSpec{Pos: tc.tugPos, My: true, Body: body(model.Move)})
			h.cache.Refresh()
			if tc.chained {
				h.cache.ClaimTugChain(head)
			}

			h.job(t, Tug, id).Act()

			if got := len(h.cache.TugChain()); got != tc.wantChain {
				t.Errorf("chain length = %d, want %d", got, tc.wantChain)
			}
			got, moved := h.lastMove(id)
			switch {
			case tc.wantMove == nil && moved:
				t.Errorf("unexpected move to %v", got)
			case tc.wantMove != nil && got != *tc.wantMove:
				t.Errorf("move = %v (%v), want %v", got, moved, *tc.wantMove)
			}
		})
	}
}

// minerWorld lays out a left-side base with one source in each corner band.
func minerWorld(t *testing.T) (*harness, map[string]model.ID) {
	t.Helper()
	h := newHarness(t)
	h.arena.AddSpawn(model.Position{X: 5, Y: 50}, true, 300)
	src := map[string]model.ID{
		"top-left":     h.arena.AddSource(model.Position{X: 2, Y: 5}),
		"top-right":    h.arena.AddSource(model.Position{X: 97, Y: 5}),
		"bottom-left":  h.arena.AddSource(model.Position{X: 2, Y: 95}),
		"bottom-right": h.arena.AddSource(model.Position{X: 97, Y: 95}),
	}
	h.cache.MarkInitialTransferDone()
	return h, src
}

func TestMinerSourceAssignment(t *testing.T) {
	tests := []struct {
		name       string
		others     int
		wantSource string
		wantPos    model.Position
		wantState  minerState
	}{
		{"first miner", 0, "top-left", model.Position{X: 3, Y: 5}, minerMoving},
		{"second miner", 1, "bottom-left", model.Position{X: 3, Y: 95}, minerMoving},
		{"third miner", 2, "", model.Position{}, minerInert},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, src := minerWorld(t)
			h.roster[Miner] = tc.others
			id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 6, Y: 50}, My: true, Body: body(model.Work, model.Work, model.Carry)})
			h.cache.Refresh()

			m := h.job(t, Miner, id).(*miner)
			m.assign()

			if m.state != tc.wantState {
				t.Fatalf("state = %d, want %d", m.state, tc.wantState)
			}
			if tc.wantState == minerInert {
				return
			}
			if m.source.ID != src[tc.wantSource] {
				t.Errorf("source = %v, want %s", m.source.Pos, tc.wantSource)
			}
			if m.target != tc.wantPos {
				t.Errorf("mining position = %v, want %v", m.target, tc.wantPos)
			}
		})
	}
}

func TestMinerMiningPositionAvoidsWalls(t *testing.T) {
	h, _ := minerWorld(t)
	h.arena.Terrain().Set(model.Position{X: 3, Y: 5}, model.Wall)
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 6, Y: 50}, My: true, Body: body(model.Work, model.Carry)})
	h.cache.Refresh()

	m := h.job(t, Miner, id).(*miner)
	m.assign()

	if want := (model.Position{X: 2, Y: 6}); m.target != want {
		t.Errorf("mining position = %v, want %v", m.target, want)
	}
}

func TestMinerClaimsTugChain(t *testing.T) {
	h, _ := minerWorld(t)
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 6, Y: 50}, My: true, Body: body(model.Work, model.Work, model.Carry)})
	h.cache.Refresh()

	h.job(t, Miner, id).Act()

	chain := h.cache.TugChain()
	if len(chain) != 1 || chain[0] != id {
		t.Fatalf("chain = %v, want [%s]", chain, id)
	}
	if got, _ := h.lastMove(id); got != (model.Position{X: 3, Y: 5}) {
		t.Errorf("head move = %v, want (3,5)", got)
	}
}

func TestMinerWaitsForBusyChain(t *testing.T) {
	h, _ := minerWorld(t)
	other := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 20, Y: 20}, My: true, Body: body(model.Work, model.Carry)})
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 6, Y: 50}, My: true, Body: body(model.Work, model.Work, model.Carry)})
	h.cache.Refresh()
	h.cache.ClaimTugChain(other)

	h.job(t, Miner, id).Act()

	if _, moved := h.lastMove(id); moved {
		t.Error("miner moved while another miner holds the chain")
	}
	if chain := h.cache.TugChain(); chain[0] != other {
		t.Errorf("chain head = %s, want %s", chain[0], other)
	}
}

func TestMinerPlantsExtensionsOnArrival(t *testing.T) {
	h, _ := minerWorld(t)
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 3, Y: 5}, My: true, Energy: 10, Body: body(model.Work, model.Work, model.Carry)})
	h.cache.Refresh()

	m := h.job(t, Miner, id).(*miner)
	m.Act()

	if m.state != minerMining {
		t.Fatalf("state = %d, want mining", m.state)
	}
	sites := h.orders("", substrate.TypeConstructSite)
	if len(sites) != 5 || m.planted != 5 {
		t.Errorf("sites = %d, planted = %d, want 5", len(sites), m.planted)
	}
	for _, o := range sites {
		if o.Pos == (model.Position{X: 2, Y: 5}) {
			t.Errorf("extension planted on the source tile")
		}
	}

	// Next tick the sites are visible and get built.
	h.arena.Step()
	h.cache.Refresh()
	m.Act()
	if builds := h.orders(id, substrate.TypeBuild); len(builds) != 1 {
		t.Errorf("build orders = %d, want 1", len(builds))
	}
}

func TestMinerStageTwoFillsLeastFullExtension(t *testing.T) {
	h, _ := minerWorld(t)
	id := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 3, Y: 5}, My: true, Energy: 50, Body: body(model.Work, model.Work, model.Carry)})
	full := h.arena.AddStructure(model.KindExtension, model.Position{X: 4, Y: 5}, true)
	h.arena.SetStructureEnergy(full, 100)
	half := h.arena.AddStructure(model.KindExtension, model.Position{X: 4, Y: 4}, true)
	h.arena.SetStructureEnergy(half, 50)
	empty := h.arena.AddStructure(model.KindExtension, model.Position{X: 3, Y: 4}, true)
	h.cache.Refresh()

	m := h.job(t, Miner, id).(*miner)
	m.assign()
	m.state, m.stage = minerMining, 2
	m.Act()

	got := h.orders(id, substrate.TypeTransfer)
	if len(got) != 1 || got[0].Target != empty {
		t.Errorf("transfers = %+v, want one into %s", got, empty)
	}
}

func TestMinerTowedIntoPlaceStartsStageOne(t *testing.T) {
	h, src := minerWorld(t)
	minerID := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 6, Y: 12}, My: true, Body: body(model.Work, model.Work, model.Carry)})
	tugID := h.arena.AddCreep(sim.CreepSpec{Pos: model.Position{X: 7, Y: 12}, My: true, Body: body(model.Move)})
	m := h.job(t, Miner, minerID).(*miner)
	tg := h.job(t, Tug, tugID)

	ticks := 0
	for ; ticks < 30 && m.state != minerMining; ticks++ {
		h.arena.Step()
		h.cache.Refresh()
		m.Act()
		tg.Act()
	}
	if m.state != minerMining {
		t.Fatalf("miner still in state %d after %d ticks", m.state, ticks)
	}
	if m.stage != 1 {
		t.Errorf("stage = %d, want 1", m.stage)
	}
	if got := h.orders(minerID, substrate.TypeHarvest); len(got) != 1 || got[0].Target != src["top-left"] {
		t.Errorf("harvest orders on arrival = %+v, want one at the top-left source", got)
	}
	if chain := h.cache.TugChain(); len(chain) != 0 {
		t.Errorf("chain = %v, want released", chain)
	}

	// The settle step leaves the miner next to its source.
	h.arena.Step()
	h.cache.Refresh()
	self, _ := h.cache.Creep(minerID)
	if want := (model.Position{X: 3, Y: 4}); self.Pos != want {
		t.Errorf("miner settled at %v, want %v", self.Pos, want)
	}

	for i := 0; i < 10 && !m.sitesSet; i++ {
		m.Act()
		tg.Act()
		h.arena.Step()
		h.cache.Refresh()
	}
	if !m.sitesSet || m.planted == 0 {
		t.Errorf("no extension sites after harvesting; planted = %d", m.planted)
	}
}
