package tugchain

import (
	"errors"
	"testing"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/sim"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/world"
)

func setup(t *testing.T) (*sim.Arena, *world.Cache, *Coordinator) {
	t.Helper()
	return setupWith(t, config.Default())
}

func setupWith(t *testing.T, cfg *config.Config) (*sim.Arena, *world.Cache, *Coordinator) {
	t.Helper()
	a := sim.New(cfg)
	c := world.NewCache(a, cfg)
	return a, c, NewCoordinator(c, a)
}

func TestMoveChainEmpty(t *testing.T) {
	_, c, co := setup(t)
	c.Refresh()
	if _, err := co.MoveChain(model.Position{X: 1, Y: 1}); !errors.Is(err, ErrBrokenChain) {
		t.Errorf("MoveChain on empty chain = %v, want ErrBrokenChain", err)
	}
}

func TestMoveChainIssuesPulls(t *testing.T) {
	a, c, co := setup(t)
	miner := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 10, Y: 10}, My: true, Body: []model.Part{model.Work, model.Carry}})
	tug1 := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 11, Y: 10}, My: true, Body: []model.Part{model.Move}})
	tug2 := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 12, Y: 10}, My: true, Body: []model.Part{model.Move}})
	c.Refresh()
	c.ClaimTugChain(miner)
	c.JoinTugChain(tug1)
	c.JoinTugChain(tug2)

	target := model.Position{X: 5, Y: 10}
	status, err := co.MoveChain(target)
	if err != nil || status != Moving {
		t.Fatalf("MoveChain = %v, %v; want moving", status, err)
	}

	want := []substrate.Order{
		{Type: substrate.TypeMove, Actor: miner},
		{Type: substrate.TypePull, Actor: tug1, Target: miner},
		{Type: substrate.TypeMove, Actor: tug1},
		{Type: substrate.TypePull, Actor: tug2, Target: tug1},
		{Type: substrate.TypeMove, Actor: tug2},
	}
	got := a.Orders()
	if len(got) != len(want) {
		t.Fatalf("got %d orders, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Type != w.Type || got[i].Actor != w.Actor || got[i].Target != w.Target {
			t.Errorf("order %d = %+v, want %+v", i, got[i], w)
		}
		if !got[i].OK() {
			t.Errorf("order %d refused: %s", i, got[i].Err)
		}
	}

	a.Step()
	c.Refresh()
	head, _ := c.Creep(miner)
	if head.Pos != (model.Position{X: 9, Y: 10}) {
		t.Errorf("head at %v after one tick, want (9,10)", head.Pos)
	}
}

func TestMoveChainArrival(t *testing.T) {
	tests := []struct {
		name     string
		settle   model.Position
		orders   int
		wantHead model.Position
	}{
		{"default settle steps up one", model.Position{X: 0, Y: -1}, 3, model.Position{X: 10, Y: 9}},
		{"zero settle stays put", model.Position{}, 0, model.Position{X: 10, Y: 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Tug.SettleOffset = tc.settle
			a, c, co := setupWith(t, cfg)
			miner := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 10, Y: 10}, My: true, Body: []model.Part{model.Work}})
			tug := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 11, Y: 10}, My: true, Body: []model.Part{model.Move}})
			c.Refresh()
			c.ClaimTugChain(miner)
			c.JoinTugChain(tug)

			status, err := co.MoveChain(model.Position{X: 10, Y: 10})
			if err != nil || status != Arrived {
				t.Fatalf("MoveChain at target = %v, %v; want arrived", status, err)
			}
			if len(c.TugChain()) != 0 {
				t.Error("chain not released on arrival")
			}
			if got := len(a.Orders()); got != tc.orders {
				t.Errorf("orders = %d, want %d: %+v", got, tc.orders, a.Orders())
			}

			a.Step()
			c.Refresh()
			head, _ := c.Creep(miner)
			if head.Pos != tc.wantHead {
				t.Errorf("head at %v, want %v", head.Pos, tc.wantHead)
			}
		})
	}
}

func TestMoveChainTowsToTarget(t *testing.T) {
	a, c, co := setup(t)
	miner := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 10, Y: 10}, My: true, Body: []model.Part{model.Work, model.Carry}})
	tug := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 11, Y: 10}, My: true, Body: []model.Part{model.Move}})
	c.Refresh()
	c.ClaimTugChain(miner)
	c.JoinTugChain(tug)

	target := model.Position{X: 3, Y: 4}
	calls := 0
	for ; calls < 20; calls++ {
		if calls > 0 {
			c.Refresh()
		}
		head, _ := c.Creep(miner)
		helper, _ := c.Creep(tug)
		if !model.Adjacent(head.Pos, helper.Pos) {
			t.Fatalf("tick %d: tug at %v lost the head at %v", calls, helper.Pos, head.Pos)
		}
		status, err := co.MoveChain(target)
		if err != nil {
			t.Fatalf("tick %d: MoveChain: %v", calls, err)
		}
		a.Step()
		if status == Arrived {
			break
		}
	}
	// Seven towed steps; the eighth call reports arrival.
	if calls != 7 {
		t.Errorf("arrived on call %d, want 7", calls)
	}
	c.Refresh()
	head, _ := c.Creep(miner)
	settled := target.Add(0, -1)
	if head.Pos != settled {
		t.Errorf("head settled at %v, want %v", head.Pos, settled)
	}
	if len(c.TugChain()) != 0 {
		t.Errorf("chain = %v, want released", c.TugChain())
	}
}

func TestMoveChainBrokenMember(t *testing.T) {
	a, c, co := setup(t)
	miner := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 10, Y: 10}, My: true, Body: []model.Part{model.Work}})
	tug := a.AddCreep(sim.CreepSpec{Pos: model.Position{X: 11, Y: 10}, My: true, Body: []model.Part{model.Move}})
	c.Refresh()
	c.ClaimTugChain(miner)
	c.JoinTugChain(tug)

	// A dead helper is pruned on refresh and the head keeps its claim.
	a.UpdateCreep(tug, func(cr *model.Creep) { cr.Hits = 0 })
	a.Step()
	c.Refresh()
	if _, err := co.MoveChain(model.Position{X: 5, Y: 10}); err != nil {
		t.Errorf("pruned chain should still move: %v", err)
	}
	if len(c.TugChain()) != 1 {
		t.Errorf("chain = %v, want head only", c.TugChain())
	}
}
