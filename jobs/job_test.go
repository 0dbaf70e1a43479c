package jobs

import (
	"errors"
	"testing"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/sim"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/world"
)

type fakeRoster map[Kind]int

func (r fakeRoster) CountOthers(kind Kind, _ model.ID) int { return r[kind] }

type harness struct {
	arena  *sim.Arena
	cache  *world.Cache
	env    *Env
	reg    *Registry
	roster fakeRoster
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	a := sim.New(cfg)
	cache := world.NewCache(a, cfg)
	reg, err := NewRegistry(cfg)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	roster := fakeRoster{}
	return &harness{
		arena:  a,
		cache:  cache,
		env:    NewEnv(cache, a, roster, ""),
		reg:    reg,
		roster: roster,
	}
}

func (h *harness) job(t *testing.T, kind Kind, id model.ID) Job {
	t.Helper()
	j, err := h.reg.New(kind, 1, id, h.env)
	if err != nil {
		t.Fatalf("New(%s): %v", kind, err)
	}
	return j
}

// orders returns the accepted orders of one type issued by id this tick.
func (h *harness) orders(id model.ID, typ string) []substrate.Order {
	var out []substrate.Order
	for _, o := range h.arena.OrdersFor(id) {
		if o.Type == typ && o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// lastMove returns the target of the last move id issued this tick.
func (h *harness) lastMove(id model.ID) (model.Position, bool) {
	moves := h.orders(id, substrate.TypeMove)
	if len(moves) == 0 {
		return model.Position{}, false
	}
	return moves[len(moves)-1].Pos, true
}

func body(parts ...model.Part) []model.Part { return parts }

func TestRegistryDescriptor(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		kind Kind
		tier int
		cost int
	}{
		{Miner, 1, 250},
		{Hauler, 1, 250},
		{Fighter, 0, 130},
		{Cleric, 1, 500},
		{Tug, 1, 50},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			d, err := h.reg.Descriptor(tc.kind, tc.tier)
			if err != nil {
				t.Fatalf("Descriptor: %v", err)
			}
			if d.Cost != tc.cost {
				t.Errorf("Cost = %d, want %d", d.Cost, tc.cost)
			}
			if d.Tier < 1 {
				t.Errorf("Tier = %d, want >= 1", d.Tier)
			}
		})
	}
}

func TestRegistryUnknownKind(t *testing.T) {
	h := newHarness(t)
	if _, err := h.reg.New("paladin", 1, "x", h.env); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("New(paladin) error = %v, want ErrUnknownJob", err)
	}
	if _, err := h.reg.Descriptor("paladin", 1); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("Descriptor(paladin) error = %v, want ErrUnknownJob", err)
	}
	if _, err := h.reg.Descriptor(Archer, 9); err == nil {
		t.Error("Descriptor(archer, 9) succeeded, want error")
	}
	if _, err := ParseKind("tug"); err != nil {
		t.Errorf("ParseKind(tug): %v", err)
	}
}

func TestRangedJobRequiresSpecialization(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("newRangedJob(nil) did not panic")
		}
	}()
	newRangedJob(Unit{ID: "a", Kind: Archer}, nil)
}

func TestJobsSurviveMissingCreep(t *testing.T) {
	h := newHarness(t)
	h.cache.Refresh()
	for _, k := range Kinds {
		h.job(t, k, "gone").Act()
	}
	if n := len(h.arena.Orders()); n != 0 {
		t.Errorf("orders issued for a missing creep: %d", n)
	}
}
