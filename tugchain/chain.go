// Package tugchain moves a unit with no MOVE parts by having helper units
// pull it along as a chain.
package tugchain

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/substrate"
	"github.com/nstehr/vimy/arena-core/world"
)

// ErrBrokenChain is returned when the chain is empty or a member is gone.
var ErrBrokenChain = errors.New("tug chain broken")

// Status is the outcome of one MoveChain call.
type Status int

const (
	Moving Status = iota
	Arrived
)

func (s Status) String() string {
	if s == Arrived {
		return "arrived"
	}
	return "moving"
}

// Coordinator issues the per-tick pull/move orders for the cached chain.
type Coordinator struct {
	cache  *world.Cache
	act    substrate.Actions
	settle model.Position
}

func NewCoordinator(cache *world.Cache, act substrate.Actions) *Coordinator {
	return &Coordinator{cache: cache, act: act, settle: cache.Config().Tug.SettleOffset}
}

// MoveChain advances the chain one tick toward target. It must be called
// every tick while the chain is active; pulls do not persist.
//
// When the head is already on target the chain is released and Arrived is
// returned; with a settle offset configured the helpers tow the head one
// last step to target plus the offset. Otherwise the head moves toward
// target and each helper i pulls member i-1 and follows it.
func (co *Coordinator) MoveChain(target model.Position) (Status, error) {
	chain := co.cache.TugChain()
	if len(chain) == 0 {
		return Moving, ErrBrokenChain
	}
	members := make([]model.Creep, len(chain))
	for i, id := range chain {
		c, ok := co.cache.Creep(id)
		if !ok {
			return Moving, fmt.Errorf("member %s: %w", id, ErrBrokenChain)
		}
		members[i] = c
	}

	head := members[0]
	if head.Pos != target {
		co.tow(members, target)
		return Moving, nil
	}

	if co.settle != (model.Position{}) {
		co.tow(members, target.Add(co.settle.X, co.settle.Y))
	}
	co.cache.ClearTugChain()
	slog.Info("tug chain arrived", "head", head.ID, "target", target, "helpers", len(chain)-1)
	return Arrived, nil
}

// tow moves the head toward dest and has every helper pull its predecessor
// and step after it.
func (co *Coordinator) tow(members []model.Creep, dest model.Position) {
	head := members[0]
	if err := co.act.MoveTo(head.ID, dest); err != nil {
		slog.Debug("chain head move refused", "head", head.ID, "error", err)
	}
	for i := 1; i < len(members); i++ {
		prev, cur := members[i-1], members[i]
		if err := co.act.Pull(cur.ID, prev.ID); err != nil {
			slog.Debug("tug pull refused", "tug", cur.ID, "target", prev.ID, "error", err)
		}
		if err := co.act.MoveTo(cur.ID, prev.Pos); err != nil {
			slog.Debug("tug follow refused", "tug", cur.ID, "error", err)
		}
	}
}
