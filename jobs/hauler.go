package jobs

import (
	"log/slog"

	"github.com/nstehr/vimy/arena-core/model"
)

type haulerMode int

const (
	haulerMining haulerMode = iota
	haulerHauling
)

func (m haulerMode) String() string {
	if m == haulerHauling {
		return "hauling"
	}
	return "mining"
}

// hauler harvests central sources and carries the energy home: to the
// spawn until the first miner exists, then into the win objective.
type hauler struct {
	Unit
	mode haulerMode
}

func (h *hauler) Act() {
	self, ok := h.self()
	if !ok {
		return
	}

	switch {
	case h.mode == haulerMining && self.Full():
		h.mode = haulerHauling
		slog.Debug("hauler full", "unit", h.ID)
	case h.mode == haulerHauling && self.Energy == 0:
		h.mode = haulerMining
		slog.Debug("hauler empty", "unit", h.ID)
	}

	if h.mode == haulerMining {
		h.harvest(self)
	} else {
		h.deliver(self)
	}
}

func (h *hauler) harvest(self model.Creep) {
	src, ok := h.pickSource(self)
	if !ok {
		slog.Debug("hauler found no source", "unit", h.ID)
		return
	}
	h.approach("harvest", src.Pos, h.env.Act.Harvest(h.ID, src.ID))
}

// pickSource prefers the nearest non-empty source in the central band,
// leaving the corners to the miners.
func (h *hauler) pickSource(self model.Creep) (model.Source, bool) {
	var central, other []model.Source
	for _, s := range h.env.Cache.Sources() {
		if s.Energy == 0 {
			continue
		}
		if h.env.Cache.IsCornerSource(s) {
			other = append(other, s)
		} else {
			central = append(central, s)
		}
	}
	if i := model.Closest(self.Pos, central); i >= 0 {
		return central[i], true
	}
	if i := model.Closest(self.Pos, other); i >= 0 {
		return other[i], true
	}
	return model.Source{}, false
}

func (h *hauler) deliver(self model.Creep) {
	cache := h.env.Cache
	if cache.HasBuiltMiner() && h.env.WinObjective != "" {
		if site, ok := cache.ConstructionSite(h.env.WinObjective); ok {
			h.approach("build", site.Pos, h.env.Act.Build(h.ID, site.ID))
			return
		}
	}
	spawn := cache.MySpawn()
	if spawn == nil {
		slog.Warn("hauler has no spawn to deliver to", "unit", h.ID)
		return
	}
	h.approach("transfer", spawn.Pos, h.env.Act.Transfer(h.ID, spawn.ID))
}
