package jobs

import (
	"errors"
	"log/slog"

	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/tugchain"
)

type minerState int

const (
	minerUnassigned minerState = iota
	minerMoving
	minerMining
	minerInert
)

// miner sits on a corner source for the rest of the game. It has no MOVE
// parts, so it is towed into place by the tug chain, then rings itself with
// extensions (stage 1) and keeps them filled (stage 2).
type miner struct {
	Unit
	state    minerState
	source   model.Source
	target   model.Position
	stage    int
	planted  int
	sitesSet bool
}

func (m *miner) Act() {
	self, ok := m.self()
	if !ok {
		return
	}
	if m.initialTransfer(self) {
		return
	}

	if m.state == minerUnassigned {
		m.assign()
	}
	switch m.state {
	case minerInert:
		return
	case minerMoving:
		if !m.travel(self) {
			return
		}
	}
	m.mine(self)
}

// initialTransfer seeds the win objective with the spawn's starting energy.
// The first miner is spawned adjacent to both, so it needs no movement.
// Reports whether it used the tick.
func (m *miner) initialTransfer(self model.Creep) bool {
	cache := m.env.Cache
	if cache.InitialTransferDone() {
		return false
	}
	spawn := cache.MySpawn()
	site, ok := cache.ConstructionSite(m.env.WinObjective)
	if spawn == nil || !ok {
		cache.MarkInitialTransferDone()
		return false
	}
	if self.Energy == 0 {
		if err := m.env.Act.Withdraw(m.ID, spawn.ID); err != nil {
			slog.Warn("initial withdraw failed", "unit", m.ID, "error", err)
			cache.MarkInitialTransferDone()
			return false
		}
		return true
	}
	if err := m.env.Act.Build(m.ID, site.ID); err != nil {
		slog.Warn("initial objective build failed", "unit", m.ID, "error", err)
	} else {
		slog.Info("initial energy transferred to objective", "unit", m.ID, "energy", self.Energy)
	}
	cache.MarkInitialTransferDone()
	return true
}

func (m *miner) assign() {
	index := m.env.Roster.CountOthers(Miner, m.ID)
	src, ok := m.pickSource(index)
	if !ok {
		slog.Warn("miner could not be assigned a source", "unit", m.ID, "index", index)
		m.state = minerInert
		return
	}
	pos, ok := m.miningPosition(src)
	if !ok {
		slog.Warn("miner found no mining position", "unit", m.ID, "source", src.ID)
		m.state = minerInert
		return
	}
	m.source, m.target = src, pos
	m.state, m.stage = minerMoving, 1
	slog.Info("miner assigned", "unit", m.ID, "index", index, "source", src.ID, "position", pos)
}

// leftSide reports whether our spawn is on the low-x half of the arena.
func (m *miner) leftSide() bool {
	spawn := m.env.Cache.MySpawn()
	return spawn == nil || spawn.Pos.X < m.env.Config.Arena.Size/2
}

// pickSource gives miner 0 the top corner source and miner 1 the bottom one,
// each the candidate nearest our side of the map.
func (m *miner) pickSource(index int) (model.Source, bool) {
	arena := m.env.Config.Arena
	var inBand func(model.Source) bool
	switch index {
	case 0:
		inBand = func(s model.Source) bool { return s.Pos.Y < arena.CornerTop }
	case 1:
		inBand = func(s model.Source) bool { return s.Pos.Y > arena.CornerBottom }
	default:
		return model.Source{}, false
	}

	left := m.leftSide()
	var best model.Source
	found := false
	for _, s := range m.env.Cache.Sources() {
		if !inBand(s) {
			continue
		}
		if !found || (left && s.Pos.X < best.Pos.X) || (!left && s.Pos.X > best.Pos.X) {
			best, found = s, true
		}
	}
	return best, found
}

// miningPosition picks the cardinal neighbour of the source facing the
// middle of the map, falling back to any open cardinal neighbour. The tile
// the tug chain's settle step lands on must still reach the source.
func (m *miner) miningPosition(src model.Source) (model.Position, bool) {
	settle := m.env.Config.Tug.SettleOffset
	horizontal := model.Right
	if !m.leftSide() {
		horizontal = model.Left
	}
	vertical := model.Bottom
	if src.Pos.Y >= m.env.Config.Arena.Size/2 {
		vertical = model.Top
	}

	order := []model.Direction{horizontal, vertical, model.Top, model.Right, model.Bottom, model.Left}
	for _, d := range order {
		p := src.Pos.Step(d)
		if !m.env.Terrain.IsValidPosition(p) || m.env.Terrain.IsWall(p) {
			continue
		}
		if model.Range(p.Add(settle.X, settle.Y), src.Pos) <= 1 {
			return p, true
		}
	}
	return model.Position{}, false
}

// travel drives the tug chain toward the mining tile. Returns true once the
// miner is in place and may start mining this tick.
func (m *miner) travel(self model.Creep) bool {
	cache := m.env.Cache
	chain := cache.TugChain()
	owns := len(chain) > 0 && chain[0] == m.ID

	if !owns {
		if self.Pos == m.target {
			m.arrive()
			return true
		}
		if len(chain) > 0 {
			// Another miner is being towed.
			return false
		}
		cache.ClaimTugChain(m.ID)
	}

	status, err := m.env.Chain.MoveChain(m.target)
	if err != nil {
		if !errors.Is(err, tugchain.ErrBrokenChain) {
			slog.Warn("tug chain move failed", "unit", m.ID, "error", err)
		}
		return false
	}
	if status == tugchain.Arrived {
		m.arrive()
		return true
	}
	return false
}

func (m *miner) arrive() {
	m.state = minerMining
	slog.Info("miner arrived at mining position", "unit", m.ID, "position", m.target)
}

func (m *miner) mine(self model.Creep) {
	parts := m.env.Config.Parts
	work := self.Count(model.Work)

	if m.stage == 1 {
		if self.Energy < parts.BuildPower*work {
			m.harvest()
			return
		}
		if !m.sitesSet {
			m.planted = m.plantExtensions(self)
			m.sitesSet = true
		}
		if m.buildAdjacent(self) {
			return
		}
		if len(m.adjacentExtensions(self)) >= m.planted {
			m.stage = 2
			slog.Info("miner extensions complete", "unit", m.ID, "extensions", m.planted)
		}
		return
	}

	reserve := min(m.env.Config.Miner.StageTwoReserve, self.Capacity-parts.HarvestPower*work)
	if self.Energy < reserve {
		m.harvest()
		return
	}
	m.fillExtension(self)
}

func (m *miner) harvest() {
	if err := m.env.Act.Harvest(m.ID, m.source.ID); err != nil {
		slog.Debug("miner harvest refused", "unit", m.ID, "source", m.source.ID, "error", err)
	}
}

func (m *miner) plantExtensions(self model.Creep) int {
	limit := m.env.Config.Miner.Extensions
	planted := 0
	for _, p := range self.Pos.Neighbors() {
		if planted >= limit {
			break
		}
		if p == m.source.Pos || !m.env.Terrain.IsValidPosition(p) || m.env.Terrain.IsWall(p) {
			continue
		}
		if _, err := m.env.Act.CreateConstructionSite(p, model.KindExtension); err != nil {
			slog.Debug("extension site refused", "unit", m.ID, "position", p, "error", err)
			continue
		}
		planted++
	}
	if planted < limit {
		slog.Info("miner planted fewer extensions than planned", "unit", m.ID, "planted", planted, "wanted", limit)
	}
	return planted
}

func (m *miner) buildAdjacent(self model.Creep) bool {
	near := model.Within(self.Pos, m.env.Cache.MyConstructionSites(), 1)
	i := model.Closest(self.Pos, near)
	if i < 0 {
		return false
	}
	if err := m.env.Act.Build(m.ID, near[i].ID); err != nil {
		slog.Debug("miner build refused", "unit", m.ID, "site", near[i].ID, "error", err)
	}
	return true
}

func (m *miner) adjacentExtensions(self model.Creep) []model.Structure {
	return model.Within(self.Pos, m.env.Cache.MyExtensions(), 1)
}

// fillExtension tops up the emptiest adjacent extension that still has room.
func (m *miner) fillExtension(self model.Creep) {
	var target *model.Structure
	for _, ext := range m.adjacentExtensions(self) {
		if ext.Full() {
			continue
		}
		if target == nil || ext.Energy < target.Energy {
			ext := ext
			target = &ext
		}
	}
	if target == nil {
		return
	}
	if err := m.env.Act.Transfer(m.ID, target.ID); err != nil {
		slog.Debug("miner transfer refused", "unit", m.ID, "extension", target.ID, "error", err)
	}
}
