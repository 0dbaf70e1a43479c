// Package world holds the per-tick snapshot every decision reads from.
package world

import (
	"log/slog"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/substrate"
)

// FortifiedMiner is an enemy worker dug in on a rampart next to a corner
// source, which ranged units cannot dislodge by kiting.
type FortifiedMiner struct {
	Creep   model.Creep
	Rampart model.Structure
	Source  model.Source
}

// Cache queries the substrate once per tick and serves the results to every
// job. It also owns the small amount of state that outlives a tick: the tug
// chain and two one-way flags.
type Cache struct {
	q   substrate.Queries
	cfg *config.Config

	tick int

	mySpawn    *model.Spawn
	enemySpawn *model.Spawn

	myCreeps    []model.Creep
	enemyCreeps []model.Creep
	allCreeps   []model.Creep
	creepsByID  map[model.ID]model.Creep
	occupied    map[model.Position]model.ID

	ramparts     []model.Structure
	walls        []model.Structure
	myExtensions []model.Structure
	structsAt    map[model.Position][]model.Structure

	sources     []model.Source
	sites       []model.ConstructionSite
	sitesByID   map[model.ID]model.ConstructionSite
	areaEffects []model.AreaEffect
	terrain     *model.TerrainGrid

	fortified *FortifiedMiner

	tugChain            []model.ID
	hasBuiltMiner       bool
	initialTransferDone bool
}

func NewCache(q substrate.Queries, cfg *config.Config) *Cache {
	return &Cache{q: q, cfg: cfg}
}

// Refresh replaces the snapshot with the current world state. Must be called
// exactly once at the start of each tick, before any job acts.
func (c *Cache) Refresh() {
	c.tick++
	c.terrain = c.q.Terrain()

	c.mySpawn, c.enemySpawn = nil, nil
	for _, s := range c.q.Spawns() {
		s := s
		if s.My {
			if c.mySpawn == nil {
				c.mySpawn = &s
			}
		} else if c.enemySpawn == nil {
			c.enemySpawn = &s
		}
	}

	c.allCreeps = c.q.Creeps()
	c.myCreeps = nil
	c.enemyCreeps = nil
	c.creepsByID = make(map[model.ID]model.Creep, len(c.allCreeps))
	c.occupied = make(map[model.Position]model.ID, len(c.allCreeps))
	for _, cr := range c.allCreeps {
		c.creepsByID[cr.ID] = cr
		if !cr.Spawning {
			c.occupied[cr.Pos] = cr.ID
		}
		if cr.My {
			c.myCreeps = append(c.myCreeps, cr)
		} else {
			c.enemyCreeps = append(c.enemyCreeps, cr)
		}
	}

	c.ramparts = nil
	c.walls = nil
	c.myExtensions = nil
	c.structsAt = make(map[model.Position][]model.Structure)
	for _, s := range c.q.Structures() {
		c.structsAt[s.Pos] = append(c.structsAt[s.Pos], s)
		switch s.Kind {
		case model.KindRampart:
			c.ramparts = append(c.ramparts, s)
		case model.KindWall:
			c.walls = append(c.walls, s)
		case model.KindExtension:
			if s.My {
				c.myExtensions = append(c.myExtensions, s)
			}
		}
	}

	c.sources = c.q.Sources()
	c.sites = nil
	c.sitesByID = make(map[model.ID]model.ConstructionSite)
	for _, s := range c.q.ConstructionSites() {
		if s.My {
			c.sites = append(c.sites, s)
			c.sitesByID[s.ID] = s
		}
	}
	c.areaEffects = c.q.AreaEffects()

	c.pruneTugChain()
	c.fortified = c.detectFortifiedMiner()
}

func (c *Cache) Tick() int                   { return c.tick }
func (c *Cache) Config() *config.Config      { return c.cfg }
func (c *Cache) MySpawn() *model.Spawn       { return c.mySpawn }
func (c *Cache) EnemySpawn() *model.Spawn    { return c.enemySpawn }
func (c *Cache) MyCreeps() []model.Creep     { return c.myCreeps }
func (c *Cache) EnemyCreeps() []model.Creep  { return c.enemyCreeps }
func (c *Cache) AllCreeps() []model.Creep    { return c.allCreeps }
func (c *Cache) Ramparts() []model.Structure { return c.ramparts }
func (c *Cache) Walls() []model.Structure    { return c.walls }
func (c *Cache) Sources() []model.Source     { return c.sources }

func (c *Cache) AreaEffects() []model.AreaEffect               { return c.areaEffects }
func (c *Cache) MyExtensions() []model.Structure               { return c.myExtensions }
func (c *Cache) MyConstructionSites() []model.ConstructionSite { return c.sites }
func (c *Cache) FortifiedMiner() *FortifiedMiner               { return c.fortified }

// Creep looks up a creep by id in the current snapshot. A false result means
// the creep no longer exists.
func (c *Cache) Creep(id model.ID) (model.Creep, bool) {
	cr, ok := c.creepsByID[id]
	return cr, ok
}

func (c *Cache) ConstructionSite(id model.ID) (model.ConstructionSite, bool) {
	s, ok := c.sitesByID[id]
	return s, ok
}

// OccupiedBy returns the creep standing on p, if any. Creeps still inside a
// spawn do not occupy a tile.
func (c *Cache) OccupiedBy(p model.Position) (model.ID, bool) {
	id, ok := c.occupied[p]
	return id, ok
}

func (c *Cache) TerrainAt(p model.Position) model.TerrainType {
	if c.terrain == nil {
		return model.Plain
	}
	return c.terrain.At(p)
}

func (c *Cache) StructuresAt(p model.Position) []model.Structure { return c.structsAt[p] }

// MyRamparts returns own ramparts. Computed on demand since few callers need
// the split.
func (c *Cache) MyRamparts() []model.Structure {
	var out []model.Structure
	for _, r := range c.ramparts {
		if r.My {
			out = append(out, r)
		}
	}
	return out
}

func (c *Cache) EnemyRamparts() []model.Structure {
	var out []model.Structure
	for _, r := range c.ramparts {
		if !r.My {
			out = append(out, r)
		}
	}
	return out
}

func (c *Cache) EnemyRampartAt(p model.Position) (model.Structure, bool) {
	for _, s := range c.structsAt[p] {
		if s.Kind == model.KindRampart && !s.My {
			return s, true
		}
	}
	return model.Structure{}, false
}

func (c *Cache) MyRampartAt(p model.Position) (model.Structure, bool) {
	for _, s := range c.structsAt[p] {
		if s.Kind == model.KindRampart && s.My {
			return s, true
		}
	}
	return model.Structure{}, false
}

// IsCornerSource reports whether a source sits in the top or bottom corner
// band rather than the contested middle.
func (c *Cache) IsCornerSource(s model.Source) bool {
	return s.Pos.Y < c.cfg.Arena.CornerTop || s.Pos.Y > c.cfg.Arena.CornerBottom
}

// detectFortifiedMiner finds the first enemy worker standing on an enemy
// rampart within range of a corner source.
func (c *Cache) detectFortifiedMiner() *FortifiedMiner {
	radius := c.cfg.Combat.FortifiedMinerRadius
	for _, e := range c.enemyCreeps {
		if !e.Has(model.Work) {
			continue
		}
		rampart, ok := c.EnemyRampartAt(e.Pos)
		if !ok {
			continue
		}
		for _, s := range c.sources {
			if c.IsCornerSource(s) && model.Range(e.Pos, s.Pos) <= radius {
				return &FortifiedMiner{Creep: e, Rampart: rampart, Source: s}
			}
		}
	}
	return nil
}

// HasBuiltMiner is true once any miner has been registered this game.
func (c *Cache) HasBuiltMiner() bool { return c.hasBuiltMiner }
func (c *Cache) MarkMinerBuilt()     { c.hasBuiltMiner = true }

// InitialTransferDone is true once the first miner has seeded the win
// objective.
func (c *Cache) InitialTransferDone() bool { return c.initialTransferDone }
func (c *Cache) MarkInitialTransferDone()  { c.initialTransferDone = true }

// TugChain returns the current chain: index 0 is the unit being moved, the
// rest are helpers in the order they joined.
func (c *Cache) TugChain() []model.ID { return c.tugChain }

// ClaimTugChain starts a new chain headed by id. Fails if a chain exists.
func (c *Cache) ClaimTugChain(id model.ID) bool {
	if len(c.tugChain) > 0 {
		return false
	}
	c.tugChain = []model.ID{id}
	slog.Debug("tug chain claimed", "head", id)
	return true
}

// JoinTugChain appends id to the chain. A helper may only join when it is
// adjacent to the current last member, so the chain stays contiguous.
func (c *Cache) JoinTugChain(id model.ID) bool {
	if len(c.tugChain) == 0 {
		return false
	}
	for _, m := range c.tugChain {
		if m == id {
			return false
		}
	}
	joiner, ok := c.creepsByID[id]
	if !ok {
		return false
	}
	last, ok := c.creepsByID[c.tugChain[len(c.tugChain)-1]]
	if !ok || !model.Adjacent(joiner.Pos, last.Pos) {
		return false
	}
	c.tugChain = append(c.tugChain, id)
	slog.Debug("tug joined chain", "tug", id, "length", len(c.tugChain))
	return true
}

func (c *Cache) ClearTugChain() { c.tugChain = nil }

// pruneTugChain drops dead helpers. A dead head dissolves the whole chain so
// the helpers become free for the next miner.
func (c *Cache) pruneTugChain() {
	if len(c.tugChain) == 0 {
		return
	}
	if _, ok := c.creepsByID[c.tugChain[0]]; !ok {
		slog.Info("tug chain head lost, dissolving chain", "head", c.tugChain[0])
		c.tugChain = nil
		return
	}
	alive := c.tugChain[:1]
	for _, id := range c.tugChain[1:] {
		if _, ok := c.creepsByID[id]; ok {
			alive = append(alive, id)
		}
	}
	c.tugChain = alive
}
