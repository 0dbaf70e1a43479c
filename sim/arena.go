// Package sim is a small deterministic arena that implements the substrate
// interface in memory. It runs offline matches and backs the package tests;
// it models just enough of the real game (ranges, energy, spawning, pulling,
// simple greedy movement) for the engine's decisions to have effects.
package sim

import (
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/substrate"
)

// Creep components.
type identity struct {
	ID  model.ID
	Seq uint64
	My  bool
}

type placement struct {
	Pos model.Position
}

type anatomy struct {
	Body     []model.Part
	Hits     int
	HitsMax  int
	Spawning bool
}

type cargo struct {
	Energy   int
	Capacity int
}

const (
	hitsPerPart        = 100
	extensionCapacity  = 100
	spawnTicksPerPart  = 3
	defaultSiteTotal   = 200
	defaultSourceStock = 2000
)

type spawnState struct {
	model.Spawn
	dirs     []model.Direction
	hiddenID model.ID
	hiddenAt int // tick the id was hidden
}

type moveIntent struct {
	id     model.ID
	target model.Position
}

// Arena is an in-memory substrate. Creeps live in an ECS world; the handful
// of static objects live in plain slices.
type Arena struct {
	cfg *config.Config

	world  *ecs.World
	creeps *ecs.Map4[identity, placement, anatomy, cargo]
	filter *ecs.Filter4[identity, placement, anatomy, cargo]
	byID   map[model.ID]ecs.Entity
	seq    uint64

	terrain    *model.TerrainGrid
	spawns     []*spawnState
	structures []model.Structure
	sources    []model.Source
	sites      []model.ConstructionSite
	effects    []model.AreaEffect

	tick   int
	orders []substrate.Order
	moves  []moveIntent
	pulled map[model.ID]bool
	won    bool

	// HideSpawningID reports spawning creeps without an id for their first
	// tick, the way the live game sometimes does.
	HideSpawningID bool
}

var _ substrate.Substrate = (*Arena)(nil)

func New(cfg *config.Config) *Arena {
	world := ecs.NewWorld()
	return &Arena{
		cfg:     cfg,
		world:   world,
		creeps:  ecs.NewMap4[identity, placement, anatomy, cargo](world),
		filter:  ecs.NewFilter4[identity, placement, anatomy, cargo](world),
		byID:    make(map[model.ID]ecs.Entity),
		terrain: model.NewTerrainGrid(cfg.Arena.Size, cfg.Arena.Size),
		pulled:  make(map[model.ID]bool),
		tick:    1,
	}
}

func newID() model.ID { return model.ID(uuid.NewString()) }

// CurrentTick is the tick orders are being recorded for.
func (a *Arena) CurrentTick() int { return a.tick }

// Won reports whether the win objective has been completed.
func (a *Arena) Won() bool { return a.won }

// Orders returns the orders issued since the last Step.
func (a *Arena) Orders() []substrate.Order { return a.orders }

// OrdersFor returns the orders one actor issued since the last Step.
func (a *Arena) OrdersFor(id model.ID) []substrate.Order {
	var out []substrate.Order
	for _, o := range a.orders {
		if o.Actor == id {
			out = append(out, o)
		}
	}
	return out
}

// CreepSpec describes a creep placed directly on the map.
type CreepSpec struct {
	Pos    model.Position
	My     bool
	Body   []model.Part
	Energy int
	Hits   int // zero means full health
}

func (a *Arena) AddCreep(spec CreepSpec) model.ID {
	id := newID()
	a.addCreep(id, spec, false)
	return id
}

func (a *Arena) addCreep(id model.ID, spec CreepSpec, spawning bool) {
	a.seq++
	hitsMax := hitsPerPart * len(spec.Body)
	hits := spec.Hits
	if hits <= 0 || hits > hitsMax {
		hits = hitsMax
	}
	capacity := 0
	for _, p := range spec.Body {
		if p == model.Carry {
			capacity += a.cfg.Parts.CarryCapacity
		}
	}
	e := a.creeps.NewEntity(
		&identity{ID: id, Seq: a.seq, My: spec.My},
		&placement{Pos: spec.Pos},
		&anatomy{Body: slices.Clone(spec.Body), Hits: hits, HitsMax: hitsMax, Spawning: spawning},
		&cargo{Energy: min(spec.Energy, capacity), Capacity: capacity},
	)
	a.byID[id] = e
}

// UpdateCreep lets tests adjust a creep in place.
func (a *Arena) UpdateCreep(id model.ID, fn func(c *model.Creep)) bool {
	e, ok := a.byID[id]
	if !ok || !a.world.Alive(e) {
		return false
	}
	ident, place, body, load := a.creeps.Get(e)
	c := snapshot(ident, place, body, load)
	fn(&c)
	place.Pos = c.Pos
	body.Hits = min(c.Hits, body.HitsMax)
	load.Energy = min(c.Energy, load.Capacity)
	return true
}

func (a *Arena) AddSpawn(pos model.Position, my bool, energy int) model.ID {
	id := newID()
	a.spawns = append(a.spawns, &spawnState{Spawn: model.Spawn{
		ID: id, Pos: pos, My: my, Energy: energy, Capacity: 1000,
	}})
	return id
}

func (a *Arena) AddStructure(kind model.StructureKind, pos model.Position, my bool) model.ID {
	id := newID()
	s := model.Structure{ID: id, Kind: kind, Pos: pos, My: my, Hits: 1000}
	if kind == model.KindExtension {
		s.Capacity = extensionCapacity
	}
	a.structures = append(a.structures, s)
	return id
}

// SetStructureEnergy fills an extension or container.
func (a *Arena) SetStructureEnergy(id model.ID, energy int) {
	if i := a.structureIndex(id); i >= 0 {
		a.structures[i].Energy = min(energy, a.structures[i].Capacity)
	}
}

func (a *Arena) AddSource(pos model.Position) model.ID {
	id := newID()
	a.sources = append(a.sources, model.Source{ID: id, Pos: pos, Energy: defaultSourceStock, Capacity: defaultSourceStock})
	return id
}

func (a *Arena) AddConstructionSite(kind model.StructureKind, pos model.Position, my bool, total int) model.ID {
	id := newID()
	if total <= 0 {
		total = defaultSiteTotal
	}
	a.sites = append(a.sites, model.ConstructionSite{ID: id, Kind: kind, Pos: pos, My: my, ProgressTotal: total})
	return id
}

func (a *Arena) AddAreaEffect(pos model.Position, effect model.Effect) {
	a.effects = append(a.effects, model.AreaEffect{Pos: pos, Effect: effect})
}

// Queries.

func (a *Arena) Terrain() *model.TerrainGrid { return a.terrain }

func (a *Arena) Creeps() []model.Creep {
	type entry struct {
		seq   uint64
		creep model.Creep
	}
	var all []entry
	query := a.filter.Query()
	for query.Next() {
		ident, place, body, load := query.Get()
		all = append(all, entry{seq: ident.Seq, creep: snapshot(ident, place, body, load)})
	}
	slices.SortFunc(all, func(x, y entry) int { return int(x.seq) - int(y.seq) })

	out := make([]model.Creep, len(all))
	for i, e := range all {
		out[i] = e.creep
	}
	return out
}

func (a *Arena) Spawns() []model.Spawn {
	out := make([]model.Spawn, 0, len(a.spawns))
	for _, s := range a.spawns {
		cp := s.Spawn
		if s.Spawning != nil {
			info := *s.Spawning
			cp.Spawning = &info
		}
		out = append(out, cp)
	}
	return out
}

func (a *Arena) Structures() []model.Structure { return slices.Clone(a.structures) }
func (a *Arena) Sources() []model.Source       { return slices.Clone(a.sources) }
func (a *Arena) ConstructionSites() []model.ConstructionSite {
	return slices.Clone(a.sites)
}
func (a *Arena) AreaEffects() []model.AreaEffect { return slices.Clone(a.effects) }

func snapshot(ident *identity, place *placement, body *anatomy, load *cargo) model.Creep {
	return model.Creep{
		ID:       ident.ID,
		Pos:      place.Pos,
		My:       ident.My,
		Body:     slices.Clone(body.Body),
		Hits:     body.Hits,
		HitsMax:  body.HitsMax,
		Energy:   load.Energy,
		Capacity: load.Capacity,
		Spawning: body.Spawning,
	}
}

// Step ends the tick: movement resolves, spawns progress, the dead are
// removed and the order log is cleared.
func (a *Arena) Step() {
	a.resolveMoves()
	a.progressSpawns()
	a.removeDead()

	a.orders = nil
	a.moves = nil
	a.pulled = make(map[model.ID]bool)
	a.tick++
}

func (a *Arena) resolveMoves() {
	occupied := make(map[model.Position]model.ID)
	query := a.filter.Query()
	for query.Next() {
		ident, place, body, _ := query.Get()
		if !body.Spawning {
			occupied[place.Pos] = ident.ID
		}
	}

	moved := make(map[model.ID]bool)
	for _, mv := range a.moves {
		if moved[mv.id] {
			continue
		}
		e, ok := a.byID[mv.id]
		if !ok || !a.world.Alive(e) {
			continue
		}
		ident, place, body, _ := a.creeps.Get(e)
		if body.Spawning || place.Pos == mv.target {
			continue
		}
		if !slices.Contains(body.Body, model.Move) && !a.pulled[mv.id] {
			continue
		}
		next, ok := a.nextStep(place.Pos, mv.target, ident.My, occupied)
		if !ok {
			continue
		}
		delete(occupied, place.Pos)
		occupied[next] = mv.id
		place.Pos = next
		moved[mv.id] = true
	}
}

// nextStep picks a greedy single-tile step toward target: diagonal first,
// then each axis alone.
func (a *Arena) nextStep(from, target model.Position, my bool, occupied map[model.Position]model.ID) (model.Position, bool) {
	sx, sy := sign(target.X-from.X), sign(target.Y-from.Y)
	candidates := []model.Position{from.Add(sx, sy)}
	if sx != 0 && sy != 0 {
		candidates = append(candidates, from.Add(sx, 0), from.Add(0, sy))
	}
	for _, c := range candidates {
		if c == from {
			continue
		}
		if _, taken := occupied[c]; taken {
			continue
		}
		if a.walkable(c, my) {
			return c, true
		}
	}
	return from, false
}

func (a *Arena) walkable(p model.Position, my bool) bool {
	if !a.terrain.InBounds(p) || a.terrain.At(p) == model.Wall {
		return false
	}
	for _, s := range a.structures {
		if s.Pos != p {
			continue
		}
		if s.Kind == model.KindWall || s.Kind == model.KindExtension {
			return false
		}
		if s.Kind == model.KindRampart && s.My != my {
			return false
		}
	}
	for _, s := range a.spawns {
		if s.Pos == p {
			return false
		}
	}
	for _, s := range a.sources {
		if s.Pos == p {
			return false
		}
	}
	return true
}

func (a *Arena) progressSpawns() {
	for _, s := range a.spawns {
		if s.Spawning == nil {
			continue
		}
		if s.Spawning.CreepID == "" {
			continue
		}
		s.Spawning.RemainingTime--
		if s.Spawning.RemainingTime > 0 {
			continue
		}
		e, ok := a.byID[s.Spawning.CreepID]
		if !ok || !a.world.Alive(e) {
			s.Spawning = nil
			continue
		}
		ident, place, body, _ := a.creeps.Get(e)
		exit, ok := a.spawnExit(s, ident.My)
		if !ok {
			slog.Debug("spawn exit blocked", "spawn", s.ID)
			continue
		}
		place.Pos = exit
		body.Spawning = false
		s.Spawning = nil
	}
	// Ids hidden when spawning starts stay hidden through the next tick.
	for _, s := range a.spawns {
		if s.Spawning != nil && s.Spawning.CreepID == "" && a.tick > s.hiddenAt {
			s.Spawning.CreepID = s.hiddenID
		}
	}
}

func (a *Arena) spawnExit(s *spawnState, my bool) (model.Position, bool) {
	occupied := make(map[model.Position]model.ID)
	query := a.filter.Query()
	for query.Next() {
		ident, place, body, _ := query.Get()
		if !body.Spawning {
			occupied[place.Pos] = ident.ID
		}
	}
	dirs := s.dirs
	if len(dirs) == 0 {
		dirs = []model.Direction{model.Top, model.TopRight, model.Right, model.BottomRight,
			model.Bottom, model.BottomLeft, model.Left, model.TopLeft}
	}
	for _, d := range dirs {
		p := s.Pos.Step(d)
		if _, taken := occupied[p]; taken {
			continue
		}
		if a.walkable(p, my) {
			return p, true
		}
	}
	return model.Position{}, false
}

func (a *Arena) removeDead() {
	var dead []ecs.Entity
	var ids []model.ID
	query := a.filter.Query()
	for query.Next() {
		ident, _, body, _ := query.Get()
		if body.Hits <= 0 {
			dead = append(dead, query.Entity())
			ids = append(ids, ident.ID)
		}
	}
	// Removal has to wait until the query is exhausted.
	for i, e := range dead {
		a.world.RemoveEntity(e)
		delete(a.byID, ids[i])
	}

	kept := a.structures[:0]
	for _, s := range a.structures {
		if s.Hits > 0 {
			kept = append(kept, s)
		}
	}
	a.structures = kept
}

func (a *Arena) structureIndex(id model.ID) int {
	return slices.IndexFunc(a.structures, func(s model.Structure) bool { return s.ID == id })
}

func (a *Arena) spawnByID(id model.ID) *spawnState {
	for _, s := range a.spawns {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
