package model

// ID is the opaque handle the substrate assigns to every game object.
type ID string

// Part is a single body part of a creep.
type Part string

const (
	Move         Part = "move"
	Work         Part = "work"
	Carry        Part = "carry"
	Attack       Part = "attack"
	RangedAttack Part = "ranged_attack"
	Heal         Part = "heal"
	Tough        Part = "tough"
)

// StructureKind classifies placed structures and construction sites.
type StructureKind string

const (
	KindSpawn     StructureKind = "spawn"
	KindExtension StructureKind = "extension"
	KindRampart   StructureKind = "rampart"
	KindWall      StructureKind = "wall"
	KindContainer StructureKind = "container"
	KindObjective StructureKind = "objective"
)

// Effect names an area effect on the map.
type Effect string

const EffectSlowdown Effect = "slowdown"

type Creep struct {
	ID       ID       `json:"id"`
	Pos      Position `json:"pos"`
	My       bool     `json:"my"`
	Body     []Part   `json:"body"`
	Hits     int      `json:"hits"`
	HitsMax  int      `json:"hitsMax"`
	Energy   int      `json:"energy"`
	Capacity int      `json:"capacity"`
	Spawning bool     `json:"spawning"`
}

// Count returns how many parts of kind p the creep carries.
func (c Creep) Count(p Part) int {
	n := 0
	for _, b := range c.Body {
		if b == p {
			n++
		}
	}
	return n
}

func (c Creep) Has(p Part) bool { return c.Count(p) > 0 }

func (c Creep) Damaged() bool { return c.Hits < c.HitsMax }

func (c Creep) Full() bool { return c.Capacity > 0 && c.Energy >= c.Capacity }

func (c Creep) FreeCapacity() int { return c.Capacity - c.Energy }

// Spawning describes the creep currently being produced by a spawn.
// CreepID is empty while the substrate has not yet assigned an id.
type Spawning struct {
	CreepID       ID  `json:"creepId"`
	RemainingTime int `json:"remainingTime"`
}

type Spawn struct {
	ID       ID        `json:"id"`
	Pos      Position  `json:"pos"`
	My       bool      `json:"my"`
	Energy   int       `json:"energy"`
	Capacity int       `json:"capacity"`
	Spawning *Spawning `json:"spawning,omitempty"`
}

func (s Spawn) Busy() bool { return s.Spawning != nil }

type Structure struct {
	ID       ID            `json:"id"`
	Kind     StructureKind `json:"kind"`
	Pos      Position      `json:"pos"`
	My       bool          `json:"my"`
	Hits     int           `json:"hits"`
	Energy   int           `json:"energy"`
	Capacity int           `json:"capacity"`
}

func (s Structure) Full() bool { return s.Capacity > 0 && s.Energy >= s.Capacity }

type Source struct {
	ID       ID       `json:"id"`
	Pos      Position `json:"pos"`
	Energy   int      `json:"energy"`
	Capacity int      `json:"capacity"`
}

type ConstructionSite struct {
	ID            ID            `json:"id"`
	Kind          StructureKind `json:"kind"`
	Pos           Position      `json:"pos"`
	My            bool          `json:"my"`
	Progress      int           `json:"progress"`
	ProgressTotal int           `json:"progressTotal"`
}

type AreaEffect struct {
	Pos    Position `json:"pos"`
	Effect Effect   `json:"effect"`
}

// positioned is satisfied by every object that occupies a tile.
type positioned interface {
	Position() Position
}

func (c Creep) Position() Position            { return c.Pos }
func (s Spawn) Position() Position            { return s.Pos }
func (s Structure) Position() Position        { return s.Pos }
func (s Source) Position() Position           { return s.Pos }
func (c ConstructionSite) Position() Position { return c.Pos }

// Closest returns the index of the item nearest to from by Chebyshev range,
// or -1 for an empty slice. The first item wins ties.
func Closest[T positioned](from Position, items []T) int {
	best, bestRange := -1, 0
	for i, it := range items {
		r := Range(from, it.Position())
		if best < 0 || r < bestRange {
			best, bestRange = i, r
		}
	}
	return best
}

// Within returns the items at Chebyshev range <= r from from.
func Within[T positioned](from Position, items []T, r int) []T {
	var out []T
	for _, it := range items {
		if Range(from, it.Position()) <= r {
			out = append(out, it)
		}
	}
	return out
}
