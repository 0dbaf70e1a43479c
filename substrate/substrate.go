// Package substrate is the narrow boundary between the decision engine and
// the game runtime. The engine reads world state through Queries and issues
// at most one primitive per action slot per unit per tick through Actions.
package substrate

import (
	"errors"

	"github.com/nstehr/vimy/arena-core/model"
)

// Expected refusals. Callers test with errors.Is and usually react locally,
// most often by moving toward the target on ErrNotInRange.
var (
	ErrNotInRange      = errors.New("not in range")
	ErrBusy            = errors.New("busy")
	ErrNotEnoughEnergy = errors.New("not enough energy")
	ErrInvalidTarget   = errors.New("invalid target")
	ErrNoBodyPart      = errors.New("no body part")
	ErrFull            = errors.New("full")
	ErrNotOwner        = errors.New("not owner")
	ErrTired           = errors.New("tired")
	ErrInvalidArgs     = errors.New("invalid arguments")
)

// Queries exposes the world as plain snapshots. Every call allocates, so the
// engine calls each of them once per tick through the world cache.
type Queries interface {
	Creeps() []model.Creep
	Spawns() []model.Spawn
	Structures() []model.Structure
	Sources() []model.Source
	ConstructionSites() []model.ConstructionSite
	AreaEffects() []model.AreaEffect
	Terrain() *model.TerrainGrid
}

// Actions are the atomic primitives a unit or spawn can perform. Pathing and
// collision live behind MoveTo.
type Actions interface {
	MoveTo(id model.ID, target model.Position) error
	Attack(id, target model.ID) error
	RangedAttack(id, target model.ID) error
	Heal(id, target model.ID) error
	RangedHeal(id, target model.ID) error
	Harvest(id, source model.ID) error
	Build(id, site model.ID) error
	Transfer(id, target model.ID) error
	Withdraw(id, target model.ID) error
	Pull(id, target model.ID) error
	SetSpawnDirections(spawn model.ID, dirs []model.Direction) error
	SpawnCreep(spawn model.ID, body []model.Part) (model.ID, error)
	CreateConstructionSite(pos model.Position, kind model.StructureKind) (model.ID, error)
}

type Substrate interface {
	Queries
	Actions
}
