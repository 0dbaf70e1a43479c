package jobs

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/arena-core/config"
	"github.com/nstehr/vimy/arena-core/model"
)

var factories = map[Kind]func(u Unit) Job{
	Miner:   func(u Unit) Job { return &miner{Unit: u} },
	Hauler:  func(u Unit) Job { return &hauler{Unit: u} },
	Fighter: func(u Unit) Job { return &fighter{Unit: u} },
	Archer:  func(u Unit) Job { return newRangedJob(u, archerSpec{}) },
	Cleric:  func(u Unit) Job { return newRangedJob(u, clericSpec{}) },
	Tug:     func(u Unit) Job { return &tug{Unit: u} },
}

// Registry maps job kinds to their descriptors and constructors.
type Registry struct {
	cfg *config.Config
}

// NewRegistry checks that every job kind has at least one configured body.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	for _, k := range Kinds {
		if len(cfg.Jobs[string(k)]) == 0 {
			return nil, fmt.Errorf("job %s has no configured body", k)
		}
	}
	return &Registry{cfg: cfg}, nil
}

func (r *Registry) Descriptor(kind Kind, tier int) (Descriptor, error) {
	if _, ok := factories[kind]; !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", kind, ErrUnknownJob)
	}
	if tier == 0 {
		tier = 1
	}
	body, ok := r.cfg.Body(string(kind), tier)
	if !ok {
		return Descriptor{}, fmt.Errorf("job %s has no tier %d", kind, tier)
	}
	return Descriptor{Kind: kind, Tier: tier, Body: body, Cost: r.cfg.Parts.Cost(body)}, nil
}

// New builds the job for a freshly spawned creep.
func (r *Registry) New(kind Kind, tier int, id model.ID, env *Env) (Job, error) {
	build, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownJob)
	}
	if tier == 0 {
		tier = 1
	}
	slog.Debug("job created", "unit", id, "job", kind, "tier", tier)
	return build(Unit{ID: id, Kind: kind, Tier: tier, env: env}), nil
}
