package sim

import (
	"fmt"
	"slices"

	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/substrate"
)

// record appends an order to the log and passes err through.
func (a *Arena) record(typ string, actor, target model.ID, pos model.Position, err error) error {
	o := substrate.Order{Tick: a.tick, Type: typ, Actor: actor, Target: target, Pos: pos}
	if err != nil {
		o.Err = err.Error()
	}
	a.orders = append(a.orders, o)
	return err
}

// actor resolves an own, already spawned creep.
func (a *Arena) actor(id model.ID) (*identity, *placement, *anatomy, *cargo, error) {
	e, ok := a.byID[id]
	if !ok || !a.world.Alive(e) {
		return nil, nil, nil, nil, fmt.Errorf("creep %s: %w", id, substrate.ErrInvalidTarget)
	}
	ident, place, body, load := a.creeps.Get(e)
	if !ident.My {
		return nil, nil, nil, nil, substrate.ErrNotOwner
	}
	if body.Spawning {
		return nil, nil, nil, nil, substrate.ErrBusy
	}
	return ident, place, body, load, nil
}

func (a *Arena) creepByID(id model.ID) (*identity, *placement, *anatomy, *cargo, bool) {
	e, ok := a.byID[id]
	if !ok || !a.world.Alive(e) {
		return nil, nil, nil, nil, false
	}
	ident, place, body, load := a.creeps.Get(e)
	return ident, place, body, load, true
}

func countParts(body []model.Part, p model.Part) int {
	n := 0
	for _, b := range body {
		if b == p {
			n++
		}
	}
	return n
}

func (a *Arena) MoveTo(id model.ID, target model.Position) error {
	_, _, _, _, err := a.actor(id)
	if err == nil {
		a.moves = append(a.moves, moveIntent{id: id, target: target})
	}
	return a.record(substrate.TypeMove, id, "", target, err)
}

func (a *Arena) Pull(id, target model.ID) error {
	return a.record(substrate.TypePull, id, target, model.Position{}, a.pull(id, target))
}

func (a *Arena) pull(id, target model.ID) error {
	_, place, body, _, err := a.actor(id)
	if err != nil {
		return err
	}
	if !slices.Contains(body.Body, model.Move) {
		return substrate.ErrNoBodyPart
	}
	_, tplace, _, _, ok := a.creepByID(target)
	if !ok {
		return substrate.ErrInvalidTarget
	}
	if !model.Adjacent(place.Pos, tplace.Pos) {
		return substrate.ErrNotInRange
	}
	a.pulled[target] = true
	return nil
}

func (a *Arena) Attack(id, target model.ID) error {
	return a.record(substrate.TypeAttack, id, target, model.Position{},
		a.damage(id, target, model.Attack, 1, a.cfg.Combat.AttackPower))
}

func (a *Arena) RangedAttack(id, target model.ID) error {
	return a.record(substrate.TypeRangedAttack, id, target, model.Position{},
		a.damage(id, target, model.RangedAttack, 3, a.cfg.Combat.RangedAttackPower))
}

func (a *Arena) damage(id, target model.ID, part model.Part, reach int, power float64) error {
	_, place, body, _, err := a.actor(id)
	if err != nil {
		return err
	}
	parts := countParts(body.Body, part)
	if parts == 0 {
		return substrate.ErrNoBodyPart
	}
	amount := int(power) * parts

	if _, tplace, tbody, _, ok := a.creepByID(target); ok {
		if model.Range(place.Pos, tplace.Pos) > reach {
			return substrate.ErrNotInRange
		}
		tbody.Hits -= amount
		return nil
	}
	if i := a.structureIndex(target); i >= 0 {
		if model.Range(place.Pos, a.structures[i].Pos) > reach {
			return substrate.ErrNotInRange
		}
		a.structures[i].Hits -= amount
		return nil
	}
	if s := a.spawnByID(target); s != nil {
		if model.Range(place.Pos, s.Pos) > reach {
			return substrate.ErrNotInRange
		}
		return nil
	}
	return substrate.ErrInvalidTarget
}

func (a *Arena) Heal(id, target model.ID) error {
	return a.record(substrate.TypeHeal, id, target, model.Position{},
		a.heal(id, target, 1, a.cfg.Combat.HealPower))
}

func (a *Arena) RangedHeal(id, target model.ID) error {
	return a.record(substrate.TypeRangedHeal, id, target, model.Position{},
		a.heal(id, target, 3, a.cfg.Combat.HealPower/3))
}

func (a *Arena) heal(id, target model.ID, reach int, power float64) error {
	_, place, body, _, err := a.actor(id)
	if err != nil {
		return err
	}
	parts := countParts(body.Body, model.Heal)
	if parts == 0 {
		return substrate.ErrNoBodyPart
	}
	_, tplace, tbody, _, ok := a.creepByID(target)
	if !ok {
		return substrate.ErrInvalidTarget
	}
	if model.Range(place.Pos, tplace.Pos) > reach {
		return substrate.ErrNotInRange
	}
	tbody.Hits = min(tbody.HitsMax, tbody.Hits+int(power)*parts)
	return nil
}

func (a *Arena) Harvest(id, source model.ID) error {
	return a.record(substrate.TypeHarvest, id, source, model.Position{}, a.harvest(id, source))
}

func (a *Arena) harvest(id, source model.ID) error {
	_, place, body, load, err := a.actor(id)
	if err != nil {
		return err
	}
	work := countParts(body.Body, model.Work)
	if work == 0 {
		return substrate.ErrNoBodyPart
	}
	i := slices.IndexFunc(a.sources, func(s model.Source) bool { return s.ID == source })
	if i < 0 {
		return substrate.ErrInvalidTarget
	}
	if !model.Adjacent(place.Pos, a.sources[i].Pos) {
		return substrate.ErrNotInRange
	}
	if load.Energy >= load.Capacity {
		return substrate.ErrFull
	}
	if a.sources[i].Energy == 0 {
		return substrate.ErrNotEnoughEnergy
	}
	amount := min(work*a.cfg.Parts.HarvestPower, load.Capacity-load.Energy, a.sources[i].Energy)
	a.sources[i].Energy -= amount
	load.Energy += amount
	return nil
}

func (a *Arena) Transfer(id, target model.ID) error {
	return a.record(substrate.TypeTransfer, id, target, model.Position{}, a.transfer(id, target))
}

func (a *Arena) transfer(id, target model.ID) error {
	_, place, _, load, err := a.actor(id)
	if err != nil {
		return err
	}
	if load.Energy == 0 {
		return substrate.ErrNotEnoughEnergy
	}

	var pos model.Position
	var stored, capacity *int
	switch {
	case a.spawnByID(target) != nil:
		s := a.spawnByID(target)
		pos, stored, capacity = s.Pos, &s.Energy, &s.Capacity
	case a.structureIndex(target) >= 0:
		s := &a.structures[a.structureIndex(target)]
		pos, stored, capacity = s.Pos, &s.Energy, &s.Capacity
	default:
		_, tplace, _, tload, ok := a.creepByID(target)
		if !ok {
			return substrate.ErrInvalidTarget
		}
		pos, stored, capacity = tplace.Pos, &tload.Energy, &tload.Capacity
	}

	if !model.Adjacent(place.Pos, pos) {
		return substrate.ErrNotInRange
	}
	free := *capacity - *stored
	if free <= 0 {
		return substrate.ErrFull
	}
	amount := min(free, load.Energy)
	*stored += amount
	load.Energy -= amount
	return nil
}

func (a *Arena) Withdraw(id, target model.ID) error {
	return a.record(substrate.TypeWithdraw, id, target, model.Position{}, a.withdraw(id, target))
}

func (a *Arena) withdraw(id, target model.ID) error {
	_, place, _, load, err := a.actor(id)
	if err != nil {
		return err
	}
	var pos model.Position
	var stored *int
	switch {
	case a.spawnByID(target) != nil:
		s := a.spawnByID(target)
		pos, stored = s.Pos, &s.Energy
	case a.structureIndex(target) >= 0:
		s := &a.structures[a.structureIndex(target)]
		pos, stored = s.Pos, &s.Energy
	default:
		return substrate.ErrInvalidTarget
	}
	if !model.Adjacent(place.Pos, pos) {
		return substrate.ErrNotInRange
	}
	if load.Energy >= load.Capacity {
		return substrate.ErrFull
	}
	if *stored == 0 {
		return substrate.ErrNotEnoughEnergy
	}
	amount := min(*stored, load.Capacity-load.Energy)
	*stored -= amount
	load.Energy += amount
	return nil
}

func (a *Arena) Build(id, site model.ID) error {
	return a.record(substrate.TypeBuild, id, site, model.Position{}, a.build(id, site))
}

func (a *Arena) build(id, site model.ID) error {
	_, place, body, load, err := a.actor(id)
	if err != nil {
		return err
	}
	work := countParts(body.Body, model.Work)
	if work == 0 {
		return substrate.ErrNoBodyPart
	}
	i := slices.IndexFunc(a.sites, func(s model.ConstructionSite) bool { return s.ID == site })
	if i < 0 {
		return substrate.ErrInvalidTarget
	}
	if model.Range(place.Pos, a.sites[i].Pos) > 3 {
		return substrate.ErrNotInRange
	}
	if load.Energy == 0 {
		return substrate.ErrNotEnoughEnergy
	}
	s := &a.sites[i]
	amount := min(load.Energy, work*a.cfg.Parts.BuildPower, s.ProgressTotal-s.Progress)
	s.Progress += amount
	load.Energy -= amount
	if s.Progress >= s.ProgressTotal {
		a.completeSite(i)
	}
	return nil
}

func (a *Arena) completeSite(i int) {
	s := a.sites[i]
	a.sites = slices.Delete(a.sites, i, i+1)
	if s.Kind == model.KindObjective {
		a.won = true
		return
	}
	st := model.Structure{ID: s.ID, Kind: s.Kind, Pos: s.Pos, My: s.My, Hits: 1000}
	if s.Kind == model.KindExtension {
		st.Capacity = extensionCapacity
	}
	a.structures = append(a.structures, st)
}

func (a *Arena) SetSpawnDirections(spawn model.ID, dirs []model.Direction) error {
	var err error
	if s := a.spawnByID(spawn); s == nil {
		err = substrate.ErrInvalidTarget
	} else if !s.My {
		err = substrate.ErrNotOwner
	} else if len(dirs) == 0 {
		err = substrate.ErrInvalidArgs
	} else {
		s.dirs = slices.Clone(dirs)
	}
	return a.record(substrate.TypeSpawnDirs, spawn, "", model.Position{}, err)
}

func (a *Arena) SpawnCreep(spawn model.ID, body []model.Part) (model.ID, error) {
	id, err := a.spawnCreep(spawn, body)
	return id, a.record(substrate.TypeSpawn, spawn, id, model.Position{}, err)
}

func (a *Arena) spawnCreep(spawn model.ID, body []model.Part) (model.ID, error) {
	s := a.spawnByID(spawn)
	if s == nil {
		return "", substrate.ErrInvalidTarget
	}
	if !s.My {
		return "", substrate.ErrNotOwner
	}
	if s.Spawning != nil {
		return "", substrate.ErrBusy
	}
	if len(body) == 0 {
		return "", substrate.ErrInvalidArgs
	}
	cost := a.cfg.Parts.Cost(body)
	if a.availableEnergy(s) < cost {
		return "", substrate.ErrNotEnoughEnergy
	}
	a.spendEnergy(s, cost)

	id := newID()
	a.addCreep(id, CreepSpec{Pos: s.Pos, My: true, Body: body}, true)
	s.Spawning = &model.Spawning{CreepID: id, RemainingTime: spawnTicksPerPart * len(body)}
	if a.HideSpawningID {
		s.Spawning.CreepID = ""
		s.hiddenID = id
		s.hiddenAt = a.tick
	}
	return id, nil
}

func (a *Arena) availableEnergy(s *spawnState) int {
	total := s.Energy
	for _, st := range a.structures {
		if st.My == s.My && st.Kind == model.KindExtension {
			total += st.Energy
		}
	}
	return total
}

// spendEnergy drains the spawn first, then extensions in placement order.
func (a *Arena) spendEnergy(s *spawnState, cost int) {
	take := min(cost, s.Energy)
	s.Energy -= take
	cost -= take
	for i := range a.structures {
		if cost == 0 {
			return
		}
		st := &a.structures[i]
		if st.My != s.My || st.Kind != model.KindExtension {
			continue
		}
		take := min(cost, st.Energy)
		st.Energy -= take
		cost -= take
	}
}

func (a *Arena) CreateConstructionSite(pos model.Position, kind model.StructureKind) (model.ID, error) {
	id, err := a.createSite(pos, kind)
	return id, a.record(substrate.TypeConstructSite, "", id, pos, err)
}

func (a *Arena) createSite(pos model.Position, kind model.StructureKind) (model.ID, error) {
	if !a.terrain.InBounds(pos) || a.terrain.At(pos) == model.Wall {
		return "", substrate.ErrInvalidTarget
	}
	for _, s := range a.sites {
		if s.Pos == pos {
			return "", substrate.ErrInvalidTarget
		}
	}
	for _, s := range a.structures {
		if s.Pos == pos {
			return "", substrate.ErrInvalidTarget
		}
	}
	for _, s := range a.sources {
		if s.Pos == pos {
			return "", substrate.ErrInvalidTarget
		}
	}
	return a.AddConstructionSite(kind, pos, true, 0), nil
}
