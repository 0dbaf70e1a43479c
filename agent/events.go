package agent

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nstehr/vimy/arena-core/jobs"
	"github.com/nstehr/vimy/arena-core/model"
	"github.com/nstehr/vimy/arena-core/world"
)

// EventKind identifies a notable change between two ticks.
type EventKind string

const (
	EventFirstContact          EventKind = "first_contact"
	EventUnitLost              EventKind = "unit_lost"
	EventFortifiedMinerSpotted EventKind = "fortified_miner_spotted"
	EventFortifiedMinerCleared EventKind = "fortified_miner_cleared"
	EventPostureChanged        EventKind = "posture_changed"
)

// Event is detected by diffing consecutive tick snapshots.
type Event struct {
	Kind   EventKind
	Tick   int
	Detail string
}

// snapshot captures the diffable fields of a tick.
type snapshot struct {
	tick      int
	units     map[model.ID]jobs.Kind
	contact   bool // enemies visible; carried forward once seen
	fortified *model.Creep
	defensive bool
}

func takeSnapshot(cache *world.Cache, units []jobs.Job, defensive bool) snapshot {
	s := snapshot{
		tick:      cache.Tick(),
		units:     make(map[model.ID]jobs.Kind, len(units)),
		defensive: defensive,
	}
	for _, j := range units {
		b := j.Base()
		s.units[b.ID] = b.Kind
	}
	for _, e := range cache.EnemyCreeps() {
		if !e.Spawning {
			s.contact = true
			break
		}
	}
	if fm := cache.FortifiedMiner(); fm != nil {
		c := fm.Creep
		s.fortified = &c
	}
	return s
}

// detectEvents compares cur with prev. The first tick has nothing to
// compare against and yields no events.
func detectEvents(cur snapshot, prev *snapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event

	if !prev.contact && cur.contact {
		events = append(events, Event{Kind: EventFirstContact, Tick: cur.tick, Detail: "enemy creeps sighted"})
	}

	for _, id := range slices.Sorted(maps.Keys(prev.units)) {
		if _, ok := cur.units[id]; !ok {
			events = append(events, Event{
				Kind:   EventUnitLost,
				Tick:   cur.tick,
				Detail: fmt.Sprintf("%s %s lost", prev.units[id], id),
			})
		}
	}

	switch {
	case prev.fortified == nil && cur.fortified != nil:
		events = append(events, Event{
			Kind:   EventFortifiedMinerSpotted,
			Tick:   cur.tick,
			Detail: fmt.Sprintf("enemy miner %s dug in at %s", cur.fortified.ID, cur.fortified.Pos),
		})
	case prev.fortified != nil && cur.fortified == nil:
		events = append(events, Event{Kind: EventFortifiedMinerCleared, Tick: cur.tick, Detail: "fortified miner gone"})
	}

	if prev.defensive != cur.defensive {
		posture := "offensive"
		if cur.defensive {
			posture = "defensive"
		}
		events = append(events, Event{Kind: EventPostureChanged, Tick: cur.tick, Detail: "now " + posture})
	}
	return events
}
