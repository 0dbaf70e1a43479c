package telemetry

import (
	"github.com/nstehr/vimy/arena-core/agent"
	"github.com/nstehr/vimy/arena-core/substrate"
)

// TickRecord is one row of ticks.csv.
type TickRecord struct {
	Tick       int     `csv:"tick"`
	Units      int     `csv:"units"`
	Energy     int     `csv:"energy"`
	Choice     string  `csv:"choice"`
	Rule       string  `csv:"rule"`
	Spawned    bool    `csv:"spawned"`
	Own        float64 `csv:"own_strength"`
	Enemy      float64 `csv:"enemy_strength"`
	Ratio      float64 `csv:"ratio"`
	Assessment string  `csv:"assessment"`
	Events     int     `csv:"events"`
}

func tickRecord(r agent.TickReport) TickRecord {
	rec := TickRecord{
		Tick:       r.Tick,
		Units:      r.Units,
		Energy:     r.Energy,
		Spawned:    r.Spawned,
		Own:        r.Comparison.Own,
		Enemy:      r.Comparison.Enemy,
		Ratio:      r.Comparison.Ratio,
		Assessment: string(r.Comparison.Assessment),
		Events:     len(r.Events),
	}
	if r.Choice != nil {
		rec.Choice = string(r.Choice.Kind)
		rec.Rule = r.Choice.Rule
	}
	return rec
}

// OrderRecord is one row of orders.csv.
type OrderRecord struct {
	Tick   int    `csv:"tick"`
	Type   string `csv:"type"`
	Actor  string `csv:"actor"`
	Target string `csv:"target"`
	X      int    `csv:"x"`
	Y      int    `csv:"y"`
	Err    string `csv:"err"`
}

func orderRecord(o substrate.Order) OrderRecord {
	return OrderRecord{
		Tick:   o.Tick,
		Type:   o.Type,
		Actor:  string(o.Actor),
		Target: string(o.Target),
		X:      o.Pos.X,
		Y:      o.Pos.Y,
		Err:    o.Err,
	}
}

// EventRecord is one row of events.csv.
type EventRecord struct {
	Tick   int    `csv:"tick"`
	Kind   string `csv:"kind"`
	Detail string `csv:"detail"`
}
