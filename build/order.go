package build

import (
	"github.com/nstehr/vimy/arena-core/combat"
	"github.com/nstehr/vimy/arena-core/strategy"
	"github.com/nstehr/vimy/arena-core/world"
)

// Order ties strategy, energy and the spawn queue together.
type Order struct {
	cache     *world.Cache
	roster    Roster
	strategy  *strategy.Engine
	estimator combat.Estimator
	energy    EnergyManager
	queue     *Queue
}

func NewOrder(cache *world.Cache, roster Roster, engine *strategy.Engine, queue *Queue) *Order {
	return &Order{
		cache:     cache,
		roster:    roster,
		strategy:  engine,
		estimator: combat.NewEstimator(cache.Config()),
		energy:    NewEnergyManager(cache),
		queue:     queue,
	}
}

func (o *Order) CheckAndAddSpawningCreep() { o.queue.CheckAndAddSpawningCreep() }

// NextChoice asks the strategy what to build given the current roster.
func (o *Order) NextChoice() *strategy.Choice {
	cmp := o.estimator.Compare(o.cache.MyCreeps(), o.cache.EnemyCreeps())
	return o.strategy.Decide(strategy.Input{
		Counts:              o.roster.Counts(),
		StrengthRatio:       cmp.Ratio,
		FortifiedMinerAlert: o.cache.FortifiedMiner() != nil,
	})
}

// TrySpawnNextCreep spawns the strategy's next choice if it is affordable.
// The choice is returned even when the spawn did not start.
func (o *Order) TrySpawnNextCreep() (*strategy.Choice, bool) {
	c := o.NextChoice()
	if c == nil {
		return nil, false
	}
	return c, o.queue.TrySpawn(c, o.energy.TotalEnergy())
}

func (o *Order) Energy() EnergyManager { return o.energy }
func (o *Order) Queue() *Queue         { return o.queue }
