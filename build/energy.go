// Package build turns strategy choices into spawn orders and hands freshly
// spawned creeps to the unit roster.
package build

import "github.com/nstehr/vimy/arena-core/world"

// EnergyManager reports the energy available for spawning.
type EnergyManager struct {
	cache *world.Cache
}

func NewEnergyManager(cache *world.Cache) EnergyManager { return EnergyManager{cache: cache} }

// TotalEnergy is own spawn energy plus the energy in own extensions.
func (m EnergyManager) TotalEnergy() int {
	total := 0
	if s := m.cache.MySpawn(); s != nil {
		total += s.Energy
	}
	for _, ext := range m.cache.MyExtensions() {
		total += ext.Energy
	}
	return total
}
