package substrate

import "github.com/nstehr/vimy/arena-core/model"

// Order type constants, one per action primitive.
const (
	TypeMove          = "move"
	TypeAttack        = "attack"
	TypeRangedAttack  = "ranged_attack"
	TypeHeal          = "heal"
	TypeRangedHeal    = "ranged_heal"
	TypeHarvest       = "harvest"
	TypeBuild         = "build"
	TypeTransfer      = "transfer"
	TypeWithdraw      = "withdraw"
	TypePull          = "pull"
	TypeSpawn         = "spawn"
	TypeSpawnDirs     = "spawn_directions"
	TypeConstructSite = "construct_site"
)

// Order records one primitive as it was issued, including refused ones.
// Substrates that keep an order log let callers audit a tick's decisions.
type Order struct {
	Tick   int            `json:"tick"`
	Type   string         `json:"type"`
	Actor  model.ID       `json:"actor"`
	Target model.ID       `json:"target,omitempty"`
	Pos    model.Position `json:"pos"`
	Err    string         `json:"err,omitempty"`
}

// OK reports whether the substrate accepted the order.
func (o Order) OK() bool { return o.Err == "" }
