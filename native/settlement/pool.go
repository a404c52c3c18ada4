package settlement

import (
	"math/big"

	"relaynet/native/registry"
)

// MessagesPerRewardBatch is the divisor applied to a node's raw relay count
// when computing its entitlement cap.
const MessagesPerRewardBatch = 1

// DailyPool aggregates the relay activity of one epoch against its reward
// budget. Exactly one pool is live at a time; past pools are archived by epoch
// id and settled lazily on first claim.
type DailyPool struct {
	Epoch                    uint64   `json:"epoch"`
	TotalRelayEvents         uint64   `json:"totalRelayEvents"`
	TotalWeightedRelayEvents uint64   `json:"totalWeightedRelayEvents"`
	PoolBudget               *big.Int `json:"poolBudget"`
	Settled                  bool     `json:"settled"`
}

// Budget returns the pool budget, treating nil as zero.
func (p *DailyPool) Budget() *big.Int {
	if p == nil || p.PoolBudget == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(p.PoolBudget)
}

// NodeDailyStats records one node's contribution to one epoch. UptimeSeconds
// and Tier snapshot the node's standing for the missed-reward redistribution
// that runs after settlement.
type NodeDailyStats struct {
	RelayCount         uint64        `json:"relayCount"`
	WeightedRelayCount uint64        `json:"weightedRelayCount"`
	UptimeSeconds      uint64        `json:"uptimeSeconds"`
	Tier               registry.Tier `json:"tier"`
	Claimed            bool          `json:"claimed"`
}

// RecordRelay credits one verified relay at the supplied tier multiplier into
// both the pool and the node's stats.
func (p *DailyPool) RecordRelay(stats *NodeDailyStats, tier registry.Tier) {
	weight := tier.Multiplier()
	p.TotalRelayEvents++
	p.TotalWeightedRelayEvents += weight
	if stats != nil {
		stats.RelayCount++
		stats.WeightedRelayCount += weight
		stats.Tier = tier
	}
}

// TotalEarned is the sum every contributor would earn at the flat base rate,
// scaled by total weighted activity: totalWeighted * baseReward / WeightScale.
func (p *DailyPool) TotalEarned(baseReward *big.Int) *big.Int {
	if p == nil || baseReward == nil || baseReward.Sign() <= 0 {
		return big.NewInt(0)
	}
	earned := new(big.Int).SetUint64(p.TotalWeightedRelayEvents)
	earned.Mul(earned, baseReward)
	return earned.Quo(earned, big.NewInt(registry.WeightScale))
}

// EffectivePool bounds the distributable amount: the pool never inflates
// beyond what was actually earned at the base rate, even though per-node
// weighting still uses tier multipliers for proportioning.
func (p *DailyPool) EffectivePool(baseReward *big.Int) *big.Int {
	earned := p.TotalEarned(baseReward)
	budget := p.Budget()
	if earned.Cmp(budget) < 0 {
		return earned
	}
	return budget
}
