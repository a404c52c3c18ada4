package settlement

import "math/big"

// RewardBreakdown exposes the intermediate values of the payout formula for
// events and diagnostics.
type RewardBreakdown struct {
	TotalEarned    *big.Int
	EffectivePool  *big.Int
	PoolShare      *big.Int
	ScaledShare    *big.Int
	EntitlementCap *big.Int
	Reward         *big.Int
}

// ComputeReward applies the payout formula for one node's claim against a
// settled pool:
//
//  1. effective pool = min(budget, total earned at base rate)
//  2. pool share = weighted count * effective pool / total weighted events
//  3. scaled share = pool share * uptime / tier uptime requirement, capped
//     at the full share; the withheld difference feeds the missed pool
//  4. entitlement cap = relay count * base reward / MessagesPerRewardBatch
//  5. reward = min(scaled share, entitlement cap), further capped by available
//
// The entitlement cap prevents a high-tier node from earning more than its
// raw message volume justifies even when the pool math alone would allow it.
// The uptime scaling in step 3 uses the same integer arithmetic as
// ComputeMissedPool so a short node's claim plus its forfeited amount equals
// its full share exactly.
func ComputeReward(pool *DailyPool, stats *NodeDailyStats, baseReward, available *big.Int) RewardBreakdown {
	out := RewardBreakdown{
		TotalEarned:    big.NewInt(0),
		EffectivePool:  big.NewInt(0),
		PoolShare:      big.NewInt(0),
		ScaledShare:    big.NewInt(0),
		EntitlementCap: big.NewInt(0),
		Reward:         big.NewInt(0),
	}
	if pool == nil || stats == nil || stats.RelayCount == 0 || pool.TotalWeightedRelayEvents == 0 {
		return out
	}
	if baseReward == nil || baseReward.Sign() <= 0 {
		return out
	}

	out.TotalEarned = pool.TotalEarned(baseReward)
	out.EffectivePool = pool.EffectivePool(baseReward)

	share := new(big.Int).SetUint64(stats.WeightedRelayCount)
	share.Mul(share, out.EffectivePool)
	share.Quo(share, new(big.Int).SetUint64(pool.TotalWeightedRelayEvents))
	out.PoolShare = share

	scaled := ScaleByUptime(share, stats.UptimeSeconds, stats.Tier.UptimeRequirementSeconds())
	out.ScaledShare = scaled

	cap := new(big.Int).SetUint64(stats.RelayCount)
	cap.Mul(cap, baseReward)
	cap.Quo(cap, big.NewInt(MessagesPerRewardBatch))
	out.EntitlementCap = cap

	reward := new(big.Int).Set(scaled)
	if reward.Cmp(cap) > 0 {
		reward.Set(cap)
	}
	if available != nil && reward.Cmp(available) > 0 {
		reward.Set(available)
	}
	if reward.Sign() < 0 {
		reward.SetInt64(0)
	}
	out.Reward = reward
	return out
}

// ScaleByUptime reduces a full pool share in proportion to the uptime a node
// logged against its tier requirement. A zero requirement (Bronze) or uptime
// at or above the requirement keeps the full share.
func ScaleByUptime(share *big.Int, uptimeSeconds, requiredSeconds uint64) *big.Int {
	if requiredSeconds == 0 || uptimeSeconds >= requiredSeconds {
		return new(big.Int).Set(share)
	}
	scaled := new(big.Int).Set(share)
	scaled.Mul(scaled, new(big.Int).SetUint64(uptimeSeconds))
	scaled.Quo(scaled, new(big.Int).SetUint64(requiredSeconds))
	return scaled
}
