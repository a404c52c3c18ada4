package settlement

import (
	"math/big"
)

// MissedEntry is one node's standing considered for missed-reward
// redistribution.
type MissedEntry struct {
	NodeID [32]byte
	Stats  *NodeDailyStats
}

// MissedOutcome summarises one epoch's redistribution.
type MissedOutcome struct {
	// Pool is the total reward value withheld from nodes that fell short of
	// their tier's uptime requirement.
	Pool *big.Int
	// PerRecipient is the even slice paid to each fully-compliant node.
	PerRecipient *big.Int
	// Recipients lists the nodes that met 100% of their requirement.
	Recipients [][32]byte
	// Remainder is the rounding dust left after the even split.
	Remainder *big.Int
}

// MissedDistribution is the persisted record preventing a second distribution
// for the same epoch.
type MissedDistribution struct {
	Epoch        uint64   `json:"epoch"`
	Pool         *big.Int `json:"pool"`
	PerRecipient *big.Int `json:"perRecipient"`
	Recipients   uint64   `json:"recipients"`
	Distributed  bool     `json:"distributed"`
}

// ComputeMissedPool walks every contributor of a settled epoch. Nodes whose
// tier demanded more uptime than they logged forfeit the difference between
// their full tier-weighted share and their uptime-scaled share; nodes at 100%
// of their requirement split the forfeited pool evenly.
func ComputeMissedPool(pool *DailyPool, baseReward *big.Int, entries []MissedEntry) MissedOutcome {
	out := MissedOutcome{
		Pool:         big.NewInt(0),
		PerRecipient: big.NewInt(0),
		Remainder:    big.NewInt(0),
	}
	if pool == nil || pool.TotalWeightedRelayEvents == 0 {
		return out
	}
	effective := pool.EffectivePool(baseReward)
	if effective.Sign() <= 0 {
		return out
	}
	totalWeighted := new(big.Int).SetUint64(pool.TotalWeightedRelayEvents)

	for _, entry := range entries {
		stats := entry.Stats
		if stats == nil || stats.RelayCount == 0 {
			continue
		}
		required := stats.Tier.UptimeRequirementSeconds()
		if stats.UptimeSeconds >= required {
			out.Recipients = append(out.Recipients, entry.NodeID)
			continue
		}
		fullShare := new(big.Int).SetUint64(stats.WeightedRelayCount)
		fullShare.Mul(fullShare, effective)
		fullShare.Quo(fullShare, totalWeighted)

		// Same scaling as the claim path, so the forfeited amount is
		// exactly the value the claimant never received.
		scaled := ScaleByUptime(fullShare, stats.UptimeSeconds, required)
		missed := new(big.Int).Sub(fullShare, scaled)
		if missed.Sign() > 0 {
			out.Pool.Add(out.Pool, missed)
		}
	}

	if out.Pool.Sign() <= 0 || len(out.Recipients) == 0 {
		out.Remainder.Set(out.Pool)
		return out
	}
	count := big.NewInt(int64(len(out.Recipients)))
	out.PerRecipient.Quo(out.Pool, count)
	paid := new(big.Int).Mul(out.PerRecipient, count)
	out.Remainder.Sub(out.Pool, paid)
	return out
}
