package settlement

import (
	"math/big"
	"testing"

	"relaynet/native/registry"
)

// Scenario: a sole bronze contributor with 1000 relays against a budget far
// above what it earned. Base rate 1000 units/msg stands in for 0.001 with a
// six-decimal base unit.
func TestComputeRewardEntitlementCapBinds(t *testing.T) {
	base := big.NewInt(1000)
	pool := &DailyPool{Epoch: 5, PoolBudget: big.NewInt(100_000_000)}
	stats := &NodeDailyStats{}
	for i := 0; i < 1000; i++ {
		pool.RecordRelay(stats, registry.TierBronze)
	}
	breakdown := ComputeReward(pool, stats, base, nil)
	// total earned = 100000 * 1000 / 100 = 1_000_000; effective pool binds
	// below budget; sole contributor takes the whole pool, capped at
	// 1000 relays * 1000/msg = 1_000_000.
	if breakdown.EffectivePool.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("effective pool = %s, want 1000000", breakdown.EffectivePool)
	}
	if breakdown.Reward.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("reward = %s, want 1000000", breakdown.Reward)
	}
	if breakdown.Reward.Cmp(breakdown.EntitlementCap) > 0 {
		t.Fatalf("reward exceeds entitlement cap")
	}
}

// Scenario: bronze and platinum with equal relay counts. The platinum share
// must be exactly three times the bronze share while each stays individually
// capped by its own entitlement.
func TestComputeRewardTierProportioning(t *testing.T) {
	base := big.NewInt(1000)
	pool := &DailyPool{Epoch: 3, PoolBudget: big.NewInt(400_000)}
	bronze := &NodeDailyStats{}
	platinum := &NodeDailyStats{UptimeSeconds: registry.TierPlatinum.UptimeRequirementSeconds()}
	for i := 0; i < 500; i++ {
		pool.RecordRelay(bronze, registry.TierBronze)
		pool.RecordRelay(platinum, registry.TierPlatinum)
	}
	if bronze.WeightedRelayCount != 50_000 {
		t.Fatalf("bronze weighted = %d, want 50000", bronze.WeightedRelayCount)
	}
	if platinum.WeightedRelayCount != 150_000 {
		t.Fatalf("platinum weighted = %d, want 150000", platinum.WeightedRelayCount)
	}

	b := ComputeReward(pool, bronze, base, nil)
	p := ComputeReward(pool, platinum, base, nil)
	// Budget 400000 binds below total earned (2_000_000), so pool shares are
	// 1/4 and 3/4 of the budget.
	if b.PoolShare.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("bronze share = %s, want 100000", b.PoolShare)
	}
	if p.PoolShare.Cmp(big.NewInt(300_000)) != 0 {
		t.Fatalf("platinum share = %s, want 300000", p.PoolShare)
	}
	if b.Reward.Cmp(b.EntitlementCap) > 0 || p.Reward.Cmp(p.EntitlementCap) > 0 {
		t.Fatalf("rewards must respect entitlement caps")
	}
	// Both entitlement caps are 500*1000 = 500000, so the shares stand.
	if b.Reward.Cmp(big.NewInt(100_000)) != 0 || p.Reward.Cmp(big.NewInt(300_000)) != 0 {
		t.Fatalf("unexpected rewards bronze=%s platinum=%s", b.Reward, p.Reward)
	}
}

// Scenario: a node at half of its tier's uptime requirement is paid only the
// uptime-scaled half of its share; the other half is exactly what the missed
// pool withholds for it.
func TestComputeRewardUptimeScaling(t *testing.T) {
	base := big.NewInt(1000)
	pool := &DailyPool{Epoch: 7, PoolBudget: big.NewInt(1_000_000)}
	gold := &NodeDailyStats{UptimeSeconds: registry.TierGold.UptimeRequirementSeconds() / 2}
	for i := 0; i < 100; i++ {
		pool.RecordRelay(gold, registry.TierGold)
	}
	breakdown := ComputeReward(pool, gold, base, nil)
	// Sole contributor: full share = effective pool = 20000*1000/100.
	if breakdown.PoolShare.Cmp(big.NewInt(200_000)) != 0 {
		t.Fatalf("full share = %s, want 200000", breakdown.PoolShare)
	}
	if breakdown.Reward.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("scaled reward = %s, want 100000", breakdown.Reward)
	}
	withheld := new(big.Int).Sub(breakdown.PoolShare, breakdown.ScaledShare)
	if withheld.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("withheld = %s, want 100000", withheld)
	}
}

func TestComputeRewardConservation(t *testing.T) {
	base := big.NewInt(777)
	pool := &DailyPool{Epoch: 9, PoolBudget: big.NewInt(123_456)}
	stats := []*NodeDailyStats{
		{},
		{UptimeSeconds: registry.TierSilver.UptimeRequirementSeconds()},
		{UptimeSeconds: registry.TierGold.UptimeRequirementSeconds() / 2},
	}
	tiers := []registry.Tier{registry.TierBronze, registry.TierSilver, registry.TierGold}
	counts := []int{311, 205, 97}
	entries := make([]MissedEntry, len(stats))
	for i, s := range stats {
		for j := 0; j < counts[i]; j++ {
			pool.RecordRelay(s, tiers[i])
		}
		entries[i] = MissedEntry{NodeID: [32]byte{byte(i + 1)}, Stats: s}
	}
	paid := big.NewInt(0)
	for _, s := range stats {
		paid.Add(paid, ComputeReward(pool, s, base, nil).Reward)
	}
	// Claims plus the withheld pool must never exceed the effective pool,
	// even with the half-uptime gold node in the mix.
	outcome := ComputeMissedPool(pool, base, entries)
	paid.Add(paid, outcome.Pool)
	if paid.Cmp(pool.EffectivePool(base)) > 0 {
		t.Fatalf("total paid %s exceeds effective pool %s", paid, pool.EffectivePool(base))
	}
}

func TestComputeRewardAvailableBalanceCap(t *testing.T) {
	base := big.NewInt(1000)
	pool := &DailyPool{Epoch: 1, PoolBudget: big.NewInt(1_000_000)}
	stats := &NodeDailyStats{}
	for i := 0; i < 100; i++ {
		pool.RecordRelay(stats, registry.TierBronze)
	}
	breakdown := ComputeReward(pool, stats, base, big.NewInt(42))
	if breakdown.Reward.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("available balance must cap the reward, got %s", breakdown.Reward)
	}
}

func TestComputeRewardNoActivity(t *testing.T) {
	pool := &DailyPool{Epoch: 1, PoolBudget: big.NewInt(100)}
	breakdown := ComputeReward(pool, &NodeDailyStats{}, big.NewInt(10), nil)
	if breakdown.Reward.Sign() != 0 {
		t.Fatalf("zero relays must compute zero reward")
	}
}
