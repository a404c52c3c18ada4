package settlement

import (
	"math/big"
	"testing"

	"relaynet/native/registry"
)

func nodeID(index byte) [32]byte {
	var out [32]byte
	out[31] = index
	return out
}

func TestComputeMissedPoolSplitsEvenly(t *testing.T) {
	base := big.NewInt(100)
	pool := &DailyPool{Epoch: 4, PoolBudget: big.NewInt(1_000_000)}

	short := &NodeDailyStats{}      // gold node at half its required uptime
	compliantA := &NodeDailyStats{} // bronze, requirement zero
	compliantB := &NodeDailyStats{} // silver at full requirement
	for i := 0; i < 100; i++ {
		pool.RecordRelay(short, registry.TierGold)
		pool.RecordRelay(compliantA, registry.TierBronze)
		pool.RecordRelay(compliantB, registry.TierSilver)
	}
	short.UptimeSeconds = registry.TierGold.UptimeRequirementSeconds() / 2
	compliantB.UptimeSeconds = registry.TierSilver.UptimeRequirementSeconds()

	outcome := ComputeMissedPool(pool, base, []MissedEntry{
		{NodeID: nodeID(1), Stats: short},
		{NodeID: nodeID(2), Stats: compliantA},
		{NodeID: nodeID(3), Stats: compliantB},
	})

	// effective pool = total earned = 45000*100/100 = 45000.
	// gold full share = 20000*45000/45000 = 20000; at half uptime it keeps
	// 10000, so 10000 lands in the missed pool.
	if outcome.Pool.Cmp(big.NewInt(10_000)) != 0 {
		t.Fatalf("missed pool = %s, want 10000", outcome.Pool)
	}
	if len(outcome.Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(outcome.Recipients))
	}
	if outcome.PerRecipient.Cmp(big.NewInt(5_000)) != 0 {
		t.Fatalf("per recipient = %s, want 5000", outcome.PerRecipient)
	}
	if outcome.Remainder.Sign() != 0 {
		t.Fatalf("expected no remainder, got %s", outcome.Remainder)
	}
}

func TestComputeMissedPoolNoRecipients(t *testing.T) {
	base := big.NewInt(100)
	pool := &DailyPool{Epoch: 4, PoolBudget: big.NewInt(1_000_000)}
	short := &NodeDailyStats{}
	for i := 0; i < 10; i++ {
		pool.RecordRelay(short, registry.TierPlatinum)
	}
	short.UptimeSeconds = 0

	outcome := ComputeMissedPool(pool, base, []MissedEntry{{NodeID: nodeID(1), Stats: short}})
	if outcome.Pool.Sign() <= 0 {
		t.Fatalf("expected a forfeited pool")
	}
	if len(outcome.Recipients) != 0 {
		t.Fatalf("expected no recipients")
	}
	if outcome.PerRecipient.Sign() != 0 {
		t.Fatalf("nothing should be payable without recipients")
	}
	if outcome.Remainder.Cmp(outcome.Pool) != 0 {
		t.Fatalf("undistributed pool must be carried as remainder")
	}
}

func TestComputeMissedPoolRemainderDust(t *testing.T) {
	base := big.NewInt(100)
	pool := &DailyPool{Epoch: 7, PoolBudget: big.NewInt(1_000_000)}
	short := &NodeDailyStats{}
	a := &NodeDailyStats{}
	b := &NodeDailyStats{}
	c := &NodeDailyStats{}
	for i := 0; i < 7; i++ {
		pool.RecordRelay(short, registry.TierSilver)
	}
	for i := 0; i < 3; i++ {
		pool.RecordRelay(a, registry.TierBronze)
		pool.RecordRelay(b, registry.TierBronze)
		pool.RecordRelay(c, registry.TierBronze)
	}
	short.UptimeSeconds = registry.TierSilver.UptimeRequirementSeconds() / 3

	outcome := ComputeMissedPool(pool, base, []MissedEntry{
		{NodeID: nodeID(1), Stats: short},
		{NodeID: nodeID(2), Stats: a},
		{NodeID: nodeID(3), Stats: b},
		{NodeID: nodeID(4), Stats: c},
	})
	if len(outcome.Recipients) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(outcome.Recipients))
	}
	total := new(big.Int).Mul(outcome.PerRecipient, big.NewInt(3))
	total.Add(total, outcome.Remainder)
	if total.Cmp(outcome.Pool) != 0 {
		t.Fatalf("per-recipient*3 + remainder = %s, want pool %s", total, outcome.Pool)
	}
}

func TestComputeMissedPoolEmptyPool(t *testing.T) {
	outcome := ComputeMissedPool(&DailyPool{}, big.NewInt(100), nil)
	if outcome.Pool.Sign() != 0 {
		t.Fatalf("empty pool must produce nothing")
	}
}
