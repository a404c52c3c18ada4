package state

import (
	"math/big"
	"testing"

	"relaynet/native/registry"
	"relaynet/native/settlement"
	"relaynet/storage"
)

func testNodeID(index byte) [32]byte {
	var out [32]byte
	out[0] = index
	return out
}

func testOwner(index byte) [20]byte {
	var out [20]byte
	out[0] = index
	return out
}

func TestNodeRecordsRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	identity := &registry.NodeIdentity{NodeID: testNodeID(1), Owner: testOwner(2), RegisteredAt: 99, Active: true}
	if err := m.PutNodeIdentity(identity); err != nil {
		t.Fatalf("put identity: %v", err)
	}
	loaded, ok, err := m.NodeIdentity(testNodeID(1))
	if err != nil || !ok {
		t.Fatalf("get identity: ok=%v err=%v", ok, err)
	}
	if *loaded != *identity {
		t.Fatalf("identity mismatch: %+v vs %+v", loaded, identity)
	}
	if _, ok, _ := m.NodeIdentity(testNodeID(9)); ok {
		t.Fatalf("missing identity must report ok=false")
	}

	ns := &registry.NodeState{Endpoint: "relay-1.example:9000", StakedAmount: big.NewInt(500), Tier: registry.TierSilver}
	if err := m.PutNodeState(testNodeID(1), ns); err != nil {
		t.Fatalf("put state: %v", err)
	}
	loadedState, ok, err := m.NodeState(testNodeID(1))
	if err != nil || !ok {
		t.Fatalf("get state: ok=%v err=%v", ok, err)
	}
	if loadedState.Endpoint != ns.Endpoint || loadedState.StakedAmount.Cmp(ns.StakedAmount) != 0 {
		t.Fatalf("state mismatch: %+v", loadedState)
	}
	if loadedState.RewardsEarned == nil {
		t.Fatalf("rewards earned must default to zero, not nil")
	}
}

func TestOwnerIndex(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	owner := testOwner(1)
	for i := byte(1); i <= 3; i++ {
		if err := m.IndexOwnerNode(owner, testNodeID(i)); err != nil {
			t.Fatalf("index: %v", err)
		}
	}
	if err := m.IndexOwnerNode(testOwner(2), testNodeID(9)); err != nil {
		t.Fatalf("index: %v", err)
	}
	nodes, err := m.OwnerNodes(owner)
	if err != nil {
		t.Fatalf("owner nodes: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
}

func TestProofDedupSet(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	key := testNodeID(7)
	ok, err := m.HasProof(key)
	if err != nil || ok {
		t.Fatalf("fresh key must be absent: ok=%v err=%v", ok, err)
	}
	if err := m.PutProof(key); err != nil {
		t.Fatalf("put proof: %v", err)
	}
	ok, err = m.HasProof(key)
	if err != nil || !ok {
		t.Fatalf("recorded key must be present: ok=%v err=%v", ok, err)
	}
}

func TestEpochStatsIteration(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	for i := byte(1); i <= 3; i++ {
		stats := &settlement.NodeDailyStats{RelayCount: uint64(i)}
		if err := m.PutNodeDailyStats(4, testNodeID(i), stats); err != nil {
			t.Fatalf("put stats: %v", err)
		}
	}
	// A neighbouring epoch must not leak into the walk.
	if err := m.PutNodeDailyStats(5, testNodeID(9), &settlement.NodeDailyStats{RelayCount: 99}); err != nil {
		t.Fatalf("put stats: %v", err)
	}
	entries, err := m.EpochStats(4)
	if err != nil {
		t.Fatalf("epoch stats: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	var total uint64
	for _, e := range entries {
		total += e.Stats.RelayCount
	}
	if total != 6 {
		t.Fatalf("unexpected relay total %d", total)
	}
}

func TestBalances(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	owner := testOwner(3)
	balance, err := m.Balance(owner)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Sign() != 0 {
		t.Fatalf("fresh account must be zero, got %s", balance)
	}
	if err := m.SetBalance(owner, big.NewInt(123456789)); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	balance, err = m.Balance(owner)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(123456789)) != 0 {
		t.Fatalf("balance = %s", balance)
	}
	if err := m.SetBalance(owner, big.NewInt(-1)); err == nil {
		t.Fatalf("negative balances must be rejected")
	}
}

func TestInstanceCounter(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	owner := testOwner(5)
	for want := uint64(1); want <= 3; want++ {
		got, err := m.NextInstanceNumber(owner)
		if err != nil {
			t.Fatalf("next instance: %v", err)
		}
		if got != want {
			t.Fatalf("instance = %d, want %d", got, want)
		}
	}
}
