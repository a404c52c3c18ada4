package params

import (
	"math/big"
	"testing"

	"relaynet/native/registry"
)

type memParamState struct {
	values map[string][]byte
}

func newMemParamState() *memParamState {
	return &memParamState{values: make(map[string][]byte)}
}

func (s *memParamState) ParamStoreSet(name string, value []byte) error {
	s.values[name] = append([]byte(nil), value...)
	return nil
}

func (s *memParamState) ParamStoreGet(name string) ([]byte, bool, error) {
	v, ok := s.values[name]
	return v, ok, nil
}

func TestStoreDefaults(t *testing.T) {
	store := NewStore(newMemParamState())
	budget, err := store.DailyBudget()
	if err != nil {
		t.Fatalf("daily budget: %v", err)
	}
	if budget.Cmp(DefaultDailyBudget) != 0 {
		t.Fatalf("unexpected default budget %s", budget)
	}
	stakes, err := store.MinimumStakes()
	if err != nil {
		t.Fatalf("minimum stakes: %v", err)
	}
	if stakes.For(registry.TierBronze).Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unexpected bronze default %s", stakes.For(registry.TierBronze))
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(newMemParamState())
	if err := store.SetDailyBudget(big.NewInt(777)); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	budget, err := store.DailyBudget()
	if err != nil {
		t.Fatalf("daily budget: %v", err)
	}
	if budget.Cmp(big.NewInt(777)) != 0 {
		t.Fatalf("budget = %s, want 777", budget)
	}

	stakes := registry.DefaultMinimumStakes()
	stakes[registry.TierPlatinum] = big.NewInt(9000)
	if err := store.SetMinimumStakes(stakes); err != nil {
		t.Fatalf("set stakes: %v", err)
	}
	loaded, err := store.MinimumStakes()
	if err != nil {
		t.Fatalf("minimum stakes: %v", err)
	}
	if loaded.For(registry.TierPlatinum).Cmp(big.NewInt(9000)) != 0 {
		t.Fatalf("platinum floor = %s, want 9000", loaded.For(registry.TierPlatinum))
	}
}

func TestStoreRejectsNegative(t *testing.T) {
	store := NewStore(newMemParamState())
	if err := store.SetBaseRewardPerMessage(big.NewInt(-1)); err == nil {
		t.Fatalf("expected negative rate to be rejected")
	}
	stakes := registry.DefaultMinimumStakes()
	stakes[registry.TierSilver] = big.NewInt(1)
	if err := store.SetMinimumStakes(stakes); err == nil {
		t.Fatalf("expected decreasing floors to be rejected")
	}
}
