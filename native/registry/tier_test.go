package registry

import (
	"math/big"
	"testing"
)

func TestDeriveTierFloor(t *testing.T) {
	mins := DefaultMinimumStakes()
	if got := DeriveTier(0, 0, big.NewInt(0), mins); got != TierBronze {
		t.Fatalf("expected bronze floor, got %s", got)
	}
	if got := DeriveTier(0, 0, nil, mins); got != TierBronze {
		t.Fatalf("nil stake must derive bronze, got %s", got)
	}
}

func TestDeriveTierRequiresAllThresholds(t *testing.T) {
	mins := DefaultMinimumStakes()
	// Platinum uptime and storage but only silver stake.
	got := DeriveTier(72000, 102400, big.NewInt(500), mins)
	if got != TierSilver {
		t.Fatalf("stake should bound tier at silver, got %s", got)
	}
	// Platinum stake and storage but gold uptime.
	got = DeriveTier(43200, 102400, big.NewInt(5000), mins)
	if got != TierGold {
		t.Fatalf("uptime should bound tier at gold, got %s", got)
	}
	// Everything at platinum level.
	got = DeriveTier(80000, 200000, big.NewInt(5000), mins)
	if got != TierPlatinum {
		t.Fatalf("expected platinum, got %s", got)
	}
}

func TestDeriveTierStorageBound(t *testing.T) {
	mins := DefaultMinimumStakes()
	got := DeriveTier(72000, 10240, big.NewInt(5000), mins)
	if got != TierSilver {
		t.Fatalf("storage should bound tier at silver, got %s", got)
	}
}

func TestTierMultipliers(t *testing.T) {
	cases := map[Tier]uint64{
		TierBronze:   100,
		TierSilver:   150,
		TierGold:     200,
		TierPlatinum: 300,
	}
	for tier, want := range cases {
		if got := tier.Multiplier(); got != want {
			t.Fatalf("%s multiplier = %d, want %d", tier, got, want)
		}
	}
}

func TestMinimumStakesValidate(t *testing.T) {
	mins := DefaultMinimumStakes()
	if err := mins.Validate(); err != nil {
		t.Fatalf("default minimums invalid: %v", err)
	}
	mins[TierGold] = big.NewInt(10)
	if err := mins.Validate(); err == nil {
		t.Fatalf("expected decreasing floors to be rejected")
	}
	mins[TierGold] = nil
	if err := mins.Validate(); err == nil {
		t.Fatalf("expected nil floor to be rejected")
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("platinum")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tier != TierPlatinum {
		t.Fatalf("expected platinum, got %s", tier)
	}
	if _, err := ParseTier("diamond"); err == nil {
		t.Fatalf("expected unknown tier error")
	}
}
