package registry

import (
	"fmt"
	"math/big"
)

// Tier is the service class assigned to a relay node. It is derived from the
// node's daily uptime, declared storage and bonded stake and never set
// directly after registration.
type Tier uint8

const (
	TierBronze Tier = iota
	TierSilver
	TierGold
	TierPlatinum
)

// WeightScale is the denominator applied to tier multipliers when converting
// relay counts into weighted relay events.
const WeightScale = 100

// tierCount is the number of defined tiers.
const tierCount = 4

var tierNames = [tierCount]string{"bronze", "silver", "gold", "platinum"}

// tier multipliers expressed over WeightScale.
var tierMultipliers = [tierCount]uint64{100, 150, 200, 300}

// daily uptime each tier requires, in seconds. Bronze is the floor and has no
// requirement.
var tierUptimeSeconds = [tierCount]uint64{0, 21600, 43200, 72000}

// declared storage each tier requires, in megabytes.
var tierStorageMB = [tierCount]uint64{0, 10240, 51200, 102400}

// default minimum stakes in base units. Governance may adjust these through
// the parameter store.
var tierDefaultStakes = [tierCount]int64{100, 500, 1000, 5000}

// Valid reports whether the tier is one of the defined service classes.
func (t Tier) Valid() bool {
	return t < tierCount
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", uint8(t))
	}
	return tierNames[t]
}

// Multiplier returns the reward weight applied to each relay credited to a
// node of this tier, expressed over WeightScale.
func (t Tier) Multiplier() uint64 {
	if !t.Valid() {
		return tierMultipliers[TierBronze]
	}
	return tierMultipliers[t]
}

// UptimeRequirementSeconds returns the daily uptime the tier demands.
func (t Tier) UptimeRequirementSeconds() uint64 {
	if !t.Valid() {
		return 0
	}
	return tierUptimeSeconds[t]
}

// StorageRequirementMB returns the declared storage the tier demands.
func (t Tier) StorageRequirementMB() uint64 {
	if !t.Valid() {
		return 0
	}
	return tierStorageMB[t]
}

// ParseTier maps a tier name to its enum value.
func ParseTier(name string) (Tier, error) {
	for i, candidate := range tierNames {
		if candidate == name {
			return Tier(i), nil
		}
	}
	return TierBronze, fmt.Errorf("registry: unknown tier %q", name)
}

// MinimumStakes holds the stake floor for each tier in base units.
type MinimumStakes [tierCount]*big.Int

// DefaultMinimumStakes returns the built-in stake floors.
func DefaultMinimumStakes() MinimumStakes {
	var out MinimumStakes
	for i, v := range tierDefaultStakes {
		out[i] = big.NewInt(v)
	}
	return out
}

// For returns the stake floor for the supplied tier, defaulting missing
// entries to zero.
func (m MinimumStakes) For(t Tier) *big.Int {
	if !t.Valid() || m[t] == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(m[t])
}

// Validate ensures every tier has a non-negative floor and that floors do not
// decrease with tier rank.
func (m MinimumStakes) Validate() error {
	prev := big.NewInt(0)
	for i := 0; i < tierCount; i++ {
		v := m[i]
		if v == nil || v.Sign() < 0 {
			return fmt.Errorf("registry: minimum stake for %s must be non-negative", Tier(i))
		}
		if v.Cmp(prev) < 0 {
			return fmt.Errorf("registry: minimum stake for %s below %s floor", Tier(i), Tier(i-1))
		}
		prev = v
	}
	return nil
}

// DeriveTier returns the highest tier whose uptime, storage and stake
// thresholds are all met simultaneously. Bronze is always satisfied.
func DeriveTier(dailyUptimeSeconds, storageMB uint64, stake *big.Int, minimums MinimumStakes) Tier {
	if stake == nil {
		stake = big.NewInt(0)
	}
	result := TierBronze
	for t := TierSilver; t.Valid(); t++ {
		if dailyUptimeSeconds < t.UptimeRequirementSeconds() {
			break
		}
		if storageMB < t.StorageRequirementMB() {
			break
		}
		if stake.Cmp(minimums.For(t)) < 0 {
			break
		}
		result = t
	}
	return result
}
