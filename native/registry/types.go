package registry

import (
	"math/big"
	"strings"
)

// MaxEndpointLength bounds stored endpoint strings.
const MaxEndpointLength = 256

// NodeIdentity is the permanent registration record for a relay node. It is
// never deleted; Active flips to false on voluntary deactivation or forced
// slashing-deactivation.
type NodeIdentity struct {
	NodeID             [32]byte `json:"nodeId"`
	Owner              [20]byte `json:"owner"`
	MachineFingerprint [32]byte `json:"machineFingerprint"`
	InstanceNumber     uint64   `json:"instanceNumber"`
	RegisteredAt       int64    `json:"registeredAt"`
	Active             bool     `json:"active"`
}

// NodeState carries the mutable operational record paired one-to-one with an
// active NodeIdentity.
type NodeState struct {
	Endpoint           string   `json:"endpoint"`
	StakedAmount       *big.Int `json:"stakedAmount"`
	Tier               Tier     `json:"tier"`
	StorageCapacityMB  uint64   `json:"storageCapacityMb"`
	TotalUptimeSeconds uint64   `json:"totalUptimeSeconds"`
	DailyUptimeSeconds uint64   `json:"dailyUptimeSeconds"`
	LastHeartbeat      int64    `json:"lastHeartbeat"`
	LastEpochReset     uint64   `json:"lastEpochReset"`
	MessagesRelayed    uint64   `json:"messagesRelayed"`
	RewardsEarned      *big.Int `json:"rewardsEarned"`
}

// Stake returns the bonded amount, treating nil as zero.
func (s *NodeState) Stake() *big.Int {
	if s == nil || s.StakedAmount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(s.StakedAmount)
}

// Clone returns a deep copy so callers cannot mutate stored records through
// shared big.Int pointers.
func (s *NodeState) Clone() *NodeState {
	if s == nil {
		return nil
	}
	clone := *s
	clone.StakedAmount = s.Stake()
	if s.RewardsEarned != nil {
		clone.RewardsEarned = new(big.Int).Set(s.RewardsEarned)
	} else {
		clone.RewardsEarned = big.NewInt(0)
	}
	return &clone
}

// NormalizeEndpoint trims whitespace and validates the endpoint string.
func NormalizeEndpoint(endpoint string) (string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return "", ErrInvalidEndpoint
	}
	if len(trimmed) > MaxEndpointLength {
		return "", ErrInvalidEndpoint
	}
	return trimmed, nil
}
