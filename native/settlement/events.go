package settlement

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"relaynet/core/types"
)

const (
	// EventTypeRewardClaimed is emitted when a claim transfers a (possibly
	// zero) reward for a past epoch.
	EventTypeRewardClaimed = "settlement.rewardClaimed"
	// EventTypePoolOpened is emitted when the first relay of a new epoch
	// opens a fresh pool.
	EventTypePoolOpened = "settlement.poolOpened"
	// EventTypeMissedDistributed is emitted once per epoch when the missed
	// pool is split among fully-compliant nodes.
	EventTypeMissedDistributed = "settlement.missedDistributed"
)

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NewRewardClaimedEvent returns the canonical claim event payload.
func NewRewardClaimedEvent(nodeID [32]byte, epoch uint64, breakdown RewardBreakdown) *types.Event {
	return &types.Event{Type: EventTypeRewardClaimed, Attributes: map[string]string{
		"node":           hex.EncodeToString(nodeID[:]),
		"epoch":          strconv.FormatUint(epoch, 10),
		"poolShare":      bigString(breakdown.PoolShare),
		"scaledShare":    bigString(breakdown.ScaledShare),
		"entitlementCap": bigString(breakdown.EntitlementCap),
		"reward":         bigString(breakdown.Reward),
	}}
}

// NewPoolOpenedEvent returns the canonical pool-opened event payload.
func NewPoolOpenedEvent(epoch uint64, budget *big.Int) *types.Event {
	return &types.Event{Type: EventTypePoolOpened, Attributes: map[string]string{
		"epoch":  strconv.FormatUint(epoch, 10),
		"budget": bigString(budget),
	}}
}

// NewMissedDistributedEvent returns the canonical redistribution event payload.
func NewMissedDistributedEvent(epoch uint64, outcome MissedOutcome) *types.Event {
	return &types.Event{Type: EventTypeMissedDistributed, Attributes: map[string]string{
		"epoch":        strconv.FormatUint(epoch, 10),
		"pool":         bigString(outcome.Pool),
		"perRecipient": bigString(outcome.PerRecipient),
		"recipients":   strconv.Itoa(len(outcome.Recipients)),
		"remainder":    bigString(outcome.Remainder),
	}}
}
