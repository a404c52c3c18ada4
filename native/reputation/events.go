package reputation

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"relaynet/core/types"
)

const (
	// EventTypeViolationReported is emitted for every accepted report.
	EventTypeViolationReported = "reputation.violationReported"
	// EventTypeSlashed is emitted when stake is confiscated.
	EventTypeSlashed = "reputation.slashed"
	// EventTypeBlacklisted is emitted once per blacklisted owner.
	EventTypeBlacklisted = "reputation.blacklisted"
)

// NewViolationReportedEvent returns the canonical report event payload.
func NewViolationReportedEvent(report *ViolationReport, record *Record) *types.Event {
	attrs := make(map[string]string)
	if report != nil {
		attrs["id"] = report.ID
		attrs["node"] = hex.EncodeToString(report.NodeID[:])
		attrs["owner"] = hex.EncodeToString(report.Owner[:])
		attrs["reporter"] = hex.EncodeToString(report.Reporter[:])
		attrs["reason"] = report.Reason
	}
	if record != nil {
		attrs["score"] = strconv.FormatUint(record.Score, 10)
		attrs["violations"] = strconv.FormatUint(record.ViolationCount, 10)
	}
	return &types.Event{Type: EventTypeViolationReported, Attributes: attrs}
}

// NewSlashedEvent records a confiscation, with deactivated=true when the
// remaining stake fell below the bronze minimum.
func NewSlashedEvent(nodeID [32]byte, owner [20]byte, amount *big.Int, deactivated bool) *types.Event {
	confiscated := "0"
	if amount != nil {
		confiscated = amount.String()
	}
	return &types.Event{Type: EventTypeSlashed, Attributes: map[string]string{
		"node":        hex.EncodeToString(nodeID[:]),
		"owner":       hex.EncodeToString(owner[:]),
		"amount":      confiscated,
		"deactivated": strconv.FormatBool(deactivated),
	}}
}

// NewBlacklistedEvent returns the canonical blacklist event payload.
func NewBlacklistedEvent(owner [20]byte, nodesDeactivated int) *types.Event {
	return &types.Event{Type: EventTypeBlacklisted, Attributes: map[string]string{
		"owner": hex.EncodeToString(owner[:]),
		"nodes": strconv.Itoa(nodesDeactivated),
	}}
}
