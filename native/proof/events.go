package proof

import (
	"encoding/hex"
	"strconv"

	"relaynet/core/types"
)

const (
	// EventTypeProofAccepted is emitted once per verified relay event.
	EventTypeProofAccepted = "proof.accepted"
)

// NewProofAcceptedEvent returns the canonical accepted-proof event payload.
func NewProofAcceptedEvent(p *RelayProof, epoch, weight uint64) *types.Event {
	attrs := make(map[string]string)
	if p != nil {
		attrs["node"] = hex.EncodeToString(p.NodeID[:])
		attrs["messageHash"] = hex.EncodeToString(p.MessageHash[:])
		attrs["sender"] = hex.EncodeToString(p.Sender[:])
		attrs["recipient"] = hex.EncodeToString(p.Recipient[:])
		attrs["timestamp"] = strconv.FormatInt(p.Timestamp, 10)
	}
	attrs["epoch"] = strconv.FormatUint(epoch, 10)
	attrs["weight"] = strconv.FormatUint(weight, 10)
	return &types.Event{Type: EventTypeProofAccepted, Attributes: attrs}
}
