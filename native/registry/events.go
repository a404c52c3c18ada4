package registry

import (
	"encoding/hex"
	"strconv"

	"relaynet/core/types"
)

const (
	// EventTypeNodeRegistered is emitted when a new node joins the registry.
	EventTypeNodeRegistered = "registry.nodeRegistered"
	// EventTypeNodeDeactivated is emitted on voluntary or forced deactivation.
	EventTypeNodeDeactivated = "registry.nodeDeactivated"
	// EventTypeTierChanged is emitted whenever a node's derived tier moves.
	EventTypeTierChanged = "registry.tierChanged"
	// EventTypeEndpointUpdated is emitted on endpoint metadata updates.
	EventTypeEndpointUpdated = "registry.endpointUpdated"
)

func nodeAttributes(nodeID [32]byte, owner [20]byte) map[string]string {
	return map[string]string{
		"node":  hex.EncodeToString(nodeID[:]),
		"owner": hex.EncodeToString(owner[:]),
	}
}

// NewNodeRegisteredEvent returns the canonical registration event payload.
func NewNodeRegisteredEvent(nodeID [32]byte, owner [20]byte, tier Tier, endpoint string) *types.Event {
	attrs := nodeAttributes(nodeID, owner)
	attrs["tier"] = tier.String()
	attrs["endpoint"] = endpoint
	return &types.Event{Type: EventTypeNodeRegistered, Attributes: attrs}
}

// NewNodeDeactivatedEvent records a deactivation, with forced=true when the
// slashing protocol removed the node rather than its owner.
func NewNodeDeactivatedEvent(nodeID [32]byte, owner [20]byte, forced bool) *types.Event {
	attrs := nodeAttributes(nodeID, owner)
	attrs["forced"] = strconv.FormatBool(forced)
	return &types.Event{Type: EventTypeNodeDeactivated, Attributes: attrs}
}

// NewTierChangedEvent records a tier transition. Transitions carry no
// immediate economic effect; they inform future weighting only.
func NewTierChangedEvent(nodeID [32]byte, owner [20]byte, from, to Tier) *types.Event {
	attrs := nodeAttributes(nodeID, owner)
	attrs["from"] = from.String()
	attrs["to"] = to.String()
	return &types.Event{Type: EventTypeTierChanged, Attributes: attrs}
}

// NewEndpointUpdatedEvent records an endpoint metadata change.
func NewEndpointUpdatedEvent(nodeID [32]byte, owner [20]byte, endpoint string) *types.Event {
	attrs := nodeAttributes(nodeID, owner)
	attrs["endpoint"] = endpoint
	return &types.Event{Type: EventTypeEndpointUpdated, Attributes: attrs}
}
