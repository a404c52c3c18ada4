package reputation

import (
	"strings"

	"github.com/google/uuid"
)

// MaxReasonLength bounds stored violation reasons.
const MaxReasonLength = 256

// ViolationReport is the audit record kept for every accepted report.
type ViolationReport struct {
	ID       string   `json:"id"`
	NodeID   [32]byte `json:"nodeId"`
	Owner    [20]byte `json:"owner"`
	Reporter [20]byte `json:"reporter"`
	Reason   string   `json:"reason"`
	At       int64    `json:"at"`
}

// NewViolationReport validates the reason and assigns a fresh report id.
func NewViolationReport(nodeID [32]byte, owner, reporter [20]byte, reason string, at int64) (*ViolationReport, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return nil, ErrEmptyReason
	}
	if len(trimmed) > MaxReasonLength {
		trimmed = trimmed[:MaxReasonLength]
	}
	return &ViolationReport{
		ID:       uuid.NewString(),
		NodeID:   nodeID,
		Owner:    owner,
		Reporter: reporter,
		Reason:   trimmed,
		At:       at,
	}, nil
}
