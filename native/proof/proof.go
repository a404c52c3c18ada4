package proof

import (
	"encoding/binary"

	"relaynet/crypto"
)

const (
	// CooldownSeconds bounds how often a node may have a proof accepted,
	// independent of message volume.
	CooldownSeconds = 10
	// FreshnessWindowSeconds is the maximum age of an accepted relay proof.
	FreshnessWindowSeconds = 3600
	// MaxBatchSize bounds the entries accepted in one batched submission.
	MaxBatchSize = 50
)

// RelayProof is one claimed relay event: the original sender attests with a
// detached signature that the node forwarded the message.
type RelayProof struct {
	NodeID          [32]byte
	MessageHash     [32]byte
	Sender          [20]byte
	Recipient       [20]byte
	Timestamp       int64
	SenderSignature []byte
}

// NodeProofState tracks the per-node replay counters consulted on every
// submission.
type NodeProofState struct {
	NextNonce      uint64 `json:"nextNonce"`
	LastAcceptedAt int64  `json:"lastAcceptedAt"`
}

// Key derives the permanent dedup key for the proof. Two proofs collide only
// when message hash, node, sender and recipient all match, so a replay with an
// altered timestamp or signature still dedups.
func (p *RelayProof) Key() [32]byte {
	return crypto.Keccak256(p.MessageHash[:], p.NodeID[:], p.Sender[:], p.Recipient[:])
}

// SigningDigest reconstructs the exact digest the sender must have signed:
// keccak256(messageHash ‖ nodeID ‖ timestamp ‖ nonce) with both integers in
// 8-byte big-endian form.
func SigningDigest(messageHash, nodeID [32]byte, timestamp int64, nonce uint64) [32]byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return crypto.Keccak256(messageHash[:], nodeID[:], ts[:], n[:])
}

// CheckFreshness rejects proofs stamped in the future or older than the
// freshness window.
func CheckFreshness(timestamp, now int64) error {
	if timestamp > now {
		return ErrStaleTimestamp
	}
	if now-timestamp > FreshnessWindowSeconds {
		return ErrStaleTimestamp
	}
	return nil
}

// CheckCooldown rejects a submission arriving within the cooldown window of
// the node's previous accepted proof.
func CheckCooldown(lastAcceptedAt, now int64) error {
	if lastAcceptedAt > 0 && now-lastAcceptedAt < CooldownSeconds {
		return ErrCooldownActive
	}
	return nil
}

// VerifySender recovers the signer of the proof's signing digest at the given
// nonce and compares it against the claimed sender.
func VerifySender(p *RelayProof, nonce uint64) error {
	if p == nil {
		return ErrInvalidSignature
	}
	digest := SigningDigest(p.MessageHash, p.NodeID, p.Timestamp, nonce)
	recovered, err := crypto.RecoverSigner(digest, p.SenderSignature)
	if err != nil {
		return ErrInvalidSignature
	}
	if recovered != p.Sender {
		return ErrInvalidSignature
	}
	return nil
}
