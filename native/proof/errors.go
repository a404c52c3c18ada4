package proof

import "errors"

var (
	ErrCooldownActive      = errors.New("proof: submission cooldown active")
	ErrStaleTimestamp      = errors.New("proof: timestamp outside accepted window")
	ErrDuplicateProof      = errors.New("proof: proof already recorded")
	ErrSenderNotRegistered = errors.New("proof: sender has no active identity")
	ErrInvalidSignature    = errors.New("proof: signature does not match sender")
	ErrOffline             = errors.New("proof: node offline")
	ErrEmptyBatch          = errors.New("proof: batch contains no entries")
	ErrBatchTooLarge       = errors.New("proof: batch exceeds maximum size")
	ErrBatchAllRejected    = errors.New("proof: every batch entry was rejected")
)
