package crypto

import (
	"errors"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the byte length of a recoverable secp256k1 signature
// (r ‖ s ‖ v).
const SignatureLength = 65

// DigestLength is the byte length of digests accepted for signing and recovery.
const DigestLength = 32

var (
	// ErrMalformedSignature marks signatures whose encoding is rejected before
	// any recovery work is attempted.
	ErrMalformedSignature = errors.New("crypto: malformed signature")
	// ErrSignatureRecovery marks signatures that decode but do not recover a
	// valid public key.
	ErrSignatureRecovery = errors.New("crypto: signature recovery failed")
)

// RecoverSigner recovers the 20-byte account identifier that produced the
// signature over digest. The length check runs before recovery so malformed
// input is rejected cheaply.
func RecoverSigner(digest [32]byte, sig []byte) ([20]byte, error) {
	var out [20]byte
	if len(sig) != SignatureLength {
		return out, ErrMalformedSignature
	}
	pubKey, err := ethcrypto.SigToPub(digest[:], sig)
	if err != nil {
		return out, ErrSignatureRecovery
	}
	copy(out[:], ethcrypto.PubkeyToAddress(*pubKey).Bytes())
	return out, nil
}

// Sign produces a recoverable signature over digest with the supplied key.
func Sign(digest [32]byte, key *PrivateKey) ([]byte, error) {
	if key == nil || key.PrivateKey == nil {
		return nil, errors.New("crypto: private key required")
	}
	return ethcrypto.Sign(digest[:], key.PrivateKey)
}

// Keccak256 hashes the concatenation of the provided byte slices.
func Keccak256(data ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(data...))
	return out
}
