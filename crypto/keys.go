package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable part of a bech32 account address.
type AddressPrefix string

// RelayPrefix is the prefix carried by relay network account addresses.
const RelayPrefix AddressPrefix = "rn"

// AddressLength is the size of a raw account identifier in bytes.
const AddressLength = 20

var (
	ErrAddressLength = errors.New("crypto: address payload must be 20 bytes")
	ErrAddressPrefix = errors.New("crypto: unexpected address prefix")
)

// Address is a prefixed 20-byte account identifier.
type Address struct {
	prefix AddressPrefix
	id     [AddressLength]byte
}

// NewAddress wraps a raw account identifier with the given prefix.
func NewAddress(prefix AddressPrefix, id [AddressLength]byte) Address {
	return Address{prefix: prefix, id: id}
}

// AddressFromBytes validates the payload length and wraps it.
func AddressFromBytes(prefix AddressPrefix, b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, ErrAddressLength
	}
	var id [AddressLength]byte
	copy(id[:], b)
	return Address{prefix: prefix, id: id}, nil
}

// DecodeAddress parses a bech32 account address. The payload must decode to
// exactly 20 bytes and carry the relay prefix.
func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: invalid bech32 string: %w", err)
	}
	if AddressPrefix(prefix) != RelayPrefix {
		return Address{}, ErrAddressPrefix
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: convert bits: %w", err)
	}
	return AddressFromBytes(AddressPrefix(prefix), conv)
}

// String renders the bech32 form. Construction validates the payload, so the
// conversion cannot fail for a well-formed Address; a zero-value Address with
// an empty prefix renders as the empty string.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.id[:], 8, 5, true)
	if err != nil {
		return ""
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		return ""
	}
	return encoded
}

// Bytes returns a copy of the raw payload.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a.id[:])
	return out
}

// AccountID returns the raw payload as the fixed-size form the ledger keys
// accounts by.
func (a Address) AccountID() [AddressLength]byte {
	return a.id
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

// --- Key management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

// GeneratePrivateKey creates a fresh secp256k1 operator key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// PrivateKeyFromBytes rehydrates a key from its raw scalar bytes.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the raw scalar bytes of the private key.
func (k *PrivateKey) Bytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

// Address returns the bech32 account address derived from the public key.
func (k *PublicKey) Address() Address {
	return NewAddress(RelayPrefix, k.AccountID())
}

// AccountID returns the raw 20-byte account identifier for the public key.
func (k *PublicKey) AccountID() [AddressLength]byte {
	var out [AddressLength]byte
	copy(out[:], crypto.PubkeyToAddress(*k.PublicKey).Bytes())
	return out
}
