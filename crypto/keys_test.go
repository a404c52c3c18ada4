package crypto

import (
	"errors"
	"testing"

	"github.com/btcsuite/btcutil/bech32"
)

// encodeBech32 builds a syntactically valid bech32 string around an arbitrary
// payload so decoding exercises the payload checks, not the checksum.
func encodeBech32(t *testing.T, prefix string, payload []byte) string {
	t.Helper()
	conv, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		t.Fatalf("convert bits: %v", err)
	}
	encoded, err := bech32.Encode(prefix, conv)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return encoded
}

func TestDecodeAddressRejectsShortPayload(t *testing.T) {
	addr := encodeBech32(t, string(RelayPrefix), make([]byte, 10))
	if _, err := DecodeAddress(addr); !errors.Is(err, ErrAddressLength) {
		t.Fatalf("expected address length error, got %v", err)
	}
}

func TestDecodeAddressRejectsLongPayload(t *testing.T) {
	addr := encodeBech32(t, string(RelayPrefix), make([]byte, 32))
	if _, err := DecodeAddress(addr); !errors.Is(err, ErrAddressLength) {
		t.Fatalf("expected address length error, got %v", err)
	}
}

func TestDecodeAddressRejectsForeignPrefix(t *testing.T) {
	addr := encodeBech32(t, "xx", make([]byte, AddressLength))
	if _, err := DecodeAddress(addr); !errors.Is(err, ErrAddressPrefix) {
		t.Fatalf("expected address prefix error, got %v", err)
	}
}

func TestDecodeAddressRejectsGarbage(t *testing.T) {
	if _, err := DecodeAddress("not-an-address"); err == nil {
		t.Fatalf("expected decode failure")
	}
}

func TestAddressFromBytesLengthCheck(t *testing.T) {
	if _, err := AddressFromBytes(RelayPrefix, make([]byte, 19)); !errors.Is(err, ErrAddressLength) {
		t.Fatalf("expected address length error, got %v", err)
	}
	addr, err := AddressFromBytes(RelayPrefix, make([]byte, AddressLength))
	if err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if got := addr.AccountID(); got != [AddressLength]byte{} {
		t.Fatalf("unexpected account id %x", got)
	}
}
