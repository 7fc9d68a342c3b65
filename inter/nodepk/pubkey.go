// Package nodepk provides abstractions for handling MeshX node public keys.
// A node's public key is its global identity: it keys the validator registry,
// names the endpoints of latency measurements, and feeds every hash used for
// validator selection. The PubKey structure decouples the signature scheme
// from the raw key bytes so additional curves can be introduced without
// touching the packages that merely carry identities around.
package nodepk

import (
	"crypto/ed25519"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// PubKey represents a MeshX node's public key.
type PubKey struct {
	// Type identifies the signature scheme of the key (see Types).
	Type uint8
	// Raw contains the actual public key bytes.
	Raw []byte
}

// Types defines the supported public key type constants. Device keys are
// Ed25519; Secp256k1 is reserved for bridging to EVM-compatible tooling.
var Types = struct {
	Ed25519   uint8
	Secp256k1 uint8
}{
	Ed25519:   0xe1,
	Secp256k1: 0xc0,
}

// Empty reports whether the key is uninitialized.
func (pk PubKey) Empty() bool {
	return len(pk.Raw) == 0 && pk.Type == 0
}

// String returns the hex representation of the key, prefixed with "0x".
// The type byte precedes the raw key bytes.
func (pk PubKey) String() string {
	return "0x" + common.Bytes2Hex(pk.Bytes())
}

// Bytes returns the flat byte representation: [Type byte] + [Raw bytes...].
func (pk PubKey) Bytes() []byte {
	return append([]byte{pk.Type}, pk.Raw...)
}

// Copy creates a deep copy of the PubKey. Raw is a slice, so plain assignment
// would share the underlying array.
func (pk PubKey) Copy() PubKey {
	return PubKey{
		Type: pk.Type,
		Raw:  common.CopyBytes(pk.Raw),
	}
}

// FromString parses a hex string (with or without "0x" prefix) into a PubKey.
func FromString(str string) (PubKey, error) {
	return FromBytes(common.FromHex(str))
}

// FromBytes reconstructs a PubKey from its flat byte representation.
func FromBytes(b []byte) (PubKey, error) {
	if len(b) == 0 {
		return PubKey{}, errors.New("empty pubkey")
	}
	return PubKey{b[0], b[1:]}, nil
}

// FromEd25519 wraps a standard-library Ed25519 public key.
func FromEd25519(key ed25519.PublicKey) PubKey {
	return PubKey{
		Type: Types.Ed25519,
		Raw:  common.CopyBytes(key),
	}
}

// MarshalText implements encoding.TextMarshaler, so keys render as hex
// strings under JSON and YAML encoding.
func (pk *PubKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PubKey) UnmarshalText(input []byte) error {
	res, err := FromString(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}

// FakeKey returns a deterministic Ed25519 public key derived from n.
// Intended for fakenet simulations and tests, where stable identities matter
// more than secrecy; the private half is discarded.
func FakeKey(n uint64) PubKey {
	seed := sha3.Sum256([]byte{
		'f', 'a', 'k', 'e',
		byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24),
		byte(n >> 32), byte(n >> 40), byte(n >> 48), byte(n >> 56),
	})
	priv := ed25519.NewKeyFromSeed(seed[:])
	return FromEd25519(priv.Public().(ed25519.PublicKey))
}
