// Package tee models trusted-execution-environment attestation for MeshX
// devices. It defines the attestation report carried by every node record and
// the pluggable per-TEE quote verifiers the attestation pipeline dispatches
// to. The reference verifiers in this package are placeholders: they enforce
// only that a quote is present. Production deployments swap in backends that
// perform real cryptographic quote verification (DCAP/EPID for SGX, the
// TrustZone attestation chain, Apple's attestation service, SEV measurement
// checks) behind the same QuoteVerifier contract.
package tee

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/RealHaywoodJ/meshx-device-mesh/inter"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
)

// Type identifies the TEE backend that produced an attestation.
type Type uint8

const (
	IntelSGX Type = iota
	ARMTrustZone
	AppleSecureEnclave
	AMDSEV
)

// TypeCount is the number of supported TEE backends.
const TypeCount = 4

var typeNames = [TypeCount]string{
	IntelSGX:           "sgx",
	ARMTrustZone:       "trustzone",
	AppleSecureEnclave: "secure-enclave",
	AMDSEV:             "sev",
}

// String returns the canonical short name of the TEE type.
func (t Type) String() string {
	if int(t) >= len(typeNames) {
		return fmt.Sprintf("tee-%d", uint8(t))
	}
	return typeNames[t]
}

// ParseType resolves a canonical TEE name back to its Type value.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown TEE type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(input []byte) error {
	parsed, err := ParseType(string(input))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Attestation is a TEE attestation report. A device produces one at startup
// and must re-issue it once it ages past the network's staleness window.
// The struct is RLP-encodable as-is for the registration feed.
type Attestation struct {
	// Type names the TEE backend that produced the quote.
	Type Type
	// EnclaveCodeHash is the digest of the program measured inside the
	// enclave. Verification requires an exact match against the network's
	// canonical validator code identity.
	EnclaveCodeHash common.Hash
	// Signer is the public key the enclave signed the quote with.
	Signer nodepk.PubKey
	// Timestamp records when the attestation was issued, in Unix seconds.
	Timestamp inter.Timestamp
	// Quote holds the opaque TEE-specific evidence bytes.
	Quote []byte
}

// Copy creates a deep copy of the attestation.
func (a Attestation) Copy() Attestation {
	cp := a
	cp.Signer = a.Signer.Copy()
	cp.Quote = common.CopyBytes(a.Quote)
	return cp
}
