package pop

import (
	"errors"

	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

// Validation failures form a closed set: every error below corresponds to
// exactly one failed precondition, checks run in a fixed order, and the first
// failure short-circuits the rest. Callers therefore always observe a single
// reason per failed call. Match with errors.Is; failures are never retried
// internally and never mutate registry state.
var (
	// ErrStaleAttestation: the TEE attestation is older than the network's
	// freshness window.
	ErrStaleAttestation = errors.New("TEE attestation is too old")

	// ErrInvalidEnclaveCode: the attested enclave program digest does not
	// match the canonical MeshX validator code identity.
	ErrInvalidEnclaveCode = errors.New("invalid enclave code hash")

	// ErrInvalidQuote: the TEE quote failed backend verification. Aliased
	// from the tee package so both raise the same sentinel.
	ErrInvalidQuote = tee.ErrInvalidQuote

	// ErrInsufficientStake: the node's bonded amount is below its shard's
	// minimum tier.
	ErrInsufficientStake = errors.New("insufficient stake amount")

	// ErrInsufficientLatencyData: too few peers have measured latency to the
	// node for triangulation to say anything.
	ErrInsufficientLatencyData = errors.New("not enough latency measurements")

	// ErrLocationMismatch: the claimed location disagrees with the
	// latency-triangulated estimate beyond the claimed accuracy radius.
	ErrLocationMismatch = errors.New("location doesn't match latency triangulation")

	// ErrInsufficientValidators: selection filtering left fewer candidates
	// than the registry's configured minimum.
	ErrInsufficientValidators = errors.New("not enough validators available")

	// Resource gate failures, one per declared resource, checked in the
	// order CPU, RAM, storage, bandwidth.
	ErrInsufficientCPU       = errors.New("insufficient CPU cores")
	ErrInsufficientRAM       = errors.New("insufficient RAM")
	ErrInsufficientStorage   = errors.New("insufficient storage")
	ErrInsufficientBandwidth = errors.New("insufficient bandwidth")
)
