// Package meshx defines the network rules for the MeshX device mesh.
//
// This package provides:
//   - Network identification constants (MainNet, TestNet, FakeNet)
//   - Attestation freshness rules
//   - Latency-triangulation parameters
//   - Hardware resource minimums for validator candidates
//   - Stake tiers per continental shard
//   - Validator selection parameters
//
// The Rules type is the central configuration structure holding every
// protocol-critical parameter for a given MeshX network deployment. All
// validation and selection code reads its thresholds from a Rules value
// rather than from scattered constants, so fakenet deployments can shrink
// the network without forking the validation logic.
package meshx

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter"
)

// Network identification constants.
const (
	// MainNetworkID is the network ID of the MeshX mainnet (0x6d78 = "mx").
	MainNetworkID uint64 = 0x6d78

	// TestNetworkID is the network ID of the MeshX testnet.
	TestNetworkID uint64 = 0x6d79

	// FakeNetworkID is the network ID for local simulated networks.
	FakeNetworkID uint64 = 0x6d7a
)

// EnclaveCodeHash is the digest of the canonical MeshX validator enclave
// program. Attestations must report exactly this code identity. It is a
// process-wide constant: the protocol recognizes a single validator build
// per release, never a per-call expectation.
var EnclaveCodeHash = common.HexToHash("0x4242424242424242424242424242424242424242424242424242424242424242")

// Rules describes the complete protocol configuration of a MeshX network.
type Rules struct {
	Name      string // network name identifier ("main", "test", "fake")
	NetworkID uint64

	Attestation   AttestationRules
	Triangulation TriangulationRules
	Resources     ResourceRules
	Stake         StakeRules
	Selection     SelectionRules
}

// AttestationRules governs TEE attestation acceptance.
type AttestationRules struct {
	// MaxAge is the attestation staleness window. Reports older than this
	// relative to wall-clock time at verification are rejected; the window is
	// the only clock-skew tolerance the protocol grants.
	MaxAge time.Duration
}

// TriangulationRules parameterizes latency-based location verification.
type TriangulationRules struct {
	// MinMeasurements is the number of distinct peers that must have measured
	// latency to a node before its claimed location can be checked at all.
	MinMeasurements int

	// PropagationKmPerMs converts one-way latency to an approximate distance.
	// 200 km/ms models light in fiber.
	PropagationKmPerMs float64

	// EstimateAccuracyM is the accuracy radius attached to triangulated
	// positions. The estimate is deliberately coarse; production RF
	// triangulation would tighten it.
	EstimateAccuracyM float32
}

// ResourceRules are the hardware minimums a validator candidate must declare.
type ResourceRules struct {
	MinCPUCores      uint32
	MinRAMGB         uint32
	MinStorageGB     uint64
	MinBandwidthMbps uint32
}

// StakeRules holds the minimum-stake tiers. Under-served regions get lower
// minimums as a deliberate placement incentive.
type StakeRules struct {
	// TierMajor applies to NorthAmerica, Europe and Asia.
	TierMajor inter.Stake
	// TierGrowth applies to SouthAmerica, Africa and Oceania.
	TierGrowth inter.Stake
	// TierFrontier applies to Antarctica.
	TierFrontier inter.Stake
}

// MinStake returns the minimum stake required for a node in the given shard.
func (r StakeRules) MinStake(shard geo.Shard) inter.Stake {
	switch shard {
	case geo.SouthAmerica, geo.Africa, geo.Oceania:
		return r.TierGrowth
	case geo.Antarctica:
		return r.TierFrontier
	default:
		return r.TierMajor
	}
}

// SelectionRules parameterizes per-epoch validator selection.
type SelectionRules struct {
	// ValidatorCount is the size of the validator set drawn each epoch.
	// The reference policy documents it as "per shard" but applies it
	// globally; selection here preserves the global application.
	ValidatorCount int
}

// MainNetRules returns the production MeshX network configuration.
func MainNetRules() Rules {
	return Rules{
		Name:          "main",
		NetworkID:     MainNetworkID,
		Attestation:   DefaultAttestationRules(),
		Triangulation: DefaultTriangulationRules(),
		Resources:     DefaultResourceRules(),
		Stake:         DefaultStakeRules(),
		Selection:     SelectionRules{ValidatorCount: 1000},
	}
}

// TestNetRules returns the testnet configuration. The testnet runs the same
// protocol thresholds as mainnet so behavior transfers directly.
func TestNetRules() Rules {
	rules := MainNetRules()
	rules.Name = "test"
	rules.NetworkID = TestNetworkID
	return rules
}

// FakeNetRules returns the configuration for local simulated networks.
// Protocol thresholds stay identical to mainnet; only the validator set is
// shrunk so a handful of simulated devices forms a complete network.
func FakeNetRules() Rules {
	rules := MainNetRules()
	rules.Name = "fake"
	rules.NetworkID = FakeNetworkID
	rules.Selection.ValidatorCount = 10
	return rules
}

// DefaultAttestationRules returns the mainnet attestation window.
func DefaultAttestationRules() AttestationRules {
	return AttestationRules{
		MaxAge: time.Hour,
	}
}

// DefaultTriangulationRules returns the mainnet triangulation parameters.
func DefaultTriangulationRules() TriangulationRules {
	return TriangulationRules{
		MinMeasurements:    3,
		PropagationKmPerMs: 200.0,
		EstimateAccuracyM:  50_000,
	}
}

// DefaultResourceRules returns the mainnet hardware minimums.
func DefaultResourceRules() ResourceRules {
	return ResourceRules{
		MinCPUCores:      2,
		MinRAMGB:         4,
		MinStorageGB:     100,
		MinBandwidthMbps: 10,
	}
}

// DefaultStakeRules returns the mainnet stake tiers, in MESHX.
func DefaultStakeRules() StakeRules {
	return StakeRules{
		TierMajor:    100_000,
		TierGrowth:   50_000,
		TierFrontier: 10_000,
	}
}

// Copy creates a deep copy of Rules. Rules currently contains no reference
// types, so a value copy suffices; the method exists so call sites don't have
// to know that.
func (r Rules) Copy() Rules {
	return r
}

// String returns a JSON rendering of the rules for logging and debugging.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
