// Package pop implements the Proof of Physical Presence (PoP²) validator
// core: the node registry, the attestation/location/stake/resource
// validation pipeline, and deterministic per-epoch validator selection.
package pop

import (
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

// NodeResources are the hardware capabilities a node declares at
// registration. They are self-reported and checked against the network's
// static minimums during validation.
type NodeResources struct {
	CPUCores      uint32
	RAMGB         uint32
	StorageGB     uint64
	BandwidthMbps uint32
	// GPUMemoryGB is nil for nodes without an accelerator. No current check
	// consumes it; it is carried for future compute-job scheduling.
	GPUMemoryGB *uint32 `rlp:"nil"`
}

// Copy creates a deep copy of the resources.
func (r NodeResources) Copy() NodeResources {
	cp := r
	if r.GPUMemoryGB != nil {
		gpu := *r.GPUMemoryGB
		cp.GPUMemoryGB = &gpu
	}
	return cp
}

// Node is the registry record of a MeshX device.
type Node struct {
	// PubKey is the node's global identity and the registry key.
	PubKey nodepk.PubKey
	// ID is a compact validator index assigned by the registry at first
	// registration. It keys the stake-weighted validator set built for each
	// epoch and never changes for a given PubKey.
	ID idx.ValidatorID
	// Attestation is the node's most recent TEE attestation report.
	Attestation tee.Attestation
	// Location is the node's self-reported coordinate, checked independently
	// by latency triangulation.
	Location geo.Location
	// Shard is the continental shard the node belongs to. The registration
	// path keeps it equal to geo.AssignShard(Location); validation trusts it.
	Shard geo.Shard
	// Stake is the amount of MESHX the node has bonded.
	Stake inter.Stake
	// Reputation is carried for future selection weighting. No current
	// check reads it.
	Reputation float32
	// Resources are the node's declared hardware capabilities.
	Resources NodeResources
}

// Copy creates a deep copy of the node record.
func (n Node) Copy() Node {
	cp := n
	cp.PubKey = n.PubKey.Copy()
	cp.Attestation = n.Attestation.Copy()
	cp.Resources = n.Resources.Copy()
	return cp
}

// LatencyMeasurement is a directed edge in the mesh latency graph: one peer's
// observation of round-trip-derived one-way latency to another. The registry
// keeps only the latest measurement per ordered pair.
type LatencyMeasurement struct {
	From      nodepk.PubKey
	To        nodepk.PubKey
	LatencyMs uint32
	Timestamp inter.Timestamp
}

// Wire encoding. Reputation is a float, which RLP does not carry, so it
// travels as fixed-point millionths.
type nodeRLP struct {
	PubKey          nodepk.PubKey
	ID              idx.ValidatorID
	Attestation     tee.Attestation
	Location        geo.Location
	Shard           geo.Shard
	Stake           inter.Stake
	ReputationMicro uint64
	Resources       NodeResources
}

// EncodeRLP implements rlp.Encoder.
func (n *Node) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &nodeRLP{
		PubKey:          n.PubKey,
		ID:              n.ID,
		Attestation:     n.Attestation,
		Location:        n.Location,
		Shard:           n.Shard,
		Stake:           n.Stake,
		ReputationMicro: uint64(math.Round(float64(n.Reputation) * 1e6)),
		Resources:       n.Resources,
	})
}

// DecodeRLP implements rlp.Decoder.
func (n *Node) DecodeRLP(s *rlp.Stream) error {
	var enc nodeRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	*n = Node{
		PubKey:      enc.PubKey,
		ID:          enc.ID,
		Attestation: enc.Attestation,
		Location:    enc.Location,
		Shard:       enc.Shard,
		Stake:       enc.Stake,
		Reputation:  float32(float64(enc.ReputationMicro) / 1e6),
		Resources:   enc.Resources,
	}
	return nil
}
