package launcher

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/sha3"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/integration"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
	"github.com/RealHaywoodJ/meshx-device-mesh/meshx"
	"github.com/RealHaywoodJ/meshx-device-mesh/pop"
	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

// fakeQuote is the placeholder evidence simulated devices attest with. The
// reference quote backends only require non-empty bytes.
var fakeQuote = []byte("fakenet-quote")

// buildFakeMesh populates a registry with size deterministic simulated
// devices and a full latency mesh between them. Identities, locations and
// hardware profiles all derive from the device index, so two runs of the
// same size produce the same mesh and therefore the same selection results.
func buildFakeMesh(size int, minValidators int) (*pop.Registry, error) {
	registry := pop.NewRegistry(minValidators)

	presets := []integration.NodePreset{
		integration.EdgePreset(),
		integration.WorkstationPreset(),
		integration.DatacenterPreset(),
	}

	nodes := make([]pop.Node, size)
	for i := 0; i < size; i++ {
		pk := nodepk.FakeKey(uint64(i))
		loc := fakeLocation(uint64(i))
		preset := presets[i%len(presets)]

		nodes[i] = pop.Node{
			PubKey: pk,
			Attestation: tee.Attestation{
				Type:            tee.Type(i % tee.TypeCount),
				EnclaveCodeHash: meshx.EnclaveCodeHash,
				Signer:          pk,
				Timestamp:       inter.Now(),
				Quote:           fakeQuote,
			},
			Location:   loc,
			Shard:      geo.AssignShard(loc),
			Stake:      inter.Stake(preset.Stake),
			Resources:  preset.Resources,
			Reputation: 1.0,
		}
		if err := registry.RegisterNode(nodes[i]); err != nil {
			return nil, err
		}
	}

	// Full latency mesh derived from actual great-circle distances at the
	// fiber propagation speed, so triangulation sees physically consistent
	// measurements.
	now := inter.Now()
	for i := range nodes {
		for j := range nodes {
			if i == j {
				continue
			}
			distKm := geo.HaversineM(nodes[i].Location, nodes[j].Location) / 1000
			latency := uint32(math.Ceil(distKm / 200))
			if latency == 0 {
				latency = 1
			}
			m := pop.LatencyMeasurement{
				From:      nodes[i].PubKey,
				To:        nodes[j].PubKey,
				LatencyMs: latency,
				Timestamp: now,
			}
			if err := registry.RecordLatency(m); err != nil {
				return nil, err
			}
		}
	}

	return registry, nil
}

// fakeLocation spreads device n deterministically across the inhabited
// latitude band. The claimed accuracy is intentionally enormous: the
// inverse-distance centroid of a globe-spanning mesh lands far from any
// single device, and the simulation wants nodes to pass the location check
// rather than demonstrate triangulation precision.
func fakeLocation(n uint64) geo.Location {
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], n)
	h := sha3.Sum256(append([]byte("fakenet-location"), seed[:]...))

	lat := -55 + float64(binary.LittleEndian.Uint64(h[0:8])%130) // [-55, 75)
	lon := -180 + float64(binary.LittleEndian.Uint64(h[8:16])%360)

	return geo.Location{
		Latitude:  lat,
		Longitude: lon,
		AccuracyM: 25_000_000, // exceeds any great-circle distance, accepts any estimate
	}
}
