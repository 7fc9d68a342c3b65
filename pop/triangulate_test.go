package pop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
)

// TestInsufficientLatencyData verifies fewer than three measuring sources
// fails before any estimation is attempted.
func TestInsufficientLatencyData(t *testing.T) {
	require := require.New(t)
	v, registry := testEnv(1)

	// Three registered nodes, but only two of them measure the target.
	nodes := make([]Node, 3)
	for i := range nodes {
		pk := nodepk.FakeKey(uint64(i))
		loc := geo.Location{Latitude: 40.7 + float64(i)*0.01, Longitude: -74.0, AccuracyM: 100_000}
		nodes[i] = Node{
			PubKey:      pk,
			Attestation: freshAttestation(pk),
			Location:    loc,
			Shard:       geo.AssignShard(loc),
			Stake:       100_000,
			Resources:   testResources(),
		}
		require.NoError(registry.RegisterNode(nodes[i]))
	}
	for _, i := range []int{1, 2} {
		require.NoError(registry.RecordLatency(LatencyMeasurement{
			From: nodes[i].PubKey, To: nodes[0].PubKey, LatencyMs: 1, Timestamp: testNow,
		}))
	}

	_, err := v.ValidateNode(context.Background(), &nodes[0])
	require.ErrorIs(err, ErrInsufficientLatencyData)
}

// TestUnknownPeersSkipped verifies sources without a registry record are
// skipped silently; if nothing usable remains the check fails for lack of
// data rather than dividing by nothing.
func TestUnknownPeersSkipped(t *testing.T) {
	require := require.New(t)
	v, registry := testEnv(1)
	nodes := newTestMesh(t, registry, 1)

	// Three measurements, all from identities the registry has never seen.
	for i := 0; i < 3; i++ {
		require.NoError(registry.RecordLatency(LatencyMeasurement{
			From:      nodepk.FakeKey(uint64(500 + i)),
			To:        nodes[0].PubKey,
			LatencyMs: 1,
			Timestamp: testNow,
		}))
	}

	_, err := v.ValidateNode(context.Background(), &nodes[0])
	require.ErrorIs(err, ErrInsufficientLatencyData)
}

// TestZeroLatencySkipped verifies the divide-by-zero guard: zero-latency
// edges contribute nothing, and an accumulation of only such edges fails.
func TestZeroLatencySkipped(t *testing.T) {
	require := require.New(t)
	v, registry := testEnv(1)
	nodes := newTestMesh(t, registry, 4)

	// Overwrite one incoming edge with zero latency; two sane edges remain,
	// so validation still succeeds.
	require.NoError(registry.RecordLatency(LatencyMeasurement{
		From: nodes[1].PubKey, To: nodes[0].PubKey, LatencyMs: 0, Timestamp: testNow,
	}))
	ok, err := v.ValidateNode(context.Background(), &nodes[0])
	require.NoError(err)
	require.True(ok)

	// With every incoming edge at zero latency there is nothing to weigh.
	for _, i := range []int{2, 3} {
		require.NoError(registry.RecordLatency(LatencyMeasurement{
			From: nodes[i].PubKey, To: nodes[0].PubKey, LatencyMs: 0, Timestamp: testNow,
		}))
	}
	_, err = v.ValidateNode(context.Background(), &nodes[0])
	require.ErrorIs(err, ErrInsufficientLatencyData)
}

// TestLocationMismatch verifies a claim far from the triangulated estimate
// is rejected once the distance exceeds the claimed accuracy.
func TestLocationMismatch(t *testing.T) {
	require := require.New(t)
	v, registry := testEnv(1)
	nodes := newTestMesh(t, registry, 4)

	// The latency graph places the node in New York; claim Tokyo.
	liar := nodes[0]
	liar.Location = geo.Location{Latitude: 35.6762, Longitude: 139.6503, AccuracyM: 100_000}

	_, err := v.ValidateNode(context.Background(), &liar)
	require.ErrorIs(err, ErrLocationMismatch)
}

// TestTriangulatedEstimate checks the centroid estimate directly: equal
// weights average the peer coordinates, and the estimate carries the fixed
// coarse accuracy radius.
func TestTriangulatedEstimate(t *testing.T) {
	require := require.New(t)
	v, registry := testEnv(1)
	nodes := newTestMesh(t, registry, 4)

	snap := registry.Snapshot()
	est, err := v.triangulate(snap, snap.measurementsTo(nodes[0].PubKey))
	require.NoError(err)

	// Peers 1..3 sit at lat 40.71+0.01i, lon -74.00+0.01i with equal
	// latency, so the estimate is their plain mean.
	require.InDelta(40.72, est.Latitude, 1e-9)
	require.InDelta(-73.98, est.Longitude, 1e-9)
	require.Equal(v.rules.Triangulation.EstimateAccuracyM, est.AccuracyM)
}
