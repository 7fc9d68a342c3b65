package driver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
	"github.com/RealHaywoodJ/meshx-device-mesh/meshx"
	"github.com/RealHaywoodJ/meshx-device-mesh/pop"
	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

// feedNodes builds n valid clustered nodes and queues them, with a full
// latency mesh, on the given feed channels.
func feedNodes(t *testing.T, n int, nodes chan<- pop.Node, measurements chan<- pop.LatencyMeasurement) []pop.Node {
	t.Helper()
	now := inter.Now()

	built := make([]pop.Node, n)
	for i := 0; i < n; i++ {
		pk := nodepk.FakeKey(uint64(i))
		loc := geo.Location{
			Latitude:  40.70 + float64(i)*0.01,
			Longitude: -74.00 + float64(i)*0.01,
			AccuracyM: 100_000,
		}
		built[i] = pop.Node{
			PubKey: pk,
			Attestation: tee.Attestation{
				Type:            tee.IntelSGX,
				EnclaveCodeHash: meshx.EnclaveCodeHash,
				Signer:          pk,
				Timestamp:       now,
				Quote:           []byte("quote"),
			},
			Location:  loc,
			Shard:     geo.AssignShard(loc),
			Stake:     100_000,
			Resources: pop.NodeResources{CPUCores: 8, RAMGB: 16, StorageGB: 500, BandwidthMbps: 100},
		}
		nodes <- built[i]
	}
	for i := range built {
		for j := range built {
			if i == j {
				continue
			}
			measurements <- pop.LatencyMeasurement{
				From:      built[i].PubKey,
				To:        built[j].PubKey,
				LatencyMs: 1,
				Timestamp: now,
			}
		}
	}
	return built
}

// TestDriverRun feeds a small mesh through both ingest channels and expects
// the epoch loop to start producing full validator sets, then stop cleanly
// on cancellation.
func TestDriverRun(t *testing.T) {
	require := require.New(t)

	registry := pop.NewRegistry(0)
	v := pop.NewValidator(meshx.FakeNetRules(), registry)

	nodeFeed := make(chan pop.Node, 8)
	measurementFeed := make(chan pop.LatencyMeasurement, 64)
	feedNodes(t, 4, nodeFeed, measurementFeed)

	d := New(v, 20*time.Millisecond, nodeFeed, measurementFeed)

	var epochs atomic.Int32
	var lastSize atomic.Int32
	d.OnEpoch(func(epoch idx.Epoch, validators []nodepk.PubKey) {
		epochs.Add(1)
		lastSize.Store(int32(len(validators)))
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Ingestion races the first ticks, so early passes may see a partial
	// mesh. Eventually a pass runs over all 4 nodes and keeps them all.
	require.Eventually(func() bool {
		return epochs.Load() >= 2 && lastSize.Load() == 4
	}, 5*time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(<-done, context.Canceled)
	require.Equal(4, registry.Len())
	require.GreaterOrEqual(uint32(registry.Epoch()), uint32(2))
}

// TestDriverNilFeeds runs the driver without producers; the epoch loop alone
// keeps ticking and shutdown stays clean.
func TestDriverNilFeeds(t *testing.T) {
	require := require.New(t)

	registry := pop.NewRegistry(0)
	v := pop.NewValidator(meshx.FakeNetRules(), registry)
	d := New(v, 10*time.Millisecond, nil, nil)

	var epochs atomic.Int32
	d.OnEpoch(func(idx.Epoch, []nodepk.PubKey) { epochs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(func() bool { return epochs.Load() >= 1 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.ErrorIs(<-done, context.Canceled)
}
