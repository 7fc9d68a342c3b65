package pop

import (
	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
)

// verifyLocation checks a node's claimed coordinate against a position
// triangulated from the latency graph. The check needs measurements from at
// least Triangulation.MinMeasurements distinct sources; with fewer it fails
// ErrInsufficientLatencyData rather than guessing. A claimed location is
// accepted when the great-circle distance to the estimate is within the
// claimed accuracy radius.
func (v *Validator) verifyLocation(snap *Snapshot, pk nodepk.PubKey, claimed geo.Location) error {
	measurements := snap.measurementsTo(pk)
	if len(measurements) < v.rules.Triangulation.MinMeasurements {
		return ErrInsufficientLatencyData
	}

	estimated, err := v.triangulate(snap, measurements)
	if err != nil {
		return err
	}

	if geo.HaversineM(estimated, claimed) > float64(claimed.AccuracyM) {
		return ErrLocationMismatch
	}
	return nil
}

// triangulate estimates a position as the inverse-distance-weighted centroid
// of the measuring peers' coordinates. Latency converts to one-way distance
// via the fixed fiber propagation constant. Two kinds of edges contribute
// nothing: peers without a registry record (their coordinates are unknown)
// and zero-latency edges (an apparent distance of zero cannot be weighted).
// Both are skipped silently; only an empty accumulation fails.
func (v *Validator) triangulate(snap *Snapshot, measurements []sourceLatency) (geo.Location, error) {
	var latSum, lonSum, weightSum float64

	for _, m := range measurements {
		peer, ok := snap.node(m.from)
		if !ok {
			continue
		}
		if m.latencyMs == 0 {
			continue
		}

		distanceKm := float64(m.latencyMs) * v.rules.Triangulation.PropagationKmPerMs
		weight := 1.0 / distanceKm

		latSum += peer.Location.Latitude * weight
		lonSum += peer.Location.Longitude * weight
		weightSum += weight
	}

	if weightSum == 0 {
		return geo.Location{}, ErrInsufficientLatencyData
	}

	return geo.Location{
		Latitude:  latSum / weightSum,
		Longitude: lonSum / weightSum,
		AccuracyM: v.rules.Triangulation.EstimateAccuracyM,
	}, nil
}
