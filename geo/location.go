// Package geo contains the geodesy primitives of the MeshX mesh: geographic
// coordinates, great-circle distance, and the continental shard classifier.
// Everything here is pure computation over coordinates; nothing in this
// package touches the registry or the network.
package geo

import (
	"fmt"
	"io"
	"math"

	"github.com/ethereum/go-ethereum/rlp"
)

// EarthRadiusM is the mean Earth radius in meters used for all great-circle
// distance computations.
const EarthRadiusM = 6_371_000.0

// Location is a geographic coordinate claimed by or computed for a node.
type Location struct {
	// Latitude in signed degrees, north positive.
	Latitude float64
	// Longitude in signed degrees, east positive.
	Longitude float64
	// AccuracyM is the radius in meters within which the coordinate is
	// claimed to be correct. Location verification compares triangulated
	// positions against this radius.
	AccuracyM float32
}

// HaversineM returns the great-circle distance between a and b in meters,
// using the haversine formula over a spherical Earth. The result is symmetric
// in its arguments and zero for identical coordinates.
func HaversineM(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusM * c
}

// Wire encoding. RLP carries neither floats nor signed integers, so
// coordinates travel as fixed-point microdegrees offset into the positive
// range (latitude +90°, longitude +180°) and accuracy travels as millimeters.
// A microdegree is roughly 0.11 m at the equator, well below any accuracy
// radius the protocol deals in.
type locationRLP struct {
	LatMicro   uint64 // (latitude + 90) * 1e6
	LonMicro   uint64 // (longitude + 180) * 1e6
	AccuracyMM uint64
}

const microdegree = 1e6

// EncodeRLP implements rlp.Encoder.
func (l Location) EncodeRLP(w io.Writer) error {
	if l.Latitude < -90 || l.Latitude > 90 || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("location out of range: lat=%v lon=%v", l.Latitude, l.Longitude)
	}
	return rlp.Encode(w, &locationRLP{
		LatMicro:   uint64(math.Round((l.Latitude + 90) * microdegree)),
		LonMicro:   uint64(math.Round((l.Longitude + 180) * microdegree)),
		AccuracyMM: uint64(math.Round(float64(l.AccuracyM) * 1000)),
	})
}

// DecodeRLP implements rlp.Decoder.
func (l *Location) DecodeRLP(s *rlp.Stream) error {
	var enc locationRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	l.Latitude = float64(enc.LatMicro)/microdegree - 90
	l.Longitude = float64(enc.LonMicro)/microdegree - 180
	l.AccuracyM = float32(enc.AccuracyMM) / 1000
	return nil
}
