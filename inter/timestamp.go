// Package inter contains the base scalar types shared across the MeshX
// node-mesh packages. These types are deliberately small: they exist so that
// registry records, attestation reports and latency measurements agree on a
// single representation of time and stake without importing each other.
package inter

import "time"

// Timestamp is a wall-clock moment expressed as seconds since the Unix epoch.
// Attestation freshness windows and latency-measurement ordering both operate
// on this resolution; sub-second precision buys nothing at the protocol level.
type Timestamp uint64

// Now returns the current wall-clock time as a Timestamp.
func Now() Timestamp {
	return Timestamp(time.Now().Unix())
}

// FromTime converts a time.Time into a Timestamp, truncating to seconds.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.Unix())
}

// Time converts the Timestamp back into a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Stake is an amount of MESHX tokens bonded by a node.
type Stake uint64
