package geo

import "fmt"

// Shard identifies a continental partition of the MeshX validator set.
// Shard membership drives minimum-stake tiers, so the classification below
// must stay deterministic and reproducible across every node.
type Shard uint8

const (
	NorthAmerica Shard = iota
	Europe
	Asia
	SouthAmerica
	Africa
	Oceania
	Antarctica
)

// ShardCount is the number of continental shards.
const ShardCount = 7

// shardBox is a latitude/longitude bounding box with exclusive bounds.
type shardBox struct {
	shard          Shard
	latMin, latMax float64
	lonMin, lonMax float64
}

// shardBoxes is evaluated strictly in order. The boxes are not perfectly
// disjoint; coordinates falling into an overlap resolve to the first match.
// That ordering is a protocol-level tie-break policy and must not be
// rearranged, or nodes would disagree on shard membership.
var shardBoxes = [...]shardBox{
	{NorthAmerica, 15, 75, -170, -50},
	{Europe, 35, 75, -15, 40},
	{Asia, -10, 55, 40, 150},
	{SouthAmerica, -60, 15, -85, -30},
	{Africa, -40, 40, -20, 55},
	{Oceania, -50, -10, 110, 180},
}

// AssignShard maps a location to its continental shard. Coordinates captured
// by none of the ordered boxes map to Antarctica when below -60° latitude and
// otherwise fall back to NorthAmerica.
func AssignShard(loc Location) Shard {
	for _, box := range shardBoxes {
		if loc.Latitude > box.latMin && loc.Latitude < box.latMax &&
			loc.Longitude > box.lonMin && loc.Longitude < box.lonMax {
			return box.shard
		}
	}
	if loc.Latitude < -60 {
		return Antarctica
	}
	return NorthAmerica
}

var shardNames = [ShardCount]string{
	NorthAmerica: "north-america",
	Europe:       "europe",
	Asia:         "asia",
	SouthAmerica: "south-america",
	Africa:       "africa",
	Oceania:      "oceania",
	Antarctica:   "antarctica",
}

// String returns the canonical lowercase name of the shard.
func (s Shard) String() string {
	if int(s) >= len(shardNames) {
		return fmt.Sprintf("shard-%d", uint8(s))
	}
	return shardNames[s]
}

// ParseShard resolves a canonical shard name back to its Shard value.
func ParseShard(name string) (Shard, error) {
	for i, n := range shardNames {
		if n == name {
			return Shard(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shard %q", name)
}

// MarshalText implements encoding.TextMarshaler for config and log output.
func (s Shard) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shard) UnmarshalText(input []byte) error {
	parsed, err := ParseShard(string(input))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
