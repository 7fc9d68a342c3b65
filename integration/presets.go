// Package integration provides hardware-profile presets for assembling MeshX
// nodes. A preset bundles the declared resources and default stake of a class
// of device (edge box, workstation, datacenter machine) into a named profile
// so operators and the fakenet simulator can spin up plausible nodes without
// hand-writing resource declarations.
//
// Usage:
//
//	preset := integration.WorkstationPreset()      // typical contributor
//	preset, err := integration.GetPresetByName("datacenter")
//
// Each preset returns a NodePreset that the launcher turns into a node
// record during registration.
package integration

import (
	"fmt"

	"github.com/RealHaywoodJ/meshx-device-mesh/pop"
)

// NodePreset captures the per-device-class parameters that vary across
// profiles. Identity, location and attestation are always supplied by the
// caller; presets only cover what the hardware class determines.
type NodePreset struct {
	Name      string            // human-readable identifier ("edge", "workstation", "datacenter")
	Resources pop.NodeResources // declared hardware capabilities
	Stake     uint64            // default MESHX bond for the profile
}

// EdgePreset returns the profile of a small always-on device: a NUC-class
// box or a repurposed ARM board. It sits exactly at the protocol minimums,
// so it passes the resource gate with no headroom; shrinking any field takes
// the device out of validator eligibility.
func EdgePreset() NodePreset {
	return NodePreset{
		Name: "edge",
		Resources: pop.NodeResources{
			CPUCores:      2,
			RAMGB:         4,
			StorageGB:     100,
			BandwidthMbps: 10,
		},
		Stake: 50_000, // enough for growth-tier shards only
	}
}

// WorkstationPreset returns the profile of a typical contributor machine:
// a desktop left running in earning mode.
func WorkstationPreset() NodePreset {
	return NodePreset{
		Name: "workstation",
		Resources: pop.NodeResources{
			CPUCores:      8,
			RAMGB:         16,
			StorageGB:     500,
			BandwidthMbps: 100,
		},
		Stake: 100_000, // clears the major-tier minimum
	}
}

// DatacenterPreset returns the profile of a dedicated hosted machine,
// including accelerator memory for future compute-job scheduling.
func DatacenterPreset() NodePreset {
	gpu := uint32(24)
	return NodePreset{
		Name: "datacenter",
		Resources: pop.NodeResources{
			CPUCores:      32,
			RAMGB:         128,
			StorageGB:     4_000,
			BandwidthMbps: 1_000,
			GPUMemoryGB:   &gpu,
		},
		Stake: 250_000,
	}
}

// GetPresetByName looks up a preset by its string identifier. This helper
// backs CLI flags like --preset=datacenter.
func GetPresetByName(name string) (NodePreset, error) {
	switch name {
	case "edge":
		return EdgePreset(), nil
	case "workstation":
		return WorkstationPreset(), nil
	case "datacenter":
		return DatacenterPreset(), nil
	default:
		return NodePreset{}, fmt.Errorf("unknown preset: %q (valid: edge, workstation, datacenter)", name)
	}
}
