package pop

// verifyResources checks declared hardware against the network minimums.
// Checks run in the fixed order CPU, RAM, storage, bandwidth and the first
// shortfall wins. GPU memory is not gated.
func (v *Validator) verifyResources(res NodeResources) error {
	min := v.rules.Resources

	if res.CPUCores < min.MinCPUCores {
		return ErrInsufficientCPU
	}
	if res.RAMGB < min.MinRAMGB {
		return ErrInsufficientRAM
	}
	if res.StorageGB < min.MinStorageGB {
		return ErrInsufficientStorage
	}
	if res.BandwidthMbps < min.MinBandwidthMbps {
		return ErrInsufficientBandwidth
	}
	return nil
}
