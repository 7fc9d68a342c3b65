package meshx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
)

// TestMainNetRules pins the production protocol parameters.
func TestMainNetRules(t *testing.T) {
	require := require.New(t)

	rules := MainNetRules()
	require.Equal("main", rules.Name)
	require.Equal(MainNetworkID, rules.NetworkID)

	require.Equal(time.Hour, rules.Attestation.MaxAge)

	require.Equal(3, rules.Triangulation.MinMeasurements)
	require.Equal(200.0, rules.Triangulation.PropagationKmPerMs)
	require.Equal(float32(50_000), rules.Triangulation.EstimateAccuracyM)

	require.Equal(uint32(2), rules.Resources.MinCPUCores)
	require.Equal(uint32(4), rules.Resources.MinRAMGB)
	require.Equal(uint64(100), rules.Resources.MinStorageGB)
	require.Equal(uint32(10), rules.Resources.MinBandwidthMbps)

	require.Equal(1000, rules.Selection.ValidatorCount)
}

// TestNetworkProfiles verifies testnet mirrors mainnet thresholds and
// fakenet only shrinks the validator set.
func TestNetworkProfiles(t *testing.T) {
	require := require.New(t)

	main := MainNetRules()

	test := TestNetRules()
	require.Equal("test", test.Name)
	require.Equal(TestNetworkID, test.NetworkID)
	require.Equal(main.Attestation, test.Attestation)
	require.Equal(main.Stake, test.Stake)
	require.Equal(main.Selection, test.Selection)

	fake := FakeNetRules()
	require.Equal("fake", fake.Name)
	require.Equal(FakeNetworkID, fake.NetworkID)
	require.Equal(main.Attestation, fake.Attestation)
	require.Equal(10, fake.Selection.ValidatorCount)
}

// TestMinStake covers the three stake tiers across all shards.
func TestMinStake(t *testing.T) {
	require := require.New(t)

	stake := DefaultStakeRules()

	for _, shard := range []geo.Shard{geo.NorthAmerica, geo.Europe, geo.Asia} {
		require.EqualValues(100_000, stake.MinStake(shard), shard.String())
	}
	for _, shard := range []geo.Shard{geo.SouthAmerica, geo.Africa, geo.Oceania} {
		require.EqualValues(50_000, stake.MinStake(shard), shard.String())
	}
	require.EqualValues(10_000, stake.MinStake(geo.Antarctica))
}

// TestEnclaveCodeHash pins the canonical enclave identity digest.
func TestEnclaveCodeHash(t *testing.T) {
	require := require.New(t)

	for _, b := range EnclaveCodeHash.Bytes() {
		require.Equal(byte(0x42), b)
	}
}

// TestRulesCopyAndString smoke-tests the utility methods.
func TestRulesCopyAndString(t *testing.T) {
	require := require.New(t)

	rules := MainNetRules()
	cp := rules.Copy()
	require.Equal(rules, cp)

	require.Contains(rules.String(), `"main"`)
}
