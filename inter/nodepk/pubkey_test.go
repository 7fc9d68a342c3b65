package nodepk

import (
	"crypto/ed25519"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

// TestFromString verifies hex parsing with and without the 0x prefix.
func TestFromString(t *testing.T) {
	require := require.New(t)

	exp := PubKey{
		Type: Types.Ed25519,
		Raw:  common.FromHex("3d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c"),
	}

	// Without "0x" prefix.
	{
		got, err := FromString("e13d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c")
		require.NoError(err)
		require.Equal(exp, got)
	}

	// With "0x" prefix.
	{
		got, err := FromString("0xe13d4017c3e843895a92b70aa74d1b7ebc9c982ccf2ec4968cc0cd55f12af4660c")
		require.NoError(err)
		require.Equal(exp, got)
	}

	// Empty input is rejected.
	{
		_, err := FromString("")
		require.Error(err)
	}
	{
		_, err := FromString("0x")
		require.Error(err)
	}
}

// TestStringRoundTrip verifies String and FromString are inverses.
func TestStringRoundTrip(t *testing.T) {
	require := require.New(t)

	pk := FakeKey(7)
	got, err := FromString(pk.String())
	require.NoError(err)
	require.Equal(pk, got)
}

// TestBytes verifies the flat representation is [Type] + [Raw...].
func TestBytes(t *testing.T) {
	require := require.New(t)

	pk := PubKey{Type: 0x01, Raw: []byte{0x02, 0x03}}
	require.Equal([]byte{0x01, 0x02, 0x03}, pk.Bytes())
}

// TestEmpty checks the zero value is empty and populated keys are not.
func TestEmpty(t *testing.T) {
	require := require.New(t)

	require.True(PubKey{}.Empty())
	require.False(FakeKey(0).Empty())
}

// TestCopy verifies Copy does not share the Raw slice.
func TestCopy(t *testing.T) {
	require := require.New(t)

	pk := FakeKey(1)
	cp := pk.Copy()
	require.Equal(pk, cp)

	cp.Raw[0] ^= 0xff
	require.NotEqual(pk.Raw[0], cp.Raw[0])
}

// TestFakeKey verifies fake identities are deterministic per index, distinct
// across indexes, and valid Ed25519 keys.
func TestFakeKey(t *testing.T) {
	require := require.New(t)

	require.Equal(FakeKey(42), FakeKey(42))
	require.NotEqual(FakeKey(1), FakeKey(2))

	pk := FakeKey(3)
	require.Equal(Types.Ed25519, pk.Type)
	require.Len(pk.Raw, ed25519.PublicKeySize)
}
