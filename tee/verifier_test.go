package tee

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDefaultBackends verifies every TEE type has a backend and that the
// reference backends enforce quote presence only.
func TestDefaultBackends(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	backends := DefaultBackends()
	require.Len(backends, TypeCount)

	for teeType := Type(0); teeType < TypeCount; teeType++ {
		backend, ok := backends[teeType]
		require.True(ok, teeType.String())

		// Empty quote is rejected.
		err := backend.VerifyQuote(ctx, nil)
		require.ErrorIs(err, ErrInvalidQuote, teeType.String())

		// Any non-empty quote passes the placeholder.
		require.NoError(backend.VerifyQuote(ctx, []byte{0x01}), teeType.String())
	}
}

// TestWithTimeout verifies that a backend exceeding its deadline yields
// ErrInvalidQuote instead of blocking.
func TestWithTimeout(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	// A backend that never answers within the deadline.
	stuck := QuoteVerifierFunc(func(ctx context.Context, quote []byte) error {
		<-ctx.Done()
		time.Sleep(time.Second)
		return nil
	})
	err := WithTimeout(stuck, 10*time.Millisecond).VerifyQuote(ctx, []byte{0x01})
	require.ErrorIs(err, ErrInvalidQuote)

	// A prompt backend is unaffected.
	require.NoError(WithTimeout(SgxVerifier{}, time.Second).VerifyQuote(ctx, []byte{0x01}))

	// Backend failures pass through.
	err = WithTimeout(SgxVerifier{}, time.Second).VerifyQuote(ctx, nil)
	require.ErrorIs(err, ErrInvalidQuote)
}

// TestTypeText covers the TEE name round trip used by config files.
func TestTypeText(t *testing.T) {
	require := require.New(t)

	for teeType := Type(0); teeType < TypeCount; teeType++ {
		parsed, err := ParseType(teeType.String())
		require.NoError(err)
		require.Equal(teeType, parsed)
	}

	_, err := ParseType("abacus")
	require.Error(err)
}

// TestAttestationCopy verifies deep copying of the reference-typed fields.
func TestAttestationCopy(t *testing.T) {
	require := require.New(t)

	att := Attestation{
		Type:      AMDSEV,
		Quote:     []byte{1, 2, 3},
		Timestamp: 1700000000,
	}
	cp := att.Copy()
	require.Equal(att, cp)

	cp.Quote[0] = 0xff
	require.NotEqual(att.Quote[0], cp.Quote[0])
}

// TestQuoteVerifierFunc verifies the adapter forwards calls.
func TestQuoteVerifierFunc(t *testing.T) {
	require := require.New(t)

	sentinel := errors.New("boom")
	v := QuoteVerifierFunc(func(ctx context.Context, quote []byte) error {
		return sentinel
	})
	require.ErrorIs(v.VerifyQuote(context.Background(), nil), sentinel)
}
