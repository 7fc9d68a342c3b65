package tee

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidQuote is returned when a TEE quote fails backend verification.
var ErrInvalidQuote = errors.New("invalid TEE quote")

// QuoteVerifier checks the opaque quote bytes of one TEE family.
// Implementations may contact remote attestation services, so the contract
// takes a context; a verifier must return ErrInvalidQuote (possibly wrapped)
// for any quote it cannot accept.
type QuoteVerifier interface {
	VerifyQuote(ctx context.Context, quote []byte) error
}

// QuoteVerifierFunc adapts a plain function to the QuoteVerifier interface.
type QuoteVerifierFunc func(ctx context.Context, quote []byte) error

// VerifyQuote implements QuoteVerifier.
func (f QuoteVerifierFunc) VerifyQuote(ctx context.Context, quote []byte) error {
	return f(ctx, quote)
}

// rejectEmpty is the shared behavior of all reference backends: a quote must
// at least exist. Real backends replace this with cryptographic verification.
func rejectEmpty(quote []byte) error {
	if len(quote) == 0 {
		return ErrInvalidQuote
	}
	return nil
}

// SgxVerifier is the placeholder Intel SGX backend. A production
// implementation performs EPID or DCAP quote verification against Intel's
// attestation infrastructure.
type SgxVerifier struct{}

func (SgxVerifier) VerifyQuote(_ context.Context, quote []byte) error {
	return rejectEmpty(quote)
}

// TrustZoneVerifier is the placeholder ARM TrustZone backend.
type TrustZoneVerifier struct{}

func (TrustZoneVerifier) VerifyQuote(_ context.Context, quote []byte) error {
	return rejectEmpty(quote)
}

// SecureEnclaveVerifier is the placeholder Apple Secure Enclave backend.
type SecureEnclaveVerifier struct{}

func (SecureEnclaveVerifier) VerifyQuote(_ context.Context, quote []byte) error {
	return rejectEmpty(quote)
}

// SevVerifier is the placeholder AMD SEV backend. A production implementation
// validates the SEV attestation report and platform measurement.
type SevVerifier struct{}

func (SevVerifier) VerifyQuote(_ context.Context, quote []byte) error {
	return rejectEmpty(quote)
}

// DefaultBackends returns the reference verifier for every supported TEE
// type. Callers replace individual entries to plug in real backends.
func DefaultBackends() map[Type]QuoteVerifier {
	return map[Type]QuoteVerifier{
		IntelSGX:           SgxVerifier{},
		ARMTrustZone:       TrustZoneVerifier{},
		AppleSecureEnclave: SecureEnclaveVerifier{},
		AMDSEV:             SevVerifier{},
	}
}

// WithTimeout bounds a verifier that may block on remote attestation
// services. If the deadline passes before the backend answers, the quote is
// treated as invalid rather than blocking the validation pipeline.
func WithTimeout(v QuoteVerifier, timeout time.Duration) QuoteVerifier {
	return QuoteVerifierFunc(func(ctx context.Context, quote []byte) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- v.VerifyQuote(ctx, quote)
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ErrInvalidQuote
		}
	})
}
