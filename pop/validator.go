package pop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RealHaywoodJ/meshx-device-mesh/inter"
	"github.com/RealHaywoodJ/meshx-device-mesh/meshx"
	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

// Validator is the PoP² orchestrator. It composes the attestation verifier,
// the latency triangulator, the stake gate and the resource gate into the
// two public entry points of the protocol core: ValidateNode and
// SelectValidators. A Validator holds no mutable protocol state of its own;
// all state lives in the Registry, and every check runs against a consistent
// snapshot of it.
type Validator struct {
	rules    meshx.Rules
	registry *Registry
	backends map[tee.Type]tee.QuoteVerifier

	// now is the wall clock used for attestation freshness; injectable so
	// tests can pin time.
	now func() inter.Timestamp
}

// NewValidator creates a validator over the given registry, wired with the
// reference quote backends. Real TEE backends are plugged in per type via
// SetQuoteVerifier.
func NewValidator(rules meshx.Rules, registry *Registry) *Validator {
	return &Validator{
		rules:    rules,
		registry: registry,
		backends: tee.DefaultBackends(),
		now:      inter.Now,
	}
}

// Rules returns the network rules the validator enforces.
func (v *Validator) Rules() meshx.Rules {
	return v.rules.Copy()
}

// Registry returns the registry the validator reads from.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// SetQuoteVerifier replaces the quote backend for one TEE type. It is a
// wiring call, not synchronized: all backends must be in place before the
// validator is shared across goroutines (before driver.Run starts).
func (v *Validator) SetQuoteVerifier(t tee.Type, qv tee.QuoteVerifier) {
	v.backends[t] = qv
}

// SetClock replaces the wall-clock source used for attestation freshness.
// Like SetQuoteVerifier, it must not be called once the validator is in
// concurrent use.
func (v *Validator) SetClock(now func() inter.Timestamp) {
	v.now = now
}

// ValidateNode runs the full PoP² check sequence over a node record:
// attestation, location, stake, resources. Checks run in that fixed order
// and the first failure short-circuits, so the returned error names exactly
// one violated precondition. The call never mutates the registry.
func (v *Validator) ValidateNode(ctx context.Context, node *Node) (bool, error) {
	snap := v.registry.Snapshot()
	if err := v.validateNode(ctx, snap, node); err != nil {
		return false, err
	}
	return true, nil
}

func (v *Validator) validateNode(ctx context.Context, snap *Snapshot, node *Node) error {
	if err := v.verifyAttestation(ctx, node.Attestation); err != nil {
		return err
	}
	if err := v.verifyLocation(snap, node.PubKey, node.Location); err != nil {
		return err
	}
	if node.Stake < v.rules.Stake.MinStake(node.Shard) {
		return ErrInsufficientStake
	}
	if err := v.verifyResources(node.Resources); err != nil {
		return err
	}
	return nil
}

// verifyAttestation checks freshness against the wall clock, the enclave
// code identity against the network's canonical digest, and dispatches the
// quote to the backend for the report's TEE type. Pure check, no side
// effects.
func (v *Validator) verifyAttestation(ctx context.Context, att tee.Attestation) error {
	now := v.now()
	if now > att.Timestamp {
		age := time.Duration(now-att.Timestamp) * time.Second
		if age > v.rules.Attestation.MaxAge {
			return ErrStaleAttestation
		}
	}

	if att.EnclaveCodeHash != meshx.EnclaveCodeHash {
		return ErrInvalidEnclaveCode
	}

	backend, ok := v.backends[att.Type]
	if !ok {
		return fmt.Errorf("%w: no backend for TEE type %s", ErrInvalidQuote, att.Type)
	}
	if err := backend.VerifyQuote(ctx, att.Quote); err != nil {
		if errors.Is(err, tee.ErrInvalidQuote) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidQuote, err)
	}
	return nil
}
