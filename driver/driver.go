// Package driver runs the PoP² validator core against its external
// collaborators: the node-registration feed, the latency-measurement feed,
// and the epoch clock. The core itself is synchronous and pure; this package
// owns the concurrency around it, ingesting both feeds into the registry
// while the epoch loop advances the counter and draws a validator set per
// tick from one consistent snapshot.
package driver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
	"github.com/RealHaywoodJ/meshx-device-mesh/pop"
)

var log = logrus.WithField("module", "driver")

// EpochFunc is called after each selection pass with the epoch and the
// ordered set it produced. Selection failures are logged, not delivered.
type EpochFunc func(epoch idx.Epoch, validators []nodepk.PubKey)

// Driver wires the validator core to its feeds.
type Driver struct {
	validator *pop.Validator
	interval  time.Duration

	nodes        <-chan pop.Node
	measurements <-chan pop.LatencyMeasurement
	onEpoch      EpochFunc
}

// New creates a driver that advances the epoch every interval. Either feed
// channel may be nil if the corresponding producer does not exist (for
// example a read-only observer node).
func New(v *pop.Validator, interval time.Duration, nodes <-chan pop.Node, measurements <-chan pop.LatencyMeasurement) *Driver {
	return &Driver{
		validator:    v,
		interval:     interval,
		nodes:        nodes,
		measurements: measurements,
	}
}

// OnEpoch registers a callback for completed selection passes. Must be set
// before Run.
func (d *Driver) OnEpoch(fn EpochFunc) {
	d.onEpoch = fn
}

// Run ingests both feeds and drives the epoch clock until the context is
// canceled. It returns the context's error on shutdown.
func (d *Driver) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.ingestNodes(ctx) })
	g.Go(func() error { return d.ingestMeasurements(ctx) })
	g.Go(func() error { return d.epochLoop(ctx) })

	return g.Wait()
}

func (d *Driver) ingestNodes(ctx context.Context) error {
	registry := d.validator.Registry()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-d.nodes:
			if !ok {
				return nil
			}
			if err := registry.RegisterNode(n); err != nil {
				log.WithError(err).Warn("Rejected node registration")
				continue
			}
			log.WithField("node", n.PubKey.String()).Debug("Registered node")
		}
	}
}

func (d *Driver) ingestMeasurements(ctx context.Context) error {
	registry := d.validator.Registry()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-d.measurements:
			if !ok {
				return nil
			}
			if err := registry.RecordLatency(m); err != nil {
				log.WithError(err).Warn("Rejected latency measurement")
			}
		}
	}
}

func (d *Driver) epochLoop(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	registry := d.validator.Registry()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			epoch := registry.AdvanceEpoch()
			selected, err := d.validator.SelectValidators(ctx, epoch)
			if err != nil {
				log.WithError(err).WithField("epoch", epoch).Warn("Validator selection failed")
				continue
			}
			log.WithFields(logrus.Fields{
				"epoch":      epoch,
				"validators": len(selected),
				"nodes":      registry.Len(),
			}).Info("Selected validator set")
			if d.onEpoch != nil {
				d.onEpoch(epoch, selected)
			}
		}
	}
}
