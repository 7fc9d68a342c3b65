package pop

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"

	"github.com/RealHaywoodJ/meshx-device-mesh/geo"
	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
)

var log = logrus.WithField("module", "pop")

// edge is an ordered (from, to) pair of node identities, keyed by the
// canonical string form of the public keys.
type edge struct {
	from, to string
}

// Registry is the process-wide mutable state of the PoP² validator: the node
// records, the latency graph, and the epoch counter. Registration and
// latency ingestion arrive from many network-facing producers, so every
// method takes the lock; validation and selection never read the live maps
// directly but work on a Snapshot instead.
//
// A node's key is present at most once, the latency map holds at most one
// entry per ordered pair (last write wins), and the epoch counter only moves
// forward. The registry itself never advances the epoch; that is the epoch
// driver's job.
type Registry struct {
	mu sync.RWMutex

	epoch         idx.Epoch
	nodes         map[string]*Node
	latency       map[edge]uint32
	minValidators int
	nextID        idx.ValidatorID
}

// NewRegistry creates an empty registry. minValidators is the floor below
// which validator selection refuses to produce a set.
func NewRegistry(minValidators int) *Registry {
	return &Registry{
		nodes:         make(map[string]*Node),
		latency:       make(map[edge]uint32),
		minValidators: minValidators,
		nextID:        1,
	}
}

// MinValidators returns the configured selection floor.
func (r *Registry) MinValidators() int {
	return r.minValidators
}

// Epoch returns the current epoch.
func (r *Registry) Epoch() idx.Epoch {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.epoch
}

// AdvanceEpoch increments the epoch counter and returns the new value.
func (r *Registry) AdvanceEpoch() idx.Epoch {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.epoch++
	return r.epoch
}

// SetEpoch moves the epoch counter to e. The counter is monotonic; moving it
// backwards is an error.
func (r *Registry) SetEpoch(e idx.Epoch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e < r.epoch {
		return fmt.Errorf("epoch counter is monotonic: have %d, got %d", r.epoch, e)
	}
	r.epoch = e
	return nil
}

// RegisterNode inserts or updates a node record. The stored shard is always
// recomputed from the claimed location, keeping the shard-assignment
// invariant at the registration path rather than re-deriving it on every
// validation. A re-registration keeps the node's first-assigned validator ID.
func (r *Registry) RegisterNode(n Node) error {
	if n.PubKey.Empty() {
		return errors.New("node has no identity")
	}

	assigned := geo.AssignShard(n.Location)
	if n.Shard != assigned {
		log.WithFields(logrus.Fields{
			"node":    n.PubKey.String(),
			"claimed": n.Shard,
			"actual":  assigned,
		}).Warn("Correcting shard assignment on registration")
		n.Shard = assigned
	}

	key := n.PubKey.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.nodes[key]; ok {
		n.ID = prev.ID
	} else {
		n.ID = r.nextID
		r.nextID++
	}
	stored := n.Copy()
	r.nodes[key] = &stored
	return nil
}

// Node returns a copy of the record for the given identity.
func (r *Registry) Node(pk nodepk.PubKey) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[pk.String()]
	if !ok {
		return Node{}, false
	}
	return n.Copy(), true
}

// Len returns the number of registered nodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// RecordLatency ingests a latency measurement. Only the latest measurement
// per ordered (from, to) pair is retained; no history is kept.
func (r *Registry) RecordLatency(m LatencyMeasurement) error {
	if m.From.Empty() || m.To.Empty() {
		return errors.New("latency measurement with missing endpoint")
	}
	from, to := m.From.String(), m.To.String()
	if from == to {
		return errors.New("latency measurement from node to itself")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.latency[edge{from, to}] = m.LatencyMs
	return nil
}

// RecheckShards recomputes every stored node's shard from its location and
// returns the identities whose stored assignment disagreed. With all
// registrations going through RegisterNode the result is empty; the method
// exists as an explicit audit path for externally restored registries.
func (r *Registry) RecheckShards() []nodepk.PubKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mismatched []nodepk.PubKey
	for _, n := range r.nodes {
		if n.Shard != geo.AssignShard(n.Location) {
			mismatched = append(mismatched, n.PubKey.Copy())
		}
	}
	return mismatched
}

// Snapshot captures a consistent, immutable view of (epoch, nodes, latency).
// Selection for an epoch runs entirely against one snapshot so it can never
// observe a torn mix of pre- and post-advance state.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make(map[string]*Node, len(r.nodes))
	for k, n := range r.nodes {
		cp := n.Copy()
		nodes[k] = &cp
	}
	latency := make(map[edge]uint32, len(r.latency))
	for k, v := range r.latency {
		latency[k] = v
	}
	return &Snapshot{
		epoch:         r.epoch,
		nodes:         nodes,
		latency:       latency,
		minValidators: r.minValidators,
	}
}

// Snapshot is a frozen copy of the registry state. It is never mutated after
// construction and is safe for concurrent readers.
type Snapshot struct {
	epoch         idx.Epoch
	nodes         map[string]*Node
	latency       map[edge]uint32
	minValidators int
}

// Epoch returns the epoch the snapshot was taken at.
func (s *Snapshot) Epoch() idx.Epoch {
	return s.epoch
}

// NumNodes returns the number of node records in the snapshot.
func (s *Snapshot) NumNodes() int {
	return len(s.nodes)
}

// node returns the record for an identity's canonical key form.
func (s *Snapshot) node(key string) (*Node, bool) {
	n, ok := s.nodes[key]
	return n, ok
}

// sourceLatency is one latency-graph edge terminating at the node under
// verification.
type sourceLatency struct {
	from      string
	latencyMs uint32
}

// measurementsTo gathers the latency entries whose destination is pk, one
// per distinct source.
func (s *Snapshot) measurementsTo(pk nodepk.PubKey) []sourceLatency {
	to := pk.String()
	var res []sourceLatency
	for e, ms := range s.latency {
		if e.to == to {
			res = append(res, sourceLatency{from: e.from, latencyMs: ms})
		}
	}
	return res
}
