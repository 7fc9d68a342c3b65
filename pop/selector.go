package pop

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"

	"github.com/RealHaywoodJ/meshx-device-mesh/inter/nodepk"
)

// Domain-separation tags of the selection hash chain.
const (
	drawInputTag  = "MESHX_VRF_INPUT"
	drawOutputTag = "MESHX_VRF_OUTPUT"
)

// Draw is a node's selection score for one epoch. Input and Output are the
// two stages of a keyed hash chain over (epoch, identity). This is NOT a
// verifiable random function: anyone can recompute it, and nothing binds it
// to the node's private key. Proof stays empty until a genuine VRF (e.g. an
// EC-VRF keyed per node) replaces the chain; deployments that need
// unpredictability must not rely on this construction.
type Draw struct {
	Input  common.Hash
	Output common.Hash
	Proof  []byte
}

// EpochDraw computes the deterministic selection score of an identity for an
// epoch. The epoch enters the first stage as a fixed-width little-endian
// integer, so scores are stable across architectures.
func EpochDraw(epoch idx.Epoch, pk nodepk.PubKey) Draw {
	var epochLE [8]byte
	binary.LittleEndian.PutUint64(epochLE[:], uint64(epoch))

	h := sha3.New256()
	h.Write([]byte(drawInputTag))
	h.Write(epochLE[:])
	h.Write(pk.Bytes())
	input := common.BytesToHash(h.Sum(nil))

	h = sha3.New256()
	h.Write([]byte(drawOutputTag))
	h.Write(input.Bytes())
	h.Write(pk.Bytes())
	output := common.BytesToHash(h.Sum(nil))

	return Draw{Input: input, Output: output}
}

// SelectValidators deterministically draws the validator set for an epoch:
// every registered node is ranked ascending by its 256-bit draw output, the
// top Selection.ValidatorCount candidates are re-validated in rank order, and
// the survivors form the set. Two calls over identical registry state and
// the same epoch produce identical ordered output. The call reads one
// registry snapshot and mutates nothing; it fails ErrInsufficientValidators
// when fewer than the registry's minimum survive filtering.
func (v *Validator) SelectValidators(ctx context.Context, epoch idx.Epoch) ([]nodepk.PubKey, error) {
	snap := v.registry.Snapshot()
	return v.selectValidators(ctx, snap, epoch)
}

func (v *Validator) selectValidators(ctx context.Context, snap *Snapshot, epoch idx.Epoch) ([]nodepk.PubKey, error) {
	type candidate struct {
		node *Node
		draw Draw
	}
	candidates := make([]candidate, 0, len(snap.nodes))
	for _, n := range snap.nodes {
		candidates = append(candidates, candidate{node: n, draw: EpochDraw(epoch, n.PubKey)})
	}

	// Ascending by draw output. Ties are not expected from 256-bit hashes,
	// but the identity tie-break keeps the order total independently of map
	// iteration.
	sort.Slice(candidates, func(i, j int) bool {
		c := bytes.Compare(candidates[i].draw.Output.Bytes(), candidates[j].draw.Output.Bytes())
		if c != 0 {
			return c < 0
		}
		return bytes.Compare(candidates[i].node.PubKey.Bytes(), candidates[j].node.PubKey.Bytes()) < 0
	})

	limit := v.rules.Selection.ValidatorCount
	if limit > len(candidates) {
		limit = len(candidates)
	}

	selected := make([]nodepk.PubKey, 0, limit)
	for _, c := range candidates[:limit] {
		if err := v.validateNode(ctx, snap, c.node); err != nil {
			continue
		}
		selected = append(selected, c.node.PubKey)
	}

	if len(selected) < snap.minValidators {
		return nil, ErrInsufficientValidators
	}
	return selected, nil
}

// EpochValidators draws the epoch's validator set and returns it as a
// stake-weighted pos.Validators keyed by the nodes' registry-assigned IDs.
// This is the form downstream consensus components consume: selection order
// decides membership, stake decides voting weight.
func (v *Validator) EpochValidators(ctx context.Context, epoch idx.Epoch) (*pos.Validators, error) {
	snap := v.registry.Snapshot()
	selected, err := v.selectValidators(ctx, snap, epoch)
	if err != nil {
		return nil, err
	}

	builder := pos.NewBuilder()
	for _, pk := range selected {
		n, ok := snap.node(pk.String())
		if !ok {
			continue
		}
		builder.Set(n.ID, clampWeight(uint64(n.Stake)))
	}
	return builder.Build(), nil
}

// clampWeight converts a stake amount to a pos.Weight, saturating at the
// weight type's capacity.
func clampWeight(stake uint64) pos.Weight {
	if stake > math.MaxUint32 {
		return pos.Weight(math.MaxUint32)
	}
	return pos.Weight(stake)
}
