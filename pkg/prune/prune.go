// Package prune deterministically suppresses neurons and synapses in a
// feed-forward diagram to depict a sparser network.
//
// Pruning never alters the declared layer sizes: suppressed neurons and
// edges are simply not drawn, so position and spacing math stays stable
// when prune fractions change. Input and output layers are never
// pruned.
//
// The pseudo-random selection is a pure function of the prune fractions
// and the layer sizes. The seed is a 64-bit FNV-1a hash of a canonical
// encoding of those inputs, fed into a PCG generator that is confined
// to the single Apply call; process-global randomness is untouched and
// identical inputs always yield identical pruned sets, so figures are
// reproducible across runs and machines.
package prune

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"github.com/turhancan97/paper-ready-architecture/pkg/layout"

	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
)

// Spec controls how much of the hidden structure is suppressed.
// Fractions apply to interior layers only and must be in [0, 1):
// a fraction of exactly 1 would erase an entire layer and is rejected
// by Validate.
type Spec struct {
	Enabled  bool
	Neurons  float64 // fraction of each hidden layer's neurons to suppress
	Synapses float64 // fraction of the surviving edges to suppress
}

// Validate checks that both fractions are in [0, 1).
func (s Spec) Validate() error {
	if s.Neurons < 0 || s.Neurons >= 1 {
		return apperrors.New(apperrors.ErrCodeInvalidPruneSpec,
			"neuron prune fraction %v out of range [0, 1)", s.Neurons)
	}
	if s.Synapses < 0 || s.Synapses >= 1 {
		return apperrors.New(apperrors.ErrCodeInvalidPruneSpec,
			"synapse prune fraction %v out of range [0, 1)", s.Synapses)
	}
	return nil
}

// Neuron identifies a neuron by layer index and index within the layer.
type Neuron struct {
	Layer, Index int
}

// Result holds the suppressed sets. Layer sizes are unchanged by
// pruning; callers consult these sets when deciding what to draw.
type Result struct {
	Neurons map[Neuron]struct{}
	Edges   map[layout.Edge]struct{}
}

// NeuronPruned reports whether the neuron at (layer, index) is suppressed.
func (r Result) NeuronPruned(layer, index int) bool {
	_, ok := r.Neurons[Neuron{Layer: layer, Index: index}]
	return ok
}

// EdgePruned reports whether e is suppressed.
func (r Result) EdgePruned(e layout.Edge) bool {
	_, ok := r.Edges[e]
	return ok
}

// Seed derives the deterministic PRNG seed from the prune fractions and
// layer sizes. The encoding is canonical ("n0,n1,...|pn|ps" with
// shortest-round-trip floats) so equal inputs always hash equally.
func Seed(layers []int, neurons, synapses float64) uint64 {
	h := fnv.New64a()
	for i, n := range layers {
		if i > 0 {
			h.Write([]byte{','})
		}
		h.Write([]byte(strconv.Itoa(n)))
	}
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatFloat(neurons, 'g', -1, 64)))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatFloat(synapses, 'g', -1, 64)))
	return h.Sum64()
}

// Apply computes the suppressed neuron and edge sets for the given
// topology. A disabled spec, or a topology with no interior layers,
// yields empty sets.
//
// Selection order is fixed: interior neurons layer by layer, then edges
// incident to pruned neurons, then surviving edges per adjacent pair.
// Counts are floor(size*fraction), so a fraction below 1 can never
// erase a full layer or edge set.
func Apply(layers []int, spec Spec) Result {
	res := Result{
		Neurons: make(map[Neuron]struct{}),
		Edges:   make(map[layout.Edge]struct{}),
	}
	if !spec.Enabled || len(layers) < 3 {
		return res
	}

	seed := Seed(layers, spec.Neurons, spec.Synapses)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	for i := 1; i < len(layers)-1; i++ {
		size := layers[i]
		count := int(float64(size) * spec.Neurons)
		if count <= 0 {
			continue
		}
		for _, idx := range rng.Perm(size)[:count] {
			res.Neurons[Neuron{Layer: i, Index: idx}] = struct{}{}
		}
	}

	// A pruned neuron carries no surviving edges.
	for _, e := range layout.Edges(layers) {
		if res.NeuronPruned(e.FromLayer, e.FromIndex) || res.NeuronPruned(e.ToLayer, e.ToIndex) {
			res.Edges[e] = struct{}{}
		}
	}

	if spec.Synapses <= 0 {
		return res
	}

	for i := 0; i < len(layers)-1; i++ {
		valid := survivingEdges(layers, i, res)
		count := int(float64(len(valid)) * spec.Synapses)
		if count <= 0 {
			continue
		}
		for _, j := range rng.Perm(len(valid))[:count] {
			res.Edges[valid[j]] = struct{}{}
		}
	}
	return res
}

// survivingEdges lists the edges between layers i and i+1 whose both
// endpoints survive, in (from, to) index order.
func survivingEdges(layers []int, i int, res Result) []layout.Edge {
	var valid []layout.Edge
	for a := range layers[i] {
		if res.NeuronPruned(i, a) {
			continue
		}
		for b := range layers[i+1] {
			if res.NeuronPruned(i+1, b) {
				continue
			}
			valid = append(valid, layout.Edge{
				FromLayer: i, FromIndex: a,
				ToLayer: i + 1, ToIndex: b,
			})
		}
	}
	return valid
}
