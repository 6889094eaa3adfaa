package scene

import (
	"strings"
	"testing"

	"github.com/turhancan97/paper-ready-architecture/pkg/layout"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
)

func testParams() Params {
	return Params{
		NodeDiameter: 30,
		EdgeWidth:    1.0,
		EdgeOpacity:  0.7,
		LayerSpacing: 150,
		NodeSpacing:  60,
		Background:   "#FFFFFF",
		Colors:       []string{"#4A90E2", "#50C878", "#FF6B6B", "#FFD93D"},
	}
}

func noPruning() prune.Result {
	return prune.Result{
		Neurons: map[prune.Neuron]struct{}{},
		Edges:   map[layout.Edge]struct{}{},
	}
}

func TestBuildMLPPrimitiveCounts(t *testing.T) {
	layers := []int{3, 4, 4, 2}
	s := BuildMLP(layers, testParams(), Labels{}, noPruning())

	if got, want := s.Count(ZEdge), 3*4+4*4+4*2; got != want {
		t.Errorf("edge primitives = %d, want %d", got, want)
	}
	if got, want := s.Count(ZNode), 3+4+4+2; got != want {
		t.Errorf("neuron primitives = %d, want %d", got, want)
	}
	if got := s.Count(ZLabel); got != 0 {
		t.Errorf("label primitives = %d, want 0 when labels disabled", got)
	}
}

func TestBuildMLPLabels(t *testing.T) {
	layers := []int{3, 4, 2}
	labels := Labels{Show: true, Input: "Input Layer", Hidden: "Hidden Layer", Output: "Output Layer"}
	s := BuildMLP(layers, testParams(), labels, noPruning())

	var texts []Text
	for _, p := range s.Primitives {
		if txt, ok := p.(Text); ok {
			texts = append(texts, txt)
		}
	}
	if len(texts) != 3 {
		t.Fatalf("got %d labels, want 3", len(texts))
	}

	wants := []string{"Input Layer\n(3 neurons)", "Hidden Layer 1\n(4 neurons)", "Output Layer\n(2 neurons)"}
	for i, w := range wants {
		if texts[i].S != w {
			t.Errorf("label %d = %q, want %q", i, texts[i].S, w)
		}
	}

	// Each label sits below its layer's lowest neuron.
	positions := layout.Positions(layers, 150, 60)
	for i, txt := range texts {
		minY := positions[i][0].Y
		if txt.Y >= minY {
			t.Errorf("label %d at y=%v is not below lowest neuron y=%v", i, txt.Y, minY)
		}
		if txt.X != positions[i][0].X {
			t.Errorf("label %d at x=%v, want layer x=%v", i, txt.X, positions[i][0].X)
		}
	}
}

func TestBuildMLPSkipsPruned(t *testing.T) {
	layers := []int{2, 10, 2}
	pruned := prune.Apply(layers, prune.Spec{Enabled: true, Neurons: 0.5})

	s := BuildMLP(layers, testParams(), Labels{}, pruned)

	if got, want := s.Count(ZNode), 14-5; got != want {
		t.Errorf("surviving neuron primitives = %d, want %d", got, want)
	}
	if got, want := s.Count(ZEdge), 2*10+10*2-len(pruned.Edges); got != want {
		t.Errorf("surviving edge primitives = %d, want %d", got, want)
	}
}

func TestBuildMLPFullyPrunedLayerLabel(t *testing.T) {
	layers := []int{1, 2, 1}
	pruned := noPruning()
	pruned.Neurons[prune.Neuron{Layer: 1, Index: 0}] = struct{}{}
	pruned.Neurons[prune.Neuron{Layer: 1, Index: 1}] = struct{}{}

	labels := Labels{Show: true, Input: "In", Hidden: "Hidden", Output: "Out"}
	s := BuildMLP(layers, testParams(), labels, pruned)

	var hidden *Text
	for _, p := range s.Primitives {
		if txt, ok := p.(Text); ok && strings.HasPrefix(txt.S, "Hidden") {
			hidden = &txt
			break
		}
	}
	if hidden == nil {
		t.Fatal("missing hidden layer label")
	}
	if hidden.X != 150 {
		t.Errorf("label x = %v, want nominal layer x 150", hidden.X)
	}
	if hidden.Y != -labelOffset {
		t.Errorf("label y = %v, want fallback margin %v", hidden.Y, -labelOffset)
	}
}

func TestBuildMLPEmptyDeclaredLayerLabel(t *testing.T) {
	// A size-0 layer has no positions at all; its label still anchors
	// at the layer's nominal x.
	layers := []int{2, 0, 2}
	labels := Labels{Show: true, Input: "In", Hidden: "Hidden", Output: "Out"}
	s := BuildMLP(layers, testParams(), labels, noPruning())

	var hidden *Text
	for _, p := range s.Primitives {
		if txt, ok := p.(Text); ok && strings.HasPrefix(txt.S, "Hidden") {
			hidden = &txt
			break
		}
	}
	if hidden == nil {
		t.Fatal("missing hidden layer label")
	}
	if hidden.X != 150 {
		t.Errorf("label x = %v, want nominal layer x 150", hidden.X)
	}
	if hidden.Y != -labelOffset {
		t.Errorf("label y = %v, want fallback margin %v", hidden.Y, -labelOffset)
	}
}

func TestBuildMLPBoundsStableUnderPruning(t *testing.T) {
	layers := []int{3, 8, 8, 2}
	plain := BuildMLP(layers, testParams(), Labels{}, noPruning())
	heavy := BuildMLP(layers, testParams(), Labels{},
		prune.Apply(layers, prune.Spec{Enabled: true, Neurons: 0.75, Synapses: 0.5}))

	if plain.MinX != heavy.MinX || plain.MinY != heavy.MinY ||
		plain.MaxX != heavy.MaxX || plain.MaxY != heavy.MaxY {
		t.Errorf("frame bounds changed under pruning: %+v vs %+v",
			[4]float64{plain.MinX, plain.MinY, plain.MaxX, plain.MaxY},
			[4]float64{heavy.MinX, heavy.MinY, heavy.MaxX, heavy.MaxY})
	}
}

func TestBuildMLPColorFallback(t *testing.T) {
	params := testParams()
	params.Colors = []string{"#4A90E2"} // shorter than the layer count
	s := BuildMLP([]int{1, 1, 1}, params, Labels{}, noPruning())

	for _, p := range s.Primitives {
		if c, ok := p.(Circle); ok && c.Fill != "#4A90E2" {
			t.Errorf("circle fill = %q, want fallback to first palette entry", c.Fill)
		}
	}
}

func TestSortedZOrder(t *testing.T) {
	s := BuildMLP([]int{2, 3, 2}, testParams(),
		Labels{Show: true, Input: "In", Hidden: "H", Output: "Out"}, noPruning())

	last := 0
	for _, p := range s.Sorted() {
		if p.ZOrder() < last {
			t.Fatal("Sorted() returned primitives out of z-order")
		}
		last = p.ZOrder()
	}
}
