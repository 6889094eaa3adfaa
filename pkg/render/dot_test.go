package render

import (
	"strings"
	"testing"

	"github.com/turhancan97/paper-ready-architecture/pkg/palette"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
)

func TestToDOTStructure(t *testing.T) {
	dot := ToDOT([]int{2, 3, 1}, prune.Result{}, palette.Defaults()[:3])

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("not a digraph:\n%s", dot)
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("layers must rank left to right")
	}

	for _, id := range []string{"l0n0", "l0n1", "l1n0", "l1n2", "l2n0"} {
		if !strings.Contains(dot, `"`+id+`"`) {
			t.Errorf("missing neuron %s", id)
		}
	}
	// 2*3 + 3*1 edges.
	if got, want := strings.Count(dot, "->"), 9; got != want {
		t.Errorf("edge count = %d, want %d", got, want)
	}
	if got, want := strings.Count(dot, "subgraph cluster_"), 3; got != want {
		t.Errorf("cluster count = %d, want %d", got, want)
	}
}

func TestToDOTMarksPruned(t *testing.T) {
	pruned := prune.Apply([]int{2, 4, 2}, prune.Spec{Enabled: true, Neurons: 0.5})
	dot := ToDOT([]int{2, 4, 2}, pruned, palette.Defaults()[:3])

	if got, want := strings.Count(dot, `style="filled,dashed"`), 2; got != want {
		t.Errorf("dashed neurons = %d, want %d", got, want)
	}
	// Each pruned hidden neuron loses 2 incoming and 2 outgoing edges.
	if got, want := strings.Count(dot, "style=dashed, color=lightgrey"), 8; got != want {
		t.Errorf("dashed edges = %d, want %d", got, want)
	}
	// Full topology is still present.
	if got, want := strings.Count(dot, "->"), 16; got != want {
		t.Errorf("edge count = %d, want %d", got, want)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	pruned := prune.Apply([]int{3, 5, 3}, prune.Spec{Enabled: true, Neurons: 0.4, Synapses: 0.3})
	a := ToDOT([]int{3, 5, 3}, pruned, palette.Defaults()[:3])
	b := ToDOT([]int{3, 5, 3}, prune.Apply([]int{3, 5, 3}, prune.Spec{Enabled: true, Neurons: 0.4, Synapses: 0.3}), palette.Defaults()[:3])

	if a != b {
		t.Error("identical inputs produced different DOT documents")
	}
}

func TestToDOTColorFallback(t *testing.T) {
	dot := ToDOT([]int{1, 1, 1, 1}, prune.Result{}, []string{"#4A90E2", "#50C878"})

	// Layers past the palette reuse the first color.
	if got := strings.Count(dot, `fillcolor="#4A90E2"`); got != 3 {
		t.Errorf("first-color nodes = %d, want 3", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized:\n%s", out)
	}
	if strings.Contains(out, "pt") {
		t.Errorf("point units survived normalization:\n%s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("pixel dimensions missing:\n%s", out)
	}
}
