package layout

import (
	"math"
	"testing"
)

func TestPositionsCounts(t *testing.T) {
	tests := []struct {
		name   string
		layers []int
	}{
		{"classic mlp", []int{3, 4, 4, 2}},
		{"single neurons", []int{1, 1}},
		{"wide hidden", []int{2, 10, 2}},
		{"deep", []int{5, 8, 8, 8, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Positions(tt.layers, 150, 60)
			if len(got) != len(tt.layers) {
				t.Fatalf("got %d layers, want %d", len(got), len(tt.layers))
			}
			var total int
			for i, pts := range got {
				if len(pts) != tt.layers[i] {
					t.Errorf("layer %d has %d positions, want %d", i, len(pts), tt.layers[i])
				}
				total += len(pts)
			}
			if want := NeuronCount(tt.layers); total != want {
				t.Errorf("total positions = %d, want %d", total, want)
			}
		})
	}
}

func TestPositionsLayerX(t *testing.T) {
	const spacing = 150.0
	got := Positions([]int{3, 4, 2}, spacing, 60)

	for i, pts := range got {
		wantX := float64(i) * spacing
		for j, p := range pts {
			if p.X != wantX {
				t.Errorf("layer %d neuron %d: x = %v, want %v", i, j, p.X, wantX)
			}
		}
	}
}

func TestPositionsVerticalSymmetry(t *testing.T) {
	got := Positions([]int{3, 4, 7, 1}, 150, 60)

	for i, pts := range got {
		var sum float64
		for _, p := range pts {
			sum += p.Y
		}
		if mean := sum / float64(len(pts)); math.Abs(mean) > 1e-9 {
			t.Errorf("layer %d not centered: mean y = %v", i, mean)
		}
		// Mirror check: y_j == -y_{n-1-j}.
		n := len(pts)
		for j := range n {
			if diff := pts[j].Y + pts[n-1-j].Y; math.Abs(diff) > 1e-9 {
				t.Errorf("layer %d asymmetric: y[%d]=%v, y[%d]=%v", i, j, pts[j].Y, n-1-j, pts[n-1-j].Y)
			}
		}
	}
}

func TestPositionsNodeSpacing(t *testing.T) {
	const spacing = 60.0
	pts := Positions([]int{5}, 150, spacing)[0]

	for j := 1; j < len(pts); j++ {
		if gap := pts[j].Y - pts[j-1].Y; math.Abs(gap-spacing) > 1e-9 {
			t.Errorf("gap between neurons %d and %d = %v, want %v", j-1, j, gap, spacing)
		}
	}
}

func TestEdgesBipartiteProduct(t *testing.T) {
	tests := []struct {
		name   string
		layers []int
		want   int
	}{
		{"classic mlp", []int{3, 4, 4, 2}, 3*4 + 4*4 + 4*2},
		{"two layers", []int{2, 3}, 6},
		{"single layer", []int{4}, 0},
		{"unit layers", []int{1, 1, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Edges(tt.layers)
			if len(got) != tt.want {
				t.Fatalf("got %d edges, want %d", len(got), tt.want)
			}

			seen := map[Edge]bool{}
			for _, e := range got {
				if e.ToLayer != e.FromLayer+1 {
					t.Errorf("edge %+v does not connect adjacent layers", e)
				}
				if e.FromIndex < 0 || e.FromIndex >= tt.layers[e.FromLayer] {
					t.Errorf("edge %+v has out-of-range from index", e)
				}
				if e.ToIndex < 0 || e.ToIndex >= tt.layers[e.ToLayer] {
					t.Errorf("edge %+v has out-of-range to index", e)
				}
				if seen[e] {
					t.Errorf("edge %+v duplicated", e)
				}
				seen[e] = true
			}
		})
	}
}
