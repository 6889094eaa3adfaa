package palette

import (
	"slices"
	"sync"
	"testing"
)

func TestValid(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#FF6B6B", true},
		{"#84A1FB", true},
		{"#abcdef", true},
		{"#INVALID", false},
		{"#GGG111", false},
		{"#12345", false},
		{"#1234567", false},
		{"FF6B6B", false},
		{"", false},
		{"#", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			if got := Valid(tt.color); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestEnsureLength(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		total     int
	}{
		{"empty palette", nil, 4},
		{"short palette", []string{"#FF6B6B"}, 3},
		{"exact palette", []string{"#FF6B6B", "#84A1FB"}, 2},
		{"long palette", []string{"#FF6B6B", "#84A1FB", "#50C878", "#FFD93D"}, 2},
		{"zero layers", []string{"#FF6B6B"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Ensure(tt.requested, tt.total)
			if len(got) != tt.total {
				t.Fatalf("Ensure returned %d colors, want %d", len(got), tt.total)
			}
			for i, c := range got {
				if !Valid(c) {
					t.Errorf("entry %d = %q is not a valid hex color", i, c)
				}
			}
		})
	}
}

func TestEnsurePreservesValidEntries(t *testing.T) {
	got := New().Ensure([]string{"#FF6B6B"}, 1)
	if got[0] != "#FF6B6B" {
		t.Errorf("valid entry was changed: got %q", got[0])
	}
}

func TestEnsureReplacesInvalidEntries(t *testing.T) {
	got := New().Ensure([]string{"#zzzzzz"}, 3)
	if len(got) != 3 {
		t.Fatalf("got %d colors, want 3", len(got))
	}
	if got[0] == "#zzzzzz" {
		t.Error("invalid entry was not replaced")
	}
	for i, c := range got {
		if !Valid(c) {
			t.Errorf("entry %d = %q is not valid", i, c)
		}
	}
}

func TestEnsureMixedValidity(t *testing.T) {
	got := New().Ensure([]string{"#INVALID", "#FF6B6B"}, 4)
	if len(got) != 4 {
		t.Fatalf("got %d colors, want 4", len(got))
	}
	if got[0] == "#INVALID" || !Valid(got[0]) {
		t.Errorf("first entry not repaired: %q", got[0])
	}
	if got[1] != "#FF6B6B" {
		t.Errorf("second entry should pass through, got %q", got[1])
	}
}

func TestEnsureTruncates(t *testing.T) {
	req := []string{"#2C3E50", "#34495E", "#5D6D7E", "#85929E"}
	got := New().Ensure(req, 2)
	want := []string{"#2C3E50", "#34495E"}
	if !slices.Equal(got, want) {
		t.Errorf("Ensure = %v, want %v", got, want)
	}
}

func TestCurrentTracksLastEnsure(t *testing.T) {
	a := New()
	if a.Current() != nil {
		t.Error("Current should be nil before first Ensure")
	}

	first := a.Ensure([]string{"#FF6B6B"}, 2)
	if !slices.Equal(a.Current(), first) {
		t.Errorf("Current = %v, want %v", a.Current(), first)
	}

	second := a.Ensure(nil, 3)
	if !slices.Equal(a.Current(), second) {
		t.Errorf("Current = %v, want %v", a.Current(), second)
	}

	// Mutating the returned slice must not corrupt the stored palette.
	second[0] = "#000000"
	if a.Current()[0] == "#000000" {
		t.Error("Current aliases the slice returned by Ensure")
	}
}

// One allocator is shared between the preview render goroutine and
// HTTP handlers; run with -race to catch unguarded access.
func TestAllocatorConcurrentUse(t *testing.T) {
	a := New()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(2)
		go func(layers int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				got := a.Ensure(nil, layers)
				if len(got) != layers {
					t.Errorf("Ensure returned %d colors, want %d", len(got), layers)
					return
				}
			}
		}(g + 1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				for _, c := range a.Current() {
					if !Valid(c) {
						t.Errorf("Current holds invalid color %q", c)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaultsAreDistinctHex(t *testing.T) {
	d := Defaults()
	if len(d) < 10 {
		t.Fatalf("default palette has %d entries, want at least 10", len(d))
	}
	seen := map[string]bool{}
	for _, c := range d {
		if !Valid(c) {
			t.Errorf("default %q is not a valid hex color", c)
		}
		if seen[c] {
			t.Errorf("default %q appears twice", c)
		}
		seen[c] = true
	}
}
