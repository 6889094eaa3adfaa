package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg,png,pdf", []string{"svg", "png", "pdf"}},
		{"svg, dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSidecarPath(t *testing.T) {
	tests := []struct {
		base, input, want string
	}{
		{"figure", "", "figure.yaml"},
		{"figure", "figure.toml", "figure.yaml"},
		{"figure", "figure.yaml", "figure.rendered.yaml"}, // never overwrite the input
		{"nets/cnn", "nets/cnn.yaml", "nets/cnn.rendered.yaml"},
	}

	for _, tt := range tests {
		if got := sidecarPath(tt.base, tt.input); got != tt.want {
			t.Errorf("sidecarPath(%q, %q) = %q, want %q", tt.base, tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "figure.yaml", "figure"},
		{"", "", "figure"},
		{"out.svg", "figure.yaml", "out"},
		{"out.png", "figure.yaml", "out"},
		{"diagrams/net", "figure.yaml", "diagrams/net"},
		{"out.yaml", "figure.yaml", "out.yaml"}, // not a format extension
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}
