// Package config defines the persisted diagram configuration.
//
// The configuration is an explicit, typed schema rather than a dynamic
// document: every field is named, validated once at the load boundary,
// and round-trips losslessly through save/load (apart from the
// saved_at timestamp refreshed on save).
//
// Three human-editable encodings are supported, dispatched on file
// extension: YAML (.yaml/.yml, the default), JSON (.json), and TOML
// (.toml).
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/palette"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
)

// Version is the configuration schema version written to new files.
const Version = "1.0.0"

// Config is the full diagram configuration.
type Config struct {
	Network  NetworkStructure `json:"network_structure" yaml:"network_structure" toml:"network_structure"`
	Visual   VisualParams     `json:"visual_params" yaml:"visual_params" toml:"visual_params"`
	Pruning  Pruning          `json:"pruning" yaml:"pruning" toml:"pruning"`
	Labels   Labels           `json:"labels" yaml:"labels" toml:"labels"`
	Export   Export           `json:"export" yaml:"export" toml:"export"`
	Metadata Metadata         `json:"metadata" yaml:"metadata" toml:"metadata"`
}

// NetworkStructure declares the feed-forward topology.
type NetworkStructure struct {
	InputNeurons  int   `json:"input_neurons" yaml:"input_neurons" toml:"input_neurons"`
	HiddenLayers  []int `json:"hidden_layers" yaml:"hidden_layers" toml:"hidden_layers"`
	OutputNeurons int   `json:"output_neurons" yaml:"output_neurons" toml:"output_neurons"`
}

// Layers returns the full ordered size sequence: input, hidden, output.
func (n NetworkStructure) Layers() []int {
	layers := make([]int, 0, len(n.HiddenLayers)+2)
	layers = append(layers, n.InputNeurons)
	layers = append(layers, n.HiddenLayers...)
	return append(layers, n.OutputNeurons)
}

// TotalLayers returns the layer count, 2 + len(hidden).
func (n NetworkStructure) TotalLayers() int {
	return 2 + len(n.HiddenLayers)
}

// VisualParams controls sizes, spacing, and colors.
type VisualParams struct {
	NodeDiameter float64  `json:"node_diameter" yaml:"node_diameter" toml:"node_diameter"`
	NodeColor    string   `json:"node_color" yaml:"node_color" toml:"node_color"`
	LayerColors  []string `json:"layer_colors" yaml:"layer_colors" toml:"layer_colors"`
	EdgeWidth    float64  `json:"edge_width" yaml:"edge_width" toml:"edge_width"`
	EdgeOpacity  float64  `json:"edge_opacity" yaml:"edge_opacity" toml:"edge_opacity"`
	LayerSpacing float64  `json:"layer_spacing" yaml:"layer_spacing" toml:"layer_spacing"`
	NodeSpacing  float64  `json:"node_spacing" yaml:"node_spacing" toml:"node_spacing"`
}

// Pruning is persisted as percentages (0-100) for hand-editing
// comfort; Spec converts to the fractional form the engine uses.
type Pruning struct {
	Enabled        bool    `json:"enabled" yaml:"enabled" toml:"enabled"`
	NeuronPercent  float64 `json:"neuron_prune_percentage" yaml:"neuron_prune_percentage" toml:"neuron_prune_percentage"`
	SynapsePercent float64 `json:"synapse_prune_percentage" yaml:"synapse_prune_percentage" toml:"synapse_prune_percentage"`
}

// Spec converts the persisted percentages to engine fractions.
func (p Pruning) Spec() prune.Spec {
	return prune.Spec{
		Enabled:  p.Enabled,
		Neurons:  p.NeuronPercent / 100,
		Synapses: p.SynapsePercent / 100,
	}
}

// Labels controls per-layer captions.
type Labels struct {
	ShowLayerLabels bool   `json:"show_layer_labels" yaml:"show_layer_labels" toml:"show_layer_labels"`
	InputLabel      string `json:"input_label" yaml:"input_label" toml:"input_label"`
	HiddenLabel     string `json:"hidden_label" yaml:"hidden_label" toml:"hidden_label"`
	OutputLabel     string `json:"output_label" yaml:"output_label" toml:"output_label"`
}

// Export controls output dimensions and raster resolution.
type Export struct {
	Width           int    `json:"width" yaml:"width" toml:"width"`
	Height          int    `json:"height" yaml:"height" toml:"height"`
	DPI             int    `json:"dpi" yaml:"dpi" toml:"dpi"`
	BackgroundColor string `json:"background_color" yaml:"background_color" toml:"background_color"`
}

// Metadata records provenance. SavedAt is refreshed by Save; the rest
// round-trips untouched.
type Metadata struct {
	CreatedAt string `json:"created_at" yaml:"created_at" toml:"created_at"`
	SavedAt   string `json:"saved_at,omitempty" yaml:"saved_at,omitempty" toml:"saved_at,omitempty"`
	Version   string `json:"version" yaml:"version" toml:"version"`
	FigureID  string `json:"figure_id" yaml:"figure_id" toml:"figure_id"`
}

// Default returns the stock configuration: a 3-[4,4]-2 network with
// the classic visual defaults.
func Default() Config {
	return Config{
		Network: NetworkStructure{
			InputNeurons:  3,
			HiddenLayers:  []int{4, 4},
			OutputNeurons: 2,
		},
		Visual: VisualParams{
			NodeDiameter: 30,
			NodeColor:    "#4A90E2",
			LayerColors:  palette.Defaults()[:4],
			EdgeWidth:    1.0,
			EdgeOpacity:  0.7,
			LayerSpacing: 150,
			NodeSpacing:  60,
		},
		Pruning: Pruning{},
		Labels: Labels{
			ShowLayerLabels: true,
			InputLabel:      "Input Layer",
			HiddenLabel:     "Hidden Layer",
			OutputLabel:     "Output Layer",
		},
		Export: Export{
			Width:           800,
			Height:          600,
			DPI:             300,
			BackgroundColor: "#FFFFFF",
		},
		Metadata: Metadata{
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			FigureID:  uuid.NewString(),
		},
	}
}

// Validate checks the configuration at the load boundary. Layer sizes
// of zero and prune percentages of exactly 100 are rejected rather
// than left as undefined behavior. Malformed colors are NOT errors;
// the palette allocator repairs them during generation.
func (c *Config) Validate() error {
	if c.Network.InputNeurons < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidStructure,
			"input layer size %d, must be at least 1", c.Network.InputNeurons)
	}
	if c.Network.OutputNeurons < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidStructure,
			"output layer size %d, must be at least 1", c.Network.OutputNeurons)
	}
	for i, n := range c.Network.HiddenLayers {
		if n < 1 {
			return apperrors.New(apperrors.ErrCodeInvalidStructure,
				"hidden layer %d size %d, must be at least 1", i+1, n)
		}
	}

	if c.Visual.NodeDiameter <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidVisual, "node diameter must be positive")
	}
	if c.Visual.EdgeWidth <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidVisual, "edge width must be positive")
	}
	if c.Visual.EdgeOpacity < 0 || c.Visual.EdgeOpacity > 1 {
		return apperrors.New(apperrors.ErrCodeInvalidVisual,
			"edge opacity %v out of range [0, 1]", c.Visual.EdgeOpacity)
	}
	if c.Visual.LayerSpacing <= 0 || c.Visual.NodeSpacing <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidVisual, "spacings must be positive")
	}

	if err := c.Pruning.Spec().Validate(); err != nil {
		return err
	}

	if c.Export.Width < 1 || c.Export.Height < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "export dimensions must be positive")
	}
	if c.Export.DPI < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "export dpi must be positive")
	}
	return nil
}

// Load reads and validates a configuration file, dispatching the
// decoder on the file extension.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeConfigNotFound, err, "reading %s", path)
	}
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeExportIO, err, "reading %s", path)
	}

	var c Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".json":
		err = json.Unmarshal(data, &c)
	case ".toml":
		err = toml.Unmarshal(data, &c)
	default:
		return Config{}, apperrors.New(apperrors.ErrCodeUnsupported,
			"unsupported config extension %q (use .yaml, .json, or .toml)", ext)
	}
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Save writes the configuration to path, refreshing metadata.saved_at.
// The encoder is dispatched on the file extension like Load.
func Save(c Config, path string) error {
	c.Metadata.SavedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := Encode(c, filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeExportIO, err, "writing %s", path)
	}
	return nil
}

// Encode serializes the configuration in the encoding implied by ext.
func Encode(c Config, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", "":
		return yaml.Marshal(c)
	case ".json":
		return json.MarshalIndent(c, "", "  ")
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeUnsupported,
			"unsupported config extension %q (use .yaml, .json, or .toml)", ext)
	}
}
