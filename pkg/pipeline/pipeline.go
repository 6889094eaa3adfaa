// Package pipeline provides the core figure generation pipeline.
//
// This package implements the complete layout → prune → scene → render
// pipeline that is shared by the CLI, the preview server, and the
// interactive editor. Centralizing it keeps every entry point rendering
// the exact same figure for the same configuration.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Layout: Compute neuron positions and the full synapse set
//  2. Prune: Deterministically remove neurons and synapses if enabled
//  3. Scene: Assemble draw primitives with z-ordering and labels
//  4. Render: Serialize the scene in the requested formats
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Config:  config.Default(),
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJPEG: true,
	FormatPDF:  true,
	FormatDOT:  true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Config describes the network, visuals, pruning, labels, and export
	// parameters of the figure.
	Config config.Config

	// Formats lists the output formats to render. Defaults to ["svg"].
	Formats []string

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the assembled draw-primitive list.
	Scene scene.Scene

	// Pruned records which neurons and synapses were removed.
	Pruned prune.Result

	// Seed is the deterministic pruning seed derived from the config.
	Seed uint64

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NeuronCount   int
	EdgeCount     int
	NeuronsPruned int
	EdgesPruned   int
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, jpeg, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the config and formats and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
