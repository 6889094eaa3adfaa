// Package pkg provides the core libraries for generating neural network figures.
//
// # Overview
//
// The pkg directory is organized around the figure generation pipeline:
//
//  1. [config] - Declarative figure configuration (YAML/JSON/TOML)
//  2. [layout] - Neuron positioning and synapse enumeration
//  3. [prune] - Deterministic neuron and synapse removal
//  4. [scene] - Draw-primitive assembly with z-ordering
//  5. [render] - SVG, raster, PDF, and Graphviz DOT sinks
//  6. [convnet] - Convolutional architecture block diagrams
//  7. [pipeline] - Orchestration (layout → prune → scene → render)
//
// Supporting packages: [palette] for stable layer color assignment,
// [cache] for content-addressed artifact caching, [errors] for coded
// errors, [observability] for instrumentation hooks, and [buildinfo]
// for version metadata.
//
// # Architecture
//
// The typical data flow:
//
//	Configuration (YAML/JSON/TOML)
//	         ↓
//	    [layout] package (positions + synapses)
//	         ↓
//	    [prune] package (seeded, reproducible removal)
//	         ↓
//	    [scene] package (primitives, z-order, labels)
//	         ↓
//	    SVG/PNG/JPEG/PDF/DOT output
//
// # Quick Start
//
// Render the stock figure to SVG:
//
//	import (
//	    "context"
//	    "github.com/turhancan97/paper-ready-architecture/pkg/config"
//	    "github.com/turhancan97/paper-ready-architecture/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Config:  config.Default(),
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("figure.svg", result.Artifacts["svg"], 0o644)
//
// Every stage is deterministic: the same configuration always produces
// byte-identical artifacts, which makes figures reproducible across
// paper revisions and makes the artifact cache sound.
package pkg
