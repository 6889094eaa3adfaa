package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/turhancan97/paper-ready-architecture/pkg/cache"
	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/layout"
	"github.com/turhancan97/paper-ready-architecture/pkg/observability"
	"github.com/turhancan97/paper-ready-architecture/pkg/palette"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
	"github.com/turhancan97/paper-ready-architecture/pkg/render"
	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless except for the palette allocator and logger.
// The allocator keeps color assignments stable across consecutive runs,
// which matters for the live preview: editing spacing must not reshuffle
// layer colors.
type Runner struct {
	Palette *palette.Allocator
	Logger  *log.Logger

	// Cache holds rendered artifacts. The pipeline is deterministic,
	// so artifacts are addressed by config content and format. Defaults
	// to a null cache.
	Cache cache.Cache
}

// NewRunner creates a runner with a fresh palette allocator.
// If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Palette: &palette.Allocator{},
		Logger:  logger,
		Cache:   cache.NewNullCache(),
	}
}

// Execute runs the complete layout → prune → scene → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1+2+3: layout, prune, scene assembly.
	layoutStart := time.Now()
	s, pruned, err := r.BuildScene(ctx, opts.Config)
	if err != nil {
		return nil, err
	}
	layers := opts.Config.Network.Layers()
	result.Scene = s
	result.Pruned = pruned
	result.Seed = prune.Seed(layers, opts.Config.Pruning.Spec().Neurons, opts.Config.Pruning.Spec().Synapses)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NeuronCount = layout.NeuronCount(layers)
	result.Stats.EdgeCount = len(layout.Edges(layers))
	result.Stats.NeuronsPruned = len(pruned.Neurons)
	result.Stats.EdgesPruned = len(pruned.Edges)

	opts.Logger.Info("assembled scene",
		"neurons", result.Stats.NeuronCount,
		"edges", result.Stats.EdgeCount,
		"pruned_neurons", result.Stats.NeuronsPruned,
		"pruned_edges", result.Stats.EdgesPruned,
		"duration", result.Stats.LayoutTime)

	// Stage 4: render each requested format.
	renderStart := time.Now()
	observability.Generator().OnRenderStart(ctx, opts.Formats)

	artifacts, err := r.RenderFormats(ctx, s, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Generator().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildScene runs the non-render stages: layout, pruning, and scene
// assembly. The preview server uses this directly so it can paint at
// screen resolution instead of export resolution.
func (r *Runner) BuildScene(ctx context.Context, cfg config.Config) (scene.Scene, prune.Result, error) {
	if err := ctx.Err(); err != nil {
		return scene.Scene{}, prune.Result{}, err
	}

	layers := cfg.Network.Layers()
	observability.Generator().OnLayoutStart(ctx, layers)

	start := time.Now()
	colors := r.Palette.Ensure(cfg.Visual.LayerColors, len(layers))

	spec := cfg.Pruning.Spec()
	if err := spec.Validate(); err != nil {
		return scene.Scene{}, prune.Result{}, err
	}
	pruned := prune.Apply(layers, spec)
	if spec.Enabled {
		observability.Generator().OnPruneComplete(ctx,
			prune.Seed(layers, spec.Neurons, spec.Synapses), len(pruned.Neurons), len(pruned.Edges))
	}

	params := scene.Params{
		NodeDiameter: cfg.Visual.NodeDiameter,
		EdgeWidth:    cfg.Visual.EdgeWidth,
		EdgeOpacity:  cfg.Visual.EdgeOpacity,
		LayerSpacing: cfg.Visual.LayerSpacing,
		NodeSpacing:  cfg.Visual.NodeSpacing,
		Background:   cfg.Export.BackgroundColor,
		Colors:       colors,
	}
	labels := scene.Labels{
		Show:   cfg.Labels.ShowLayerLabels,
		Input:  cfg.Labels.InputLabel,
		Hidden: cfg.Labels.HiddenLabel,
		Output: cfg.Labels.OutputLabel,
	}

	s := scene.BuildMLP(layers, params, labels, pruned)
	observability.Generator().OnLayoutComplete(ctx,
		layout.NeuronCount(layers), len(layout.Edges(layers)), time.Since(start))

	return s, pruned, nil
}

// RenderFormats serializes an already-built scene in each requested
// format. The context is checked between formats so a cancelled preview
// run stops before the expensive raster sinks.
func (r *Runner) RenderFormats(ctx context.Context, s scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	raster := render.RasterOptions{
		Width:  opts.Config.Export.Width,
		Height: opts.Config.Export.Height,
		DPI:    opts.Config.Export.DPI,
	}
	encoded := encodeForCache(opts.Config)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := cache.ArtifactKey(encoded, format)
		if cached, hit, cerr := r.cache().Get(ctx, key); cerr == nil && hit {
			opts.Logger.Debug("artifact cache hit", "format", format)
			artifacts[format] = cached
			continue
		}

		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = render.RenderSVG(s)
		case FormatPNG:
			data, err = render.RenderPNG(s, raster)
		case FormatJPEG:
			data, err = render.RenderJPEG(s, raster)
		case FormatPDF:
			data, err = render.RenderPDF(s)
		case FormatDOT:
			layers := opts.Config.Network.Layers()
			colors := r.Palette.Ensure(opts.Config.Visual.LayerColors, len(layers))
			data = []byte(render.ToDOT(layers, prune.Apply(layers, opts.Config.Pruning.Spec()), colors))
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "rendering %s", format)
		}
		artifacts[format] = data

		if cerr := r.cache().Set(ctx, key, data, cache.TTLArtifact); cerr != nil {
			opts.Logger.Debug("artifact cache write failed", "format", format, "error", cerr)
		}
	}
	return artifacts, nil
}

// cache returns the configured artifact cache, or a null cache when the
// Runner was built by hand without one.
func (r *Runner) cache() cache.Cache {
	if r.Cache == nil {
		return cache.NewNullCache()
	}
	return r.Cache
}

// encodeForCache serializes a config for artifact addressing. Metadata
// carries timestamps and a figure id, which would defeat the cache, so
// it is zeroed first.
func encodeForCache(cfg config.Config) []byte {
	cfg.Metadata = config.Metadata{}
	data, _ := json.Marshal(cfg)
	return data
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
