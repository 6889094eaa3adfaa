// Package preview coordinates live figure regeneration.
//
// The coordinator serializes regeneration requests: every submit bumps
// a generation counter and cancels the in-flight build, so only the
// newest configuration ever publishes a result. A debounce window
// absorbs bursts of edits (slider drags, rapid keystrokes) into a
// single render.
package preview

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	"github.com/turhancan97/paper-ready-architecture/pkg/observability"
	"github.com/turhancan97/paper-ready-architecture/pkg/pipeline"
	"github.com/turhancan97/paper-ready-architecture/pkg/prune"
	"github.com/turhancan97/paper-ready-architecture/pkg/render"
)

// DefaultDebounce is the settle window applied between a submit and
// the render it triggers.
const DefaultDebounce = 150 * time.Millisecond

// Snapshot is the latest successfully rendered preview.
type Snapshot struct {
	Config   config.Config
	PNG      []byte
	Seq      uint64
	Rendered time.Time
}

// Coordinator debounces and single-flights preview renders.
type Coordinator struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	debounce time.Duration
	maxW     int
	maxH     int

	// onUpdate, if set, is invoked after each successful render with
	// the fresh snapshot. Called from the render goroutine.
	onUpdate func(Snapshot)

	// renderMu serializes scene builds: the background render goroutine
	// and the schematic HTTP path share the runner's palette allocator
	// and the Graphviz runtime.
	renderMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	latest  *Snapshot
	lastErr error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the settle window. Zero disables debouncing,
// which tests use to keep timing deterministic.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

// WithBounds sets the maximum preview dimensions.
func WithBounds(w, h int) Option {
	return func(c *Coordinator) { c.maxW, c.maxH = w, h }
}

// WithOnUpdate registers a callback invoked after each successful
// render.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(c *Coordinator) { c.onUpdate = fn }
}

// NewCoordinator creates a coordinator rendering through runner.
func NewCoordinator(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = log.Default()
	}
	c := &Coordinator{
		runner:   runner,
		logger:   logger,
		debounce: DefaultDebounce,
		maxW:     800,
		maxH:     600,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit schedules a preview render for cfg. Any in-flight render is
// cancelled; if further submits arrive within the debounce window only
// the last one renders. Returns the generation number assigned to this
// request.
func (c *Coordinator) Submit(cfg config.Config) uint64 {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx, cfg, seq)
	return seq
}

func (c *Coordinator) run(ctx context.Context, cfg config.Config, seq uint64) {
	if c.debounce > 0 {
		timer := time.NewTimer(c.debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	start := time.Now()
	snap, err := c.render(ctx, cfg, seq)
	observability.Server().OnPreviewRefresh(ctx, time.Since(start), err)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return // a newer submit superseded this render
	}
	if err != nil {
		if ctx.Err() == nil {
			c.lastErr = err
			c.logger.Warn("preview render failed", "err", err)
		}
		return
	}
	c.latest = &snap
	c.lastErr = nil

	if c.onUpdate != nil {
		go c.onUpdate(snap)
	}
}

func (c *Coordinator) render(ctx context.Context, cfg config.Config, seq uint64) (Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return Snapshot{}, err
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	s, _, err := c.runner.BuildScene(ctx, cfg)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	png, err := render.PreviewPNG(s, c.maxW, c.maxH)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Config: cfg, PNG: png, Seq: seq, Rendered: time.Now()}, nil
}

// Schematic renders a Graphviz node-link view of cfg. It shares the
// runner's palette allocator so schematic colors match the preview,
// and runs mutually excluded with in-flight preview renders.
func (c *Coordinator) Schematic(cfg config.Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	layers := cfg.Network.Layers()
	colors := c.runner.Palette.Ensure(cfg.Visual.LayerColors, len(layers))
	dot := render.ToDOT(layers, prune.Apply(layers, cfg.Pruning.Spec()), colors)
	return render.RenderDOTSVG(dot)
}

// Latest returns the most recent successful snapshot, or false when
// nothing has rendered yet.
func (c *Coordinator) Latest() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest == nil {
		return Snapshot{}, false
	}
	return *c.latest, true
}

// Err returns the error from the most recent failed render, cleared by
// the next success.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Wait blocks until a snapshot with generation >= seq is published or
// the context expires. Intended for tests and request handlers that
// need read-your-write semantics.
func (c *Coordinator) Wait(ctx context.Context, seq uint64) (Snapshot, error) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for {
		c.mu.Lock()
		if c.latest != nil && c.latest.Seq >= seq {
			snap := *c.latest
			c.mu.Unlock()
			return snap, nil
		}
		if c.lastErr != nil && c.seq == seq {
			err := c.lastErr
			c.mu.Unlock()
			return Snapshot{}, err
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close cancels any in-flight render.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
