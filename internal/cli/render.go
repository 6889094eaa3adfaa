package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turhancan97/paper-ready-architecture/pkg/cache"
	"github.com/turhancan97/paper-ready-architecture/pkg/config"
	"github.com/turhancan97/paper-ready-architecture/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple formats)
	formats    []string // output formats: svg, png, jpeg, pdf, dot
	saveConfig bool     // write the effective config next to the figure
	noCache    bool     // bypass the artifact cache
}

// newRenderCmd creates the render command for generating MLP figures.
// Without a config file argument the stock configuration is rendered,
// which is the quickest way to get a figure on disk.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [config]",
		Short: "Render a network figure from a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			return runRender(cmd.Context(), configPath, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpeg, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.saveConfig, "save-config", true, "write the effective configuration next to the figure")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the rendered artifact cache")

	return cmd
}

// openCache returns a file-backed artifact cache under the user cache
// directory. Falls back to a null cache when the directory is not
// writable, so rendering never fails because of the cache.
func openCache(ctx context.Context, disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	base, err := os.UserCacheDir()
	if err != nil {
		loggerFromContext(ctx).Debug("no user cache dir, caching disabled", "error", err)
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(filepath.Join(base, "nnfig", "artifacts"))
	if err != nil {
		loggerFromContext(ctx).Debug("cache unavailable", "error", err)
		return cache.NewNullCache()
	}
	return c
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// basePath derives the base output path from the output flag and the
// input config path. A format extension on the output is stripped so
// multi-format runs produce figure.svg, figure.png, and so on.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "figure"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// sidecarPath derives where the effective parameters are written next
// to the figure. When the natural name would overwrite the input file,
// a ".rendered" infix keeps them apart.
func sidecarPath(base, input string) string {
	sidecar := base + ".yaml"
	if sidecar == input {
		sidecar = base + ".rendered.yaml"
	}
	return sidecar
}

// runRender loads (or defaults) the configuration and renders it to
// the requested formats.
func runRender(ctx context.Context, configPath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	var cfg config.Config
	if configPath == "" {
		logger.Info("No config given, rendering defaults")
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Infof("Loaded %s", configPath)
	}

	prog := newProgress(logger)
	runner := pipeline.NewRunner(logger)
	runner.Cache = openCache(ctx, opts.noCache)
	defer runner.Cache.Close()
	result, err := runner.Execute(ctx, pipeline.Options{
		Config:  cfg,
		Formats: opts.formats,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, configPath)
	single := len(opts.formats) == 1 && opts.output != "" && filepath.Ext(opts.output) != ""

	for _, format := range opts.formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if single {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printFile(path)
	}

	if opts.saveConfig {
		sidecar := sidecarPath(base, configPath)
		if err := config.Save(cfg, sidecar); err != nil {
			return err
		}
		printFile(sidecar)
	}

	if cfg.Pruning.Enabled {
		logger.Debugf("Pruning seed %d: removed %d neurons, %d synapses",
			result.Seed, result.Stats.NeuronsPruned, result.Stats.EdgesPruned)
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.formats)))
	return nil
}
