package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turhancan97/paper-ready-architecture/pkg/convnet"
	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/pipeline"
	"github.com/turhancan97/paper-ready-architecture/pkg/render"
	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// cnnOpts holds the command-line flags for the cnn command.
type cnnOpts struct {
	output     string
	formats    []string
	sample     string // path to decorative input artwork
	width      int
	height     int
	dpi        int
	saveConfig bool // write the effective architecture next to the figure
}

// newCNNCmd creates the cnn command for convolutional architecture
// figures. The architecture file uses the same extension dispatch as
// the main config: .yaml, .json, or .toml.
func newCNNCmd() *cobra.Command {
	var formatsStr string
	opts := cnnOpts{width: 800, height: 600, dpi: 300}

	cmd := &cobra.Command{
		Use:   "cnn <architecture>",
		Short: "Render a convolutional architecture figure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if f == pipeline.FormatDOT {
					return apperrors.New(apperrors.ErrCodeUnsupported,
						"dot export only applies to fully-connected figures")
				}
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			return runCNN(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, jpeg, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.sample, "sample", "", "grayscale artwork drawn inside the input block")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "raster width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "raster height in pixels")
	cmd.Flags().IntVar(&opts.dpi, "dpi", opts.dpi, "raster resolution")
	cmd.Flags().BoolVar(&opts.saveConfig, "save-config", true, "write the effective architecture next to the figure")

	return cmd
}

// loadCNNSpec decodes an architecture declaration, dispatching on the
// file extension.
func loadCNNSpec(path string) (convnet.Spec, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return convnet.Spec{}, apperrors.Wrap(apperrors.ErrCodeConfigNotFound, err, "reading %s", path)
	}
	if err != nil {
		return convnet.Spec{}, apperrors.Wrap(apperrors.ErrCodeExportIO, err, "reading %s", path)
	}

	var spec convnet.Spec
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &spec)
	case ".json":
		err = json.Unmarshal(data, &spec)
	case ".toml":
		err = toml.Unmarshal(data, &spec)
	default:
		return convnet.Spec{}, apperrors.New(apperrors.ErrCodeUnsupported,
			"unsupported architecture extension %q (use .yaml, .json, or .toml)", ext)
	}
	if err != nil {
		return convnet.Spec{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}
	return spec, nil
}

func runCNN(ctx context.Context, specPath string, opts *cnnOpts) error {
	logger := loggerFromContext(ctx)

	spec, err := loadCNNSpec(specPath)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %s", specPath)

	sample, err := convnet.LoadSample(opts.sample)
	if err != nil {
		return err
	}
	if opts.sample != "" && sample == nil {
		logger.Warnf("Sample %s not found, using a plain input block", opts.sample)
	}
	spec.Sample = sample

	prog := newProgress(logger)
	s, err := convnet.BuildScene(spec, convnet.DefaultColors(), "#FFFFFF")
	if err != nil {
		return err
	}
	logger.Debugf("Scene assembled: %d primitives", len(s.Primitives))

	base := basePath(opts.output, specPath)
	single := len(opts.formats) == 1 && opts.output != "" && filepath.Ext(opts.output) != ""

	for _, format := range opts.formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := renderCNN(s, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}

		path := fmt.Sprintf("%s.%s", base, format)
		if single {
			path = opts.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		printFile(path)
	}

	if opts.saveConfig {
		sidecar := sidecarPath(base, specPath)
		data, err := yaml.Marshal(spec)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeExportIO, err, "encoding %s", sidecar)
		}
		if err := os.WriteFile(sidecar, data, 0o644); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeExportIO, err, "writing %s", sidecar)
		}
		printFile(sidecar)
	}

	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.formats)))
	return nil
}

func renderCNN(s scene.Scene, format string, opts *cnnOpts) ([]byte, error) {
	raster := render.RasterOptions{Width: opts.width, Height: opts.height, DPI: opts.dpi}
	switch format {
	case pipeline.FormatSVG:
		return render.RenderSVG(s), nil
	case pipeline.FormatPNG:
		return render.RenderPNG(s, raster)
	case pipeline.FormatJPEG:
		return render.RenderJPEG(s, raster)
	case pipeline.FormatPDF:
		return render.RenderPDF(s)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}
