package render

import (
	"bytes"
	"encoding/base64"

	"github.com/disintegration/imaging"

	apperrors "github.com/turhancan97/paper-ready-architecture/pkg/errors"
	"github.com/turhancan97/paper-ready-architecture/pkg/scene"
)

// PreviewPNG renders a downscaled raster of the scene for interactive
// display. The output fits within maxW x maxH while preserving aspect,
// painted at screen resolution rather than export DPI.
func PreviewPNG(s scene.Scene, maxW, maxH int) ([]byte, error) {
	if maxW < 1 || maxH < 1 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "preview bounds must be positive (got %dx%d)", maxW, maxH)
	}

	img, err := paint(s, RasterOptions{Width: maxW, Height: maxH, DPI: 100})
	if err != nil {
		return nil, err
	}

	fitted := imaging.Fit(img.Image(), maxW, maxH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "encoding preview")
	}
	return buf.Bytes(), nil
}

// PreviewBase64 wraps raster bytes in base64 for UI channels that
// display images without touching disk.
func PreviewBase64(raster []byte) string {
	return base64.StdEncoding.EncodeToString(raster)
}
