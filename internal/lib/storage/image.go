package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var (
	// ErrDecode is returned for images that sniff correctly but fail to decode.
	ErrDecode = errors.New("image could not be decoded")
	// ErrImageTooLarge is returned when the declared canvas exceeds MaxPixels.
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// DefaultImageMaxPixels applies when ImageOptions.MaxPixels is unset.
const DefaultImageMaxPixels = 40_000_000

// ImageOptions bound the stored image size and WebP quality.
type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	MaxPixels int
	Quality   float32
}

// ProcessImage decodes data, downscales it to fit the box (never upscales)
// and returns it encoded as lossy WebP.
func ProcessImage(data []byte, contentType string, opt ImageOptions) ([]byte, error) {
	if err := checkDimensions(data, contentType, opt.MaxPixels); err != nil {
		return nil, err
	}

	img, err := decodeImage(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img = downscale(img, opt.MaxWidth, opt.MaxHeight)

	quality := opt.Quality
	if quality <= 0 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding webp: %w", err)
	}
	return buf.Bytes(), nil
}

// checkDimensions reads only the image header, so an oversized canvas is
// rejected before any pixel buffer is allocated.
func checkDimensions(data []byte, contentType string, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultImageMaxPixels
	}

	var (
		cfg image.Config
		err error
	)
	if contentType == "image/webp" {
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
	} else {
		cfg, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty canvas", ErrDecode)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

func decodeImage(data []byte, contentType string) (image.Image, error) {
	if contentType == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	// imaging applies the EXIF orientation so phone photos are stored upright.
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func downscale(img image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return img
	}
	b := img.Bounds()
	if maxW <= 0 {
		maxW = b.Dx()
	}
	if maxH <= 0 {
		maxH = b.Dy()
	}
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}
