package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// compressibleTypes is the fixed raster-image set eligible for
// recompression. Vector formats and already-efficient codecs pass
// through untouched.
var compressibleTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

// minCompressSize is the size below which compressing is not worth the
// quality loss.
const minCompressSize = 100 * 1024

// ShouldCompress reports whether an upload is a candidate for
// recompression before persisting.
func ShouldCompress(mimeType string, size int64) bool {
	return compressibleTypes[mimeType] && size > minCompressSize
}

// CompressionResult describes a re-encode attempt. Callers decide
// whether to adopt the compressed bytes; see acceptCompression.
type CompressionResult struct {
	Data           []byte
	OriginalSize   int64
	CompressedSize int64
	Ratio          float64
}

// Compressor re-encodes raster images at a reduced quality and size.
type Compressor interface {
	Compress(data []byte, quality int) (*CompressionResult, error)
}

// imageCompressor is the real Compressor backed by the imaging
// library.
type imageCompressor struct{}

// NewImageCompressor returns the default raster-image Compressor.
func NewImageCompressor() Compressor {
	return imageCompressor{}
}

// maxDimensionFor returns the cap applied to the longer image side,
// scaled down for heavier originals.
func maxDimensionFor(originalSize int64) int {
	switch {
	case originalSize > 5<<20:
		return 1200
	case originalSize > 2<<20:
		return 1600
	default:
		return 1920
	}
}

// Compress decodes the image, scales it down to the size-dependent
// dimension cap with the aspect ratio preserved, and re-encodes it as
// JPEG at the given quality.
func (imageCompressor) Compress(data []byte, quality int) (*CompressionResult, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	originalSize := int64(len(data))
	maxDim := maxDimensionFor(originalSize)
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	compressed := buf.Bytes()
	return &CompressionResult{
		Data:           compressed,
		OriginalSize:   originalSize,
		CompressedSize: int64(len(compressed)),
		Ratio:          float64(len(compressed)) / float64(originalSize),
	}, nil
}

// acceptCompression applies the adoption rule: the re-encode must save
// strictly more than 10% of the original size, otherwise the lossy
// variant is not worth replacing an already-optimized file.
func acceptCompression(res *CompressionResult) bool {
	savings := res.OriginalSize - res.CompressedSize
	return float64(savings) > 0.1*float64(res.OriginalSize)
}
