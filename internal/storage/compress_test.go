package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldCompress(t *testing.T) {
	testCases := []struct {
		name     string
		mimeType string
		size     int64
		expected bool
	}{
		{"large jpeg", "image/jpeg", 200 * 1024, true},
		{"large png", "image/png", 200 * 1024, true},
		{"large bmp", "image/bmp", 200 * 1024, true},
		{"large tiff", "image/tiff", 200 * 1024, true},
		{"small jpeg", "image/jpeg", 50 * 1024, false},
		{"exactly at threshold", "image/png", 100 * 1024, false},
		{"just over threshold", "image/png", 100*1024 + 1, true},
		{"webp not in the set", "image/webp", 200 * 1024, false},
		{"pdf", "application/pdf", 5 << 20, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ShouldCompress(tc.mimeType, tc.size))
		})
	}
}

func TestMaxDimensionFor(t *testing.T) {
	assert.Equal(t, 1920, maxDimensionFor(500*1024))
	assert.Equal(t, 1920, maxDimensionFor(2<<20))
	assert.Equal(t, 1600, maxDimensionFor(2<<20+1))
	assert.Equal(t, 1600, maxDimensionFor(5<<20))
	assert.Equal(t, 1200, maxDimensionFor(5<<20+1))
	assert.Equal(t, 1200, maxDimensionFor(50<<20))
}

func TestAcceptCompression(t *testing.T) {
	// Saving exactly 10% is not enough; the rule is strictly greater.
	assert.False(t, acceptCompression(&CompressionResult{OriginalSize: 1000, CompressedSize: 950}))
	assert.False(t, acceptCompression(&CompressionResult{OriginalSize: 1000, CompressedSize: 900}))
	assert.True(t, acceptCompression(&CompressionResult{OriginalSize: 1000, CompressedSize: 850}))
	assert.False(t, acceptCompression(&CompressionResult{OriginalSize: 1000, CompressedSize: 1100}))
}

// noisyPNG builds a PNG full of random pixels. Noise defeats PNG's
// lossless filters, so the file is large relative to its dimensions
// and the lossy JPEG re-encode shrinks it substantially.
func noisyPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressReencodesAsJPEG(t *testing.T) {
	data := noisyPNG(t, 600, 400)

	res, err := NewImageCompressor().Compress(data, 80)
	require.NoError(t, err)

	assert.Equal(t, int64(len(data)), res.OriginalSize)
	assert.Equal(t, int64(len(res.Data)), res.CompressedSize)
	assert.InDelta(t, float64(res.CompressedSize)/float64(res.OriginalSize), res.Ratio, 1e-9)
	assert.Less(t, res.CompressedSize, res.OriginalSize, "JPEG at q80 should beat a noisy PNG")

	img, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	// Under the cap, dimensions are untouched.
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestCompressScalesDownLargeImages(t *testing.T) {
	data := noisyPNG(t, 2400, 1200)

	res, err := NewImageCompressor().Compress(data, 80)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)

	maxDim := maxDimensionFor(int64(len(data)))
	assert.LessOrEqual(t, img.Bounds().Dx(), maxDim)
	assert.LessOrEqual(t, img.Bounds().Dy(), maxDim)
	// Aspect ratio 2:1 survives the uniform scale.
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy()*2)
}

func TestCompressRejectsGarbage(t *testing.T) {
	_, err := NewImageCompressor().Compress([]byte("definitely not an image"), 80)
	assert.Error(t, err)
}
