package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPng(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestConvertPngToJpeg(t *testing.T) {
	pngBytes := encodeTestPng(t, 120, 80)

	jpegBytes, err := ConvertPngToJpeg(pngBytes, 75)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(jpegBytes))
	require.NoError(t, err, "output should be valid jpeg")

	bounds := img.Bounds()
	assert.Equal(t, 120, bounds.Dx())
	assert.Equal(t, 80, bounds.Dy())
}

func TestConvertPngToJpeg_RejectsGarbage(t *testing.T) {
	_, err := ConvertPngToJpeg([]byte("not a png"), 75)
	assert.Error(t, err)
}

func TestPngSize(t *testing.T) {
	pngBytes := encodeTestPng(t, 390, 844)

	width, height, err := PngSize(pngBytes)
	require.NoError(t, err)
	assert.Equal(t, 390, width)
	assert.Equal(t, 844, height)
}

func TestPngSize_RejectsGarbage(t *testing.T) {
	_, _, err := PngSize([]byte("short"))
	assert.Error(t, err)
}
