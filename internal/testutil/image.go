package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
)

// TestImageConfig holds configuration for generating test images.
type TestImageConfig struct {
	Text       string
	Size       ImageSize
	Background color.Color
	Foreground color.Color
	FontFace   font.Face
	Multiline  bool
}

// DefaultTestImageConfig returns a default configuration for test images.
func DefaultTestImageConfig() TestImageConfig {
	return TestImageConfig{
		Text:       "Sample Text",
		Size:       SmallSize,
		Background: color.White,
		Foreground: color.Black,
		FontFace:   basicfont.Face7x13,
		Multiline:  false,
	}
}

// GenerateTextImage creates a synthetic text image with the given configuration.
func GenerateTextImage(config TestImageConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, config.Size.Width, config.Size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{config.Background}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{config.Foreground},
		Face: config.FontFace,
	}

	lines := []string{config.Text}
	if config.Multiline {
		lines = strings.Split(config.Text, "\n")
	}

	lineHeight := config.FontFace.Metrics().Height.Ceil()
	startY := (config.Size.Height - len(lines)*lineHeight) / 2
	for i, line := range lines {
		textWidth := font.MeasureString(config.FontFace, line).Ceil()
		drawer.Dot = fixed.P((config.Size.Width-textWidth)/2, startY+(i+1)*lineHeight)
		drawer.DrawString(line)
	}
	return img
}

// CreateTestImage returns a solid image of the given size.
func CreateTestImage(width, height int, background color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	return img
}

// EncodeImage encodes img in the given format.
func EncodeImage(t *testing.T, img image.Image, format imaging.Format) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format), "Failed to encode %s image", format)
	return buf.Bytes()
}

// WriteFile writes data to name inside dir and returns the full path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600), "Failed to write %s", path)
	return path
}

// DecodeImage decodes an encoded image or fails the test.
func DecodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err, "Failed to decode image")
	return img
}
