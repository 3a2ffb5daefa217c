package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

// MaxDecodePixels caps the pixel count of an image accepted by Decode.
// The header is checked before any pixels are allocated.
var MaxDecodePixels = 100_000_000

// Decode turns an encoded image buffer into an in-memory pixel grid.
//
// Parameters:
//   - data: Encoded image bytes. Supported formats are JPEG, PNG, GIF, BMP,
//     TIFF and WebP. The format is sniffed from the content, never from a
//     file name.
//
// Returns:
//   - image.Image: The decoded image, rotated upright according to its EXIF
//     orientation tag when one is present.
//   - error: apperrors.ErrMissingInput when data is empty, or
//     apperrors.ErrInvalidImage when it cannot be decoded, decodes to an
//     image with no pixels, or declares more than MaxDecodePixels pixels.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, apperrors.NewMissingInputError("no image supplied")
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil &&
		int64(cfg.Width)*int64(cfg.Height) > int64(MaxDecodePixels) {
		return nil, apperrors.NewInvalidImageError(
			fmt.Sprintf("image of %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxDecodePixels), nil)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperrors.NewInvalidImageError("failed to decode image", err)
	}

	if err := ValidateImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// LoadFile reads and decodes an image file from disk.
//
// Read failures are returned as plain wrapped errors; an empty file is
// reported as missing input, consistent with Decode.
func LoadFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return Decode(data)
}

// ValidateImage rejects nil images and images with an empty pixel grid.
func ValidateImage(img image.Image) error {
	if img == nil {
		return apperrors.NewInvalidImageError("image is nil", nil)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return apperrors.NewInvalidImageError(
			fmt.Sprintf("image has empty bounds %dx%d", b.Dx(), b.Dy()), nil)
	}
	return nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// Dimensions returns the size of img.
func Dimensions(img image.Image) DimensionsResult {
	b := img.Bounds()
	return DimensionsResult{Width: b.Dx(), Height: b.Dy()}
}

// Normalize returns img as an NRGBA image whose bounds start at (0, 0).
// Images that already satisfy this are returned as is, otherwise a copy is
// made.
func Normalize(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
