package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

// MaxOutputDimension is the largest width or height a JPEG can carry.
const MaxOutputDimension = 65535

// ResizeToWidth rescales an image to targetWidth, preserving aspect ratio.
//
// The target height is height × (targetWidth / width), truncated toward
// zero. Resampling uses the Catmull-Rom cubic filter. An image that is
// already targetWidth wide keeps its dimensions.
//
// Errors:
//   - apperrors.ErrInvalidImage when the source width is zero
//   - apperrors.ErrDegenerateGeometry when targetWidth < 1, the computed
//     height truncates to zero, or either side exceeds MaxOutputDimension
func ResizeToWidth(img image.Image, targetWidth int) (image.Image, error) {
	if img == nil {
		return nil, apperrors.NewInvalidImageError("image is nil", nil)
	}
	b := img.Bounds()
	if b.Dx() <= 0 {
		return nil, apperrors.NewInvalidImageError("image width is zero", nil)
	}
	if targetWidth < 1 || targetWidth > MaxOutputDimension {
		return nil, apperrors.NewDegenerateGeometryError(
			fmt.Sprintf("target width %d", targetWidth), nil)
	}

	targetHeight := float64(b.Dy()) * float64(targetWidth) / float64(b.Dx())
	if targetHeight < 1 {
		return nil, apperrors.NewDegenerateGeometryError(
			fmt.Sprintf("resized height of %dx%d at width %d is zero", b.Dx(), b.Dy(), targetWidth), nil)
	}
	// Checked before allocating: a thin strip scales to an enormous height.
	if targetHeight > MaxOutputDimension {
		return nil, apperrors.NewDegenerateGeometryError(
			fmt.Sprintf("resized height of %dx%d at width %d exceeds %d", b.Dx(), b.Dy(), targetWidth, MaxOutputDimension), nil)
	}

	return imaging.Resize(img, targetWidth, int(targetHeight), imaging.CatmullRom), nil
}
