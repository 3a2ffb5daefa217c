package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

// CropToBounds extracts a rectangular region from an image.
//
// The region uses image.Rectangle conventions: Min is inclusive, Max is
// exclusive. The returned image always has its origin at (0,0).
//
// Errors are apperrors.ErrDegenerateGeometry when the region is empty or
// not fully inside the image bounds.
func CropToBounds(img image.Image, region image.Rectangle) (image.Image, error) {
	bounds := img.Bounds()

	if region.Empty() {
		return nil, apperrors.NewDegenerateGeometryError(
			fmt.Sprintf("crop region %v is empty", region), nil)
	}
	if !region.In(bounds) {
		return nil, apperrors.NewDegenerateGeometryError(
			fmt.Sprintf("crop region %v outside image bounds %v", region, bounds), nil)
	}

	return imaging.Crop(img, region), nil
}
