// Package imaging provides the raster stages of the receipt pipeline.
//
// This package turns encoded bytes into pixels and back, and implements the
// pixel-level stages that sit around contour detection: building the binary
// edge map, cropping, resizing to the output width and drawing debug
// overlays. All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are image.Rectangle values: Min is inclusive, Max is exclusive
//
// # Thread Safety
//
// Every function is stateless and returns a newly allocated image. Different
// goroutines may process different images, or read the same image, without
// synchronization.
//
// # Edge Map
//
// BuildEdgeMap produces a binary *image.Gray where 255 marks foreground and
// 0 marks background:
//
//  1. Grayscale conversion
//  2. 5x5 Gaussian blur
//  3. Otsu's automatic global threshold
//
// # Error Handling
//
// Functions return *apperrors.AppError values so callers can tell the
// failure categories apart with errors.Is:
//   - apperrors.ErrMissingInput: empty payload
//   - apperrors.ErrInvalidImage: undecodable payload, nil image, zero width
//   - apperrors.ErrDegenerateGeometry: empty crop regions, zero output size
//
// # Supported Formats
//
// Decoding supports JPEG, PNG, GIF, BMP, TIFF and WebP. EXIF orientation is
// applied so that phone photos come out upright. Output is JPEG for the
// pipeline and PNG for debug images.
package imaging
