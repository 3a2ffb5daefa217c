package rectify

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
	"github.com/ironsheep/receipt-crop/internal/imaging"
)

// edgeTolerance allows sample positions that overshoot the last pixel by a
// rounding error to be clamped instead of rejected.
const edgeTolerance = 1e-6

// Rectify warps the quadrilateral c of img into an upright rectangle.
//
// Parameters:
//   - img: Source image. Corner coordinates are in img's coordinate space.
//   - c: Document corners in canonical order (see OrderCorners).
//
// Returns the rectified image, whose size is DestinationSize(c), and the
// forward transform from source coordinates to output coordinates.
//
// # Algorithm
//
//  1. Map TopLeft, TopRight, BottomRight, BottomLeft to (0,0), (w-1,0),
//     (w-1,h-1), (0,h-1)
//  2. For each output pixel, apply the inverse transform to find its source
//     position
//  3. Sample the source bilinearly; positions outside the source are black
//
// A destination narrower or shorter than two pixels, or corners that do not
// define a proper quadrilateral, fail with DegenerateGeometry. A one pixel
// side would collapse two destination corners onto one line.
func Rectify(img image.Image, c Corners) (image.Image, Transform, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, Transform{}, apperrors.NewInvalidImageError("image has no pixels", nil)
	}

	w, h := DestinationSize(c)
	if w < 2 || h < 2 {
		return nil, Transform{}, apperrors.NewDegenerateGeometryError(
			fmt.Sprintf("rectified region of %dx%d is narrower than two pixels", w, h), nil)
	}

	dst := [4]PointF{
		{X: 0, Y: 0},
		{X: float64(w - 1), Y: 0},
		{X: float64(w - 1), Y: float64(h - 1)},
		{X: 0, Y: float64(h - 1)},
	}

	forward, err := ComputeTransform(c.Points(), dst)
	if err != nil {
		return nil, Transform{}, err
	}
	inverse, err := forward.Invert()
	if err != nil {
		return nil, Transform{}, err
	}

	src := imaging.Normalize(img)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	sb := img.Bounds()

	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			sx, sy := inverse.Apply(float64(x), float64(y))
			sampleBilinear(src, sx-float64(sb.Min.X), sy-float64(sb.Min.Y), row[x*4:x*4+4])
		}
	}

	return out, forward, nil
}

// sampleBilinear writes the interpolated colour at (x, y) of src into px.
// src must have its origin at (0, 0). Positions outside the image produce
// opaque black.
func sampleBilinear(src *image.NRGBA, x, y float64, px []uint8) {
	maxX := float64(src.Rect.Dx() - 1)
	maxY := float64(src.Rect.Dy() - 1)

	// Written so that NaN falls through to black.
	if !(x >= -edgeTolerance && x <= maxX+edgeTolerance && y >= -edgeTolerance && y <= maxY+edgeTolerance) {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 255
		return
	}
	x = math.Min(math.Max(x, 0), maxX)
	y = math.Min(math.Max(y, 0), maxY)

	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if float64(x1) > maxX {
		x1 = x0
	}
	if float64(y1) > maxY {
		y1 = y0
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	i00 := src.PixOffset(x0, y0)
	i10 := src.PixOffset(x1, y0)
	i01 := src.PixOffset(x0, y1)
	i11 := src.PixOffset(x1, y1)

	for ch := 0; ch < 4; ch++ {
		top := lerp(float64(src.Pix[i00+ch]), float64(src.Pix[i10+ch]), fx)
		bottom := lerp(float64(src.Pix[i01+ch]), float64(src.Pix[i11+ch]), fx)
		px[ch] = uint8(lerp(top, bottom, fy) + 0.5)
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
