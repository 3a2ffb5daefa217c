package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// blurWeights is a 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
var blurWeights = [25]float64{
	1, 4, 7, 4, 1,
	4, 16, 26, 16, 4,
	7, 26, 41, 26, 7,
	4, 16, 26, 16, 4,
	1, 4, 7, 4, 1,
}

// BuildEdgeMap converts an image to a binary foreground/background map.
//
// The map highlights candidate foreground shapes, such as a bright receipt
// lying on a darker table, so that their outer boundaries can be traced.
//
// Parameters:
//   - img: Source image (color or grayscale).
//
// Returns:
//   - *image.Gray: Binary map with the same bounds as img. Foreground pixels
//     are 255, background pixels are 0.
//   - error: apperrors.ErrInvalidImage if img is nil or has no pixels.
//
// # Algorithm
//
//  1. Grayscale conversion (luminance)
//  2. Gaussian blur: fixed 5x5 kernel to suppress noise and paper texture
//  3. Otsu's method picks a global threshold from the blurred histogram
//  4. Pixels strictly above the threshold become foreground
func BuildEdgeMap(img image.Image) (*image.Gray, error) {
	if err := ValidateImage(img); err != nil {
		return nil, err
	}

	gray := redChannel(effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB))
	blurred := GaussianBlur5(gray)
	level := OtsuThreshold(blurred)
	return Binarize(blurred, level), nil
}

// Rec. 601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// redChannel copies the red channel of rgba into a grayscale image with the
// same bounds. bild keeps gray results in RGBA with equal channels.
func redChannel(rgba *image.RGBA) *image.Gray {
	b := rgba.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)] = rgba.Pix[rgba.PixOffset(x, y)]
		}
	}
	return out
}

// GaussianBlur5 applies the fixed 5x5 Gaussian kernel to a grayscale image.
// Border pixels use clamped (replicated) edge values.
func GaussianBlur5(gray *image.Gray) *image.Gray {
	k := convolution.NewKernel(5, 5)
	copy(k.Matrix, blurWeights[:])

	rgba := convolution.Convolve(gray, k.Normalized(), &convolution.Options{
		Bias:      0,
		Wrap:      false,
		KeepAlpha: true,
	})

	return redChannel(rgba)
}

// OtsuThreshold returns the global threshold that maximizes the
// between-class variance of the image histogram.
//
// Pixels with a value <= the returned level form the background class, the
// rest the foreground. When several levels share the maximum variance the
// lowest one is returned. A histogram holding a single value yields 0.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[gray.Pix[gray.PixOffset(x, y)]]++
		}
	}

	total := 0
	var sum float64
	for v, n := range hist {
		total += n
		sum += float64(v) * float64(n)
	}

	var (
		level   uint8
		best    float64
		weightB int
		sumB    float64
	)
	for t := 0; t < 256; t++ {
		weightB += hist[t]
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}

		sumB += float64(t) * float64(hist[t])
		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		diff := meanB - meanF
		between := float64(weightB) * float64(weightF) * diff * diff

		if between > best {
			best = between
			level = uint8(t)
		}
	}
	return level
}

// Binarize returns a new map where pixels strictly greater than level are
// 255 and all others are 0.
func Binarize(gray *image.Gray, level uint8) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.Pix[gray.PixOffset(x, y)] > level {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}
