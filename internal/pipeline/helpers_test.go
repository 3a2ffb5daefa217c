package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// createBlackImage creates an opaque black RGBA image.
func createBlackImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// fillRect paints r white.
func fillRect(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
}

// fillConvexPolygon paints every pixel inside the clockwise polygon pts white.
func fillConvexPolygon(img *image.RGBA, pts []image.Point) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			inside := true
			for i := range pts {
				a, c := pts[i], pts[(i+1)%len(pts)]
				cross := (c.X-a.X)*(y-a.Y) - (c.Y-a.Y)*(x-a.X)
				if cross < 0 {
					inside = false
					break
				}
			}
			if inside {
				img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
