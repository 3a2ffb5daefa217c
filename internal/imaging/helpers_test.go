package imaging

import (
	"image"
	"image/color"
)

// createInMemoryImage creates a solid color image
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createFilledRectImage draws a filled rectangle over a solid background.
// rect uses image.Rectangle conventions (Max exclusive).
func createFilledRectImage(width, height int, rect image.Rectangle, fg, bg color.Color) *image.RGBA {
	img := createInMemoryImage(width, height, bg)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, fg)
		}
	}
	return img
}

// createPatternImage creates a test image with distinct colored quadrants
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	midX, midY := width/2, height/2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case x < midX && y < midY:
				img.Set(x, y, color.RGBA{255, 0, 0, 255}) // red
			case x >= midX && y < midY:
				img.Set(x, y, color.RGBA{0, 255, 0, 255}) // green
			case x < midX && y >= midY:
				img.Set(x, y, color.RGBA{0, 0, 255, 255}) // blue
			default:
				img.Set(x, y, color.RGBA{255, 255, 0, 255}) // yellow
			}
		}
	}
	return img
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
