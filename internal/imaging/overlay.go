package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultOverlayColor is used when an overlay is requested without a color.
const DefaultOverlayColor = "#FF0000"

// Overlay describes a closed outline to draw on top of an image.
type Overlay struct {
	// Points are the polygon vertices in image coordinates, in drawing order.
	// The outline is closed from the last point back to the first.
	Points []image.Point

	// ColorHex is the outline color as "#RRGGBB". Empty means DefaultOverlayColor.
	ColorHex string

	// Thickness is the stroke width in pixels. Values < 1 are treated as 1.
	Thickness int

	// ShowCoordinates labels each vertex with its "x,y" position.
	ShowCoordinates bool
}

// DrawOverlay returns a copy of img with the overlay outline drawn on it.
//
// The source image is not modified. Vertex labels sit on an opaque, darkened
// shade of the outline color.
func DrawOverlay(img image.Image, ov Overlay) (*image.NRGBA, error) {
	hex := ov.ColorHex
	if hex == "" {
		hex = DefaultOverlayColor
	}
	stroke, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay color %q: %w", hex, err)
	}
	thickness := ov.Thickness
	if thickness < 1 {
		thickness = 1
	}

	result := imaging.Clone(img)
	strokeRGBA := toNRGBA(stroke, 255)

	n := len(ov.Points)
	for i := 0; i < n; i++ {
		drawLine(result, ov.Points[i], ov.Points[(i+1)%n], strokeRGBA, thickness)
	}

	if ov.ShowCoordinates {
		labelBg := toNRGBA(stroke.BlendRgb(colorful.Color{R: 0, G: 0, B: 0}, 0.6), 255)
		labelFg := color.NRGBA{255, 255, 255, 255}
		for _, p := range ov.Points {
			drawLabel(result, p.X+2, p.Y+2, fmt.Sprintf("%d,%d", p.X, p.Y), labelFg, labelBg)
		}
	}

	return result, nil
}

func toNRGBA(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// drawLine rasterizes a segment with Bresenham's algorithm, stamping a
// thickness×thickness square at every step. Pixels outside the image are
// skipped.
func drawLine(img *image.NRGBA, from, to image.Point, c color.NRGBA, thickness int) {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy

	x, y := from.X, from.Y
	half := thickness / 2
	for {
		for ty := -half; ty < thickness-half; ty++ {
			for tx := -half; tx < thickness-half; tx++ {
				setIfInside(img, x+tx, y+ty, c)
			}
		}
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func setIfInside(img *image.NRGBA, x, y int, c color.NRGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetNRGBA(x, y, c)
	}
}

// drawLabel draws a simple text label at the given position using a 3x5
// pixel font for digits and comma. Unknown characters leave a gap.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
		',': {"000", "000", "000", "010", "010"},
		'-': {"000", "000", "111", "000", "000"},
	}

	charWidth := 4
	labelWidth := len(text) * charWidth
	labelHeight := 7

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			setIfInside(img, x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					setIfInside(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
