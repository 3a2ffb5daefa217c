package detection

import (
	"image"
	"math"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// BoundsFromRect converts an image.Rectangle to Bounds.
func BoundsFromRect(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect converts Bounds back to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Contour is a closed polygonal boundary of a connected foreground region.
//
// Points are ordered along the boundary and the polygon is implicitly closed
// from the last point back to the first. Runs of collinear unit steps are
// collapsed to their end points, so a perfect axis-aligned rectangle is
// described by its 4 corners.
type Contour []Point

// Area returns the enclosed area computed with the shoelace formula.
//
// Coordinates are pixel centers, so a filled w×h block has area
// (w-1)×(h-1). Contours of one or two points have zero area.
func (c Contour) Area() float64 {
	n := len(c)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter returns the length of the closed polygon.
func (c Contour) Perimeter() float64 {
	n := len(c)
	if n < 2 {
		return 0
	}
	var length float64
	for i := 0; i < n; i++ {
		length += distance(c[i], c[(i+1)%n])
	}
	return length
}

// BoundingBox returns the smallest rectangle containing every contour
// pixel. Max is exclusive, so the box can be used to crop those pixels.
func (c Contour) BoundingBox() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Largest returns the index of the contour with the greatest area.
// The first contour wins ties. ok is false when contours is empty.
func Largest(contours []Contour) (index int, ok bool) {
	if len(contours) == 0 {
		return 0, false
	}
	best := contours[0].Area()
	for i := 1; i < len(contours); i++ {
		if a := contours[i].Area(); a > best {
			best = a
			index = i
		}
	}
	return index, true
}

// neighbours in clockwise screen order starting east: E, SE, S, SW, W, NW, N, NE.
var neighbours = [8]Point{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// FindExternalContours traces the outer boundary of every foreground region
// in a binary map.
//
// Parameters:
//   - bin: Binary map; any non-zero pixel is foreground.
//
// Returns the contours in raster order of their top-left-most pixel, with
// coordinates in bin's coordinate space. An empty map returns an empty
// (non-nil) slice.
//
// # Algorithm
//
//  1. Background reachable from the frame border (4-connected) is marked as
//     outside. Unreached background is a hole and counts as foreground, so
//     holes are never traced and regions nested inside a hole are absorbed
//     by their enclosing region.
//  2. Foreground regions are 8-connected. Each region is traced once with
//     Moore-neighbour border following, starting at its first pixel in
//     raster order.
//  3. Collinear runs are compressed to their end points.
//
// Regions of a single pixel produce a one-point contour.
func FindExternalContours(bin *image.Gray) []Contour {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()
	contours := make([]Contour, 0)
	if width <= 0 || height <= 0 {
		return contours
	}

	solid := fillHoles(bin, width, height)
	visited := make([]bool, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !solid[i] || visited[i] {
				continue
			}
			markRegion(solid, visited, x, y, width, height)

			traced := traceBorder(solid, Point{X: x, Y: y}, width, height)
			contour := compressChain(traced)
			for k := range contour {
				contour[k].X += b.Min.X
				contour[k].Y += b.Min.Y
			}
			contours = append(contours, contour)
		}
	}

	return contours
}

// fillHoles returns a foreground mask in which background pixels that cannot
// reach the frame border are turned into foreground.
func fillHoles(bin *image.Gray, width, height int) []bool {
	b := bin.Bounds()
	fg := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fg[y*width+x] = bin.Pix[bin.PixOffset(x+b.Min.X, y+b.Min.Y)] != 0
		}
	}

	outside := make([]bool, width*height)
	queue := make([]int, 0, 2*(width+height))
	seed := func(x, y int) {
		i := y*width + x
		if !fg[i] && !outside[i] {
			outside[i] = true
			queue = append(queue, i)
		}
	}
	for x := 0; x < width; x++ {
		seed(x, 0)
		seed(x, height-1)
	}
	for y := 0; y < height; y++ {
		seed(0, y)
		seed(width-1, y)
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%width, i/width
		if x > 0 {
			seed(x-1, y)
		}
		if x < width-1 {
			seed(x+1, y)
		}
		if y > 0 {
			seed(x, y-1)
		}
		if y < height-1 {
			seed(x, y+1)
		}
	}

	solid := make([]bool, width*height)
	for i := range solid {
		solid[i] = fg[i] || !outside[i]
	}
	return solid
}

// markRegion flags every pixel of the 8-connected region containing (x, y).
// Uses an explicit stack rather than recursion so large regions cannot
// overflow the goroutine stack.
func markRegion(solid, visited []bool, startX, startY, width, height int) {
	stack := []Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range neighbours {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			i := ny*width + nx
			if solid[i] && !visited[i] {
				visited[i] = true
				stack = append(stack, Point{X: nx, Y: ny})
			}
		}
	}
}

// traceBorder follows the outer border of the region whose first raster
// pixel is start. The walk is clockwise on screen and stops when it is about
// to repeat its first move.
func traceBorder(solid []bool, start Point, width, height int) []Point {
	isSolid := func(p Point) bool {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			return false
		}
		return solid[p.Y*width+p.X]
	}

	// next searches clockwise around p, beginning just after the backtrack
	// direction, for the next border pixel.
	next := func(p Point, back int) (Point, int, bool) {
		for k := 1; k <= 8; k++ {
			d := (back + k) % 8
			q := Point{X: p.X + neighbours[d].X, Y: p.Y + neighbours[d].Y}
			if isSolid(q) {
				return q, d, true
			}
		}
		return Point{}, 0, false
	}

	// The west neighbour of the first raster pixel is always background.
	first, dir, ok := next(start, 4)
	if !ok {
		return []Point{start}
	}

	points := []Point{start}
	p, d := first, dir
	// Each border pixel is visited at most 4 times.
	for steps := 0; steps < 4*width*height; steps++ {
		back := (d + 6) % 8
		if d%2 == 1 {
			back = (d + 5) % 8
		}
		q, nd, _ := next(p, back)
		if p == start && q == first {
			break
		}
		points = append(points, p)
		p, d = q, nd
	}
	return points
}

// compressChain drops points that continue a straight run, keeping only the
// points where the step direction changes.
func compressChain(points []Point) Contour {
	n := len(points)
	if n < 3 {
		out := make(Contour, n)
		copy(out, points)
		return out
	}

	out := make(Contour, 0, n/2+1)
	for i := 0; i < n; i++ {
		prev := points[(i+n-1)%n]
		cur := points[i]
		nxt := points[(i+1)%n]
		in := Point{X: cur.X - prev.X, Y: cur.Y - prev.Y}
		step := Point{X: nxt.X - cur.X, Y: nxt.Y - cur.Y}
		if in != step {
			out = append(out, cur)
		}
	}
	return out
}

func distance(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
