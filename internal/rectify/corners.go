package rectify

import (
	"math"

	"github.com/ironsheep/receipt-crop/internal/detection"
)

// PointF is a sub-pixel coordinate.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Corners are the four vertices of a quadrilateral in canonical order.
type Corners struct {
	TopLeft     PointF `json:"top_left"`
	TopRight    PointF `json:"top_right"`
	BottomRight PointF `json:"bottom_right"`
	BottomLeft  PointF `json:"bottom_left"`
}

// Points returns the corners as TopLeft, TopRight, BottomRight, BottomLeft.
func (c Corners) Points() [4]PointF {
	return [4]PointF{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// OrderCorners assigns the vertices of q to canonical corners.
//
// # Algorithm
//
//   - TopLeft has the smallest x+y
//   - BottomRight has the largest x+y
//   - TopRight has the smallest y-x
//   - BottomLeft has the largest y-x
//
// The first vertex wins equal sums or differences. For any convex
// quadrilateral that is not rotated close to 45 degrees the four roles land
// on four distinct vertices, and rotating the vertex list does not change
// the result.
func OrderCorners(q detection.Quad) Corners {
	minSum, maxSum := 0, 0
	minDiff, maxDiff := 0, 0
	for i := 1; i < len(q); i++ {
		sum := q[i].X + q[i].Y
		diff := q[i].Y - q[i].X
		if sum < q[minSum].X+q[minSum].Y {
			minSum = i
		}
		if sum > q[maxSum].X+q[maxSum].Y {
			maxSum = i
		}
		if diff < q[minDiff].Y-q[minDiff].X {
			minDiff = i
		}
		if diff > q[maxDiff].Y-q[maxDiff].X {
			maxDiff = i
		}
	}

	return Corners{
		TopLeft:     toPointF(q[minSum]),
		TopRight:    toPointF(q[minDiff]),
		BottomRight: toPointF(q[maxSum]),
		BottomLeft:  toPointF(q[maxDiff]),
	}
}

// DestinationSize returns the pixel size of the rectified output: the longer
// horizontal edge by the longer vertical edge, truncated.
func DestinationSize(c Corners) (width, height int) {
	widthBottom := dist(c.BottomRight, c.BottomLeft)
	widthTop := dist(c.TopRight, c.TopLeft)
	heightRight := dist(c.TopRight, c.BottomRight)
	heightLeft := dist(c.TopLeft, c.BottomLeft)

	return int(math.Max(widthBottom, widthTop)), int(math.Max(heightRight, heightLeft))
}

func toPointF(p detection.Point) PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

func dist(a, b PointF) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
