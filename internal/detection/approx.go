package detection

import "math"

// ApproxPolygon simplifies a closed contour with the Douglas-Peucker
// algorithm.
//
// Parameters:
//   - c: Closed contour to simplify.
//   - epsilon: Maximum distance, in pixels, between the original curve and
//     its approximation. Points closer than epsilon to the simplified edge
//     are dropped.
//
// Returns the kept vertices in their original contour order. Contours with
// fewer than 3 points are returned unchanged (as a copy).
//
// # Closed Curves
//
// A closed curve has no natural end points, so two anchors are chosen first:
// the point farthest from the first contour point, and then the point
// farthest from that one. Each of the two arcs between the anchors is then
// simplified independently. Anchors found this way sit on the curve's
// diameter, which for a document outline means two opposite corners.
func ApproxPolygon(c Contour, epsilon float64) Contour {
	n := len(c)
	if n < 3 {
		out := make(Contour, n)
		copy(out, c)
		return out
	}

	b := farthestFrom(c, 0)
	a := farthestFrom(c, b)
	if a == b {
		return Contour{c[a]}
	}

	keep := make([]bool, n)
	keep[a] = true
	keep[b] = true
	simplifyArc(c, a, b, epsilon, keep)
	simplifyArc(c, b, a, epsilon, keep)

	out := make(Contour, 0, 8)
	for i, p := range c {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// simplifyArc marks the vertices to keep on the arc from index start to
// index end, walking forward and wrapping around the contour.
func simplifyArc(c Contour, start, end int, epsilon float64, keep []bool) {
	n := len(c)
	type span struct{ from, to int }
	stack := []span{{start, end}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist := -1.0
		maxIdx := -1
		for i := (s.from + 1) % n; i != s.to; i = (i + 1) % n {
			d := pointLineDistance(c[i], c[s.from], c[s.to])
			if d > maxDist {
				maxDist = d
				maxIdx = i
			}
		}

		if maxIdx >= 0 && maxDist > epsilon {
			keep[maxIdx] = true
			stack = append(stack, span{s.from, maxIdx}, span{maxIdx, s.to})
		}
	}
}

// farthestFrom returns the index of the point farthest from c[from].
// The first such point wins ties.
func farthestFrom(c Contour, from int) int {
	best := from
	bestDist := -1.0
	for i, p := range c {
		if d := distance(p, c[from]); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// pointLineDistance is the distance from p to the infinite line through a
// and b, or to a itself when a and b coincide.
func pointLineDistance(p, a, b Point) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return distance(p, a)
	}
	cross := dx*float64(p.Y-a.Y) - dy*float64(p.X-a.X)
	return math.Abs(cross) / length
}
