package detection

import "image"

// Default heuristic constants for receipt-like documents.
const (
	DefaultMinAreaRatio       = 0.05
	DefaultApproxEpsilonRatio = 0.04
	DefaultMinAspect          = 1.5
	DefaultMaxAspect          = 10.0
)

// Quad is a four-vertex polygon approximation of a contour, in the order the
// approximation produced it.
type Quad [4]Point

// BoundingBox returns the extent of the four vertices as a width and height
// (max - min on each axis).
func (q Quad) BoundingBox() (width, height int) {
	minX, minY := q[0].X, q[0].Y
	maxX, maxY := q[0].X, q[0].Y
	for _, p := range q[1:] {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}

// Aspect returns height / width of the bounding box, or 0 when the width is
// zero.
func (q Quad) Aspect() float64 {
	w, h := q.BoundingBox()
	if w == 0 {
		return 0
	}
	return float64(h) / float64(w)
}

// Candidate is a contour that passed every filter of the Scorer.
type Candidate struct {
	// Index is the position of the source contour in the slice passed to the Scorer.
	Index int `json:"index"`

	// Quad is the 4-vertex approximation of the contour.
	Quad Quad `json:"quad"`

	// Area is the enclosed area of the source contour, not of the quad.
	Area float64 `json:"area"`

	// Aspect is height / width of the quad's bounding box.
	Aspect float64 `json:"aspect"`

	// Score is Area × Aspect. Larger is better.
	Score float64 `json:"score"`
}

// Scorer selects the contour most likely to be a receipt outline.
//
// Each field is a tunable heuristic:
//   - MinAreaRatio: contours enclosing less than this fraction of the frame
//     area are ignored. The default (5%) still admits partially occluded
//     or low-contrast receipts.
//   - ApproxEpsilonRatio: polygon simplification tolerance as a fraction of
//     the contour perimeter. The default (4%) coerces slightly curled or torn
//     edges into 4 vertices.
//   - MinAspect, MaxAspect: exclusive bounds on height / width. The defaults
//     (1.5, 10) accept tall receipt shapes and reject wide or near-square ones.
type Scorer struct {
	MinAreaRatio       float64
	ApproxEpsilonRatio float64
	MinAspect          float64
	MaxAspect          float64
}

// DefaultScorer returns a Scorer tuned for receipts.
func DefaultScorer() Scorer {
	return Scorer{
		MinAreaRatio:       DefaultMinAreaRatio,
		ApproxEpsilonRatio: DefaultApproxEpsilonRatio,
		MinAspect:          DefaultMinAspect,
		MaxAspect:          DefaultMaxAspect,
	}
}

// Candidates returns every contour that passes the area, vertex-count and
// aspect filters, in contour order.
//
// Parameters:
//   - contours: Outer contours of the edge map.
//   - frame: Bounds of the image the contours were traced in; its area is
//     the reference for MinAreaRatio.
//
// # Algorithm
//
//  1. Drop contours whose area is below MinAreaRatio × frame area
//  2. Approximate with tolerance ApproxEpsilonRatio × perimeter
//  3. Keep exactly-4-vertex approximations
//  4. aspect = h / w of the 4 vertices' bounding box (0 when w = 0)
//  5. Keep MinAspect < aspect < MaxAspect
//  6. score = contour area × aspect
func (s Scorer) Candidates(contours []Contour, frame image.Rectangle) []Candidate {
	frameArea := float64(frame.Dx()) * float64(frame.Dy())
	minArea := frameArea * s.MinAreaRatio

	candidates := make([]Candidate, 0)
	for i, c := range contours {
		area := c.Area()
		if area < minArea {
			continue
		}

		approx := ApproxPolygon(c, s.ApproxEpsilonRatio*c.Perimeter())
		if len(approx) != 4 {
			continue
		}

		quad := Quad{approx[0], approx[1], approx[2], approx[3]}
		aspect := quad.Aspect()
		if aspect <= s.MinAspect || aspect >= s.MaxAspect {
			continue
		}

		candidates = append(candidates, Candidate{
			Index:  i,
			Quad:   quad,
			Area:   area,
			Aspect: aspect,
			Score:  area * aspect,
		})
	}
	return candidates
}

// Best returns the highest-scoring candidate among contours.
// ok is false when nothing qualifies.
func (s Scorer) Best(contours []Contour, frame image.Rectangle) (best Candidate, ok bool) {
	return BestCandidate(s.Candidates(contours, frame))
}

// BestCandidate returns the candidate with the highest score.
//
// A later candidate replaces the current best only when its score is
// strictly greater, so the first of several equal scores wins. Candidates
// with a zero score are never selected.
func BestCandidate(candidates []Candidate) (best Candidate, ok bool) {
	bestScore := 0.0
	for _, c := range candidates {
		if c.Score > bestScore {
			bestScore = c.Score
			best = c
			ok = true
		}
	}
	return best, ok
}
