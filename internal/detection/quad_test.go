package detection

import (
	"image"
	"math"
	"testing"
)

func rectContour(x, y, w, h int) Contour {
	return Contour{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

func TestQuadAspect(t *testing.T) {
	tests := []struct {
		name     string
		quad     Quad
		expected float64
	}{
		{"tall", Quad{{0, 0}, {10, 0}, {10, 30}, {0, 30}}, 3},
		{"square", Quad{{5, 5}, {15, 5}, {15, 15}, {5, 15}}, 1},
		{"skewed", Quad{{2, 0}, {12, 1}, {10, 40}, {0, 38}}, 40.0 / 12.0},
		{"zero width", Quad{{4, 0}, {4, 10}, {4, 20}, {4, 30}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.quad.Aspect(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected aspect %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestScorerCandidates_Filters(t *testing.T) {
	frame := image.Rect(0, 0, 400, 400)
	tests := []struct {
		name    string
		contour Contour
		accept  bool
	}{
		{"tall receipt", rectContour(50, 50, 100, 200), true},
		{"too small", rectContour(0, 0, 20, 60), false},
		{"square", rectContour(0, 0, 200, 200), false},
		{"wide", rectContour(0, 0, 300, 100), false},
		{"aspect at minimum", rectContour(0, 0, 100, 150), false},
		{"aspect at maximum", rectContour(0, 0, 30, 300), false},
		{"just above minimum", rectContour(0, 0, 100, 151), true},
		{"triangle", Contour{{0, 0}, {200, 0}, {0, 300}}, false},
	}

	s := DefaultScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Candidates([]Contour{tt.contour}, frame)
			if tt.accept && len(got) != 1 {
				t.Errorf("Expected contour to be accepted, got %d candidates", len(got))
			}
			if !tt.accept && len(got) != 0 {
				t.Errorf("Expected contour to be rejected, got %+v", got)
			}
		})
	}
}

func TestScorerCandidates_Score(t *testing.T) {
	frame := image.Rect(0, 0, 400, 400)
	c := rectContour(50, 50, 100, 200)

	got := DefaultScorer().Candidates([]Contour{c}, frame)
	if len(got) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(got))
	}
	cand := got[0]
	if cand.Area != 20000 {
		t.Errorf("Expected area 20000, got %f", cand.Area)
	}
	if cand.Aspect != 2 {
		t.Errorf("Expected aspect 2, got %f", cand.Aspect)
	}
	if cand.Score != 40000 {
		t.Errorf("Expected score 40000, got %f", cand.Score)
	}
	if cand.Quad != (Quad{{50, 50}, {150, 50}, {150, 250}, {50, 250}}) {
		t.Errorf("Unexpected quad: %v", cand.Quad)
	}
}

func TestScorerBest_HighestScoreWins(t *testing.T) {
	frame := image.Rect(0, 0, 800, 400)
	contours := []Contour{
		rectContour(0, 0, 100, 200),   // 20000 × 2
		rectContour(300, 0, 100, 300), // 30000 × 3
		rectContour(600, 0, 150, 250), // 37500 × 1.67
	}

	best, ok := DefaultScorer().Best(contours, frame)
	if !ok {
		t.Fatal("Expected a best candidate")
	}
	if best.Index != 1 {
		t.Errorf("Expected contour 1 to win, got %d", best.Index)
	}

	for _, c := range DefaultScorer().Candidates(contours, frame) {
		if c.Score > best.Score {
			t.Errorf("Candidate %d scores %f, above best %f", c.Index, c.Score, best.Score)
		}
	}
}

func TestScorerBest_FirstWinsTies(t *testing.T) {
	frame := image.Rect(0, 0, 600, 600)
	contours := []Contour{
		rectContour(0, 0, 300, 300), // square, rejected
		rectContour(0, 400, 100, 200),
		rectContour(500, 400, 100, 200),
	}

	best, ok := DefaultScorer().Best(contours, frame)
	if !ok {
		t.Fatal("Expected a best candidate")
	}
	if best.Index != 1 {
		t.Errorf("Expected first tied contour (1) to win, got %d", best.Index)
	}
}

func TestScorerBest_NoCandidates(t *testing.T) {
	frame := image.Rect(0, 0, 400, 400)

	if _, ok := DefaultScorer().Best(nil, frame); ok {
		t.Error("Expected ok=false for no contours")
	}

	contours := []Contour{rectContour(0, 0, 300, 300), rectContour(0, 0, 5, 5)}
	if _, ok := DefaultScorer().Best(contours, frame); ok {
		t.Error("Expected ok=false when nothing passes the filters")
	}
}

func TestScorer_CustomThresholds(t *testing.T) {
	frame := image.Rect(0, 0, 400, 400)
	square := []Contour{rectContour(0, 0, 200, 200)}

	s := DefaultScorer()
	s.MinAspect = 0.5
	if _, ok := s.Best(square, frame); !ok {
		t.Error("Expected square to qualify with MinAspect 0.5")
	}

	s = DefaultScorer()
	s.MinAreaRatio = 0.5
	if _, ok := s.Best([]Contour{rectContour(0, 0, 100, 200)}, frame); ok {
		t.Error("Expected contour below 50% of frame to be rejected")
	}
}

func TestScorer_TracedReceipt(t *testing.T) {
	bin := createBinaryMap(300, 450, image.Rect(25, 25, 275, 425))
	contours := FindExternalContours(bin)

	best, ok := DefaultScorer().Best(contours, bin.Bounds())
	if !ok {
		t.Fatal("Expected traced receipt to be selected")
	}
	expected := Quad{{25, 25}, {274, 25}, {274, 424}, {25, 424}}
	if best.Quad != expected {
		t.Errorf("Expected quad %v, got %v", expected, best.Quad)
	}
}

func TestBestCandidate(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		wantIndex int
		wantOK    bool
	}{
		{"empty", nil, 0, false},
		{"single", []float64{5}, 0, true},
		{"max in middle", []float64{1, 9, 3}, 1, true},
		{"first of ties", []float64{4, 7, 7}, 1, true},
		{"zero scores ignored", []float64{0, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var candidates []Candidate
			for i, s := range tt.scores {
				candidates = append(candidates, Candidate{Index: i, Score: s})
			}
			best, ok := BestCandidate(candidates)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && best.Index != tt.wantIndex {
				t.Errorf("Expected index %d, got %d", tt.wantIndex, best.Index)
			}
		})
	}
}
