package pipeline

import (
	"fmt"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
	"github.com/ironsheep/receipt-crop/internal/detection"
	"github.com/ironsheep/receipt-crop/internal/imaging"
)

// DefaultTargetWidth is the width, in pixels, of every output image.
const DefaultTargetWidth = 600

// Params holds the tunable constants of the pipeline.
type Params struct {
	// MinAreaRatio is the smallest contour area, as a fraction of the image
	// area, considered as a document outline.
	MinAreaRatio float64 `toml:"min_area_ratio" json:"min_area_ratio"`

	// ApproxEpsilonRatio is the polygon simplification tolerance as a
	// fraction of the contour perimeter.
	ApproxEpsilonRatio float64 `toml:"approx_epsilon_ratio" json:"approx_epsilon_ratio"`

	// MinAspect and MaxAspect bound the accepted height/width ratio
	// (both exclusive).
	MinAspect float64 `toml:"min_aspect" json:"min_aspect"`
	MaxAspect float64 `toml:"max_aspect" json:"max_aspect"`

	// TargetWidth is the output width in pixels.
	TargetWidth int `toml:"target_width" json:"target_width"`

	// JPEGQuality is the output encoder quality (1-100).
	JPEGQuality int `toml:"jpeg_quality" json:"jpeg_quality"`
}

// DefaultParams returns the parameters tuned for photographed receipts.
func DefaultParams() Params {
	s := detection.DefaultScorer()
	return Params{
		MinAreaRatio:       s.MinAreaRatio,
		ApproxEpsilonRatio: s.ApproxEpsilonRatio,
		MinAspect:          s.MinAspect,
		MaxAspect:          s.MaxAspect,
		TargetWidth:        DefaultTargetWidth,
		JPEGQuality:        imaging.DefaultJPEGQuality,
	}
}

// Validate rejects parameter combinations that cannot produce output.
func (p Params) Validate() error {
	switch {
	case p.MinAreaRatio < 0 || p.MinAreaRatio > 1:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("min area ratio must be within [0, 1], got %g", p.MinAreaRatio))
	case p.ApproxEpsilonRatio <= 0:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("approx epsilon ratio must be positive, got %g", p.ApproxEpsilonRatio))
	case p.MinAspect < 0:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("min aspect must not be negative, got %g", p.MinAspect))
	case p.MaxAspect <= p.MinAspect:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("max aspect (%g) must exceed min aspect (%g)", p.MaxAspect, p.MinAspect))
	case p.TargetWidth < 1:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("target width must be at least 1, got %d", p.TargetWidth))
	case p.JPEGQuality < 1 || p.JPEGQuality > 100:
		return apperrors.NewInvalidConfigError(fmt.Sprintf("jpeg quality must be within [1, 100], got %d", p.JPEGQuality))
	}
	return nil
}

// Scorer returns the contour scorer configured by p.
func (p Params) Scorer() detection.Scorer {
	return detection.Scorer{
		MinAreaRatio:       p.MinAreaRatio,
		ApproxEpsilonRatio: p.ApproxEpsilonRatio,
		MinAspect:          p.MinAspect,
		MaxAspect:          p.MaxAspect,
	}
}
