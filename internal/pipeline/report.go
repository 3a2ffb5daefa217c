package pipeline

import (
	"github.com/ironsheep/receipt-crop/internal/detection"
	"github.com/ironsheep/receipt-crop/internal/imaging"
	"github.com/ironsheep/receipt-crop/internal/rectify"
)

// Method names the path an image took through the pipeline.
type Method string

const (
	// MethodPerspective means a receipt outline was found and rectified.
	MethodPerspective Method = "perspective"

	// MethodFallback means no outline qualified and the largest region's
	// bounding box was cropped instead.
	MethodFallback Method = "fallback"

	// MethodPassthrough means the edge map was empty and the whole image
	// was kept.
	MethodPassthrough Method = "passthrough"
)

// Report describes how one image was processed.
type Report struct {
	Method Method `json:"method"`

	// ContourCount is the number of outer contours in the edge map.
	ContourCount int `json:"contour_count"`

	// CandidateCount is the number of contours that passed every filter.
	CandidateCount int `json:"candidate_count"`

	// Corners and Score are set for MethodPerspective.
	Corners *rectify.Corners `json:"corners,omitempty"`
	Score   float64          `json:"score,omitempty"`

	// CropBounds is set for MethodFallback.
	CropBounds *detection.Bounds `json:"crop_bounds,omitempty"`

	// Transform maps input coordinates to region coordinates: the
	// homography for MethodPerspective, a shift for MethodFallback and the
	// identity for MethodPassthrough. Only ProcessImage sets it.
	Transform *rectify.Transform `json:"transform,omitempty"`

	InputSize  imaging.DimensionsResult `json:"input_size"`
	RegionSize imaging.DimensionsResult `json:"region_size"`
	OutputSize imaging.DimensionsResult `json:"output_size"`

	ElapsedMs int64 `json:"elapsed_ms"`
}
