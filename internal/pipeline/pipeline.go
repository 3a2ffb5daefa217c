package pipeline

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/receipt-crop/internal/detection"
	"github.com/ironsheep/receipt-crop/internal/imaging"
	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/rectify"
)

// Pipeline turns a photograph of a receipt into a cropped, upright,
// fixed-width JPEG.
//
// A Pipeline holds only immutable parameters and is safe for concurrent
// use.
type Pipeline struct {
	params Params
	scorer detection.Scorer
}

// Result is the output of processing one image.
type Result struct {
	// JPEG is the encoded output image.
	JPEG []byte

	// Image is the output before encoding.
	Image image.Image

	// Report describes how the output was produced.
	Report Report
}

// Detection is the outcome of locating the receipt in one image, before
// any pixels are moved.
type Detection struct {
	// Source is the input normalised to NRGBA with its origin at (0, 0).
	Source *image.NRGBA

	// EdgeMap is the binary map the contours were traced in.
	EdgeMap *image.Gray

	Contours   []detection.Contour
	Candidates []detection.Candidate

	// Method is the path the image will take.
	Method Method

	// Best and Corners are set for MethodPerspective.
	Best    *detection.Candidate
	Corners *rectify.Corners

	// CropBounds is set for MethodFallback.
	CropBounds *image.Rectangle
}

// New creates a Pipeline after validating params.
func New(params Params) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{params: params, scorer: params.Scorer()}, nil
}

// Params returns the parameters the pipeline was created with.
func (p *Pipeline) Params() Params {
	return p.params
}

// Process decodes data and runs it through the pipeline.
//
// Empty data fails with apperrors.ErrMissingInput and undecodable data with
// apperrors.ErrInvalidImage.
func (p *Pipeline) Process(data []byte) (*Result, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	return p.ProcessImage(img)
}

// ProcessImage runs a decoded image through the pipeline.
//
// # Algorithm
//
//  1. Detect: edge map, outer contours, best receipt-shaped quadrilateral
//  2. Extract: rectify the quadrilateral, or crop the largest contour's
//     bounding box when none qualifies, or keep the whole image when the
//     edge map is empty
//  3. Resize to the target width, preserving aspect ratio
//  4. Encode as JPEG
func (p *Pipeline) ProcessImage(img image.Image) (*Result, error) {
	start := time.Now()

	det, err := p.Detect(img)
	if err != nil {
		return nil, err
	}

	region, transform, err := p.extract(det)
	if err != nil {
		return nil, err
	}

	out, err := imaging.ResizeToWidth(region, p.params.TargetWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to resize %s region: %w", det.Method, err)
	}

	data, err := imaging.EncodeJPEG(out, p.params.JPEGQuality)
	if err != nil {
		return nil, err
	}

	report := det.Report()
	report.Transform = &transform
	report.RegionSize = imaging.Dimensions(region)
	report.OutputSize = imaging.Dimensions(out)
	report.ElapsedMs = time.Since(start).Milliseconds()

	logger.WithFields(logrus.Fields{
		"method":        report.Method,
		"contours":      report.ContourCount,
		"candidates":    report.CandidateCount,
		"input_width":   report.InputSize.Width,
		"input_height":  report.InputSize.Height,
		"output_width":  report.OutputSize.Width,
		"output_height": report.OutputSize.Height,
		"elapsed_ms":    report.ElapsedMs,
	}).Info("Receipt processed")

	return &Result{JPEG: data, Image: out, Report: report}, nil
}

// Detect locates the receipt in img without extracting it.
func (p *Pipeline) Detect(img image.Image) (*Detection, error) {
	if err := imaging.ValidateImage(img); err != nil {
		return nil, err
	}
	src := imaging.Normalize(img)

	edges, err := imaging.BuildEdgeMap(src)
	if err != nil {
		return nil, err
	}

	contours := detection.FindExternalContours(edges)
	candidates := p.scorer.Candidates(contours, src.Bounds())

	det := &Detection{
		Source:     src,
		EdgeMap:    edges,
		Contours:   contours,
		Candidates: candidates,
	}

	if best, ok := detection.BestCandidate(candidates); ok {
		corners := rectify.OrderCorners(best.Quad)
		det.Method = MethodPerspective
		det.Best = &best
		det.Corners = &corners

		logger.WithFields(logrus.Fields{
			"contour": best.Index,
			"score":   best.Score,
			"aspect":  best.Aspect,
		}).Debug("Receipt outline found")
		return det, nil
	}

	if idx, ok := detection.Largest(contours); ok {
		bounds := contours[idx].BoundingBox()
		det.Method = MethodFallback
		det.CropBounds = &bounds

		logger.WithFields(logrus.Fields{
			"contour":  idx,
			"contours": len(contours),
			"bounds":   bounds.String(),
		}).Debug("No receipt outline, cropping largest region")
		return det, nil
	}

	det.Method = MethodPassthrough
	logger.Logger.Debug("Edge map is empty, keeping the whole image")
	return det, nil
}

// extract produces the region of the source selected by det, and the
// transform from source coordinates to region coordinates.
func (p *Pipeline) extract(det *Detection) (image.Image, rectify.Transform, error) {
	switch det.Method {
	case MethodPerspective:
		out, forward, err := rectify.Rectify(det.Source, *det.Corners)
		if err != nil {
			return nil, rectify.Transform{}, fmt.Errorf("failed to rectify receipt: %w", err)
		}
		return out, forward, nil
	case MethodFallback:
		out, err := imaging.CropToBounds(det.Source, *det.CropBounds)
		if err != nil {
			return nil, rectify.Transform{}, fmt.Errorf("failed to crop receipt: %w", err)
		}
		origin := det.CropBounds.Min
		return out, rectify.Translation(-float64(origin.X), -float64(origin.Y)), nil
	default:
		return det.Source, rectify.Identity, nil
	}
}

// Report summarises the detection. Region and output sizes are left zero.
func (d *Detection) Report() Report {
	r := Report{
		Method:         d.Method,
		ContourCount:   len(d.Contours),
		CandidateCount: len(d.Candidates),
		InputSize:      imaging.Dimensions(d.Source),
	}
	if d.Best != nil {
		r.Score = d.Best.Score
	}
	if d.Corners != nil {
		c := *d.Corners
		r.Corners = &c
	}
	if d.CropBounds != nil {
		b := detection.BoundsFromRect(*d.CropBounds)
		r.CropBounds = &b
	}
	return r
}
