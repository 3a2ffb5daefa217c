package pipeline

import (
	"image"

	"github.com/ironsheep/receipt-crop/internal/imaging"
)

// Overlay colours per detection method.
const (
	QuadOverlayColor     = "#00FF00"
	FallbackOverlayColor = "#FFA500"
)

// Overlay draws the detected receipt outline on a copy of the source image:
// the rectified quadrilateral in green, or the fallback crop box in orange.
// A passthrough detection returns an undecorated copy.
func (d *Detection) Overlay() (*image.NRGBA, error) {
	thickness := max(2, min(d.Source.Bounds().Dx(), d.Source.Bounds().Dy())/200)

	ov := imaging.Overlay{Thickness: thickness, ShowCoordinates: true}
	switch d.Method {
	case MethodPerspective:
		ov.ColorHex = QuadOverlayColor
		for _, p := range d.Corners.Points() {
			ov.Points = append(ov.Points, image.Pt(int(p.X), int(p.Y)))
		}
	case MethodFallback:
		r := *d.CropBounds
		ov.ColorHex = FallbackOverlayColor
		ov.Points = []image.Point{
			r.Min,
			{X: r.Max.X - 1, Y: r.Min.Y},
			{X: r.Max.X - 1, Y: r.Max.Y - 1},
			{X: r.Min.X, Y: r.Max.Y - 1},
		}
	}

	return imaging.DrawOverlay(d.Source, ov)
}
