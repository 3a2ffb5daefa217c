// Package detection finds the outline of a document in a binary edge map.
//
// The package works on the output of imaging.BuildEdgeMap and answers one
// question: which foreground region, if any, looks like a receipt?
//
// # Pipeline
//
//  1. Contours: FindExternalContours traces the outer border of every
//     8-connected foreground region. Holes are ignored and regions nested
//     inside another region are absorbed by it.
//  2. Simplification: ApproxPolygon reduces each contour to its dominant
//     vertices with Douglas-Peucker.
//  3. Scoring: Scorer keeps 4-vertex approximations that are large enough
//     and tall enough, and ranks them by area × aspect.
//
// When no contour qualifies, Largest picks the region used for the fallback
// bounding-box crop.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Contour points are pixel centers
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//
// # Limitations
//
// The heuristics assume a light document on a darker background filling a
// reasonable share of the frame. Receipts photographed against a white
// table, or heavily curled, usually fall through to the fallback crop.
package detection
