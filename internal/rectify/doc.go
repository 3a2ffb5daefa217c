// Package rectify removes perspective distortion from a quadrilateral image
// region.
//
// Given the four corners of a document photographed at an angle, Rectify
// produces an upright rectangular image of just the document. The mapping is
// a projective transform (homography) solved from the four corner
// correspondences; every destination pixel is mapped back into the source
// and sampled bilinearly.
//
// # Corner Order
//
// Corners are always handled in the canonical order TopLeft, TopRight,
// BottomRight, BottomLeft. OrderCorners derives that order from an
// arbitrary quadrilateral using coordinate sums and differences, so any
// rotation of the input vertex list yields the same result.
//
// # Output Size
//
// The destination is as wide as the longer of the top and bottom edges and
// as tall as the longer of the left and right edges, truncated to whole
// pixels. No aspect correction is attempted beyond that.
package rectify
