package imaging

import (
	"bytes"
	"encoding/base64"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

// DefaultJPEGQuality matches the quality most imaging tools write by default.
const DefaultJPEGQuality = 95

// EncodedImage is an image serialized for transport in a JSON response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeJPEG serializes img as a baseline JPEG at the given quality (1-100).
// Out-of-range qualities are clamped by the encoder.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, apperrors.NewInternalError("failed to encode jpeg", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGBase64 serializes img as PNG and wraps it for JSON transport.
func EncodePNGBase64(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, apperrors.NewInternalError("failed to encode png", err)
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// WrapJPEGBase64 wraps already-encoded JPEG bytes for JSON transport.
func WrapJPEGBase64(data []byte, width, height int) *EncodedImage {
	return &EncodedImage{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/jpeg",
	}
}
