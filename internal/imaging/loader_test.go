package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	data := encodePNG(t, createInMemoryImage(120, 80, color.RGBA{10, 20, 30, 255}))

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Errorf("dimensions: got %dx%d, want 120x80", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createPatternImage(64, 48), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	img, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := Dimensions(img); got.Width != 64 || got.Height != 48 {
		t.Errorf("dimensions: got %+v, want 64x48", got)
	}
}

func TestDecode_Empty(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, apperrors.ErrMissingInput) {
				t.Errorf("got %v, want ErrMissingInput", err)
			}
		})
	}
}

func TestDecode_InvalidImage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("this is not an image")},
		{"truncated png", encodePNG(t, createInMemoryImage(10, 10, color.White))[:20]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, apperrors.ErrInvalidImage) {
				t.Errorf("got %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestDecode_TooManyPixels(t *testing.T) {
	data := encodePNG(t, image.NewGray(image.Rect(0, 0, 40, 30)))

	original := MaxDecodePixels
	MaxDecodePixels = 1000
	defer func() { MaxDecodePixels = original }()

	_, err := Decode(data)
	if !errors.Is(err, apperrors.ErrInvalidImage) {
		t.Fatalf("got %v, want ErrInvalidImage", err)
	}

	MaxDecodePixels = 1200
	if _, err := Decode(data); err != nil {
		t.Errorf("image at the limit should decode, got %v", err)
	}
}

func TestValidateImage(t *testing.T) {
	if err := ValidateImage(nil); !errors.Is(err, apperrors.ErrInvalidImage) {
		t.Errorf("nil image: got %v, want ErrInvalidImage", err)
	}

	zeroWidth := image.NewRGBA(image.Rect(0, 0, 0, 10))
	if err := ValidateImage(zeroWidth); !errors.Is(err, apperrors.ErrInvalidImage) {
		t.Errorf("zero width: got %v, want ErrInvalidImage", err)
	}

	if err := ValidateImage(createInMemoryImage(1, 1, color.Black)); err != nil {
		t.Errorf("1x1 image should be valid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.png")
	if err := os.WriteFile(path, encodePNG(t, createInMemoryImage(30, 60, color.White)), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	img, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 60 {
		t.Errorf("dimensions: got %v, want 30x60", img.Bounds())
	}
}

func TestLoadFile_NonExistent(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("LoadFile should fail for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist in chain", err)
	}
}

func TestLoadFile_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jpg")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFile(path)
	if !errors.Is(err, apperrors.ErrMissingInput) {
		t.Errorf("got %v, want ErrMissingInput", err)
	}
}

func TestNormalize(t *testing.T) {
	src := createPatternImage(40, 30)
	sub := src.SubImage(image.Rect(10, 5, 30, 25))

	n := Normalize(sub)
	if n.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("Expected bounds at origin, got %v", n.Bounds())
	}
	r1, g1, b1, _ := sub.At(10, 5).RGBA()
	r2, g2, b2, _ := n.At(0, 0).RGBA()
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Error("Expected origin pixel to match the sub-image's first pixel")
	}

	if again := Normalize(n); again != n {
		t.Error("Expected an origin-based NRGBA image to be returned unchanged")
	}
}
