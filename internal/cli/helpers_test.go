package cli

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/receipt-crop/internal/logger"
)

// executeCommand runs rootCmd with args and returns what it wrote to
// stdout and stderr.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		logger.SetOutput(os.Stdout)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// writeReceiptPNG writes a white receipt on a black background.
func writeReceiptPNG(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 400, 600))
	receipt := image.Rect(100, 100, 300, 500)
	for y := 0; y < 600; y++ {
		for x := 0; x < 400; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if image.Pt(x, y).In(receipt) {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}
