package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/pipeline"
)

var cropCmd = &cobra.Command{
	Use:   "crop <image>...",
	Short: "Crop receipts from image files",
	Long: `Process each image and write the cropped receipt to the output
directory as <name>.jpg. Files are processed concurrently. A failed file is
reported and the others still run; the command exits non-zero if any failed.

Examples:
  receipt-crop crop scan1.jpg scan2.png --out cropped/
  receipt-crop crop photos/*.jpg --out cropped/ --workers 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCrop,
}

func init() {
	cropCmd.Flags().StringP("out", "o", ".", "output directory")
	cropCmd.Flags().IntP("workers", "w", 0, "concurrent files (0 = config value)")
	rootCmd.AddCommand(cropCmd)
}

// cropOutcome is the result for one input file.
type cropOutcome struct {
	input  string
	output string
	method pipeline.Method
	err    error
}

func runCrop(cmd *cobra.Command, args []string) error {
	logger.SetOutput(cmd.ErrOrStderr())

	cfg, p, err := loadPipeline()
	if err != nil {
		return err
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("getting out flag: %w", err)
	}
	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return fmt.Errorf("getting workers flag: %w", err)
	}
	if workers < 1 {
		workers = cfg.Workers
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputs := outputPaths(outDir, args)
	outcomes := make([]cropOutcome, len(args))

	ctx := cmd.Context()
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range args {
		i := i
		outcomes[i] = cropOutcome{input: args[i], output: outputs[i]}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].err = err
				return nil
			}
			outcomes[i].method, outcomes[i].err = cropFile(p, outcomes[i].input, outcomes[i].output)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			logger.WithError(o.err).WithField("path", o.input).Warn("Receipt crop failed")
			cmd.Printf("FAIL %s: %v\n", o.input, o.err)
			continue
		}
		cmd.Printf("ok   %s -> %s (%s)\n", o.input, o.output, o.method)
	}

	logger.WithFields(logrus.Fields{
		"files":   len(args),
		"failed":  failed,
		"workers": workers,
	}).Info("Batch finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// cropFile runs one file through p and writes the JPEG to out.
func cropFile(p *pipeline.Pipeline, in, out string) (pipeline.Method, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	result, err := p.Process(data)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(out, result.JPEG, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return result.Report.Method, nil
}

// outputPaths maps each input to <dir>/<name>.jpg. Inputs sharing a base
// name get a numeric suffix so no two outputs collide.
func outputPaths(dir string, inputs []string) []string {
	seen := make(map[string]int, len(inputs))
	paths := make([]string, len(inputs))
	for i, in := range inputs {
		base := filepath.Base(in)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		seen[name]++
		if n := seen[name]; n > 1 {
			name += "-" + strconv.Itoa(n)
		}
		paths[i] = filepath.Join(dir, name+".jpg")
	}
	return paths
}
