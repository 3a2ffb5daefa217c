package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ironsheep/receipt-crop/internal/imaging"
	"github.com/ironsheep/receipt-crop/internal/logger"
)

var detectCmd = &cobra.Command{
	Use:   "detect <image>",
	Short: "Print the receipt detection report",
	Long: `Locate the receipt in an image and print the detection report as JSON
without writing an image. The method field is "perspective" when the
receipt outline was found, "fallback" when only its region was, and
"passthrough" when nothing was.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	logger.SetOutput(cmd.ErrOrStderr())

	_, p, err := loadPipeline()
	if err != nil {
		return err
	}

	img, err := imaging.LoadFile(args[0])
	if err != nil {
		return err
	}
	det, err := p.Detect(img)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(det.Report())
}
