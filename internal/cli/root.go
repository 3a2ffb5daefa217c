// Package cli holds the cobra command tree of the receipt-crop binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ironsheep/receipt-crop/internal/config"
	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/pipeline"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "receipt-crop",
	Short: "Find, straighten and crop receipts in photographs",
	Long: `receipt-crop locates the paper receipt in a photograph, corrects its
perspective and returns it as a 600px wide JPEG.

It runs as an HTTP service (serve), as an MCP server over stdio (mcp), or
directly on files (crop, detect).

Settings come from defaults, then the TOML file given with --config, then
environment variables, then command flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the configuration and applies its log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// loadPipeline is loadConfig followed by building the pipeline.
func loadPipeline() (*config.Config, *pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := pipeline.New(cfg.Pipeline)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}
