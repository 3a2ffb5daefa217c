package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server. Requests are read from stdin
and responses written to stdout, one JSON-RPC message per line. Logs go to
stderr.

MCP client configuration:
  {
    "mcpServers": {
      "receipt-crop": {
        "command": "/path/to/receipt-crop",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	// stdout carries the protocol
	logger.SetOutput(cmd.ErrOrStderr())

	_, p, err := loadPipeline()
	if err != nil {
		return err
	}

	logger.Logger.Debug("MCP server starting")
	return server.NewWithIO(p, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
}
