package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/receipt-crop/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("%s version %s\n", version.Name, version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
