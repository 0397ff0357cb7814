package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"expertbook/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "expertbook %s\n", version.Version)
	},
}
