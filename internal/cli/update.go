package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"expertbook/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update expertbook to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Homebrew installs are symlinks into the Cellar
		if executable, err := os.Executable(); err == nil {
			if resolved, err := filepath.EvalSymlinks(executable); err == nil && strings.Contains(resolved, "/Cellar/") {
				cmd.Println("expertbook is installed via Homebrew.")
				cmd.Println("Please run 'brew upgrade expertbook' instead.")
				return nil
			}
		}

		return updater.Update(cmd.Context())
	},
}
