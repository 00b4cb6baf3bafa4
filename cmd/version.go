// Package cmd implements the command-line interface for librarium.
package cmd

import (
	"os"
	"runtime"

	"github.com/librarium-app/librarium/color"
	"github.com/librarium-app/librarium/constant"
	"github.com/librarium-app/librarium/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Display only the version string without metadata")
}

// versionCmd displays application version and build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		cmd.Printf("%s %s\n", style.Bold(constant.Librarium), style.Fg(color.Purple)("v"+constant.Version))
		cmd.Printf("%s %s/%s\n", style.Faint("platform"), runtime.GOOS, runtime.GOARCH)
	},
}
