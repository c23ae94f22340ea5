// Package cmd provides the command-line interface for rclgo.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rclgo",
	Short: "rclgo CLI tool can perform common tasks related to developing nodes with rclgo.",
	Long: `rclgo CLI tool can perform common tasks related to developing nodes with rclgo. ` +
		`The CLI currently provides an in-process demo runtime (demo) that wires a ` +
		`parameter server and clients over the loopback middleware.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
