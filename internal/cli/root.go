// Package cli implements the powerwalk command line interface. Most
// subcommands are thin clients of the local daemon's REST API; serve and
// seed work against the database directly.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "powerwalk",
	Short: "Walk, earn, fight: the step-powered RPG",
	Long: `PowerWalk turns your daily steps into game progress. A local daemon
tracks the pedometer feed, converts walked steps into coins, and runs the
character, item shop, battle arena, and leaderboard. The CLI talks to the
daemon over its local REST API.

Start the daemon with 'powerwalk serve', then use the other commands to
play.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("addr", "", "daemon address (default from config, e.g. 127.0.0.1:7731)")
	rootCmd.PersistentFlags().String("config", "", "path to config.toml")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
