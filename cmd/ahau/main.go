package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	rootCmd = &cobra.Command{
		Use:          "ahau",
		Short:        "Multi-tenant workspace API",
		Long:         "ahau serves the tenant directory, membership and content API.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		serveCmd,
		migrateCmd,
		tokenCmd,
	)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version
}

func main() {
	// serve is the default command
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{serveCmd.Use})
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
