// Command sessiond serves cookie-identified sessions over a pluggable cache
// backend and offers token debugging helpers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sessiond",
		Short: "Cookie-identified, cache-backed session server",
		Long: `sessiond keeps per-client session data in a cache (memory, Redis,
PostgreSQL or MongoDB) and identifies clients by a signed cookie.

Configuration is read from the environment and an optional .env file.
See SESSION_*, SERVER_*, REDIS_*, PG_* and MONGODB_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		mintCmd(),
		inspectCmd(),
		versionCmd(),
	)
	return rootCmd
}
