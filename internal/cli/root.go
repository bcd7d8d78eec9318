// Package cli wires the cobra command tree for pgdash.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configFlag is the global --config override.
var configFlag string

// rootCmd is the base command for pgdash.
var rootCmd = &cobra.Command{
	Use:   "pgdash",
	Short: "A live terminal dashboard for PostgreSQL servers",
	Long: `pgdash polls a PostgreSQL server and renders a live terminal dashboard:
connection counts, largest tables, active queries, blocking locks, and
per-second transaction and I/O rates derived from the server's counters.

Connection profiles live in .pgdash.yaml; passwords are resolved from
PGDASH_SECRET_<PROFILE> environment variables at connect time.

Examples:
  pgdash dash
  pgdash dash prod --database appdb
  pgdash profile add prod --host db.example.com --user monitor`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
}

// Execute runs the command tree and prints any failure in the standard
// error format.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
