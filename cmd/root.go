package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathjudge/internal/oracle"
	"github.com/abhisek/mathjudge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathjudge",
	Short: "Math answer verification engine",
	Long:  "Mathjudge checks student answers against reference answers: exact, numeric, symbolic and AI-assisted integral verification.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite event log (overrides MATHJUDGE_DB env var, empty default disables recording for verify)")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then MATHJUDGE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return store.DefaultDBPath()
}

// openOracle builds the configured oracle provider, or returns nil when
// none is configured. Verification still works without one; integral
// escalation then reports the oracle as unavailable.
func openOracle(cmd *cobra.Command, repo store.EventRepo) oracle.Provider {
	cfg, ok := oracle.DiscoverConfig()
	if !ok {
		return nil
	}
	p, err := oracle.NewProvider(cmd.Context(), cfg, repo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: oracle disabled:", err)
		return nil
	}
	return p
}
