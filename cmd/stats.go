package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathjudge/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show verification statistics from the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		stats, err := s.EventRepo().Stats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if stats.Total == 0 {
			fmt.Println("No verifications recorded yet.")
			return nil
		}

		fmt.Printf("Verifications: %d (%d correct, %.1f%%)\n",
			stats.Total, stats.Correct, 100*float64(stats.Correct)/float64(stats.Total))

		fmt.Println()
		fmt.Println("By method")
		fmt.Println(strings.Repeat("─", 32))
		methods := make([]string, 0, len(stats.ByMethod))
		for m := range stats.ByMethod {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, m := range methods {
			fmt.Printf("%-16s  %6d\n", m, stats.ByMethod[m])
		}

		if stats.OracleCalls > 0 {
			fmt.Println()
			fmt.Printf("Oracle calls: %d (%d failed)\n", stats.OracleCalls, stats.OracleFails)
		}

		recent, err := s.EventRepo().Recent(ctx, 10)
		if err != nil {
			return fmt.Errorf("query recent: %w", err)
		}
		if len(recent) > 0 {
			fmt.Println()
			fmt.Println("Recent")
			fmt.Println(strings.Repeat("─", 64))
			for _, e := range recent {
				ok := "✓"
				if !e.Correct {
					ok = "✗"
				}
				fmt.Printf("%-19s  %-9s  %-12s  %-7d  %s\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.QuestionType, e.Method, e.LatencyMs, ok)
			}
		}

		return nil
	},
}
