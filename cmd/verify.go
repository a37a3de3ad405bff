package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathjudge/internal/store"
	"github.com/abhisek/mathjudge/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <userAnswer> <correctAnswer>",
	Short: "Check one answer and print the result as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qtFlag, _ := cmd.Flags().GetString("type")
		integrand, _ := cmd.Flags().GetString("integrand")

		qt := verify.QuestionType(qtFlag)
		if !verify.ValidQuestionType(qt) {
			return fmt.Errorf("unknown question type %q (choice, blank, answer, integral)", qtFlag)
		}

		var repo store.EventRepo
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			s, err := store.Open(p)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()
			repo = s.EventRepo()
		}

		v := verify.New(openOracle(cmd, repo))
		res := v.Verify(cmd.Context(), args[0], args[1], qt, integrand)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	verifyCmd.Flags().StringP("type", "t", "blank", "Question type: choice, blank, answer or integral")
	verifyCmd.Flags().StringP("integrand", "i", "", "Integrand for integral questions")
}
