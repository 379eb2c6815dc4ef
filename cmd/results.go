package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizwise/internal/app"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show your most recent quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		user, _ := cmd.Flags().GetString("user")
		results, err := e.store.ResultRepo().ForUser(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No quiz results yet.")
			return nil
		}

		fmt.Printf("%-16s  %-36s  %7s  %5s\n", "Date", "Topic", "Score", "Acc")
		fmt.Println(strings.Repeat("─", 72))

		var score, total int
		for _, r := range results {
			fmt.Printf("%-16s  %-36s  %3d/%-3d  %4.0f%%\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.TopicName, 36),
				r.Score, r.TotalQuestions,
				100*float64(r.Score)/float64(r.TotalQuestions))
			score += r.Score
			total += r.TotalQuestions
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %-36s  %3d/%-3d  %4.0f%%\n",
			"TOTAL", fmt.Sprintf("%d quizzes", len(results)), score, total, 100*float64(score)/float64(total))
		return nil
	},
}

func init() {
	resultsCmd.Flags().String("user", app.LocalUser, "User whose results to show")
}
