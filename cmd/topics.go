package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizwise/internal/app"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List and manage saved topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your most recent topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		user, _ := cmd.Flags().GetString("user")
		favOnly, _ := cmd.Flags().GetBool("favourites")

		topics, err := e.store.TopicRepo().ForUser(cmd.Context(), user)
		if err != nil {
			return fmt.Errorf("list topics: %w", err)
		}
		if len(topics) == 0 {
			fmt.Println("No topics yet.")
			return nil
		}

		fmt.Printf("%-3s  %-40s  %9s  %s\n", "", "Topic", "Questions", "Created")
		fmt.Println(strings.Repeat("─", 72))
		for _, t := range topics {
			if favOnly && !t.IsFavourite {
				continue
			}
			star := " "
			if t.IsFavourite {
				star = "★"
			}
			fmt.Printf("%-3s  %-40s  %9d  %s\n",
				star, truncate(t.Name, 40), len(t.Questions), t.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var topicsFavouriteCmd = &cobra.Command{
	Use:   "favourite <topic>",
	Short: "Mark a topic as favourite (use --off to unmark)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		user, _ := cmd.Flags().GetString("user")
		off, _ := cmd.Flags().GetBool("off")
		name := strings.Join(args, " ")

		repo := e.store.TopicRepo()
		t, err := repo.ByName(cmd.Context(), user, name)
		if err != nil {
			return fmt.Errorf("find topic: %w", err)
		}
		if t == nil {
			return fmt.Errorf("no topic named %q", name)
		}
		if err := repo.SetFavourite(cmd.Context(), user, t.ID, !off); err != nil {
			return fmt.Errorf("update topic: %w", err)
		}
		if off {
			fmt.Printf("Removed %q from favourites.\n", t.Name)
		} else {
			fmt.Printf("Added %q to favourites.\n", t.Name)
		}
		return nil
	},
}

func init() {
	topicsCmd.PersistentFlags().String("user", app.LocalUser, "User whose topics to show")
	topicsListCmd.Flags().BoolP("favourites", "f", false, "Only show favourites")
	topicsFavouriteCmd.Flags().Bool("off", false, "Remove from favourites")

	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsFavouriteCmd)
}
