package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizwise/internal/app"
	"github.com/abhisek/quizwise/internal/quizgen"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive quiz app",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		contextFile, _ := cmd.Flags().GetString("context-file")
		return runPlay(cmd, topic, contextFile)
	},
}

// runPlay opens the store, builds dependencies, and launches the TUI.
func runPlay(cmd *cobra.Command, topic, contextFile string) error {
	contextText, err := readContextFile(contextFile)
	if err != nil {
		return err
	}

	e, err := setup(cmd, envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	provider, err := e.provider(cmd.Context())
	if err != nil {
		return err
	}
	sh := e.shell(provider)
	defer sh.Close()

	return app.Run(app.Options{
		Shell:   sh,
		User:    app.LocalUser,
		Log:     e.log,
		Topic:   topic,
		Context: contextText,
	})
}

func readContextFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open context file: %w", err)
	}
	defer f.Close()
	return quizgen.ReadContext(f, filepath.Base(path))
}

func init() {
	playCmd.Flags().StringP("topic", "t", "", "Open a quiz with this topic pre-filled")
	playCmd.Flags().String("context-file", "", "Plain-text file to base the questions on")
}
