package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizwise/internal/media"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the tutor one question about a topic",
	Long: "Ask the tutor one question. The reply is printed; a generated image and " +
		"spoken audio, when produced, are written to the output directory.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		if strings.TrimSpace(topic) == "" {
			return fmt.Errorf("--topic is required")
		}
		noAudio, _ := cmd.Flags().GetBool("no-audio")
		outDir, _ := cmd.Flags().GetString("out")

		e, err := setup(cmd, envOptions{})
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

		msg, err := sh.NewChat(topic).Send(cmd.Context(), strings.Join(args, " "), !noAudio)
		if err != nil {
			return err
		}

		fmt.Println(msg.Content)
		for _, w := range msg.Warnings {
			fmt.Println("warning:", w)
		}

		base := "quizwise-" + time.Now().Format("20060102-150405")
		for _, uri := range []string{msg.Image, msg.Audio} {
			if uri == "" {
				continue
			}
			path, err := media.SaveDataURI(outDir, base, uri)
			if err != nil {
				return fmt.Errorf("save attachment: %w", err)
			}
			fmt.Println("saved", path)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringP("topic", "t", "", "Topic the question is about")
	askCmd.Flags().Bool("no-audio", false, "Skip the spoken reply")
	askCmd.Flags().StringP("out", "o", ".", "Directory for image and audio files")
}
