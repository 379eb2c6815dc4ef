package quizgen

import (
	"fmt"
	"strings"
)

// RecentQuestions returns at most max of the newest entries of history.
func RecentQuestions(history []string, max int) []string {
	if max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	return history
}

// buildDedup formats prior questions for the prompt, respecting the max limit.
// Returns "" if there are no prior questions.
func buildDedup(priorQuestions []string, max int) string {
	priorQuestions = RecentQuestions(priorQuestions, max)
	if len(priorQuestions) == 0 {
		return ""
	}

	var b strings.Builder
	for _, q := range priorQuestions {
		fmt.Fprintf(&b, "- %s\n", q)
	}
	return strings.TrimRight(b.String(), "\n")
}
