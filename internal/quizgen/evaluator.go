package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/quizwise/internal/llm"
)

const evaluatorPrompt = `You are an expert quiz evaluator. You will be given a question, the user's answer, and the correct answer.
Your task is to determine if the user's answer is correct or not, and provide feedback explaining why.

First, determine if the user's answer is the same as the correct answer. Set isCorrect to true if they are the same, and false if they are not.
Then, provide detailed feedback. If the answer is correct, congratulate the user and add more information about the topic. If the answer is incorrect, explain why the correct answer is correct and where the user went wrong.`

// EvaluateAnswer asks the model to grade input. Media references are
// mentioned in the prompt and echoed back on the verdict.
func (g *LLMGenerator) EvaluateAnswer(ctx context.Context, input EvaluateInput) (*Evaluation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluate)

	req := llm.Request{
		System: evaluatorPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvaluationMessage(input)},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   1024,
		Temperature: 0.2,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &EvaluationError{Err: fmt.Errorf("LLM evaluation failed: %w", err)}
	}

	var out Evaluation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &EvaluationError{Err: fmt.Errorf("failed to parse LLM response: %w", err)}
	}
	if strings.TrimSpace(out.Feedback) == "" {
		return nil, &EvaluationError{Err: fmt.Errorf("feedback is empty")}
	}

	out.Image = input.Image
	out.Video = input.Video
	return &out, nil
}

func buildEvaluationMessage(input EvaluateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The quiz is on the topic: %s\n\n", input.Topic)
	fmt.Fprintf(&b, "Question: %s\n", input.Question)
	fmt.Fprintf(&b, "User's Answer: %s\n", input.Answer)
	fmt.Fprintf(&b, "Correct Answer: %s\n", input.CorrectAnswer)
	if input.Image != "" {
		fmt.Fprintf(&b, "\nAn image is associated with the question: %s\n", mediaRef(input.Image))
	}
	if input.Video != "" {
		fmt.Fprintf(&b, "\nA video is associated with the question: %s\n", mediaRef(input.Video))
	}
	return b.String()
}

// mediaRef shortens inline data URIs to their header so the prompt stays
// small.
func mediaRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		if i := strings.IndexByte(ref, ','); i > 0 {
			return ref[:i] + ",..."
		}
	}
	return ref
}
