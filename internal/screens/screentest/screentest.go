// Package screentest provides fixtures shared by the screen tests.
package screentest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/store"
)

// Generator returns Count questions whose correct answer is always "A".
// Block, when non-nil, holds every call until closed or cancelled.
type Generator struct {
	mu     sync.Mutex
	Inputs []quizgen.GenerateInput
	Err    error
	Block  chan struct{}
}

func (g *Generator) GenerateQuestions(ctx context.Context, in quizgen.GenerateInput) ([]quizgen.Question, error) {
	g.mu.Lock()
	g.Inputs = append(g.Inputs, in)
	block, err := g.Block, g.Err
	g.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	qs := make([]quizgen.Question, in.Count)
	for i := range qs {
		qs[i] = quizgen.Question{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Explanation:   "A is right.",
		}
	}
	return qs, nil
}

// Calls returns the number of generation requests.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Inputs)
}

// Responder answers every chat turn with a fixed reply.
type Responder struct {
	Reply *chat.Reply
	Err   error
}

func (r *Responder) Respond(_ context.Context, req chat.Request) (*chat.Reply, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Reply != nil {
		return r.Reply, nil
	}
	return &chat.Reply{Response: "About " + req.Topic + ": " + req.Query}, nil
}

var dbCounter atomic.Int64

// Store opens a private in-memory store closed at test cleanup.
func Store(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// Shell builds a shell over a fresh store with the given collaborators.
// A nil responder answers with a canned reply.
func Shell(t *testing.T, gen quizgen.Generator, responder chat.Responder) (*shell.Shell, *store.Store) {
	t.Helper()
	st := Store(t)
	if responder == nil {
		responder = &Responder{}
	}
	sh := shell.New(shell.Deps{
		Generator: gen,
		Responder: responder,
		Topics:    st.TopicRepo(),
		Results:   st.ResultRepo(),
	})
	t.Cleanup(sh.Close)
	return sh, st
}

// KeyPress is a printable key press.
func KeyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// SpecialKey is a non-printable key press such as tea.KeyEnter.
func SpecialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Run executes cmd and returns its messages, expanding batches. It blocks
// for as long as the commands do, ticks included.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
