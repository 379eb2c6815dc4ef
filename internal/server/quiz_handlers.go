package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/session"
)

type questionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// quizView is the client's picture of a quiz. The correct answer of the
// displayed question is only revealed once it has been answered.
type quizView struct {
	Phase         string          `json:"phase"`
	Topic         string          `json:"topic,omitempty"`
	Count         int             `json:"count,omitempty"`
	CurrentIndex  int             `json:"currentIndex"`
	Total         int             `json:"totalQuestions"`
	Progress      float64         `json:"progress"`
	Score         int             `json:"score"`
	Question      *questionView   `json:"question,omitempty"`
	Answer        *session.Answer `json:"answer,omitempty"`
	CorrectAnswer string          `json:"correctAnswer,omitempty"`
	Result        *session.Result `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	Notice        string          `json:"notice,omitempty"`
}

func viewQuiz(b *browserState) quizView {
	st := b.quiz
	v := quizView{
		Phase:        st.Phase.String(),
		Topic:        st.Topic,
		Count:        st.Count,
		CurrentIndex: st.Index,
		Total:        len(st.Questions),
		Progress:     session.Progress(st),
		Score:        st.Score,
		Notice:       b.takeNotice(),
	}
	if st.Err != nil {
		v.Error = st.Err.Error()
	}
	if q := st.Current(); q != nil {
		v.Question = &questionView{Question: q.Question, Options: q.Options}
		if ans := st.CurrentAnswer(); ans != nil {
			v.Answer = ans
			v.CorrectAnswer = q.CorrectAnswer
		}
	}
	if st.Phase == session.PhaseFinished {
		v.Result = session.BuildResult(st)
	}
	return v
}

func (s *Server) getQuiz(c *gin.Context) {
	b := s.browser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	respondOK(c, viewQuiz(b))
}

type startRequest struct {
	Topic   string `json:"topic"`
	Count   int    `json:"count"`
	Context string `json:"context"`
}

// startQuiz generates a quiz and responds once it is ready. A DELETE on the
// quiz while this runs cancels the generation.
func (s *Server) startQuiz(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}
	if len(req.Context) > quizgen.MaxContextBytes {
		respondError(c, quizgen.ErrContextTooLarge)
		return
	}

	b := s.browser(c)
	b.mu.Lock()
	if b.quiz.Phase == session.PhaseGenerating {
		b.mu.Unlock()
		respondError(c, &apiError{
			Status: http.StatusConflict,
			Code:   "generation_in_progress",
			Err:    errors.New("a quiz is already being generated"),
		})
		return
	}
	g, err := s.shell.Restart(b.quiz, userID(c), req.Topic, req.Count, req.Context)
	if err != nil {
		b.mu.Unlock()
		respondError(c, err)
		return
	}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	b.cancel = cancel
	b.mu.Unlock()

	questions, genErr := s.shell.Generate(ctx, g)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quiz.Attempt() == g.Attempt {
		b.cancel = nil
	}
	if err := s.shell.Complete(b.quiz, g, questions, genErr); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, viewQuiz(b))
}

type answerRequest struct {
	Option string `json:"option" binding:"required"`
}

func (s *Server) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}

	b := s.browser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := session.Select(b.quiz, req.Option); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, viewQuiz(b))
}

func (s *Server) next(c *gin.Context) {
	b := s.browser(c)
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := s.shell.Advance(b.quiz, func(err error) {
		if err != nil {
			b.setNotice("Your result could not be saved.")
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, viewQuiz(b))
}

func (s *Server) abortQuiz(c *gin.Context) {
	b := s.browser(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	session.Abort(b.quiz)
	respondOK(c, viewQuiz(b))
}

// uploadContext reads a .txt file from the "file" form field.
func (s *Server) uploadContext(c *gin.Context) {
	// Leave room for the multipart framing around the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, quizgen.MaxContextBytes+64<<10)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(c, quizgen.ErrContextTooLarge)
			return
		}
		respondError(c, badRequest(err))
		return
	}
	if fh.Size > quizgen.MaxContextBytes {
		respondError(c, quizgen.ErrContextTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, badRequest(err))
		return
	}
	defer f.Close()

	text, err := quizgen.ReadContext(f, fh.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"name": fh.Filename, "text": text})
}

func (s *Server) evaluate(c *gin.Context) {
	var req quizgen.EvaluateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}
	if req.Question == "" || req.CorrectAnswer == "" {
		respondError(c, badRequest(errors.New("question and correctAnswer are required")))
		return
	}
	eval, err := s.shell.Evaluate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, eval)
}
