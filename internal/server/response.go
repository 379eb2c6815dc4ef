package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizwise/internal/auth"
	"github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/session"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/store"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
}

// apiError pairs an error with the HTTP status and code it maps to.
type apiError struct {
	Status int
	Code   string
	Err    error
}

func (e *apiError) Error() string { return e.Err.Error() }

func (e *apiError) Unwrap() error { return e.Err }

func badRequest(err error) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Err: err}
}

// toAPIError maps a domain error to its HTTP representation.
func toAPIError(err error) *apiError {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var (
		genErr   *quizgen.GenerationError
		evalErr  *quizgen.EvaluationError
		textErr  *chat.TextError
		storeErr *store.PersistenceError
	)
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, shell.ErrUnauthenticated):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, store.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, session.ErrEmptyTopic), errors.Is(err, session.ErrInvalidCount),
		errors.Is(err, session.ErrUnknownOption), errors.Is(err, chat.ErrEmptyMessage):
		status, code = http.StatusBadRequest, "invalid_request"
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrNotAnswered):
		status, code = http.StatusConflict, "invalid_state"
	case errors.Is(err, chat.ErrTurnInProgress):
		status, code = http.StatusConflict, "turn_in_progress"
	case errors.Is(err, session.ErrStaleAttempt), errors.Is(err, context.Canceled):
		status, code = http.StatusConflict, "aborted"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, quizgen.ErrContextTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "context_too_large"
	case errors.Is(err, quizgen.ErrContextType):
		status, code = http.StatusUnsupportedMediaType, "context_type"
	case errors.As(err, &genErr):
		status, code = http.StatusBadGateway, "generation_failed"
	case errors.As(err, &evalErr):
		status, code = http.StatusBadGateway, "evaluation_failed"
	case errors.As(err, &textErr):
		status, code = http.StatusBadGateway, "chat_failed"
	case errors.As(err, &storeErr):
		status, code = http.StatusServiceUnavailable, "persistence_failed"
	}
	return &apiError{Status: status, Code: code, Err: err}
}

func respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	var body errorBody
	body.Error.Message = apiErr.Err.Error()
	body.Error.Code = apiErr.Code
	c.AbortWithStatusJSON(apiErr.Status, body)
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
