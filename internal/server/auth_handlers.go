package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizwise/internal/auth"
	"github.com/abhisek/quizwise/internal/store"
)

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type authView struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func viewUser(u *store.User) userView {
	return userView{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func viewSession(sess *auth.Session) authView {
	return authView{Token: sess.Token, User: viewUser(sess.User)}
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}
	sess, err := s.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, viewSession(sess))
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}
	sess, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, viewSession(sess))
}

func (s *Server) me(c *gin.Context) {
	user, err := s.auth.User(c.Request.Context(), bearerToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, viewUser(user))
}
