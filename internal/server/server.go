// Package server exposes the quiz, chat and account flows as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/abhisek/quizwise/internal/auth"
	"github.com/abhisek/quizwise/internal/config"
	"github.com/abhisek/quizwise/internal/logger"
	"github.com/abhisek/quizwise/internal/shell"
)

var errMissingToken = errors.New("missing or invalid token")

// sessionIdle is how long an unused browser session is kept in memory.
const sessionIdle = 24 * time.Hour

// Deps are the collaborators of a Server.
type Deps struct {
	Shell        *shell.Shell
	Auth         *auth.Service
	Config       config.ServerConfig
	CookieSecret string
	Log          *logger.Logger
}

// Server is the HTTP API.
type Server struct {
	shell    *shell.Shell
	auth     *auth.Service
	cfg      config.ServerConfig
	cookies  sessions.Store
	browsers *registry
	log      *logger.Logger
	engine   *gin.Engine
}

// New builds the server and its routes.
func New(d Deps) *Server {
	s := &Server{
		shell:    d.Shell,
		auth:     d.Auth,
		cfg:      d.Config,
		cookies:  newCookieStore(d.CookieSecret, d.Config.CookieSecure),
		browsers: newRegistry(sessionIdle),
		log:      logger.OrNop(d.Log).With("component", "http"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.log))
	if mw := corsMiddleware(s.cfg.AllowedOrigins); mw != nil {
		r.Use(mw)
	}

	r.GET("/healthz", func(c *gin.Context) {
		respondOK(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(optionalAuth(s.auth))
	{
		api.POST("/auth/signup", s.signup)
		api.POST("/auth/login", s.login)
		api.GET("/auth/me", requireAuth(), s.me)

		api.POST("/context", s.uploadContext)
		api.POST("/evaluate", s.evaluate)
	}

	browser := api.Group("")
	browser.Use(browserSession(s.cookies, s.log))
	{
		browser.GET("/quiz", s.getQuiz)
		browser.POST("/quiz", s.startQuiz)
		browser.POST("/quiz/answer", s.answer)
		browser.POST("/quiz/next", s.next)
		browser.DELETE("/quiz", s.abortQuiz)

		browser.GET("/chat", s.getChat)
		browser.POST("/chat", s.sendChat)
	}

	account := api.Group("")
	account.Use(requireAuth())
	{
		account.GET("/topics", s.listTopics)
		account.PATCH("/topics/:id/favourite", s.setFavourite)
		account.POST("/topics/:id/select", s.selectTopic)
		account.GET("/results", s.listResults)
		account.GET("/sidebar", s.sidebar)
	}
	return r
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func userID(c *gin.Context) string {
	return c.GetString(keyUser)
}

func (s *Server) browser(c *gin.Context) *browserState {
	return s.browsers.get(c.GetString(keyBrowser))
}
