package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/abhisek/quizwise/internal/auth"
	"github.com/abhisek/quizwise/internal/logger"
)

// gin context keys.
const (
	keyRequestID = "request_id"
	keyUser      = "user_id"
	keyEmail     = "user_email"
	keyBrowser   = "browser_id"
)

const (
	cookieName   = "quizwise"
	cookieMaxAge = 7 * 24 * 60 * 60
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(keyRequestID),
		}
		if user := c.GetString(keyUser); user != "" {
			fields = append(fields, "user_id", user)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// corsMiddleware returns nil when no origins are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// optionalAuth identifies the user from a bearer token. Requests without a
// token continue anonymously; a bad token is rejected.
func optionalAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := svc.Verify(token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(keyUser, claims.Subject)
		c.Set(keyEmail, claims.Email)
		c.Next()
	}
}

func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(keyUser) == "" {
			respondError(c, &apiError{
				Status: http.StatusUnauthorized,
				Code:   "unauthorized",
				Err:    errMissingToken,
			})
			return
		}
		c.Next()
	}
}

// browserSession binds the request to a server-side quiz/chat state through
// a signed cookie, issuing a new id when the cookie is absent or invalid.
func browserSession(cookies sessions.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A tampered or expired cookie yields a fresh session and an error.
		sess, _ := cookies.Get(c.Request, cookieName)
		id, ok := sess.Values["sid"].(string)
		if !ok || id == "" {
			id = uuid.NewString()
			sess.Values["sid"] = id
			if err := sess.Save(c.Request, c.Writer); err != nil {
				log.Warn("failed to save session cookie", "error", err)
			}
		}
		c.Set(keyBrowser, id)
		c.Next()
	}
}

func newCookieStore(secret string, secure bool) *sessions.CookieStore {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return cs
}
