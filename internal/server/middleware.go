package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"catalog-go/internal/catalog"
)

const sessionKey = "catalog.session"

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func requestLogger(log catalog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if s, ok := c.Get(sessionKey); ok {
			fields = append(fields, "session", s.(*catalog.Session).ID)
		}

		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Debug("http request", fields...)
		}
	}
}

// attachSession resolves the session cookie, creating a session when the
// cookie is missing or stale.
func (s *Server) attachSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *catalog.Session
		if id, err := c.Cookie(s.cfg.CookieName); err == nil {
			sess, _ = s.deps.Sessions.Get(id)
		}
		if sess == nil {
			sess = s.deps.Sessions.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(s.cfg.CookieName, sess.ID, 0, "/", "", s.cfg.CookieSecure, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func session(c *gin.Context) *catalog.Session {
	return c.MustGet(sessionKey).(*catalog.Session)
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session(c).IsAdmin() {
			respondError(c, catalog.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
