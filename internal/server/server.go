// Package server exposes the catalog viewer and the admin editor over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catalog-go/internal/catalog"
)

// ShutdownTimeout bounds the graceful shutdown in Run.
const ShutdownTimeout = 5 * time.Second

// Config configures the listener and the session cookie.
type Config struct {
	Addr         string
	AllowOrigins []string
	CookieName   string
	CookieSecure bool
}

// Deps are the core services the handlers call into.
type Deps struct {
	Catalog  *catalog.Catalog
	Editor   *catalog.Editor
	Sessions *catalog.Sessions
	Gate     *catalog.Gate
	Logger   catalog.Logger
}

// Server owns the gin engine and the http.Server around it.
type Server struct {
	cfg    Config
	deps   Deps
	engine *gin.Engine
	srv    *http.Server
}

// New builds the router. Call Run to start listening.
func New(cfg Config, deps Deps) *Server {
	if cfg.CookieName == "" {
		cfg.CookieName = "catalog_session"
	}
	s := &Server{cfg: cfg, deps: deps}
	s.engine = s.router()
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	s.deps.Logger.Info("http server listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.deps.Logger.Warn("http shutdown", "error", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.deps.Logger))
	if len(s.cfg.AllowOrigins) > 0 {
		r.Use(corsMiddleware(s.cfg.AllowOrigins))
	}

	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.Use(s.attachSession())
	{
		api.POST("/visits", s.recordVisit)
		api.GET("/view", s.view)
		api.POST("/topics/:id/select", s.selectTopic)
		api.POST("/lessons/:id/select", s.selectLesson)
		api.POST("/parts/:id/open", s.openPart)
		api.POST("/back", s.back)
		api.POST("/breadcrumb/:index", s.crumb)
		api.POST("/keys", s.keyPress)
		api.POST("/refresh", s.refresh)

		api.POST("/admin/login", s.login)
		api.POST("/admin/logout", s.logout)
		api.GET("/admin/status", s.adminStatus)
	}

	admin := api.Group("/admin")
	admin.Use(requireAdmin())
	{
		admin.GET("/tree", s.adminTree)
		admin.GET("/stats", s.adminStats)
		admin.GET("/icons", s.listIcons)
		admin.POST("/icons/upload", s.uploadIcon)

		// Move routes reuse the id segment as the display index.
		admin.POST("/topics", s.createTopic)
		admin.PUT("/topics/:id", s.updateTopic)
		admin.DELETE("/topics/:id", s.deleteTopic)
		admin.POST("/topics/:id/move", s.moveTopic)

		admin.POST("/topics/:id/lessons", s.createLesson)
		admin.PUT("/topics/:id/lessons/:lessonId", s.updateLesson)
		admin.DELETE("/topics/:id/lessons/:lessonId", s.deleteLesson)
		admin.POST("/topics/:id/lessons/:lessonId/move", s.moveLesson)

		admin.POST("/topics/:id/lessons/:lessonId/parts", s.createPart)
		admin.PUT("/topics/:id/lessons/:lessonId/parts/:partId", s.updatePart)
		admin.DELETE("/topics/:id/lessons/:lessonId/parts/:partId", s.deletePart)
		admin.POST("/topics/:id/lessons/:lessonId/parts/:partId/move", s.movePart)

		admin.GET("/editor", s.editorState)
		admin.POST("/editor/open", s.editorOpen)
		admin.PUT("/editor/draft", s.editorDraft)
		admin.POST("/editor/save", s.editorSave)
		admin.POST("/editor/cancel", s.editorCancel)
		admin.DELETE("/editor/parts/:partId", s.editorRemovePart)
	}
	return r
}
