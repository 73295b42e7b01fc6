package server

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalog-go/internal/catalog"
)

type visitsResponse struct {
	TotalVisits    int64 `json:"totalVisits"`
	UniqueVisitors int64 `json:"uniqueVisitors"`
}

func (s *Server) recordVisit(c *gin.Context) {
	ctx := c.Request.Context()
	a := s.deps.Catalog.Analytics()
	a.RecordVisit(ctx, session(c))
	st := a.Load(ctx)
	respondOK(c, visitsResponse{TotalVisits: st.TotalVisits, UniqueVisitors: st.UniqueVisitors})
}

func (s *Server) view(c *gin.Context) {
	respondOK(c, s.deps.Catalog.View(c.Request.Context(), session(c)))
}

func (s *Server) selectTopic(c *gin.Context) {
	if _, err := s.deps.Catalog.SelectTopic(c.Request.Context(), session(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	s.view(c)
}

func (s *Server) selectLesson(c *gin.Context) {
	if _, err := s.deps.Catalog.SelectLesson(c.Request.Context(), session(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	s.view(c)
}

func (s *Server) openPart(c *gin.Context) {
	part, err := s.deps.Catalog.OpenPart(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"id": part.ID, "startUrl": part.StartURL})
}

func (s *Server) back(c *gin.Context) {
	s.deps.Catalog.Back(session(c))
	s.view(c)
}

func (s *Server) crumb(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondError(c, fmt.Errorf("breadcrumb index %q: %w", c.Param("index"), errBadRequest))
		return
	}
	s.deps.Catalog.Crumb(session(c), index)
	s.view(c)
}

func (s *Server) refresh(c *gin.Context) {
	s.deps.Catalog.Refresh(c.Request.Context())
	s.view(c)
}

type keyRequest struct {
	Key string `json:"key"`
}

type adminStatusResponse struct {
	AdminMode     bool `json:"adminMode"`
	Authenticated bool `json:"authenticated"`
	Opened        bool `json:"opened,omitempty"`
}

func statusOf(sess *catalog.Session) adminStatusResponse {
	return adminStatusResponse{AdminMode: sess.AdminMode(), Authenticated: sess.Authenticated()}
}

func (s *Server) keyPress(c *gin.Context) {
	var req keyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	sess := session(c)
	opened := s.deps.Gate.KeyPress(sess, req.Key, s.deps.Catalog.Clock().Now())
	resp := statusOf(sess)
	resp.Opened = opened
	respondOK(c, resp)
}

type loginRequest struct {
	Password string `json:"password"`
}

// login is only reachable once the hidden trigger opened admin mode.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	sess := session(c)
	if !sess.AdminMode() {
		respondError(c, fmt.Errorf("admin mode not open: %w", catalog.ErrUnauthorized))
		return
	}
	if err := s.deps.Gate.Login(sess, req.Password); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, statusOf(sess))
}

func (s *Server) logout(c *gin.Context) {
	sess := session(c)
	s.deps.Gate.Logout(sess)
	respondOK(c, statusOf(sess))
}

func (s *Server) adminStatus(c *gin.Context) {
	respondOK(c, statusOf(session(c)))
}
