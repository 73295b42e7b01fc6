package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"catalog-go/internal/catalog"
)

func (s *Server) editorState(c *gin.Context) {
	respondOK(c, session(c).Editor().State())
}

type openRequest struct {
	Class    catalog.ItemClass `json:"class"`
	TopicID  string            `json:"topicId"`
	LessonID string            `json:"lessonId"`
	ID       string            `json:"id"`
}

func (s *Server) editorOpen(c *gin.Context) {
	var req openRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Class.Valid() {
		respondError(c, fmt.Errorf("class %q: %w", req.Class, errBadRequest))
		return
	}
	es := session(c).Editor()
	if err := s.deps.Editor.Open(es, req.Class, req.TopicID, req.LessonID, req.ID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, es.State())
}

// draftRequest carries the edited entity of one open editor.
type draftRequest struct {
	Class  catalog.ItemClass `json:"class"`
	Topic  *catalog.Topic    `json:"topic,omitempty"`
	Lesson *catalog.Lesson   `json:"lesson,omitempty"`
	Part   *catalog.Part     `json:"part,omitempty"`
}

func (s *Server) editorDraft(c *gin.Context) {
	var req draftRequest
	if !bindJSON(c, &req) {
		return
	}
	es := session(c).Editor()
	var err error
	switch {
	case req.Class == catalog.ClassTopic && req.Topic != nil:
		err = es.SetTopic(*req.Topic)
	case req.Class == catalog.ClassLesson && req.Lesson != nil:
		err = es.SetLesson(*req.Lesson)
	case req.Class == catalog.ClassPart && req.Part != nil:
		err = es.SetPart(*req.Part)
	default:
		err = fmt.Errorf("draft for class %q missing: %w", req.Class, errBadRequest)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, es.State())
}

type saveResponse struct {
	Saved catalog.ItemClass `json:"saved"`
	State catalog.EditState `json:"state"`
}

func (s *Server) editorSave(c *gin.Context) {
	es := session(c).Editor()
	class, err := s.deps.Editor.Save(c.Request.Context(), es)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, saveResponse{Saved: class, State: es.State()})
}

type cancelRequest struct {
	Class catalog.ItemClass `json:"class"`
}

// editorCancel closes one editor, or all of them when no class is given.
func (s *Server) editorCancel(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	es := session(c).Editor()
	if req.Class == "" {
		es.Discard()
	} else {
		es.Close(req.Class)
	}
	respondOK(c, es.State())
}

func (s *Server) editorRemovePart(c *gin.Context) {
	q := newQueryConfirmer(c)
	es := session(c).Editor()
	err := s.deps.Editor.RemoveDraftPart(c.Request.Context(), es, q, c.Param("partId"))
	if err != nil {
		q.respondDelete(c, err)
		return
	}
	respondOK(c, es.State())
}
