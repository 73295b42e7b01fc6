package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalog-go/internal/catalog"
)

// queryConfirmer answers the delete prompt with the request's ?confirm=true.
type queryConfirmer struct {
	accept bool
	prompt string
}

func newQueryConfirmer(c *gin.Context) *queryConfirmer {
	return &queryConfirmer{accept: c.Query("confirm") == "true"}
}

func (q *queryConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	q.prompt = prompt
	return q.accept, nil
}

// respondDelete reports a declined confirmation with its prompt so the
// client can ask and retry with ?confirm=true.
func (q *queryConfirmer) respondDelete(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrConfirmationDeclined) {
		err = fmt.Errorf("%s: %w", q.prompt, err)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func indexParam(c *gin.Context, name string) (int, error) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil || i < 0 {
		return 0, fmt.Errorf("index %q: %w", c.Param(name), errBadRequest)
	}
	return i, nil
}

func directionQuery(c *gin.Context) (int, error) {
	d, err := strconv.Atoi(c.Query("direction"))
	if err != nil || (d != -1 && d != 1) {
		return 0, fmt.Errorf("direction %q must be -1 or 1: %w", c.Query("direction"), errBadRequest)
	}
	return d, nil
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return false
	}
	return true
}

type moveResponse struct {
	Moved bool `json:"moved"`
}

func (s *Server) createTopic(c *gin.Context) {
	topic, err := s.deps.Editor.CreateTopic(c.Request.Context(), session(c).Editor())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// updateTopic replaces the topic's fields. Lessons are kept when the body
// leaves them out.
func (s *Server) updateTopic(c *gin.Context) {
	var topic catalog.Topic
	if !bindJSON(c, &topic) {
		return
	}
	topic.ID = c.Param("id")
	if topic.Lessons == nil {
		if current, ok := s.deps.Catalog.Tree().Topic(topic.ID); ok {
			topic.Lessons = current.Lessons
		}
	}
	if _, err := s.deps.Editor.UpdateTopic(c.Request.Context(), topic); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, topic)
}

func (s *Server) deleteTopic(c *gin.Context) {
	q := newQueryConfirmer(c)
	q.respondDelete(c, s.deps.Editor.DeleteTopic(c.Request.Context(), q, c.Param("id")))
}

func (s *Server) moveTopic(c *gin.Context) {
	index, err := indexParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	dir, err := directionQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	moved, err := s.deps.Editor.MoveTopic(c.Request.Context(), index, dir)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, moveResponse{Moved: moved})
}

func (s *Server) createLesson(c *gin.Context) {
	lesson, err := s.deps.Editor.CreateLesson(c.Request.Context(), session(c).Editor(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// updateLesson replaces the lesson's fields. Parts are kept when the body
// leaves them out.
func (s *Server) updateLesson(c *gin.Context) {
	var lesson catalog.Lesson
	if !bindJSON(c, &lesson) {
		return
	}
	topicID := c.Param("id")
	lesson.ID = c.Param("lessonId")
	if lesson.Parts == nil {
		if current, ok := s.deps.Catalog.Tree().Lesson(topicID, lesson.ID); ok {
			lesson.Parts = current.Parts
		}
	}
	if _, err := s.deps.Editor.UpdateLesson(c.Request.Context(), topicID, lesson); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, lesson)
}

func (s *Server) deleteLesson(c *gin.Context) {
	q := newQueryConfirmer(c)
	q.respondDelete(c, s.deps.Editor.DeleteLesson(c.Request.Context(), q, c.Param("id"), c.Param("lessonId")))
}

func (s *Server) moveLesson(c *gin.Context) {
	index, err := indexParam(c, "lessonId")
	if err != nil {
		respondError(c, err)
		return
	}
	dir, err := directionQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	moved, err := s.deps.Editor.MoveLesson(c.Request.Context(), c.Param("id"), index, dir)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, moveResponse{Moved: moved})
}

func (s *Server) createPart(c *gin.Context) {
	part, err := s.deps.Editor.CreatePart(c.Request.Context(), session(c).Editor(), c.Param("id"), c.Param("lessonId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (s *Server) updatePart(c *gin.Context) {
	var part catalog.Part
	if !bindJSON(c, &part) {
		return
	}
	part.ID = c.Param("partId")
	if _, err := s.deps.Editor.UpdatePart(c.Request.Context(), c.Param("id"), c.Param("lessonId"), part); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, part)
}

func (s *Server) deletePart(c *gin.Context) {
	q := newQueryConfirmer(c)
	q.respondDelete(c, s.deps.Editor.DeletePart(c.Request.Context(), q, c.Param("id"), c.Param("lessonId"), c.Param("partId")))
}

func (s *Server) movePart(c *gin.Context) {
	index, err := indexParam(c, "partId")
	if err != nil {
		respondError(c, err)
		return
	}
	dir, err := directionQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	moved, err := s.deps.Editor.MovePart(c.Request.Context(), c.Param("id"), c.Param("lessonId"), index, dir)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, moveResponse{Moved: moved})
}

// adminTree returns the tree in display order at every level.
func (s *Server) adminTree(c *gin.Context) {
	t := s.deps.Catalog.Tree()
	out := catalog.Tree(t.SortedTopics())
	for i := range out {
		out[i].Lessons = out[i].SortedLessons()
		for j := range out[i].Lessons {
			out[i].Lessons[j].Parts = out[i].Lessons[j].SortedParts()
		}
	}
	respondOK(c, out.Normalize())
}

func (s *Server) adminStats(c *gin.Context) {
	ctx := c.Request.Context()
	st := s.deps.Catalog.Analytics().Load(ctx)
	respondOK(c, catalog.BuildDashboard(s.deps.Catalog.Tree(), st))
}

type iconsResponse struct {
	Names    []string                            `json:"names"`
	Defaults map[catalog.ItemClass]*catalog.Icon `json:"defaults"`
}

func (s *Server) listIcons(c *gin.Context) {
	respondOK(c, iconsResponse{
		Names: catalog.IconNames(),
		Defaults: map[catalog.ItemClass]*catalog.Icon{
			catalog.ClassTopic:  catalog.DefaultIcon(catalog.ClassTopic),
			catalog.ClassLesson: catalog.DefaultIcon(catalog.ClassLesson),
			catalog.ClassPart:   catalog.DefaultIcon(catalog.ClassPart),
		},
	})
}

func (s *Server) uploadIcon(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, fmt.Errorf("file: %w", errBadRequest))
		return
	}
	if fh.Size > catalog.MaxImageSize {
		respondError(c, fmt.Errorf("%d bytes: %w", fh.Size, catalog.ErrImageTooLarge))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer f.Close()

	data := make([]byte, fh.Size)
	if _, err := io.ReadFull(f, data); err != nil {
		respondError(c, fmt.Errorf("reading upload: %w", err))
		return
	}
	icon, err := catalog.NewImageIcon(data)
	if err != nil {
		s.deps.Logger.Warn("icon upload rejected", "name", fh.Filename, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, icon)
}
