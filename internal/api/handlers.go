package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"clipmark/internal/clips"
	"clipmark/internal/editsync"
	"clipmark/internal/storage"
	"clipmark/internal/timecode"
)

var (
	errInvalidVideo = errors.New("invalid video id")
	errNotSelected  = errors.New("clip is not selected")
	errBadRequest   = errors.New("bad request")
)

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, clips.ErrNotFound), errors.Is(err, clips.ErrUnknownVideo):
		return http.StatusNotFound
	case errors.Is(err, clips.ErrDuplicateID), errors.Is(err, errNotSelected), errors.Is(err, editsync.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, clips.ErrInvalidBounds), errors.Is(err, clips.ErrImmutableID),
		errors.Is(err, errInvalidVideo), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isStorageError(err error) bool {
	return errors.Is(err, storage.ErrQuotaExceeded) || errors.Is(err, storage.ErrUnavailable)
}

func fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(StatusFor(err), gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Health{Status: "ok", Sessions: s.sessionCount()})
}

func (s *Server) handleListClips(c *gin.Context) {
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	v := FromController(ctrl)
	fromText, toText := c.Query("from"), c.Query("to")
	if fromText == "" && toText == "" {
		c.JSON(http.StatusOK, v)
		return
	}
	from, to, err := parseRange(fromText, toText, v.Duration)
	if err != nil {
		fail(c, err)
		return
	}
	v.Clips = FromClips(ctrl.ClipsInRange(from, to), v.Selected)
	c.JSON(http.StatusOK, v)
}

func (s *Server) handleAddClip(c *gin.Context) {
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		fail(c, err)
		return
	}
	clip, err := ctrl.AddClip(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, FromClip(clip, ctrl.Selected()))
}

func (s *Server) handleRemoveClip(c *gin.Context) {
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctrl.RemoveClip(c.Request.Context(), c.Param("clip")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSelect(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Join(errBadRequest, err))
		return
	}
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctrl.Select(c.Request.Context(), req.ClipID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromController(ctrl))
}

func (s *Server) handleUpdateClip(c *gin.Context) {
	var req boundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Join(errBadRequest, err))
		return
	}
	if req.Start == nil && req.End == nil {
		fail(c, errors.Join(errBadRequest, errors.New("start or end is required")))
		return
	}
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	clipID := c.Param("clip")
	if ctrl.Selected() != clipID {
		fail(c, errNotSelected)
		return
	}
	current, ok := ctrl.Clip(clipID)
	if !ok {
		fail(c, clips.ErrNotFound)
		return
	}
	applied, err := applyBounds(ctrl, current, req)
	if err != nil {
		fail(c, err)
		return
	}
	if !applied {
		fail(c, errNotSelected)
		return
	}
	clip, _ := ctrl.Clip(clipID)
	c.JSON(http.StatusOK, FromClip(clip, ctrl.Selected()))
}

// applyBounds routes a single-bound change through the slider path, which
// infers the moved endpoint. Both bounds are applied one at a time, widening
// first when the new start lies past the current end.
func applyBounds(ctrl *editsync.Controller, current clips.Clip, req boundsRequest) (bool, error) {
	if req.Start == nil || req.End == nil {
		next := editsync.RangeOf(current)
		if req.Start != nil {
			next.Start = *req.Start
		} else {
			next.End = *req.End
		}
		return ctrl.Apply(current.ID, next)
	}
	edits := []struct {
		endpoint editsync.Endpoint
		value    float64
	}{{editsync.Start, *req.Start}, {editsync.End, *req.End}}
	if *req.Start > current.End {
		edits[0], edits[1] = edits[1], edits[0]
	}
	applied := false
	for _, e := range edits {
		ok, err := ctrl.ApplyValue(current.ID, e.endpoint, e.value)
		if err != nil {
			return false, err
		}
		applied = applied || ok
	}
	return applied, nil
}

func (s *Server) handleDuration(c *gin.Context) {
	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Join(errBadRequest, err))
		return
	}
	if req.Duration <= 0 {
		fail(c, errors.Join(errBadRequest, errors.New("duration must be positive")))
		return
	}
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctrl.SetDuration(c.Request.Context(), req.Duration); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromController(ctrl))
}

func (s *Server) handleFlush(c *gin.Context) {
	ctrl, err := s.Session(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		fail(c, err)
		return
	}
	if err := ctrl.Flush(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, FromController(ctrl))
}

func handleTimecode(c *gin.Context) {
	if text, ok := c.GetQuery("text"); ok {
		seconds := timecode.Parse(text)
		c.JSON(http.StatusOK, Timecode{Seconds: seconds, Text: timecode.Format(seconds)})
		return
	}
	raw, ok := c.GetQuery("seconds")
	if !ok {
		fail(c, errors.Join(errBadRequest, errors.New("seconds or text is required")))
		return
	}
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fail(c, errors.Join(errBadRequest, err))
		return
	}
	c.JSON(http.StatusOK, Timecode{Seconds: timecode.RoundMillis(seconds), Text: timecode.Format(seconds)})
}

func parseRange(fromText, toText string, duration float64) (float64, float64, error) {
	from, to := 0.0, duration
	if duration <= 0 {
		to = math.Inf(1)
	}
	if fromText != "" {
		v, err := strconv.ParseFloat(fromText, 64)
		if err != nil {
			return 0, 0, errors.Join(errBadRequest, err)
		}
		from = v
	}
	if toText != "" {
		v, err := strconv.ParseFloat(toText, 64)
		if err != nil {
			return 0, 0, errors.Join(errBadRequest, err)
		}
		to = v
	}
	return from, to, nil
}
