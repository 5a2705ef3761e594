package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clipmark/internal/clips"
	"clipmark/internal/editsync"
	"clipmark/internal/library"
	"clipmark/internal/logging"
	"clipmark/internal/playback"
	"clipmark/internal/videoid"
)

// Options configures a Server.
type Options struct {
	Library *library.Library
	// Validator checks identifiers before a new session is opened. Nil
	// accepts any non-empty id.
	Validator *videoid.Validator
	// Player is shared by every session; only one surface is attached.
	Player              *playback.Handle
	Debounce            time.Duration
	Clock               editsync.Clock
	SeekAhead           bool
	PlaceholderDuration float64
	Logger              *slog.Logger
}

// Server owns the edit sessions exposed over HTTP.
type Server struct {
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*editsync.Controller
	closed   bool
}

// NewServer constructs a Server. The library is required.
func NewServer(opts Options) (*Server, error) {
	if opts.Library == nil {
		return nil, errors.New("api: library is required")
	}
	if opts.Player == nil {
		opts.Player = playback.NewHandle()
	}
	return &Server{
		opts:     opts,
		logger:   logging.NewComponentLogger(opts.Logger, "api"),
		sessions: make(map[string]*editsync.Controller),
	}, nil
}

// Handler returns the gin router serving every route.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/timecode", handleTimecode)

	videos := r.Group("/api/videos/:id")
	videos.GET("/clips", s.handleListClips)
	videos.POST("/clips", s.handleAddClip)
	videos.DELETE("/clips/:clip", s.handleRemoveClip)
	videos.PATCH("/clips/:clip", s.handleUpdateClip)
	videos.PUT("/selection", s.handleSelect)
	videos.POST("/duration", s.handleDuration)
	videos.POST("/flush", s.handleFlush)
	return r
}

// Session returns the edit session for videoID, opening it on first use.
// create=false reports clips.ErrUnknownVideo instead of creating an entry
// for a video that was never stored.
func (s *Server) Session(ctx context.Context, videoID string, create bool) (*editsync.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, editsync.ErrClosed
	}
	if ctrl, ok := s.sessions[videoID]; ok {
		return ctrl, nil
	}

	if s.opts.Validator != nil {
		res := s.opts.Validator.Validate(ctx, videoID)
		if !res.Valid {
			return nil, fmt.Errorf("%w: %s", errInvalidVideo, res.Error)
		}
		videoID = res.ID
	}
	if !create {
		if _, ok := s.opts.Library.Registry().Metadata(videoID); !ok {
			_, found, err := s.opts.Library.Stored(ctx, videoID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, fmt.Errorf("video %s: %w", videoID, clips.ErrUnknownVideo)
			}
		}
	}

	meta := clips.Metadata{VideoID: videoID, Duration: s.opts.PlaceholderDuration}
	if _, err := s.opts.Library.Open(ctx, videoID, meta); err != nil && !isStorageError(err) {
		return nil, err
	}
	ctrl, err := editsync.New(editsync.Options{
		VideoID:   videoID,
		Library:   s.opts.Library,
		Player:    s.opts.Player,
		Debounce:  s.opts.Debounce,
		Clock:     s.opts.Clock,
		Logger:    s.opts.Logger,
		SeekAhead: s.opts.SeekAhead,
	})
	if err != nil {
		return nil, err
	}
	s.sessions[videoID] = ctrl
	s.logger.Info("edit session opened", logging.String(logging.FieldVideoID, videoID))
	return ctrl, nil
}

// Close flushes and closes every session.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	sessions := s.sessions
	s.mu.Unlock()

	var errs []error
	for _, id := range ids {
		ctrl := sessions[id]
		if err := ctrl.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", id, err))
		}
		_ = ctrl.Close()
	}
	return errors.Join(errs...)
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))

		started := time.Now()
		c.Next()
		s.logger.Debug("request",
			logging.String(logging.FieldRequestID, requestID),
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(started)))
	}
}
