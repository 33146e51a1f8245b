package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spigell/ares/internal/app"
	"github.com/spigell/ares/internal/interview"
	"github.com/spigell/ares/internal/logger"
	"github.com/spigell/ares/internal/metrics"
	"github.com/spigell/ares/internal/profile"
	"github.com/spigell/ares/internal/sessions"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Config controls the HTTP listener.
type Config struct {
	Listen string `mapstructure:"listen" validate:"required"`
	// SessionTTL is how long an idle session is kept.
	SessionTTL time.Duration `mapstructure:"session-ttl" validate:"gte=0"`
}

// Deps aggregates what the HTTP API serves.
type Deps struct {
	Service *app.Service
	Store   *sessions.Store
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// Server exposes interview sessions over HTTP.
type Server struct {
	cfg     Config
	service *app.Service
	store   *sessions.Store
	metrics *metrics.Recorder
	logger  *zap.Logger
	router  *gin.Engine
}

func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Service == nil {
		return nil, errors.New("interview service is required")
	}
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		service: deps.Service,
		store:   deps.Store,
		metrics: deps.Metrics,
		logger:  deps.Logger,
	}
	s.router = s.routes()

	return s, nil
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())
	if s.metrics != nil {
		router.Use(s.metrics.Middleware())
		router.GET("/metrics", s.metrics.Handler())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.store.Count()})
	})

	api := router.Group("/sessions")
	api.POST("", s.createSession)
	api.GET("/:id", s.getSession)
	api.DELETE("/:id", s.deleteSession)
	api.POST("/:id/answers", s.submitAnswer)
	api.GET("/:id/summary", s.getSummary)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully. Expired
// sessions are swept in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepEvery := s.cfg.SessionTTL / 2
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	go s.store.Run(ctx, sweepEvery, func(removed int) {
		if removed > 0 {
			s.logger.Info("expired sessions removed", zap.Int("count", removed))
		}
	})

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", zap.String("listen", s.cfg.Listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http api")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}

	return nil
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

type createSessionRequest struct {
	Skill   string           `json:"skill"`
	Level   string           `json:"level"`
	Profile *profile.Profile `json:"profile"`
}

type sessionResponse struct {
	ID string `json:"id"`
	interview.Snapshot
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerResponse struct {
	Accepted bool               `json:"accepted"`
	Turn     *interview.Turn    `json:"turn,omitempty"`
	Decision interview.Decision `json:"decision"`
	Complete bool               `json:"complete"`
	Depth    interview.Depth    `json:"depth"`
	Question string             `json:"question,omitempty"`
	Phase    interview.Phase    `json:"phase"`
	Summary  *interview.Summary `json:"summary,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	skill, depth := strings.TrimSpace(req.Skill), interview.NormalizeLevel(req.Level)
	if req.Profile != nil {
		if err := req.Profile.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}
	if skill == "" && req.Profile != nil {
		selected, err := profile.SelectSkill(req.Profile)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		skill = selected
		if req.Level == "" {
			depth = req.Profile.StartDepth(selected)
		}
	}
	if skill == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "skill or profile is required"})
		return
	}

	id, session, err := s.start(c.Request.Context(), skill, depth)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{ID: id, Snapshot: session.Snapshot()})
}

// start registers the session before asking its first question so the log
// fields carry the final id.
func (s *Server) start(ctx context.Context, skill string, depth interview.Depth) (string, *interview.Session, error) {
	id := sessions.NewID()
	log := logger.ForSession(s.logger, id, skill)

	session, err := s.service.Start(ctx, skill, depth, log)
	if err != nil {
		return "", nil, err
	}

	s.store.Put(id, session)
	return id, session, nil
}

func (s *Server) getSession(c *gin.Context) {
	session, ok := s.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sessionResponse{ID: c.Param("id"), Snapshot: session.Snapshot()})
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) submitAnswer(c *gin.Context) {
	session, ok := s.lookup(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	result, err := session.Submit(c.Request.Context(), req.Answer)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := answerResponse{
		Accepted: result.Accepted,
		Turn:     result.Turn,
		Decision: result.Decision,
		Complete: result.Complete,
		Depth:    result.Depth,
		Question: result.Question,
		Phase:    result.Phase,
	}
	if result.Complete {
		summary := session.Summary()
		resp.Summary = &summary
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) getSummary(c *gin.Context) {
	session, ok := s.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, session.Summary())
}

func (s *Server) lookup(c *gin.Context) (*interview.Session, bool) {
	session, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return session, true
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrSessionComplete):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, interview.ErrEvaluator),
		errors.Is(err, interview.ErrQuestionSource),
		errors.Is(err, interview.ErrMalformedEvaluation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
