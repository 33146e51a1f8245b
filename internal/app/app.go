package app

import (
	"context"
	"errors"
	"strings"

	"github.com/spigell/ares/internal/concepts"
	"github.com/spigell/ares/internal/interview"
	"github.com/spigell/ares/internal/logger"
	"go.uber.org/zap"
)

// Config holds what every started interview shares.
type Config struct {
	Session interview.Config
	// Bootstrap asks for a concept list before interviewing on an unknown skill.
	Bootstrap bool
}

// Deps aggregates the collaborators used to start interviews.
type Deps struct {
	Questions interview.QuestionSource
	Evaluator interview.Evaluator
	Inventory *concepts.Inventory
	Observer  interview.Observer
	Logger    *zap.Logger
}

// Service starts interview sessions with the configured collaborators.
type Service struct {
	cfg  Config
	deps Deps
}

func NewService(cfg Config, deps Deps) (*Service, error) {
	if deps.Questions == nil {
		return nil, errors.New("question source is required")
	}
	if deps.Evaluator == nil {
		return nil, errors.New("evaluator is required")
	}
	if err := cfg.Session.Policy.Validate(); err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Service{cfg: cfg, deps: deps}, nil
}

// Start begins an interview on skill. log, when set, must already be scoped to
// the session (see logger.ForSession); otherwise the service logger is scoped
// to the skill.
func (s *Service) Start(ctx context.Context, skill string, depth interview.Depth, log *zap.Logger) (*interview.Session, error) {
	skill = strings.TrimSpace(skill)
	if log == nil {
		log = logger.ForSession(s.deps.Logger, "", skill)
	}
	s.bootstrap(ctx, skill, log)

	return interview.Start(ctx, s.cfg.Session, interview.Deps{
		Questions: s.deps.Questions,
		Evaluator: s.deps.Evaluator,
		Logger:    log,
		Observer:  s.deps.Observer,
	}, skill, depth)
}

// Inventory returns the concept inventory, which may be nil.
func (s *Service) Inventory() *concepts.Inventory {
	return s.deps.Inventory
}

// bootstrap makes a best effort to learn concepts for an unknown skill. A failure
// only means the interview runs without concept coverage.
func (s *Service) bootstrap(ctx context.Context, skill string, log *zap.Logger) {
	inv := s.deps.Inventory
	if !s.cfg.Bootstrap || inv == nil || skill == "" {
		return
	}
	if inv.Classify(skill) == concepts.Known {
		return
	}

	var cancel context.CancelFunc
	if s.cfg.Session.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Session.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	list, err := inv.Bootstrap(ctx, skill)
	if err != nil {
		log.Warn("concept bootstrap failed, continuing without concept coverage", zap.Error(err))
		return
	}

	log.Debug("concepts available", zap.Strings("concepts", list))
}
