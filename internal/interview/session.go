package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Collaborator names used for logging and metrics.
const (
	CollaboratorQuestions = "question_source"
	CollaboratorEvaluator = "evaluator"
)

var (
	// ErrSessionComplete is returned when an answer is submitted after the interview ended.
	ErrSessionComplete = errors.New("interview is already complete")
	// ErrEvaluator wraps failures of the answer evaluator.
	ErrEvaluator = errors.New("answer evaluation failed")
	// ErrMalformedEvaluation is returned when the evaluator answers with an unknown verdict.
	ErrMalformedEvaluation = errors.New("malformed evaluation")
	// ErrQuestionSource wraps failures of the question source.
	ErrQuestionSource = errors.New("question generation failed")
)

// QuestionSource produces the next question for a skill at a depth. It should avoid
// anything in asked and may only repeat when nothing unused is left.
type QuestionSource interface {
	Question(ctx context.Context, skill string, depth Depth, asked map[string]struct{}) (string, error)
}

// Evaluator grades a candidate answer.
type Evaluator interface {
	Evaluate(ctx context.Context, skill, question, answer string) (Evaluation, error)
}

// Observer receives session lifecycle events, typically to update metrics.
type Observer interface {
	SessionStarted(skill string, depth Depth)
	TurnRecorded(skill string, turn Turn)
	SessionCompleted(summary Summary)
	CollaboratorCalled(collaborator string, took time.Duration, err error)
}

// Phase is the position of a session in its state machine.
type Phase string

const (
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseEvaluating     Phase = "evaluating"
	PhaseRecorded       Phase = "recorded"
	PhaseComplete       Phase = "complete"
)

// Config holds the tunables of a session.
type Config struct {
	Policy TerminationPolicy
	// Timeout bounds every single collaborator call. Zero disables the bound.
	Timeout time.Duration
}

// Deps aggregates the collaborators of a session.
type Deps struct {
	Questions QuestionSource
	Evaluator Evaluator
	// Logger is used as given; scope it to the session (see logger.ForSession).
	Logger   *zap.Logger
	Observer Observer
}

// TurnResult describes the outcome of one Submit call.
type TurnResult struct {
	// Accepted is false when the answer was blank and nothing happened.
	Accepted bool
	Turn     *Turn
	Decision Decision
	Complete bool
	// Depth is the depth of the question now awaiting an answer.
	Depth    Depth
	Question string
	Phase    Phase
}

// Snapshot is a read-only view of a session for presentation layers.
type Snapshot struct {
	Skill    string   `json:"skill"`
	Depth    Depth    `json:"depth"`
	Phase    Phase    `json:"phase"`
	Question string   `json:"question,omitempty"`
	History  []Turn   `json:"history"`
	Decision Decision `json:"decision"`
}

// Session drives a single interview. Submit calls are serialized so two turns of
// the same session are never evaluated concurrently. Readers never wait on a
// collaborator call: mu is released while the evaluator and question source run.
type Session struct {
	// submitMu serializes Submit. It is held for the whole turn.
	submitMu sync.Mutex
	// mu guards state, phase, current and decision. Only Submit writes, under submitMu.
	mu sync.RWMutex

	state    *State
	policy   TerminationPolicy
	timeout  time.Duration
	deps     Deps
	logger   *zap.Logger
	observer Observer

	phase    Phase
	current  string
	decision Decision
}

// Start creates a session for skill at depth and requests the initial question.
func Start(ctx context.Context, cfg Config, deps Deps, skill string, depth Depth) (*Session, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, errors.New("skill is required")
	}
	if deps.Questions == nil {
		return nil, errors.New("question source is required")
	}
	if deps.Evaluator == nil {
		return nil, errors.New("evaluator is required")
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("termination policy: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	observer := deps.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	s := &Session{
		state:    NewState(skill, depth),
		policy:   cfg.Policy,
		timeout:  cfg.Timeout,
		deps:     deps,
		logger:   logger,
		observer: observer,
		decision: Decision{Reason: ReasonBelowMinimum},
	}

	question, err := s.ask(ctx, s.state.Depth(), s.state.Asked())
	if err != nil {
		return nil, err
	}

	s.current = question
	s.phase = PhaseAwaitingAnswer

	s.observer.SessionStarted(skill, s.state.Depth())
	s.logger.Info("interview started", zap.String("depth", s.state.Depth().String()))

	return s, nil
}

// Submit processes one candidate answer for the current question.
//
// A blank answer is ignored. On collaborator failure nothing is recorded and the
// session keeps waiting for an answer to the same question. The termination rules
// are checked before the depth is advanced; the next question is obtained before
// the turn is committed so a failed turn never leaves partial state behind.
func (s *Session) Submit(ctx context.Context, answer string) (*TurnResult, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	// Submit is the only writer and holds submitMu, so reads below need no mu.
	if s.phase == PhaseComplete {
		return nil, ErrSessionComplete
	}

	if strings.TrimSpace(answer) == "" {
		return &TurnResult{Depth: s.state.Depth(), Question: s.current, Phase: s.phase, Decision: s.decision}, nil
	}

	question := s.current
	depth := s.state.Depth()
	history := s.state.History()
	asked := s.state.Asked()

	s.setPhase(PhaseEvaluating)

	evaluation, err := s.evaluate(ctx, question, answer)
	if err != nil {
		s.setPhase(PhaseAwaitingAnswer)
		return nil, err
	}

	pending := append(history, Turn{Question: question, Answer: answer, Depth: depth, Evaluation: evaluation})
	decision := s.policy.Decide(pending)

	next, nextDepth := "", depth
	if !decision.End {
		nextDepth = NextLevel(depth, evaluation.Quality)
		asked[question] = struct{}{}

		next, err = s.ask(ctx, nextDepth, asked)
		if err != nil {
			s.setPhase(PhaseAwaitingAnswer)
			return nil, err
		}
	}

	s.mu.Lock()
	turn := s.state.Record(question, answer, evaluation)
	s.phase = PhaseRecorded
	s.decision = decision
	s.mu.Unlock()

	s.observer.TurnRecorded(s.state.Skill(), turn)

	s.logger.Info("turn recorded",
		zap.Int("turn", s.state.Turns()),
		zap.String("depth", depth.String()),
		zap.String("verdict", string(evaluation.Quality)),
		zap.String("decision", decision.Reason),
	)

	result := &TurnResult{Accepted: true, Turn: &turn, Decision: decision}

	if decision.End {
		s.mu.Lock()
		s.phase = PhaseComplete
		s.current = ""
		summary := s.summaryLocked()
		s.mu.Unlock()

		s.observer.SessionCompleted(summary)
		s.logger.Info("interview complete",
			zap.String("reason", decision.Reason),
			zap.String("concept", decision.Concept),
			zap.String("recommendation", string(summary.Recommendation)),
		)

		result.Complete = true
		result.Depth = depth
		result.Phase = PhaseComplete
		return result, nil
	}

	s.mu.Lock()
	s.state.SetDepth(nextDepth)
	s.current = next
	s.phase = PhaseAwaitingAnswer
	s.mu.Unlock()

	if nextDepth != depth {
		s.logger.Debug("depth changed", zap.String("from", depth.String()), zap.String("to", nextDepth.String()))
	}

	result.Depth = nextDepth
	result.Question = next
	result.Phase = PhaseAwaitingAnswer
	return result, nil
}

func (s *Session) setPhase(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

// Question returns the question awaiting an answer, or an empty string once complete.
func (s *Session) Question() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Complete reports whether the session reached its terminal phase.
func (s *Session) Complete() bool {
	return s.Phase() == PhaseComplete
}

// Snapshot returns a copy of the externally visible state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Skill:    s.state.Skill(),
		Depth:    s.state.Depth(),
		Phase:    s.phase,
		Question: s.current,
		History:  s.state.History(),
		Decision: s.decision,
	}
}

// Summary aggregates the recorded history. It can be called at any point; the
// terminal view is the one produced after completion.
func (s *Session) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() Summary {
	summary := Summarize(s.state.Skill(), s.state.History())
	summary.FinalDepth = s.state.Depth()
	summary.Complete = s.phase == PhaseComplete
	if summary.Complete {
		summary.EndReason = s.decision.Reason
	}
	return summary
}

func (s *Session) ask(ctx context.Context, depth Depth, asked map[string]struct{}) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	question, err := s.deps.Questions.Question(ctx, s.state.Skill(), depth, asked)
	if err == nil && strings.TrimSpace(question) == "" {
		err = errors.New("empty question")
	}
	s.observer.CollaboratorCalled(CollaboratorQuestions, time.Since(started), err)

	if err != nil {
		s.logger.Warn("question source failed", zap.String("depth", depth.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrQuestionSource, err)
	}

	return strings.TrimSpace(question), nil
}

func (s *Session) evaluate(ctx context.Context, question, answer string) (Evaluation, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	started := time.Now()
	evaluation, err := s.deps.Evaluator.Evaluate(ctx, s.state.Skill(), question, answer)
	if err == nil && !evaluation.Quality.Valid() {
		err = fmt.Errorf("%w: unknown verdict %q", ErrMalformedEvaluation, evaluation.Quality)
	}
	s.observer.CollaboratorCalled(CollaboratorEvaluator, time.Since(started), err)

	if err != nil {
		s.logger.Warn("evaluator failed", zap.Error(err))
		if errors.Is(err, ErrMalformedEvaluation) {
			return Evaluation{}, err
		}
		return Evaluation{}, fmt.Errorf("%w: %w", ErrEvaluator, err)
	}

	return evaluation, nil
}

func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

type nopObserver struct{}

func (nopObserver) SessionStarted(string, Depth) {}
func (nopObserver) TurnRecorded(string, Turn) {}
func (nopObserver) SessionCompleted(Summary) {}
func (nopObserver) CollaboratorCalled(string, time.Duration, error) {}
