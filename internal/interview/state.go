package interview

import "time"

// Turn is one question, answer and evaluation triple.
type Turn struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Depth      Depth      `json:"depth"`
	Evaluation Evaluation `json:"evaluation"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// State is the mutable record of a single interview session.
// It is owned by one Session and is not safe for concurrent use on its own.
type State struct {
	skill   string
	depth   Depth
	turn    int
	history []Turn
	asked   map[string]struct{}
	now     func() time.Time
}

// NewState creates an empty state for skill starting at depth.
// An invalid depth is normalized to the bottom of the scale.
func NewState(skill string, depth Depth) *State {
	if !depth.Valid() {
		depth = NormalizeLevel(string(depth))
	}

	return &State{
		skill: skill,
		depth: depth,
		asked: make(map[string]struct{}),
		now:   time.Now,
	}
}

// Record appends a turn and marks question as asked. Callers record each submitted
// answer exactly once.
func (s *State) Record(question, answer string, evaluation Evaluation) Turn {
	t := Turn{
		Question:   question,
		Answer:     answer,
		Depth:      s.depth,
		Evaluation: evaluation,
		RecordedAt: s.now(),
	}

	s.history = append(s.history, t)
	s.asked[question] = struct{}{}
	s.turn++

	return t
}

func (s *State) Skill() string { return s.skill }

func (s *State) Depth() Depth { return s.depth }

// SetDepth updates the current depth. Values outside the scale are normalized.
func (s *State) SetDepth(d Depth) {
	if !d.Valid() {
		d = NormalizeLevel(string(d))
	}
	s.depth = d
}

// Turns returns the number of recorded turns.
func (s *State) Turns() int { return s.turn }

// History returns a copy of the recorded turns in chronological order.
func (s *State) History() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Asked returns a copy of the asked question set.
func (s *State) Asked() map[string]struct{} {
	out := make(map[string]struct{}, len(s.asked))
	for q := range s.asked {
		out[q] = struct{}{}
	}
	return out
}

// WasAsked reports whether question has been recorded before.
func (s *State) WasAsked(question string) bool {
	_, ok := s.asked[question]
	return ok
}
