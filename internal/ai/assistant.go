package ai

import (
	"context"

	"github.com/spigell/ares/internal/interview"
)

// Grader scores a single answer. The returned evaluation carries the verdict,
// scores and feedback; concept coverage is filled in by the caller.
type Grader interface {
	Grade(ctx context.Context, skill, question, answer string) (interview.Evaluation, error)
}

// QuestionWriter composes a fresh interview question for a skill at a depth.
type QuestionWriter interface {
	WriteQuestion(ctx context.Context, skill string, depth interview.Depth, avoid []string) (string, error)
}

// ConceptLister names the core concepts expected from someone who knows a skill.
type ConceptLister interface {
	ListConcepts(ctx context.Context, skill string) ([]string, error)
}
