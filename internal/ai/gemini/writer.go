package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/spigell/ares/internal/interview"
	"github.com/spigell/ares/internal/utils"
	"go.uber.org/zap"
)

var (
	//go:embed prompts/question.md
	questionPrompt string
	//go:embed prompts/concepts.md
	conceptsPrompt string
)

// QuestionWriter asks Gemini for a new question at a given depth.
type QuestionWriter struct {
	caller
}

func NewQuestionWriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *QuestionWriter {
	return &QuestionWriter{caller: newCaller(generator, logger, maxLogLength)}
}

func (w *QuestionWriter) WriteQuestion(ctx context.Context, skill string, depth interview.Depth, avoid []string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Skill: %s\nDepth: %s\n", skill, depth)
	if len(avoid) > 0 {
		b.WriteString("Already asked:\n")
		for _, q := range avoid {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	var payload struct {
		Question string `mapstructure:"question"`
	}
	if _, err := w.call(ctx, "question", questionPrompt, b.String(), &payload); err != nil {
		return "", err
	}

	question := strings.TrimSpace(payload.Question)
	if question == "" {
		return "", errors.New("gemini returned an empty question")
	}

	return question, nil
}

// ConceptLister asks Gemini for the core concepts of a skill.
type ConceptLister struct {
	caller
}

func NewConceptLister(generator contentGenerator, logger *zap.Logger, maxLogLength int) *ConceptLister {
	return &ConceptLister{caller: newCaller(generator, logger, maxLogLength)}
}

func (l *ConceptLister) ListConcepts(ctx context.Context, skill string) ([]string, error) {
	var payload struct {
		Concepts []string `mapstructure:"concepts"`
	}
	if _, err := l.call(ctx, "concepts", conceptsPrompt, "Skill: "+skill, &payload); err != nil {
		return nil, err
	}

	concepts := utils.Dedupe(payload.Concepts)
	if len(concepts) == 0 {
		return nil, fmt.Errorf("gemini returned no concepts for %q", skill)
	}

	return concepts, nil
}
