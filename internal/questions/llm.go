package questions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spigell/ares/internal/ai"
	"github.com/spigell/ares/internal/interview"
	"go.uber.org/zap"
)

// ErrRepeated is returned when a writer proposes a question that was already asked.
var ErrRepeated = errors.New("question was already asked")

// LLM asks a question writer for each new question.
type LLM struct {
	writer ai.QuestionWriter
}

func NewLLM(writer ai.QuestionWriter) *LLM {
	return &LLM{writer: writer}
}

func (l *LLM) Question(ctx context.Context, skill string, depth interview.Depth, asked map[string]struct{}) (string, error) {
	avoid := make([]string, 0, len(asked))
	for q := range asked {
		avoid = append(avoid, q)
	}
	sort.Strings(avoid)

	question, err := l.writer.WriteQuestion(ctx, skill, depth, avoid)
	if err != nil {
		return "", err
	}

	question = strings.TrimSpace(question)
	if _, ok := asked[question]; ok {
		return "", fmt.Errorf("%w: %q", ErrRepeated, question)
	}

	return question, nil
}

// Fallback tries Primary and turns to Secondary when it fails. Context
// cancellation is never masked.
type Fallback struct {
	Primary   interview.QuestionSource
	Secondary interview.QuestionSource
	Logger    *zap.Logger
}

func (f *Fallback) Question(ctx context.Context, skill string, depth interview.Depth, asked map[string]struct{}) (string, error) {
	question, err := f.Primary.Question(ctx, skill, depth, asked)
	if err == nil {
		return question, nil
	}

	if ctx.Err() != nil {
		return "", err
	}

	if f.Logger != nil {
		f.Logger.Warn("primary question source failed, using fallback",
			zap.String("skill", skill),
			zap.String("depth", depth.String()),
			zap.Error(err),
		)
	}

	return f.Secondary.Question(ctx, skill, depth, asked)
}
