package questions

import (
	"context"
	"errors"
	"testing"

	"github.com/spigell/ares/internal/interview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubWriter struct {
	question  string
	err       error
	lastAvoid []string
}

func (s *stubWriter) WriteQuestion(_ context.Context, _ string, _ interview.Depth, avoid []string) (string, error) {
	s.lastAvoid = avoid
	return s.question, s.err
}

func TestLLMPassesAskedQuestionsSorted(t *testing.T) {
	t.Parallel()

	writer := &stubWriter{question: " What is a goroutine? "}
	asked := map[string]struct{}{"b": {}, "a": {}}

	q, err := NewLLM(writer).Question(context.Background(), "Go", interview.DepthFoundation, asked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "What is a goroutine?" {
		t.Fatalf("unexpected question %q", q)
	}
	if len(writer.lastAvoid) != 2 || writer.lastAvoid[0] != "a" || writer.lastAvoid[1] != "b" {
		t.Fatalf("unexpected avoid list %v", writer.lastAvoid)
	}
}

func TestLLMRejectsRepeats(t *testing.T) {
	t.Parallel()

	writer := &stubWriter{question: "a"}
	_, err := NewLLM(writer).Question(context.Background(), "Go", interview.DepthFoundation, map[string]struct{}{"a": {}})
	if !errors.Is(err, ErrRepeated) {
		t.Fatalf("expected repeated error, got %v", err)
	}
}

func TestFallbackUsesSecondaryOnFailure(t *testing.T) {
	t.Parallel()

	bank, err := NewTemplateBank()
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}
	bank.pick = func(int) int { return 0 }

	core, observed := observer.New(zapcore.WarnLevel)
	source := &Fallback{
		Primary:   NewLLM(&stubWriter{err: errors.New("quota")}),
		Secondary: bank,
		Logger:    zap.New(core),
	}

	q, err := source.Question(context.Background(), "CSS", interview.DepthFoundation, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "Can you explain the core concept of CSS?" {
		t.Fatalf("expected template question, got %q", q)
	}
	if observed.FilterMessage("primary question source failed, using fallback").Len() != 1 {
		t.Fatalf("expected fallback warning")
	}
}

func TestFallbackDoesNotMaskCancellation(t *testing.T) {
	t.Parallel()

	bank, err := NewTemplateBank()
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &Fallback{Primary: NewLLM(&stubWriter{err: context.Canceled}), Secondary: bank}
	if _, err := source.Question(ctx, "CSS", interview.DepthFoundation, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
