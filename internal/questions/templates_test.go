package questions

import (
	"context"
	"strings"
	"testing"

	"github.com/spigell/ares/internal/interview"
)

func TestTemplateBankAvoidsAskedQuestions(t *testing.T) {
	t.Parallel()

	bank, err := NewTemplateBank()
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}

	asked := map[string]struct{}{}
	seen := map[string]struct{}{}

	for i := 0; i < 3; i++ {
		q, err := bank.Question(context.Background(), "Go", interview.DepthAdvanced, asked)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[q]; dup {
			t.Fatalf("question %q repeated while unused templates remain", q)
		}
		if !strings.Contains(q, "Go") || strings.Contains(q, "{{skill}}") {
			t.Fatalf("placeholder not rendered: %q", q)
		}
		seen[q] = struct{}{}
		asked[q] = struct{}{}
	}

	q, err := bank.Question(context.Background(), "Go", interview.DepthAdvanced, asked)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := seen[q]; !ok {
		t.Fatalf("expected a repeat once the bank is exhausted, got %q", q)
	}
}

func TestTemplateBankUsesDepthTemplates(t *testing.T) {
	t.Parallel()

	bank, err := NewTemplateBank()
	if err != nil {
		t.Fatalf("loading templates: %v", err)
	}
	bank.pick = func(int) int { return 0 }

	tests := []struct {
		depth  interview.Depth
		expect string
	}{
		{depth: interview.DepthFoundation, expect: "Can you explain the core concept of React.js?"},
		{depth: interview.DepthIntermediate, expect: "How have you used React.js in your projects?"},
		{depth: interview.DepthAdvanced, expect: "What are the limitations of React.js?"},
		{depth: "Beginner", expect: "Can you explain the core concept of React.js?"},
	}

	for _, tt := range tests {
		q, err := bank.Question(context.Background(), "React.js", tt.depth, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q != tt.expect {
			t.Fatalf("depth %q: expected %q, got %q", tt.depth, tt.expect, q)
		}
	}
}

func TestParseTemplateBankValidation(t *testing.T) {
	t.Parallel()

	invalid := []string{
		"foundation: [a]\nintermediate: [b]\n",
		"foundation: [a]\nintermediate: [b]\nadvanced: [c]\nexpert: [d]\n",
		"not: [valid",
	}

	for _, doc := range invalid {
		if _, err := ParseTemplateBank([]byte(doc)); err == nil {
			t.Fatalf("expected %q to be rejected", doc)
		}
	}
}
