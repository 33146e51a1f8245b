package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/spigell/ares/internal/interview"
)

func TestQuestionWriterListsAskedQuestions(t *testing.T) {
	stub := &stubGenerator{response: `{"question": "  How does the event loop schedule callbacks?  "}`}

	q, err := NewQuestionWriter(stub, nil, 0).WriteQuestion(context.Background(), "JavaScript", interview.DepthAdvanced, []string{"What is a closure?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q != "How does the event loop schedule callbacks?" {
		t.Fatalf("unexpected question %q", q)
	}

	if !strings.Contains(stub.lastMessage, "Depth: advanced") {
		t.Fatalf("expected depth in prompt: %q", stub.lastMessage)
	}
	if !strings.Contains(stub.lastMessage, "- What is a closure?") {
		t.Fatalf("expected asked questions in prompt: %q", stub.lastMessage)
	}
}

func TestQuestionWriterRejectsEmptyQuestion(t *testing.T) {
	if _, err := NewQuestionWriter(&stubGenerator{response: `{"question": ""}`}, nil, 0).WriteQuestion(context.Background(), "Go", interview.DepthFoundation, nil); err == nil {
		t.Fatal("expected empty question to be rejected")
	}
}

func TestConceptListerDedupes(t *testing.T) {
	stub := &stubGenerator{response: `{"concepts": ["goroutines", "Channels", "channels", " ", "interfaces"]}`}

	concepts, err := NewConceptLister(stub, nil, 0).ListConcepts(context.Background(), "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := []string{"goroutines", "Channels", "interfaces"}
	if strings.Join(concepts, ",") != strings.Join(expect, ",") {
		t.Fatalf("expected %v, got %v", expect, concepts)
	}

	if stub.lastMessage != "Skill: Go" {
		t.Fatalf("unexpected prompt %q", stub.lastMessage)
	}
}

func TestConceptListerRejectsEmptyList(t *testing.T) {
	if _, err := NewConceptLister(&stubGenerator{response: `{"concepts": []}`}, nil, 0).ListConcepts(context.Background(), "Go"); err == nil {
		t.Fatal("expected error for empty concept list")
	}
}
