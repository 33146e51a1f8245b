package interview

import (
	"fmt"
	"testing"
)

func TestStateRecordIsAppendOnly(t *testing.T) {
	t.Parallel()

	state := NewState("Go", DepthFoundation)

	questions := []string{"q1", "q2", "q1", "q3"}
	for i, q := range questions {
		state.Record(q, fmt.Sprintf("answer %d", i), Evaluation{Quality: QualityOkay})
	}

	first := state.History()[0]

	history := state.History()
	if len(history) != len(questions) {
		t.Fatalf("expected %d turns, got %d", len(questions), len(history))
	}

	if state.Turns() != len(questions) {
		t.Fatalf("expected turn counter %d, got %d", len(questions), state.Turns())
	}

	if got := len(state.Asked()); got != 3 {
		t.Fatalf("expected 3 unique asked questions, got %d", got)
	}

	for i, q := range questions {
		if history[i].Question != q {
			t.Fatalf("turn %d out of order: %q", i, history[i].Question)
		}
	}

	state.Record("q4", "late", Evaluation{Quality: QualityStrong})

	if again := state.History()[0]; again.Question != first.Question || again.Answer != first.Answer {
		t.Fatalf("prior turn was mutated: %+v", again)
	}
}

func TestStateHistoryIsACopy(t *testing.T) {
	t.Parallel()

	state := NewState("Go", DepthIntermediate)
	state.Record("q1", "a1", Evaluation{Quality: QualityWeak})

	history := state.History()
	history[0].Question = "changed"

	asked := state.Asked()
	delete(asked, "q1")

	if state.History()[0].Question != "q1" {
		t.Fatalf("history copy leaked into state")
	}
	if !state.WasAsked("q1") {
		t.Fatalf("asked copy leaked into state")
	}
}

func TestStateDepthIsAlwaysOnScale(t *testing.T) {
	t.Parallel()

	state := NewState("Go", "Expert")
	if state.Depth() != DepthFoundation {
		t.Fatalf("expected invalid start depth to normalize, got %q", state.Depth())
	}

	state.SetDepth(DepthAdvanced)
	if state.Depth() != DepthAdvanced {
		t.Fatalf("expected advanced, got %q", state.Depth())
	}

	state.SetDepth("Intermediate")
	if state.Depth() != DepthIntermediate {
		t.Fatalf("expected label to be normalized, got %q", state.Depth())
	}

	turn := state.Record("q", "a", Evaluation{Quality: QualityOkay})
	if turn.Depth != DepthIntermediate {
		t.Fatalf("expected turn to carry the depth it was asked at, got %q", turn.Depth)
	}
}
