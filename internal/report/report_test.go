package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/ares/internal/interview"
)

func TestSaveWritesReadableReport(t *testing.T) {
	t.Parallel()

	history := []interview.Turn{
		{Question: "q1", Answer: "a1", Depth: interview.DepthFoundation, Evaluation: interview.Evaluation{Quality: interview.QualityStrong}},
		{Question: "q2", Answer: "a2", Depth: interview.DepthIntermediate, Evaluation: interview.Evaluation{Quality: interview.QualityStrong}},
	}
	snapshot := interview.Snapshot{
		Skill:    "Go",
		History:  history,
		Decision: interview.Decision{End: true, Reason: interview.ReasonTwoStrong},
	}

	r := New(snapshot, interview.Summarize("Go", history), []string{"Skill 'Go' listed without concrete project evidence."})

	path := filepath.Join(t.TempDir(), "reports", "go.json")
	if err := Save(path, r); err != nil {
		t.Fatalf("saving report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decoding report: %v", err)
	}

	if got.Summary.Recommendation != interview.RecommendStrongYes {
		t.Fatalf("unexpected recommendation %q", got.Summary.Recommendation)
	}
	if len(got.History) != 2 || got.History[1].Question != "q2" {
		t.Fatalf("unexpected history %+v", got.History)
	}
	if got.Decision.Reason != interview.ReasonTwoStrong {
		t.Fatalf("unexpected decision %+v", got.Decision)
	}
	if len(got.RiskFlags) != 1 {
		t.Fatalf("expected risk flags to be exported")
	}
}
