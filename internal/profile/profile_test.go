package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spigell/ares/internal/interview"
)

const sampleProfile = `
skills:
  JavaScript:
    confidence: 0.82
    depth_estimate: Advanced
    evidence: ["Built a SPA", "Node.js API"]
  React.js:
    confidence: 0.55
    depth_estimate: Intermediate
    evidence: ["Dashboard"]
  CSS:
    confidence: 0.45
    depth_estimate: Beginner
    evidence: []
projects: ["SPA", "Dashboard"]
risk_flags: []
`

func TestLoadProfile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(sampleProfile), 0o644); err != nil {
		t.Fatalf("writing profile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("loading profile: %v", err)
	}

	if len(p.Skills) != 3 || len(p.Projects) != 2 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if got := p.StartDepth("CSS"); got != interview.DepthFoundation {
		t.Fatalf("expected beginner to start at foundation, got %q", got)
	}
	if got := p.StartDepth("JavaScript"); got != interview.DepthAdvanced {
		t.Fatalf("expected advanced, got %q", got)
	}
}

func TestParseJSONProfile(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"skills": {"Go": {"confidence": 0.9, "depth_estimate": "Expert", "evidence": ["cli"]}}, "projects": ["cli"]}`))
	if err != nil {
		t.Fatalf("parsing json profile: %v", err)
	}
	if p.Skills["Go"].Confidence != 0.9 {
		t.Fatalf("unexpected skill: %+v", p.Skills["Go"])
	}
	if p.StartDepth("Go") != interview.DepthFoundation {
		t.Fatalf("expert is not on the question scale and must start at foundation")
	}
}

func TestParseRejectsOutOfRangeConfidence(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("skills:\n  Go:\n    confidence: 1.5\n")); err == nil {
		t.Fatal("expected confidence above 1 to be rejected")
	}
}

func TestValidateDecodedProfile(t *testing.T) {
	t.Parallel()

	p := &Profile{Skills: map[string]SkillInfo{
		"Go":  {Confidence: 0.4},
		"CSS": {Confidence: -0.2},
	}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected negative confidence to be rejected")
	}

	p.Skills["CSS"] = SkillInfo{Confidence: 1}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected bounds to be inclusive: %v", err)
	}
}

func TestSelectSkill(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		skills map[string]SkillInfo
		expect string
	}{
		{
			name: "lowest below threshold",
			skills: map[string]SkillInfo{
				"A": {Confidence: 0.9},
				"B": {Confidence: 0.5},
				"C": {Confidence: 0.3},
			},
			expect: "C",
		},
		{
			name: "fallback to lowest overall",
			skills: map[string]SkillInfo{
				"A": {Confidence: 0.95},
				"B": {Confidence: 0.8},
			},
			expect: "B",
		},
		{
			name: "ties broken by name",
			skills: map[string]SkillInfo{
				"Zig": {Confidence: 0.4},
				"Ada": {Confidence: 0.4},
			},
			expect: "Ada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectSkill(&Profile{Skills: tt.skills})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}

	if _, err := SelectSkill(&Profile{}); !errors.Is(err, ErrNoSkills) {
		t.Fatalf("expected ErrNoSkills, got %v", err)
	}
}

func TestComputeConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		info     SkillInfo
		projects int
		expect   float64
	}{
		{name: "no evidence beginner", info: SkillInfo{DepthEstimate: "Beginner"}, projects: 2, expect: 0.2},
		{name: "one of two projects", info: SkillInfo{DepthEstimate: "Intermediate", Evidence: []string{"a"}}, projects: 2, expect: 0.53},
		{name: "full coverage expert", info: SkillInfo{DepthEstimate: "Expert", Evidence: []string{"a", "b"}}, projects: 2, expect: 0.89},
		{name: "no projects", info: SkillInfo{DepthEstimate: "unknown", Evidence: []string{"a", "b"}}, projects: 0, expect: 0.74},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ComputeConfidence(tt.info, tt.projects); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestRescoreAppendsOverclaims(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(sampleProfile))
	if err != nil {
		t.Fatalf("parsing profile: %v", err)
	}

	Rescore(p)

	if got := p.Skills["CSS"].Confidence; got != 0.2 {
		t.Fatalf("expected CSS confidence to be recomputed, got %v", got)
	}

	if len(p.RiskFlags) != 1 || p.RiskFlags[0] != "Skill 'CSS' listed without concrete project evidence." {
		t.Fatalf("unexpected risk flags: %v", p.RiskFlags)
	}
}
