package profile

import (
	"strings"
	"testing"
)

func TestDetectOverclaims(t *testing.T) {
	t.Parallel()

	p := &Profile{
		Skills: map[string]SkillInfo{
			"Docker":     {Confidence: 0.5},
			"Kubernetes": {Confidence: 0.9, DepthEstimate: "Expert", Evidence: []string{"cluster"}},
			"Rust":       {Confidence: 0.6, DepthEstimate: "Advanced", Evidence: []string{"cli"}},
			"Go":         {Confidence: 0.3},
		},
		Projects: []string{"cluster"},
	}

	flags := DetectOverclaims(p)

	expect := []string{
		"Skill 'Go' listed without concrete project evidence.",
		"Skill 'Rust' claims advanced depth but evidence strength is low.",
	}

	if strings.Join(flags, "|") != strings.Join(expect, "|") {
		t.Fatalf("expected %v, got %v", expect, flags)
	}
}

func TestDetectOverclaimsBuzzwordDensity(t *testing.T) {
	t.Parallel()

	skills := map[string]SkillInfo{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		skills[name] = SkillInfo{Confidence: 0.9, Evidence: []string{"x"}}
	}

	flags := DetectOverclaims(&Profile{Skills: skills})
	if len(flags) != 1 || !strings.Contains(flags[0], "buzzword") {
		t.Fatalf("expected buzzword flag for 7 skills and no projects, got %v", flags)
	}

	flags = DetectOverclaims(&Profile{Skills: skills, Projects: []string{"p1", "p2"}})
	if len(flags) != 0 {
		t.Fatalf("expected no flags with two projects, got %v", flags)
	}
}
