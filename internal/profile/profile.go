package profile

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spigell/ares/internal/interview"
	"gopkg.in/yaml.v3"
)

// ErrNoSkills is returned when a profile lists no skills to interview on.
var ErrNoSkills = errors.New("profile has no skills")

// SkillInfo is what a resume says about one skill.
type SkillInfo struct {
	Confidence    float64  `yaml:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	DepthEstimate string   `yaml:"depth_estimate" json:"depth_estimate"`
	Evidence      []string `yaml:"evidence" json:"evidence"`
}

// Profile is a candidate resume reduced to skills and projects.
type Profile struct {
	Skills    map[string]SkillInfo `yaml:"skills" json:"skills" validate:"dive"`
	Projects  []string             `yaml:"projects" json:"projects"`
	RiskFlags []string             `yaml:"risk_flags" json:"risk_flags"`
}

// Load reads a profile from a YAML or JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML or JSON profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the field constraints of a profile that did not come through
// Parse, such as one decoded from a request body.
func (p *Profile) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return fmt.Errorf("validating profile: %w", err)
	}
	return nil
}

// SkillNames returns the skills in alphabetical order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for name := range p.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StartDepth maps the resume depth estimate of skill onto the interview scale.
func (p *Profile) StartDepth(skill string) interview.Depth {
	return interview.NormalizeLevel(p.Skills[skill].DepthEstimate)
}

const probeBelow = 0.7

// SelectSkill picks the skill to interview on: the least confident one below
// 0.7, or the least confident overall. Ties are broken by name.
func SelectSkill(p *Profile) (string, error) {
	if p == nil || len(p.Skills) == 0 {
		return "", ErrNoSkills
	}

	names := p.SkillNames()
	sort.SliceStable(names, func(i, j int) bool {
		return p.Skills[names[i]].Confidence < p.Skills[names[j]].Confidence
	})

	for _, name := range names {
		if p.Skills[name].Confidence < probeBelow {
			return name, nil
		}
	}

	return names[0], nil
}

var depthScores = map[string]float64{
	"beginner":     0.4,
	"intermediate": 0.6,
	"advanced":     0.8,
	"expert":       0.9,
}

// ComputeConfidence scores how well a resume backs a skill from the amount of
// evidence, the share of projects it appears in and the claimed depth.
func ComputeConfidence(info SkillInfo, totalProjects int) float64 {
	evidence := len(info.Evidence)

	var evidenceScore float64
	switch {
	case evidence == 0:
		evidenceScore = 0.2
	case evidence == 1:
		evidenceScore = 0.5
	default:
		evidenceScore = 0.8
	}

	coverage := math.Min(float64(evidence)/float64(max(totalProjects, 1)), 1)

	depthScore, ok := depthScores[strings.ToLower(strings.TrimSpace(info.DepthEstimate))]
	if !ok {
		depthScore = 0.4
	}

	confidence := 0.4*evidenceScore + 0.3*coverage + 0.3*depthScore
	return math.Round(confidence*100) / 100
}

// Rescore replaces every skill confidence with ComputeConfidence and appends the
// overclaim findings to the risk flags.
func Rescore(p *Profile) {
	for name, info := range p.Skills {
		info.Confidence = ComputeConfidence(info, len(p.Projects))
		p.Skills[name] = info
	}
	p.RiskFlags = append(p.RiskFlags, DetectOverclaims(p)...)
}
