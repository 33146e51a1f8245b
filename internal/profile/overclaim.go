package profile

import (
	"fmt"
	"strings"
)

var toolSkills = map[string]struct{}{
	"git":     {},
	"github":  {},
	"vscode":  {},
	"postman": {},
	"docker":  {},
}

const (
	maxSkillsPerProject = 6
	inflatedConfidence  = 0.65
)

// DetectOverclaims returns red flags for skills listed without evidence, too many
// skills per project and high depth claims backed by weak evidence.
func DetectOverclaims(p *Profile) []string {
	if p == nil {
		return nil
	}

	var flags []string
	names := p.SkillNames()

	for _, name := range names {
		if _, tool := toolSkills[strings.ToLower(name)]; tool {
			continue
		}
		if len(p.Skills[name].Evidence) == 0 {
			flags = append(flags, fmt.Sprintf("Skill '%s' listed without concrete project evidence.", name))
		}
	}

	projects := max(len(p.Projects), 1)
	if float64(len(p.Skills))/float64(projects) > maxSkillsPerProject {
		flags = append(flags, "High number of skills compared to projects, possible buzzword overuse.")
	}

	for _, name := range names {
		info := p.Skills[name]
		depth := strings.ToLower(strings.TrimSpace(info.DepthEstimate))
		if (depth == "advanced" || depth == "expert") && info.Confidence < inflatedConfidence {
			flags = append(flags, fmt.Sprintf("Skill '%s' claims %s depth but evidence strength is low.", name, depth))
		}
	}

	return flags
}
