package questions

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	_ "embed"

	"github.com/spigell/ares/internal/interview"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

const skillPlaceholder = "{{skill}}"

// TemplateBank picks questions from a fixed set of templates per depth.
type TemplateBank struct {
	templates map[interview.Depth][]string
	pick      func(n int) int
}

// NewTemplateBank loads the embedded templates.
func NewTemplateBank() (*TemplateBank, error) {
	return ParseTemplateBank(templatesYAML)
}

// ParseTemplateBank builds a bank from a YAML document mapping depth to templates.
// Every depth of the scale must have at least one template.
func ParseTemplateBank(data []byte) (*TemplateBank, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding question templates: %w", err)
	}

	templates := make(map[interview.Depth][]string, len(interview.Scale))
	for label, list := range raw {
		depth := interview.Depth(strings.ToLower(strings.TrimSpace(label)))
		if !depth.Valid() {
			return nil, fmt.Errorf("unknown depth %q in question templates", label)
		}
		for _, tpl := range list {
			if tpl = strings.TrimSpace(tpl); tpl != "" {
				templates[depth] = append(templates[depth], tpl)
			}
		}
	}

	for _, depth := range interview.Scale {
		if len(templates[depth]) == 0 {
			return nil, fmt.Errorf("no question templates for depth %q", depth)
		}
	}

	return &TemplateBank{templates: templates, pick: rand.IntN}, nil
}

// Question renders a random template for depth that is not in asked. When every
// template was already asked any of them may be repeated.
func (b *TemplateBank) Question(_ context.Context, skill string, depth interview.Depth, asked map[string]struct{}) (string, error) {
	candidates := b.templates[interview.NormalizeLevel(string(depth))]

	unused := make([]string, 0, len(candidates))
	for _, tpl := range candidates {
		if _, ok := asked[render(tpl, skill)]; !ok {
			unused = append(unused, tpl)
		}
	}

	if len(unused) == 0 {
		unused = candidates
	}

	return render(unused[b.pick(len(unused))], skill), nil
}

func render(tpl, skill string) string {
	return strings.ReplaceAll(tpl, skillPlaceholder, skill)
}
