package concepts

import (
	"strings"

	"github.com/spigell/ares/internal/interview"
)

// Analyzer checks which expected concepts an answer mentions.
type Analyzer struct {
	inventory *Inventory
}

func NewAnalyzer(inventory *Inventory) *Analyzer {
	return &Analyzer{inventory: inventory}
}

// Analyze reports keyword coverage of answer. A concept is mentioned when its
// lowercase text occurs in the lowercase answer. Skills without a concept list
// yield nil coverage and empty lists.
func (a *Analyzer) Analyze(skill, answer string) interview.ConceptCoverage {
	concepts := a.inventory.Concepts(skill)
	if len(concepts) == 0 {
		return interview.ConceptCoverage{Mentioned: []string{}, Missing: []string{}}
	}

	lower := strings.ToLower(answer)

	mentioned := make([]string, 0, len(concepts))
	missing := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if strings.Contains(lower, strings.ToLower(c)) {
			mentioned = append(mentioned, c)
			continue
		}
		missing = append(missing, c)
	}

	coverage := float64(len(mentioned)) / float64(len(concepts))

	return interview.ConceptCoverage{
		Coverage:  &coverage,
		Mentioned: mentioned,
		Missing:   missing,
	}
}
