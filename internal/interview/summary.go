package interview

import "strings"

// Recommendation is the hiring heuristic shown at the end of an interview.
type Recommendation string

const (
	RecommendStrongYes        Recommendation = "Strong Yes"
	RecommendBorderline       Recommendation = "Borderline"
	RecommendNeedsImprovement Recommendation = "Needs Improvement"
)

// Summary is the aggregated view of an interview history.
type Summary struct {
	Skill             string          `json:"skill"`
	Turns             int             `json:"turns"`
	FinalDepth        Depth           `json:"final_depth"`
	Verdicts          map[Quality]int `json:"verdicts"`
	MentionedConcepts map[string]int  `json:"mentioned_concepts"`
	MissingConcepts   map[string]int  `json:"missing_concepts"`
	AverageScores     Scores          `json:"average_scores"`
	Recommendation    Recommendation  `json:"recommendation"`
	Complete          bool            `json:"complete"`
	EndReason         string          `json:"end_reason,omitempty"`
}

// Summarize tallies verdicts and concepts over history and applies the fixed
// recommendation thresholds: two or more strong answers, exactly one, or none.
func Summarize(skill string, history []Turn) Summary {
	summary := Summary{
		Skill:             skill,
		Turns:             len(history),
		Verdicts:          make(map[Quality]int),
		MentionedConcepts: make(map[string]int),
		MissingConcepts:   make(map[string]int),
	}

	strong := 0
	var totals Scores

	for _, t := range history {
		ev := t.Evaluation
		summary.Verdicts[ev.Quality]++

		if strings.EqualFold(string(ev.Quality), string(QualityStrong)) {
			strong++
		}

		totals.Correctness += ev.Scores.Correctness
		totals.Depth += ev.Scores.Depth
		totals.Clarity += ev.Scores.Clarity

		if ev.Concepts == nil {
			continue
		}
		for _, c := range ev.Concepts.Mentioned {
			summary.MentionedConcepts[c]++
		}
		for _, c := range ev.Concepts.Missing {
			summary.MissingConcepts[c]++
		}
	}

	if n := float64(len(history)); n > 0 {
		summary.AverageScores = Scores{
			Correctness: totals.Correctness / n,
			Depth:       totals.Depth / n,
			Clarity:     totals.Clarity / n,
		}
	}

	switch {
	case strong >= 2:
		summary.Recommendation = RecommendStrongYes
	case strong == 1:
		summary.Recommendation = RecommendBorderline
	default:
		summary.Recommendation = RecommendNeedsImprovement
	}

	return summary
}
