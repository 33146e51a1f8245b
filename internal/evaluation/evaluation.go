package evaluation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spigell/ares/internal/ai"
	"github.com/spigell/ares/internal/interview"
)

// ConceptAnalyzer measures concept coverage of an answer.
type ConceptAnalyzer interface {
	Analyze(skill, answer string) interview.ConceptCoverage
}

// Composite grades an answer and attaches concept coverage to the result.
type Composite struct {
	grader   ai.Grader
	analyzer ConceptAnalyzer
}

func NewComposite(grader ai.Grader, analyzer ConceptAnalyzer) *Composite {
	return &Composite{grader: grader, analyzer: analyzer}
}

func (c *Composite) Evaluate(ctx context.Context, skill, question, answer string) (interview.Evaluation, error) {
	ev, err := c.grader.Grade(ctx, skill, question, answer)
	if err != nil {
		return interview.Evaluation{}, err
	}

	if c.analyzer != nil {
		coverage := c.analyzer.Analyze(skill, answer)
		ev.Concepts = &coverage
	}

	return ev, nil
}

// KeywordGrader grades answers without a language model. It relies on concept
// coverage when the skill has a concept list and on answer length otherwise.
type KeywordGrader struct {
	analyzer ConceptAnalyzer
}

func NewKeywordGrader(analyzer ConceptAnalyzer) *KeywordGrader {
	return &KeywordGrader{analyzer: analyzer}
}

const (
	strongCoverage = 0.6
	okayCoverage   = 0.3

	strongWords = 50
	okayWords   = 15
)

func (g *KeywordGrader) Grade(ctx context.Context, skill, _, answer string) (interview.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return interview.Evaluation{}, err
	}

	words := len(strings.Fields(answer))
	lengthScore := math.Min(float64(words)/strongWords, 1)

	var coverage interview.ConceptCoverage
	if g.analyzer != nil {
		coverage = g.analyzer.Analyze(skill, answer)
	}

	ev := interview.Evaluation{
		Scores: interview.Scores{
			Depth:   round1(lengthScore * 10),
			Clarity: round1(clarity(answer) * 10),
		},
	}

	if coverage.Tracked() {
		c := *coverage.Coverage
		ev.Scores.Correctness = round1(c * 10)
		switch {
		case c >= strongCoverage && words >= okayWords:
			ev.Quality = interview.QualityStrong
		case c >= okayCoverage:
			ev.Quality = interview.QualityOkay
		default:
			ev.Quality = interview.QualityWeak
		}
		ev.Feedback = coverageFeedback(coverage)
		return ev, nil
	}

	ev.Scores.Correctness = ev.Scores.Depth
	switch {
	case words >= strongWords:
		ev.Quality = interview.QualityStrong
		ev.Feedback = "Detailed answer."
	case words >= okayWords:
		ev.Quality = interview.QualityOkay
		ev.Feedback = "Reasonable answer; add concrete examples to go deeper."
	default:
		ev.Quality = interview.QualityWeak
		ev.Feedback = "The answer is too short to show understanding."
	}

	return ev, nil
}

func coverageFeedback(c interview.ConceptCoverage) string {
	if len(c.Missing) == 0 {
		return "Covers all the expected concepts."
	}
	return fmt.Sprintf("Consider discussing: %s.", strings.Join(c.Missing, ", "))
}

// clarity rewards answers split into sentences of moderate length.
func clarity(answer string) float64 {
	words := len(strings.Fields(answer))
	if words == 0 {
		return 0
	}

	sentences := strings.Count(answer, ".") + strings.Count(answer, "!") + strings.Count(answer, "?")
	if sentences == 0 {
		sentences = 1
	}

	perSentence := float64(words) / float64(sentences)
	if perSentence <= 25 {
		return 1
	}
	return math.Max(25/perSentence, 0.2)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
