package interview

import "fmt"

const (
	DefaultMinQuestions = 2
	DefaultMaxQuestions = 6
)

// Reasons reported by the termination policy.
const (
	ReasonBelowMinimum  = "below_minimum"
	ReasonMaxQuestions  = "max_questions"
	ReasonTwoStrong     = "two_strong"
	ReasonVerdictStable = "verdict_stable"
	ReasonKnowledgeGap  = "knowledge_gap"
	ReasonContinue      = "continue"
)

// Decision is the outcome of evaluating the termination rules on a history.
type Decision struct {
	End    bool   `json:"end"`
	Reason string `json:"reason"`
	// Concept is set when the decision was triggered by a repeatedly missing concept.
	Concept string `json:"concept,omitempty"`
}

// TerminationPolicy decides when to stop asking questions.
type TerminationPolicy struct {
	MinQuestions int `mapstructure:"min-questions" validate:"gte=0"`
	MaxQuestions int `mapstructure:"max-questions" validate:"gte=1"`
}

// DefaultTerminationPolicy returns the policy with a 2 question floor and a 6 question cap.
func DefaultTerminationPolicy() TerminationPolicy {
	return TerminationPolicy{MinQuestions: DefaultMinQuestions, MaxQuestions: DefaultMaxQuestions}
}

// Validate checks that the policy bounds are consistent.
func (p TerminationPolicy) Validate() error {
	if p.MinQuestions < 0 {
		return fmt.Errorf("min questions must not be negative, got %d", p.MinQuestions)
	}
	if p.MaxQuestions < 1 {
		return fmt.Errorf("max questions must be positive, got %d", p.MaxQuestions)
	}
	if p.MinQuestions > p.MaxQuestions {
		return fmt.Errorf("min questions (%d) exceeds max questions (%d)", p.MinQuestions, p.MaxQuestions)
	}
	return nil
}

// ShouldEnd reports whether the interview should stop after the given history.
func (p TerminationPolicy) ShouldEnd(history []Turn) bool {
	return p.Decide(history).End
}

// Decide applies the rules in order; the first rule that matches wins.
//
//  1. fewer turns than the minimum never ends, whatever else holds
//  2. reaching the maximum always ends
//  3. two equal consecutive verdicts end (two strong answers included)
//  4. a concept missing in two or more turns anywhere in the history ends
func (p TerminationPolicy) Decide(history []Turn) Decision {
	n := len(history)

	if n < p.MinQuestions {
		return Decision{Reason: ReasonBelowMinimum}
	}

	if n >= p.MaxQuestions {
		return Decision{End: true, Reason: ReasonMaxQuestions}
	}

	if n >= 2 {
		last, prev := history[n-1].Evaluation.Quality, history[n-2].Evaluation.Quality
		if last == prev {
			if last == QualityStrong {
				return Decision{End: true, Reason: ReasonTwoStrong}
			}
			return Decision{End: true, Reason: ReasonVerdictStable}
		}
	}

	if concept, ok := repeatedMissingConcept(history); ok {
		return Decision{End: true, Reason: ReasonKnowledgeGap, Concept: concept}
	}

	return Decision{Reason: ReasonContinue}
}

// repeatedMissingConcept returns the first concept, in order of appearance, that was
// reported missing in at least two turns.
func repeatedMissingConcept(history []Turn) (string, bool) {
	counts := make(map[string]int)

	for _, t := range history {
		c := t.Evaluation.Concepts
		if c == nil {
			continue
		}

		seen := make(map[string]struct{}, len(c.Missing))
		for _, concept := range c.Missing {
			if _, dup := seen[concept]; dup {
				continue
			}
			seen[concept] = struct{}{}

			counts[concept]++
			if counts[concept] >= 2 {
				return concept, true
			}
		}
	}

	return "", false
}
