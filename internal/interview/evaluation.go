package interview

// Quality is the categorical verdict produced by an evaluator for one answer.
type Quality string

const (
	QualityWeak   Quality = "weak"
	QualityOkay   Quality = "okay"
	QualityStrong Quality = "strong"
)

// Valid reports whether q is one of the known verdicts.
func (q Quality) Valid() bool {
	switch q {
	case QualityWeak, QualityOkay, QualityStrong:
		return true
	default:
		return false
	}
}

// Scores are the evaluator sub-scores on a 0..10 scale. They are passed through untouched.
type Scores struct {
	Correctness float64 `json:"correctness" yaml:"correctness"`
	Depth       float64 `json:"depth" yaml:"depth"`
	Clarity     float64 `json:"clarity" yaml:"clarity"`
}

// ConceptCoverage describes which expected concepts of a skill an answer touched.
// Coverage is nil when the skill has no tracked concepts.
type ConceptCoverage struct {
	Coverage  *float64 `json:"coverage" yaml:"coverage"`
	Mentioned []string `json:"mentioned" yaml:"mentioned"`
	Missing   []string `json:"missing" yaml:"missing"`
}

// Tracked reports whether the coverage carries concept data.
func (c *ConceptCoverage) Tracked() bool {
	return c != nil && c.Coverage != nil
}

// Evaluation is the verdict bundle for one answer.
type Evaluation struct {
	Quality  Quality          `json:"quality" yaml:"quality"`
	Scores   Scores           `json:"scores" yaml:"scores"`
	Concepts *ConceptCoverage `json:"concepts,omitempty" yaml:"concepts,omitempty"`
	Feedback string           `json:"feedback" yaml:"feedback"`
}
