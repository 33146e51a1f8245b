package gemini

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"github.com/go-playground/validator/v10"
	"github.com/spigell/ares/internal/interview"
	"go.uber.org/zap"
)

//go:embed prompts/grade.md
var gradePrompt string

type gradePayload struct {
	Correctness *float64 `mapstructure:"correctness" validate:"required,gte=0,lte=10"`
	Depth       *float64 `mapstructure:"depth" validate:"required,gte=0,lte=10"`
	Clarity     *float64 `mapstructure:"clarity" validate:"required,gte=0,lte=10"`
	Verdict     string   `mapstructure:"verdict"`
	Feedback    string   `mapstructure:"feedback"`
}

// Grader asks Gemini to grade one answer.
type Grader struct {
	caller
	validate *validator.Validate
}

func NewGrader(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Grader {
	return &Grader{
		caller:   newCaller(generator, logger, maxLogLength),
		validate: validator.New(),
	}
}

// Grade returns the verdict, scores and feedback for answer. A missing verdict is
// read as weak; a verdict outside weak, okay and strong is rejected.
func (g *Grader) Grade(ctx context.Context, skill, question, answer string) (interview.Evaluation, error) {
	message := fmt.Sprintf("Skill: %s\nQuestion: %s\nCandidate Answer: %s", skill, question, answer)

	var payload gradePayload
	if _, err := g.call(ctx, "grade", gradePrompt, message, &payload); err != nil {
		return interview.Evaluation{}, err
	}

	if err := g.validate.Struct(payload); err != nil {
		return interview.Evaluation{}, fmt.Errorf("%w: %w", interview.ErrMalformedEvaluation, err)
	}

	verdict := interview.Quality(strings.TrimSpace(payload.Verdict))
	if verdict == "" {
		verdict = interview.QualityWeak
	}
	if !verdict.Valid() {
		return interview.Evaluation{}, fmt.Errorf("%w: unknown verdict %q", interview.ErrMalformedEvaluation, verdict)
	}

	return interview.Evaluation{
		Quality: verdict,
		Scores: interview.Scores{
			Correctness: *payload.Correctness,
			Depth:       *payload.Depth,
			Clarity:     *payload.Clarity,
		},
		Feedback: strings.TrimSpace(payload.Feedback),
	}, nil
}
