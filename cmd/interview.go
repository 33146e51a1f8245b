package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/ares/internal/interview"
	"github.com/spigell/ares/internal/logger"
	"github.com/spigell/ares/internal/profile"
	"github.com/spigell/ares/internal/report"
	"github.com/spigell/ares/internal/sessions"
	"go.uber.org/zap"
)

const promptAutoSkill = "Lowest confidence skill"

var errExit = errors.New("exit requested")

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive interview in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().StringP("skill", "s", "", "skill to interview on")
	interviewCmd.Flags().StringP("level", "l", "", "starting level (Beginner, Intermediate, Advanced)")
	interviewCmd.Flags().StringP("profile", "p", "", "resume profile file (yaml or json) to pick the skill from")
	interviewCmd.Flags().Bool("pick", false, "choose the skill from the profile interactively")
	interviewCmd.Flags().Bool("rescore", false, "recompute profile confidences from evidence before picking")
	interviewCmd.Flags().StringP("report", "r", "", "write the final report to this json file")
}

func runInterview(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config, err := getConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting the ares interview", zap.String("version", version))

	service, err := newService(ctx, config, log, nil)
	if err != nil {
		log.Fatal("preparing the interview", zap.Error(err))
	}

	skill, depth, riskFlags, err := chooseSkill(cmd, log)
	if err != nil {
		if errors.Is(err, errExit) {
			return
		}
		log.Fatal("choosing a skill", zap.Error(err))
	}

	sessionLog := logger.ForSession(log, sessions.NewID(), skill)

	session, err := service.Start(ctx, skill, depth, sessionLog)
	if err != nil {
		log.Fatal("starting the interview", zap.Error(err))
	}

	if err := answerLoop(ctx, session, sessionLog); err != nil && !errors.Is(err, errExit) {
		log.Fatal("interview failed", zap.Error(err))
	}

	summary := session.Summary()
	logSummary(sessionLog, summary)

	if path := cmd.Flag("report").Value.String(); path != "" {
		if err := report.Save(path, report.New(session.Snapshot(), summary, riskFlags)); err != nil {
			log.Fatal("saving the report", zap.Error(err))
		}
		log.Info("report saved", zap.String("filename", path))
	}
}

// chooseSkill resolves the interview skill and starting depth from the flags, the
// profile, or an interactive prompt.
func chooseSkill(cmd *cobra.Command, log *zap.Logger) (string, interview.Depth, []string, error) {
	skill := strings.TrimSpace(cmd.Flag("skill").Value.String())
	level := strings.TrimSpace(cmd.Flag("level").Value.String())
	profilePath := cmd.Flag("profile").Value.String()

	if profilePath == "" {
		if skill == "" {
			input := promptui.Prompt{Label: "Skill to interview on"}
			answer, err := input.Run()
			if err != nil {
				return "", "", nil, promptErr(err)
			}
			skill = strings.TrimSpace(answer)
		}
		return skill, interview.NormalizeLevel(level), nil, nil
	}

	p, err := profile.Load(profilePath)
	if err != nil {
		return "", "", nil, err
	}

	if cmd.Flag("rescore").Value.String() == "true" {
		profile.Rescore(p)
	} else {
		p.RiskFlags = append(p.RiskFlags, profile.DetectOverclaims(p)...)
	}

	for _, flag := range p.RiskFlags {
		log.Warn("resume red flag", zap.String("flag", flag))
	}

	if skill == "" {
		skill, err = pickSkill(p, cmd.Flag("pick").Value.String() == "true")
		if err != nil {
			return "", "", nil, err
		}
	}

	depth := interview.NormalizeLevel(level)
	if level == "" {
		depth = p.StartDepth(skill)
	}

	info := p.Skills[skill]
	log.Info("interviewing on skill",
		zap.String("skill", skill),
		zap.Float64("confidence", info.Confidence),
		zap.String("depth_estimate", info.DepthEstimate),
		zap.Int("evidence", len(info.Evidence)),
	)

	return skill, depth, p.RiskFlags, nil
}

func pickSkill(p *profile.Profile, interactive bool) (string, error) {
	if !interactive {
		return profile.SelectSkill(p)
	}

	names := p.SkillNames()
	sort.SliceStable(names, func(i, j int) bool {
		return p.Skills[names[i]].Confidence < p.Skills[names[j]].Confidence
	})

	items := make([]string, 0, len(names)+1)
	items = append(items, promptAutoSkill)
	for _, name := range names {
		items = append(items, fmt.Sprintf("%s (confidence %.2f)", name, p.Skills[name].Confidence))
	}

	selectPrompt := promptui.Select{
		Label: "Choose a skill and press ENTER",
		Items: items,
	}

	idx, _, err := selectPrompt.Run()
	if err != nil {
		return "", promptErr(err)
	}

	if idx == 0 {
		return profile.SelectSkill(p)
	}
	return names[idx-1], nil
}

func answerLoop(ctx context.Context, session *interview.Session, log *zap.Logger) error {
	for !session.Complete() {
		snapshot := session.Snapshot()
		log.Info("question",
			zap.Int("turn", len(snapshot.History)+1),
			zap.String("depth", snapshot.Depth.String()),
			zap.String("question", snapshot.Question),
		)

		input := promptui.Prompt{Label: "Answer"}
		answer, err := input.Run()
		if err != nil {
			return promptErr(err)
		}

		result, err := session.Submit(ctx, answer)
		if err != nil {
			if ctx.Err() != nil {
				return errExit
			}
			log.Error("the answer could not be processed, please try again", zap.Error(err))
			continue
		}

		if !result.Accepted {
			continue
		}

		logFeedback(log, result)
	}

	return nil
}

func logFeedback(log *zap.Logger, result *interview.TurnResult) {
	ev := result.Turn.Evaluation

	fields := []zap.Field{
		zap.String("verdict", string(ev.Quality)),
		zap.String("feedback", ev.Feedback),
		zap.Float64("correctness", ev.Scores.Correctness),
		zap.Float64("depth_score", ev.Scores.Depth),
		zap.Float64("clarity", ev.Scores.Clarity),
	}

	if ev.Concepts.Tracked() {
		total := len(ev.Concepts.Mentioned) + len(ev.Concepts.Missing)
		fields = append(fields, zap.String("concept_coverage", fmt.Sprintf("%d/%d", len(ev.Concepts.Mentioned), total)))
		if len(ev.Concepts.Missing) > 0 {
			fields = append(fields, zap.Strings("missing_concepts", ev.Concepts.Missing))
		}
	}

	if !result.Complete {
		fields = append(fields, zap.String("next_depth", result.Depth.String()))
	}

	log.Info("interviewer verdict", fields...)
}

func logSummary(log *zap.Logger, summary interview.Summary) {
	verdicts := make([]string, 0, len(summary.Verdicts))
	for q, n := range summary.Verdicts {
		verdicts = append(verdicts, fmt.Sprintf("%s=%d", q, n))
	}
	sort.Strings(verdicts)

	log.Info("interview summary",
		zap.Int("questions", summary.Turns),
		zap.String("final_depth", summary.FinalDepth.String()),
		zap.Strings("verdicts", verdicts),
		zap.Any("missing_concepts", summary.MissingConcepts),
		zap.String("end_reason", summary.EndReason),
		zap.String("recommendation", string(summary.Recommendation)),
	)
}

func promptErr(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return errExit
	}
	return err
}
