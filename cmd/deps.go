package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/spigell/ares/internal/ai"
	"github.com/spigell/ares/internal/ai/gemini"
	"github.com/spigell/ares/internal/app"
	"github.com/spigell/ares/internal/concepts"
	"github.com/spigell/ares/internal/evaluation"
	"github.com/spigell/ares/internal/interview"
	"github.com/spigell/ares/internal/logger"
	"github.com/spigell/ares/internal/questions"
	"github.com/spigell/ares/internal/secrets"
	"go.uber.org/zap"
)

func newLogger(cfg *Config) (*zap.Logger, error) {
	opts := logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
	}
	if cfg != nil {
		opts.File = cfg.Log.File
	}
	return logger.New(opts)
}

// collaborators is everything built from the ai, questions and concepts sections.
type collaborators struct {
	inventory *concepts.Inventory
	questions interview.QuestionSource
	evaluator interview.Evaluator
}

func newGenerator(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (*gemini.Generator, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, ARES_AI_GEMINI_API_KEY or GEMINI_API_KEY)", err)
	}

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:            apiKey,
		Model:             cfg.Model,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Temperature:       cfg.Temperature,
	}, logger.ForProvider(log, "gemini", cfg.Model))
}

func newCollaborators(ctx context.Context, cfg *Config, log *zap.Logger) (*collaborators, error) {
	var (
		lister ai.ConceptLister
		grader ai.Grader
		writer ai.QuestionWriter
	)

	if cfg.AI.Provider == "gemini" {
		generator, err := newGenerator(ctx, cfg.AI.Gemini, log)
		if err != nil {
			return nil, err
		}

		aiLogger := logger.ForProvider(log, "gemini", generator.Model())
		lister = gemini.NewConceptLister(generator, aiLogger, cfg.AI.Gemini.MaxLogLength)
		grader = gemini.NewGrader(generator, aiLogger, cfg.AI.Gemini.MaxLogLength)
		writer = gemini.NewQuestionWriter(generator, aiLogger, cfg.AI.Gemini.MaxLogLength)
	}

	inventory, err := concepts.NewInventory(concepts.NewStore(cfg.Concepts.DynamicFile), lister, log)
	if err != nil {
		return nil, fmt.Errorf("loading concepts: %w", err)
	}

	analyzer := concepts.NewAnalyzer(inventory)
	if grader == nil {
		log.Info("using offline keyword grader")
		grader = evaluation.NewKeywordGrader(analyzer)
	}

	bank, err := questions.NewTemplateBank()
	if err != nil {
		return nil, err
	}

	var source interview.QuestionSource = bank
	if cfg.Questions.Source == "llm" && writer != nil {
		source = &questions.Fallback{
			Primary:   questions.NewLLM(writer),
			Secondary: bank,
			Logger:    log,
		}
	}

	return &collaborators{
		inventory: inventory,
		questions: source,
		evaluator: evaluation.NewComposite(grader, analyzer),
	}, nil
}

func newService(ctx context.Context, cfg *Config, log *zap.Logger, observer interview.Observer) (*app.Service, error) {
	c, err := newCollaborators(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return app.NewService(
		app.Config{Session: cfg.sessionConfig(), Bootstrap: cfg.Concepts.Bootstrap},
		app.Deps{
			Questions: c.questions,
			Evaluator: c.evaluator,
			Inventory: c.inventory,
			Observer:  observer,
			Logger:    log,
		},
	)
}
