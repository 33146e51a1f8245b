package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/ares/internal/interview"
	"github.com/spigell/ares/internal/server"
)

const (
	appName   = "ares"
	envPrefix = "ARES"
)

type Config struct {
	Interview InterviewConfig `mapstructure:"interview"`
	AI        AIConfig        `mapstructure:"ai"`
	Questions QuestionsConfig `mapstructure:"questions"`
	Concepts  ConceptsConfig  `mapstructure:"concepts"`
	Server    server.Config   `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

type InterviewConfig struct {
	interview.TerminationPolicy `mapstructure:",squash"`
	CollaboratorTimeout         time.Duration `mapstructure:"collaborator-timeout" validate:"gte=0"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider" validate:"oneof=gemini offline"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey            string  `mapstructure:"api-key"`
	APIKeyFile        string  `mapstructure:"api-key-file"`
	Model             string  `mapstructure:"model"`
	MaxRetries        int     `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength      int     `mapstructure:"max-log-length" validate:"gte=0"`
	RequestsPerMinute int     `mapstructure:"requests-per-minute" validate:"gte=0"`
	Temperature       float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

type QuestionsConfig struct {
	Source string `mapstructure:"source" validate:"oneof=templates llm"`
}

type ConceptsConfig struct {
	DynamicFile string `mapstructure:"dynamic-file"`
	Bootstrap   bool   `mapstructure:"bootstrap"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "ares runs adaptive technical interviews driven by a candidate resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ares.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging and version output")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	if err := readConfig(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interview.min-questions", interview.DefaultMinQuestions)
	v.SetDefault("interview.max-questions", interview.DefaultMaxQuestions)
	v.SetDefault("interview.collaborator-timeout", 45*time.Second)

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("ai.gemini.requests-per-minute", 0)
	v.SetDefault("ai.gemini.temperature", 0.2)

	v.SetDefault("questions.source", "templates")

	v.SetDefault("concepts.dynamic-file", "dynamic_concepts.yaml")
	v.SetDefault("concepts.bootstrap", true)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.session-ttl", 30*time.Minute)

	v.SetDefault("log.file", "")
}

// readConfig prepares v with defaults, environment overrides and the config file.
// An explicitly given file must exist; the default ares.yaml is optional.
func readConfig(v *viper.Viper, file string) error {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(appName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := config.Interview.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: interview: %w", err)
	}

	if config.Questions.Source == "llm" && config.AI.Provider != "gemini" {
		return nil, errors.New("validating config: questions.source=llm requires ai.provider=gemini")
	}

	return &config, nil
}

func (c *Config) sessionConfig() interview.Config {
	return interview.Config{
		Policy:  c.Interview.TerminationPolicy,
		Timeout: c.Interview.CollaboratorTimeout,
	}
}
