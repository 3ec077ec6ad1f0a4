package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/filtering"
	"github.com/spigell/labmatch/internal/labs"
	"github.com/spigell/labmatch/internal/logger"
)

const (
	app = "labmatch"

	defaultReferenceFile = "reference.yaml"
	defaultLabsFile      = "labs.yaml"
	defaultListen        = ":8080"
	defaultTopK          = 5
)

type Config struct {
	ReferenceFile string           `mapstructure:"reference-file"`
	LabsFile      string           `mapstructure:"labs-file"`
	Recommend     *RecommendConfig `mapstructure:"recommend"`
	AI            *AIConfig        `mapstructure:"ai"`
	Server        *ServerConfig    `mapstructure:"server"`
}

type RecommendConfig struct {
	TopK            int      `mapstructure:"top-k"`
	Exclude         []string `mapstructure:"exclude"`
	SkipUnavailable bool     `mapstructure:"skip-unavailable"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxAttempts  int    `mapstructure:"max-attempts"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OpenAIConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	BaseURL      string `mapstructure:"base-url"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "labmatch extracts research lab profiles from documents and ranks collaboration candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "LABMATCH_GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding LABMATCH_GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.openai.api-key-file", "LABMATCH_OPENAI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding LABMATCH_OPENAI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("reference-file", defaultReferenceFile)
	viper.SetDefault("labs-file", defaultLabsFile)
	viper.SetDefault("recommend.top-k", defaultTopK)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("server.listen", defaultListen)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is labmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("reference-file", "", "yaml file with the reference lab profile")
	rootCmd.PersistentFlags().String("labs-file", "", "yaml file with candidate lab profiles")
	rootCmd.PersistentFlags().Bool("skip-unavailable", false, "drop candidates whose availability status is Unavailable")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("reference-file", rootCmd.PersistentFlags().Lookup("reference-file"))
	viper.BindPFlag("labs-file", rootCmd.PersistentFlags().Lookup("labs-file"))
	viper.BindPFlag("recommend.skip-unavailable", rootCmd.PersistentFlags().Lookup("skip-unavailable"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Without an explicit --config a missing file is fine: defaults and flags are enough.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	// We can't proceed if the config file parsed with error.
	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Recommend == nil {
		config.Recommend = &RecommendConfig{TopK: defaultTopK}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.OpenAI == nil {
		config.AI.OpenAI = &OpenAIConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{Listen: defaultListen}
	}

	return config, nil
}

// setup builds the logger and the config shared by every command. Failures are fatal.
func setup() (*zap.Logger, *Config) {
	logger := logger.New(viper.GetBool("json"), viper.GetBool("debug"))

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting",
		zap.String("version", version),
		zap.String("config_file", viper.ConfigFileUsed()),
		zap.String("reference_file", config.ReferenceFile),
		zap.String("labs_file", config.LabsFile),
	)

	return logger, config
}

func newStore(config *Config, logger *zap.Logger) *labs.Store {
	return labs.New(config.ReferenceFile, config.LabsFile, logger)
}

func filterConfig(config *Config) *filtering.Config {
	if config == nil || config.Recommend == nil {
		return &filtering.Config{}
	}
	return &filtering.Config{
		Exclude:         config.Recommend.Exclude,
		SkipUnavailable: config.Recommend.SkipUnavailable,
	}
}
