package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/logger"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "resume-screener"
)

type Config struct {
	Resumes     string            `mapstructure:"resumes"`
	JD          string            `mapstructure:"jd"`
	Skills      string            `mapstructure:"skills"`
	Out         string            `mapstructure:"out"`
	Format      string            `mapstructure:"format"`
	Recognizer  string            `mapstructure:"recognizer"`
	Filters     *filtering.Config `mapstructure:"filters"`
	SkipFilters []string          `mapstructure:"skip-filters"`
	AI          *AIConfig         `mapstructure:"ai"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener ranks resumes against a job description and extracts skills, experience and names",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if rankCmd.CalledAs() == "" && screenCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The default config file is optional; an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}

	return config, nil
}

// flagKeys maps command flags to their config keys when the two differ.
var flagKeys = map[string]string{
	"min-score":       "filters.min-score",
	"min-years":       "filters.min-years",
	"required-skills": "filters.required-skills",
}

// bindFlags binds the local flags of the command being run. Commands share
// flag names, so binding happens only for the invoked one.
func bindFlags(cmd *cobra.Command) {
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if mapped, ok := flagKeys[f.Name]; ok {
			key = mapped
		}
		if err := viper.BindPFlag(key, f); err != nil {
			log.Fatalf("binding flag %s: %v", f.Name, err)
		}
	})
}

// newRunLogger builds the command logger tagged with a fresh run id.
func newRunLogger() *zap.Logger {
	base, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger.WithRun(base, uuid.NewString())
}

func fatal(logger *zap.Logger, msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if hint := ai.Hint(err); hint != "" {
		fields = append(fields, zap.String("hint", hint))
	}
	logger.Fatal(msg, fields...)
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)
}
