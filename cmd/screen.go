package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/pipeline"
	"github.com/spigell/resume-screener/internal/report"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowResults = "Show results"
	PromptSnippets    = "Show results with text snippets"
	PromptSave        = "Save results to file"
	PromptExit        = "Exit"
)

var errExit = errors.New("exit requested")

var screenPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowResults, PromptSnippets, PromptSave, PromptExit},
}

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen resumes interactively, asking for any input that is missing",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindFlags(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		screen(cmd)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringP("resumes", "r", "", "folder with resumes (PDF or plain text)")
	screenCmd.Flags().String("jd", "", "job description file or literal text")
	screenCmd.Flags().StringP("skills", "s", "", "skills file, one skill per line (default list when empty)")
	screenCmd.Flags().Bool("snippet", false, "print the first characters of every resume with the results")
	addFilterFlags(screenCmd)
}

// screen is the interactive mode. Names are not extracted here.
func screen(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newRunLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	out := cmd.OutOrStdout()

	if err := askInputs(config); err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return
		}
		logger.Fatal("reading inputs", zap.Error(err))
	}

	records, found, err := runScreen(ctx, out, config, logger)
	if err != nil {
		fatal(logger, "screening failed", err)
	}
	if !found {
		return
	}

	report.PrintDetails(out, records, viper.GetBool("snippet"))

	for {
		_, action, err := screenPrompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleScreenAction(action, out, records, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// runScreen scores the batch. found is false when the folder has no resumes.
func runScreen(ctx context.Context, out io.Writer, config *Config, logger *zap.Logger) (records []*pipeline.MatchRecord, found bool, err error) {
	vocabulary := extract.DefaultVocabulary()
	if path := strings.TrimSpace(config.Skills); path != "" {
		loaded, err := extract.LoadVocabulary(path)
		if err != nil {
			logger.Warn("falling back to the default skills", zap.Error(err), zap.Strings("skills", vocabulary))
		} else {
			vocabulary = loaded
		}
	}

	jd, err := document.ResolveJD(config.JD)
	if err != nil {
		return nil, false, fmt.Errorf("reading job description: %w", err)
	}

	paths, err := document.ListFiles(config.Resumes)
	if err != nil {
		return nil, false, fmt.Errorf("listing resumes: %w", err)
	}

	if len(paths) == 0 {
		fmt.Fprintf(out, "No resumes found in folder: %s\n", config.Resumes)
		return nil, false, nil
	}

	records, err = score(ctx, batch{
		paths:      paths,
		jd:         jd,
		vocabulary: vocabulary,
		filters:    config.Filters,
		skip:       config.SkipFilters,
	}, logger)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

func askInputs(config *Config) error {
	if strings.TrimSpace(config.Resumes) == "" {
		prompt := promptui.Prompt{
			Label:    "Resume folder",
			Validate: validateDir,
		}
		value, err := prompt.Run()
		if err != nil {
			return err
		}
		config.Resumes = strings.TrimSpace(value)
	}

	if strings.TrimSpace(config.JD) == "" {
		prompt := promptui.Prompt{
			Label:    "Job description (file path or text)",
			Validate: validateNotEmpty,
		}
		value, err := prompt.Run()
		if err != nil {
			return err
		}
		config.JD = value
	}

	if strings.TrimSpace(config.Skills) == "" {
		prompt := promptui.Prompt{
			Label: "Skills file (empty for the default list)",
		}
		value, err := prompt.Run()
		if err != nil {
			return err
		}
		config.Skills = strings.TrimSpace(value)
	}

	return nil
}

func handleScreenAction(action string, out io.Writer, records []*pipeline.MatchRecord, logger *zap.Logger) error {
	switch action {
	case PromptShowResults:
		report.PrintDetails(out, records, false)
		return nil
	case PromptSnippets:
		report.PrintDetails(out, records, true)
		return nil
	case PromptSave:
		return saveResults(out, records, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func saveResults(out io.Writer, records []*pipeline.MatchRecord, logger *zap.Logger) error {
	formatPrompt := promptui.Select{
		Label: "Format",
		Items: report.Formats(),
	}
	_, format, err := formatPrompt.Run()
	if err != nil {
		return err
	}

	pathPrompt := promptui.Prompt{
		Label:     "File",
		Default:   defaultOutput(format),
		AllowEdit: true,
		Validate:  validateNotEmpty,
	}
	path, err := pathPrompt.Run()
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)

	if err := report.WriteFile(path, format, records); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}

	logger.Info("results saved", zap.String("filename", path), zap.Int("count", len(records)))
	fmt.Fprintf(out, "Saved rankings to: %s\n", path)
	return nil
}

func defaultOutput(format string) string {
	return strings.TrimSuffix(defaultOut, ".csv") + "." + format
}

func validateDir(input string) error {
	info, err := os.Stat(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", input)
	}
	return nil
}

func validateNotEmpty(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("value is required")
	}
	return nil
}
