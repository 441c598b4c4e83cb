package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extract"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/pipeline"
	"github.com/spigell/resume-screener/internal/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultOut = "ranked_candidates.csv"

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a folder of resumes against a job description and save the results",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindFlags(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("resumes", "r", "", "folder with resumes (PDF or plain text)")
	rankCmd.Flags().String("jd", "", "job description file or literal text")
	rankCmd.Flags().StringP("skills", "s", "", "skills file, one skill per line")
	rankCmd.Flags().StringP("out", "o", defaultOut, "output file")
	rankCmd.Flags().StringP("format", "f", report.FormatCSV, "output format: "+strings.Join(report.Formats(), ", "))
	rankCmd.Flags().String("recognizer", RecognizerProse, "candidate name recognizer: prose, gemini or none")
	addFilterFlags(rankCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("min-score", 0, "drop candidates scoring below this fraction")
	cmd.Flags().Int("min-years", 0, "drop candidates with fewer detected years of experience")
	cmd.Flags().StringSlice("required-skills", nil, "drop candidates missing any of these skills")
	cmd.Flags().StringSlice("skip-filters", nil, "filter steps to skip: min_score, min_years, required_skills")
}

// batch is the input shared by the rank and screen commands.
type batch struct {
	paths      []string
	jd         string
	vocabulary []string
	names      *extract.NameExtractor
	filters    *filtering.Config
	skip       []string
}

// rank is the batch command: every input is required and the result is written to a file.
func rank(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newRunLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screener", zap.String("version", version))
	logger.Debug("starting with config",
		zap.String("resumes", config.Resumes),
		zap.String("skills", config.Skills),
		zap.String("out", config.Out),
		zap.String("format", config.Format),
		zap.String("recognizer", config.Recognizer),
	)

	if err := runRank(ctx, cmd.OutOrStdout(), config, logger); err != nil {
		fatal(logger, "ranking failed", err)
	}
}

func runRank(ctx context.Context, out io.Writer, config *Config, logger *zap.Logger) error {
	if err := requireInputs(config); err != nil {
		return err
	}

	format, err := report.ParseFormat(config.Format)
	if err != nil {
		return err
	}

	outPath := strings.TrimSpace(config.Out)
	if outPath == "" {
		outPath = defaultOut
	}

	vocabulary, err := extract.LoadVocabulary(config.Skills)
	if err != nil {
		return fmt.Errorf("loading skills: %w", err)
	}

	jd, err := document.ResolveJD(config.JD)
	if err != nil {
		return fmt.Errorf("reading job description: %w", err)
	}

	paths, err := document.ListFiles(config.Resumes)
	if err != nil {
		return fmt.Errorf("listing resumes: %w", err)
	}

	if len(paths) == 0 {
		fmt.Fprintf(out, "No resumes found in folder: %s\n", config.Resumes)
		return nil
	}

	recognizer, err := newRecognizer(ctx, config.Recognizer, config.AI, logger)
	if err != nil {
		return fmt.Errorf("opening recognizer: %w", err)
	}

	var names *extract.NameExtractor
	if recognizer != nil {
		defer func() {
			if err := recognizer.Close(); err != nil {
				logger.Warn("closing recognizer", zap.Error(err))
			}
		}()
		names = extract.NewNameExtractor(recognizer, logger)
	}

	records, err := score(ctx, batch{
		paths:      paths,
		jd:         jd,
		vocabulary: vocabulary,
		names:      names,
		filters:    config.Filters,
		skip:       config.SkipFilters,
	}, logger)
	if err != nil {
		return err
	}

	if err := report.WriteFile(outPath, format, records); err != nil {
		return fmt.Errorf("saving rankings: %w", err)
	}

	logger.Info("rankings saved", zap.String("filename", outPath), zap.Int("count", len(records)))

	fmt.Fprintf(out, "Saved rankings to: %s\n", outPath)
	report.PrintSummary(out, records)

	return nil
}

func requireInputs(config *Config) error {
	var missing []string
	if strings.TrimSpace(config.Resumes) == "" {
		missing = append(missing, "--resumes")
	}
	if strings.TrimSpace(config.JD) == "" {
		missing = append(missing, "--jd")
	}
	if strings.TrimSpace(config.Skills) == "" {
		missing = append(missing, "--skills")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required inputs are missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// score extracts every resume, runs the pipeline and applies the configured filters.
func score(ctx context.Context, in batch, logger *zap.Logger) ([]*pipeline.MatchRecord, error) {
	extractor := document.NewExtractor(logger, document.DefaultStrategies()...)

	bar := newProgressBar(len(in.paths), "extracting resumes")
	docs, err := document.Load(ctx, in.paths, extractor, func(*document.Document) {
		_ = bar.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("loading resumes: %w", err)
	}
	_ = bar.Finish()

	logger.Info("resumes loaded", zap.Int("count", len(docs)))

	records, err := pipeline.New(pipeline.Options{
		Vocabulary: in.vocabulary,
		Names:      in.names,
	}, logger).Run(ctx, docs, in.jd)
	if err != nil {
		return nil, err
	}

	steps := filtering.Default()
	for _, name := range in.skip {
		filtering.DisableByName(steps, strings.TrimSpace(name), "skipped by flag")
	}
	logger.Debug("filter steps", zap.Any("steps", filtering.Describe(steps)))

	filtered, err := filtering.Run(ctx, in.filters, filtering.Deps{Logger: logger}, steps, records)
	if err != nil {
		return nil, fmt.Errorf("filtering failed: %w", err)
	}

	if len(filtered) == 0 && len(records) > 0 {
		logger.Info("no candidates left after filters", zap.Int("ranked", len(records)))
	}

	return filtered, nil
}
