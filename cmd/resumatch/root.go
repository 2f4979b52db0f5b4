package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resumatch/resumatch/internal/analysis"
	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/logger"
)

const app = "resumatch"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "ResuMatch scores how well a resume covers the keywords of a job description",
	Long: "ResuMatch extracts the most significant keywords of a job description with TF-IDF\n" +
		"and reports which of them a resume contains. Run `resumatch serve` for the HTTP API.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output (env LOG_DEBUG)")
	rootCmd.PersistentFlags().Bool("log-json", false, "json format for logging (env LOG_JSON)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("log-json"))

	if err := viper.BindEnv("debug", "LOG_DEBUG"); err != nil {
		log.Fatalf("binding LOG_DEBUG environment variable: %v", err)
	}
	if err := viper.BindEnv("json", "LOG_JSON"); err != nil {
		log.Fatalf("binding LOG_JSON environment variable: %v", err)
	}
}

// setup loads configuration and builds the logger. Flags win over the
// environment for the log settings.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, envLoaded := config.Load()
	cfg.Log.JSON = viper.GetBool("json")
	cfg.Log.Debug = viper.GetBool("debug")

	lg, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if !envLoaded {
		lg.Debug("no .env file found, using process environment")
	}
	return cfg, lg, nil
}

func newAnalyzer(cfg *config.Config, lg *zap.Logger) (*analysis.Analyzer, error) {
	weights, err := analysis.LoadWeights(cfg.Analysis.WeightsFile)
	if err != nil {
		return nil, err
	}
	if len(weights) > 0 {
		lg.Info("keyword weights loaded",
			zap.String("file", cfg.Analysis.WeightsFile),
			zap.Int("terms", len(weights)),
		)
	}

	if cfg.Analysis.TopKeywords > analysis.MaxTopKeywords {
		lg.Warn("TOP_KEYWORDS above the limit, clamping",
			zap.Int("requested", cfg.Analysis.TopKeywords),
			zap.Int("max", analysis.MaxTopKeywords),
		)
	}

	return analysis.New(analysis.Options{
		MaxFeatures: cfg.Analysis.MaxFeatures,
		TopKeywords: cfg.Analysis.TopKeywords,
		MinScore:    cfg.Analysis.MinScore,
		Weights:     weights,
	}), nil
}

func closeDB(db *gorm.DB, lg *zap.Logger) {
	if err := config.CloseDatabase(db); err != nil {
		lg.Warn("failed to close database", zap.Error(err))
	}
}
