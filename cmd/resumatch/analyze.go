package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resumatch/resumatch/internal/analysis"
	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/repositories"
	"github.com/resumatch/resumatch/internal/services"
)

var (
	resumePath string
	jobPath    string
	role       string
	jsonOutput bool
	save       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume file against a job description file",
	Long:  "Reads a PDF, DOCX or TXT resume and job description and prints the keyword match.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAnalyze(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&resumePath, "resume", "r", "", "path to the resume (pdf, docx or txt)")
	analyzeCmd.Flags().StringVarP(&jobPath, "job", "j", "", "path to the job description (pdf, docx or txt)")
	analyzeCmd.Flags().StringVar(&role, "role", "", "optional role template label")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	analyzeCmd.Flags().BoolVar(&save, "save", false, "record the result in the history database")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("job")
}

func runAnalyze(ctx context.Context, out io.Writer) error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	extractor := services.NewTextExtractor()
	resumeText, err := extractor.ExtractText(resumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jobText, err := extractor.ExtractText(jobPath)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	analyzer, err := newAnalyzer(cfg, lg)
	if err != nil {
		return err
	}

	var historyRepo repositories.HistoryRepository
	if save {
		db, err := config.InitDatabase(cfg, lg)
		if err != nil {
			return err
		}
		defer closeDB(db, lg)
		historyRepo = repositories.NewHistoryRepository(db)
	}

	result, err := services.NewAnalyzerService(analyzer, historyRepo, 1, lg).Analyze(ctx, analysis.Request{
		ResumeText:         resumeText,
		JobDescriptionText: jobText,
		RoleTemplate:       strings.TrimSpace(role),
	})
	if err != nil {
		return err
	}
	lg.Debug("analyzed files", zap.String("resume", resumePath), zap.String("job", jobPath))

	resp := services.ToResponse(result)
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResult(out, resp)
	return nil
}

func printResult(out io.Writer, r models.AnalyzeResponse) {
	fmt.Fprintf(out, "Match score: %.1f%%\n", r.MatchScore)
	fmt.Fprintf(out, "Similarity:  %.1f%%\n", r.SimilarityScore)
	fmt.Fprintf(out, "Analyzed:    %d keywords\n", r.TotalKeywordsAnalyzed)
	fmt.Fprintf(out, "Matched (%d): %s\n", len(r.MatchedKeywords), strings.Join(r.MatchedKeywords, ", "))
	fmt.Fprintf(out, "Missing (%d): %s\n", len(r.MissingKeywords), strings.Join(r.MissingKeywords, ", "))
}
