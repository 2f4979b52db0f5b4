package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/resumatch/resumatch/internal/analysis"
	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/repositories"
)

type AnalyzerService interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
	AnalyzeBatch(ctx context.Context, resumeText string, jobs []models.BatchJob) ([]models.BatchResult, error)
	History(limit int) ([]models.HistoryRecord, error)
}

type analyzerService struct {
	analyzer    *analysis.Analyzer
	historyRepo repositories.HistoryRepository
	concurrency int
	log         *zap.Logger
}

// NewAnalyzerService wires the keyword analyzer to the history log.
// historyRepo may be nil, in which case nothing is recorded.
func NewAnalyzerService(
	analyzer *analysis.Analyzer,
	historyRepo repositories.HistoryRepository,
	concurrency int,
	log *zap.Logger,
) AnalyzerService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &analyzerService{
		analyzer:    analyzer,
		historyRepo: historyRepo,
		concurrency: concurrency,
		log:         log,
	}
}

// Analyze implements AnalyzerService.
func (s *analyzerService) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(req)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze: %w", err)
	}

	s.log.Debug("analysis completed", logger.AnalysisFields(
		req.RoleTemplate, req.JobDescriptionText, result.MatchScore, result.TotalKeywordsAnalyzed,
	)...)

	s.record(req, result)
	return result, nil
}

// AnalyzeBatch implements AnalyzerService. Jobs are scored on a bounded pool
// and returned best match first; equal scores keep request order.
func (s *analyzerService) AnalyzeBatch(ctx context.Context, resumeText string, jobs []models.BatchJob) ([]models.BatchResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &analysis.ValidationError{Message: "resume_text cannot be empty"}
	}
	if len(jobs) == 0 {
		return nil, &analysis.ValidationError{Message: "at least one job is required"}
	}
	for i, job := range jobs {
		if strings.TrimSpace(job.JobDescriptionText) == "" {
			return nil, &analysis.ValidationError{Message: fmt.Sprintf("job %d: job_description_text cannot be empty", i)}
		}
	}

	results := make([]models.BatchResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := s.Analyze(gctx, analysis.Request{
				ResumeText:         resumeText,
				JobDescriptionText: job.JobDescriptionText,
				RoleTemplate:       job.Label,
			})
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = models.BatchResult{Label: job.Label, AnalyzeResponse: ToResponse(res)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	s.log.Info("batch analysis completed", zap.Int("jobs", len(jobs)))
	return results, nil
}

// History implements AnalyzerService.
func (s *analyzerService) History(limit int) ([]models.HistoryRecord, error) {
	if s.historyRepo == nil {
		return []models.HistoryRecord{}, nil
	}
	return s.historyRepo.ListAll(limit)
}

func (s *analyzerService) record(req analysis.Request, result *analysis.Result) {
	if s.historyRepo == nil {
		return
	}

	entry := &models.HistoryRecord{
		RoleTemplate:   req.RoleTemplate,
		JobDescription: strings.TrimSpace(req.JobDescriptionText),
		MatchScore:     result.MatchScore,
	}
	if err := s.historyRepo.Record(entry); err != nil {
		s.log.Warn("failed to record history", zap.Error(err))
	}
}

// ToResponse converts a core result to its JSON shape.
func ToResponse(r *analysis.Result) models.AnalyzeResponse {
	return models.AnalyzeResponse{
		MatchScore:            r.MatchScore,
		MatchedKeywords:       r.MatchedKeywords,
		MissingKeywords:       r.MissingKeywords,
		TotalKeywordsAnalyzed: r.TotalKeywordsAnalyzed,
		SimilarityScore:       r.SimilarityScore,
	}
}
