package analysis

import (
	"math"
	"sort"
	"strings"
)

const (
	DefaultMaxFeatures = 100
	DefaultTopKeywords = 20
	DefaultMinScore    = 0.01

	// MaxTopKeywords bounds the analyzed keyword set.
	MaxTopKeywords = 20
)

// Request is the plain-text input to an analysis.
type Request struct {
	ResumeText         string
	JobDescriptionText string
	RoleTemplate       string
}

// KeywordScore is a job-description term with its TF-IDF score.
type KeywordScore struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Result is the outcome of comparing a resume with a job description.
type Result struct {
	MatchScore            float64  `json:"match_score"`
	MatchedKeywords       []string `json:"matched_keywords"`
	MissingKeywords       []string `json:"missing_keywords"`
	TotalKeywordsAnalyzed int      `json:"total_keywords_analyzed"`
	SimilarityScore       float64  `json:"similarity_score"`
}

type Options struct {
	MaxFeatures int
	TopKeywords int
	MinScore    float64
	Weights     Weights
}

func DefaultOptions() Options {
	return Options{
		MaxFeatures: DefaultMaxFeatures,
		TopKeywords: DefaultTopKeywords,
		MinScore:    DefaultMinScore,
	}
}

// Analyzer is safe for concurrent use; it holds only read-only settings.
type Analyzer struct {
	opts       Options
	vectorizer *Vectorizer
}

func New(opts Options) *Analyzer {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = DefaultTopKeywords
	}
	if opts.TopKeywords > MaxTopKeywords {
		opts.TopKeywords = MaxTopKeywords
	}
	if opts.MinScore < 0 {
		opts.MinScore = DefaultMinScore
	}
	return &Analyzer{
		opts:       opts,
		vectorizer: NewVectorizer(opts.MaxFeatures),
	}
}

// Validate rejects requests with an empty resume or job description.
func Validate(req Request) error {
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescriptionText) == "" {
		return newValidationError("Resume and job description text cannot be empty")
	}
	return nil
}

// Analyze runs the full pipeline: normalize, vectorize, rank, threshold,
// match and score.
func (a *Analyzer) Analyze(req Request) (*Result, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	resume := Normalize(req.ResumeText)
	job := Normalize(req.JobDescriptionText)

	m := a.vectorizer.FitTransform([]string{resume, job})
	keywords := a.selectKeywords(m)

	terms := make([]string, len(keywords))
	for i, k := range keywords {
		terms[i] = k.Term
	}
	matched, missing := MatchKeywords(terms, resume)

	return &Result{
		MatchScore:            MatchScore(len(matched), len(terms)),
		MatchedKeywords:       matched,
		MissingKeywords:       missing,
		TotalKeywordsAnalyzed: len(terms),
		SimilarityScore:       round1(100 * clamp01(m.Cosine(0, 1))),
	}, nil
}

// ExtractKeywords returns the analyzed keyword set for a pair of raw texts.
func (a *Analyzer) ExtractKeywords(resumeText, jobText string) []KeywordScore {
	m := a.vectorizer.FitTransform([]string{Normalize(resumeText), Normalize(jobText)})
	return a.selectKeywords(m)
}

// selectKeywords ranks the job-description row (row 1) by score, applies the
// weight table, and keeps the top entries above the score floor.
func (a *Analyzer) selectKeywords(m *Matrix) []KeywordScore {
	ranked := make([]KeywordScore, len(m.Features))
	for j, f := range m.Features {
		ranked[j] = KeywordScore{Term: f, Score: a.opts.Weights.Apply(f, m.Rows[1][j])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > a.opts.TopKeywords {
		ranked = ranked[:a.opts.TopKeywords]
	}
	out := make([]KeywordScore, 0, len(ranked))
	for _, k := range ranked {
		if k.Score > a.opts.MinScore {
			out = append(out, k)
		}
	}
	return out
}

// MatchKeywords splits terms into those found in the normalized resume and
// those that are not, keeping their order. A bigram must appear verbatim in
// the resume text; a unigram must equal one of its tokens.
func MatchKeywords(terms []string, normalizedResume string) (matched, missing []string) {
	words := toSet(Tokens(normalizedResume))
	matched = []string{}
	missing = []string{}

	for _, t := range terms {
		var found bool
		if strings.Contains(t, " ") {
			found = strings.Contains(normalizedResume, t)
		} else {
			found = words[t]
		}
		if found {
			matched = append(matched, t)
		} else {
			missing = append(missing, t)
		}
	}
	return matched, missing
}

// MatchScore is the matched share of analyzed keywords as a percentage
// rounded to one decimal place. It is 0 when nothing was analyzed.
func MatchScore(matched, analyzed int) float64 {
	if analyzed == 0 {
		return 0
	}
	return round1(100 * float64(matched) / float64(analyzed))
}

// round1 rounds half to even so exact ties such as 6.25 become 6.2.
func round1(x float64) float64 {
	return math.RoundToEven(x*10) / 10
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
