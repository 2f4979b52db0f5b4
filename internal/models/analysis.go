package models

type AnalyzeRequest struct {
	ResumeText         *string `json:"resume_text" form:"resume_text"`
	JobDescriptionText *string `json:"job_description_text" form:"job_description_text"`
	RoleTemplate       string  `json:"role_template" form:"role_template"`
}

type AnalyzeResponse struct {
	MatchScore            float64  `json:"match_score"`
	MatchedKeywords       []string `json:"matched_keywords"`
	MissingKeywords       []string `json:"missing_keywords"`
	TotalKeywordsAnalyzed int      `json:"total_keywords_analyzed"`
	SimilarityScore       float64  `json:"similarity_score"`
}

type BatchJob struct {
	Label              string `json:"label"`
	JobDescriptionText string `json:"job_description_text"`
}

type BatchRequest struct {
	ResumeText string     `json:"resume_text"`
	Jobs       []BatchJob `json:"jobs"`
}

type BatchResult struct {
	Label string `json:"label"`
	AnalyzeResponse
}

type BatchResponse struct {
	Results []BatchResult `json:"results"`
}

type HistoryResponse struct {
	History []HistoryRecord `json:"history"`
	Total   int             `json:"total"`
}
