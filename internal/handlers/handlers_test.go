package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/resumatch/resumatch/internal/analysis"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/repositories"
	"github.com/resumatch/resumatch/internal/services"
)

const (
	sampleResume = "Experienced Python developer with AWS and Docker skills"
	sampleJob    = "Looking for a Python developer with strong AWS, Docker, and Kubernetes experience"
)

func newTestApp(t *testing.T, svc services.AnalyzerService, staticDir string) *fiber.App {
	t.Helper()
	log := zap.NewNop()
	storage := services.NewStorageService(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, storage.EnsureUploadDir())
	extractor := services.NewTextExtractor()

	return NewApp(
		NewAnalyzeHandler(svc, storage, extractor, 1<<20, log),
		NewUploadHandler(storage, extractor, 1<<20),
		NewHistoryHandler(svc, 50, log),
		AppOptions{BodyLimit: 4 << 20, StaticDir: staticDir},
	)
}

func newService(t *testing.T) services.AnalyzerService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.HistoryRecord{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return services.NewAnalyzerService(
		analysis.New(analysis.DefaultOptions()),
		repositories.NewHistoryRepository(db),
		2,
		zap.NewNop(),
	)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && data[0] == '{' {
		require.NoError(t, json.Unmarshal(data, &out))
	}
	return resp, out
}

func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string][2]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, f := range files {
		fw, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	for _, path := range []string{"/health", "/api/v1/health"} {
		resp, body := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "ResuMatch API is running", body["message"])
	}
}

func TestAnalyzeJSON(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	resp, body := doJSON(t, app, http.MethodPost, "/analyze", map[string]string{
		"resume_text":          sampleResume,
		"job_description_text": sampleJob,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 41.7, body["match_score"])
	assert.Equal(t, float64(12), body["total_keywords_analyzed"])
	assert.Contains(t, body["matched_keywords"], "python")
	assert.Contains(t, body["matched_keywords"], "aws")
	assert.Contains(t, body["matched_keywords"], "docker")
	assert.Contains(t, body["missing_keywords"], "kubernetes")
}

func TestAnalyzeValidation(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/analyze", map[string]string{"resume_text": sampleResume})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields: resume_text and job_description_text", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/analyze", map[string]string{
		"resume_text":          sampleResume,
		"job_description_text": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Resume and job description text cannot be empty", body["error"])

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, body = send(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestAnalyzeMultipartWithFile(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	req := multipartRequest(t, "/analyze",
		map[string]string{"job_description_text": sampleJob, "role_template": "backend"},
		map[string][2]string{"resume_file": {"resume.txt", sampleResume}},
	)
	resp, body := send(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 41.7, body["match_score"])
}

func TestAnalyzeMultipartUnsupportedFile(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	req := multipartRequest(t, "/analyze",
		map[string]string{"job_description_text": sampleJob},
		map[string][2]string{"resume_file": {"resume.png", "binary"}},
	)
	resp, body := send(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "unsupported file type")
}

func TestUpload(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	req := multipartRequest(t, "/api/v1/upload", nil,
		map[string][2]string{"job_description": {"jd.txt", "  Go developer\n\nKafka  "}},
	)
	resp, body := send(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	docs, ok := body["documents"].([]any)
	require.True(t, ok)
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "job_description", doc["field"])
	assert.Equal(t, "txt", doc["file_type"])
	assert.Equal(t, "Go developer\nKafka", doc["text"])

	resp, _ = send(t, app, multipartRequest(t, "/upload", map[string]string{"x": "y"}, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatch(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	resp, body := doJSON(t, app, http.MethodPost, "/analyze/batch", models.BatchRequest{
		ResumeText: "Kubernetes operator",
		Jobs: []models.BatchJob{
			{Label: "partial", JobDescriptionText: "Kubernetes Terraform"},
			{Label: "exact", JobDescriptionText: "Kubernetes operator"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].(map[string]any)["label"])
	assert.Equal(t, 100.0, results[0].(map[string]any)["match_score"])

	resp, _ = doJSON(t, app, http.MethodPost, "/analyze/batch", models.BatchRequest{ResumeText: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryMostRecentFirst(t *testing.T) {
	app := newTestApp(t, newService(t), "")

	for _, jd := range []string{"Go developer", "Rust developer"} {
		resp, _ := doJSON(t, app, http.MethodPost, "/analyze", map[string]string{
			"resume_text":          "Go developer",
			"job_description_text": jd,
			"role_template":        "backend",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total"])
	history := body["history"].([]any)
	first := history[0].(map[string]any)
	assert.Equal(t, "Rust developer", first["job_description"])
	assert.Equal(t, "backend", first["role_template"])
	assert.NotEmpty(t, first["id"])
	assert.NotEmpty(t, first["timestamp"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/history?limit=1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total"])
}

type failingService struct{}

func (failingService) Analyze(context.Context, analysis.Request) (*analysis.Result, error) {
	return nil, errors.New("boom")
}

func (failingService) AnalyzeBatch(context.Context, string, []models.BatchJob) ([]models.BatchResult, error) {
	return nil, errors.New("queue closed")
}

func (failingService) History(int) ([]models.HistoryRecord, error) {
	return nil, errors.New("db down")
}

func TestInternalErrors(t *testing.T) {
	app := newTestApp(t, failingService{}, "")

	resp, body := doJSON(t, app, http.MethodPost, "/analyze", map[string]string{
		"resume_text":          "a",
		"job_description_text": "b",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An error occurred: boom", body["error"])

	resp, _ = doJSON(t, app, http.MethodGet, "/history", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/analyze/batch", models.BatchRequest{ResumeText: "x"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>ResuMatch</h1>"), 0644))
	app := newTestApp(t, newService(t), dir)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "ResuMatch")
}
