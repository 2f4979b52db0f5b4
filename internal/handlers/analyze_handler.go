package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/resumatch/resumatch/internal/analysis"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
	uploads  *uploadReader
	log      *zap.Logger
}

func NewAnalyzeHandler(
	analyzer services.AnalyzerService,
	storageService services.StorageService,
	extractor services.TextExtractor,
	maxFileSize int64,
	log *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
		uploads:  newUploadReader(storageService, extractor, maxFileSize),
		log:      log,
	}
}

// HandleAnalyze handles POST /analyze. It accepts a JSON body or a multipart
// form whose text fields may be replaced by uploaded files.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "failed to parse multipart form")
		}
		if err := h.readForm(form, &req); err != nil {
			return respondFiberError(c, err)
		}
	} else if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if req.ResumeText == nil || req.JobDescriptionText == nil {
		return respondError(c, fiber.StatusBadRequest, "Missing required fields: resume_text and job_description_text")
	}

	result, err := h.analyzer.Analyze(c.UserContext(), analysis.Request{
		ResumeText:         *req.ResumeText,
		JobDescriptionText: *req.JobDescriptionText,
		RoleTemplate:       strings.TrimSpace(req.RoleTemplate),
	})
	if err != nil {
		return h.analysisError(c, err)
	}

	return c.JSON(services.ToResponse(result))
}

// HandleBatch handles POST /analyze/batch.
func (h *AnalyzeHandler) HandleBatch(c *fiber.Ctx) error {
	var req models.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	results, err := h.analyzer.AnalyzeBatch(c.UserContext(), req.ResumeText, req.Jobs)
	if err != nil {
		return h.analysisError(c, err)
	}

	return c.JSON(models.BatchResponse{Results: results})
}

func (h *AnalyzeHandler) analysisError(c *fiber.Ctx, err error) error {
	var verr *analysis.ValidationError
	if errors.As(err, &verr) {
		return respondError(c, fiber.StatusBadRequest, verr.Message)
	}

	h.log.Error("analysis failed", zap.Error(err))
	return respondError(c, fiber.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
}

func (h *AnalyzeHandler) readForm(form *multipart.Form, req *models.AnalyzeRequest) error {
	if v, ok := formValue(form, "resume_text"); ok {
		req.ResumeText = &v
	}
	if v, ok := formValue(form, "job_description_text"); ok {
		req.JobDescriptionText = &v
	}
	if v, ok := formValue(form, "role_template"); ok {
		req.RoleTemplate = v
	}

	if fh := firstFile(form, "resume_file"); fh != nil {
		doc, err := h.uploads.read(fh, "resume")
		if err != nil {
			return err
		}
		req.ResumeText = &doc.Text
	}
	if fh := firstFile(form, "job_description_file"); fh != nil {
		doc, err := h.uploads.read(fh, "job_description")
		if err != nil {
			return err
		}
		req.JobDescriptionText = &doc.Text
	}
	return nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func formValue(form *multipart.Form, key string) (string, bool) {
	if vs, ok := form.Value[key]; ok && len(vs) > 0 {
		return vs[0], true
	}
	return "", false
}

func firstFile(form *multipart.Form, key string) *multipart.FileHeader {
	if fs, ok := form.File[key]; ok && len(fs) > 0 {
		return fs[0]
	}
	return nil
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func respondFiberError(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return respondError(c, ferr.Code, ferr.Message)
	}
	return respondError(c, fiber.StatusInternalServerError, fmt.Sprintf("An error occurred: %v", err))
}
