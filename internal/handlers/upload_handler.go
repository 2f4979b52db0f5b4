package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/services"
)

// uploadReader turns an uploaded file into text. The file only lives on disk
// while it is being parsed.
type uploadReader struct {
	storageService services.StorageService
	extractor      services.TextExtractor
	maxFileSize    int64
}

func newUploadReader(storageService services.StorageService, extractor services.TextExtractor, maxFileSize int64) *uploadReader {
	return &uploadReader{
		storageService: storageService,
		extractor:      extractor,
		maxFileSize:    maxFileSize,
	}
}

// read returns a *fiber.Error carrying the HTTP status on failure.
func (u *uploadReader) read(file *multipart.FileHeader, field string) (*models.ExtractedDocument, error) {
	if file.Size > u.maxFileSize {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s file too large. Max size: %d bytes", field, u.maxFileSize))
	}

	filename, filePath, err := u.storageService.SaveFile(file, field)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFileType) {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("%s: unsupported file type, upload a PDF, DOCX or TXT file", field))
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError,
			fmt.Sprintf("failed to save %s file: %v", field, err))
	}
	defer u.storageService.DeleteFile(filename)

	text, err := u.extractor.ExtractText(filePath)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("failed to extract text from %s: %v", field, err))
	}

	return &models.ExtractedDocument{
		Field:        field,
		OriginalName: file.Filename,
		FileType:     strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
		Text:         text,
		Characters:   len([]rune(text)),
	}, nil
}

type UploadHandler struct {
	uploads *uploadReader
}

func NewUploadHandler(
	storageService services.StorageService,
	extractor services.TextExtractor,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		uploads: newUploadReader(storageService, extractor, maxFileSize),
	}
}

// HandleUpload handles POST /upload and returns the text of the "resume"
// and/or "job_description" files.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "failed to parse multipart form")
	}

	var documents []models.ExtractedDocument
	for _, field := range []string{"resume", "job_description"} {
		fh := firstFile(form, field)
		if fh == nil {
			continue
		}

		doc, err := h.uploads.read(fh, field)
		if err != nil {
			return respondFiberError(c, err)
		}
		documents = append(documents, *doc)
	}

	if len(documents) == 0 {
		return respondError(c, fiber.StatusBadRequest,
			"No valid files uploaded. Please upload 'resume' and/or 'job_description' as PDF, DOCX or TXT files.")
	}

	return c.JSON(fiber.Map{
		"documents": documents,
	})
}
