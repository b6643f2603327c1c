package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/services"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

type UploadHandler struct {
	service     services.AnalysisService
	maxFileSize int64
	logger      *utils.Logger
}

func NewUploadHandler(service services.AnalysisService, maxFileSize int64, logger *utils.Logger) *UploadHandler {
	return &UploadHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %d MB limit", h.maxFileSize>>20))

	if r.ContentLength > h.maxFileSize {
		respondError(w, h.logger, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, h.logger, tooLarge)
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("No file part"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part named file without a filename is parsed as a plain value.
		if _, sent := r.MultipartForm.Value["file"]; sent {
			respondError(w, h.logger, utils.NewBadRequestError("No file selected"))
			return
		}
		respondError(w, h.logger, utils.NewBadRequestError("No file part"))
		return
	}
	defer file.Close()

	contentType, ok := services.ContentTypeFor(header.Filename)
	if !ok {
		h.logger.Info("Rejected upload", "filename", header.Filename,
			"reported_content_type", header.Header.Get("Content-Type"))
		respondError(w, h.logger, utils.NewBadRequestError("Unsupported file type"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, h.logger, utils.WrapInternalError("Failed to read file", err))
		return
	}

	h.logger.Info("File upload", "filename", header.Filename, "content_type", contentType, "size", len(data))

	result, err := h.service.Process(r.Context(), &models.UploadRequest{
		File:        data,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, models.UploadResult{Success: true, Result: result})
}
