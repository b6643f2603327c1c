package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BerylCAtieno/medical-record-assistant/internal/analyzer"
	"github.com/BerylCAtieno/medical-record-assistant/internal/extractor"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/repository"
	"github.com/BerylCAtieno/medical-record-assistant/internal/storage"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

const Disclaimer = "This advice is for reference only and does not constitute a medical diagnosis. Please consult a professional physician for an accurate diagnosis."

type AnalysisService interface {
	Process(ctx context.Context, req *models.UploadRequest) (*models.Result, error)
}

type analysisService struct {
	repo      repository.AnalysisRepository
	storage   storage.Storage
	extractor extractor.Extractor
	inferrer  analyzer.Inferrer
	logger    *utils.Logger
	now       func() time.Time
}

func NewAnalysisService(
	repo repository.AnalysisRepository,
	store storage.Storage,
	ext extractor.Extractor,
	inf analyzer.Inferrer,
	logger *utils.Logger,
) AnalysisService {
	return &analysisService{
		repo:      repo,
		storage:   store,
		extractor: ext,
		inferrer:  inf,
		logger:    logger,
		now:       time.Now,
	}
}

// ContentTypeFor returns the processing content type for an upload name, or
// false when the extension is not accepted.
func ContentTypeFor(filename string) (string, bool) {
	ct, ok := extractor.ContentTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// Process stores the upload, extracts its text, asks for suggestions and
// records the outcome. The stored file is kept even when processing fails.
func (s *analysisService) Process(ctx context.Context, req *models.UploadRequest) (*models.Result, error) {
	now := s.now()
	id := utils.GenerateID()
	key := storage.UploadKey(now, req.Filename)

	if err := s.storage.Upload(ctx, key, req.File, req.ContentType); err != nil {
		s.logger.Error("Failed to store upload", "error", err, "key", key)
		return nil, processingError(err)
	}

	text, err := s.extractor.Extract(ctx, req.File, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to extract text", "error", err, "id", id, "content_type", req.ContentType)
		return nil, processingError(err)
	}

	suggestions := s.inferrer.Suggest(ctx, text)

	encoded, err := json.Marshal(suggestions)
	if err != nil {
		return nil, processingError(err)
	}
	rec := &models.AnalysisRecord{
		ID:            id,
		Filename:      req.Filename,
		StorageKey:    key,
		ContentType:   req.ContentType,
		FileSize:      int64(len(req.File)),
		ExtractedText: text,
		Suggestions:   string(encoded),
		Mode:          suggestions.Mode,
		CreatedAt:     now.UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		// The page can still show the analysis.
		s.logger.Error("Failed to save analysis record", "error", err, "id", id)
	}

	s.logger.Info("Record analyzed",
		"id", id,
		"filename", req.Filename,
		"content_type", req.ContentType,
		"text_length", len(text),
		"mode", suggestions.Mode)

	return &models.Result{
		Text:        text,
		Suggestions: suggestions,
		Disclaimer:  Disclaimer,
		Timestamp:   now.Format(time.RFC3339),
	}, nil
}

func processingError(err error) *utils.AppError {
	return utils.WrapInternalError(fmt.Sprintf("Error processing file: %v", err), err)
}
