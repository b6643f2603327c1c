package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
)

type AnalysisRepository interface {
	Create(ctx context.Context, rec *models.AnalysisRecord) error
	GetByID(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
}

type analysisRepository struct {
	db *sqlx.DB
}

func NewAnalysisRepository(db *sqlx.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, rec *models.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (id, filename, storage_key, content_type, file_size, extracted_text, suggestions, mode, created_at)
		VALUES (:id, :filename, :storage_key, :content_type, :file_size, :extracted_text, :suggestions, :mode, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, rec)
	return err
}

// GetByID returns nil, nil when no record has the id.
func (r *analysisRepository) GetByID(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord

	query := `
		SELECT id, filename, storage_key, content_type, file_size, extracted_text, suggestions, mode, created_at
		FROM analyses
		WHERE id = ?
	`
	err := r.db.GetContext(ctx, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *analysisRepository) ListRecent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	recs := []models.AnalysisRecord{}

	query := `
		SELECT id, filename, storage_key, content_type, file_size, extracted_text, suggestions, mode, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, err
	}
	return recs, nil
}
