package repository

import (
	"context"
	"errors"
	"fmt"

	"casevalue-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository persists analysis results
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create stores an analysis result
func (r *AnalysisRepository) Create(ctx context.Context, a *models.AnalysisResult) error {
	query := `
		INSERT INTO analyses (
			id, status, case_title, prediction, predicted_settlement,
			summary, confidence, similar_cases, extracted_features,
			prompt_chars, report_path, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)`

	_, err := r.db.Exec(
		ctx, query,
		a.ID,
		a.Status,
		a.CaseTitle,
		a.Prediction,
		a.PredictedSettlement,
		a.Summary,
		a.Confidence,
		a.SimilarCases,
		a.ExtractedFeatures,
		a.PromptChars,
		a.ReportPath,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetByID retrieves an analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	a := &models.AnalysisResult{}
	query := `
		SELECT id, status, case_title, prediction, predicted_settlement,
			summary, confidence, similar_cases, extracted_features,
			prompt_chars, report_path, created_at
		FROM analyses
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Status,
		&a.CaseTitle,
		&a.Prediction,
		&a.PredictedSettlement,
		&a.Summary,
		&a.Confidence,
		&a.SimilarCases,
		&a.ExtractedFeatures,
		&a.PromptChars,
		&a.ReportPath,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return a, nil
}
