package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"casevalue-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrAnalysisNotFound  = errors.New("analysis not found")
)

// DefaultDimension is the width of the embedding column
const DefaultDimension = 768

// CaseRepository handles the historical case corpus
type CaseRepository struct {
	db        *pgxpool.Pool
	dimension int
}

// NewCaseRepository creates a new case repository. A non-positive dimension
// uses DefaultDimension.
func NewCaseRepository(db *pgxpool.Pool, dimension int) *CaseRepository {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &CaseRepository{db: db, dimension: dimension}
}

// formatVector formats an embedding vector as a pgvector literal
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', 6, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// similarityFromDistance converts cosine distance to a similarity in [0,1]
func similarityFromDistance(distance float64) float64 {
	s := 1 - distance
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}

func (r *CaseRepository) checkDimension(embedding []float32) error {
	if len(embedding) != r.dimension {
		return fmt.Errorf("%w: embedding must be %d dimensions, got %d", ErrDimensionMismatch, r.dimension, len(embedding))
	}
	return nil
}

// SearchSimilar returns the limit nearest cases by cosine distance
func (r *CaseRepository) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.SimilarCase, error) {
	if err := r.checkDimension(embedding); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []models.SimilarCase{}, nil
	}

	query := `
		SELECT
			id::text,
			title,
			description,
			metadata,
			settlement_value,
			embedding <=> $1::vector AS distance
		FROM cases
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1::vector
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, formatVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar cases: %w", err)
	}
	defer rows.Close()

	cases := make([]models.SimilarCase, 0, limit)
	for rows.Next() {
		var (
			c        models.SimilarCase
			distance float64
		)
		err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.Description,
			&c.Metadata,
			&c.SettlementValue,
			&distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan similar case: %w", err)
		}
		c.Similarity = similarityFromDistance(distance)
		cases = append(cases, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating similar cases: %w", err)
	}

	return cases, nil
}

// Upsert inserts a corpus case, or replaces the one with the same id
func (r *CaseRepository) Upsert(ctx context.Context, c *models.CorpusCase) error {
	if err := r.checkDimension(c.Embedding); err != nil {
		return err
	}

	query := `
		INSERT INTO cases (id, title, description, metadata, settlement_value, embedding)
		VALUES ($1, $2, $3, $4, $5, $6::vector)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			metadata = EXCLUDED.metadata,
			settlement_value = EXCLUDED.settlement_value,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		c.ID,
		c.Title,
		c.Description,
		c.Metadata,
		c.SettlementValue,
		formatVector(c.Embedding),
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert case: %w", err)
	}

	return nil
}

// Count returns the number of embedded corpus cases
func (r *CaseRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cases WHERE embedding IS NOT NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cases: %w", err)
	}
	return n, nil
}
