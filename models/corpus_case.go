package models

import (
	"time"

	"github.com/google/uuid"
)

// CorpusCase is a historical case stored with its embedding for retrieval
type CorpusCase struct {
	ID              uuid.UUID    `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Metadata        CaseMetadata `json:"metadata"`
	SettlementValue *float64     `json:"settlement_value,omitempty"`
	Embedding       []float32    `json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
}
