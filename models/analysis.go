package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus represents the outcome of a case analysis
type AnalysisStatus string

const (
	AnalysisStatusCompleted     AnalysisStatus = "completed"
	AnalysisStatusNoComparables AnalysisStatus = "no_comparables"
	AnalysisStatusFailed        AnalysisStatus = "failed"
)

// SimilarCases is the ranked comparable list stored with an analysis
type SimilarCases []SimilarCase

// Value implements driver.Valuer for JSONB
func (s SimilarCases) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]SimilarCase{})
	}
	return json.Marshal([]SimilarCase(s))
}

// Scan implements sql.Scanner for JSONB
func (s *SimilarCases) Scan(value interface{}) error {
	*s = make(SimilarCases, 0)
	return scanJSONB(value, (*[]SimilarCase)(s))
}

// Value implements driver.Valuer for JSONB
func (f ExtractedFeatures) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *ExtractedFeatures) Scan(value interface{}) error {
	return scanJSONB(value, f)
}

// Value implements driver.Valuer for JSONB
func (c CombinedConfidence) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *CombinedConfidence) Scan(value interface{}) error {
	return scanJSONB(value, c)
}

// scanJSONB decodes a JSONB column; NULL and empty values leave dst untouched.
func scanJSONB(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB type %T", value)
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, dst)
}

// AnalysisResult is the output of one settlement analysis
type AnalysisResult struct {
	ID                  uuid.UUID           `json:"id"`
	Status              AnalysisStatus      `json:"status"`
	CaseTitle           string              `json:"case_title"`
	Prediction          string              `json:"prediction"`
	PredictedSettlement float64             `json:"predicted_settlement"`
	Summary             ConfidenceSummary   `json:"summary"`
	Confidence          *CombinedConfidence `json:"confidence,omitempty"`
	SimilarCases        SimilarCases        `json:"similar_cases"`
	ExtractedFeatures   *ExtractedFeatures  `json:"extracted_features,omitempty"`
	PromptChars         int                 `json:"prompt_chars"`
	ReportPath          *string             `json:"report_path,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}
