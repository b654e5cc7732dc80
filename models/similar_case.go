package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SimilarCase is a historical case returned by retrieval.
type SimilarCase struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Similarity  float64      `json:"similarity"` // 0-1
	Description string       `json:"description"`
	Metadata    CaseMetadata `json:"metadata"`

	// SettlementValue is the recorded outcome when the corpus stores one directly.
	SettlementValue *float64 `json:"settlement_value,omitempty"`

	// Set by re-ranking
	OriginalSimilarity *float64 `json:"original_similarity,omitempty"`
	FeatureSimilarity  *float64 `json:"feature_similarity,omitempty"`
}

// CaseMetadata carries the structured attributes stored with a corpus case.
type CaseMetadata struct {
	CaseType        string         `json:"case_type,omitempty"`
	Jurisdiction    string         `json:"jurisdiction,omitempty"`
	Damages         *float64       `json:"damages,omitempty"`
	InjuryTypes     []string       `json:"injury_types,omitempty"`
	SettlementValue *float64       `json:"settlement_value,omitempty"`
	VerdictAmount   *float64       `json:"verdict_amount,omitempty"`
	JudgmentAmount  *float64       `json:"judgment_amount,omitempty"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// Value implements driver.Valuer for JSONB
func (m CaseMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *CaseMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = CaseMetadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata type %T", value)
	}

	if len(bytes) == 0 {
		*m = CaseMetadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}
