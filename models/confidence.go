package models

import (
	"database/sql/driver"
	"encoding/json"
)

// Confidence dimension names
const (
	DimensionEvidential     = "evidential"
	DimensionMethodological = "methodological"
	DimensionPrecedential   = "precedential"
	DimensionDataAdequacy   = "data_adequacy"
	DimensionStability      = "stability"
)

// Dimensions lists the confidence dimensions in reporting order.
var Dimensions = []string{
	DimensionEvidential,
	DimensionMethodological,
	DimensionPrecedential,
	DimensionDataAdequacy,
	DimensionStability,
}

// Confidence interval levels
const (
	Interval90 = "90%"
	Interval80 = "80%"
	Interval50 = "50%"
)

// ConfidenceAssessment is the multi-dimensional confidence result.
type ConfidenceAssessment struct {
	DimensionScores            map[string]float64  `json:"dimension_scores"`
	DimensionWeights           map[string]float64  `json:"dimension_weights"`
	WeightProfile              string              `json:"weight_profile"`
	OverallConfidenceScore     float64             `json:"overall_confidence_score"` // 1-10
	Classification             string              `json:"classification"`
	ImprovementRecommendations map[string][]string `json:"improvement_recommendations"`
}

// Interval is a closed [Lower, Upper] range of settlement values.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns Upper - Lower.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// IntervalInterpretation explains the statistical intervals in prose.
type IntervalInterpretation struct {
	Interval90            string `json:"90%"`
	Interval80            string `json:"80%"`
	Interval50            string `json:"50%"`
	FactorsAffectingWidth string `json:"factors_affecting_width"`
	NarrowingIntervals    string `json:"narrowing_intervals"`
}

// StatisticalConfidence holds the fitted distribution and its intervals.
type StatisticalConfidence struct {
	PointEstimate          float64                `json:"point_estimate"`
	DistributionType       string                 `json:"distribution_type"` // "log-normal" or "normal"
	DistributionParameters map[string]float64     `json:"distribution_parameters"`
	CoefficientOfVariation float64                `json:"coefficient_of_variation"`
	ConfidenceIntervals    map[string]Interval    `json:"confidence_intervals"`
	IntervalInterpretation IntervalInterpretation `json:"interval_interpretation"`
}

type SimilarityFactors struct {
	CaseCount        float64 `json:"case_count"`
	Similarity       float64 `json:"similarity"`
	ValueConsistency float64 `json:"value_consistency"`
}

type ValueRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// SimilarityConfidence measures how well comparable cases support the estimate.
type SimilarityConfidence struct {
	Score                float64           `json:"similarity_confidence_score"` // 0.1-1
	Factors              SimilarityFactors `json:"factors"`
	SimilarCaseCount     int               `json:"similar_case_count"`
	AverageSimilarity    float64           `json:"average_similarity"`
	SettlementValueRange *ValueRange       `json:"settlement_value_range"`
	Explanation          string            `json:"explanation"`
}

// ConsensusConfidence blends the three confidence methods into one score.
type ConsensusConfidence struct {
	Score            float64            `json:"consensus_confidence_score"` // 1-10
	Classification   string             `json:"confidence_classification"`
	Explanation      string             `json:"explanation"`
	ComponentScores  map[string]float64 `json:"component_scores"`
	ComponentWeights map[string]float64 `json:"component_weights"`
}

type ConfidenceMeter struct {
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
	Color          string  `json:"color"`
}

type ConfidenceBreakdown struct {
	Labels  []string  `json:"labels"`
	Scores  []float64 `json:"scores"`
	Weights []float64 `json:"weights"`
}

type IntervalChart struct {
	PointEstimate float64             `json:"point_estimate"`
	Intervals     map[string]Interval `json:"intervals"`
}

// VisualizationData is presentation-ready confidence data.
type VisualizationData struct {
	ConfidenceMeter     ConfidenceMeter     `json:"confidence_meter"`
	ConfidenceBreakdown ConfidenceBreakdown `json:"confidence_breakdown"`
	ConfidenceIntervals IntervalChart       `json:"confidence_intervals"`
}

// CombinedConfidence is the full confidence report for a prediction.
type CombinedConfidence struct {
	Consensus         ConsensusConfidence   `json:"consensus"`
	MultiDimensional  ConfidenceAssessment  `json:"multi_dimensional"`
	Statistical       StatisticalConfidence `json:"statistical"`
	Similarity        SimilarityConfidence  `json:"similarity"`
	VisualizationData VisualizationData     `json:"visualization_data"`
}

// ConfidenceSummary is the headline confidence of an analysis. It is the
// only confidence block on failed and no_comparables results.
type ConfidenceSummary struct {
	OverallScore   float64 `json:"overall_score"`
	Classification string  `json:"classification"`
	Explanation    string  `json:"explanation"`
}

// Value implements driver.Valuer for JSONB
func (s ConfidenceSummary) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *ConfidenceSummary) Scan(value interface{}) error {
	return scanJSONB(value, s)
}
