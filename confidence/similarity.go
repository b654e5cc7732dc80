package confidence

import (
	"fmt"
	"math"

	"casevalue-backend/currency"
	"casevalue-backend/models"
)

const (
	noComparablesScore       = 0.3
	noComparablesExplanation = "No similar cases available for comparison, resulting in low confidence."
	fullCaseCount            = 5.0
)

// SettlementValue finds the recorded outcome of a comparable case. The direct
// value wins, then amounts in the description, then metadata outcome fields.
func SettlementValue(c models.SimilarCase) (float64, bool) {
	if c.SettlementValue != nil {
		return *c.SettlementValue, true
	}
	if v, ok := currency.ExtractOutcome(c.Description); ok {
		return v, true
	}
	for _, v := range []*float64{c.Metadata.SettlementValue, c.Metadata.VerdictAmount, c.Metadata.JudgmentAmount} {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// Similarity scores how well the comparable cases support the estimate: how
// many there are, how similar they are, and how consistent their outcomes are.
func (s *Scorer) Similarity(similar []models.SimilarCase, pointEstimate float64) models.SimilarityConfidence {
	if len(similar) == 0 {
		return models.SimilarityConfidence{
			Score:       noComparablesScore,
			Explanation: noComparablesExplanation,
		}
	}

	var values []float64
	for _, c := range similar {
		if v, ok := SettlementValue(c); ok {
			values = append(values, v)
		}
	}

	n := len(similar)
	factors := models.SimilarityFactors{
		CaseCount:        math.Min(1, float64(n)/fullCaseCount),
		Similarity:       averageSimilarity(similar),
		ValueConsistency: baseline,
	}

	var valueRange *models.ValueRange
	if len(values) > 0 {
		valueRange = rangeOf(values)
	}

	if len(values) >= 2 {
		if m := valueRange.Mean; m > 0 {
			var variance float64
			for _, v := range values {
				variance += (v - m) * (v - m)
			}
			variance /= float64(len(values))
			factors.ValueConsistency = clamp(1-math.Sqrt(variance)/m, 0, 1)
		}
		switch {
		case pointEstimate < valueRange.Min*0.5 || pointEstimate > valueRange.Max*1.5:
			factors.ValueConsistency *= 0.5
		case pointEstimate >= valueRange.Min && pointEstimate <= valueRange.Max:
			factors.ValueConsistency *= 1.2
		}
		factors.ValueConsistency = clamp(factors.ValueConsistency, 0, 1)
	}

	score := clamp(factors.CaseCount*0.3+factors.Similarity*0.4+factors.ValueConsistency*0.3, 0.1, 1)

	return models.SimilarityConfidence{
		Score:                score,
		Factors:              factors,
		SimilarCaseCount:     n,
		AverageSimilarity:    factors.Similarity,
		SettlementValueRange: valueRange,
		Explanation:          similarityExplanation(n, factors, score, valueRange, len(values), pointEstimate),
	}
}

func rangeOf(values []float64) *models.ValueRange {
	r := &models.ValueRange{Min: values[0], Max: values[0], Mean: mean(values)}
	for _, v := range values[1:] {
		r.Min = math.Min(r.Min, v)
		r.Max = math.Max(r.Max, v)
	}
	return r
}

func similarityExplanation(n int, factors models.SimilarityFactors, score float64,
	r *models.ValueRange, valueCount int, pointEstimate float64) string {
	var count string
	switch {
	case n == 1:
		count = "Only one similar case was found, providing limited comparative data."
	case n < 3:
		count = fmt.Sprintf("%d similar cases were found, providing some comparative data.", n)
	default:
		count = fmt.Sprintf("%d similar cases were found, providing a good basis for comparison.", n)
	}

	var similarity string
	switch {
	case factors.Similarity < 0.3:
		similarity = "The similar cases have low similarity to the current case."
	case factors.Similarity < 0.6:
		similarity = "The similar cases have moderate similarity to the current case."
	default:
		similarity = "The similar cases have high similarity to the current case."
	}

	var consistency string
	switch {
	case valueCount < 2:
		consistency = "Insufficient settlement values to assess consistency."
	case factors.ValueConsistency < 0.3:
		consistency = "Settlement values in similar cases show high variability."
	case factors.ValueConsistency < 0.6:
		consistency = "Settlement values in similar cases show moderate consistency."
	default:
		consistency = "Settlement values in similar cases show high consistency."
	}

	estimate := "No settlement values available from similar cases for comparison."
	if r != nil {
		var position string
		switch {
		case pointEstimate < r.Min*0.5:
			position = "is significantly lower than"
		case pointEstimate > r.Max*1.5:
			position = "is significantly higher than"
		case pointEstimate >= r.Min && pointEstimate <= r.Max:
			position = "falls within"
		default:
			position = "is near"
		}
		estimate = fmt.Sprintf("The predicted settlement value (%s) %s the range of similar cases (%s to %s).",
			currency.Format(pointEstimate), position, currency.Format(r.Min), currency.Format(r.Max))
	}

	var overall string
	switch {
	case score < 0.3:
		overall = "Overall, there is low confidence based on similar case comparison."
	case score < 0.6:
		overall = "Overall, there is moderate confidence based on similar case comparison."
	default:
		overall = "Overall, there is high confidence based on similar case comparison."
	}

	return count + " " + similarity + " " + consistency + " " + estimate + " " + overall
}
