package confidence

import (
	"math"
	"strings"

	"casevalue-backend/models"
)

const (
	baseline         = 0.5
	minDimension     = 0.1
	maxDimension     = 1.0
	detailedWordsMin = 100
)

// MultiDimensional scores the five confidence dimensions, weights them by the
// case's profile and classifies the result on a 1-10 scale.
func (s *Scorer) MultiDimensional(c models.CaseRecord, f models.ExtractedFeatures,
	similar []models.SimilarCase) models.ConfidenceAssessment {
	scores := map[string]float64{
		models.DimensionEvidential:     evidentialScore(f),
		models.DimensionMethodological: methodologicalScore(f),
		models.DimensionPrecedential:   precedentialScore(f, similar),
		models.DimensionDataAdequacy:   dataAdequacyScore(c),
		models.DimensionStability:      stabilityScore(f),
	}

	profile, w := s.profileFor(f.CaseCharacteristics.CaseType)

	var weighted float64
	for _, dim := range models.Dimensions {
		weighted += scores[dim] * w[dim]
	}
	overall := clamp(weighted*10, 1, 10)

	recs := make(map[string][]string)
	for _, dim := range models.Dimensions {
		if scores[dim] < recommendationThreshold {
			recs[dim] = recommendations(dim, c, f, similar)
		}
	}

	return models.ConfidenceAssessment{
		DimensionScores:            scores,
		DimensionWeights:           w.clone(),
		WeightProfile:              profile,
		OverallConfidenceScore:     overall,
		Classification:             Classify(overall),
		ImprovementRecommendations: recs,
	}
}

func evidentialScore(f models.ExtractedFeatures) float64 {
	eb := f.EvidenceBased
	score := eb.EvidenceStrength.OverallStrength - float64(len(eb.EvidenceStrength.EvidenceGaps))*0.05
	score = (score + eb.Witness.Credibility) / 2
	score = (score + math.Max(eb.ExpertOpinion.PlaintiffExpertStrength, eb.ExpertOpinion.DefendantExpertStrength)) / 2
	return clamp(score, minDimension, maxDimension)
}

func methodologicalScore(f models.ExtractedFeatures) float64 {
	ct := f.CaseCharacteristics.CaseType
	score := 0.7
	if ct.PrimaryType != models.CaseTypeUnknown && ct.PrimaryType != "" {
		score += 0.1
	}
	switch ct.Complexity {
	case models.ComplexityNovel:
		score -= 0.2
	case models.ComplexityComplex:
		score -= 0.1
	}
	return clamp(score, minDimension, maxDimension)
}

func precedentialScore(f models.ExtractedFeatures, similar []models.SimilarCase) float64 {
	score := baseline
	if n := len(similar); n > 0 {
		if n >= 3 {
			score += 0.2
		} else {
			score += 0.1
		}
		score += averageSimilarity(similar) * 0.3
	} else {
		score -= 0.2
	}

	j := f.CaseCharacteristics.Jurisdiction
	if j.Jurisdiction != "unknown" && j.Jurisdiction != "" && j.Data != nil {
		score += 0.1
	}
	return clamp(score, minDimension, maxDimension)
}

// missingCriticalFields lists the critical record fields that are empty.
func missingCriticalFields(c models.CaseRecord) []string {
	var missing []string
	for _, field := range []struct {
		name string
		ok   bool
	}{
		{"title", present(c.Title)},
		{"claim_type", present(c.ClaimType)},
		{"facts", present(c.Facts)},
		{"injury_details", present(c.InjuryDetails)},
		{"damages", c.Damages > 0},
	} {
		if !field.ok {
			missing = append(missing, field.name)
		}
	}
	return missing
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func dataAdequacyScore(c models.CaseRecord) float64 {
	score := baseline - float64(len(missingCriticalFields(c)))*0.1

	for _, v := range []string{c.Court, c.DateFiled, c.Judge, c.PlaintiffMedicalExpert, c.DefendantMedicalExpert} {
		if present(v) {
			score += 0.05
		}
	}
	if wordCount(c.Facts) > detailedWordsMin {
		score += 0.1
	}
	if wordCount(c.InjuryDetails) > detailedWordsMin {
		score += 0.1
	}
	return clamp(score, minDimension, maxDimension)
}

func stabilityScore(f models.ExtractedFeatures) float64 {
	co := f.Composite
	score := baseline

	switch co.LitigationRiskProfile.OutcomeUncertainty {
	case "high":
		score -= 0.2
	case "low":
		score += 0.2
	}
	switch co.LitigationRiskProfile.DamageRangeWidth {
	case "wide":
		score -= 0.2
	case "narrow":
		score += 0.2
	}

	if p := co.SettlementPressureIndex.OverallIndex; p > 8 || p < 2 {
		score -= 0.1
	}
	if r := co.CaseStrengthRatio.StrengthRatio; r > 3 || r < 0.3 {
		score += 0.1
	}

	switch f.ProceduralStrategic.ProceduralPosture.Stage {
	case models.StageTrial, models.StagePretrial:
		score += 0.2
	case models.StageDispositiveMotions, models.StageDiscovery:
		score += 0.1
	case models.StagePreFiling:
		score -= 0.1
	}
	return clamp(score, minDimension, maxDimension)
}

func averageSimilarity(similar []models.SimilarCase) float64 {
	values := make([]float64, len(similar))
	for i, c := range similar {
		values[i] = c.Similarity
	}
	return mean(values)
}
