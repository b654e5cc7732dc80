package confidence

import (
	"casevalue-backend/features"
	"casevalue-backend/models"
)

const (
	recommendationThreshold = 0.7
	maxRecommendations      = 3
)

var generalRecommendations = map[string][]string{
	models.DimensionEvidential: {
		"Obtain additional witness statements to corroborate key facts",
		"Secure documentary evidence supporting damage claims",
		"Consider retaining expert witnesses to strengthen technical aspects",
		"Obtain medical records or treatment documentation if applicable",
		"Gather photographic or video evidence if available",
	},
	models.DimensionMethodological: {
		"Apply multiple analytical frameworks to cross-validate findings",
		"Conduct sensitivity analysis on key assumptions",
		"Review recent literature on settlement valuation methodologies",
		"Consult with colleagues on methodological approach",
		"Document and validate key analytical assumptions",
	},
	models.DimensionPrecedential: {
		"Research recent settlements or verdicts in the same jurisdiction",
		"Identify cases with similar fact patterns and damage profiles",
		"Consult specialized legal databases for precedential cases",
		"Review jury verdict reporters for comparable cases",
		"Analyze trends in settlements for this case type over time",
	},
	models.DimensionDataAdequacy: {
		"Obtain complete medical records and treatment history",
		"Gather detailed information about economic damages",
		"Document all aspects of non-economic damages",
		"Collect information about all parties involved",
		"Obtain complete procedural history of the case",
	},
	models.DimensionStability: {
		"Conduct additional scenario analysis to understand prediction sensitivity",
		"Identify and monitor key variables that could change prediction",
		"Establish regular review points to update prediction as case evolves",
		"Document assumptions that could change over time",
		"Develop contingency plans for significant case developments",
	},
}

// recommendations lists up to three improvements for a weak dimension.
// Case-specific items come before the general pool.
func recommendations(dim string, c models.CaseRecord, f models.ExtractedFeatures, similar []models.SimilarCase) []string {
	var recs []string

	switch dim {
	case models.DimensionEvidential:
		for _, gap := range f.EvidenceBased.EvidenceStrength.EvidenceGaps {
			recs = append(recs, "Address evidence gap: "+features.Label(gap))
		}
	case models.DimensionMethodological:
		switch f.CaseCharacteristics.CaseType.Complexity {
		case models.ComplexityComplex, models.ComplexityNovel:
			recs = append(recs,
				"Consult with specialists experienced in this specific case type",
				"Research methodological approaches for similar complex cases")
		}
	case models.DimensionPrecedential:
		if len(similar) == 0 {
			recs = append(recs, "Search for additional similar cases in the jurisdiction")
		}
	case models.DimensionDataAdequacy:
		for _, field := range missingCriticalFields(c) {
			recs = append(recs, "Provide missing information: "+features.Label(field))
		}
		if present(c.Facts) && wordCount(c.Facts) < detailedWordsMin {
			recs = append(recs, "Provide more detailed description of case facts")
		}
		if present(c.InjuryDetails) && wordCount(c.InjuryDetails) < detailedWordsMin {
			recs = append(recs, "Provide more detailed description of injuries or damages")
		}
	case models.DimensionStability:
		rp := f.Composite.LitigationRiskProfile
		if rp.OutcomeUncertainty == "high" {
			recs = append(recs, "Identify and address key sources of outcome uncertainty")
		}
		if rp.DamageRangeWidth == "wide" {
			recs = append(recs, "Narrow damage estimates through additional documentation")
		}
	}

	recs = append(recs, generalRecommendations[dim]...)
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
