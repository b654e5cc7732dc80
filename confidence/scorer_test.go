package confidence

import (
	"math"
	"strings"
	"testing"
	"time"

	"casevalue-backend/features"
	"casevalue-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func TestClassify_Partition(t *testing.T) {
	labels := map[string]bool{}
	for _, c := range classifications {
		labels[c.label] = true
	}

	for score := -2.0; score <= 12.0; score += 0.05 {
		got := Classify(score)
		require.True(t, labels[got], "score %.2f produced %q", score, got)

		n := math.Round(score)
		switch {
		case n >= 9:
			assert.Equal(t, "Very High Confidence", got, "score %.2f", score)
		case n >= 7:
			assert.Equal(t, "High Confidence", got, "score %.2f", score)
		case n >= 5:
			assert.Equal(t, "Moderate Confidence", got, "score %.2f", score)
		case n >= 3:
			assert.Equal(t, "Low Confidence", got, "score %.2f", score)
		default:
			assert.Equal(t, "Very Low Confidence", got, "score %.2f", score)
		}
	}

	assert.Equal(t, "Very Low Confidence", Classify(math.NaN()))
	assert.Equal(t, "High Confidence", Classify(8.4))
	assert.Equal(t, "Very High Confidence", Classify(8.5))
}

func TestDataAdequacy(t *testing.T) {
	c := models.CaseRecord{
		Title:                  "Doe v. Roe",
		ClaimType:              "personal injury",
		Facts:                  words(150),
		InjuryDetails:          "Broken wrist.",
		Damages:                12000,
		Court:                  "Travis County District Court, Texas",
		DateFiled:              "2024-02-01",
		Judge:                  "Hon. A. Smith",
		PlaintiffMedicalExpert: "Dr. P",
		DefendantMedicalExpert: "Dr. D",
	}
	assert.InDelta(t, 0.85, dataAdequacyScore(c), 1e-9)

	assert.InDelta(t, 0.1, dataAdequacyScore(models.CaseRecord{}), 1e-9)
	assert.Equal(t, []string{"title", "claim_type", "facts", "injury_details", "damages"},
		missingCriticalFields(models.CaseRecord{}))
}

func TestWeightProfileResolution(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name string
		ct   models.CaseTypeFeatures
		want string
	}{
		{"subtype first", models.CaseTypeFeatures{PrimaryType: models.CaseTypePersonalInjury, Subtype: "medical_malpractice"}, "medical_malpractice"},
		{"primary type", models.CaseTypeFeatures{PrimaryType: models.CaseTypePersonalInjury, Subtype: "motor_vehicle"}, models.CaseTypePersonalInjury},
		{"contract", models.CaseTypeFeatures{PrimaryType: models.CaseTypeContractDispute, Subtype: "breach"}, models.CaseTypeContractDispute},
		{"unknown", models.CaseTypeFeatures{PrimaryType: models.CaseTypeUnknown, Subtype: "unknown"}, DefaultProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, w := s.profileFor(tt.ct)
			assert.Equal(t, tt.want, name)
			var sum float64
			for _, v := range w {
				sum += v
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}

	custom := NewScorer(WithWeightProfiles(map[string]Weights{
		"employment": weights(1, 0, 0, 0, 0),
	}))
	name, w := custom.profileFor(models.CaseTypeFeatures{PrimaryType: models.CaseTypeEmployment})
	assert.Equal(t, "employment", name)
	assert.Equal(t, 1.0, w[models.DimensionEvidential])
	name, _ = custom.profileFor(models.CaseTypeFeatures{PrimaryType: models.CaseTypeContractDispute})
	assert.Equal(t, DefaultProfile, name)

	t.Run("injected profiles are normalized", func(t *testing.T) {
		s := NewScorer(WithWeightProfiles(map[string]Weights{
			models.CaseTypeEmployment: weights(2, 2, 2, 2, 2),
			DefaultProfile:            weights(0, 0, 0, 0, 0),
		}))

		_, w := s.profileFor(models.CaseTypeFeatures{PrimaryType: models.CaseTypeEmployment})
		for _, dim := range models.Dimensions {
			assert.InDelta(t, 0.2, w[dim], 1e-9, dim)
		}

		name, w := s.profileFor(models.CaseTypeFeatures{PrimaryType: models.CaseTypeUnknown})
		assert.Equal(t, DefaultProfile, name)
		var sum float64
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)

		c := models.CaseRecord{ClaimType: "employment discrimination"}
		ex := features.NewExtractor()
		a := s.MultiDimensional(c, ex.Extract(c), nil)
		assert.LessOrEqual(t, a.OverallConfidenceScore, 10.0)
	})
}

func TestMultiDimensional(t *testing.T) {
	s := NewScorer()
	ex := features.NewExtractor(features.WithClock(func() time.Time {
		return time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	}))

	t.Run("empty record", func(t *testing.T) {
		c := models.CaseRecord{}
		a := s.MultiDimensional(c, ex.Extract(c), nil)

		for _, dim := range models.Dimensions {
			v, ok := a.DimensionScores[dim]
			require.True(t, ok, dim)
			assert.GreaterOrEqual(t, v, 0.1, dim)
			assert.LessOrEqual(t, v, 1.0, dim)
		}
		assert.GreaterOrEqual(t, a.OverallConfidenceScore, 1.0)
		assert.LessOrEqual(t, a.OverallConfidenceScore, 10.0)
		assert.Equal(t, DefaultProfile, a.WeightProfile)
		assert.Equal(t, Classify(a.OverallConfidenceScore), a.Classification)

		// Unknown type, standard complexity.
		assert.InDelta(t, 0.7, a.DimensionScores[models.DimensionMethodological], 1e-9)
		// No comparables and no jurisdiction data.
		assert.InDelta(t, 0.3, a.DimensionScores[models.DimensionPrecedential], 1e-9)
		assert.Equal(t, []string{
			"Search for additional similar cases in the jurisdiction",
			"Research recent settlements or verdicts in the same jurisdiction",
			"Identify cases with similar fact patterns and damage profiles",
		}, a.ImprovementRecommendations[models.DimensionPrecedential])
		assert.Equal(t, []string{
			"Provide missing information: Title",
			"Provide missing information: Claim Type",
			"Provide missing information: Facts",
		}, a.ImprovementRecommendations[models.DimensionDataAdequacy])
		assert.NotContains(t, a.ImprovementRecommendations, models.DimensionMethodological)
	})

	t.Run("comparables raise precedential confidence", func(t *testing.T) {
		c := models.CaseRecord{Court: "Travis County District Court, Texas", ClaimType: "personal injury"}
		similar := []models.SimilarCase{{Similarity: 0.9}, {Similarity: 0.8}, {Similarity: 0.7}}
		a := s.MultiDimensional(c, ex.Extract(c), similar)

		// 0.5 + 0.2 + 0.8*0.3 + 0.1
		assert.InDelta(t, 1.0, a.DimensionScores[models.DimensionPrecedential], 1e-9)
		assert.Equal(t, models.CaseTypePersonalInjury, a.WeightProfile)
		assert.NotContains(t, a.ImprovementRecommendations, models.DimensionPrecedential)
	})

	t.Run("evidence gaps lead evidential recommendations", func(t *testing.T) {
		c := models.CaseRecord{Facts: "There was no witness and the accounts conflict."}
		a := s.MultiDimensional(c, ex.Extract(c), nil)

		recs := a.ImprovementRecommendations[models.DimensionEvidential]
		require.Len(t, recs, 3)
		assert.Equal(t, "Address evidence gap: No Witnesses", recs[0])
		assert.Equal(t, "Address evidence gap: Conflicting Evidence", recs[1])
		assert.Equal(t, "Obtain additional witness statements to corroborate key facts", recs[2])
	})
}

func TestCoefficientOfVariation(t *testing.T) {
	var f models.ExtractedFeatures
	f.CaseCharacteristics.CaseType.Complexity = models.ComplexityNovel
	f.EvidenceBased.EvidenceStrength.OverallStrength = 0.5
	f.ProceduralStrategic.ProceduralPosture.Stage = models.StageTrial
	f.Composite.LitigationRiskProfile.DamageRangeWidth = "narrow"

	a := models.ConfidenceAssessment{OverallConfidenceScore: 5}
	// 0.5 * 1.5 * 1.0 * 0.7 * 0.7
	assert.InDelta(t, 0.3675, CoefficientOfVariation(f, a), 1e-9)

	a.OverallConfidenceScore = 10
	assert.Equal(t, minCV, CoefficientOfVariation(f, a))

	a.OverallConfidenceScore = 1
	f.EvidenceBased.EvidenceStrength.OverallStrength = 0.1
	f.ProceduralStrategic.ProceduralPosture.Stage = models.StagePreFiling
	f.Composite.LitigationRiskProfile.DamageRangeWidth = "wide"
	assert.Equal(t, maxCV, CoefficientOfVariation(f, a))
}

func assertNested(t *testing.T, stat models.StatisticalConfidence) {
	t.Helper()
	i90 := stat.ConfidenceIntervals[models.Interval90]
	i80 := stat.ConfidenceIntervals[models.Interval80]
	i50 := stat.ConfidenceIntervals[models.Interval50]

	for _, i := range []models.Interval{i90, i80, i50} {
		assert.GreaterOrEqual(t, i.Lower, 0.0)
		assert.LessOrEqual(t, i.Lower, i.Upper)
	}
	assert.LessOrEqual(t, i90.Lower, i80.Lower)
	assert.LessOrEqual(t, i80.Lower, i50.Lower)
	assert.LessOrEqual(t, i50.Upper, i80.Upper)
	assert.LessOrEqual(t, i80.Upper, i90.Upper)
}

func TestStatistical(t *testing.T) {
	s := NewScorer()
	ex := features.NewExtractor()

	feats := map[string]models.ExtractedFeatures{
		"empty": ex.Extract(models.CaseRecord{}),
		"novel": ex.Extract(models.CaseRecord{ClaimType: "employment", Facts: words(1200)}),
	}
	assessments := map[string]models.ConfidenceAssessment{
		"low":  {OverallConfidenceScore: 1},
		"mid":  {OverallConfidenceScore: 5},
		"high": {OverallConfidenceScore: 10},
	}

	for fname, f := range feats {
		for aname, a := range assessments {
			for _, pe := range []float64{-5000, 0, 1, 60000, 2_500_000} {
				stat := s.Statistical(pe, f, a)
				t.Run(fname+"/"+aname, func(t *testing.T) {
					assertNested(t, stat)
					require.Len(t, stat.ConfidenceIntervals, 3)
					if pe > 0 {
						assert.Equal(t, DistributionLogNormal, stat.DistributionType)
						assert.Contains(t, stat.DistributionParameters, "mu")
						assert.Contains(t, stat.DistributionParameters, "sigma")
						i50 := stat.ConfidenceIntervals[models.Interval50]
						assert.LessOrEqual(t, i50.Lower, pe)
						assert.GreaterOrEqual(t, i50.Upper, pe)
					} else {
						assert.Equal(t, DistributionNormal, stat.DistributionType)
					}
				})
			}
		}
	}
}

func TestStatistical_LogNormalMean(t *testing.T) {
	s := NewScorer()
	stat := s.Statistical(60000, models.ExtractedFeatures{}, models.ConfidenceAssessment{OverallConfidenceScore: 5})

	mu := stat.DistributionParameters["mu"]
	sigma := stat.DistributionParameters["sigma"]
	assert.InDelta(t, 60000, math.Exp(mu+sigma*sigma/2), 1e-6)
	assert.InDelta(t, math.Sqrt(math.Log(1+stat.CoefficientOfVariation*stat.CoefficientOfVariation)), sigma, 1e-12)
}

func TestIntervalInterpretation(t *testing.T) {
	s := NewScorer()
	a := models.ConfidenceAssessment{
		OverallConfidenceScore: 9,
		DimensionScores: map[string]float64{
			models.DimensionEvidential:     0.4,
			models.DimensionMethodological: 0.9,
			models.DimensionPrecedential:   0.3,
			models.DimensionDataAdequacy:   0.8,
			models.DimensionStability:      0.7,
		},
	}
	var f models.ExtractedFeatures
	f.EvidenceBased.EvidenceStrength.OverallStrength = 0.9
	f.ProceduralStrategic.ProceduralPosture.Stage = models.StageTrial
	f.Composite.LitigationRiskProfile.DamageRangeWidth = "narrow"

	stat := s.Statistical(100000, f, a)
	in := stat.IntervalInterpretation

	assert.True(t, strings.HasPrefix(in.Interval90, "There is a 90% probability that the settlement value will fall between $"))
	assert.True(t, strings.HasSuffix(in.Interval90, "This relatively narrow range indicates high confidence in the prediction."))
	assert.True(t, strings.HasPrefix(in.Interval80, "There is an 80% probability"))
	assert.True(t, strings.HasSuffix(in.Interval50, "This is the most likely range for the settlement."))
	assert.Equal(t, "The width of these intervals is primarily affected by: Limited or uncertain evidence, "+
		"Limited precedential cases, Inherent uncertainty in legal outcomes, "+
		"Potential for new evidence to emerge, Variability in jury/judge decision-making.", in.FactorsAffectingWidth)
	assert.Equal(t, "To narrow these intervals and increase prediction precision, "+
		"address the improvement recommendations provided in the confidence assessment.", in.NarrowingIntervals)

	zero := s.Statistical(0, f, a).IntervalInterpretation
	assert.Contains(t, zero.Interval90, "between $0.00 and $0.00")
	assert.True(t, strings.HasSuffix(zero.Interval90, "This wide range indicates significant uncertainty in the prediction."))
}

func TestSimilarity_NoComparables(t *testing.T) {
	got := NewScorer().Similarity(nil, 60000)

	assert.Equal(t, 0.3, got.Score)
	assert.Equal(t, models.SimilarityFactors{}, got.Factors)
	assert.Zero(t, got.SimilarCaseCount)
	assert.Nil(t, got.SettlementValueRange)
	assert.Equal(t, "No similar cases available for comparison, resulting in low confidence.", got.Explanation)
}

func TestSimilarity_SettledAndAwarded(t *testing.T) {
	similar := []models.SimilarCase{
		{ID: "a", Similarity: 0.8, Description: "After mediation the case settled for $50,000."},
		{ID: "b", Similarity: 0.7, Description: "The jury awarded $70,000 to the plaintiff."},
	}
	got := NewScorer().Similarity(similar, 60000)

	require.NotNil(t, got.SettlementValueRange)
	assert.Equal(t, 50000.0, got.SettlementValueRange.Min)
	assert.Equal(t, 70000.0, got.SettlementValueRange.Max)
	assert.Equal(t, 60000.0, got.SettlementValueRange.Mean)

	// (1 - 10000/60000) * 1.2 boosted into range, then clamped.
	assert.InDelta(t, 1.0, got.Factors.ValueConsistency, 1e-9)
	assert.InDelta(t, 0.4, got.Factors.CaseCount, 1e-9)
	assert.InDelta(t, 0.75, got.Factors.Similarity, 1e-9)
	assert.InDelta(t, 0.72, got.Score, 1e-9)
	assert.Equal(t, 2, got.SimilarCaseCount)

	assert.Equal(t, "2 similar cases were found, providing some comparative data. "+
		"The similar cases have high similarity to the current case. "+
		"Settlement values in similar cases show high consistency. "+
		"The predicted settlement value ($60,000.00) falls within the range of similar cases ($50,000.00 to $70,000.00). "+
		"Overall, there is high confidence based on similar case comparison.", got.Explanation)
}

func TestSimilarity_OutsideRangeHalvesConsistency(t *testing.T) {
	similar := []models.SimilarCase{
		{Similarity: 0.5, SettlementValue: ptr(50000)},
		{Similarity: 0.5, SettlementValue: ptr(50000)},
	}
	got := NewScorer().Similarity(similar, 200000)
	assert.InDelta(t, 0.5, got.Factors.ValueConsistency, 1e-9)
	assert.Contains(t, got.Explanation, "is significantly higher than")
}

func TestSettlementValue(t *testing.T) {
	tests := []struct {
		name   string
		c      models.SimilarCase
		want   float64
		wantOK bool
	}{
		{"direct value wins", models.SimilarCase{SettlementValue: ptr(10), Description: "settled for $99"}, 10, true},
		{"largest description amount", models.SimilarCase{Description: "Paid $1,000 then $2,500."}, 2500, true},
		{"demand outranks settlement phrase", models.SimilarCase{Description: "Plaintiff demanded $500,000 before trial; the case settled for $50,000."}, 500000, true},
		{"metadata settlement", models.SimilarCase{Metadata: models.CaseMetadata{SettlementValue: ptr(30), VerdictAmount: ptr(40)}}, 30, true},
		{"metadata verdict", models.SimilarCase{Metadata: models.CaseMetadata{VerdictAmount: ptr(40), JudgmentAmount: ptr(50)}}, 40, true},
		{"metadata judgment", models.SimilarCase{Metadata: models.CaseMetadata{JudgmentAmount: ptr(50)}}, 50, true},
		{"nothing", models.SimilarCase{Description: "dismissed"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SettlementValue(tt.c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsensus(t *testing.T) {
	s := NewScorer()
	multi := models.ConfidenceAssessment{OverallConfidenceScore: 8}
	sim := models.SimilarityConfidence{Score: 0.2}

	t.Run("non-positive estimate uses neutral interval score", func(t *testing.T) {
		stat := s.Statistical(0, models.ExtractedFeatures{}, multi)
		got := s.Consensus(multi, stat, sim)

		// 0.5*0.8 + 0.3*0.5 + 0.2*0.2
		assert.InDelta(t, 5.9, got.Score, 1e-9)
		assert.Equal(t, "Moderate Confidence", got.Classification)
		assert.InDelta(t, 8.0, got.ComponentScores[ComponentMultiDimensional], 1e-9)
		assert.InDelta(t, 5.0, got.ComponentScores[ComponentStatistical], 1e-9)
		assert.InDelta(t, 2.0, got.ComponentScores[ComponentSimilarity], 1e-9)
		assert.Equal(t, map[string]float64{
			ComponentMultiDimensional: 0.5,
			ComponentStatistical:      0.3,
			ComponentSimilarity:       0.2,
		}, got.ComponentWeights)
		assert.Equal(t, "The overall confidence in this prediction is classified as 'Moderate Confidence' "+
			"with a score of 5.9/10. This consensus score combines multiple confidence measures where the "+
			"multi-dimensional assessment provides the strongest support, while the similar case comparison "+
			"contributes less certainty. Specifically, the multi-dimensional assessment indicates high confidence, "+
			"statistical analysis shows moderate prediction intervals, and similar case comparison provides limited support.",
			got.Explanation)
	})

	t.Run("interval score", func(t *testing.T) {
		stat := models.StatisticalConfidence{
			PointEstimate:       100,
			ConfidenceIntervals: map[string]models.Interval{models.Interval90: {Lower: 50, Upper: 150}},
		}
		assert.InDelta(t, 0.5, IntervalScore(stat), 1e-9)

		stat.ConfidenceIntervals[models.Interval90] = models.Interval{Lower: 0, Upper: 10000}
		assert.InDelta(t, 0.1, IntervalScore(stat), 1e-9)
	})
}

func TestCalculateCombinedConfidence(t *testing.T) {
	s := NewScorer()
	ex := features.NewExtractor()
	c := models.CaseRecord{
		Title:         "Doe v. Acme",
		ClaimType:     "personal injury - motor vehicle",
		Court:         "Travis County District Court, Texas",
		Facts:         "The defendant company's truck struck the plaintiff. An eyewitness saw the collision and the police report is consistent.",
		InjuryDetails: "Fracture requiring surgery.",
		InjuryTypes:   []string{"fracture"},
		Damages:       30000,
	}
	similar := []models.SimilarCase{
		{ID: "1", Similarity: 0.82, Description: "Rear-end collision settled for $75,000."},
		{ID: "2", Similarity: 0.76, Description: "Truck accident; settlement of $90,000."},
		{ID: "3", Similarity: 0.64, Metadata: models.CaseMetadata{VerdictAmount: ptr(110000)}},
	}

	got := s.CalculateCombinedConfidence(c, ex.Extract(c), 85000, similar)

	assert.GreaterOrEqual(t, got.Consensus.Score, 1.0)
	assert.LessOrEqual(t, got.Consensus.Score, 10.0)
	assert.Equal(t, Classify(got.Consensus.Score), got.Consensus.Classification)
	assert.Equal(t, models.CaseTypePersonalInjury, got.MultiDimensional.WeightProfile)
	assert.Equal(t, 3, got.Similarity.SimilarCaseCount)
	assertNested(t, got.Statistical)

	viz := got.VisualizationData
	assert.Equal(t, got.Consensus.Score, viz.ConfidenceMeter.Score)
	assert.Equal(t, Color(got.Consensus.Score), viz.ConfidenceMeter.Color)
	assert.Equal(t, []string{ComponentMultiDimensional, ComponentStatistical, ComponentSimilarity}, viz.ConfidenceBreakdown.Labels)
	assert.Equal(t, []float64{0.5, 0.3, 0.2}, viz.ConfidenceBreakdown.Weights)
	assert.Equal(t, 85000.0, viz.ConfidenceIntervals.PointEstimate)
	assert.Len(t, viz.ConfidenceIntervals.Intervals, 3)
}

func TestColor(t *testing.T) {
	assert.Equal(t, "#2E7D32", Color(9))
	assert.Equal(t, "#4CAF50", Color(7.5))
	assert.Equal(t, "#FFC107", Color(5))
	assert.Equal(t, "#FF9800", Color(3))
	assert.Equal(t, "#F44336", Color(2.99))
}
