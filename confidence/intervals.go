package confidence

import (
	"fmt"
	"math"
	"strings"

	"casevalue-backend/currency"
	"casevalue-backend/models"
)

const (
	DistributionLogNormal = "log-normal"
	DistributionNormal    = "normal"

	minCV = 0.1
	maxCV = 2.0

	// lowDimension marks a dimension as a cause of wide intervals.
	lowDimension = 0.6
)

// Standard normal quantiles for the two tails of each interval.
const (
	z05 = -1.6448536269514722
	z10 = -1.2815515655446004
	z25 = -0.6744897501960817
)

var intervalTails = []struct {
	level string
	z     float64
}{
	{models.Interval90, z05},
	{models.Interval80, z10},
	{models.Interval50, z25},
}

var (
	stageVariance = map[string]float64{
		models.StagePreFiling:          1.3,
		models.StagePostFiling:         1.2,
		models.StageDiscovery:          1.1,
		models.StageDispositiveMotions: 0.9,
		models.StagePretrial:           0.8,
		models.StageTrial:              0.7,
	}
	rangeVariance = map[string]float64{
		"wide":   1.3,
		"medium": 1.0,
		"narrow": 0.7,
	}
	widthCauses = []struct {
		dim    string
		phrase string
	}{
		{models.DimensionEvidential, "Limited or uncertain evidence"},
		{models.DimensionDataAdequacy, "Incomplete case information"},
		{models.DimensionPrecedential, "Limited precedential cases"},
		{models.DimensionStability, "High sensitivity to changing assumptions"},
		{models.DimensionMethodological, "Uncertain analytical methodology for this case type"},
	}
	widthCaveats = []string{
		"Inherent uncertainty in legal outcomes",
		"Potential for new evidence to emerge",
		"Variability in jury/judge decision-making",
	}
)

// CoefficientOfVariation derives the prediction's relative spread from the
// overall confidence and the case features.
func CoefficientOfVariation(f models.ExtractedFeatures, a models.ConfidenceAssessment) float64 {
	cv := 1 - a.OverallConfidenceScore/10

	switch f.CaseCharacteristics.CaseType.Complexity {
	case models.ComplexityNovel:
		cv *= 1.5
	case models.ComplexityComplex:
		cv *= 1.2
	}

	cv *= 1.5 - f.EvidenceBased.EvidenceStrength.OverallStrength

	if factor, ok := stageVariance[f.ProceduralStrategic.ProceduralPosture.Stage]; ok {
		cv *= factor
	}
	if factor, ok := rangeVariance[f.Composite.LitigationRiskProfile.DamageRangeWidth]; ok {
		cv *= factor
	}

	return clamp(cv, minCV, maxCV)
}

// Statistical fits a distribution around the point estimate and reports the
// 90%, 80% and 50% central intervals. A positive estimate uses a log-normal
// with the estimate as its mean; otherwise a normal floored at zero.
func (s *Scorer) Statistical(pointEstimate float64, f models.ExtractedFeatures,
	a models.ConfidenceAssessment) models.StatisticalConfidence {
	cv := CoefficientOfVariation(f, a)
	out := models.StatisticalConfidence{
		PointEstimate:          pointEstimate,
		CoefficientOfVariation: cv,
		ConfidenceIntervals:    make(map[string]models.Interval, len(intervalTails)),
	}

	if pointEstimate > 0 {
		sigma := math.Sqrt(math.Log(1 + cv*cv))
		mu := math.Log(pointEstimate) - sigma*sigma/2
		out.DistributionType = DistributionLogNormal
		out.DistributionParameters = map[string]float64{"mu": mu, "sigma": sigma}
		for _, t := range intervalTails {
			out.ConfidenceIntervals[t.level] = models.Interval{
				Lower: math.Exp(mu + t.z*sigma),
				Upper: math.Exp(mu - t.z*sigma),
			}
		}
	} else {
		sd := math.Abs(cv * pointEstimate)
		out.DistributionType = DistributionNormal
		out.DistributionParameters = map[string]float64{"mean": pointEstimate, "std_dev": sd}
		for _, t := range intervalTails {
			upper := math.Max(0, pointEstimate-t.z*sd)
			out.ConfidenceIntervals[t.level] = models.Interval{
				Lower: math.Min(math.Max(0, pointEstimate+t.z*sd), upper),
				Upper: upper,
			}
		}
	}

	out.IntervalInterpretation = interpretIntervals(out.ConfidenceIntervals, pointEstimate, a)
	return out
}

func between(i models.Interval) string {
	return fmt.Sprintf("%s and %s", currency.Format(i.Lower), currency.Format(i.Upper))
}

func interpretIntervals(intervals map[string]models.Interval, pointEstimate float64,
	a models.ConfidenceAssessment) models.IntervalInterpretation {
	var out models.IntervalInterpretation

	i90 := intervals[models.Interval90]
	ratio := math.Inf(1)
	if pointEstimate > 0 {
		ratio = i90.Width() / pointEstimate
	}
	var width string
	switch {
	case ratio < 0.5:
		width = "This relatively narrow range indicates high confidence in the prediction."
	case ratio < 1.0:
		width = "This moderate range reflects reasonable confidence in the prediction."
	default:
		width = "This wide range indicates significant uncertainty in the prediction."
	}
	out.Interval90 = "There is a 90% probability that the settlement value will fall between " +
		between(i90) + ". " + width
	out.Interval80 = "There is an 80% probability that the settlement value will fall between " +
		between(intervals[models.Interval80]) + "."
	out.Interval50 = "There is a 50% probability that the settlement value will fall between " +
		between(intervals[models.Interval50]) + ". This is the most likely range for the settlement."

	var causes []string
	for _, c := range widthCauses {
		if score, ok := a.DimensionScores[c.dim]; ok && score < lowDimension {
			causes = append(causes, c.phrase)
		}
	}
	causes = append(causes, widthCaveats...)
	out.FactorsAffectingWidth = "The width of these intervals is primarily affected by: " +
		strings.Join(causes, ", ") + "."

	out.NarrowingIntervals = "To narrow these intervals and increase prediction precision, " +
		"address the improvement recommendations provided in the confidence assessment."
	return out
}
