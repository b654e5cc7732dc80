package confidence

import (
	"fmt"

	"casevalue-backend/models"
)

// Consensus component keys, in reporting order.
const (
	ComponentMultiDimensional = "multi_dimensional"
	ComponentStatistical      = "statistical"
	ComponentSimilarity       = "similarity"
)

var consensusWeights = []struct {
	name   string
	label  string
	weight float64
}{
	{ComponentMultiDimensional, "multi-dimensional assessment", 0.5},
	{ComponentStatistical, "statistical analysis", 0.3},
	{ComponentSimilarity, "similar case comparison", 0.2},
}

// IntervalScore converts the 90% interval's relative width into a 0.1-1
// score; narrower intervals score higher.
func IntervalScore(stat models.StatisticalConfidence) float64 {
	i90, ok := stat.ConfidenceIntervals[models.Interval90]
	if !ok || stat.PointEstimate <= 0 {
		return baseline
	}
	return clamp(1/(1+i90.Width()/stat.PointEstimate), 0.1, 1)
}

// Consensus blends the three methods into a single 1-10 score.
func (s *Scorer) Consensus(multi models.ConfidenceAssessment, stat models.StatisticalConfidence,
	sim models.SimilarityConfidence) models.ConsensusConfidence {
	components := map[string]float64{
		ComponentMultiDimensional: multi.OverallConfidenceScore / 10,
		ComponentStatistical:      IntervalScore(stat),
		ComponentSimilarity:       sim.Score,
	}

	var blended float64
	scores := make(map[string]float64, len(consensusWeights))
	weights := make(map[string]float64, len(consensusWeights))
	for _, c := range consensusWeights {
		blended += components[c.name] * c.weight
		scores[c.name] = components[c.name] * 10
		weights[c.name] = c.weight
	}
	score := clamp(blended, 0.1, 1) * 10
	classification := Classify(score)

	return models.ConsensusConfidence{
		Score:            score,
		Classification:   classification,
		Explanation:      consensusExplanation(components, score, classification),
		ComponentScores:  scores,
		ComponentWeights: weights,
	}
}

func consensusExplanation(components map[string]float64, score float64, classification string) string {
	strongest, weakest := consensusWeights[0], consensusWeights[0]
	for _, c := range consensusWeights[1:] {
		if components[c.name] > components[strongest.name] {
			strongest = c
		}
		if components[c.name] < components[weakest.name] {
			weakest = c
		}
	}

	md := band(components[ComponentMultiDimensional],
		"multi-dimensional assessment indicates low confidence",
		"multi-dimensional assessment indicates moderate confidence",
		"multi-dimensional assessment indicates high confidence")
	st := band(components[ComponentStatistical],
		"statistical analysis shows wide prediction intervals",
		"statistical analysis shows moderate prediction intervals",
		"statistical analysis shows narrow prediction intervals")
	sm := band(components[ComponentSimilarity],
		"similar case comparison provides limited support",
		"similar case comparison provides moderate support",
		"similar case comparison provides strong support")

	return fmt.Sprintf("The overall confidence in this prediction is classified as '%s' "+
		"with a score of %.1f/10. This consensus score combines multiple "+
		"confidence measures where the %s provides the strongest support, while "+
		"the %s contributes less certainty. Specifically, the %s, %s, and %s.",
		classification, score, strongest.label, weakest.label, md, st, sm)
}

// band picks low below 0.3, moderate below 0.6, else high.
func band(v float64, low, moderate, high string) string {
	switch {
	case v < 0.3:
		return low
	case v < 0.6:
		return moderate
	default:
		return high
	}
}
