package confidence

import "casevalue-backend/models"

// Color returns the meter color for a 1-10 score.
func Color(score float64) string {
	switch {
	case score >= 9:
		return "#2E7D32"
	case score >= 7:
		return "#4CAF50"
	case score >= 5:
		return "#FFC107"
	case score >= 3:
		return "#FF9800"
	default:
		return "#F44336"
	}
}

// Visualization packages the consensus and intervals for charting.
func Visualization(consensus models.ConsensusConfidence, stat models.StatisticalConfidence) models.VisualizationData {
	breakdown := models.ConfidenceBreakdown{
		Labels:  make([]string, 0, len(consensusWeights)),
		Scores:  make([]float64, 0, len(consensusWeights)),
		Weights: make([]float64, 0, len(consensusWeights)),
	}
	for _, c := range consensusWeights {
		breakdown.Labels = append(breakdown.Labels, c.name)
		breakdown.Scores = append(breakdown.Scores, consensus.ComponentScores[c.name])
		breakdown.Weights = append(breakdown.Weights, consensus.ComponentWeights[c.name])
	}

	intervals := make(map[string]models.Interval, len(stat.ConfidenceIntervals))
	for k, v := range stat.ConfidenceIntervals {
		intervals[k] = v
	}

	return models.VisualizationData{
		ConfidenceMeter: models.ConfidenceMeter{
			Score:          consensus.Score,
			Classification: consensus.Classification,
			Color:          Color(consensus.Score),
		},
		ConfidenceBreakdown: breakdown,
		ConfidenceIntervals: models.IntervalChart{
			PointEstimate: stat.PointEstimate,
			Intervals:     intervals,
		},
	}
}
