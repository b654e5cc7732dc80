// Package confidence turns a settlement point estimate into an explainable
// confidence report. Four methods are combined: a weighted multi-dimensional
// assessment, statistical intervals, agreement with comparable cases, and a
// consensus of the three.
package confidence

import (
	"math"

	"casevalue-backend/models"

	"github.com/sirupsen/logrus"
)

// Scorer computes confidence reports. It holds only read-only tables and is
// safe for concurrent use.
type Scorer struct {
	profiles map[string]Weights
	log      *logrus.Entry
}

// Option is a functional option for Scorer
type Option func(*Scorer)

// WithWeightProfiles replaces the dimension weight profiles. Each profile is
// rescaled to sum to 1; profiles with no positive weight are dropped. When no
// usable DefaultProfile entry is given the built-in default is kept.
func WithWeightProfiles(profiles map[string]Weights) Option {
	return func(s *Scorer) {
		copied := make(map[string]Weights, len(profiles))
		for name, w := range profiles {
			if n, ok := w.normalized(); ok {
				copied[name] = n
			} else {
				s.log.WithField("profile", name).Warn("Ignoring weight profile without positive weights")
			}
		}
		if _, ok := copied[DefaultProfile]; !ok {
			copied[DefaultProfile] = s.profiles[DefaultProfile]
		}
		s.profiles = copied
	}
}

// WithLogger sets the logger
func WithLogger(log *logrus.Entry) Option {
	return func(s *Scorer) {
		s.log = log
	}
}

// NewScorer creates a scorer with the default weight profiles.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		profiles: DefaultWeightProfiles(),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CalculateCombinedConfidence runs every method for one prediction. The
// similar cases drive both the precedential dimension and the
// similarity-based score.
func (s *Scorer) CalculateCombinedConfidence(c models.CaseRecord, f models.ExtractedFeatures,
	pointEstimate float64, similar []models.SimilarCase) models.CombinedConfidence {
	multi := s.MultiDimensional(c, f, similar)
	stat := s.Statistical(pointEstimate, f, multi)
	sim := s.Similarity(similar, pointEstimate)
	consensus := s.Consensus(multi, stat, sim)

	s.log.WithFields(logrus.Fields{
		"weight_profile": multi.WeightProfile,
		"overall":        multi.OverallConfidenceScore,
		"consensus":      consensus.Score,
		"similar_cases":  len(similar),
	}).Debug("Confidence calculated")

	return models.CombinedConfidence{
		Consensus:         consensus,
		MultiDimensional:  multi,
		Statistical:       stat,
		Similarity:        sim,
		VisualizationData: Visualization(consensus, stat),
	}
}

var classifications = []struct {
	floor int
	label string
}{
	{9, "Very High Confidence"},
	{7, "High Confidence"},
	{5, "Moderate Confidence"},
	{3, "Low Confidence"},
	{1, "Very Low Confidence"},
}

// Classify maps a 1-10 score to its label. The score is rounded and clamped
// first, so every finite input has exactly one label.
func Classify(score float64) string {
	n := int(clamp(math.Round(score), 1, 10))
	for _, c := range classifications {
		if n >= c.floor {
			return c.label
		}
	}
	return classifications[len(classifications)-1].label
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
