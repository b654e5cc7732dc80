package confidence

import (
	"math"

	"casevalue-backend/models"
)

// DefaultProfile is the weight profile used when no case-specific profile
// matches.
const DefaultProfile = "default"

// Weights maps a confidence dimension to its share of the overall score.
type Weights map[string]float64

func (w Weights) clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// normalized returns a copy scaled so the weights sum to 1. Negative weights
// and NaN weights count as zero.
func (w Weights) normalized() (Weights, bool) {
	var sum float64
	for _, v := range w {
		if v > 0 {
			sum += v
		}
	}
	if sum <= 0 || math.IsInf(sum, 1) {
		return nil, false
	}
	out := make(Weights, len(w))
	for k, v := range w {
		if v > 0 {
			out[k] = v / sum
		} else {
			out[k] = 0
		}
	}
	return out, true
}

func weights(evidential, methodological, precedential, dataAdequacy, stability float64) Weights {
	return Weights{
		models.DimensionEvidential:     evidential,
		models.DimensionMethodological: methodological,
		models.DimensionPrecedential:   precedential,
		models.DimensionDataAdequacy:   dataAdequacy,
		models.DimensionStability:      stability,
	}
}

// DefaultWeightProfiles returns the built-in profiles keyed by case type or
// subtype.
func DefaultWeightProfiles() map[string]Weights {
	return map[string]Weights{
		models.CaseTypePersonalInjury:  weights(0.25, 0.15, 0.20, 0.25, 0.15),
		models.CaseTypeContractDispute: weights(0.20, 0.15, 0.25, 0.20, 0.20),
		models.CaseTypeEmployment:      weights(0.20, 0.15, 0.25, 0.20, 0.20),
		"medical_malpractice":          weights(0.25, 0.20, 0.20, 0.20, 0.15),
		DefaultProfile:                 weights(0.20, 0.20, 0.20, 0.20, 0.20),
	}
}

// profileFor resolves the subtype, then the primary type, then the default.
func (s *Scorer) profileFor(ct models.CaseTypeFeatures) (string, Weights) {
	for _, name := range []string{ct.Subtype, ct.PrimaryType} {
		if w, ok := s.profiles[name]; ok {
			return name, w
		}
	}
	return DefaultProfile, s.profiles[DefaultProfile]
}
