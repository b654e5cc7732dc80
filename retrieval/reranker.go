// Package retrieval re-ranks vector search candidates by blending their
// vector similarity with structured feature agreement.
package retrieval

import (
	"math"
	"sort"
	"strings"

	"casevalue-backend/features"
	"casevalue-backend/models"
)

const (
	// DefaultAlpha is the vector similarity share of the combined score.
	DefaultAlpha = 0.7

	DefaultProfile = "default"
)

// FeatureWeights weighs each structured signal.
type FeatureWeights struct {
	CaseType     float64
	Jurisdiction float64
	Damages      float64
	InjuryTypes  float64
}

// DefaultFeatureWeights returns the weight tables keyed by primary case type.
func DefaultFeatureWeights() map[string]FeatureWeights {
	return map[string]FeatureWeights{
		DefaultProfile:                 {CaseType: 0.3, Jurisdiction: 0.2, Damages: 0.3, InjuryTypes: 0.2},
		models.CaseTypePersonalInjury:  {CaseType: 0.25, Jurisdiction: 0.15, Damages: 0.3, InjuryTypes: 0.3},
		models.CaseTypeContractDispute: {CaseType: 0.3, Jurisdiction: 0.2, Damages: 0.4, InjuryTypes: 0.1},
		models.CaseTypeEmployment:      {CaseType: 0.3, Jurisdiction: 0.25, Damages: 0.25, InjuryTypes: 0.2},
	}
}

// Query is the case being analyzed, as seen by the re-ranker.
type Query struct {
	Features    models.ExtractedFeatures
	InjuryTypes []string
}

// Reranker orders candidates by combined similarity.
type Reranker struct {
	alpha   float64
	weights map[string]FeatureWeights
}

// Option is a functional option for Reranker
type Option func(*Reranker)

// WithAlpha sets the vector similarity share. Values outside [0,1] are ignored.
func WithAlpha(alpha float64) Option {
	return func(r *Reranker) {
		if alpha >= 0 && alpha <= 1 {
			r.alpha = alpha
		}
	}
}

// WithFeatureWeights replaces the weight tables. A missing default profile is
// taken from DefaultFeatureWeights.
func WithFeatureWeights(weights map[string]FeatureWeights) Option {
	return func(r *Reranker) {
		copied := make(map[string]FeatureWeights, len(weights)+1)
		for k, v := range weights {
			copied[k] = v
		}
		if _, ok := copied[DefaultProfile]; !ok {
			copied[DefaultProfile] = DefaultFeatureWeights()[DefaultProfile]
		}
		r.weights = copied
	}
}

func NewReranker(opts ...Option) *Reranker {
	r := &Reranker{
		alpha:   DefaultAlpha,
		weights: DefaultFeatureWeights(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rerank scores every candidate, sorts them by combined similarity (stable,
// descending) and returns at most topK. Candidates are copied; the input
// slice is left untouched.
func (r *Reranker) Rerank(candidates []models.SimilarCase, q Query, topK int) []models.SimilarCase {
	w, ok := r.weights[q.Features.CaseCharacteristics.CaseType.PrimaryType]
	if !ok {
		w = r.weights[DefaultProfile]
	}

	out := make([]models.SimilarCase, len(candidates))
	for i, c := range candidates {
		vector := c.Similarity
		feature := r.featureSimilarity(c, q, w)
		combined := r.alpha*vector + (1-r.alpha)*feature

		c.OriginalSimilarity = &vector
		c.FeatureSimilarity = &feature
		c.Similarity = combined
		out[i] = c
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})

	if topK >= 0 && topK < len(out) {
		out = out[:topK]
	}
	return out
}

// featureSimilarity is the weighted mean of the signals present on both
// sides, or the vector similarity when none are.
func (r *Reranker) featureSimilarity(c models.SimilarCase, q Query, w FeatureWeights) float64 {
	cc := q.Features.CaseCharacteristics
	var score, total float64

	if qt, ct := known(cc.CaseType.PrimaryType), known(c.Metadata.CaseType); qt != "" && ct != "" {
		total += w.CaseType
		if strings.EqualFold(qt, ct) {
			score += w.CaseType
		}
	}

	if qj, cj := known(cc.Jurisdiction.Jurisdiction), known(c.Metadata.Jurisdiction); qj != "" && cj != "" {
		total += w.Jurisdiction
		if strings.EqualFold(qj, cj) {
			score += w.Jurisdiction
		}
	}

	if c.Metadata.Damages != nil {
		qd, cd := cc.Damages.TotalEstimatedDamages, *c.Metadata.Damages
		if qd > 0 && cd > 0 {
			total += w.Damages
			score += w.Damages * math.Min(qd, cd) / math.Max(qd, cd)
		}
	}

	if len(q.InjuryTypes) > 0 && len(c.Metadata.InjuryTypes) > 0 {
		if j, ok := jaccard(q.InjuryTypes, c.Metadata.InjuryTypes); ok {
			total += w.InjuryTypes
			score += w.InjuryTypes * j
		}
	}

	if total <= 0 {
		return c.Similarity
	}
	return score / total
}

// known trims s and treats "unknown" as absent.
func known(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "unknown") {
		return ""
	}
	return s
}

func injurySet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		if n := features.NormalizeInjury(it); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func jaccard(a, b []string) (float64, bool) {
	sa, sb := injurySet(a), injurySet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0, false
	}
	overlap := 0
	for k := range sa {
		if _, ok := sb[k]; ok {
			overlap++
		}
	}
	union := len(sa) + len(sb) - overlap
	return float64(overlap) / float64(union), true
}
