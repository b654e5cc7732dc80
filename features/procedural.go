package features

import (
	"strings"

	"casevalue-backend/currency"
	"casevalue-backend/models"
)

func defaultPosture() models.ProceduralPosture {
	return models.ProceduralPosture{Stage: models.StagePreFiling}
}

func defaultADR() models.ADRFeatures {
	return models.ADRFeatures{Suitability: neutral}
}

// posture infers the litigation stage. Without a filing date the case is
// treated as not yet filed.
func (e *Extractor) posture(in caseText) models.ProceduralPosture {
	f := defaultPosture()
	if strings.TrimSpace(in.record.DateFiled) == "" {
		return f
	}

	f.Stage = models.StagePostFiling
	for _, rule := range e.tables.StageRules {
		if containsAll(in.facts, rule.All) {
			f.Stage = rule.Stage
			f.TrialReadiness = rule.Readiness
			break
		}
	}

	switch f.Stage {
	case models.StageDiscovery:
		if containsAny(in.facts, e.tables.DiscoveryFavorable) {
			f.ProceduralAdvantage += e.tables.DiscoveryDelta
		}
		if containsAny(in.facts, e.tables.DiscoveryUnfavorable) {
			f.ProceduralAdvantage -= e.tables.DiscoveryDelta
		}
	case models.StageDispositiveMotions:
		defendant := strings.Contains(in.facts, "defendant")
		if defendant && strings.Contains(in.facts, "motion denied") {
			f.ProceduralAdvantage += e.tables.MotionDelta
		}
		if defendant && strings.Contains(in.facts, "motion granted") {
			f.ProceduralAdvantage -= e.tables.MotionDelta
		}
	}

	f.TrialReadiness = clamp(f.TrialReadiness, 0, 1)
	f.ProceduralAdvantage = clamp(f.ProceduralAdvantage, -1, 1)
	return f
}

func (e *Extractor) motionPractice(in caseText, evidenceStrength float64) models.MotionPractice {
	var f models.MotionPractice
	f.PendingMotions = containsAny(in.facts, e.tables.PendingMotionCues)
	if containsAny(in.facts, e.tables.DispositiveIndicators) {
		f.DispositiveMotionRisk = e.tables.DispositiveRisk
	}

	if f.PendingMotions {
		f.MotionOutcomePrediction = neutral
		switch {
		case strings.Contains(in.facts, "plaintiff motion"):
			f.MotionOutcomePrediction = evidenceStrength
		case strings.Contains(in.facts, "defendant motion"):
			f.MotionOutcomePrediction = 1 - evidenceStrength
		}
	}

	f.MotionOutcomePrediction = clamp(f.MotionOutcomePrediction, 0, 1)
	return f
}

func (e *Extractor) settlementHistory(in caseText) models.SettlementHistory {
	var f models.SettlementHistory
	f.PriorNegotiations = containsAny(in.facts, e.tables.NegotiationIndicators)

	if p, ok := currency.Lookup("demand"); ok {
		if v, ok := p.First(in.facts); ok {
			f.LastDemand = &v
		}
	}
	if p, ok := currency.Lookup("offer"); ok {
		if v, ok := p.First(in.facts); ok {
			f.LastOffer = &v
		}
	}
	if f.LastDemand != nil && f.LastOffer != nil {
		gap := *f.LastDemand - *f.LastOffer
		f.NegotiationGap = &gap
	}

	return f
}

func (e *Extractor) adr(in caseText, primaryType string, ongoing bool) models.ADRFeatures {
	f := defaultADR()
	f.Suitability = e.tables.ADRBaseline
	f.MediationAttempted = strings.Contains(in.facts, "mediation")

	if containsAny(in.facts, e.tables.ArbitrationCues) {
		f.ArbitrationClause = true
		f.Suitability = e.tables.ArbitrationScore
	}

	f.Suitability += e.tables.ADRTypeBonus[primaryType]
	if ongoing {
		f.Suitability += e.tables.ADROngoingBonus
	}

	f.Suitability = clamp(f.Suitability, 0.1, 1)
	return f
}
