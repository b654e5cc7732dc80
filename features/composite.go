package features

import (
	"math"

	"casevalue-backend/models"
)

const (
	pressureBaseline = 5.0
	strengthBaseline = 5.0
	minStrength      = 1.0
	maxStrength      = 10.0
	strengthEpsilon  = 1e-9
)

func defaultComposite() models.Composite {
	return models.Composite{
		SettlementPressureIndex: models.SettlementPressureIndex{
			OverallIndex: pressureBaseline,
			Factors: models.PressureFactors{
				TimePressure:       0.5,
				FinancialPressure:  0.5,
				ReputationPressure: 0.5,
				PrecedentPressure:  0.5,
			},
		},
		CaseStrengthRatio: models.CaseStrengthRatio{
			PlaintiffStrength: strengthBaseline,
			DefendantStrength: strengthBaseline,
			StrengthRatio:     1.0,
		},
		LitigationRiskProfile: models.LitigationRiskProfile{
			OutcomeUncertainty:   "medium",
			DamageRangeWidth:     "medium",
			PrecedentialImpact:   "limited",
			CostBenefitAlignment: "neutral",
		},
	}
}

func composite(f models.ExtractedFeatures) models.Composite {
	c := models.Composite{
		SettlementPressureIndex: settlementPressure(f),
		CaseStrengthRatio:       caseStrength(f),
	}
	c.LitigationRiskProfile = riskProfile(f, c.SettlementPressureIndex.OverallIndex, c.CaseStrengthRatio.StrengthRatio)
	return c
}

func pressureFactor(raw float64) float64 {
	return clamp(raw, 0, 10) / 10
}

func settlementPressure(f models.ExtractedFeatures) models.SettlementPressureIndex {
	cc := f.CaseCharacteristics
	defendant := f.PartySpecific.Defendant

	timePressure := pressureBaseline
	if t := cc.Temporal.TimeToTrialEstimate; t != nil {
		switch {
		case *t < 1:
			timePressure += 3
		case *t < 3:
			timePressure += 2
		case *t < 6:
			timePressure += 1
		}
	}
	switch cc.Temporal.StatuteOfLimitationsRisk {
	case "high":
		timePressure += 3
	case "medium":
		timePressure += 1.5
	}

	financial := pressureBaseline
	switch total := cc.Damages.TotalEstimatedDamages; {
	case total > 1_000_000:
		financial += 3
	case total > 500_000:
		financial += 2
	case total > 100_000:
		financial += 1
	}
	if defendant.InsuranceInvolved {
		financial--
	}
	if defendant.DeepPockets > 0.7 {
		financial--
	}

	reputation := pressureBaseline + defendant.PublicRelationsRisk*5

	precedent := pressureBaseline
	switch cc.CaseType.Complexity {
	case models.ComplexityNovel:
		precedent += 3
	case models.ComplexityComplex:
		precedent += 1.5
	}

	factors := models.PressureFactors{
		TimePressure:       pressureFactor(timePressure),
		FinancialPressure:  pressureFactor(financial),
		ReputationPressure: pressureFactor(reputation),
		PrecedentPressure:  pressureFactor(precedent),
	}

	index := (factors.TimePressure*3 + factors.FinancialPressure*3 +
		factors.ReputationPressure*2 + factors.PrecedentPressure*2) / 10 * 10

	return models.SettlementPressureIndex{
		OverallIndex: clamp(index, 0, 10),
		Factors:      factors,
	}
}

// caseStrength nudges both sides from an even baseline; every plaintiff gain
// is a defendant loss of the same size.
func caseStrength(f models.ExtractedFeatures) models.CaseStrengthRatio {
	eb := f.EvidenceBased
	factors := models.StrengthFactors{
		EvidenceStrength:        eb.EvidenceStrength.OverallStrength,
		ExpertAdvantage:         eb.ExpertOpinion.ExpertAdvantage,
		WitnessCredibility:      eb.Witness.Credibility,
		ProceduralAdvantage:     f.ProceduralStrategic.ProceduralPosture.ProceduralAdvantage,
		RepresentationAsymmetry: f.PartySpecific.Attorney.RepresentationAsymmetry,
	}

	shift := (factors.EvidenceStrength-0.5)*6 +
		factors.ExpertAdvantage*4 +
		(factors.WitnessCredibility-0.5)*4 +
		factors.ProceduralAdvantage*3 +
		factors.RepresentationAsymmetry*2

	plaintiff := clamp(strengthBaseline+shift, minStrength, maxStrength)
	defendant := clamp(strengthBaseline-shift, minStrength, maxStrength)

	return models.CaseStrengthRatio{
		PlaintiffStrength: plaintiff,
		DefendantStrength: defendant,
		StrengthRatio:     plaintiff / math.Max(defendant, strengthEpsilon),
		Factors:           factors,
	}
}

func riskProfile(f models.ExtractedFeatures, pressure, ratio float64) models.LitigationRiskProfile {
	p := defaultComposite().LitigationRiskProfile
	complexity := f.CaseCharacteristics.CaseType.Complexity
	strength := f.EvidenceBased.EvidenceStrength.OverallStrength

	uncertainty := 0.5
	switch {
	case strength > 0.8:
		uncertainty -= 0.3
	case strength < 0.3:
		uncertainty += 0.3
	}
	switch complexity {
	case models.ComplexityNovel:
		uncertainty += 0.3
	case models.ComplexityComplex:
		uncertainty += 0.2
	}
	switch {
	case uncertainty > 0.7:
		p.OutcomeUncertainty = "high"
	case uncertainty < 0.3:
		p.OutcomeUncertainty = "low"
	}

	d := f.CaseCharacteristics.Damages
	if d.EconomicDamages > 0 {
		switch r := d.EstimatedNonEconomicDamages / d.EconomicDamages; {
		case r > 3:
			p.DamageRangeWidth = "wide"
		case r < 1:
			p.DamageRangeWidth = "narrow"
		}
	}

	switch complexity {
	case models.ComplexityNovel:
		p.PrecedentialImpact = "significant"
	case models.ComplexityComplex:
		p.PrecedentialImpact = "moderate"
	}

	switch {
	case pressure > 7 && ratio > 1.5:
		p.CostBenefitAlignment = "favorable"
	case pressure > 7 && ratio < 0.7:
		p.CostBenefitAlignment = "unfavorable"
	}

	return p
}
