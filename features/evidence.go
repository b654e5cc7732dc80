package features

import (
	"slices"

	"casevalue-backend/models"
)

func defaultEvidenceStrength() models.EvidenceStrength {
	return models.EvidenceStrength{
		OverallStrength:  neutral,
		KeyEvidenceTypes: []string{},
		EvidenceGaps:     []string{},
	}
}

func defaultDocumentary() models.DocumentaryEvidence {
	return models.DocumentaryEvidence{Strength: neutral, KeyDocumentTypes: []string{}}
}

func defaultWitness() models.WitnessFeatures {
	return models.WitnessFeatures{Credibility: neutral, WitnessTypes: []string{}}
}

// evidenceStrength blends the diversity and volume of evidence cues, then
// subtracts a penalty per detected gap.
func (e *Extractor) evidenceStrength(in caseText) models.EvidenceStrength {
	f := defaultEvidenceStrength()

	types, hits := 0, 0
	for _, rule := range e.tables.EvidenceTypes {
		if n := rule.Count(in.facts); n > 0 {
			types++
			hits += n
			f.KeyEvidenceTypes = append(f.KeyEvidenceTypes, rule.Label)
		}
	}
	if types > 0 {
		f.OverallStrength = (saturate(types, e.tables.TypeSaturation) + saturate(hits, e.tables.HitSaturation)) / 2
	}

	for _, gap := range e.tables.EvidenceGaps {
		if gap.Matches(in.facts) {
			f.EvidenceGaps = append(f.EvidenceGaps, gap.Label)
			f.OverallStrength -= e.tables.EvidenceGapPenalty
		}
	}

	f.OverallStrength = clamp(f.OverallStrength, 0.1, 1)
	return f
}

func (e *Extractor) expertOpinion(in caseText) models.ExpertOpinion {
	var f models.ExpertOpinion
	if in.record.PlaintiffMedicalExpert != "" {
		f.PlaintiffExpertStrength += e.tables.MedicalExpertWeight
	}
	if in.record.PlaintiffNonMedicalExpert != "" {
		f.PlaintiffExpertStrength += e.tables.NonMedicalExpertWeight
	}
	if in.record.DefendantMedicalExpert != "" {
		f.DefendantExpertStrength += e.tables.MedicalExpertWeight
	}
	if in.record.DefendantNonMedicalExpert != "" {
		f.DefendantExpertStrength += e.tables.NonMedicalExpertWeight
	}
	f.PlaintiffExpertStrength = clamp(f.PlaintiffExpertStrength, 0, 1)
	f.DefendantExpertStrength = clamp(f.DefendantExpertStrength, 0, 1)
	f.ExpertAdvantage = f.PlaintiffExpertStrength - f.DefendantExpertStrength
	return f
}

func (e *Extractor) documentary(in caseText) models.DocumentaryEvidence {
	f := defaultDocumentary()

	for _, rule := range e.tables.DocumentTypes {
		if rule.Matches(in.facts) {
			f.KeyDocumentTypes = append(f.KeyDocumentTypes, rule.Label)
			f.Strength += e.tables.DocumentTypeBonus
		}
	}
	if containsAny(in.facts, e.tables.SmokingGunIndicators) {
		f.Strength += e.tables.SmokingGunBonus
	}

	f.Strength = clamp(f.Strength, 0.1, 1)
	return f
}

func (e *Extractor) witness(in caseText) models.WitnessFeatures {
	f := defaultWitness()

	for _, rule := range e.tables.WitnessTypes {
		if !rule.Matches(in.facts) {
			continue
		}
		f.WitnessTypes = append(f.WitnessTypes, rule.Label)
		if slices.Contains(e.tables.CredibleWitnessTypes, rule.Label) {
			f.Credibility += e.tables.WitnessTypeBonus
		}
	}

	f.Credibility += float64(countAny(in.facts, e.tables.WitnessPositive)) * e.tables.WitnessDelta
	f.Credibility -= float64(countAny(in.facts, e.tables.WitnessNegative)) * e.tables.WitnessDelta

	f.Credibility = clamp(f.Credibility, 0.1, 1)
	return f
}
