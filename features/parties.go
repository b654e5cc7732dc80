package features

import (
	"strings"

	"casevalue-backend/models"
)

func defaultPlaintiff() models.PlaintiffFeatures {
	return models.PlaintiffFeatures{Type: models.PartyIndividual, CredibilityFactors: neutral}
}

func defaultDefendant() models.DefendantFeatures {
	return models.DefendantFeatures{Type: models.PartyIndividual}
}

func defaultAttorney() models.AttorneyFeatures {
	return models.AttorneyFeatures{
		PlaintiffRepresentationStrength: neutral,
		DefendantRepresentationStrength: neutral,
	}
}

func defaultRelationship() models.RelationshipFeatures {
	return models.RelationshipFeatures{RelationshipType: "none"}
}

func (e *Extractor) partyType(facts string) string {
	return firstLabel(facts, e.tables.PartyTypeRules, models.PartyIndividual)
}

func (e *Extractor) plaintiff(in caseText) models.PlaintiffFeatures {
	f := defaultPlaintiff()
	f.Type = e.partyType(in.facts)

	sympathetic := 0
	for _, ind := range e.tables.SympatheticIndicators {
		if strings.Contains(in.facts, ind) || strings.Contains(in.injuryDetails, ind) {
			sympathetic++
		}
	}
	f.SympatheticFactors = saturate(sympathetic, e.tables.SympatheticSaturation)

	credibility := neutral
	credibility += float64(countAny(in.facts, e.tables.CredibilityPositive)) * e.tables.CredibilityDelta
	credibility -= float64(countAny(in.facts, e.tables.CredibilityNegative)) * e.tables.CredibilityDelta
	f.CredibilityFactors = clamp(credibility, 0, 1)

	return f
}

func (e *Extractor) defendant(in caseText) models.DefendantFeatures {
	f := defaultDefendant()
	f.Type = e.partyType(in.facts)
	f.InsuranceInvolved = strings.TrimSpace(in.record.InsuranceCompany) != ""

	switch f.Type {
	case models.PartyBusiness:
		f.DeepPockets = e.tables.DeepPocketDefault
		for _, tier := range e.tables.DeepPocketTiers {
			if containsAny(in.facts, tier.Keywords) {
				f.DeepPockets = tier.Score
				break
			}
		}
		f.PublicRelationsRisk = saturate(countAny(in.facts, e.tables.PRIndicators), e.tables.PRSaturation)
	case models.PartyGovernment:
		f.DeepPockets = e.tables.GovernmentDeepPockets
		f.PublicRelationsRisk = e.tables.GovernmentPRRisk
	}

	f.DeepPockets = clamp(f.DeepPockets, 0, 1)
	f.PublicRelationsRisk = clamp(f.PublicRelationsRisk, 0, 1)
	return f
}

// attorney uses retained experts as a proxy for representation quality.
func (e *Extractor) attorney(in caseText) models.AttorneyFeatures {
	f := defaultAttorney()
	f.PlaintiffRepresentationStrength = e.tables.RepresentationBaseline
	f.DefendantRepresentationStrength = e.tables.RepresentationBaseline
	if in.record.HasPlaintiffExpert() {
		f.PlaintiffRepresentationStrength += e.tables.ExpertRepresentation
	}
	if in.record.HasDefendantExpert() {
		f.DefendantRepresentationStrength += e.tables.ExpertRepresentation
	}
	f.PlaintiffRepresentationStrength = clamp(f.PlaintiffRepresentationStrength, 0, 1)
	f.DefendantRepresentationStrength = clamp(f.DefendantRepresentationStrength, 0, 1)
	f.RepresentationAsymmetry = f.PlaintiffRepresentationStrength - f.DefendantRepresentationStrength
	return f
}

func (e *Extractor) relationship(in caseText, defendantType string) models.RelationshipFeatures {
	f := defaultRelationship()
	f.RelationshipType = firstLabel(in.facts, e.tables.RelationshipRules, "none")
	f.OngoingRelationship = containsAny(in.facts, e.tables.OngoingIndicators)

	power := e.tables.PowerDynamics[f.RelationshipType]
	switch {
	case defendantType == models.PartyBusiness && f.RelationshipType != "employment":
		power += e.tables.BusinessPowerShift
	case defendantType == models.PartyGovernment:
		power += e.tables.GovernmentPowerShift
	}
	f.PowerDynamic = clamp(power, -1, 1)

	return f
}
