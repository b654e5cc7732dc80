package features

import (
	"math"
	"strings"
	"time"

	"casevalue-backend/models"
)

func defaultJurisdiction() models.JurisdictionFeatures {
	return models.JurisdictionFeatures{Jurisdiction: unknown, VenueType: unknown}
}

func defaultCaseType() models.CaseTypeFeatures {
	return models.CaseTypeFeatures{
		PrimaryType: models.CaseTypeUnknown,
		Subtype:     unknown,
		Complexity:  models.ComplexityStandard,
	}
}

func defaultTemporal() models.TemporalFeatures {
	return models.TemporalFeatures{StatuteOfLimitationsRisk: unknown}
}

func defaultDamages(economic float64) models.DamageFeatures {
	return models.DamageFeatures{
		EconomicDamages:       economic,
		TotalEstimatedDamages: economic,
		DamageMultiplier:      1.0,
	}
}

func (e *Extractor) jurisdiction(in caseText) models.JurisdictionFeatures {
	f := defaultJurisdiction()
	if strings.TrimSpace(in.record.Court) == "" {
		return f
	}

	if e.stateRe != nil {
		if m := e.stateRe.FindStringSubmatch(in.record.Court); m != nil {
			state := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
			f.Jurisdiction = state
			if profile, ok := e.tables.Jurisdictions[state]; ok {
				f.Data = &profile
			}
		}
	}

	f.VenueType = firstLabel(in.court, e.tables.VenueRules, unknown)
	return f
}

func (e *Extractor) caseType(in caseText) models.CaseTypeFeatures {
	f := defaultCaseType()

	for _, rule := range e.tables.CaseTypeRules {
		if !containsAny(in.claimType, rule.Keywords) {
			continue
		}
		f.PrimaryType = rule.Type
		f.Subtype = firstLabel(in.claimType, rule.Subtypes, unknown)
		break
	}

	if profile, ok := e.tables.CaseTypes[f.PrimaryType]; ok {
		f.TypeData = &profile
	}

	words := float64(len(strings.Fields(in.record.Facts)))
	for _, tier := range e.tables.ComplexityTiers {
		if words > tier.Above {
			f.Complexity = tier.Label
			break
		}
	}

	return f
}

func (e *Extractor) parseFiled(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range e.tables.DateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (e *Extractor) temporal(in caseText, primaryType string) models.TemporalFeatures {
	f := defaultTemporal()

	filed, ok := e.parseFiled(in.record.DateFiled)
	if !ok {
		return f
	}

	days := int(math.Floor(e.now().Sub(filed).Hours() / 24))
	f.DaysSinceFiling = &days

	duration := e.tables.DefaultDuration
	if profile, ok := e.tables.CaseTypes[primaryType]; ok {
		duration = profile.AvgDuration
	}
	toTrial := math.Max(0, duration-float64(days)/e.tables.DaysPerMonth)
	f.TimeToTrialEstimate = &toTrial

	if primaryType == models.CaseTypePersonalInjury {
		years := float64(days) / e.tables.DaysPerYear
		f.StatuteOfLimitationsRisk = "low"
		for _, band := range e.tables.LimitationsRiskBand {
			if years > band.Above {
				f.StatuteOfLimitationsRisk = band.Label
				break
			}
		}
	}

	return f
}

func (e *Extractor) damages(in caseText, primaryType string) models.DamageFeatures {
	f := defaultDamages(in.record.Damages)

	switch primaryType {
	case models.CaseTypePersonalInjury:
		severity, chronic := e.injurySeverity(in)
		f.InjurySeverity = severity
		f.ChronicRisk = chronic

		multiplier := e.tables.BaseInjuryMultiplier
		for _, th := range e.tables.SeverityMultipliers {
			if severity > th.Above {
				multiplier = th.Value
				break
			}
		}
		f.DamageMultiplier = multiplier
		f.EstimatedNonEconomicDamages = f.EconomicDamages * multiplier
	default:
		if multiplier, ok := e.tables.TypeMultipliers[primaryType]; ok {
			f.DamageMultiplier = multiplier
			f.EstimatedNonEconomicDamages = f.EconomicDamages * multiplier
		}
	}

	f.TotalEstimatedDamages = f.EconomicDamages + f.EstimatedNonEconomicDamages
	return f
}

// NormalizeInjury lowercases an injury label and joins words with underscores
// so "Traumatic Brain Injury" matches traumatic_brain_injury.
func NormalizeInjury(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// injurySeverity scores injuries on a 0-10 scale and returns the mean chronic
// risk of the matched known injuries.
func (e *Extractor) injurySeverity(in caseText) (float64, float64) {
	var total, chronic float64
	matched := 0
	for _, injury := range in.record.InjuryTypes {
		name := NormalizeInjury(injury)
		for _, p := range e.tables.Injuries {
			if strings.Contains(name, p.Name) {
				total += p.Midpoint()
				chronic += p.ChronicRisk
				matched++
				break
			}
		}
	}
	if matched > 0 {
		return clamp(total/float64(matched), 0, 10), clamp(chronic/float64(matched), 0, 1)
	}

	var score float64
	hits := 0
	for _, ind := range e.tables.SeverityIndicators {
		if strings.Contains(in.injuryDetails, ind.Term) {
			score += ind.Weight
			hits++
		}
	}
	if hits > 0 {
		return clamp(score/float64(hits)*2, 0, 10), 0
	}

	return e.tables.DefaultSeverity, 0
}
