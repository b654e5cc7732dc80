package features

import (
	"fmt"
	"sort"
	"strings"

	"casevalue-backend/currency"
	"casevalue-backend/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label renders a snake_case label as title case ("motor_vehicle" -> "Motor Vehicle").
// A Caser is stateful, so one is built per call.
func Label(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func labels(items []string) string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Label(s)
	}
	return strings.Join(out, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Format renders features as the markdown CASE FEATURES section of a prompt.
func Format(f models.ExtractedFeatures) string {
	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
	}

	b.WriteString("## CASE FEATURES\n\n")

	cc := f.CaseCharacteristics
	b.WriteString("### Case Characteristics\n\n")

	w("**Jurisdiction Analysis:**\n")
	w("- Jurisdiction: %s\n", Label(cc.Jurisdiction.Jurisdiction))
	w("- Venue Type: %s\n", Label(cc.Jurisdiction.VenueType))
	if d := cc.Jurisdiction.Data; d != nil {
		w("- Average Settlement: %s\n", currency.FormatWhole(d.AverageSettlement))
		w("- Jury Favorability: %.2f (0-1 scale)\n", d.JuryFavorability)
		if len(d.DamageCaps) > 0 {
			keys := make([]string, 0, len(d.DamageCaps))
			for k := range d.DamageCaps {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			caps := make([]string, len(keys))
			for i, k := range keys {
				caps[i] = fmt.Sprintf("%s: %s", Label(k), currency.FormatWhole(d.DamageCaps[k]))
			}
			w("- Damage Caps: %s\n", strings.Join(caps, ", "))
		}
	}
	b.WriteString("\n")

	ct := cc.CaseType
	w("**Case Classification:**\n")
	w("- Primary Type: %s\n", Label(ct.PrimaryType))
	w("- Subtype: %s\n", Label(ct.Subtype))
	w("- Complexity: %s\n", Label(ct.Complexity))
	if td := ct.TypeData; td != nil {
		w("- Average Duration: %g months\n", td.AvgDuration)
		w("- Settlement Rate: %.2f (0-1 scale)\n", td.SettlementRate)
	}
	b.WriteString("\n")

	tf := cc.Temporal
	w("**Temporal Analysis:**\n")
	if tf.DaysSinceFiling != nil {
		w("- Days Since Filing: %d\n", *tf.DaysSinceFiling)
	}
	if tf.TimeToTrialEstimate != nil {
		w("- Estimated Time to Trial: %.1f months\n", *tf.TimeToTrialEstimate)
	}
	if tf.StatuteOfLimitationsRisk != unknown {
		w("- Statute of Limitations Risk: %s\n", Label(tf.StatuteOfLimitationsRisk))
	}
	b.WriteString("\n")

	dm := cc.Damages
	w("**Damage Analysis:**\n")
	w("- Economic Damages: %s\n", currency.Format(dm.EconomicDamages))
	w("- Estimated Non-Economic Damages: %s\n", currency.Format(dm.EstimatedNonEconomicDamages))
	w("- Total Estimated Damages: %s\n", currency.Format(dm.TotalEstimatedDamages))
	w("- Damage Multiplier: %.2fx\n", dm.DamageMultiplier)
	if dm.InjurySeverity > 0 {
		w("- Injury Severity: %.1f (0-10 scale)\n", dm.InjurySeverity)
	}
	b.WriteString("\n")

	ps := f.PartySpecific
	b.WriteString("### Party-Specific Factors\n\n")
	w("**Plaintiff Analysis:**\n")
	w("- Type: %s\n", Label(ps.Plaintiff.Type))
	w("- Sympathetic Factors: %.2f (0-1 scale)\n", ps.Plaintiff.SympatheticFactors)
	w("- Credibility Factors: %.2f (0-1 scale)\n\n", ps.Plaintiff.CredibilityFactors)

	w("**Defendant Analysis:**\n")
	w("- Type: %s\n", Label(ps.Defendant.Type))
	w("- Insurance Involved: %s\n", yesNo(ps.Defendant.InsuranceInvolved))
	w("- Deep Pockets Factor: %.2f (0-1 scale)\n", ps.Defendant.DeepPockets)
	w("- Public Relations Risk: %.2f (0-1 scale)\n\n", ps.Defendant.PublicRelationsRisk)

	w("**Legal Representation Analysis:**\n")
	w("- Plaintiff Representation Strength: %.2f (0-1 scale)\n", ps.Attorney.PlaintiffRepresentationStrength)
	w("- Defendant Representation Strength: %.2f (0-1 scale)\n", ps.Attorney.DefendantRepresentationStrength)
	w("- Representation Asymmetry: %.2f (positive favors plaintiff)\n\n", ps.Attorney.RepresentationAsymmetry)

	w("**Party Relationship Analysis:**\n")
	w("- Relationship Type: %s\n", Label(ps.Relationship.RelationshipType))
	w("- Ongoing Relationship: %s\n", yesNo(ps.Relationship.OngoingRelationship))
	w("- Power Dynamic: %.2f (positive favors plaintiff)\n\n", ps.Relationship.PowerDynamic)

	eb := f.EvidenceBased
	b.WriteString("### Evidence-Based Factors\n\n")
	w("**Evidence Strength Assessment:**\n")
	w("- Overall Strength: %.2f (0-1 scale)\n", eb.EvidenceStrength.OverallStrength)
	if len(eb.EvidenceStrength.KeyEvidenceTypes) > 0 {
		w("- Key Evidence Types: %s\n", labels(eb.EvidenceStrength.KeyEvidenceTypes))
	}
	if len(eb.EvidenceStrength.EvidenceGaps) > 0 {
		w("- Evidence Gaps: %s\n", labels(eb.EvidenceStrength.EvidenceGaps))
	}
	b.WriteString("\n")

	w("**Expert Opinion Analysis:**\n")
	w("- Plaintiff Expert Strength: %.2f (0-1 scale)\n", eb.ExpertOpinion.PlaintiffExpertStrength)
	w("- Defendant Expert Strength: %.2f (0-1 scale)\n", eb.ExpertOpinion.DefendantExpertStrength)
	w("- Expert Advantage: %.2f (positive favors plaintiff)\n\n", eb.ExpertOpinion.ExpertAdvantage)

	w("**Documentary Evidence Analysis:**\n")
	w("- Documentary Evidence Strength: %.2f (0-1 scale)\n", eb.DocumentaryEvidence.Strength)
	if len(eb.DocumentaryEvidence.KeyDocumentTypes) > 0 {
		w("- Key Document Types: %s\n", labels(eb.DocumentaryEvidence.KeyDocumentTypes))
	}
	b.WriteString("\n")

	w("**Witness Credibility Analysis:**\n")
	w("- Witness Credibility: %.2f (0-1 scale)\n", eb.Witness.Credibility)
	if len(eb.Witness.WitnessTypes) > 0 {
		w("- Witness Types: %s\n", labels(eb.Witness.WitnessTypes))
	}
	b.WriteString("\n")

	pr := f.ProceduralStrategic
	b.WriteString("### Procedural and Strategic Factors\n\n")
	w("**Procedural Posture Analysis:**\n")
	w("- Current Stage: %s\n", Label(pr.ProceduralPosture.Stage))
	w("- Trial Readiness: %.2f (0-1 scale)\n", pr.ProceduralPosture.TrialReadiness)
	w("- Procedural Advantage: %.2f (positive favors plaintiff)\n\n", pr.ProceduralPosture.ProceduralAdvantage)

	w("**Motion Practice Analysis:**\n")
	w("- Pending Motions: %s\n", yesNo(pr.MotionPractice.PendingMotions))
	w("- Dispositive Motion Risk: %.2f (0-1 scale)\n", pr.MotionPractice.DispositiveMotionRisk)
	w("- Motion Outcome Prediction: %.2f (higher favors plaintiff)\n\n", pr.MotionPractice.MotionOutcomePrediction)

	sh := pr.SettlementHistory
	w("**Settlement History Analysis:**\n")
	w("- Prior Negotiations: %s\n", yesNo(sh.PriorNegotiations))
	if sh.LastDemand != nil {
		w("- Last Demand: %s\n", currency.Format(*sh.LastDemand))
	}
	if sh.LastOffer != nil {
		w("- Last Offer: %s\n", currency.Format(*sh.LastOffer))
	}
	if sh.NegotiationGap != nil {
		w("- Negotiation Gap: %s\n", currency.Format(*sh.NegotiationGap))
	}
	b.WriteString("\n")

	w("**Alternative Dispute Resolution Analysis:**\n")
	w("- ADR Suitability: %.2f (0-1 scale)\n", pr.ADR.Suitability)
	w("- Mediation Attempted: %s\n", yesNo(pr.ADR.MediationAttempted))
	w("- Arbitration Clause: %s\n\n", yesNo(pr.ADR.ArbitrationClause))

	co := f.Composite
	b.WriteString("### Composite Strategic Indicators\n\n")
	pf := co.SettlementPressureIndex.Factors
	w("**Settlement Pressure Index:**\n")
	w("- Overall Pressure Index: %.1f (1-10 scale)\n", co.SettlementPressureIndex.OverallIndex)
	w("- Component Factors:\n")
	w("  * Time Pressure: %.2f (0-1 scale)\n", pf.TimePressure)
	w("  * Financial Pressure: %.2f (0-1 scale)\n", pf.FinancialPressure)
	w("  * Reputation Pressure: %.2f (0-1 scale)\n", pf.ReputationPressure)
	w("  * Precedent Pressure: %.2f (0-1 scale)\n\n", pf.PrecedentPressure)

	cs := co.CaseStrengthRatio
	w("**Case Strength Analysis:**\n")
	w("- Plaintiff Case Strength: %.1f (1-10 scale)\n", cs.PlaintiffStrength)
	w("- Defendant Case Strength: %.1f (1-10 scale)\n", cs.DefendantStrength)
	w("- Strength Ratio (P/D): %.2f\n", cs.StrengthRatio)
	w("- Key Strength Factors:\n")
	w("  * Evidence Strength: %.2f\n", cs.Factors.EvidenceStrength)
	w("  * Expert Advantage: %.2f\n", cs.Factors.ExpertAdvantage)
	w("  * Witness Credibility: %.2f\n", cs.Factors.WitnessCredibility)
	w("  * Procedural Advantage: %.2f\n", cs.Factors.ProceduralAdvantage)
	w("  * Representation Asymmetry: %.2f\n\n", cs.Factors.RepresentationAsymmetry)

	rp := co.LitigationRiskProfile
	w("**Litigation Risk Profile:**\n")
	w("- Outcome Uncertainty: %s\n", Label(rp.OutcomeUncertainty))
	w("- Damage Range Width: %s\n", Label(rp.DamageRangeWidth))
	w("- Precedential Impact: %s\n", Label(rp.PrecedentialImpact))
	w("- Cost-Benefit Alignment: %s\n\n", Label(rp.CostBenefitAlignment))

	return b.String()
}

// Summary is the short feature digest appended to embedding text.
func Summary(f models.ExtractedFeatures) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Case Type: %s\n", Label(f.CaseCharacteristics.CaseType.PrimaryType))
	if st := f.CaseCharacteristics.CaseType.Subtype; st != unknown {
		fmt.Fprintf(&b, "Subtype: %s\n", Label(st))
	}
	fmt.Fprintf(&b, "Jurisdiction: %s\n", Label(f.CaseCharacteristics.Jurisdiction.Jurisdiction))
	fmt.Fprintf(&b, "Settlement Pressure: %.1f/10\n", f.Composite.SettlementPressureIndex.OverallIndex)
	fmt.Fprintf(&b, "Case Strength Ratio: %.2f\n", f.Composite.CaseStrengthRatio.StrengthRatio)
	fmt.Fprintf(&b, "Litigation Risk: %s uncertainty\n", Label(f.Composite.LitigationRiskProfile.OutcomeUncertainty))
	return b.String()
}
