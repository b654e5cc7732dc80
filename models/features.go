package models

// Case type labels
const (
	CaseTypePersonalInjury  = "personal_injury"
	CaseTypeContractDispute = "contract_dispute"
	CaseTypeEmployment      = "employment"
	CaseTypeUnknown         = "unknown"
)

// Complexity labels
const (
	ComplexityStandard = "standard"
	ComplexityComplex  = "complex"
	ComplexityNovel    = "novel"
)

// Procedural stages, earliest first
const (
	StagePreFiling          = "pre_filing"
	StagePostFiling         = "post_filing"
	StageDiscovery          = "discovery"
	StageDispositiveMotions = "dispositive_motions"
	StagePretrial           = "pretrial"
	StageTrial              = "trial"
)

// Party types
const (
	PartyIndividual = "individual"
	PartyBusiness   = "business"
	PartyGovernment = "government"
)

// ExtractedFeatures is the full feature set derived from a CaseRecord.
// Every group is always populated; unknown values carry documented defaults.
type ExtractedFeatures struct {
	CaseCharacteristics CaseCharacteristics `json:"case_characteristics"`
	PartySpecific       PartySpecific       `json:"party_specific"`
	EvidenceBased       EvidenceBased       `json:"evidence_based"`
	ProceduralStrategic ProceduralStrategic `json:"procedural_strategic"`
	Composite           Composite           `json:"composite"`
}

// CaseCharacteristics groups jurisdiction, classification, timing and damages.
type CaseCharacteristics struct {
	Jurisdiction JurisdictionFeatures `json:"jurisdiction"`
	CaseType     CaseTypeFeatures     `json:"case_type"`
	Temporal     TemporalFeatures     `json:"temporal"`
	Damages      DamageFeatures       `json:"damages"`
}

// JurisdictionProfile is the reference data for a known jurisdiction.
type JurisdictionProfile struct {
	AverageSettlement float64            `json:"avg_settlement"`
	JuryFavorability  float64            `json:"jury_favorability"` // 0-1
	DamageCaps        map[string]float64 `json:"damage_caps"`
}

type JurisdictionFeatures struct {
	Jurisdiction string               `json:"jurisdiction"` // lowercased state name or "unknown"
	Data         *JurisdictionProfile `json:"jurisdiction_data,omitempty"`
	VenueType    string               `json:"venue_type"`
}

// CaseTypeProfile is the reference data for a primary case type.
type CaseTypeProfile struct {
	Subtypes       []string `json:"subtypes"`
	AvgDuration    float64  `json:"avg_duration"` // months
	SettlementRate float64  `json:"settlement_rate"`
}

type CaseTypeFeatures struct {
	PrimaryType string           `json:"primary_type"`
	Subtype     string           `json:"subtype"`
	Complexity  string           `json:"complexity"`
	TypeData    *CaseTypeProfile `json:"type_data,omitempty"`
}

type TemporalFeatures struct {
	DaysSinceFiling           *int     `json:"days_since_filing"`
	TimeToTrialEstimate       *float64 `json:"time_to_trial_estimate"` // months
	StatuteOfLimitationsRisk string   `json:"statute_of_limitations_risk"`
}

type DamageFeatures struct {
	EconomicDamages             float64 `json:"economic_damages"`
	EstimatedNonEconomicDamages float64 `json:"estimated_non_economic_damages"`
	TotalEstimatedDamages       float64 `json:"total_estimated_damages"`
	DamageMultiplier            float64 `json:"damage_multiplier"`
	InjurySeverity              float64 `json:"injury_severity"`     // 0-10
	ChronicRisk                 float64 `json:"chronic_risk"`        // 0-1
}

// PartySpecific groups plaintiff, defendant, counsel and relationship signals.
type PartySpecific struct {
	Plaintiff    PlaintiffFeatures    `json:"plaintiff"`
	Defendant    DefendantFeatures    `json:"defendant"`
	Attorney     AttorneyFeatures     `json:"attorney"`
	Relationship RelationshipFeatures `json:"relationship"`
}

type PlaintiffFeatures struct {
	Type               string  `json:"type"`
	SympatheticFactors float64 `json:"sympathetic_factors"` // 0-1
	CredibilityFactors float64 `json:"credibility_factors"` // 0-1
}

type DefendantFeatures struct {
	Type                string  `json:"type"`
	InsuranceInvolved   bool    `json:"insurance_involved"`
	DeepPockets         float64 `json:"deep_pockets"`          // 0-1
	PublicRelationsRisk float64 `json:"public_relations_risk"` // 0-1
}

type AttorneyFeatures struct {
	PlaintiffRepresentationStrength float64 `json:"plaintiff_representation_strength"`
	DefendantRepresentationStrength float64 `json:"defendant_representation_strength"`
	RepresentationAsymmetry         float64 `json:"representation_asymmetry"` // positive favors plaintiff
}

type RelationshipFeatures struct {
	RelationshipType    string  `json:"relationship_type"`
	OngoingRelationship bool    `json:"ongoing_relationship"`
	PowerDynamic        float64 `json:"power_dynamic"` // -1..1, positive favors plaintiff
}

// EvidenceBased groups the evidence signals.
type EvidenceBased struct {
	EvidenceStrength    EvidenceStrength    `json:"evidence_strength"`
	ExpertOpinion       ExpertOpinion       `json:"expert_opinion"`
	DocumentaryEvidence DocumentaryEvidence `json:"documentary_evidence"`
	Witness             WitnessFeatures     `json:"witness"`
}

type EvidenceStrength struct {
	OverallStrength  float64  `json:"overall_strength"` // 0.1-1
	KeyEvidenceTypes []string `json:"key_evidence_types"`
	EvidenceGaps     []string `json:"evidence_gaps"`
}

type ExpertOpinion struct {
	PlaintiffExpertStrength float64 `json:"plaintiff_expert_strength"`
	DefendantExpertStrength float64 `json:"defendant_expert_strength"`
	ExpertAdvantage         float64 `json:"expert_advantage"`
}

type DocumentaryEvidence struct {
	Strength         float64  `json:"documentary_evidence_strength"` // 0.1-1
	KeyDocumentTypes []string `json:"key_document_types"`
}

type WitnessFeatures struct {
	Credibility  float64  `json:"witness_credibility"` // 0.1-1
	WitnessTypes []string `json:"witness_types"`
}

// ProceduralStrategic groups posture, motions, negotiation history and ADR.
type ProceduralStrategic struct {
	ProceduralPosture ProceduralPosture `json:"procedural_posture"`
	MotionPractice    MotionPractice    `json:"motion_practice"`
	SettlementHistory SettlementHistory `json:"settlement_history"`
	ADR               ADRFeatures       `json:"adr"`
}

type ProceduralPosture struct {
	Stage               string  `json:"stage"`
	TrialReadiness      float64 `json:"trial_readiness"`      // 0-1
	ProceduralAdvantage float64 `json:"procedural_advantage"` // -1..1
}

type MotionPractice struct {
	PendingMotions          bool    `json:"pending_motions"`
	DispositiveMotionRisk   float64 `json:"dispositive_motion_risk"`
	MotionOutcomePrediction float64 `json:"motion_outcome_prediction"`
}

type SettlementHistory struct {
	PriorNegotiations bool     `json:"prior_negotiations"`
	LastDemand        *float64 `json:"last_demand"`
	LastOffer         *float64 `json:"last_offer"`
	NegotiationGap    *float64 `json:"negotiation_gap"`
}

type ADRFeatures struct {
	Suitability        float64 `json:"adr_suitability"` // 0.1-1
	MediationAttempted bool    `json:"mediation_attempted"`
	ArbitrationClause  bool    `json:"arbitration_clause"`
}

// Composite holds the indices derived from the primary groups.
type Composite struct {
	SettlementPressureIndex SettlementPressureIndex `json:"settlement_pressure_index"`
	CaseStrengthRatio       CaseStrengthRatio       `json:"case_strength_ratio"`
	LitigationRiskProfile   LitigationRiskProfile   `json:"litigation_risk_profile"`
}

type PressureFactors struct {
	TimePressure       float64 `json:"time_pressure"`
	FinancialPressure  float64 `json:"financial_pressure"`
	ReputationPressure float64 `json:"reputation_pressure"`
	PrecedentPressure  float64 `json:"precedent_pressure"`
}

type SettlementPressureIndex struct {
	OverallIndex float64         `json:"overall_index"` // 0-10
	Factors      PressureFactors `json:"factors"`
}

type StrengthFactors struct {
	EvidenceStrength        float64 `json:"evidence_strength"`
	ExpertAdvantage         float64 `json:"expert_advantage"`
	WitnessCredibility      float64 `json:"witness_credibility"`
	ProceduralAdvantage     float64 `json:"procedural_advantage"`
	RepresentationAsymmetry float64 `json:"representation_asymmetry"`
}

type CaseStrengthRatio struct {
	PlaintiffStrength float64         `json:"plaintiff_strength"` // 1-10
	DefendantStrength float64         `json:"defendant_strength"` // 1-10
	StrengthRatio     float64         `json:"strength_ratio"`
	Factors           StrengthFactors `json:"factors"`
}

type LitigationRiskProfile struct {
	OutcomeUncertainty   string `json:"outcome_uncertainty"`    // high, medium, low
	DamageRangeWidth     string `json:"damage_range_width"`     // wide, medium, narrow
	PrecedentialImpact   string `json:"precedential_impact"`    // significant, moderate, limited
	CostBenefitAlignment string `json:"cost_benefit_alignment"` // favorable, neutral, unfavorable
}
