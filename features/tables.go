package features

import "casevalue-backend/models"

// KeywordRule maps a label to the substrings that select it.
type KeywordRule struct {
	Label    string
	Keywords []string
}

// Matches reports whether any keyword occurs in text.
func (r KeywordRule) Matches(text string) bool {
	return containsAny(text, r.Keywords)
}

// Count returns how many keywords occur in text.
func (r KeywordRule) Count(text string) int {
	return countAny(text, r.Keywords)
}

// CaseTypeRule classifies a claim type and its subtype.
type CaseTypeRule struct {
	Type     string
	Keywords []string
	Subtypes []KeywordRule
}

// InjuryProfile is the severity band for a known injury.
type InjuryProfile struct {
	Name        string
	Min, Max    float64
	ChronicRisk float64
}

// Midpoint returns the center of the severity band.
func (p InjuryProfile) Midpoint() float64 {
	return (p.Min + p.Max) / 2
}

// WeightedTerm is a text indicator with a score.
type WeightedTerm struct {
	Term   string
	Weight float64
}

// Threshold yields Value when the measured quantity exceeds Above.
// Slices of thresholds are ordered highest first.
type Threshold struct {
	Above float64
	Value float64
}

// LabelThreshold yields Label when the measured quantity exceeds Above.
type LabelThreshold struct {
	Above float64
	Label string
}

// ScoredRule yields Score when any keyword appears.
type ScoredRule struct {
	Score    float64
	Keywords []string
}

// StageRule selects a procedural stage when all of its keywords appear.
type StageRule struct {
	Stage     string
	Readiness float64
	All       []string
}

// Tables holds every lookup table, indicator list and delta used during
// extraction. The zero value is not usable; start from DefaultTables.
type Tables struct {
	States        []string
	Jurisdictions map[string]models.JurisdictionProfile
	VenueRules    []KeywordRule

	CaseTypeRules   []CaseTypeRule
	CaseTypes       map[string]models.CaseTypeProfile
	ComplexityTiers []LabelThreshold

	DateLayouts         []string
	DefaultDuration     float64
	DaysPerMonth        float64
	DaysPerYear         float64
	LimitationsRiskBand []LabelThreshold

	Injuries             []InjuryProfile
	SeverityIndicators   []WeightedTerm
	DefaultSeverity      float64
	BaseInjuryMultiplier float64
	SeverityMultipliers  []Threshold
	TypeMultipliers      map[string]float64

	PartyTypeRules        []KeywordRule
	SympatheticIndicators []string
	SympatheticSaturation float64
	CredibilityPositive   []string
	CredibilityNegative   []string
	CredibilityDelta      float64

	DeepPocketTiers       []ScoredRule
	DeepPocketDefault     float64
	PRIndicators          []string
	PRSaturation          float64
	GovernmentDeepPockets float64
	GovernmentPRRisk      float64

	RepresentationBaseline float64
	ExpertRepresentation   float64

	RelationshipRules    []KeywordRule
	OngoingIndicators    []string
	PowerDynamics        map[string]float64
	BusinessPowerShift   float64
	GovernmentPowerShift float64

	EvidenceTypes      []KeywordRule
	EvidenceGaps       []KeywordRule
	EvidenceGapPenalty float64
	TypeSaturation     float64
	HitSaturation      float64

	MedicalExpertWeight    float64
	NonMedicalExpertWeight float64

	DocumentTypes        []KeywordRule
	DocumentTypeBonus    float64
	SmokingGunIndicators []string
	SmokingGunBonus      float64

	WitnessTypes          []KeywordRule
	CredibleWitnessTypes  []string
	WitnessTypeBonus      float64
	WitnessPositive       []string
	WitnessNegative       []string
	WitnessDelta          float64

	StageRules            []StageRule
	DiscoveryFavorable    []string
	DiscoveryUnfavorable  []string
	DiscoveryDelta        float64
	MotionDelta           float64
	PendingMotionCues     []string
	DispositiveIndicators []string
	DispositiveRisk       float64

	NegotiationIndicators []string

	ADRBaseline      float64
	ArbitrationCues  []string
	ArbitrationScore float64
	ADRTypeBonus     map[string]float64
	ADROngoingBonus  float64
}

// DefaultTables returns the reference tables. Each call returns fresh maps
// and slices so callers may modify their copy.
func DefaultTables() Tables {
	return Tables{
		States: []string{
			"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut",
			"Delaware", "Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa",
			"Kansas", "Kentucky", "Louisiana", "Maine", "Maryland", "Massachusetts", "Michigan",
			"Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
			"New Hampshire", "New Jersey", "New Mexico", "New York", "North Carolina",
			"North Dakota", "Ohio", "Oklahoma", "Oregon", "Pennsylvania", "Rhode Island",
			"South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont", "Virginia",
			"Washington", "West Virginia", "Wisconsin", "Wyoming",
		},
		Jurisdictions: map[string]models.JurisdictionProfile{
			"california": {AverageSettlement: 75000, JuryFavorability: 0.65, DamageCaps: map[string]float64{"medical_malpractice": 250000}},
			"new york":   {AverageSettlement: 85000, JuryFavorability: 0.60, DamageCaps: map[string]float64{}},
			"texas":      {AverageSettlement: 65000, JuryFavorability: 0.45, DamageCaps: map[string]float64{"non_economic": 750000}},
		},
		VenueRules: []KeywordRule{
			{Label: "federal", Keywords: []string{"federal"}},
			{Label: "state_supreme", Keywords: []string{"supreme"}},
			{Label: "appellate", Keywords: []string{"appeal"}},
			{Label: "trial", Keywords: []string{"district", "circuit"}},
			{Label: "local", Keywords: []string{"county", "municipal"}},
		},

		CaseTypeRules: []CaseTypeRule{
			{
				Type:     models.CaseTypePersonalInjury,
				Keywords: []string{"personal injury", "injury"},
				Subtypes: []KeywordRule{
					{Label: "motor_vehicle", Keywords: []string{"vehicle", "car", "auto"}},
					{Label: "slip_fall", Keywords: []string{"slip", "fall"}},
					{Label: "medical_malpractice", Keywords: []string{"medical", "malpractice"}},
					{Label: "product_liability", Keywords: []string{"product"}},
					{Label: "workplace", Keywords: []string{"work", "employment"}},
				},
			},
			{
				Type:     models.CaseTypeContractDispute,
				Keywords: []string{"contract", "agreement"},
				Subtypes: []KeywordRule{
					{Label: "breach", Keywords: []string{"breach"}},
					{Label: "performance", Keywords: []string{"performance"}},
					{Label: "payment", Keywords: []string{"payment"}},
					{Label: "warranty", Keywords: []string{"warranty"}},
				},
			},
			{
				Type:     models.CaseTypeEmployment,
				Keywords: []string{"employment", "worker"},
				Subtypes: []KeywordRule{
					{Label: "discrimination", Keywords: []string{"discrimination"}},
					{Label: "harassment", Keywords: []string{"harassment"}},
					{Label: "wrongful_termination", Keywords: []string{"termination", "fired"}},
					{Label: "wage_dispute", Keywords: []string{"wage", "pay"}},
				},
			},
		},
		CaseTypes: map[string]models.CaseTypeProfile{
			models.CaseTypePersonalInjury: {
				Subtypes:       []string{"motor_vehicle", "slip_fall", "medical_malpractice", "product_liability", "workplace"},
				AvgDuration:    18,
				SettlementRate: 0.85,
			},
			models.CaseTypeContractDispute: {
				Subtypes:       []string{"breach", "performance", "payment", "warranty"},
				AvgDuration:    14,
				SettlementRate: 0.78,
			},
			models.CaseTypeEmployment: {
				Subtypes:       []string{"discrimination", "harassment", "wrongful_termination", "wage_dispute"},
				AvgDuration:    22,
				SettlementRate: 0.72,
			},
		},
		ComplexityTiers: []LabelThreshold{
			{Above: 1000, Label: models.ComplexityNovel},
			{Above: 500, Label: models.ComplexityComplex},
		},

		DateLayouts:     []string{"2006-01-02", "01/02/2006", "02-01-2006", "1/2/2006", "2-1-2006", "January 2, 2006"},
		DefaultDuration: 18,
		DaysPerMonth:    30.44,
		DaysPerYear:     365.25,
		LimitationsRiskBand: []LabelThreshold{
			{Above: 2.5, Label: "high"},
			{Above: 1.5, Label: "medium"},
		},

		Injuries: []InjuryProfile{
			{Name: "whiplash", Min: 2, Max: 6, ChronicRisk: 0.3},
			{Name: "fracture", Min: 4, Max: 8, ChronicRisk: 0.25},
			{Name: "concussion", Min: 3, Max: 7, ChronicRisk: 0.4},
			{Name: "soft_tissue", Min: 1, Max: 5, ChronicRisk: 0.2},
			{Name: "spinal", Min: 6, Max: 10, ChronicRisk: 0.7},
			{Name: "traumatic_brain_injury", Min: 7, Max: 10, ChronicRisk: 0.8},
			{Name: "amputation", Min: 8, Max: 10, ChronicRisk: 0.9},
			{Name: "psychological", Min: 3, Max: 9, ChronicRisk: 0.5},
		},
		SeverityIndicators: []WeightedTerm{
			{"severe", 3}, {"significant", 2.5}, {"serious", 2.5}, {"moderate", 1.5},
			{"mild", 0.5}, {"minor", 0.5}, {"permanent", 3}, {"temporary", 1},
			{"chronic", 2}, {"acute", 1.5}, {"surgery", 2.5}, {"hospitalization", 2},
			{"therapy", 1}, {"pain", 1}, {"disability", 2.5}, {"impairment", 2},
		},
		DefaultSeverity:      3,
		BaseInjuryMultiplier: 1.5,
		SeverityMultipliers: []Threshold{
			{Above: 7, Value: 4.0},
			{Above: 5, Value: 3.0},
			{Above: 3, Value: 2.0},
		},
		TypeMultipliers: map[string]float64{
			models.CaseTypeContractDispute: 0.25,
			models.CaseTypeEmployment:      1.0,
		},

		PartyTypeRules: []KeywordRule{
			{Label: models.PartyBusiness, Keywords: []string{"company", "corporation", "business"}},
			{Label: models.PartyGovernment, Keywords: []string{"government", "agency", "department"}},
		},
		SympatheticIndicators: []string{
			"child", "elderly", "pregnant", "disability", "veteran",
			"pre-existing", "family", "emotional", "trauma", "victim",
		},
		SympatheticSaturation: 5,
		CredibilityPositive:   []string{"consistent", "documented", "evidence", "witness", "record"},
		CredibilityNegative:   []string{"inconsistent", "contradiction", "prior claim", "criminal", "misleading"},
		CredibilityDelta:      0.1,

		DeepPocketTiers: []ScoredRule{
			{Score: 0.8, Keywords: []string{"large", "corporation", "multinational"}},
			{Score: 0.5, Keywords: []string{"medium", "regional"}},
		},
		DeepPocketDefault:     0.3,
		PRIndicators:          []string{"public", "reputation", "media", "news", "press", "scandal", "attention"},
		PRSaturation:          3,
		GovernmentDeepPockets: 0.7,
		GovernmentPRRisk:      0.6,

		RepresentationBaseline: 0.5,
		ExpertRepresentation:   0.2,

		RelationshipRules: []KeywordRule{
			{Label: "contractual", Keywords: []string{"contract", "agreement", "business relationship", "client", "customer"}},
			{Label: "employment", Keywords: []string{"employee", "employer", "workplace", "job", "work"}},
			{Label: "professional", Keywords: []string{"doctor", "patient", "lawyer", "client", "professional"}},
			{Label: "personal", Keywords: []string{"family", "friend", "neighbor", "personal", "relative"}},
		},
		OngoingIndicators: []string{"ongoing", "current", "continuing", "still", "remains"},
		PowerDynamics: map[string]float64{
			"employment":   -0.5,
			"professional": -0.3,
		},
		BusinessPowerShift:   -0.2,
		GovernmentPowerShift: -0.4,

		EvidenceTypes: []KeywordRule{
			{Label: "documentary", Keywords: []string{"document", "record", "report", "file", "written"}},
			{Label: "testimonial", Keywords: []string{"witness", "testimony", "statement", "interview"}},
			{Label: "physical", Keywords: []string{"physical", "object", "item", "exhibit"}},
			{Label: "digital", Keywords: []string{"video", "recording", "email", "message", "digital", "electronic"}},
			{Label: "expert", Keywords: []string{"expert", "specialist", "professional opinion"}},
		},
		EvidenceGaps: []KeywordRule{
			{Label: "no_witnesses", Keywords: []string{"no witness", "lack of witness", "without witness"}},
			{Label: "no_documentation", Keywords: []string{"no document", "lack of document", "without document"}},
			{Label: "no_physical_evidence", Keywords: []string{"no physical", "lack of physical", "without physical"}},
			{Label: "conflicting_evidence", Keywords: []string{"conflict", "contradict", "inconsistent"}},
		},
		EvidenceGapPenalty: 0.1,
		TypeSaturation:     5,
		HitSaturation:      10,

		MedicalExpertWeight:    0.4,
		NonMedicalExpertWeight: 0.3,

		DocumentTypes: []KeywordRule{
			{Label: "medical_records", Keywords: []string{"medical record", "health record", "hospital record", "doctor record"}},
			{Label: "contracts", Keywords: []string{"contract", "agreement", "terms", "signed document"}},
			{Label: "correspondence", Keywords: []string{"email", "letter", "message", "correspondence", "communication"}},
			{Label: "financial_records", Keywords: []string{"financial", "accounting", "bank", "transaction", "payment"}},
			{Label: "official_reports", Keywords: []string{"police report", "incident report", "official report", "investigation"}},
		},
		DocumentTypeBonus:    0.1,
		SmokingGunIndicators: []string{"smoking gun", "conclusive", "definitive", "undeniable", "admission"},
		SmokingGunBonus:      0.3,

		WitnessTypes: []KeywordRule{
			{Label: "eyewitness", Keywords: []string{"eyewitness", "saw", "observed", "witnessed"}},
			{Label: "character_witness", Keywords: []string{"character", "reputation", "vouched"}},
			{Label: "expert_witness", Keywords: []string{"expert witness", "expert testimony", "professional opinion"}},
			{Label: "fact_witness", Keywords: []string{"fact witness", "factual testimony"}},
		},
		CredibleWitnessTypes:  []string{"eyewitness", "expert_witness"},
		WitnessTypeBonus:      0.1,
		WitnessPositive:       []string{"consistent", "reliable", "credible", "trustworthy", "unbiased"},
		WitnessNegative:       []string{"inconsistent", "unreliable", "biased", "contradictory", "impeached"},
		WitnessDelta:          0.1,

		StageRules: []StageRule{
			{Stage: models.StageDiscovery, Readiness: 0.3, All: []string{"discovery"}},
			{Stage: models.StageDiscovery, Readiness: 0.4, All: []string{"deposition"}},
			{Stage: models.StageDispositiveMotions, Readiness: 0.6, All: []string{"motion", "summary judgment"}},
			{Stage: models.StagePretrial, Readiness: 0.8, All: []string{"pretrial"}},
			{Stage: models.StageTrial, Readiness: 1.0, All: []string{"trial"}},
		},
		DiscoveryFavorable:    []string{"plaintiff favorable", "defendant unfavorable"},
		DiscoveryUnfavorable:  []string{"plaintiff unfavorable", "defendant favorable"},
		DiscoveryDelta:        0.2,
		MotionDelta:           0.3,
		PendingMotionCues:     []string{"pending motion", "filed motion"},
		DispositiveIndicators: []string{"summary judgment", "dismiss", "judgment on the pleadings"},
		DispositiveRisk:       0.7,

		NegotiationIndicators: []string{"settlement", "negotiation", "demand", "offer"},

		ADRBaseline:      0.5,
		ArbitrationCues:  []string{"arbitration clause", "arbitration agreement"},
		ArbitrationScore: 0.9,
		ADRTypeBonus: map[string]float64{
			models.CaseTypeContractDispute: 0.2,
			models.CaseTypeEmployment:      0.1,
		},
		ADROngoingBonus: 0.2,
	}
}
