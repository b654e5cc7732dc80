package models

// CaseRecord is the raw description of a case submitted for analysis.
// Every field is optional; absent text fields are empty strings.
type CaseRecord struct {
	Title            string   `json:"title"`
	CaseNumber       string   `json:"case_number,omitempty"`
	Court            string   `json:"court"`
	DateFiled        string   `json:"date_filed"`
	Judge            string   `json:"judge"`
	ClaimType        string   `json:"claim_type"`
	Facts            string   `json:"facts"`
	InjuryDetails    string   `json:"injury_details"`
	InjuryTypes      []string `json:"injury_types"`
	Damages          float64  `json:"damages"`
	InsuranceCompany string   `json:"insurance_company"`

	PlaintiffMedicalExpert    string `json:"plaintiff_medical_expert"`
	DefendantMedicalExpert    string `json:"defendant_medical_expert"`
	PlaintiffNonMedicalExpert string `json:"plaintiff_non_medical_expert"`
	DefendantNonMedicalExpert string `json:"defendant_non_medical_expert"`
}

// HasPlaintiffExpert reports whether the plaintiff retained any expert.
func (c CaseRecord) HasPlaintiffExpert() bool {
	return c.PlaintiffMedicalExpert != "" || c.PlaintiffNonMedicalExpert != ""
}

// HasDefendantExpert reports whether the defense retained any expert.
func (c CaseRecord) HasDefendantExpert() bool {
	return c.DefendantMedicalExpert != "" || c.DefendantNonMedicalExpert != ""
}
