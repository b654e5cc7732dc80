// Package prompt assembles the settlement prediction prompt from case data,
// extracted features, comparable cases and embedded framework templates.
package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"casevalue-backend/currency"
	"casevalue-backend/features"
	"casevalue-backend/models"
)

//go:embed templates/*.md
var embedded embed.FS

// Header opens every prompt.
const Header = "# LEGAL SETTLEMENT PREDICTION WITH PREDICTIVE ANALYTICS\n"

// Prompt components
const (
	ComponentCaseInformation        = "case_information"
	ComponentCaseFeatures           = "case_features"
	ComponentSimilarCases           = "similar_cases"
	ComponentAnalysisFramework      = "analysis_framework"
	ComponentPredictionRequirements = "prediction_requirements"
	ComponentExplanationFramework   = "explanation_framework"
	ComponentConfidenceAssessment   = "confidence_assessment"
	ComponentScenarioAnalysis       = "scenario_analysis"
	ComponentLimitations            = "limitations_acknowledgment"
)

// DefaultComponents is the full prompt in order.
var DefaultComponents = []string{
	ComponentCaseInformation,
	ComponentCaseFeatures,
	ComponentSimilarCases,
	ComponentAnalysisFramework,
	ComponentPredictionRequirements,
	ComponentExplanationFramework,
	ComponentConfidenceAssessment,
	ComponentScenarioAnalysis,
	ComponentLimitations,
}

// typed components have one template per case type plus a default.
var typedPrefixes = map[string]string{
	ComponentAnalysisFramework:      "analysis",
	ComponentPredictionRequirements: "prediction",
	ComponentExplanationFramework:   "explanation",
}

var staticTemplates = map[string]string{
	ComponentConfidenceAssessment: "confidence_assessment",
	ComponentScenarioAnalysis:     "scenario_analysis",
	ComponentLimitations:          "limitations",
}

const defaultType = "default"

// Assembler builds prompts. It is safe for concurrent use.
type Assembler struct {
	templates map[string]string
}

// Option is a functional option for Assembler
type Option func(*assemblerConfig)

type assemblerConfig struct {
	fsys fs.FS
	dir  string
}

// WithTemplates loads templates from fsys/dir instead of the embedded set.
// Every default template must be present.
func WithTemplates(fsys fs.FS, dir string) Option {
	return func(c *assemblerConfig) {
		c.fsys = fsys
		c.dir = dir
	}
}

// NewAssembler loads the framework templates.
func NewAssembler(opts ...Option) (*Assembler, error) {
	cfg := &assemblerConfig{fsys: embedded, dir: "templates"}
	for _, opt := range opts {
		opt(cfg)
	}

	entries, err := fs.ReadDir(cfg.fsys, cfg.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	a := &Assembler{templates: make(map[string]string, len(entries))}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		data, err := fs.ReadFile(cfg.fsys, cfg.dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		a.templates[strings.TrimSuffix(name, ".md")] = string(data)
	}

	required := make([]string, 0, len(typedPrefixes)+len(staticTemplates))
	for _, prefix := range typedPrefixes {
		required = append(required, prefix+"_"+defaultType)
	}
	for _, name := range staticTemplates {
		required = append(required, name)
	}
	for _, name := range required {
		if _, ok := a.templates[name]; !ok {
			return nil, fmt.Errorf("missing template %s.md", name)
		}
	}

	return a, nil
}

// Build renders the requested components in the order given, or
// DefaultComponents when none are named. Unknown names are skipped.
func (a *Assembler) Build(c models.CaseRecord, f models.ExtractedFeatures, similar []models.SimilarCase,
	components ...string) string {
	if len(components) == 0 {
		components = DefaultComponents
	}
	caseType := f.CaseCharacteristics.CaseType.PrimaryType

	parts := []string{Header}
	for _, comp := range components {
		switch comp {
		case ComponentCaseInformation:
			parts = append(parts, CaseInformation(c))
		case ComponentCaseFeatures:
			parts = append(parts, features.Format(f))
		case ComponentSimilarCases:
			parts = append(parts, SimilarCases(similar))
		default:
			if prefix, ok := typedPrefixes[comp]; ok {
				parts = append(parts, a.typed(prefix, caseType))
			} else if name, ok := staticTemplates[comp]; ok {
				parts = append(parts, a.templates[name])
			}
		}
	}
	return strings.Join(parts, "\n")
}

func (a *Assembler) typed(prefix, caseType string) string {
	if t, ok := a.templates[prefix+"_"+caseType]; ok {
		return t
	}
	return a.templates[prefix+"_"+defaultType]
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// CaseInformation renders the case record section.
func CaseInformation(c models.CaseRecord) string {
	var b strings.Builder
	section := func(title, body string) {
		fmt.Fprintf(&b, "### %s\n%s\n\n", title, body)
	}
	optional := func(title, body string) {
		if strings.TrimSpace(body) != "" {
			section(title, body)
		}
	}

	b.WriteString("## CASE INFORMATION\n\n")
	section("Case Title", or(c.Title, "Untitled Case"))
	optional("Case Number", c.CaseNumber)
	optional("Court", c.Court)
	optional("Date Filed", c.DateFiled)
	optional("Judge/Arbitrator/Mediator", c.Judge)
	optional("Insurance Company", c.InsuranceCompany)
	section("Claim Type", or(c.ClaimType, "Unknown"))

	if len(c.InjuryTypes) > 0 {
		b.WriteString("### Injury Types\n")
		for _, injury := range c.InjuryTypes {
			fmt.Fprintf(&b, "- %s\n", injury)
		}
		b.WriteString("\n")
	}

	section("Facts", or(c.Facts, "No facts provided."))
	section("Injury Details", or(c.InjuryDetails, "No injury details provided."))
	section("Economic Damages", currency.Format(c.Damages))

	optional("Plaintiff Medical Expert", c.PlaintiffMedicalExpert)
	optional("Defendant Medical Expert", c.DefendantMedicalExpert)
	optional("Plaintiff Non-Medical Expert", c.PlaintiffNonMedicalExpert)
	optional("Defendant Non-Medical Expert", c.DefendantNonMedicalExpert)

	return b.String()
}

// SimilarCases renders the comparable cases and the comparison instructions.
func SimilarCases(similar []models.SimilarCase) string {
	var b strings.Builder
	b.WriteString("## SIMILAR CASES\n\n")

	if len(similar) == 0 {
		b.WriteString("No similar cases found in the database.\n\n")
		return b.String()
	}

	for i, c := range similar {
		fmt.Fprintf(&b, "### Similar Case %d: %s\n", i+1, or(c.Title, "Untitled Case"))
		fmt.Fprintf(&b, "**Similarity Score:** %.2f\n\n", c.Similarity)
		b.WriteString("**Case Description:**\n")
		fmt.Fprintf(&b, "%s\n\n", or(c.Description, "No description available."))

		if lines := metadataLines(c.Metadata); len(lines) > 0 {
			b.WriteString("**Additional Information:**\n")
			for _, l := range lines {
				fmt.Fprintf(&b, "- %s\n", l)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("### Comparative Analysis Instructions\n")
	b.WriteString("When analyzing the current case, consider these similar cases with the following approach:\n")
	b.WriteString("1. Identify key similarities and differences in fact patterns\n")
	b.WriteString("2. Compare liability theories and strength of evidence\n")
	b.WriteString("3. Analyze damage awards or settlements in similar cases\n")
	b.WriteString("4. Consider jurisdictional differences that may impact outcomes\n")
	b.WriteString("5. Evaluate how procedural postures compare to the current case\n\n")

	return b.String()
}

func metadataLines(m models.CaseMetadata) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	money := func(v *float64) string {
		if v == nil {
			return ""
		}
		return currency.Format(*v)
	}

	add("Case Type", m.CaseType)
	add("Jurisdiction", m.Jurisdiction)
	add("Damages", money(m.Damages))
	add("Injury Types", strings.Join(m.InjuryTypes, ", "))
	add("Settlement Value", money(m.SettlementValue))
	add("Verdict Amount", money(m.VerdictAmount))
	add("Judgment Amount", money(m.JudgmentAmount))

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		if k != "title" && k != "description" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(features.Label(k), fmt.Sprint(m.Extra[k]))
	}
	return lines
}
