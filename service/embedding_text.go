package service

import (
	"fmt"
	"strings"

	"casevalue-backend/currency"
	"casevalue-backend/features"
	"casevalue-backend/models"
)

// EmbeddingText renders a case and its feature summary as the retrieval
// query. Empty fields are left out; damages only when positive.
func EmbeddingText(c models.CaseRecord, f models.ExtractedFeatures) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	writeLine(&b, "Court", c.Court)
	writeLine(&b, "Claim Type", c.ClaimType)
	writeLine(&b, "Facts", c.Facts)
	writeLine(&b, "Injury Details", c.InjuryDetails)
	if c.Damages > 0 {
		fmt.Fprintf(&b, "Damages: %s\n", currency.Format(c.Damages))
	}

	b.WriteString("\nExtracted Features:\n")
	b.WriteString(features.Summary(f))

	return b.String()
}

// CorpusText renders a historical case for document embedding.
func CorpusText(c models.CorpusCase) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	writeLine(&b, "Case Type", c.Metadata.CaseType)
	writeLine(&b, "Jurisdiction", c.Metadata.Jurisdiction)
	if len(c.Metadata.InjuryTypes) > 0 {
		writeLine(&b, "Injury Types", strings.Join(c.Metadata.InjuryTypes, ", "))
	}
	if d := c.Metadata.Damages; d != nil && *d > 0 {
		fmt.Fprintf(&b, "Damages: %s\n", currency.Format(*d))
	}
	if c.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", c.Description)
	}

	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
