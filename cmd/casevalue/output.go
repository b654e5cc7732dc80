package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"casevalue-backend/currency"
	"casevalue-backend/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	highColor     = color.New(color.FgGreen, color.Bold)
	moderateColor = color.New(color.FgYellow)
	lowColor      = color.New(color.FgRed, color.Bold)
	headingColor  = color.New(color.FgCyan, color.Bold)
)

func classificationLabel(score float64, label string) string {
	switch {
	case score >= 7:
		return highColor.Sprint(label)
	case score >= 5:
		return moderateColor.Sprint(label)
	default:
		return lowColor.Sprint(label)
	}
}

// printAnalysis renders the headline result, the intervals and the comparables.
func printAnalysis(w io.Writer, a *models.AnalysisResult) error {
	headingColor.Fprintf(w, "Analysis %s (%s)\n", a.ID, a.Status)

	summary := tablewriter.NewWriter(w)
	summary.Header([]string{"Field", "Value"})
	rows := [][]string{
		{"Case", a.CaseTitle},
		{"Predicted Settlement", currency.FormatWhole(a.PredictedSettlement)},
		{"Confidence", fmt.Sprintf("%.1f/10", a.Summary.OverallScore)},
		{"Classification", classificationLabel(a.Summary.OverallScore, a.Summary.Classification)},
	}
	if a.ReportPath != nil {
		rows = append(rows, []string{"Report", *a.ReportPath})
	}
	if err := summary.Bulk(rows); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w, a.Summary.Explanation)

	if a.Confidence != nil {
		if err := printIntervals(w, a.Confidence.Statistical); err != nil {
			return err
		}
		if err := printDimensions(w, a.Confidence.MultiDimensional); err != nil {
			return err
		}
	}

	if len(a.SimilarCases) > 0 {
		if err := printSimilarCases(w, a.SimilarCases); err != nil {
			return err
		}
	}
	return nil
}

func printIntervals(w io.Writer, stat models.StatisticalConfidence) error {
	headingColor.Fprintf(w, "\nConfidence Intervals (%s)\n", stat.DistributionType)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Level", "Lower", "Upper"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, level := range []string{models.Interval90, models.Interval80, models.Interval50} {
		iv, ok := stat.ConfidenceIntervals[level]
		if !ok {
			continue
		}
		data = append(data, []string{level, currency.FormatWhole(iv.Lower), currency.FormatWhole(iv.Upper)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func printDimensions(w io.Writer, multi models.ConfidenceAssessment) error {
	headingColor.Fprintf(w, "\nConfidence Dimensions (%s weights)\n", multi.WeightProfile)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Score", "Weight"})

	var data [][]string
	for _, dim := range models.Dimensions {
		score := multi.DimensionScores[dim]
		data = append(data, []string{
			dim,
			classificationLabel(score, strconv.FormatFloat(score, 'f', 1, 64)),
			strconv.FormatFloat(multi.DimensionWeights[dim], 'f', 2, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	dims := make([]string, 0, len(multi.ImprovementRecommendations))
	for dim := range multi.ImprovementRecommendations {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		for _, rec := range multi.ImprovementRecommendations[dim] {
			fmt.Fprintf(w, "  - [%s] %s\n", dim, rec)
		}
	}
	return nil
}

func printSimilarCases(w io.Writer, similar []models.SimilarCase) error {
	headingColor.Fprintln(w, "\nComparable Cases")

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Title", "Type", "Similarity", "Settlement"})

	var data [][]string
	for i, c := range similar {
		settlement := "-"
		if v := c.Metadata.SettlementValue; v != nil {
			settlement = currency.FormatWhole(*v)
		} else if v := c.SettlementValue; v != nil {
			settlement = currency.FormatWhole(*v)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			c.Title,
			c.Metadata.CaseType,
			strconv.FormatFloat(c.Similarity, 'f', 3, 64),
			settlement,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
