// Package currency finds and parses dollar amounts in free text. A single
// ordered pattern table serves both settlement-prediction parsing of model
// output and outcome extraction from comparable case descriptions.
package currency

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid currency amount")

const (
	// Word scales may follow a space; letter scales must touch the digits.
	amountExpr        = `(?P<amount>[0-9][0-9,]*(?:\.[0-9]{1,2})?)(?:(?P<unit>\s?million|\s?thousand|k|m)\b)?`
	anonymousAmount   = `[0-9][0-9,]*(?:\.[0-9]{1,2})?(?:(?:\s?million|\s?thousand|k|m)\b)?`
	DefaultPrediction = 50000.0
)

// Usage selects which call sites a pattern participates in.
type Usage int

const (
	UsagePrediction Usage = 1 << iota
	UsageSettlement
	UsageNegotiation
)

// Pattern is one named currency expression. The amount is read from the
// "amount" capture group with an optional "unit" scale suffix.
type Pattern struct {
	Name  string
	Usage Usage
	re    *regexp.Regexp
}

func newPattern(name string, usage Usage, expr string) Pattern {
	return Pattern{Name: name, Usage: usage, re: regexp.MustCompile(expr)}
}

// table is ordered by priority within each usage. Predictions try the
// specific phrases and fall back to the bare dollar pattern. Outcomes try
// the bare dollar pattern first, so the largest amount anywhere in a
// description wins.
var table = []Pattern{
	newPattern("most_likely_value", UsagePrediction, `(?i)most likely settlement value.*?\$\s*`+amountExpr),
	newPattern("settlement_value_of", UsagePrediction, `(?i)settlement value of.*?\$\s*`+amountExpr),
	newPattern("likely_settlement", UsagePrediction, `(?i)likely settlement.*?\$\s*`+amountExpr),
	newPattern("settlement_range_upper", UsagePrediction, `(?i)settlement range.*?\$\s*`+anonymousAmount+` to \$\s*`+amountExpr),
	newPattern("settlement_any", UsagePrediction, `(?i)settlement.*?\$\s*`+amountExpr),
	newPattern("dollar", UsagePrediction|UsageSettlement, `(?i)\$\s*`+amountExpr),
	newPattern("settled_for", UsageSettlement, `(?i)settled for\s*\$\s*`+amountExpr),
	newPattern("settlement_of", UsageSettlement, `(?i)settlement of\s*\$\s*`+amountExpr),
	newPattern("awarded", UsageSettlement, `(?i)awarded\s*\$\s*`+amountExpr),
	newPattern("verdict_of", UsageSettlement, `(?i)verdict of\s*\$\s*`+amountExpr),
	newPattern("judgment_of", UsageSettlement, `(?i)judgment of\s*\$\s*`+amountExpr),
	newPattern("demand", UsageNegotiation, `(?i)demand.*?\$\s*`+amountExpr),
	newPattern("offer", UsageNegotiation, `(?i)offer.*?\$\s*`+amountExpr),
}

// Patterns returns the table entries for usage in priority order.
func Patterns(usage Usage) []Pattern {
	var out []Pattern
	for _, p := range table {
		if p.Usage&usage != 0 {
			out = append(out, p)
		}
	}
	return out
}

// Lookup returns the named pattern.
func Lookup(name string) (Pattern, bool) {
	for _, p := range table {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// First returns the amount of the leftmost match.
func (p Pattern) First(text string) (float64, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := p.parse(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// All returns every parseable amount matched in text, in order.
func (p Pattern) All(text string) []float64 {
	var values []float64
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		if v, err := p.parse(m); err == nil {
			values = append(values, v)
		}
	}
	return values
}

func (p Pattern) parse(match []string) (float64, error) {
	amount := match[p.re.SubexpIndex("amount")]
	unit := ""
	if i := p.re.SubexpIndex("unit"); i >= 0 && i < len(match) {
		unit = match[i]
	}
	return ParseAmount(amount, unit)
}

// ParseAmount converts "1,250,000.00" style digits plus an optional scale
// suffix (k, m, thousand, million) into a value.
func ParseAmount(amount, unit string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(amount), ",", "")
	if clean == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "k", "thousand":
		v *= 1_000
	case "m", "million":
		v *= 1_000_000
	}
	return v, nil
}

// ExtractPrediction returns the first amount found by the prediction
// patterns in order, or fallback when none match.
func ExtractPrediction(text string, fallback float64) float64 {
	for _, p := range Patterns(UsagePrediction) {
		if v, ok := p.First(text); ok {
			return v
		}
	}
	return fallback
}

// ExtractOutcome returns the largest amount matched by the first settlement
// pattern that matches text at all.
func ExtractOutcome(text string) (float64, bool) {
	for _, p := range Patterns(UsageSettlement) {
		values := p.All(text)
		if len(values) == 0 {
			continue
		}
		best := values[0]
		for _, v := range values[1:] {
			if v > best {
				best = v
			}
		}
		return best, true
	}
	return 0, false
}

var printer = message.NewPrinter(language.English)

// Format renders v as "$1,234.56".
func Format(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// FormatWhole renders v as "$1,234".
func FormatWhole(v float64) string {
	return printer.Sprintf("$%.0f", v)
}
