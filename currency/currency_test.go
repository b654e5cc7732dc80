package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrediction(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{
			name: "most likely value wins over earlier amounts",
			text: "Economic losses were $12,000. The most likely settlement value is $85,500.00 given the record.",
			want: 85500,
		},
		{
			name: "settlement value of",
			text: "We estimate a settlement value of approximately $120,000.",
			want: 120000,
		},
		{
			name: "range takes the upper bound",
			text: "The settlement range is $40,000 to $65,000 depending on discovery.",
			want: 65000,
		},
		{
			name: "generic dollar amount",
			text: "Comparable verdicts cluster near $30,250.",
			want: 30250,
		},
		{
			name: "scale suffix",
			text: "The most likely settlement value is $1.5 million.",
			want: 1500000,
		},
		{
			name: "no amount falls back",
			text: "Insufficient information to estimate.",
			want: DefaultPrediction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPrediction(tt.text, DefaultPrediction)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestExtractOutcome(t *testing.T) {
	t.Run("largest amount across the description", func(t *testing.T) {
		v, ok := ExtractOutcome("Plaintiff demanded $500,000 before trial; the case settled for $50,000.")
		require.True(t, ok)
		assert.Equal(t, 500000.0, v)
	})

	t.Run("spaced letter is not a scale", func(t *testing.T) {
		v, ok := ExtractOutcome("The $40,000 M&A escrow was released.")
		require.True(t, ok)
		assert.Equal(t, 40000.0, v)
	})

	t.Run("attached letter scale", func(t *testing.T) {
		v, ok := ExtractOutcome("Jury returned $2.5M; remittitur cut it to $900k.")
		require.True(t, ok)
		assert.Equal(t, 2500000.0, v)
	})

	t.Run("settled for", func(t *testing.T) {
		v, ok := ExtractOutcome("settled for $50,000")
		require.True(t, ok)
		assert.Equal(t, 50000.0, v)
	})

	t.Run("no amount", func(t *testing.T) {
		_, ok := ExtractOutcome("Dismissed with prejudice.")
		assert.False(t, ok)
	})
}

func TestNegotiationPatterns(t *testing.T) {
	demand, ok := Lookup("demand")
	require.True(t, ok)
	offer, ok := Lookup("offer")
	require.True(t, ok)

	facts := "plaintiff sent a demand letter for $150,000 and the insurer made an offer of $60,000"

	d, ok := demand.First(facts)
	require.True(t, ok)
	assert.Equal(t, 150000.0, d)

	o, ok := offer.First(facts)
	require.True(t, ok)
	assert.Equal(t, 60000.0, o)
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("1,250", "k")
	require.NoError(t, err)
	assert.Equal(t, 1250000.0, v)

	v, err = ParseAmount("3", " million")
	require.NoError(t, err)
	assert.Equal(t, 3000000.0, v)

	m, ok := Lookup("dollar")
	require.True(t, ok)
	for text, want := range map[string]float64{
		"$40,000 M&A":     40000,
		"$7,500 K-9 unit": 7500,
		"$12k":            12000,
		"$4 thousand":     4000,
		"$1.2 million":    1200000,
	} {
		got, ok := m.First(text)
		require.True(t, ok, text)
		assert.InDelta(t, want, got, 1e-6, text)
	}

	_, err = ParseAmount("", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", Format(1234567.891))
	assert.Equal(t, "$50,000", FormatWhole(50000))
}
