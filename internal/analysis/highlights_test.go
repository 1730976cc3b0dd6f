package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHighlights(t *testing.T) {
	r := &FullResult{
		KeyDetails: KeyDetails{
			AmountsMentioned:     []string{"£1,200", "", "£50", "£99"},
			DatesMentioned:       []string{NotSpecified, "1 March 2025"},
			TerminationOrRenewal: []string{"Two months notice"},
		},
		LiabilityAndRisks: []RiskNote{
			{Clause: "Tenant liable for all damage to the property and its contents"},
			{Clause: "Late fees"},
		},
	}
	assert.Equal(t, []string{
		"£1,200",
		"1 March 2025",
		"Tenant liable for all damage to the p...",
		"Late fees",
		"Two months notice",
	}, DeriveHighlights(r))
}

func TestDeriveHighlights_CapsAtFive(t *testing.T) {
	r := &FullResult{
		KeyDetails: KeyDetails{
			AmountsMentioned:     []string{"a", "b"},
			DatesMentioned:       []string{"c", "d"},
			TerminationOrRenewal: []string{"f"},
		},
		LiabilityAndRisks: []RiskNote{{Clause: "e"}, {Clause: "x"}},
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, DeriveHighlights(r))
}

func TestDeriveHighlights_Empty(t *testing.T) {
	got := DeriveHighlights(&FullResult{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
