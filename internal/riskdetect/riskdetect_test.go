package riskdetect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const depositClause = "The tenant shall pay a security deposit of £1,200, refundable subject to deductions for damage."

func TestKeywordsFor(t *testing.T) {
	kws := KeywordsFor("deposit")
	require.NotEmpty(t, kws)
	// evidence hint phrases come first
	assert.Equal(t, "security deposit", kws[0])
	assert.Contains(t, kws, "refundable")
	assert.Contains(t, kws, "deductions")

	seen := map[string]bool{}
	for _, k := range kws {
		assert.False(t, seen[k], "duplicate keyword %q", k)
		seen[k] = true
		assert.Equal(t, strings.ToLower(k), k)
	}

	assert.Empty(t, KeywordsFor("no_such_risk"))
}

func TestIsMentioned(t *testing.T) {
	assert.True(t, IsMentioned(depositClause, "deposit"))
	assert.True(t, IsMentioned(strings.ToUpper(depositClause), "deposit"))

	assert.False(t, IsMentioned("", "deposit"))
	assert.False(t, IsMentioned("The deposit is due.", "deposit"), "a single hit is not enough")
	assert.False(t, IsMentioned("Nothing relevant here at all.", "deposit"))
	assert.False(t, IsMentioned(depositClause, "no_such_risk"))
}

func TestIsMentioned_RequiresProximity(t *testing.T) {
	far := "A deposit is mentioned here." + strings.Repeat(" filler", 40) + " and a bond there."
	assert.False(t, IsMentioned(far, "deposit"))

	near := "A deposit is mentioned here and a bond there."
	assert.True(t, IsMentioned(near, "deposit"))
}

func TestIsMentioned_OverlappingHitsCountOnce(t *testing.T) {
	assert.False(t, IsMentioned("Deposit protection applies.", "deposit"))
	assert.False(t, IsMentioned("See clause 4 on the break clause.", "break_clause"))
	assert.True(t, IsMentioned("Deposit protection applies and the bond is held.", "deposit"))
}

func TestMergeSpans(t *testing.T) {
	got := mergeSpans([][2]int{{20, 25}, {0, 7}, {0, 18}, {20, 32}, {40, 44}})
	assert.Equal(t, [][2]int{{0, 18}, {20, 32}, {40, 44}}, got)
	assert.Nil(t, mergeSpans(nil))
}

func TestIsMentioned_WordBoundaries(t *testing.T) {
	// "bonded" and "deposited" are not whole-word hits for bond and deposit
	assert.False(t, IsMentioned("The goods were bonded and deposited.", "deposit"))
}

func TestExtractFacts(t *testing.T) {
	text := depositClause + " Rent of £950 per month is due from 1 March 2025 and reviewed on 01/03/2026. " +
		"The lease ends March 3, 2027. A further £1,200 is payable."
	f := ExtractFacts(text, "deposit")

	assert.Equal(t, []string{"£1,200", "£950 per month"}, f.Amounts)
	assert.Equal(t, []string{"1 March 2025", "01/03/2026", "March 3, 2027"}, f.Dates)
	require.Len(t, f.Snippets, 1)
	assert.Contains(t, f.Snippets[0], "security deposit")
}

func TestExtractFacts_UnknownRisk(t *testing.T) {
	f := ExtractFacts(depositClause, "no_such_risk")
	assert.Empty(t, f.Amounts)
	assert.Empty(t, f.Dates)
	assert.Empty(t, f.Snippets)
}

func TestExtractFacts_SnippetKeepsRunes(t *testing.T) {
	text := strings.Repeat("£", 80) + " security deposit " + strings.Repeat("€", 80)
	f := ExtractFacts(text, "deposit")
	require.Len(t, f.Snippets, 1)
	assert.True(t, strings.HasPrefix(f.Snippets[0], "£"))
	assert.True(t, strings.HasSuffix(f.Snippets[0], "€"))
}

func TestFormatKeyInfo(t *testing.T) {
	f := ExtractFacts(depositClause, "deposit")
	assert.Equal(t, "Deposit is £1,200, refundable subject to conditions.", FormatKeyInfo("deposit", f))

	assert.Equal(t, "Deposit amount specified, refundable subject to conditions.", FormatKeyInfo("deposit", Facts{}))
	assert.Equal(t, "Utility responsibilities and billing arrangements specified.", FormatKeyInfo("utilities", Facts{}))

	assert.Equal(t, "Amount specified: $40.", FormatKeyInfo("no_such_risk", Facts{Amounts: []string{"$40"}}))
	assert.Equal(t, "", FormatKeyInfo("no_such_risk", Facts{}))
}

func TestFormatKeyInfo_KeepsDecimalAmounts(t *testing.T) {
	got := FormatKeyInfo("rent_increases", Facts{Amounts: []string{"£950.50"}})
	assert.Equal(t, "Rent is £950.50; increases may apply annually.", got)
}

func TestEveryTemplateIsOneShortSentence(t *testing.T) {
	f := Facts{Amounts: []string{"£100"}, Dates: []string{"1 May 2025"}}
	for id := range templates {
		out := FormatKeyInfo(id, f)
		require.NotEmpty(t, out, id)
		assert.LessOrEqual(t, len(strings.Fields(out)), maxKeyInfoWords, id)
		assert.True(t, strings.HasSuffix(out, "."), id)
	}
}

func TestEveryTaxonomyRiskHasKeywords(t *testing.T) {
	for id := range riskKeywords {
		assert.NotEmpty(t, KeywordsFor(id), id)
		_, ok := templates[id]
		assert.True(t, ok, "no template for %s", id)
	}
}
