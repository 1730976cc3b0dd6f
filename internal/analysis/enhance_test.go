package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contractlens-backend/internal/contracttype"
	"contractlens-backend/internal/taxonomy"
)

func leaseMatrix() []taxonomy.MatrixEntry {
	return SanitizeFull(nil, taxonomy.LoadCategories(string(contracttype.ResidentialLease))).RiskCoverageMatrix
}

func TestEnhance_FlipsHeuristicHits(t *testing.T) {
	m := leaseMatrix()
	n := enhance(m, depositClause)
	assert.Positive(t, n)

	dep := row(m, "deposit")
	assert.Equal(t, taxonomy.Ambiguous, dep.Status)
	assert.Contains(t, dep.Evidence, "security deposit of £1,200")
	assert.Equal(t, "Deposit is £1,200, refundable subject to conditions.", dep.KeyInfo)
}

func TestEnhance_SinglePhraseIsNotEnough(t *testing.T) {
	m := leaseMatrix()
	enhance(m, "Deposit protection applies.")
	dep := row(m, "deposit")
	assert.Equal(t, taxonomy.NotMentioned, dep.Status)
	assert.Equal(t, NotSpecified, dep.Evidence)
	assert.Empty(t, dep.KeyInfo)
}

func TestEnhance_NeverDowngrades(t *testing.T) {
	texts := []string{"", "Nothing to see.", depositClause, "The landlord may enter with 24 hours notice for repairs."}
	for _, text := range texts {
		m := leaseMatrix()
		for i := range m {
			if i%2 == 0 {
				m[i].Status = taxonomy.PresentFavorable
				m[i].Evidence = `"a clause that says something useful"`
			}
		}
		before := append([]taxonomy.MatrixEntry(nil), m...)
		enhance(m, text)
		for i := range m {
			if before[i].Mentioned() {
				assert.Equal(t, before[i].Status, m[i].Status)
				assert.Equal(t, before[i].Evidence, m[i].Evidence)
			}
			assert.Equal(t, before[i].Severity, m[i].Severity)
			assert.Equal(t, before[i].Category, m[i].Category)
		}
	}
}

func TestEnhance_WeakEvidenceGetsKeyInfo(t *testing.T) {
	m := leaseMatrix()
	for i := range m {
		if m[i].ID == "deposit" {
			m[i].Status = taxonomy.PresentUnfavorable
			m[i].Evidence = `"deposit"`
		}
	}
	enhance(m, depositClause)
	dep := row(m, "deposit")
	assert.Equal(t, taxonomy.PresentUnfavorable, dep.Status)
	assert.Equal(t, `"deposit"`, dep.Evidence)
	assert.Equal(t, "Deposit is £1,200, refundable subject to conditions.", dep.KeyInfo)
}

func TestEnhance_EmptyText(t *testing.T) {
	m := leaseMatrix()
	assert.Zero(t, enhance(m, "   "))
	assert.Equal(t, leaseMatrix(), m)
}
