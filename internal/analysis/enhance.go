package analysis

import (
	"strings"

	"contractlens-backend/internal/riskdetect"
	"contractlens-backend/internal/taxonomy"
)

// minEvidence is the shortest quote worth showing instead of a generated
// key-info sentence.
const minEvidence = 10

// enhance patches rows the model under-reported. A not_mentioned row that
// the keyword heuristic finds becomes ambiguous with a snippet as evidence.
// Rows the model marked as mentioned are never downgraded; when their
// evidence is thin they get a fact-based key-info sentence. It returns the
// number of rows flipped.
func enhance(matrix []taxonomy.MatrixEntry, text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	flipped := 0
	for i := range matrix {
		m := &matrix[i]
		if !m.Mentioned() {
			if !riskdetect.IsMentioned(text, m.ID) {
				continue
			}
			f := riskdetect.ExtractFacts(text, m.ID)
			m.Status = taxonomy.Ambiguous
			if len(f.Snippets) > 0 {
				m.Evidence = quote(clamp(f.Snippets[0], maxEvidence-2))
			}
			m.KeyInfo = riskdetect.FormatKeyInfo(m.ID, f)
			flipped++
			continue
		}
		if weakEvidence(m.Evidence) {
			m.KeyInfo = riskdetect.FormatKeyInfo(m.ID, riskdetect.ExtractFacts(text, m.ID))
		}
	}
	return flipped
}

func weakEvidence(ev string) bool {
	return ev == NotSpecified || len(strings.TrimSpace(strings.Trim(ev, `"`))) < minEvidence
}
