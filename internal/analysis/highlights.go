package analysis

const (
	maxHighlights     = 5
	maxHighlightChars = 40
)

// DeriveHighlights picks up to five short badges for the top of a result:
// the first two amounts, the first two dates, the first two risk clauses and
// the first termination or renewal term.
func DeriveHighlights(r *FullResult) []string {
	out := make([]string, 0, maxHighlights)
	add := func(s string) {
		if s == "" || s == NotSpecified || len(out) == maxHighlights {
			return
		}
		if n := []rune(s); len(n) > maxHighlightChars {
			s = string(n[:maxHighlightChars-3]) + "..."
		}
		out = append(out, s)
	}

	kd := r.KeyDetails
	for _, s := range firstN(kd.AmountsMentioned, 2) {
		add(s)
	}
	for _, s := range firstN(kd.DatesMentioned, 2) {
		add(s)
	}
	for _, rn := range firstRiskNotes(r.LiabilityAndRisks, 2) {
		add(rn.Clause)
	}
	for _, s := range firstN(kd.TerminationOrRenewal, 1) {
		add(s)
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func firstRiskNotes(s []RiskNote, n int) []RiskNote {
	if len(s) > n {
		return s[:n]
	}
	return s
}
