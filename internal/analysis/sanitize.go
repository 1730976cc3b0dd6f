package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"contractlens-backend/internal/taxonomy"
)

// Field limits, in characters.
const (
	maxSummary      = 1000
	maxParties      = 600
	maxAdviceNote   = 500
	maxTerms        = 10
	maxTerm         = 100
	maxMeaning      = 300
	maxDates        = 10
	maxDate         = 50
	maxAmounts      = 10
	maxAmount       = 100
	maxObligations  = 15
	maxPayments     = 10
	maxTermination  = 10
	maxListItem     = 200
	maxClauses      = 10
	maxClause       = 150
	maxExplanation  = 400
	maxRiskNotes    = 8
	maxWhy          = 300
	maxHow          = 400
	maxEvidence     = 400
	maxTopRisks     = 5
	maxDemoSummary  = 500
	maxDemoParties  = 300
	maxDemoDuration = 300
	maxDemoRisks    = 6
	maxDemoRisk     = 200
)

// SanitizeFull coerces an untrusted model object into a FullResult for the
// given categories. It accepts any input, including nil, and always returns
// a matrix with exactly one row per category in taxonomy order.
func SanitizeFull(raw map[string]any, cats []taxonomy.Category) FullResult {
	kd := asMap(raw["keyDetails"])
	return FullResult{
		Version:           ResultVersion,
		ExtendedSummary:   field(raw["extendedSummary"], maxSummary),
		PartiesAndPurpose: field(raw["partiesAndPurpose"], maxParties),
		ExplainedTerms:    explainedTerms(raw["explainedTerms"]),
		KeyDetails: KeyDetails{
			DatesMentioned:       stringList(kd["datesMentioned"], maxDates, maxDate),
			AmountsMentioned:     stringList(kd["amountsMentioned"], maxAmounts, maxAmount),
			Obligations:          stringList(kd["obligations"], maxObligations, maxListItem),
			Payments:             stringList(kd["payments"], maxPayments, maxListItem),
			TerminationOrRenewal: stringList(kd["terminationOrRenewal"], maxTermination, maxListItem),
		},
		KeyClauses:             keyClauses(raw["keyClauses"]),
		LiabilityAndRisks:      riskNotes(raw["liabilityAndRisks"]),
		RiskCoverageMatrix:     SanitizeMatrix(raw["riskCoverageMatrix"], cats),
		TopRisks:               []TopRisk{},
		Buckets:                []taxonomy.MappedBucket{},
		Highlights:             []string{},
		ProfessionalAdviceNote: textOr(raw["professionalAdviceNote"], maxAdviceNote, defaultAdviceNote),
	}
}

// SanitizeDemo coerces an untrusted model object into a DemoResult.
func SanitizeDemo(raw map[string]any) DemoResult {
	risks := stringList(raw["risks"], maxDemoRisks, maxDemoRisk)
	if len(risks) == 0 {
		risks = []string{NotSpecified}
	}
	return DemoResult{
		Summary:  field(raw["summary"], maxDemoSummary),
		Parties:  field(raw["parties"], maxDemoParties),
		Duration: field(raw["duration"], maxDemoDuration),
		Risks:    risks,
	}
}

// SanitizeMatrix builds one row per category from whatever the model sent.
// Rows are matched by label or id, case-insensitively; the first match wins,
// and rows for unknown categories are dropped.
func SanitizeMatrix(v any, cats []taxonomy.Category) []taxonomy.MatrixEntry {
	rows := asSlice(v)
	out := make([]taxonomy.MatrixEntry, 0, len(cats))
	for _, c := range cats {
		row := findMatrixRow(rows, c)

		status, ok := taxonomy.ParseStatus(str(row["status"], 0))
		if !ok {
			status = taxonomy.NotMentioned
		}
		severity, ok := taxonomy.ParseSeverity(str(row["severity"], 0))
		if !ok {
			severity = c.DefaultSeverity
		}
		if severity == "" {
			severity = taxonomy.Medium
		}

		evidence := NotSpecified
		if status != taxonomy.NotMentioned {
			if ev := str(row["evidence"], maxEvidence-2); ev != "" && ev != NotSpecified {
				evidence = quote(ev)
			}
		}

		out = append(out, taxonomy.MatrixEntry{
			ID:           c.ID,
			Category:     c.Label,
			Status:       status,
			Severity:     severity,
			Evidence:     evidence,
			WhyItMatters: textOr(row["whyItMatters"], maxWhy, c.WhyItMatters),
		})
	}
	return out
}

func findMatrixRow(rows []any, c taxonomy.Category) map[string]any {
	for _, r := range rows {
		m := asMap(r)
		label := str(m["category"], 0)
		if strings.EqualFold(label, c.Label) || strings.EqualFold(label, c.ID) || strings.EqualFold(str(m["id"], 0), c.ID) {
			return m
		}
	}
	return nil
}

// TopRisks returns up to five mentioned rows, most severe first, keeping
// taxonomy order among equal severities.
func TopRisks(matrix []taxonomy.MatrixEntry) []TopRisk {
	var mentioned []taxonomy.MatrixEntry
	for _, m := range matrix {
		if m.Mentioned() {
			mentioned = append(mentioned, m)
		}
	}
	sort.SliceStable(mentioned, func(i, j int) bool {
		return mentioned[i].Severity.Rank() > mentioned[j].Severity.Rank()
	})
	out := make([]TopRisk, 0, maxTopRisks)
	for _, m := range mentioned {
		if len(out) == maxTopRisks {
			break
		}
		out = append(out, TopRisk{Category: m.Category, Severity: m.Severity, Status: m.Status})
	}
	return out
}

func explainedTerms(v any) []ExplainedTerm {
	out := []ExplainedTerm{}
	for _, item := range capSlice(asSlice(v), maxTerms) {
		m := asMap(item)
		t := ExplainedTerm{Term: str(m["term"], maxTerm), Meaning: str(m["meaning"], maxMeaning)}
		if t.Term != "" && t.Meaning != "" {
			out = append(out, t)
		}
	}
	return out
}

func keyClauses(v any) []KeyClause {
	out := []KeyClause{}
	for _, item := range capSlice(asSlice(v), maxClauses) {
		m := asMap(item)
		k := KeyClause{Clause: str(m["clause"], maxClause), Explanation: str(m["explanation"], maxExplanation)}
		if k.Clause != "" && k.Explanation != "" {
			out = append(out, k)
		}
	}
	return out
}

func riskNotes(v any) []RiskNote {
	out := []RiskNote{}
	for _, item := range capSlice(asSlice(v), maxRiskNotes) {
		m := asMap(item)
		clause := str(m["clause"], maxClause)
		if clause == "" {
			clause = str(m["title"], maxClause)
		}
		r := RiskNote{
			Clause:           clause,
			WhyItMatters:     str(m["whyItMatters"], maxWhy),
			HowItAppliesHere: str(m["howItAppliesHere"], maxHow),
		}
		if r.Clause != "" && r.WhyItMatters != "" && r.HowItAppliesHere != "" {
			out = append(out, r)
		}
	}
	return out
}

func stringList(v any, maxItems, maxLen int) []string {
	out := []string{}
	for _, item := range capSlice(asSlice(v), maxItems) {
		if s := str(item, maxLen); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// field is str with NotSpecified in place of an empty result.
func field(v any, max int) string {
	return textOr(v, max, NotSpecified)
}

func textOr(v any, max int, fallback string) string {
	if s := str(v, max); s != "" {
		return s
	}
	return fallback
}

// str coerces scalars to a trimmed string of at most max characters; max 0
// means no limit. Objects, arrays and nil become "".
func str(v any, max int) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	case int:
		s = strconv.Itoa(t)
	case fmt.Stringer:
		s = t.String()
	default:
		return ""
	}
	s = strings.TrimSpace(s)
	if max > 0 {
		s = strings.TrimSpace(clamp(s, max))
	}
	return s
}

func clamp(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// quote wraps evidence in straight double quotes unless it already is.
func quote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s
	}
	return `"` + strings.Trim(s, `"`) + `"`
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func capSlice(s []any, n int) []any {
	if len(s) > n {
		return s[:n]
	}
	return s
}
