package taxonomy

import (
	"regexp"
	"strings"
)

// NotSpecified is the literal used for any field the contract text does not
// answer.
const NotSpecified = "Not specified in the provided text."

// Status is a coverage verdict for one category.
type Status string

const (
	PresentFavorable   Status = "present_favorable"
	PresentUnfavorable Status = "present_unfavorable"
	Ambiguous          Status = "ambiguous"
	NotMentioned       Status = "not_mentioned"
)

// ParseStatus returns the status named by s, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	switch v := Status(strings.ToLower(strings.TrimSpace(s))); v {
	case PresentFavorable, PresentUnfavorable, Ambiguous, NotMentioned:
		return v, true
	}
	return "", false
}

// MatrixEntry is one row of the risk coverage matrix.
type MatrixEntry struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Status       Status   `json:"status"`
	Severity     Severity `json:"severity"`
	Evidence     string   `json:"evidence"`
	WhyItMatters string   `json:"whyItMatters"`
	KeyInfo      string   `json:"keyInfo,omitempty"`
}

// Mentioned reports whether the contract addresses the category at all.
func (m MatrixEntry) Mentioned() bool {
	return m.Status != NotMentioned
}

// MappedRisk is a bucket member with its verdict.
type MappedRisk struct {
	RiskID    string `json:"riskId"`
	RiskName  string `json:"riskName"`
	Mentioned bool   `json:"mentioned"`
	KeyInfo   string `json:"keyInfo"`
}

// MappedBucket is a bucket after its risks have been looked up in a matrix.
type MappedBucket struct {
	BucketName string       `json:"bucketName"`
	Risks      []MappedRisk `json:"risks"`
}

const keyInfoMax = 150

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// MapMatrixToBuckets projects matrix verdicts onto bucket definitions. Bucket
// risks match matrix rows by id or label, case-insensitively; a risk with no
// row is reported as not mentioned.
func MapMatrixToBuckets(matrix []MatrixEntry, buckets []Bucket) []MappedBucket {
	out := make([]MappedBucket, 0, len(buckets))
	for _, b := range buckets {
		risks := make([]MappedRisk, 0, len(b.Items))
		for _, item := range b.Items {
			mr := MappedRisk{RiskID: item.RiskID, RiskName: item.RiskName}
			if row, ok := findRow(matrix, item); ok {
				mr.Mentioned = row.Mentioned()
				if mr.Mentioned {
					mr.KeyInfo = bucketKeyInfo(row)
				}
			}
			risks = append(risks, mr)
		}
		out = append(out, MappedBucket{BucketName: b.BucketName, Risks: risks})
	}
	return out
}

func findRow(matrix []MatrixEntry, item RiskItem) (MatrixEntry, bool) {
	for _, m := range matrix {
		if strings.EqualFold(m.ID, item.RiskID) || strings.EqualFold(m.Category, item.RiskID) ||
			strings.EqualFold(m.Category, item.RiskName) {
			return m, true
		}
	}
	return MatrixEntry{}, false
}

func bucketKeyInfo(m MatrixEntry) string {
	info := strings.TrimSpace(m.KeyInfo)
	if info == "" && m.Evidence != NotSpecified {
		info = strings.Trim(strings.TrimSpace(m.Evidence), `"`)
	}
	if info == "" {
		info = strings.TrimSpace(m.WhyItMatters)
	}
	return clampSentences(info)
}

// clampSentences keeps long text to its first two sentences, or cuts it with
// an ellipsis when it has no sentence break.
func clampSentences(s string) string {
	if len(s) <= keyInfoMax {
		return s
	}
	var parts []string
	for _, p := range sentenceEnd.Split(s, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 1 {
		return strings.Join(parts[:2], ". ") + "."
	}
	return truncateRunes(s, keyInfoMax-3) + "..."
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
