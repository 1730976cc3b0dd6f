// Package riskdetect is a local keyword heuristic that decides whether a
// contract text addresses a risk, and pulls amounts and dates out of it. It
// never calls a model.
package riskdetect

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"contractlens-backend/internal/taxonomy"
)

const (
	// proximityWindow is the largest gap in bytes between two keyword hits
	// that still counts as one passage about the risk.
	proximityWindow = 120
	minHits         = 2
	snippetRadius   = 100
	maxHintKeywords = 8
	maxKeyInfoWords = 25
)

var (
	evidenceSplit = regexp.MustCompile(`[,;|&]`)
	amountRe      = regexp.MustCompile(`(?i)[£$€]\s?\d{1,3}(?:[,.\d]\d{0,2})*(?:\s?(?:per\s+)?(?:month|week|year|day|hour|person|tenant|room))?`)
	dateRe        = regexp.MustCompile(`(?i)(?:\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})|(?:\d{1,2}/\d{1,2}/\d{4})|(?:(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})`)
	sentenceRe    = regexp.MustCompile(`[.!?]+(?:\s+|$)`)

	patterns sync.Map // keyword -> *regexp.Regexp
)

// Facts are the supporting details found for one risk.
type Facts struct {
	Amounts  []string `json:"amounts"`
	Dates    []string `json:"dates"`
	Snippets []string `json:"snippets"`
}

// KeywordsFor returns the keywords for riskID: the first few phrases of its
// taxonomy evidence hint followed by the built-in table, without duplicates.
// Unknown ids yield nil.
func KeywordsFor(riskID string) []string {
	var kws []string
	if c, ok := taxonomy.ByID(riskID); ok {
		for _, w := range evidenceSplit.Split(strings.ToLower(c.Evidence), -1) {
			w = strings.TrimSpace(w)
			if len(w) <= 2 || strings.Contains(w, "look for") {
				continue
			}
			kws = append(kws, w)
			if len(kws) == maxHintKeywords {
				break
			}
		}
	}
	kws = append(kws, riskKeywords[riskID]...)
	return dedupe(kws)
}

// IsMentioned reports whether at least two distinct keyword hits for riskID
// occur within proximityWindow of each other in text. Overlapping hits, such
// as "deposit" inside "deposit protection", count once.
func IsMentioned(text, riskID string) bool {
	kws := KeywordsFor(riskID)
	if len(kws) == 0 || strings.TrimSpace(text) == "" {
		return false
	}
	lower := strings.ToLower(text)

	var spans [][2]int
	for _, kw := range kws {
		for _, loc := range pattern(kw).FindAllStringIndex(lower, -1) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
	}
	hits := mergeSpans(spans)
	if len(hits) < minHits {
		return false
	}
	for i := 0; i < len(hits)-1; i++ {
		if hits[i+1][0]-hits[i][0] <= proximityWindow {
			return true
		}
	}
	return false
}

// mergeSpans sorts spans by start and folds overlapping ones together.
func mergeSpans(spans [][2]int) [][2]int {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i][0] != spans[j][0] {
			return spans[i][0] < spans[j][0]
		}
		return spans[i][1] > spans[j][1]
	})
	out := [][2]int{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s[0] < last[1] {
			if s[1] > last[1] {
				last[1] = s[1]
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// ExtractFacts collects currency amounts and calendar dates from text, plus a
// snippet around the first keyword of riskID that appears.
func ExtractFacts(text, riskID string) Facts {
	f := Facts{Amounts: []string{}, Dates: []string{}, Snippets: []string{}}
	kws := KeywordsFor(riskID)
	if len(kws) == 0 {
		return f
	}

	var amounts []string
	for _, m := range amountRe.FindAllString(text, -1) {
		if m = strings.TrimRight(m, ",."); m != "" {
			amounts = append(amounts, m)
		}
	}
	f.Amounts = dedupe(amounts)
	f.Dates = dedupe(dateRe.FindAllString(text, -1))

	for _, kw := range kws {
		loc := pattern(kw).FindStringIndex(text)
		if loc == nil {
			continue
		}
		start, end := runeFloor(text, loc[0]-snippetRadius), runeCeil(text, loc[1]+snippetRadius)
		f.Snippets = append(f.Snippets, strings.TrimSpace(text[start:end]))
		break
	}
	return f
}

// FormatKeyInfo renders a one-sentence summary of f for riskID. It prefers the
// risk's own template, then a bare amount, and returns "" when nothing useful
// is known.
func FormatKeyInfo(riskID string, f Facts) string {
	if tpl, ok := templates[riskID]; ok {
		if first := firstSentence(tpl(f)); first != "" && len(strings.Fields(first)) <= maxKeyInfoWords {
			return first + "."
		}
	}
	if len(f.Amounts) > 0 {
		return "Amount specified: " + f.Amounts[0] + "."
	}
	return ""
}

func firstSentence(s string) string {
	for _, part := range sentenceRe.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			return part
		}
	}
	return ""
}

// pattern compiles kw into a case-insensitive matcher anchored on word
// boundaries at whichever ends of kw are word characters.
func pattern(kw string) *regexp.Regexp {
	if re, ok := patterns.Load(kw); ok {
		return re.(*regexp.Regexp)
	}
	expr := regexp.QuoteMeta(kw)
	if r, _ := utf8.DecodeRuneInString(kw); isWord(r) {
		expr = `\b` + expr
	}
	if r, _ := utf8.DecodeLastRuneInString(kw); isWord(r) {
		expr += `\b`
	}
	re := regexp.MustCompile(`(?i)` + expr)
	patterns.Store(kw, re)
	return re
}

func isWord(r rune) bool {
	return r == '_' || (r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

func runeFloor(s string, i int) int {
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func runeCeil(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
