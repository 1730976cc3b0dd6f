// Package contracttype maps loose contract-type strings onto the fixed set of
// contract types the analysis understands.
package contracttype

import (
	"strings"
	"unicode"
)

// Type is one of the supported contract-type labels.
type Type string

const (
	ResidentialLease Type = "Residential Lease"
	Freelance        Type = "Freelance / Services"
	NDA              Type = "NDA (Non-Disclosure Agreement)"
	Employment       Type = "Employment Contract"
	BusinessServices Type = "Business Services"
	Other            Type = "Other"
)

// Default is returned for empty or unrecognised input.
const Default = Other

// All lists the supported types in display order.
var All = []Type{ResidentialLease, Freelance, NDA, Employment, BusinessServices, Other}

// minReverseMatch is the shortest input allowed to match as a substring of a
// synonym. Without it "a" would match "lease".
const minReverseMatch = 3

type synonym struct {
	key string
	typ Type
}

// synonyms is ordered: partial matching walks it top to bottom and the first
// hit wins.
var synonyms = []synonym{
	{"residential lease", ResidentialLease},
	{"lease", ResidentialLease},
	{"rental", ResidentialLease},
	{"tenancy", ResidentialLease},
	{"apartment", ResidentialLease},
	{"house", ResidentialLease},
	{"freelance / services", Freelance},
	{"freelance", Freelance},
	{"freelance/contractor", Freelance},
	{"freelance / contractor", Freelance},
	{"independent contractor", Freelance},
	{"contractor", Freelance},
	{"consultant", Freelance},
	{"nda (non-disclosure agreement)", NDA},
	{"nda", NDA},
	{"non-disclosure", NDA},
	{"non disclosure", NDA},
	{"confidentiality agreement", NDA},
	{"confidentiality", NDA},
	{"employment contract", Employment},
	{"employment", Employment},
	{"employee", Employment},
	{"job", Employment},
	{"business services", BusinessServices},
	{"master service agreement", BusinessServices},
	{"software as a service", BusinessServices},
	{"professional services", BusinessServices},
	{"consulting agreement", BusinessServices},
	{"service agreement", BusinessServices},
	{"vendor agreement", BusinessServices},
	{"b2b services", BusinessServices},
	{"business", BusinessServices},
	{"vendor", BusinessServices},
	{"msa", BusinessServices},
	{"saas", BusinessServices},
	{"b2b", BusinessServices},
	{"consulting", Freelance},
	{"services", Freelance},
	{"work", Employment},
	{"other", Other},
}

// Normalize maps raw onto a supported Type. It tries an exact match against
// the synonym table, then substring containment in either direction, and
// finally returns Default. It never fails.
func Normalize(raw string) Type {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Default
	}
	for _, t := range All {
		if s == strings.ToLower(string(t)) {
			return t
		}
	}
	for _, syn := range synonyms {
		if s == syn.key {
			return syn.typ
		}
	}
	for _, syn := range synonyms {
		if containsWord(s, syn.key) {
			return syn.typ
		}
		if len(s) >= minReverseMatch && strings.Contains(syn.key, s) {
			return syn.typ
		}
	}
	return Default
}

// containsWord reports whether key occurs in s with no letter or digit
// directly before or after it, so "nda" does not match "standard".
func containsWord(s, key string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], key)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(key)
		if !isWordByteAt(s, start-1) && !isWordByteAt(s, end) {
			return true
		}
		i = start + 1
	}
}

func isWordByteAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	r := rune(s[i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsValid reports whether t is one of the supported labels.
func IsValid(t Type) bool {
	for _, v := range All {
		if v == t {
			return true
		}
	}
	return false
}

// Labels returns All as plain strings, for prompts and API responses.
func Labels() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = string(t)
	}
	return out
}
