package analysis

import (
	"fmt"
	"strings"

	"contractlens-backend/internal/taxonomy"
)

// validateFull checks the shape the full prompt asks for: a summary string
// and a coverage matrix with exactly one valid row per category.
func validateFull(obj map[string]any, cats []taxonomy.Category) error {
	var problems []string
	if _, ok := obj["extendedSummary"].(string); !ok {
		problems = append(problems, "extendedSummary missing or not a string")
	}
	problems = append(problems, matrixProblems(obj["riskCoverageMatrix"], cats)...)
	if len(problems) > 0 {
		return &attemptError{kind: schemaFailure, problems: problems}
	}
	return nil
}

func matrixProblems(v any, cats []taxonomy.Category) []string {
	rows, ok := v.([]any)
	if !ok {
		return []string{"riskCoverageMatrix missing or not an array"}
	}

	byKey := make(map[string]string, 2*len(cats))
	for _, c := range cats {
		byKey[strings.ToLower(c.Label)] = c.Label
		byKey[strings.ToLower(c.ID)] = c.Label
	}

	var problems []string
	seen := make(map[string]int, len(cats))
	for i, r := range rows {
		m, ok := r.(map[string]any)
		if !ok {
			problems = append(problems, fmt.Sprintf("row %d is not an object", i))
			continue
		}
		key := strings.ToLower(str(m["category"], 0))
		if key == "" {
			key = strings.ToLower(str(m["id"], 0))
		}
		label, known := byKey[key]
		if !known {
			problems = append(problems, fmt.Sprintf("unexpected category %q", str(m["category"], 60)))
			continue
		}
		seen[label]++
		if _, ok := taxonomy.ParseStatus(str(m["status"], 0)); !ok {
			problems = append(problems, fmt.Sprintf("%s: invalid status %q", label, str(m["status"], 40)))
		}
		if _, ok := taxonomy.ParseSeverity(str(m["severity"], 0)); !ok {
			problems = append(problems, fmt.Sprintf("%s: invalid severity %q", label, str(m["severity"], 40)))
		}
	}
	for _, c := range cats {
		switch n := seen[c.Label]; {
		case n == 0:
			problems = append(problems, fmt.Sprintf("missing category %q", c.Label))
		case n > 1:
			problems = append(problems, fmt.Sprintf("category %q appears %d times", c.Label, n))
		}
	}
	return problems
}

func validateDemo(obj map[string]any) error {
	var problems []string
	if _, ok := obj["summary"].(string); !ok {
		problems = append(problems, "summary missing or not a string")
	}
	if _, ok := obj["risks"].([]any); !ok {
		problems = append(problems, "risks missing or not an array")
	}
	if len(problems) > 0 {
		return &attemptError{kind: schemaFailure, problems: problems}
	}
	return nil
}
