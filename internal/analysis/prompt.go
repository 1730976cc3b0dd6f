package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"contractlens-backend/internal/contracttype"
	"contractlens-backend/internal/taxonomy"
)

const truncationSuffix = "... [truncated]"

const systemPrompt = `You are a contract analysis expert. Follow these strict rules:
- Return JSON ONLY matching the schema provided.
- Use ONLY the provided contract text; if unknown, respond "Not specified in the provided text."
- Do NOT include any URLs or links.
- Do NOT name or recommend any law firms, lawyers, or legal services.
- Keep content concise, factual, and plain-English.
- Never include the original contract text in your response, except short verbatim quotes in "evidence" fields.`

const strictSuffix = " Return ONLY valid JSON matching the exact schema. No extra fields, no commentary."

// Token budgets per call.
const (
	fullTokens       = 2000
	fullRetryTokens  = 1500
	demoTokens       = 800
	demoRetryTokens  = 600
	detectTokens     = 60
	simplifierTokens = 500
)

// truncate caps text at max characters, marking the cut.
func truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + truncationSuffix
}

func categoryList(cats []taxonomy.Category) string {
	var sb strings.Builder
	for _, c := range cats {
		fmt.Fprintf(&sb, "- %q (id %s): look for %s. Default severity %s.\n", c.Label, c.ID, c.Evidence, c.DefaultSeverity)
	}
	return sb.String()
}

func fullPrompt(text string, ct contracttype.Type, cats []taxonomy.Category) string {
	return fmt.Sprintf(`Analyze the following %s contract text and provide a comprehensive analysis. Return ONLY valid JSON with this exact structure:

{
  "extendedSummary": "2-3 short paragraphs explaining what this contract is about, key terms, and overall purpose",
  "partiesAndPurpose": "who the parties are and what the agreement is for",
  "explainedTerms": [{"term": "legal term", "meaning": "plain English explanation"}],
  "keyDetails": {
    "datesMentioned": ["YYYY-MM-DD when possible"],
    "amountsMentioned": ["amounts with currency symbols"],
    "obligations": ["specific duties the signer must perform"],
    "payments": ["what is paid, when and to whom"],
    "terminationOrRenewal": ["notice periods, auto-renew rules, termination conditions"]
  },
  "keyClauses": [{"clause": "clause name", "explanation": "what it means for the signer"}],
  "liabilityAndRisks": [{"clause": "clause name", "whyItMatters": "general reason this matters", "howItAppliesHere": "how THIS contract's text applies it"}],
  "riskCoverageMatrix": [
    {"category": "exact category label", "status": "present_favorable | present_unfavorable | ambiguous | not_mentioned", "severity": "low | medium | high", "evidence": "short verbatim quote from the contract, or empty if not mentioned", "whyItMatters": "one sentence"}
  ],
  "professionalAdviceNote": "neutral suggestion to consult a qualified legal professional (no firm names)"
}

The riskCoverageMatrix must contain exactly one entry for each of these categories, using the label exactly as written, and no others:
%s
Contract text to analyze:
%s

Return ONLY the JSON object, no additional text.`, ct, categoryList(cats), text)
}

func fullRetryPrompt(text string, cats []taxonomy.Category) string {
	labels := []string{`"category label"`}
	if len(cats) > 0 {
		labels = labels[:0]
		for _, c := range cats {
			labels = append(labels, fmt.Sprintf("%q", c.Label))
		}
	}
	return fmt.Sprintf(`Return valid JSON exactly matching this schema - no extra text, no extra fields:

{
  "extendedSummary": "2-3 paragraphs about the contract",
  "partiesAndPurpose": "parties and purpose",
  "explainedTerms": [{"term": "term1", "meaning": "meaning1"}],
  "keyDetails": {"datesMentioned": ["date1"], "amountsMentioned": ["amount1"], "obligations": ["obligation1"], "payments": ["payment1"], "terminationOrRenewal": ["term1"]},
  "keyClauses": [{"clause": "clause1", "explanation": "explanation1"}],
  "liabilityAndRisks": [{"clause": "clause1", "whyItMatters": "why1", "howItAppliesHere": "how1"}],
  "riskCoverageMatrix": [{"category": %s, "status": "not_mentioned", "severity": "medium", "evidence": "", "whyItMatters": "why1"}],
  "professionalAdviceNote": "advice note"
}

riskCoverageMatrix needs exactly %d entries, one per category: %s.
status must be one of present_favorable, present_unfavorable, ambiguous, not_mentioned. severity must be low, medium or high.

Contract text: %s`, labels[0], len(labels), strings.Join(labels, ", "), text)
}

func demoPrompt(text string) string {
	return fmt.Sprintf(`Give a quick preview of the following contract. Return ONLY valid JSON with this exact structure:

{
  "summary": "2-3 sentences on what this contract is about",
  "parties": "who the parties are",
  "duration": "how long the contract lasts",
  "risks": ["3-6 brief, concrete risks for the signer"]
}

Contract text:
%s

Return ONLY the JSON object, no additional text.`, text)
}

func demoRetryPrompt(text string) string {
	return fmt.Sprintf(`Return valid JSON exactly matching this schema - no extra text:

{"summary": "summary", "parties": "parties", "duration": "duration", "risks": ["risk1", "risk2", "risk3"]}

Contract text: %s`, text)
}

const detectSystemPrompt = "You classify contracts. Reply with JSON only."

func detectPrompt(text string) string {
	return fmt.Sprintf(`Classify this contract as exactly one of: %s.
Return ONLY {"contractType": "<one label from the list, exactly as written>", "confidence": <number between 0 and 1>}.

Contract text:
%s`, quotedLabels(), text)
}

func detectSimplePrompt(text string) string {
	return fmt.Sprintf(`Which one of these best describes the contract below: %s?
Reply with the label only.

%s`, quotedLabels(), text)
}

func quotedLabels() string {
	labels := contracttype.Labels()
	for i, l := range labels {
		labels[i] = fmt.Sprintf("%q", l)
	}
	return strings.Join(labels, ", ")
}

const simplifySystemPrompt = "You are a text simplification expert. Rewrite complex text in simple, clear English while keeping all important information exactly the same. Use short sentences and everyday words instead of formal or legal language."

func simplifyPrompt(text string) string {
	return fmt.Sprintf(`Rewrite the following text in simple British English at a secondary school reading level. Keep all facts, dates, and numbers exactly. Use short sentences and clear words. Replace legal jargon with everyday language.

Original text:
%s

Simplified text:`, text)
}
