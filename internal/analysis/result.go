package analysis

import (
	"time"

	"contractlens-backend/internal/taxonomy"
)

// ResultVersion is bumped whenever the FullResult shape changes.
const ResultVersion = "2"

const (
	NotSpecified      = taxonomy.NotSpecified
	defaultAdviceNote = "This analysis is for informational purposes only. Consider consulting with a qualified legal professional for specific legal advice."
)

// DemoResult is the short preview analysis.
type DemoResult struct {
	Summary  string   `json:"summary"`
	Parties  string   `json:"parties"`
	Duration string   `json:"duration"`
	Risks    []string `json:"risks"`
}

type ExplainedTerm struct {
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
}

type KeyDetails struct {
	DatesMentioned       []string `json:"datesMentioned"`
	AmountsMentioned     []string `json:"amountsMentioned"`
	Obligations          []string `json:"obligations"`
	Payments             []string `json:"payments"`
	TerminationOrRenewal []string `json:"terminationOrRenewal"`
}

type KeyClause struct {
	Clause      string `json:"clause"`
	Explanation string `json:"explanation"`
}

// RiskNote ties a clause to why it matters in general and in this contract.
type RiskNote struct {
	Clause           string `json:"clause"`
	WhyItMatters     string `json:"whyItMatters"`
	HowItAppliesHere string `json:"howItAppliesHere"`
}

// TopRisk is a mentioned matrix row, ranked by severity.
type TopRisk struct {
	Category string            `json:"category"`
	Severity taxonomy.Severity `json:"severity"`
	Status   taxonomy.Status   `json:"status"`
}

// FullResult is the sanitized detailed analysis. It is built once per request
// and not modified after Full returns it.
type FullResult struct {
	ID      string `json:"id"`
	Version string `json:"version"`

	ExtendedSummary   string          `json:"extendedSummary"`
	PartiesAndPurpose string          `json:"partiesAndPurpose"`
	ExplainedTerms    []ExplainedTerm `json:"explainedTerms"`
	KeyDetails        KeyDetails      `json:"keyDetails"`
	KeyClauses        []KeyClause     `json:"keyClauses"`
	LiabilityAndRisks []RiskNote      `json:"liabilityAndRisks"`

	RiskCoverageMatrix []taxonomy.MatrixEntry  `json:"riskCoverageMatrix"`
	TopRisks           []TopRisk               `json:"topRisks"`
	Buckets            []taxonomy.MappedBucket `json:"buckets"`
	Highlights         []string                `json:"highlights"`

	ProfessionalAdviceNote string `json:"professionalAdviceNote"`

	IntakeContractType   string  `json:"intakeContractType"`
	DetectedContractType string  `json:"detectedContractType"`
	DetectionConfidence  float64 `json:"detectionConfidence"`
	DetectionSource      string  `json:"detectionSource"`
	FinalContractType    string  `json:"finalContractType"`

	AnalyzedAt time.Time `json:"analyzedAt"`
}
