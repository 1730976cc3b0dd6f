package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"contractlens-backend/internal/contracttype"
	"contractlens-backend/internal/llm"
)

// detectChars is how much of the contract the classifier sees.
const detectChars = 4000

// fallbackConfidence is reported when no calibrated confidence is available.
const fallbackConfidence = 0.5

// DetectionSource says which tier produced a Detection.
type DetectionSource string

const (
	SourceModel   DetectionSource = "model"
	SourceSimple  DetectionSource = "model_simple"
	SourceDefault DetectionSource = "default"
	SourceIntake  DetectionSource = "intake"
)

// Detection is the classifier's view of the contract type.
type Detection struct {
	Type       contracttype.Type `json:"type"`
	Confidence float64           `json:"confidence"`
	Source     DetectionSource   `json:"source"`
}

// DetectType classifies text. It asks for a label and confidence, then for a
// bare label, and finally falls back to the default type. It never fails.
func (a *Analyzer) DetectType(ctx context.Context, text string) Detection {
	if strings.TrimSpace(text) == "" {
		return Detection{Type: contracttype.Default, Confidence: fallbackConfidence, Source: SourceDefault}
	}
	excerpt := truncate(text, detectChars)

	d, err := a.detectWithConfidence(ctx, excerpt)
	if err == nil {
		return d
	}
	a.logger.Debug("type detection failed, trying simple prompt", zap.Error(err))

	t, err := a.detectSimple(ctx, excerpt)
	if err == nil {
		return Detection{Type: t, Confidence: fallbackConfidence, Source: SourceSimple}
	}
	a.logger.Debug("simple type detection failed, using default", zap.Error(err))
	return Detection{Type: contracttype.Default, Confidence: fallbackConfidence, Source: SourceDefault}
}

func (a *Analyzer) detectWithConfidence(ctx context.Context, excerpt string) (Detection, error) {
	raw, err := a.classifier.Complete(ctx, llm.Request{
		System:    detectSystemPrompt,
		User:      detectPrompt(excerpt),
		MaxTokens: detectTokens,
	})
	if err != nil {
		return Detection{}, err
	}
	obj, err := parseObject(raw)
	if err != nil {
		return Detection{}, err
	}

	t, ok := exactLabel(str(obj["contractType"], 0))
	if !ok {
		return Detection{}, &attemptError{kind: schemaFailure, problems: []string{"contractType not in the allowed set"}}
	}
	conf, ok := obj["confidence"].(float64)
	if !ok || conf < 0 || conf > 1 {
		return Detection{}, &attemptError{kind: schemaFailure, problems: []string{"confidence missing or outside [0,1]"}}
	}
	return Detection{Type: t, Confidence: conf, Source: SourceModel}, nil
}

func (a *Analyzer) detectSimple(ctx context.Context, excerpt string) (contracttype.Type, error) {
	raw, err := a.classifier.Complete(ctx, llm.Request{
		User:      detectSimplePrompt(excerpt),
		MaxTokens: detectTokens,
	})
	if err != nil {
		return "", err
	}
	t, ok := exactLabel(strings.Trim(strings.TrimSpace(raw), "\"'`. "))
	if !ok {
		return "", &attemptError{kind: schemaFailure, problems: []string{"label not in the allowed set"}}
	}
	return t, nil
}

// exactLabel accepts only a supported label, ignoring case.
func exactLabel(s string) (contracttype.Type, bool) {
	for _, t := range contracttype.All {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// DecideType picks the type to analyse as. An intake of Other always defers
// to detection; otherwise detection wins only when it disagrees with at
// least threshold confidence.
func DecideType(intake contracttype.Type, d Detection, threshold float64) contracttype.Type {
	switch {
	case intake == contracttype.Other:
		return d.Type
	case d.Type != intake && d.Confidence >= threshold:
		return d.Type
	default:
		return intake
	}
}
