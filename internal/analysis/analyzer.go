// Package analysis turns contract text into a sanitized, taxonomy-complete
// analysis. It detects the contract type, prompts the model, validates and
// retries once, repairs coverage with a local keyword heuristic, and clamps
// everything the model returned.
package analysis

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contractlens-backend/internal/contracttype"
	"contractlens-backend/internal/llm"
	"contractlens-backend/internal/taxonomy"
)

const (
	DefaultOverrideConfidence = 0.80
	DefaultFullCharLimit      = 50000
	DefaultDemoCharLimit      = 25000
)

// Stage is a progress marker reported while Full runs.
type Stage string

const (
	StageDetecting Stage = "detecting"
	StageAnalysing Stage = "analysing"
	StageRetrying  Stage = "retrying"
	StageRepairing Stage = "repairing"
)

// Analyzer runs contract analyses. It holds no per-request state and is safe
// for concurrent use.
type Analyzer struct {
	extractor  llm.Completer
	classifier llm.Completer
	logger     *zap.Logger

	detect    bool
	threshold float64
	fullLimit int
	demoLimit int

	now   func() time.Time
	newID func() string
}

type Option func(*Analyzer)

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClassifier uses c for contract-type detection instead of the
// extraction model.
func WithClassifier(c llm.Completer) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.classifier = c
		}
	}
}

// WithTypeDetection turns model-based type detection on or off. When off the
// intake type is always used.
func WithTypeDetection(on bool) Option {
	return func(a *Analyzer) { a.detect = on }
}

// WithOverrideConfidence sets how confident detection must be to override
// the intake type.
func WithOverrideConfidence(threshold float64) Option {
	return func(a *Analyzer) { a.threshold = threshold }
}

// WithCharLimits caps how much text is sent to the model for full and demo
// analyses. Non-positive values keep the defaults.
func WithCharLimits(full, demo int) Option {
	return func(a *Analyzer) {
		if full > 0 {
			a.fullLimit = full
		}
		if demo > 0 {
			a.demoLimit = demo
		}
	}
}

func New(extractor llm.Completer, opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor: extractor,
		logger:    zap.NewNop(),
		detect:    true,
		threshold: DefaultOverrideConfidence,
		fullLimit: DefaultFullCharLimit,
		demoLimit: DefaultDemoCharLimit,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.classifier == nil {
		a.classifier = extractor
	}
	return a
}

// Input is one full-analysis request.
type Input struct {
	Text             string
	ContractTypeHint string
	// OnStage, if set, is called as the analysis moves between stages.
	OnStage func(Stage)
}

// Full produces the detailed analysis. Empty text is answered locally with a
// well-formed "not specified" result. Provider failures and replies that are
// still unparseable after the retry are returned as *apperr.Error.
func (a *Analyzer) Full(ctx context.Context, in Input) (*FullResult, error) {
	report := in.OnStage
	if report == nil {
		report = func(Stage) {}
	}
	empty := strings.TrimSpace(in.Text) == ""

	intake := contracttype.Normalize(in.ContractTypeHint)
	detection := Detection{Type: intake, Source: SourceIntake}
	if a.detect {
		report(StageDetecting)
		detection = a.DetectType(ctx, in.Text)
	}
	final := DecideType(intake, detection, a.threshold)
	cats := taxonomy.LoadCategories(string(final))

	a.logger.Info("contract type resolved",
		zap.String("intake", string(intake)),
		zap.String("detected", string(detection.Type)),
		zap.Float64("confidence", detection.Confidence),
		zap.String("source", string(detection.Source)),
		zap.String("final", string(final)),
	)

	var obj map[string]any
	if !empty {
		report(StageAnalysing)
		prompt := truncate(in.Text, a.fullLimit)
		var err error
		obj, err = a.attempt(ctx, "full", utf8.RuneCountInString(prompt), report,
			llm.Request{System: systemPrompt, User: fullPrompt(prompt, final, cats), MaxTokens: fullTokens},
			llm.Request{System: systemPrompt + strictSuffix, User: fullRetryPrompt(prompt, cats), MaxTokens: fullRetryTokens},
			func(o map[string]any) error { return validateFull(o, cats) },
		)
		if err != nil {
			return nil, err
		}
	}

	res := SanitizeFull(obj, cats)
	if !empty {
		report(StageRepairing)
		if n := enhance(res.RiskCoverageMatrix, in.Text); n > 0 {
			a.logger.Debug("heuristic marked categories as mentioned", zap.Int("count", n))
		}
	}

	res.ID = a.newID()
	res.AnalyzedAt = a.now().UTC()
	res.IntakeContractType = string(intake)
	res.DetectionSource = string(detection.Source)
	// intake-only runs report no detected type
	if detection.Source != SourceIntake {
		res.DetectedContractType = string(detection.Type)
		res.DetectionConfidence = detection.Confidence
	}
	res.FinalContractType = string(final)
	res.TopRisks = TopRisks(res.RiskCoverageMatrix)
	res.Buckets = taxonomy.MapMatrixToBuckets(res.RiskCoverageMatrix, taxonomy.LoadBucketDefs(string(final)))
	res.Highlights = DeriveHighlights(&res)
	return &res, nil
}

// Demo produces the short preview analysis.
func (a *Analyzer) Demo(ctx context.Context, text string) (*DemoResult, error) {
	if strings.TrimSpace(text) == "" {
		res := SanitizeDemo(nil)
		return &res, nil
	}
	prompt := truncate(text, a.demoLimit)
	obj, err := a.attempt(ctx, "demo", utf8.RuneCountInString(prompt), func(Stage) {},
		llm.Request{System: systemPrompt, User: demoPrompt(prompt), MaxTokens: demoTokens},
		llm.Request{System: systemPrompt + strictSuffix, User: demoRetryPrompt(prompt), MaxTokens: demoRetryTokens},
		validateDemo,
	)
	if err != nil {
		return nil, err
	}
	res := SanitizeDemo(obj)
	return &res, nil
}

// attempt makes the first call and, if the reply is unparseable or fails
// validation, exactly one stricter retry. A retry reply that parses but
// still fails validation is returned for the sanitizer to repair.
func (a *Analyzer) attempt(ctx context.Context, scope string, chars int, report func(Stage),
	first, retry llm.Request, validate func(map[string]any) error) (map[string]any, error) {

	raw, err := a.extractor.Complete(ctx, first)
	if err != nil {
		return nil, a.providerFailure(scope, err, chars)
	}
	obj, err := parseObject(raw)
	if err == nil {
		err = validate(obj)
	}
	if err == nil {
		return obj, nil
	}

	a.logger.Info("reply rejected, retrying with strict prompt",
		zap.String("scope", scope),
		zap.Bool("parse", isAttemptError(err, parseFailure)),
		zap.Error(err),
	)
	report(StageRetrying)

	raw, err = a.extractor.Complete(ctx, retry)
	if err != nil {
		return nil, a.providerFailure(scope+"_retry", err, chars)
	}
	obj, err = parseObject(raw)
	if err != nil {
		return nil, a.replyFailure(scope, err, chars)
	}
	if err := validate(obj); err != nil {
		a.logger.Warn("retry reply still invalid, repairing", zap.String("scope", scope), zap.Error(err))
	}
	return obj, nil
}
