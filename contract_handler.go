package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"contractlens-backend/internal/analysis"
	"contractlens-backend/internal/apperr"
	"contractlens-backend/internal/contracttype"
	"contractlens-backend/internal/extract"
	"contractlens-backend/internal/llm"
	"contractlens-backend/internal/taxonomy"
)

const (
	healthTimeout = 15 * time.Second
	maxSimplify   = 50
)

type ContractHandler struct {
	analyzer   *analysis.Analyzer
	simplifier *analysis.Simplifier
	extractor  *extract.Extractor
	completer  llm.Completer
	maxUpload  int64
	logger     *zap.Logger
}

type ExtractTextResponse struct {
	Success         bool              `json:"success"`
	Text            string            `json:"text"`
	OriginalLength  int               `json:"originalLength"`
	SanitizedLength int               `json:"sanitizedLength"`
	Filename        string            `json:"filename"`
	FileSize        int64             `json:"fileSize"`
	FileType        string            `json:"fileType"`
	Pages           int               `json:"pages"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

type DemoResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	analysis.DemoResult
}

type AnalyzeTextRequest struct {
	Text             string `json:"text"`
	ContractTypeHint string `json:"contractTypeHint"`
	// ContractType is accepted as an older name for ContractTypeHint.
	ContractType string `json:"contractType"`
	Email        string `json:"email"`
	Country      string `json:"country"`
	Region       string `json:"region"`
}

type Location struct {
	Country string `json:"country"`
	Region  string `json:"region"`
}

type RequestMeta struct {
	Email    string   `json:"email"`
	Location Location `json:"location"`
}

type AnalyzeTextResponse struct {
	OK                   bool                    `json:"ok"`
	IntakeContractType   string                  `json:"intakeContractType"`
	DetectedContractType string                  `json:"detectedContractType"`
	FinalContractType    string                  `json:"finalContractType"`
	Buckets              []taxonomy.MappedBucket `json:"buckets"`
	Meta                 RequestMeta             `json:"meta"`
	Full                 *analysis.FullResult    `json:"full"`
}

type SimplifyRequest struct {
	Texts []string `json:"texts"`
}

type SimplifyResponse struct {
	Texts []string `json:"texts"`
}

type TaxonomyResponse struct {
	ContractType string              `json:"contractType"`
	Categories   []taxonomy.Category `json:"categories"`
	Buckets      []taxonomy.Bucket   `json:"buckets"`
}

func NewContractHandler(analyzer *analysis.Analyzer, simplifier *analysis.Simplifier, extractor *extract.Extractor,
	completer llm.Completer, maxUpload int64, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		analyzer:   analyzer,
		simplifier: simplifier,
		extractor:  extractor,
		completer:  completer,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

// requestError is a client mistake reported as {"error": message}.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func badRequest(msg string) error { return &requestError{status: http.StatusBadRequest, message: msg} }

// respond writes err as either a plain request error or an app error body.
func (h *ContractHandler) respond(c echo.Context, err error) error {
	var re *requestError
	if errors.As(err, &re) {
		return c.JSON(re.status, map[string]string{"error": re.message})
	}
	ae := apperr.From(err)
	return c.JSON(ae.Code.HTTPStatus(), apperr.Body{Error: ae})
}

type upload struct {
	name string
	size int64
	kind extract.Kind
	doc  *extract.Document
	text string
}

// readUpload validates and extracts the multipart "file" field. The returned
// text has links, e-mail addresses and law-firm names scrubbed.
func (h *ContractHandler) readUpload(c echo.Context) (*upload, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, badRequest("No file uploaded")
	}
	if file.Size > h.maxUpload {
		return nil, badRequest("File too large")
	}
	kind, err := extract.KindOf(file.Filename, file.Header.Get(echo.HeaderContentType))
	if err != nil {
		return nil, badRequest("Invalid file type")
	}

	src, err := file.Open()
	if err != nil {
		return nil, &requestError{status: http.StatusInternalServerError, message: "Failed to open uploaded file"}
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxUpload+1))
	if err != nil {
		return nil, &requestError{status: http.StatusInternalServerError, message: "Failed to read file content"}
	}
	if int64(len(data)) > h.maxUpload {
		return nil, badRequest("File too large")
	}

	doc, err := h.extractor.Extract(data, file.Filename, kind.MimeType())
	switch {
	case errors.Is(err, extract.ErrNoText):
		return nil, badRequest("No text could be extracted from the file")
	case errors.Is(err, extract.ErrUnsupportedType):
		return nil, badRequest("Invalid file type")
	case err != nil:
		return nil, &requestError{status: http.StatusInternalServerError, message: "Failed to extract text"}
	}

	return &upload{
		name: file.Filename,
		size: int64(len(data)),
		kind: kind,
		doc:  doc,
		text: extract.Scrub(doc.Text),
	}, nil
}

// ExtractText returns the scrubbed text of an uploaded PDF or DOCX.
func (h *ContractHandler) ExtractText(c echo.Context) error {
	up, err := h.readUpload(c)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(http.StatusOK, ExtractTextResponse{
		Success:         true,
		Text:            up.text,
		OriginalLength:  utf8.RuneCountInString(up.doc.Text),
		SanitizedLength: utf8.RuneCountInString(up.text),
		Filename:        up.name,
		FileSize:        up.size,
		FileType:        up.kind.MimeType(),
		Pages:           up.doc.Pages,
		Metadata:        up.doc.Metadata,
	})
}

// AnalyzeDemo extracts an upload and returns the short preview analysis.
func (h *ContractHandler) AnalyzeDemo(c echo.Context) error {
	up, err := h.readUpload(c)
	if err != nil {
		return h.respond(c, err)
	}
	res, err := h.analyzer.Demo(c.Request().Context(), up.text)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(http.StatusOK, DemoResponse{
		Name:       up.name,
		Size:       up.size,
		Type:       up.kind.MimeType(),
		DemoResult: *res,
	})
}

// AnalyzeText runs the full analysis on already-extracted text.
func (h *ContractHandler) AnalyzeText(c echo.Context) error {
	var req AnalyzeTextRequest
	if err := c.Bind(&req); err != nil {
		return h.respond(c, badRequest("Invalid request format"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return h.respond(c, badRequest("Text is required"))
	}
	hint := req.ContractTypeHint
	if hint == "" {
		hint = req.ContractType
	}

	res, err := h.analyzer.Full(c.Request().Context(), analysis.Input{Text: req.Text, ContractTypeHint: hint})
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(http.StatusOK, AnalyzeTextResponse{
		OK:                   true,
		IntakeContractType:   res.IntakeContractType,
		DetectedContractType: res.DetectedContractType,
		FinalContractType:    res.FinalContractType,
		Buckets:              res.Buckets,
		Meta: RequestMeta{
			Email:    req.Email,
			Location: Location{Country: req.Country, Region: req.Region},
		},
		Full: res,
	})
}

// Simplify rewrites each text in plain English. Texts that fail keep their
// original wording.
func (h *ContractHandler) Simplify(c echo.Context) error {
	var req SimplifyRequest
	if err := c.Bind(&req); err != nil {
		return h.respond(c, badRequest("Invalid request format"))
	}
	if len(req.Texts) == 0 {
		return h.respond(c, badRequest("Texts are required"))
	}
	if len(req.Texts) > maxSimplify {
		return h.respond(c, badRequest("Too many texts"))
	}
	return c.JSON(http.StatusOK, SimplifyResponse{Texts: h.simplifier.SimplifyAll(c.Request().Context(), req.Texts)})
}

func (h *ContractHandler) ContractTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"contractTypes": contracttype.Labels(),
		"default":       contracttype.Default,
	})
}

// Taxonomy returns the categories and buckets for a contract type. Unknown
// types resolve the same way intake hints do; ?q= filters categories.
func (h *ContractHandler) Taxonomy(c echo.Context) error {
	raw, err := url.PathUnescape(c.Param("type"))
	if err != nil {
		raw = c.Param("type")
	}
	t := string(contracttype.Normalize(raw))

	cats := taxonomy.LoadCategories(t)
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		cats = taxonomy.Search(t, q)
	}
	return c.JSON(http.StatusOK, TaxonomyResponse{
		ContractType: t,
		Categories:   cats,
		Buckets:      taxonomy.LoadBucketDefs(t),
	})
}

// ProviderHealth sends a tiny prompt to the configured model. It always
// answers 200 so monitors can read the reason.
func (h *ContractHandler) ProviderHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	_, err := h.completer.Complete(ctx, llm.Request{User: "Reply with OK.", MaxTokens: 5})
	if err != nil {
		code := analysis.ClassifyError(err)
		h.logger.Warn("provider health check failed", zap.String("code", string(code)), zap.Error(err))
		return c.JSON(http.StatusOK, map[string]any{"ok": false, "error": apperr.New(code)})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// TestErrors returns canned failures so clients can exercise their retry
// handling.
func (h *ContractHandler) TestErrors(c echo.Context) error {
	switch c.QueryParam("errorType") {
	case "rate-limit":
		return h.respond(c, apperr.New(apperr.RateLimit))
	case "timeout":
		return h.respond(c, apperr.New(apperr.Timeout))
	case "auth":
		return h.respond(c, apperr.New(apperr.Auth))
	case "success":
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "message": "Test successful"})
	default:
		return c.JSON(http.StatusBadRequest, apperr.Body{Error: &apperr.Error{Code: apperr.Unknown, Message: "Unknown error type"}})
	}
}
