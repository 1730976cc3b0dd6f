package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contractlens-backend/internal/analysis"
	"contractlens-backend/internal/apperr"
	"contractlens-backend/internal/backoff"
	"contractlens-backend/internal/extract"
	"contractlens-backend/internal/taxonomy"
)

// Client calls the ContractLens HTTP API. Every call is retried with backoff
// on RATE_LIMIT and TIMEOUT errors.
type Client struct {
	baseURL string
	http    *http.Client
	retry   backoff.Options
}

func NewClient(baseURL string, timeout time.Duration, retry backoff.Options) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		retry:   retry,
	}
}

type ExtractResult struct {
	Success         bool   `json:"success"`
	Text            string `json:"text"`
	OriginalLength  int    `json:"originalLength"`
	SanitizedLength int    `json:"sanitizedLength"`
	Filename        string `json:"filename"`
	FileSize        int64  `json:"fileSize"`
	FileType        string `json:"fileType"`
	Pages           int    `json:"pages"`
}

type AnalyzeResult struct {
	OK                   bool                    `json:"ok"`
	IntakeContractType   string                  `json:"intakeContractType"`
	DetectedContractType string                  `json:"detectedContractType"`
	FinalContractType    string                  `json:"finalContractType"`
	Buckets              []taxonomy.MappedBucket `json:"buckets"`
	Full                 *analysis.FullResult    `json:"full"`
}

type DemoResult struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
	analysis.DemoResult
}

// ExtractText uploads the file at path and returns its extracted text.
func (c *Client) ExtractText(ctx context.Context, path string) (*ExtractResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var out ExtractResult
	if err := c.call(ctx, c.upload("/api/extract-text", path, data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Demo uploads the file at path for the short preview analysis.
func (c *Client) Demo(ctx context.Context, path string) (*DemoResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var out DemoResult
	if err := c.call(ctx, c.upload("/api/analyze", path, data), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeText runs the full analysis on text.
func (c *Client) AnalyzeText(ctx context.Context, text, contractType string) (*AnalyzeResult, error) {
	body, err := json.Marshal(map[string]string{"text": text, "contractTypeHint": contractType})
	if err != nil {
		return nil, err
	}
	var out AnalyzeResult
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze-text", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}
	if err := c.call(ctx, build, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	}, out)
}

type requestBuilder func(ctx context.Context) (*http.Request, error)

// upload builds a fresh multipart body on every attempt.
func (c *Client) upload(path, filename string, data []byte) requestBuilder {
	return func(ctx context.Context) (*http.Request, error) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
		if kind, err := extract.KindOf(filename, ""); err == nil {
			h.Set("Content-Type", kind.MimeType())
		} else {
			h.Set("Content-Type", "application/octet-stream")
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req, nil
	}
}

func (c *Client) call(ctx context.Context, build requestBuilder, out any) error {
	_, err := backoff.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.once(ctx, build, out)
	}, c.retry)
	return err
}

func (c *Client) once(ctx context.Context, build requestBuilder, out any) error {
	req, err := build(ctx)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %v", apperr.New(apperr.Timeout), err)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError turns an error response into an *apperr.Error when it carries
// a code, or when the status implies one, so backoff can decide on retries.
func responseError(status int, body []byte) error {
	var coded apperr.Body
	if json.Unmarshal(body, &coded) == nil && coded.Error != nil && coded.Error.Code != "" {
		return coded.Error
	}
	switch status {
	case http.StatusTooManyRequests:
		return apperr.New(apperr.RateLimit)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return apperr.New(apperr.Timeout)
	case http.StatusUnauthorized:
		return apperr.New(apperr.Auth)
	}
	var plain struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &plain) == nil && plain.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", plain.Error, status)
	}
	return fmt.Errorf("unexpected HTTP %d", status)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
