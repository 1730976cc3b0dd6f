package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractlens-backend/internal/analysis"
	"contractlens-backend/internal/apperr"
	"contractlens-backend/internal/backoff"
	"contractlens-backend/internal/extract"
	"contractlens-backend/internal/taxonomy"
)

func fastRetry() backoff.Options {
	return backoff.Options{Retries: 2, Base: time.Millisecond, Factor: 1}
}

func writeAppErr(w http.ResponseWriter, code apperr.Code) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.HTTPStatus())
	_ = json.NewEncoder(w).Encode(apperr.Body{Error: apperr.New(code)})
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4 fake"), 0o600))
	return p
}

func TestClient_RetriesRateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			writeAppErr(w, apperr.RateLimit)
			return
		}
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lease", req["contractTypeHint"])
		_ = json.NewEncoder(w).Encode(AnalyzeResult{OK: true, FinalContractType: "Residential Lease"})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second, fastRetry()).AnalyzeText(context.Background(), "text", "lease")
	require.NoError(t, err)
	assert.Equal(t, "Residential Lease", res.FinalContractType)
	assert.EqualValues(t, 2, hits.Load())
}

func TestClient_AuthIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeAppErr(w, apperr.Auth)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, fastRetry()).AnalyzeText(context.Background(), "text", "")
	require.Error(t, err)
	assert.Equal(t, apperr.Auth, apperr.CodeOf(err))
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, fastRetry()).AnalyzeText(context.Background(), "text", "")
	require.Error(t, err)
	assert.Equal(t, apperr.Timeout, apperr.CodeOf(err))
	assert.EqualValues(t, 3, hits.Load())
}

func TestClient_ExtractTextUploadsFile(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/extract-text", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		assert.Equal(t, "lease.pdf", header.Filename)
		assert.Equal(t, extract.MimePDF, header.Header.Get("Content-Type"))

		// the body must be rebuilt for the retry
		if hits.Add(1) == 1 {
			writeAppErr(w, apperr.Timeout)
			return
		}
		_ = json.NewEncoder(w).Encode(ExtractResult{Success: true, Text: "hello", Filename: header.Filename})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second, fastRetry()).ExtractText(context.Background(), tempFile(t, "lease.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.EqualValues(t, 2, hits.Load())
}

func TestClient_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid file type"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second, fastRetry()).ExtractText(context.Background(), tempFile(t, "notes.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid file type")
	assert.Contains(t, err.Error(), "400")
}

func TestClient_MissingFile(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", time.Second, fastRetry()).ExtractText(context.Background(), "/no/such/file.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAnalyzeCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/extract-text":
			_ = json.NewEncoder(w).Encode(ExtractResult{Success: true, Text: "A tenancy.", Filename: "lease.pdf"})
		case "/api/analyze-text":
			_ = json.NewEncoder(w).Encode(AnalyzeResult{
				OK:                   true,
				DetectedContractType: "Residential Lease",
				FinalContractType:    "Residential Lease",
				Buckets: []taxonomy.MappedBucket{{
					BucketName: "Money",
					Risks: []taxonomy.MappedRisk{
						{RiskID: "deposit", RiskName: "Deposit", Mentioned: true, KeyInfo: "Deposit is £1,200."},
						{RiskID: "fees", RiskName: "Fees", Mentioned: false},
					},
				}},
				Full: &analysis.FullResult{
					ExtendedSummary: "A short tenancy.",
					Highlights:      []string{"£1,200"},
					TopRisks:        []analysis.TopRisk{{Category: "Deposit", Severity: taxonomy.High, Status: taxonomy.Ambiguous}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"analyze", tempFile(t, "lease.pdf"), "--server", srv.URL, "--type", "lease"})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "Contract type: Residential Lease")
	assert.Contains(t, got, "Highlights: £1,200")
	assert.Contains(t, got, "[HIGH] Deposit (ambiguous)")
	assert.Contains(t, got, "+ Deposit: Deposit is £1,200.")
	assert.Contains(t, got, "- Fees: not mentioned")
}

func TestTypesCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"contractTypes":["Residential Lease","Other"],"default":"Other"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"types", "--server", srv.URL})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Residential Lease\nOther (default)\n", out.String())
}
