package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"transfer-cost/api/envelope"
	"transfer-cost/core/cost"
	"transfer-cost/core/output"
	"transfer-cost/core/pricing"
	"transfer-cost/core/types"
	"transfer-cost/internal/config"
	"transfer-cost/internal/errors"
)

func newTestServer(t *testing.T, mutate ...func(*Options)) *Server {
	t.Helper()
	opts := Options{
		Version:  "test",
		Server:   config.ServerConfig{MetricsEnabled: true},
		Logger:   zaptest.NewLogger(t),
		Audit:    envelope.NopAuditLogger{},
		Registry: prometheus.NewRegistry(),
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewServer(opts)
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestCalculateScenarios(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		body  string
		table string
		want  string
	}{
		{
			name:  "freehold residential before cutover",
			body:  `{"amount": 450000, "sub_type": "F", "dutytype": "N", "date": "before"}`,
			table: "pre-2024-10-01",
			want: `{"transferFees":5000,"vatOnFees":750,"transferDuty":0,"stampDuty":0,
				"deedsOfficeFee":345,"sundriesPostagesVAT":1265,"total":7360}`,
		},
		{
			name:  "sectional residential after cutover",
			body:  `{"amount": "1200000", "sub_type": "S", "dutytype": "N", "date": "after"}`,
			table: "post-2024-10-01",
			want: `{"transferFees":17460,"vatOnFees":2619,"transferDuty":1000,"stampDuty":1000,
				"deedsOfficeFee":400,"sundriesPostagesVAT":1265,"total":23744}`,
		},
		{
			name:  "freehold commercial after cutover",
			body:  `{"amount": 3000000, "sub_type": "F", "dutytype": "C", "date": "later"}`,
			table: "post-2024-10-01",
			want: `{"transferFees":34260,"vatOnFees":5139,"transferDuty":360000,"stampDuty":36000,
				"deedsOfficeFee":345,"sundriesPostagesVAT":1265,"total":437009}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/calculate", tt.body)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.table, rec.Header().Get("X-Rate-Table"))
			assert.Len(t, rec.Header().Get("X-Input-Hash"), 64)
			_, err := uuid.Parse(rec.Header().Get("X-Quote-ID"))
			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestCalculateValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"empty body", ``, envelope.MsgMissingFields},
		{"missing fields", `{"amount": 100}`, envelope.MsgMissingFields},
		{"invalid amount", `{"amount": "abc", "sub_type": "S", "dutytype": "N", "date": "after"}`, envelope.MsgInvalidAmount},
		{"negative amount", `{"amount": -5, "sub_type": "S", "dutytype": "N", "date": "after"}`, envelope.MsgInvalidAmount},
		{"overflowing amount", `{"amount": "1e400", "sub_type": "S", "dutytype": "N", "date": "after"}`, envelope.MsgInvalidAmount},
		{"overflowing numeric amount", `{"amount": 1e400, "sub_type": "S", "dutytype": "N", "date": "after"}`, envelope.MsgInvalidAmount},
		{"huge exponent", `{"amount": "1e5000000", "sub_type": "S", "dutytype": "N", "date": "after"}`, envelope.MsgInvalidAmount},
		{"invalid sub type", `{"amount": 100, "sub_type": "X", "dutytype": "N", "date": "after"}`, envelope.MsgInvalidSubType},
		{"invalid duty type", `{"amount": 100, "sub_type": "S", "dutytype": "X", "date": "after"}`, envelope.MsgInvalidDutyType},
		{"malformed json", `{"amount":`, envelope.MsgInvalidBody},
		{"json array", `[1, 2]`, envelope.MsgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/calculate", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.msg, resp.Error)
			assert.Equal(t, CodeValidation, resp.Code)
		})
	}
}

func TestCalculateInternalErrorHidesCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := newTestServer(t, func(o *Options) {
		o.Logger = zap.New(core)
		o.Engine = cost.NewEngineWithTables(func(types.Regime) (*pricing.RateTable, error) {
			return nil, errors.Internal("rate store offline", nil)
		})
	})

	rec := do(t, s, http.MethodPost, "/calculate", `{"amount": 100, "sub_type": "S", "dutytype": "N", "date": "after"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error", "code": "INTERNAL_ERROR"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "offline")

	entries := logs.FilterMessage("calculation failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "rate store offline")
}

func TestWriteJSONEncodingFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()

	writeJSON(rec, zap.New(core), map[string]float64{"total": math.Inf(1)}, http.StatusOK)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal server error", "code": "INTERNAL_ERROR"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Len(t, logs.FilterMessage("response encoding failed").All(), 1)
}

func TestOverflowingAmountIsRejectedQuickly(t *testing.T) {
	s := newTestServer(t)

	start := time.Now()
	rec := do(t, s, http.MethodPost, "/calculate", `{"amount": "1e5000000", "sub_type": "S", "dutytype": "N", "date": "after"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.Less(t, time.Since(start), time.Second)
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodOptions, "/calculate", "",
		"Origin", "https://widget.example",
		"Access-Control-Request-Method", "POST",
		"Access-Control-Request-Headers", "Content-Type",
	)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestBareOptions(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodOptions, "/calculate", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSOnActualRequest(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/calculate", `{"amount": 450000, "sub_type": "F", "dutytype": "N", "date": "before"}`,
		"Origin", "https://widget.example")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/calculate/export", `{"amount": 450000, "sub_type": "F", "dutytype": "N", "date": "before"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, output.XLSXFormatter{}.ContentType(), rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="transfer-costs-[0-9a-f]{12}\.xlsx"$`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(output.XLSXSheet)
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, output.Disclaimer, last[0])
}

func TestExportValidationError(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/calculate/export", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "test", health.Version)

	rec = do(t, s, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version": "test", "engine": "transfer-cost", "api_version": "v1"}`, rec.Body.String())
}

func TestRateTables(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/rate-tables", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RateTablesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tables, 2)

	pre, post := resp.Tables[0], resp.Tables[1]
	assert.Equal(t, "pre-2024-10-01", pre.ID)
	assert.Equal(t, "post-2024-10-01", post.ID)
	assert.Equal(t, "250", pre.OfficeFees["S"].String())
	assert.Equal(t, "400", post.OfficeFees["S"].String())
	assert.Equal(t, "1265", post.Sundries.String())

	assert.Len(t, post.TransferFees["S"], 7)
	assert.Len(t, post.TransferFees["F"], 5)
	assert.Len(t, post.TransferDuty["N"], 5)
	assert.Len(t, pre.TransferDuty["N"], 4)

	for _, table := range resp.Tables {
		for key, brackets := range table.TransferDuty {
			require.NotEmpty(t, brackets, key)
			assert.Nil(t, brackets[len(brackets)-1].UpTo, "last %s bracket should be unlimited", key)
		}
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	do(t, s, http.MethodPost, "/calculate", `{"amount": 450000, "sub_type": "F", "dutytype": "N", "date": "before"}`)
	do(t, s, http.MethodPost, "/calculate", `{}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `transfer_cost_calculations_total{duty_type="N",rate_table="pre-2024-10-01",sub_type="F"} 1`)
	assert.Contains(t, body, `transfer_cost_calculation_failures_total{code="VALIDATION_ERROR"} 1`)
	assert.Contains(t, body, `transfer_cost_http_requests_total{method="POST",route="/calculate",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t, func(o *Options) { o.Server.MetricsEnabled = false })

	rec := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuditLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := newTestServer(t, func(o *Options) {
		o.Audit = &envelope.ZapAuditLogger{Logger: zap.New(core)}
	})

	rec := do(t, s, http.MethodPost, "/calculate", `{"amount": 1200000, "sub_type": "S", "dutytype": "N", "date": "after"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "1200000/S/N/after", fields["request"])
	assert.Equal(t, "post-2024-10-01", fields["rate_table"])
	assert.Equal(t, true, fields["success"])
	assert.NotEmpty(t, fields["request_id"])
	assert.Equal(t, rec.Header().Get("X-Quote-ID"), fields["quote_id"])
}
