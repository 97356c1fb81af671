// Package api - HTTP handlers for cost calculation
// These handlers wrap the engine - they contain NO cost logic.
// All logic is delegated to core packages.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"transfer-cost/api/envelope"
	"transfer-cost/core/cost"
	"transfer-cost/core/output"
	"transfer-cost/core/types"
	"transfer-cost/internal/errors"
)

const (
	headerRateTable = "X-Rate-Table"
	headerInputHash = "X-Input-Hash"
	headerQuoteID   = "X-Quote-ID"

	maxBodyBytes = 64 << 10
)

// Handler handles calculation requests
type Handler struct {
	normalizer *envelope.Normalizer
	engine     *cost.Engine
	audit      envelope.AuditLogger
	metrics    *Metrics
	logger     *zap.Logger
	currency   string
	export     output.Formatter
}

// NewHandler creates a new handler. metrics may be nil.
func NewHandler(engine *cost.Engine, audit envelope.AuditLogger, metrics *Metrics, logger *zap.Logger, currency string) *Handler {
	return &Handler{
		normalizer: envelope.NewNormalizer(),
		engine:     engine,
		audit:      audit,
		metrics:    metrics,
		logger:     logger,
		currency:   currency,
		export:     output.XLSXFormatter{},
	}
}

// Calculate handles POST /calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	quote, err := h.execute(w, r)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	body, err := json.Marshal(quote.Breakdown)
	if err != nil {
		h.writeFailure(w, r, errors.Wrap(errors.TypeInternal, "encode breakdown", err))
		return
	}

	setQuoteHeaders(w, quote)
	writeBody(w, body, http.StatusOK)
}

// Export handles POST /calculate/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	quote, err := h.execute(w, r)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	// Render fully before writing so a failure can still become a 500
	var buf bytes.Buffer
	if err := h.export.Render(&buf, quote); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	setQuoteHeaders(w, quote)
	w.Header().Set("Content-Type", h.export.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(quote)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// RateTables handles GET /rate-tables
func (h *Handler) RateTables(w http.ResponseWriter, r *http.Request) {
	resp := RateTablesResponse{}
	for _, regime := range []types.Regime{types.RegimePreCutover, types.RegimePostCutover} {
		table, err := h.engine.Table(regime)
		if err != nil {
			h.writeFailure(w, r, err)
			return
		}
		resp.Tables = append(resp.Tables, newRateTableView(table))
	}
	writeJSON(w, h.logger, resp, http.StatusOK)
}

// execute decodes, validates and prices one request
func (h *Handler) execute(w http.ResponseWriter, r *http.Request) (*output.Quote, error) {
	start := time.Now()

	raw, err := envelope.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	env, err := h.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	quoteID := uuid.NewString()
	entry := envelope.CreateAuditEntry(env, middleware.GetReqID(r.Context()), r.RemoteAddr, r.UserAgent())
	entry.QuoteID = quoteID
	defer func() {
		entry.SetDuration(time.Since(start))
		if err := h.audit.Log(entry); err != nil {
			h.logger.Warn("audit log failed", zap.Error(err))
		}
	}()

	table, err := h.engine.Table(env.Request.Regime)
	if err != nil {
		entry.MarkFailed(err)
		return nil, err
	}
	entry.RateTable = table.ID()

	breakdown, err := h.engine.Calculate(env.Request)
	if err != nil {
		entry.MarkFailed(err)
		return nil, err
	}

	h.metrics.observeCalculation(env.Request.SubType.String(), env.Request.DutyType.String(), table.ID())

	return &output.Quote{
		ID:          quoteID,
		Request:     env.Request,
		Breakdown:   breakdown,
		RateTable:   table.ID(),
		Currency:    h.currency,
		InputHash:   env.InputHash,
		GeneratedAt: env.NormalizedAt,
	}, nil
}

// writeFailure maps an error to a response. Only validation messages reach the client.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := errors.As(err); ok && e.Type == errors.TypeValidation {
		h.metrics.observeFailure(CodeValidation)
		writeError(w, CodeValidation, e.Message, http.StatusBadRequest)
		return
	}

	h.metrics.observeFailure(CodeInternal)
	h.logger.Error("calculation failed",
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeError(w, CodeInternal, MsgInternal, http.StatusInternalServerError)
}

func setQuoteHeaders(w http.ResponseWriter, q *output.Quote) {
	w.Header().Set(headerRateTable, q.RateTable)
	w.Header().Set(headerInputHash, q.InputHash)
	w.Header().Set(headerQuoteID, q.ID)
}

func exportFilename(q *output.Quote) string {
	hash := q.InputHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return "transfer-costs-" + hash + ".xlsx"
}
