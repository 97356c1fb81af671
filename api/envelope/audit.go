// Package envelope - Envelope logging and audit
package envelope

import (
	"time"

	"go.uber.org/zap"
)

// AuditEntry is a log entry for one calculation
type AuditEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	QuoteID    string    `json:"quote_id,omitempty"`
	InputHash  string    `json:"input_hash"`
	Request    string    `json:"request"`
	RateTable  string    `json:"rate_table,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// AuditLogger logs envelopes for audit and replay
type AuditLogger interface {
	Log(entry AuditEntry) error
}

// ZapAuditLogger writes audit entries as structured log lines
type ZapAuditLogger struct {
	Logger *zap.Logger
}

// Log logs an audit entry
func (l *ZapAuditLogger) Log(entry AuditEntry) error {
	fields := []zap.Field{
		zap.Time("at", entry.Timestamp),
		zap.String("quote_id", entry.QuoteID),
		zap.String("input_hash", entry.InputHash),
		zap.String("request", entry.Request),
		zap.String("rate_table", entry.RateTable),
		zap.String("request_id", entry.RequestID),
		zap.String("client_ip", entry.ClientIP),
		zap.String("user_agent", entry.UserAgent),
		zap.Int64("duration_ms", entry.DurationMs),
		zap.Bool("success", entry.Success),
	}
	if entry.Error != "" {
		fields = append(fields, zap.String("error", entry.Error))
	}
	l.Logger.Info("calculation audit", fields...)
	return nil
}

// NopAuditLogger discards entries
type NopAuditLogger struct{}

// Log implements AuditLogger
func (NopAuditLogger) Log(AuditEntry) error { return nil }

// CreateAuditEntry creates an audit entry from an envelope
func CreateAuditEntry(envelope *InputEnvelope, requestID, clientIP, userAgent string) AuditEntry {
	req := envelope.Request
	return AuditEntry{
		Timestamp: time.Now().UTC(),
		InputHash: envelope.InputHash,
		Request:   req.Amount.String() + "/" + req.SubType.String() + "/" + req.DutyType.String() + "/" + req.Regime.String(),
		RequestID: requestID,
		ClientIP:  clientIP,
		UserAgent: userAgent,
		Success:   true,
	}
}

// MarkFailed marks the audit entry as failed
func (e *AuditEntry) MarkFailed(err error) {
	e.Success = false
	e.Error = err.Error()
}

// SetDuration sets the duration
func (e *AuditEntry) SetDuration(d time.Duration) {
	e.DurationMs = d.Milliseconds()
}
