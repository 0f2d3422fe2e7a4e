package encryption

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/accounting_core/internal/platform/metrics"
)

// Record is one row whose encrypted fields should be rotated. Field values
// that are nil, non-string or not tokens pass through untouched.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// RotationError describes one record that could not be rotated.
type RotationError struct {
	RecordID      string `json:"recordId"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// RotationSummary aggregates a batch run. Success+Failed always equals Total.
type RotationSummary struct {
	Total   int             `json:"total"`
	Success int             `json:"success"`
	Failed  int             `json:"failed"`
	Errors  []RotationError `json:"errors"`
}

// BatchRotationResult holds the rotated records (input order, successes only)
// and the summary.
type BatchRotationResult struct {
	RotatedRecords []Record        `json:"rotatedRecords"`
	Summary        RotationSummary `json:"summary"`
}

// KeyRotator rotates many records independently; one corrupt value fails
// only its own record.
type KeyRotator struct {
	workers int
	audit   AuditLogger
	logger  *slog.Logger
}

// RotatorOption configures a KeyRotator.
type RotatorOption func(*KeyRotator)

// WithWorkers bounds how many records are rotated concurrently.
func WithWorkers(n int) RotatorOption {
	return func(r *KeyRotator) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithRotationAuditLogger sets the audit side channel for per-field rotations.
func WithRotationAuditLogger(audit AuditLogger) RotatorOption {
	return func(r *KeyRotator) {
		if audit != nil {
			r.audit = audit
		}
	}
}

// WithRotationLogger sets the logger used for batch progress.
func WithRotationLogger(logger *slog.Logger) RotatorOption {
	return func(r *KeyRotator) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewKeyRotator creates a KeyRotator. By default records are processed one at a time.
func NewKeyRotator(opts ...RotatorOption) *KeyRotator {
	r := &KeyRotator{
		workers: 1,
		audit:   noopAuditLogger{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type recordOutcome struct {
	record Record
	err    *RotationError
}

// RotateBatch re-wraps every encrypted field of records from oldKey to newKey.
// Invalid keys fail the whole call before any record is touched; after that,
// per-record failures are collected in the summary and never abort the batch.
func (r *KeyRotator) RotateBatch(ctx context.Context, oldKey, newKey string, records []Record, modelName string) (*BatchRotationResult, error) {
	oldCodec, err := NewCodecFromHex(oldKey)
	if err != nil {
		return nil, err
	}
	newCodec, err := NewCodecFromHex(newKey)
	if err != nil {
		return nil, err
	}

	outcomes := make([]recordOutcome, len(records))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := range records {
		g.Go(func() error {
			outcomes[i] = r.rotateRecord(ctx, oldCodec, newCodec, records[i], modelName)
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchRotationResult{
		RotatedRecords: make([]Record, 0, len(records)),
		Summary: RotationSummary{
			Total:  len(records),
			Errors: []RotationError{},
		},
	}
	for _, outcome := range outcomes {
		if outcome.err != nil {
			result.Summary.Failed++
			result.Summary.Errors = append(result.Summary.Errors, *outcome.err)
			metrics.KeyRotationRecordsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
			continue
		}
		result.Summary.Success++
		result.RotatedRecords = append(result.RotatedRecords, outcome.record)
		metrics.KeyRotationRecordsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	}

	r.logger.InfoContext(ctx, "Batch key rotation finished",
		slog.String("model", modelName),
		slog.Int("total", result.Summary.Total),
		slog.Int("success", result.Summary.Success),
		slog.Int("failed", result.Summary.Failed),
	)
	return result, nil
}

func (r *KeyRotator) rotateRecord(ctx context.Context, oldCodec, newCodec *Codec, record Record, modelName string) recordOutcome {
	if err := ctx.Err(); err != nil {
		return recordOutcome{err: &RotationError{RecordID: record.ID, Message: err.Error()}}
	}

	rotated := Record{ID: record.ID, Fields: make(map[string]any, len(record.Fields))}
	for name, value := range record.Fields {
		token, ok := value.(string)
		if !ok || !IsEncrypted(token) {
			rotated.Fields[name] = value
			continue
		}

		newToken, err := rotateWith(oldCodec, newCodec, token)
		err = withField(err, name)
		r.audit.LogEvent(ctx, AuditEvent{
			Operation:     OpRotate,
			Model:         modelName,
			Field:         name,
			Success:       err == nil,
			Category:      Category(err),
			CorrelationID: CorrelationID(err),
			Timestamp:     time.Now().UTC(),
		})
		metrics.ObserveCryptoOperation(OpRotate, err)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to rotate record",
				slog.String("model", modelName),
				slog.String("record_id", record.ID),
				slog.String("field", name),
				slog.String("correlation_id", CorrelationID(err)),
			)
			return recordOutcome{err: &RotationError{
				RecordID:      record.ID,
				Message:       err.Error(),
				CorrelationID: CorrelationID(err),
			}}
		}
		rotated.Fields[name] = newToken
	}
	return recordOutcome{record: rotated}
}
