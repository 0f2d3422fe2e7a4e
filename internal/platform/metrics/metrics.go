// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	JournalOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_journal_operations_total",
		Help: "Journal entry operations processed, labeled by operation and outcome",
	}, []string{"operation", "outcome"})

	JournalOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_journal_operation_duration_seconds",
		Help:    "Latency distribution of journal entry operations",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"operation"})

	CryptoOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_crypto_operations_total",
		Help: "Field encryption operations, labeled by operation and outcome",
	}, []string{"operation", "outcome"})

	KeyRotationRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_key_rotation_records_total",
		Help: "Records processed by batch key rotation, labeled by outcome",
	}, []string{"outcome"})
)

// ObserveJournalOperation records the outcome of a journal operation.
func ObserveJournalOperation(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	JournalOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveCryptoOperation records the outcome of an encrypt/decrypt/rotate call.
func ObserveCryptoOperation(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	CryptoOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
