// Command rotate_keys re-encrypts every protected column of the users table
// from OLD_ENCRYPTION_KEY to NEW_ENCRYPTION_KEY. Records that fail are left
// untouched and reported; the exit status is 1 when any record failed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	"github.com/SscSPs/accounting_core/internal/encryption"
	"github.com/SscSPs/accounting_core/internal/platform/config"
	"github.com/SscSPs/accounting_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/accounting_core/internal/utils/mapping"
	"github.com/SscSPs/accounting_core/pkg/database"
)

type options struct {
	oldKey    string
	newKey    string
	batchSize int
	workers   int
	dryRun    bool
	genKey    bool
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	v := config.NewViper()
	v.SetDefault("OLD_ENCRYPTION_KEY", "")
	v.SetDefault("NEW_ENCRYPTION_KEY", "")
	cfg, err := config.FromViper(v)
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(2)
	}

	var opts options
	flag.StringVar(&opts.oldKey, "old-key", v.GetString("OLD_ENCRYPTION_KEY"), "current key, 64 hex characters")
	flag.StringVar(&opts.newKey, "new-key", v.GetString("NEW_ENCRYPTION_KEY"), "replacement key, 64 hex characters")
	flag.IntVar(&opts.batchSize, "batch-size", 500, "records loaded and rotated per batch")
	flag.IntVar(&opts.workers, "workers", cfg.RotationWorkers, "records rotated in parallel")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "rotate in memory without writing back")
	flag.BoolVar(&opts.genKey, "generate-key", false, "print a new random key and exit")
	flag.Parse()

	if opts.genKey {
		key, err := encryption.GenerateKey()
		if err != nil {
			logger.Error("Failed to generate key", slog.String("error", err.Error()))
			os.Exit(2)
		}
		fmt.Println(key)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(2)
	}
	defer dbPool.Close()

	rotator := encryption.NewKeyRotator(
		encryption.WithWorkers(opts.workers),
		encryption.WithRotationLogger(logger),
		encryption.WithRotationAuditLogger(encryption.NewSlogAuditLogger(logger)),
	)

	summary, err := run(ctx, rotator, pgsql.NewUserFieldStore(dbPool), opts, logger)
	if err != nil {
		logger.Error("Key rotation aborted", slog.String("error", err.Error()))
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		logger.Error("Failed to write summary", slog.String("error", err.Error()))
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// run pages through the store, rotating and saving one batch at a time.
func run(ctx context.Context, rotator *encryption.KeyRotator, store portsrepo.ProtectedFieldStore, opts options, logger *slog.Logger) (*encryption.RotationSummary, error) {
	if opts.batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", opts.batchSize)
	}

	total := &encryption.RotationSummary{Errors: []encryption.RotationError{}}
	afterID := ""
	for {
		records, err := store.ListProtectedRecords(ctx, opts.batchSize, afterID)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return total, nil
		}
		afterID = records[len(records)-1].ID

		result, err := rotator.RotateBatch(ctx, opts.oldKey, opts.newKey, records, mapping.UserModel)
		if err != nil {
			return nil, err
		}

		total.Total += result.Summary.Total
		total.Failed += result.Summary.Failed
		total.Errors = append(total.Errors, result.Summary.Errors...)

		for _, rec := range result.RotatedRecords {
			if !opts.dryRun {
				if err := store.SaveProtectedRecord(ctx, rec); err != nil {
					total.Failed++
					total.Errors = append(total.Errors, encryption.RotationError{RecordID: rec.ID, Message: "save failed: " + err.Error()})
					continue
				}
			}
			total.Success++
		}

		logger.Info("Rotated batch",
			slog.Int("records", len(records)),
			slog.Int("success_so_far", total.Success),
			slog.Int("failed_so_far", total.Failed))

		if len(records) < opts.batchSize {
			return total, nil
		}
	}
}
