package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tidy-go/internal/classify"
	"tidy-go/internal/config"
	"tidy-go/internal/fs"
	"tidy-go/internal/model"
	"tidy-go/internal/safety"
	"tidy-go/internal/scan"
	"tidy-go/internal/store"
	"tidy-go/internal/telemetry"
	"tidy-go/internal/tidy"
)

// App is the application layer between the CLI and the OrganizerService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages the store lifecycle on Close.
type App struct {
	cfg     *config.Config
	store   tidy.Store
	service *tidy.OrganizerService
	op      *Operation
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "CreatePlan",
// "ExecutePlan"). The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	sink, err := telemetry.NewFromConfig(cfg.Telemetry, log)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating telemetry sink: %w", err)
	}

	classifier, err := classify.NewClassifierFromConfig(cfg.Classifier, log, sink)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Store)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	svc := tidy.NewOrganizerService(
		st,
		scan.NewCompositeScanner(),
		classifier,
		safety.NewStrictPolicy(cfg.AllowSymlinks),
		fs.NewOSFilesystemManager(cfg.Filesystem.Ignore),
		log,
		sink,
		tidy.RealClock{},
		tidy.UUIDGenerator{},
	)

	return &App{
		cfg:     cfg,
		store:   st,
		service: svc,
		op:      NewOperation(operation, ""),
		logFile: logFile,
	}, nil
}

// persistOperation saves the operation to the store, giving it an
// auto-increment ID. This should only be called for store-mutating commands.
func (a *App) persistOperation(ctx context.Context) error {
	if a.op.Persisted() {
		return nil // already persisted
	}
	id, err := a.store.CreateOperation(ctx, a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = id
	return nil
}

// CreatePlan resolves the given path and scans it into a new plan.
// Returns the plan ID.
func (a *App) CreatePlan(ctx context.Context, rawPath string) (string, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	a.op.Parameters = absPath
	if err := a.persistOperation(ctx); err != nil {
		return "", err
	}
	planID, err := a.service.CreatePlan(ctx, absPath)
	if err != nil {
		a.op.Status = "error"
		return "", err
	}
	return planID, nil
}

// GetPlan returns a plan with its items.
func (a *App) GetPlan(ctx context.Context, planID string) (*model.ExecutionPlan, error) {
	return a.service.GetPlan(ctx, planID)
}

// ListPlans returns summaries of all plans, most recent first.
func (a *App) ListPlans(ctx context.Context) ([]*model.PlanSummary, error) {
	return a.service.ListPlans(ctx)
}

// ApprovePlan marks a plan as reviewed and ready for execution.
func (a *App) ApprovePlan(ctx context.Context, planID string) error {
	a.op.Parameters = planID
	if err := a.persistOperation(ctx); err != nil {
		return err
	}
	if err := a.service.ApprovePlan(ctx, planID); err != nil {
		a.op.Status = "error"
		return err
	}
	return nil
}

// ExecutePlan runs an approved plan and returns one result line per
// attempted item.
func (a *App) ExecutePlan(ctx context.Context, planID string) ([]string, error) {
	a.op.Parameters = planID
	if err := a.persistOperation(ctx); err != nil {
		return nil, err
	}
	results, err := a.service.ExecutePlan(ctx, planID)
	if err != nil {
		a.op.Status = "error"
		return results, err
	}
	return results, nil
}

// History returns the most recent recorded operations.
func (a *App) History(ctx context.Context, limit int) ([]*model.Operation, error) {
	return a.service.History(ctx, limit)
}

// Close finalizes the operation record (if persisted) and closes all
// resources.
func (a *App) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.store.FinishOperation(context.Background(), a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.store.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing store: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
