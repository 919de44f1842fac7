package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tidy-go/internal/model"
	"tidy-go/internal/store/migrations"
	"tidy-go/internal/tidy"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens a SQLite store and brings its schema up to date.
// path can be a file path or ":memory:" for an in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the schema is applied.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, path: ""}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tests that need a raw configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Plan operations

// SavePlan persists a plan and all of its items in a single transaction.
// The item sequence column records creation order so retrieval is stable.
func (s *SQLiteStore) SavePlan(ctx context.Context, plan *model.ExecutionPlan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO plans (id, root_dir, status, created_at, executed_at) VALUES (?, ?, ?, ?, ?)",
		plan.ID, plan.RootDir, string(plan.Status), plan.CreatedAt, nullTime(plan.ExecutedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for seq, item := range plan.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO plan_items (id, plan_id, seq, src_path, dest_path, reasoning, status, error_msg) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			item.ID, plan.ID, seq, item.SrcPath, item.DestPath, item.Reasoning, string(item.Status), nullString(item.ErrorMsg),
		)
		if err != nil {
			return fmt.Errorf("inserting plan item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetPlan returns a plan with its items in creation order, or nil if no plan
// with that ID exists.
func (s *SQLiteStore) GetPlan(ctx context.Context, planID string) (*model.ExecutionPlan, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, root_dir, status, created_at, executed_at FROM plans WHERE id = ?", planID)

	var plan model.ExecutionPlan
	var status string
	var executedAt sql.NullTime
	if err := row.Scan(&plan.ID, &plan.RootDir, &status, &plan.CreatedAt, &executedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding plan: %w", err)
	}
	plan.Status = model.PlanStatus(status)
	if executedAt.Valid {
		t := executedAt.Time
		plan.ExecutedAt = &t
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, plan_id, src_path, dest_path, reasoning, status, error_msg FROM plan_items WHERE plan_id = ? ORDER BY seq", planID)
	if err != nil {
		return nil, fmt.Errorf("finding plan items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.PlanItem
		var itemStatus string
		var errorMsg sql.NullString
		if err := rows.Scan(&item.ID, &item.PlanID, &item.SrcPath, &item.DestPath, &item.Reasoning, &itemStatus, &errorMsg); err != nil {
			return nil, fmt.Errorf("scanning plan item: %w", err)
		}
		item.Status = model.ItemStatus(itemStatus)
		item.ErrorMsg = errorMsg.String
		plan.Items = append(plan.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading plan items: %w", err)
	}

	return &plan, nil
}

// ListPlans returns summaries of all plans, most recent first.
func (s *SQLiteStore) ListPlans(ctx context.Context) ([]*model.PlanSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.root_dir, p.status, p.created_at, COUNT(i.id)
		FROM plans p LEFT JOIN plan_items i ON i.plan_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var summaries []*model.PlanSummary
	for rows.Next() {
		var sum model.PlanSummary
		var status string
		if err := rows.Scan(&sum.ID, &sum.RootDir, &status, &sum.CreatedAt, &sum.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning plan summary: %w", err)
		}
		sum.Status = model.PlanStatus(status)
		summaries = append(summaries, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading plan summaries: %w", err)
	}
	return summaries, nil
}

// UpdatePlanStatus sets a plan's status, recording executed_at when provided.
func (s *SQLiteStore) UpdatePlanStatus(ctx context.Context, planID string, status model.PlanStatus, executedAt *time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE plans SET status = ?, executed_at = COALESCE(?, executed_at) WHERE id = ?",
		string(status), nullTime(executedAt), planID)
	if err != nil {
		return fmt.Errorf("updating plan status: %w", err)
	}
	return nil
}

// UpdateItemStatus sets one item's status and error message.
func (s *SQLiteStore) UpdateItemStatus(ctx context.Context, itemID string, status model.ItemStatus, errorMsg string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE plan_items SET status = ?, error_msg = ? WHERE id = ?",
		string(status), nullString(errorMsg), itemID)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}

// Classification cache

// GetCachedClassification returns the cached result for a fingerprint hash,
// or nil on a cache miss.
func (s *SQLiteStore) GetCachedClassification(ctx context.Context, fileHash string) (*model.ClassificationResult, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT classification_json FROM file_cache WHERE file_hash = ?", fileHash)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("finding cached classification: %w", err)
	}

	var result model.ClassificationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decoding cached classification: %w", err)
	}
	return &result, nil
}

// CacheClassification stores a result keyed by fingerprint hash. The single
// INSERT OR REPLACE statement keeps the write atomic per key.
func (s *SQLiteStore) CacheClassification(ctx context.Context, fileHash string, result model.ClassificationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding classification: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO file_cache (file_hash, file_path, classification_json, created_at) VALUES (?, ?, ?, ?)",
		fileHash, result.Path, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("caching classification: %w", err)
	}
	return nil
}

// Operation history

// CreateOperation records the start of a mutating CLI operation.
func (s *SQLiteStore) CreateOperation(ctx context.Context, operation, parameters string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO operations (started_at, operation, parameters, status) VALUES (?, ?, ?, '')",
		time.Now(), operation, parameters)
	if err != nil {
		return 0, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	return id, nil
}

// FinishOperation records an operation's final status and finish time.
func (s *SQLiteStore) FinishOperation(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE operations SET finished_at = ?, status = ? WHERE id = ?",
		time.Now(), status, id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

// ListOperations returns the most recent operations, newest first.
func (s *SQLiteStore) ListOperations(ctx context.Context, limit int) ([]*model.Operation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, operation, parameters, status FROM operations ORDER BY id DESC LIMIT ?",
		int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*model.Operation
	for rows.Next() {
		var op model.Operation
		var finishedAt sql.NullTime
		if err := rows.Scan(&op.ID, &op.StartedAt, &finishedAt, &op.Operation, &op.Parameters, &op.Status); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			op.FinishedAt = &t
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading operations: %w", err)
	}
	return ops, nil
}

// Path returns the database file path (or ":memory:" for in-memory stores).
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Compile-time check that SQLiteStore implements tidy.Store
var _ tidy.Store = (*SQLiteStore)(nil)
