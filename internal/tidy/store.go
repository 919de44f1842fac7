package tidy

import (
	"context"
	"time"

	"tidy-go/internal/model"
)

// Store provides durable persistence for plans, their items, the
// classification cache, and the operation history. It is the single source of
// truth for plan state; all methods must be safe to call sequentially from a
// single engine instance.
type Store interface {
	// Plan operations

	// SavePlan persists a plan and all of its items in a single transaction.
	// Item order must be preserved on retrieval.
	SavePlan(ctx context.Context, plan *model.ExecutionPlan) error

	// GetPlan returns a plan with its items in creation order,
	// or nil if no plan with that ID exists.
	GetPlan(ctx context.Context, planID string) (*model.ExecutionPlan, error)

	// ListPlans returns summaries of all plans, most recent first.
	ListPlans(ctx context.Context) ([]*model.PlanSummary, error)

	// UpdatePlanStatus sets a plan's status. executedAt is recorded when
	// non-nil (terminal transitions).
	UpdatePlanStatus(ctx context.Context, planID string, status model.PlanStatus, executedAt *time.Time) error

	// UpdateItemStatus sets one item's status and error message.
	UpdateItemStatus(ctx context.Context, itemID string, status model.ItemStatus, errorMsg string) error

	// Classification cache

	// GetCachedClassification returns the cached result for a fingerprint
	// hash, or nil on a cache miss.
	GetCachedClassification(ctx context.Context, fileHash string) (*model.ClassificationResult, error)

	// CacheClassification stores a result keyed by fingerprint hash.
	// The write is atomic per key (insert-or-replace in one statement).
	CacheClassification(ctx context.Context, fileHash string, result model.ClassificationResult) error

	// Operation history

	// CreateOperation records the start of a mutating CLI operation and
	// returns its auto-increment ID.
	CreateOperation(ctx context.Context, operation, parameters string) (int64, error)

	// FinishOperation records an operation's final status and finish time.
	FinishOperation(ctx context.Context, id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(ctx context.Context, limit int) ([]*model.Operation, error)

	// Close closes the underlying connection.
	Close() error
}
