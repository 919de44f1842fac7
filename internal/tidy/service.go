package tidy

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"tidy-go/internal/model"
)

// OrganizerService is the plan engine. It orchestrates scan -> fingerprint ->
// cache-gated classification -> plan persistence, and later plan execution
// with per-item safety checks and status transitions.
type OrganizerService struct {
	store      Store
	scanner    Scanner
	classifier Classifier
	safety     SafetyPolicy
	fsmgr      FilesystemManager
	logger     Logger
	telemetry  Telemetry
	clock      Clock
	idgen      IDGenerator

	mu        sync.Mutex
	executing map[string]bool
}

// NewOrganizerService creates a new OrganizerService with the provided
// dependencies. All collaborators are required except telemetry, which may be
// a NopTelemetry.
func NewOrganizerService(store Store, scanner Scanner, classifier Classifier, safety SafetyPolicy, fsmgr FilesystemManager, logger Logger, telemetry Telemetry, clock Clock, idgen IDGenerator) *OrganizerService {
	if telemetry == nil {
		telemetry = NewNopTelemetry()
	}
	return &OrganizerService{
		store:      store,
		scanner:    scanner,
		classifier: classifier,
		safety:     safety,
		fsmgr:      fsmgr,
		logger:     logger,
		telemetry:  telemetry,
		clock:      clock,
		idgen:      idgen,
		executing:  make(map[string]bool),
	}
}

// CreatePlan scans rootDir, classifies every regular file (cache-gated), and
// persists a CREATED plan of proposed moves. Returns the plan ID.
//
// The plan and all its items are written in a single transaction after the
// full walk, so a structural failure mid-scan never leaves a partial plan
// behind. An empty directory still produces a valid zero-item plan.
func (s *OrganizerService) CreatePlan(ctx context.Context, rootDir string) (string, error) {
	files, err := s.fsmgr.FindFiles(rootDir)
	if err != nil {
		return "", fmt.Errorf("finding files: %w", err)
	}

	planID := s.idgen.New()
	var items []model.PlanItem

	for _, path := range files {
		// Cancellation is honored between files; nothing has been
		// persisted yet, so aborting here is safe.
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fp, err := s.scanner.ScanFile(path)
		if err != nil {
			return "", fmt.Errorf("scanning %s: %w", path, err)
		}

		result, err := s.classifyFile(ctx, fp)
		if err != nil {
			return "", err
		}

		if result.Category == model.CategoryKeepInPlace {
			// No move needed: excluded from the plan entirely, as
			// opposed to an explicit SKIPPED item.
			continue
		}

		destPath := filepath.Join(rootDir, result.Category, filepath.Base(path))
		if destPath == path {
			continue // already in place, no redundant move
		}

		reasoning := result.Reasoning
		if reasoning == "" {
			reasoning = fmt.Sprintf("Classified as %s (confidence %.2f)", result.Category, result.ConfidenceScore)
		}

		items = append(items, model.PlanItem{
			ID:        s.idgen.New(),
			PlanID:    planID,
			SrcPath:   path,
			DestPath:  destPath,
			Reasoning: reasoning,
			Status:    model.ItemPending,
		})
	}

	plan := &model.ExecutionPlan{
		ID:        planID,
		RootDir:   rootDir,
		Status:    model.PlanCreated,
		CreatedAt: s.clock.Now(),
		Items:     items,
	}

	if err := s.store.SavePlan(ctx, plan); err != nil {
		return "", fmt.Errorf("saving plan: %w", err)
	}

	s.telemetry.TrackEvent("plan_created", map[string]any{"plan_id": planID, "items": len(items)})
	s.logger.Info("plan created", "plan_id", planID, "root", rootDir, "items", len(items))
	return planID, nil
}

// classifyFile returns the classification for a fingerprint, consulting the
// cache first. A cache hit must short-circuit the classifier call entirely;
// a miss classifies exactly once and persists the result before returning.
func (s *OrganizerService) classifyFile(ctx context.Context, fp model.FileFingerprint) (model.ClassificationResult, error) {
	cached, err := s.store.GetCachedClassification(ctx, fp.Hash)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("looking up classification cache: %w", err)
	}
	if cached != nil {
		s.logger.Debug("using cached classification", "path", fp.Path, "category", cached.Category)
		s.telemetry.TrackEvent("cache_hit", map[string]any{"path": fp.Path, "category": cached.Category})
		return *cached, nil
	}

	s.telemetry.TrackEvent("cache_miss", map[string]any{"path": fp.Path})
	result := s.classifier.Classify(ctx, fp, fp.TextSample())
	if err := s.store.CacheClassification(ctx, fp.Hash, result); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("caching classification: %w", err)
	}
	return result, nil
}

// GetPlan returns a plan with its items, or a NOT_FOUND error.
func (s *OrganizerService) GetPlan(ctx context.Context, planID string) (*model.ExecutionPlan, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan == nil {
		return nil, NewPlanNotFound(planID)
	}
	return plan, nil
}

// ListPlans returns summaries of all plans, most recent first.
func (s *OrganizerService) ListPlans(ctx context.Context) ([]*model.PlanSummary, error) {
	return s.store.ListPlans(ctx)
}

// History returns the most recent recorded CLI operations.
func (s *OrganizerService) History(ctx context.Context, limit int) ([]*model.Operation, error) {
	return s.store.ListOperations(ctx, limit)
}

// ApprovePlan transitions a plan from CREATED to APPROVED. Approving an
// already-approved plan is a no-op; executed or failed plans cannot be
// re-approved.
func (s *OrganizerService) ApprovePlan(ctx context.Context, planID string) error {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return err
	}

	switch plan.Status {
	case model.PlanApproved:
		return nil
	case model.PlanCreated:
		if err := s.store.UpdatePlanStatus(ctx, planID, model.PlanApproved, nil); err != nil {
			return fmt.Errorf("approving plan: %w", err)
		}
		s.logger.Info("plan approved", "plan_id", planID)
		return nil
	default:
		return fmt.Errorf("plan %s cannot be approved in status %s", planID, plan.Status)
	}
}

// ExecutePlan runs the moves of an approved plan and returns one result line
// per attempted item. Item failures are isolated: an item that errors is
// marked ERROR and execution continues with the next item. Re-executing a
// plan is idempotent — DONE and SKIPPED items are inert on replay, and a
// prior ERROR is eligible for retry.
func (s *OrganizerService) ExecutePlan(ctx context.Context, planID string) ([]string, error) {
	if !s.tryLock(planID) {
		return nil, fmt.Errorf("plan %s is already being executed", planID)
	}
	defer s.unlock(planID)

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.Status == model.PlanCreated {
		return nil, fmt.Errorf("plan %s has not been approved", planID)
	}

	var results []string
	failed := false

	for i := range plan.Items {
		item := &plan.Items[i]

		if err := ctx.Err(); err != nil {
			// Items completed so far keep their recorded status;
			// the plan stays resumable.
			return results, err
		}

		switch item.Status {
		case model.ItemDone:
			results = append(results, fmt.Sprintf("Skipped %s (already done)", item.SrcPath))
			continue
		case model.ItemSkipped:
			continue
		}

		if err := s.executeItem(item, plan.RootDir); err != nil {
			failed = true
			if uerr := s.store.UpdateItemStatus(ctx, item.ID, model.ItemError, err.Error()); uerr != nil {
				return results, fmt.Errorf("recording item error: %w", uerr)
			}
			s.telemetry.TrackEvent("item_error", map[string]any{"plan_id": planID, "src": item.SrcPath, "error": err.Error()})
			s.logger.Warn("item failed", "src", item.SrcPath, "error", err)
			results = append(results, fmt.Sprintf("Error moving %s: %v", item.SrcPath, err))
			continue
		}

		if err := s.store.UpdateItemStatus(ctx, item.ID, model.ItemDone, ""); err != nil {
			return results, fmt.Errorf("recording item success: %w", err)
		}
		s.telemetry.TrackEvent("item_moved", map[string]any{"plan_id": planID, "src": item.SrcPath, "dest": item.DestPath})
		s.logger.Info("item moved", "src", item.SrcPath, "dest", item.DestPath)
		results = append(results, fmt.Sprintf("Moved %s to %s", filepath.Base(item.SrcPath), filepath.Base(filepath.Dir(item.DestPath))))
	}

	status := model.PlanExecuted
	if failed {
		status = model.PlanFailed
	}
	executedAt := s.clock.Now()
	if err := s.store.UpdatePlanStatus(ctx, planID, status, &executedAt); err != nil {
		return results, fmt.Errorf("updating plan status: %w", err)
	}

	s.logger.Info("plan executed", "plan_id", planID, "status", status)
	return results, nil
}

// executeItem performs the safety checks and the move for one item.
// The returned error message becomes the item's recorded error_msg.
func (s *OrganizerService) executeItem(item *model.PlanItem, rootDir string) error {
	exists, err := s.fsmgr.Exists(item.SrcPath)
	if err != nil {
		return fmt.Errorf("checking source: %w", err)
	}
	if !exists {
		return NewSourceMissing()
	}

	// Safety gates are evaluated fresh on every run; the filesystem may
	// have changed since the plan was created.
	if err := s.safety.ValidateMove(item.SrcPath, item.DestPath); err != nil {
		return err
	}
	if !s.safety.ValidatePath(rootDir, item.DestPath) {
		return NewBlockedOperation(fmt.Sprintf("destination escapes root: %s", item.DestPath))
	}

	if err := s.fsmgr.MkdirAll(filepath.Dir(item.DestPath)); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	if err := s.fsmgr.Move(item.SrcPath, item.DestPath); err != nil {
		return fmt.Errorf("moving file: %w", err)
	}
	return nil
}

// tryLock acquires the per-plan execution lock. At most one executor may run
// a given plan at a time within this process.
func (s *OrganizerService) tryLock(planID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.executing[planID] {
		return false
	}
	s.executing[planID] = true
	return true
}

func (s *OrganizerService) unlock(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.executing, planID)
}
