package store_test

import (
	"context"
	"testing"
	"time"

	"tidy-go/internal/model"
	"tidy-go/internal/testutil"
)

func newPlan(id string, createdAt time.Time, items ...model.PlanItem) *model.ExecutionPlan {
	return &model.ExecutionPlan{
		ID:        id,
		RootDir:   "/data/inbox",
		Status:    model.PlanCreated,
		CreatedAt: createdAt,
		Items:     items,
	}
}

func newItem(id, planID, src string) model.PlanItem {
	return model.PlanItem{
		ID:        id,
		PlanID:    planID,
		SrcPath:   src,
		DestPath:  "/data/inbox/Misc/" + src,
		Reasoning: "test",
		Status:    model.ItemPending,
	}
}

func TestPlanPersistence(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("save and load round-trips with item order preserved", func(t *testing.T) {
		plan := newPlan("plan-1", now,
			newItem("item-1", "plan-1", "zebra.txt"),
			newItem("item-2", "plan-1", "apple.txt"),
			newItem("item-3", "plan-1", "mango.txt"),
		)
		if err := st.SavePlan(ctx, plan); err != nil {
			t.Fatalf("SavePlan failed: %v", err)
		}

		loaded, err := st.GetPlan(ctx, "plan-1")
		if err != nil {
			t.Fatalf("GetPlan failed: %v", err)
		}
		if loaded == nil {
			t.Fatalf("expected plan, got nil")
		}
		if loaded.RootDir != "/data/inbox" {
			t.Errorf("unexpected root dir: %s", loaded.RootDir)
		}
		if loaded.Status != model.PlanCreated {
			t.Errorf("unexpected status: %s", loaded.Status)
		}
		if len(loaded.Items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(loaded.Items))
		}
		for i, want := range []string{"zebra.txt", "apple.txt", "mango.txt"} {
			if loaded.Items[i].SrcPath != want {
				t.Errorf("item %d: expected %s, got %s", i, want, loaded.Items[i].SrcPath)
			}
		}
	})

	t.Run("missing plan returns nil without error", func(t *testing.T) {
		loaded, err := st.GetPlan(ctx, "no-such-plan")
		if err != nil {
			t.Fatalf("GetPlan failed: %v", err)
		}
		if loaded != nil {
			t.Errorf("expected nil for missing plan, got %+v", loaded)
		}
	})

	t.Run("plan status update records executed_at", func(t *testing.T) {
		executedAt := now.Add(time.Hour)
		if err := st.UpdatePlanStatus(ctx, "plan-1", model.PlanExecuted, &executedAt); err != nil {
			t.Fatalf("UpdatePlanStatus failed: %v", err)
		}

		loaded, err := st.GetPlan(ctx, "plan-1")
		if err != nil {
			t.Fatalf("GetPlan failed: %v", err)
		}
		if loaded.Status != model.PlanExecuted {
			t.Errorf("expected EXECUTED, got %s", loaded.Status)
		}
		if loaded.ExecutedAt == nil {
			t.Fatalf("expected executed_at to be set")
		}
		if !loaded.ExecutedAt.Equal(executedAt) {
			t.Errorf("expected executed_at %v, got %v", executedAt, loaded.ExecutedAt)
		}
	})

	t.Run("status update without timestamp keeps executed_at", func(t *testing.T) {
		if err := st.UpdatePlanStatus(ctx, "plan-1", model.PlanFailed, nil); err != nil {
			t.Fatalf("UpdatePlanStatus failed: %v", err)
		}
		loaded, err := st.GetPlan(ctx, "plan-1")
		if err != nil {
			t.Fatalf("GetPlan failed: %v", err)
		}
		if loaded.ExecutedAt == nil {
			t.Errorf("expected executed_at to survive a nil update")
		}
	})

	t.Run("item status update", func(t *testing.T) {
		if err := st.UpdateItemStatus(ctx, "item-2", model.ItemError, "source not found"); err != nil {
			t.Fatalf("UpdateItemStatus failed: %v", err)
		}

		loaded, err := st.GetPlan(ctx, "plan-1")
		if err != nil {
			t.Fatalf("GetPlan failed: %v", err)
		}
		item := loaded.Items[1]
		if item.Status != model.ItemError {
			t.Errorf("expected ERROR, got %s", item.Status)
		}
		if item.ErrorMsg != "source not found" {
			t.Errorf("unexpected error message: %q", item.ErrorMsg)
		}
	})
}

func TestListPlans(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	if err := st.SavePlan(ctx, newPlan("old", base, newItem("i-1", "old", "a.txt"))); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := st.SavePlan(ctx, newPlan("new", base.Add(time.Hour),
		newItem("i-2", "new", "b.txt"), newItem("i-3", "new", "c.txt"))); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	summaries, err := st.ListPlans(ctx)
	if err != nil {
		t.Fatalf("ListPlans failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "new" || summaries[1].ID != "old" {
		t.Errorf("expected most recent first, got %s then %s", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", summaries[0].ItemCount)
	}
	if summaries[1].ItemCount != 1 {
		t.Errorf("expected 1 item, got %d", summaries[1].ItemCount)
	}
}

func TestClassificationCache(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	t.Run("miss returns nil", func(t *testing.T) {
		cached, err := st.GetCachedClassification(ctx, "unknown-hash")
		if err != nil {
			t.Fatalf("GetCachedClassification failed: %v", err)
		}
		if cached != nil {
			t.Errorf("expected nil on cache miss, got %+v", cached)
		}
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		result := model.ClassificationResult{
			Category:         "Financial",
			ConfidenceScore:  0.85,
			RequiresDeepScan: true,
			Path:             "/data/inbox/invoice.pdf",
		}
		if err := st.CacheClassification(ctx, "hash-1", result); err != nil {
			t.Fatalf("CacheClassification failed: %v", err)
		}

		cached, err := st.GetCachedClassification(ctx, "hash-1")
		if err != nil {
			t.Fatalf("GetCachedClassification failed: %v", err)
		}
		if cached == nil {
			t.Fatalf("expected cache hit")
		}
		if *cached != result {
			t.Errorf("expected %+v, got %+v", result, *cached)
		}
	})

	t.Run("rewriting a key replaces the entry", func(t *testing.T) {
		if err := st.CacheClassification(ctx, "hash-1", model.ClassificationResult{Category: "Work", ConfidenceScore: 0.6}); err != nil {
			t.Fatalf("CacheClassification failed: %v", err)
		}
		cached, err := st.GetCachedClassification(ctx, "hash-1")
		if err != nil {
			t.Fatalf("GetCachedClassification failed: %v", err)
		}
		if cached.Category != "Work" {
			t.Errorf("expected replaced entry, got %s", cached.Category)
		}
	})
}

func TestOperationHistory(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	id1, err := st.CreateOperation(ctx, "CreatePlan", "/data/inbox")
	if err != nil {
		t.Fatalf("CreateOperation failed: %v", err)
	}
	id2, err := st.CreateOperation(ctx, "ExecutePlan", "plan-1")
	if err != nil {
		t.Fatalf("CreateOperation failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("expected increasing ids, got %d then %d", id1, id2)
	}

	if err := st.FinishOperation(ctx, id1, "success"); err != nil {
		t.Fatalf("FinishOperation failed: %v", err)
	}

	ops, err := st.ListOperations(ctx, 10)
	if err != nil {
		t.Fatalf("ListOperations failed: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}
	if ops[0].ID != id2 {
		t.Errorf("expected newest first, got id %d", ops[0].ID)
	}
	if ops[1].Status != "success" {
		t.Errorf("expected finished status, got %q", ops[1].Status)
	}
	if ops[1].FinishedAt == nil {
		t.Errorf("expected finished_at to be set")
	}
	if ops[0].FinishedAt != nil {
		t.Errorf("expected unfinished operation to have nil finished_at")
	}

	limited, err := st.ListOperations(ctx, 1)
	if err != nil {
		t.Fatalf("ListOperations failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d operations", len(limited))
	}
}
