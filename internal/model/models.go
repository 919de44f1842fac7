package model

import (
	"strings"
	"time"
)

// ItemStatus is the lifecycle state of a single plan item.
type ItemStatus string

const (
	ItemPending ItemStatus = "PENDING"
	ItemSkipped ItemStatus = "SKIPPED"
	ItemDone    ItemStatus = "DONE"
	ItemError   ItemStatus = "ERROR"
)

// PlanStatus is the lifecycle state of an execution plan.
// Plans move CREATED -> APPROVED -> EXECUTED or FAILED.
type PlanStatus string

const (
	PlanCreated  PlanStatus = "CREATED"
	PlanApproved PlanStatus = "APPROVED"
	PlanExecuted PlanStatus = "EXECUTED"
	PlanFailed   PlanStatus = "FAILED"
)

// CategoryKeepInPlace is the sentinel category meaning the file should stay
// where it is. Files classified with it never produce a plan item.
const CategoryKeepInPlace = "Keep_Current_Location"

// FileFingerprint is the composite identity of a file at scan time.
// Hash is derived from size, mtime, and the content sample, so an unmodified
// file always fingerprints to the same value. Fingerprints are not persisted;
// they exist only as classification cache keys.
type FileFingerprint struct {
	Path          string
	SizeBytes     int64
	MTime         time.Time
	Hash          string
	ContentSample []byte
}

// TextSample returns the content sample decoded as UTF-8 with invalid byte
// sequences dropped. Returns "" when no sample was read.
func (f FileFingerprint) TextSample() string {
	if len(f.ContentSample) == 0 {
		return ""
	}
	return strings.ToValidUTF8(string(f.ContentSample), "")
}

// ClassificationResult is a classifier's verdict for one file.
// Results are cached keyed by the file's fingerprint hash and never replaced
// with a different result for the same hash.
type ClassificationResult struct {
	Category         string  `json:"category"`
	ConfidenceScore  float64 `json:"confidence_score"`
	RequiresDeepScan bool    `json:"requires_deep_scan"`
	Path             string  `json:"path"`
	Reasoning        string  `json:"reasoning,omitempty"`
}

// PlanItem is one proposed move within a plan. Execution mutates only Status
// and ErrorMsg; the paths and reasoning are fixed at plan creation.
type PlanItem struct {
	ID        string
	PlanID    string
	SrcPath   string
	DestPath  string
	Reasoning string
	Status    ItemStatus
	ErrorMsg  string
}

// ExecutionPlan is a durable set of proposed file moves derived from one scan.
// The item set is fixed at creation; Items preserve creation order.
type ExecutionPlan struct {
	ID         string
	RootDir    string
	Status     PlanStatus
	CreatedAt  time.Time
	ExecutedAt *time.Time
	Items      []PlanItem
}

// PlanSummary is a plan row without its items, for listings.
type PlanSummary struct {
	ID        string
	RootDir   string
	Status    PlanStatus
	CreatedAt time.Time
	ItemCount int
}

// Operation records one CLI invocation that mutated the store.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
