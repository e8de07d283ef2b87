package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/internal/store"
	"github.com/priyankverma/cleansched/pkg/models"
)

// --- mock BulkStore ---

// mockBulkStore fails any id listed in missing with ErrNotFound, which is
// also how the real store surfaces cross-tenant ids.
type mockBulkStore struct {
	missing map[uuid.UUID]bool

	rescheduled []uuid.UUID
	assigned    []uuid.UUID
	statused    []uuid.UUID
	audits      []*models.AuditEntry
	auditErr    error
}

func (m *mockBulkStore) RescheduleJob(ctx context.Context, id, tenantID uuid.UUID, start time.Time, end *time.Time) error {
	if m.missing[id] {
		return store.ErrNotFound
	}
	m.rescheduled = append(m.rescheduled, id)
	return nil
}

func (m *mockBulkStore) AssignJob(ctx context.Context, id, tenantID, assigneeID uuid.UUID) error {
	if m.missing[id] {
		return store.ErrNotFound
	}
	m.assigned = append(m.assigned, id)
	return nil
}

func (m *mockBulkStore) UpdateJobStatus(ctx context.Context, id, tenantID uuid.UUID, status string) error {
	if m.missing[id] {
		return store.ErrNotFound
	}
	m.statused = append(m.statused, id)
	return nil
}

func (m *mockBulkStore) CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	if m.auditErr != nil {
		return m.auditErr
	}
	m.audits = append(m.audits, entry)
	return nil
}

// --- tests ---

func TestBulkApply_PartialFailure(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	st := &mockBulkStore{missing: map[uuid.UUID]bool{ids[2]: true}}
	svc := NewBulkService(st)

	start := mustDate(t, "2024-04-01T09:00:00Z")
	result, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionReschedule,
		JobIDs:   ids,
		Changes:  BulkChanges{ScheduledStart: &start},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Success) != 2 {
		t.Errorf("expected 2 successes, got %v", result.Success)
	}
	if len(result.Failed) != 1 || result.Failed[0] != ids[2] {
		t.Errorf("expected only the missing id to fail, got %v", result.Failed)
	}
	if len(st.rescheduled) != 2 {
		t.Errorf("expected 2 reschedules applied, got %d", len(st.rescheduled))
	}
}

func TestBulkApply_AssignAction(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	st := &mockBulkStore{}
	svc := NewBulkService(st)

	assignee := uuid.New()
	result, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionAssign,
		JobIDs:   ids,
		Changes:  BulkChanges{AssigneeID: &assignee},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Success) != 2 || len(result.Failed) != 0 {
		t.Errorf("expected all to succeed, got %+v", result)
	}
	if len(st.assigned) != 2 {
		t.Errorf("expected 2 assignments, got %d", len(st.assigned))
	}
}

func TestBulkApply_MissingPayloadFailsEveryItem(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	st := &mockBulkStore{}
	svc := NewBulkService(st)

	// Reschedule without a start: each item fails, the batch itself does not.
	result, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionReschedule,
		JobIDs:   ids,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Success) != 0 || len(result.Failed) != 2 {
		t.Errorf("expected every item to fail, got %+v", result)
	}
	if len(st.rescheduled) != 0 {
		t.Errorf("expected no store writes, got %d", len(st.rescheduled))
	}
}

func TestBulkApply_InvalidStatusRejectedPerItem(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	st := &mockBulkStore{}
	svc := NewBulkService(st)

	bogus := "teleported"
	result, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionUpdateStatus,
		JobIDs:   ids,
		Changes:  BulkChanges{Status: &bogus},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Failed) != 1 {
		t.Errorf("expected the item to fail, got %+v", result)
	}
}

func TestBulkApply_UnknownAction(t *testing.T) {
	svc := NewBulkService(&mockBulkStore{})

	_, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   "explode",
		JobIDs:   []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBulkApply_EmptyIDs(t *testing.T) {
	svc := NewBulkService(&mockBulkStore{})

	status := models.JobStatusCompleted
	_, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionUpdateStatus,
		Changes:  BulkChanges{Status: &status},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBulkApply_AuditWrittenOncePerBatch(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	st := &mockBulkStore{missing: map[uuid.UUID]bool{ids[0]: true}}
	svc := NewBulkService(st)

	status := models.JobStatusCancelled
	_, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionUpdateStatus,
		JobIDs:   ids,
		Changes:  BulkChanges{Status: &status},
		Actor:    "dispatcher@tenant",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.audits) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(st.audits))
	}
	entry := st.audits[0]
	if entry.EventType != models.AuditEventBulkEdit {
		t.Errorf("unexpected event type %q", entry.EventType)
	}
	if entry.Metadata["success_count"] != 2 || entry.Metadata["failed_count"] != 1 {
		t.Errorf("unexpected counts in metadata: %+v", entry.Metadata)
	}
}

func TestBulkApply_AuditFailureDoesNotFailBatch(t *testing.T) {
	ids := []uuid.UUID{uuid.New()}
	st := &mockBulkStore{auditErr: errors.New("audit sink down")}
	svc := NewBulkService(st)

	status := models.JobStatusCompleted
	result, err := svc.Apply(context.Background(), BulkParams{
		TenantID: uuid.New(),
		Action:   BulkActionUpdateStatus,
		JobIDs:   ids,
		Changes:  BulkChanges{Status: &status},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Success) != 1 {
		t.Errorf("expected success despite audit failure, got %+v", result)
	}
}
