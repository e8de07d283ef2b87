package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/pkg/models"
)

const (
	BulkActionReschedule   = "reschedule"
	BulkActionAssign       = "assign"
	BulkActionUpdateStatus = "updateStatus"
)

// BulkStore is the slice of the store the bulk service needs. Every mutation
// is tenant-scoped, so a cross-tenant id surfaces as ErrNotFound.
type BulkStore interface {
	RescheduleJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, start time.Time, end *time.Time) error
	AssignJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, assigneeID uuid.UUID) error
	UpdateJobStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status string) error
	CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}

// BulkService applies one change to many jobs with per-item isolation:
// one id's failure never stops the rest and no cross-item atomicity is
// provided or implied.
type BulkService struct {
	store BulkStore
}

// NewBulkService creates a new BulkService.
func NewBulkService(st BulkStore) *BulkService {
	return &BulkService{store: st}
}

// BulkChanges is the uniform change payload. Which fields matter depends on
// the action.
type BulkChanges struct {
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AssigneeID     *uuid.UUID
	Status         *string
}

// BulkParams holds validated parameters for a bulk mutation.
type BulkParams struct {
	TenantID uuid.UUID
	Action   string
	JobIDs   []uuid.UUID
	Changes  BulkChanges
	Actor    string
}

// BulkResult partitions the requested ids by outcome.
type BulkResult struct {
	Success []uuid.UUID `json:"success"`
	Failed  []uuid.UUID `json:"failed"`
}

// Apply runs the action against every id independently and always writes one
// audit record summarizing the batch.
func (s *BulkService) Apply(ctx context.Context, p BulkParams) (*BulkResult, error) {
	switch p.Action {
	case BulkActionReschedule, BulkActionAssign, BulkActionUpdateStatus:
	default:
		return nil, fmt.Errorf("%w: unknown bulk action %q", ErrValidation, p.Action)
	}
	if len(p.JobIDs) == 0 {
		return nil, fmt.Errorf("%w: job_ids is required", ErrValidation)
	}

	result := &BulkResult{
		Success: make([]uuid.UUID, 0, len(p.JobIDs)),
		Failed:  make([]uuid.UUID, 0),
	}
	for _, id := range p.JobIDs {
		if err := s.applyOne(ctx, p, id); err != nil {
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Success = append(result.Success, id)
	}

	entry := &models.AuditEntry{
		ID:          uuid.New(),
		TenantID:    p.TenantID,
		EventType:   models.AuditEventBulkEdit,
		EntityType:  "job_batch",
		EntityID:    uuid.Nil,
		Description: fmt.Sprintf("bulk %s: %d succeeded, %d failed", p.Action, len(result.Success), len(result.Failed)),
		Metadata: map[string]any{
			"action":        p.Action,
			"requested_ids": idStrings(p.JobIDs),
			"changes":       changesMetadata(p.Changes),
			"success_count": len(result.Success),
			"failed_count":  len(result.Failed),
		},
		Actor:     p.Actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAuditEntry(ctx, entry); err != nil {
		// Items already applied; the batch outcome stands regardless.
		slog.Error("audit write failed for bulk mutation", "action", p.Action, "error", err)
	}

	return result, nil
}

// applyOne validates the payload for the action and applies the single-field
// update. Missing payload fields, cross-tenant ids, and frozen jobs all count
// as that item's failure.
func (s *BulkService) applyOne(ctx context.Context, p BulkParams, id uuid.UUID) error {
	switch p.Action {
	case BulkActionReschedule:
		if p.Changes.ScheduledStart == nil {
			return fmt.Errorf("%w: scheduled_start is required for reschedule", ErrValidation)
		}
		return s.store.RescheduleJob(ctx, id, p.TenantID, *p.Changes.ScheduledStart, p.Changes.ScheduledEnd)
	case BulkActionAssign:
		if p.Changes.AssigneeID == nil {
			return fmt.Errorf("%w: assignee_id is required for assign", ErrValidation)
		}
		return s.store.AssignJob(ctx, id, p.TenantID, *p.Changes.AssigneeID)
	case BulkActionUpdateStatus:
		if p.Changes.Status == nil || !models.ValidJobStatus(*p.Changes.Status) {
			return fmt.Errorf("%w: a valid status is required for updateStatus", ErrValidation)
		}
		return s.store.UpdateJobStatus(ctx, id, p.TenantID, *p.Changes.Status)
	}
	return fmt.Errorf("%w: unknown bulk action %q", ErrValidation, p.Action)
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func changesMetadata(c BulkChanges) map[string]any {
	m := make(map[string]any)
	if c.ScheduledStart != nil {
		m["scheduled_start"] = c.ScheduledStart.Format(time.RFC3339)
	}
	if c.ScheduledEnd != nil {
		m["scheduled_end"] = c.ScheduledEnd.Format(time.RFC3339)
	}
	if c.AssigneeID != nil {
		m["assignee_id"] = c.AssigneeID.String()
	}
	if c.Status != nil {
		m["status"] = *c.Status
	}
	return m
}
