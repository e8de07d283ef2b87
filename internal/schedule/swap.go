package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/internal/notify"
	"github.com/priyankverma/cleansched/internal/store"
	"github.com/priyankverma/cleansched/pkg/models"
)

// SwapStore is the slice of the store the swap coordinator needs.
type SwapStore interface {
	GetShiftSwap(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.ShiftSwapRequest, error)
	ApproveShiftSwap(ctx context.Context, swap *models.ShiftSwapRequest) error
	RejectShiftSwap(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
	CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}

// SwapService resolves two-employee shift swaps. The only transitions are
// pending to approved and pending to rejected; both are terminal, and a
// resolved request can never be resolved again.
type SwapService struct {
	store SwapStore
}

// NewSwapService creates a new SwapService.
func NewSwapService(st SwapStore) *SwapService {
	return &SwapService{store: st}
}

// ResolveSwapParams holds validated parameters for a swap resolution.
type ResolveSwapParams struct {
	TenantID uuid.UUID
	SwapID   uuid.UUID
	Decision string
	Actor    string
}

// ResolveSwapResult carries the terminal status plus the notification
// intents for a delivery mechanism to consume. Delivery reliability is
// decoupled from the transactional correctness of the transition.
type ResolveSwapResult struct {
	Status        string
	Notifications []notify.Intent
}

// Resolve applies one terminal decision to a pending swap request.
//
// Approval reassigns both jobs, clears both acceptance flags, and marks the
// request approved in a single transaction; the pending guard is re-checked
// inside it, so the loser of a concurrent race gets ErrConflict. Rejection
// marks the request rejected and mutates no job.
func (s *SwapService) Resolve(ctx context.Context, p ResolveSwapParams) (*ResolveSwapResult, error) {
	if p.Decision != models.SwapStatusApproved && p.Decision != models.SwapStatusRejected {
		return nil, fmt.Errorf("%w: decision must be approved or rejected, got %q", ErrValidation, p.Decision)
	}

	swap, err := s.store.GetShiftSwap(ctx, p.SwapID, p.TenantID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: swap request %s", ErrNotFound, p.SwapID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading swap request: %w", err)
	}
	if swap.Resolved() {
		return nil, fmt.Errorf("%w: swap request already %s", ErrConflict, swap.Status)
	}

	var intents []notify.Intent
	switch p.Decision {
	case models.SwapStatusApproved:
		if err := s.store.ApproveShiftSwap(ctx, swap); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return nil, fmt.Errorf("%w: swap request resolved concurrently", ErrConflict)
			}
			// Partial application here would corrupt two schedules at once,
			// so a transaction failure is fatal.
			return nil, fmt.Errorf("approving swap: %w", err)
		}
		intents = []notify.Intent{
			{
				Kind:            notify.IntentAssignment,
				TenantID:        swap.TenantID,
				EmployeeID:      swap.ToEmployeeID,
				JobID:           swap.FromJobID,
				OtherEmployeeID: swap.FromEmployeeID,
			},
			{
				Kind:            notify.IntentAssignment,
				TenantID:        swap.TenantID,
				EmployeeID:      swap.FromEmployeeID,
				JobID:           swap.ToJobID,
				OtherEmployeeID: swap.ToEmployeeID,
			},
		}
	case models.SwapStatusRejected:
		if err := s.store.RejectShiftSwap(ctx, swap.ID, p.TenantID); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return nil, fmt.Errorf("%w: swap request resolved concurrently", ErrConflict)
			}
			return nil, fmt.Errorf("rejecting swap: %w", err)
		}
		intents = []notify.Intent{
			{
				Kind:            notify.IntentSwapDecision,
				TenantID:        swap.TenantID,
				EmployeeID:      swap.FromEmployeeID,
				JobID:           swap.FromJobID,
				OtherEmployeeID: swap.ToEmployeeID,
				SwapStatus:      models.SwapStatusRejected,
			},
			{
				Kind:            notify.IntentSwapDecision,
				TenantID:        swap.TenantID,
				EmployeeID:      swap.ToEmployeeID,
				JobID:           swap.ToJobID,
				OtherEmployeeID: swap.FromEmployeeID,
				SwapStatus:      models.SwapStatusRejected,
			},
		}
	}

	entry := &models.AuditEntry{
		ID:          uuid.New(),
		TenantID:    p.TenantID,
		EventType:   models.AuditEventSwapResolved,
		EntityType:  "shift_swap_request",
		EntityID:    swap.ID,
		Description: fmt.Sprintf("swap request %s", p.Decision),
		Metadata: map[string]any{
			"decision":         p.Decision,
			"from_job_id":      swap.FromJobID.String(),
			"to_job_id":        swap.ToJobID.String(),
			"from_employee_id": swap.FromEmployeeID.String(),
			"to_employee_id":   swap.ToEmployeeID.String(),
		},
		Actor:     p.Actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAuditEntry(ctx, entry); err != nil {
		// The transition is already committed; never revert it over the sink.
		slog.Error("audit write failed for swap resolution", "swap_id", swap.ID, "error", err)
	}

	return &ResolveSwapResult{Status: p.Decision, Notifications: intents}, nil
}
