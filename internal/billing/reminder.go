// Package billing holds the invoice-side scheduling concerns: selecting
// invoices eligible for a payment nudge and delegating the send.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/internal/schedule"
	"github.com/priyankverma/cleansched/pkg/models"
)

// ReminderStore is the slice of the store the reminder service needs.
type ReminderStore interface {
	ListReminderCandidates(ctx context.Context, tenantID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]*models.ReminderCandidate, error)
}

// PaymentNotifier delivers one payment reminder. Failures are reported, never
// retried here; cadence policy lives with the caller.
type PaymentNotifier interface {
	SendPaymentReminder(ctx context.Context, candidate models.ReminderCandidate) error
}

// ReminderService selects sent/overdue invoices inside a policy-defined
// window and delegates each reminder to the notifier.
type ReminderService struct {
	store    ReminderStore
	notifier PaymentNotifier
}

// NewReminderService creates a new ReminderService.
func NewReminderService(st ReminderStore, n PaymentNotifier) *ReminderService {
	return &ReminderService{store: st, notifier: n}
}

// RunParams holds validated parameters for a reminder run. The window is
// owned by external policy; this core only filters by it.
type RunParams struct {
	TenantID    uuid.UUID
	WindowStart time.Time
	WindowEnd   time.Time
}

// InvoiceOutcome is the per-invoice result of a run.
type InvoiceOutcome struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	Sent      bool      `json:"sent"`
}

// RunResult tallies a reminder run.
type RunResult struct {
	Sent     int              `json:"sent"`
	Failed   int              `json:"failed"`
	Invoices []InvoiceOutcome `json:"invoices"`
}

// Run sends a payment reminder for every eligible invoice and returns the
// per-invoice tally. One send failure never stops the rest.
func (s *ReminderService) Run(ctx context.Context, p RunParams) (*RunResult, error) {
	if p.WindowStart.IsZero() || p.WindowEnd.IsZero() {
		return nil, fmt.Errorf("%w: reminder window start and end are required", schedule.ErrValidation)
	}
	if p.WindowEnd.Before(p.WindowStart) {
		return nil, fmt.Errorf("%w: reminder window end precedes start", schedule.ErrValidation)
	}

	candidates, err := s.store.ListReminderCandidates(ctx, p.TenantID, p.WindowStart, p.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("listing reminder candidates: %w", err)
	}

	result := &RunResult{Invoices: make([]InvoiceOutcome, 0, len(candidates))}
	for _, c := range candidates {
		outcome := InvoiceOutcome{InvoiceID: c.Invoice.ID, Number: c.Invoice.Number}
		if err := s.notifier.SendPaymentReminder(ctx, *c); err != nil {
			slog.Warn("payment reminder delivery failed",
				"invoice_id", c.Invoice.ID, "customer_email", c.CustomerEmail, "error", err)
			result.Failed++
		} else {
			outcome.Sent = true
			result.Sent++
		}
		result.Invoices = append(result.Invoices, outcome)
	}
	return result, nil
}
