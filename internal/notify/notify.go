// Package notify delivers employee notifications produced by the scheduling
// core. Delivery is best-effort: a committed schedule change is never rolled
// back because a message could not be sent.
package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	IntentAssignment   = "assignment"
	IntentSwapDecision = "swap_decision"
)

// Intent is one notification the core wants delivered. Producers (the swap
// coordinator) stay decoupled from delivery: they emit intents, and a
// dispatcher consumes them after the owning transaction has committed.
type Intent struct {
	Kind            string    `json:"kind"`
	TenantID        uuid.UUID `json:"tenant_id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	JobID           uuid.UUID `json:"job_id"`
	OtherEmployeeID uuid.UUID `json:"other_employee_id,omitempty"`
	SwapStatus      string    `json:"swap_status,omitempty"`
}

// Notifier is the delivery collaborator.
type Notifier interface {
	NotifyAssignment(ctx context.Context, intent Intent) error
	NotifySwapDecision(ctx context.Context, intent Intent) error
}

// Dispatcher consumes intents and routes them to the notifier. Failures are
// logged and swallowed.
type Dispatcher struct {
	notifier Notifier
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(n Notifier) *Dispatcher {
	return &Dispatcher{notifier: n}
}

// Dispatch delivers every intent best-effort.
func (d *Dispatcher) Dispatch(ctx context.Context, intents []Intent) {
	for _, intent := range intents {
		var err error
		switch intent.Kind {
		case IntentAssignment:
			err = d.notifier.NotifyAssignment(ctx, intent)
		case IntentSwapDecision:
			err = d.notifier.NotifySwapDecision(ctx, intent)
		default:
			slog.Warn("unknown notification intent kind", "kind", intent.Kind)
			continue
		}
		if err != nil {
			slog.Warn("notification delivery failed",
				"kind", intent.Kind,
				"employee_id", intent.EmployeeID,
				"job_id", intent.JobID,
				"error", err,
			)
		}
	}
}
