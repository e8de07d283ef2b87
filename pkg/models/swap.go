package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SwapStatusPending  = "pending"
	SwapStatusApproved = "approved"
	SwapStatusRejected = "rejected"
)

// ShiftSwapRequest proposes exchanging two employees' job assignments.
// The proposal step lives outside this core; resolution happens exactly once
// and the resolved statuses are terminal.
type ShiftSwapRequest struct {
	ID             uuid.UUID  `db:"id"               json:"id"`
	TenantID       uuid.UUID  `db:"tenant_id"        json:"tenant_id"`
	FromJobID      uuid.UUID  `db:"from_job_id"      json:"from_job_id"`
	ToJobID        uuid.UUID  `db:"to_job_id"        json:"to_job_id"`
	FromEmployeeID uuid.UUID  `db:"from_employee_id" json:"from_employee_id"`
	ToEmployeeID   uuid.UUID  `db:"to_employee_id"   json:"to_employee_id"`
	Reason         string     `db:"reason"           json:"reason,omitempty"`
	Status         string     `db:"status"           json:"status"`
	ResolvedAt     *time.Time `db:"resolved_at"      json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"       json:"updated_at"`
}

// Resolved reports whether the request has reached a terminal status.
func (r *ShiftSwapRequest) Resolved() bool {
	return r.Status != SwapStatusPending
}
