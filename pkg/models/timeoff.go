package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TimeOffStatusPending   = "pending"
	TimeOffStatusApproved  = "approved"
	TimeOffStatusDenied    = "denied"
	TimeOffStatusCancelled = "cancelled"
)

// TimeOffRequest is an employee's absence over a date range. Owned by the HR
// workflow; the scheduling core only reads approved requests.
type TimeOffRequest struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	TenantID   uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	EmployeeID uuid.UUID `db:"employee_id" json:"employee_id"`
	StartDate  time.Time `db:"start_date"  json:"start_date"`
	EndDate    time.Time `db:"end_date"    json:"end_date"`
	Reason     string    `db:"reason"      json:"reason,omitempty"`
	Status     string    `db:"status"      json:"status"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}
