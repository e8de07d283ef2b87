package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusOverdue = "overdue"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusVoid    = "void"
)

// Invoice is the billing record for completed work. Only status and due date
// matter to this core; line items and payment are external concerns.
type Invoice struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	TenantID   uuid.UUID `db:"tenant_id"   json:"tenant_id"`
	CustomerID uuid.UUID `db:"customer_id" json:"customer_id"`
	Number     string    `db:"number"      json:"number"`
	Total      float64   `db:"total"       json:"total"`
	Status     string    `db:"status"      json:"status"`
	DueDate    time.Time `db:"due_date"    json:"due_date"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
}

// ReminderCandidate pairs an invoice eligible for a payment nudge with the
// owning customer's contact details. Computed on demand, never persisted.
type ReminderCandidate struct {
	Invoice       Invoice `json:"invoice"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
}
