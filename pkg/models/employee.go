package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a cleaner the dispatcher can assign jobs to.
type Employee struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Phone     string    `db:"phone"      json:"phone"`
	Active    bool      `db:"active"     json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
