package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the party a job is performed for and an invoice is billed to.
type Customer struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	Email     string    `db:"email"      json:"email"`
	Phone     string    `db:"phone"      json:"phone"`
	Address   string    `db:"address"    json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
