package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents one cleaning company account. Every other entity belongs
// to a tenant and every store query is scoped by its id.
type Tenant struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	CompanyName string    `db:"company_name" json:"company_name"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}
