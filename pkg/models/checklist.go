package models

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistPlan is an ordered task list a job references. Occurrences get
// their own clone of the template's plan so completing a task on one visit
// never touches another.
type ChecklistPlan struct {
	ID        uuid.UUID       `db:"id"         json:"id"`
	TenantID  uuid.UUID       `db:"tenant_id"  json:"tenant_id"`
	Name      string          `db:"name"       json:"name"`
	Tasks     []ChecklistTask `json:"tasks"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ChecklistTask is one step of a plan, ordered by Position.
type ChecklistTask struct {
	ID       uuid.UUID `db:"id"       json:"id"`
	PlanID   uuid.UUID `db:"plan_id"  json:"plan_id"`
	Position int       `db:"position" json:"position"`
	Label    string    `db:"label"    json:"label"`
	Done     bool      `db:"done"     json:"done"`
}
