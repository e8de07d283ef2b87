// Package models contains shared data models used across the CleanSched codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    = "pending"
	JobStatusScheduled  = "scheduled"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

const (
	PatternNone     = "none"
	PatternDaily    = "daily"
	PatternWeekly   = "weekly"
	PatternBiweekly = "biweekly"
	PatternMonthly  = "monthly"
)

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusPending, JobStatusScheduled, JobStatusInProgress,
		JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// ValidPattern reports whether p is a recurrence pattern usable for expansion.
func ValidPattern(p string) bool {
	switch p {
	case PatternDaily, PatternWeekly, PatternBiweekly, PatternMonthly:
		return true
	}
	return false
}

// JobCore is the value object shared by templates and occurrences: one
// cleaning visit's who/where/when, independent of how it was created.
type JobCore struct {
	ID               uuid.UUID  `db:"id"                json:"id"`
	TenantID         uuid.UUID  `db:"tenant_id"         json:"tenant_id"`
	CustomerID       uuid.UUID  `db:"customer_id"       json:"customer_id"`
	AssigneeID       *uuid.UUID `db:"assignee_id"       json:"assignee_id,omitempty"`
	Title            string     `db:"title"             json:"title"`
	Location         string     `db:"location"          json:"location"`
	ScheduledStart   time.Time  `db:"scheduled_start"   json:"scheduled_start"`
	ScheduledEnd     *time.Time `db:"scheduled_end"     json:"scheduled_end,omitempty"`
	DurationMinutes  int        `db:"duration_minutes"  json:"duration_minutes"`
	Status           string     `db:"status"            json:"status"`
	Price            float64    `db:"price"             json:"price"`
	ChecklistPlanID  *uuid.UUID `db:"checklist_plan_id" json:"checklist_plan_id,omitempty"`
	AssigneeAccepted bool       `db:"assignee_accepted" json:"assignee_accepted"`
	CreatedAt        time.Time  `db:"created_at"        json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"        json:"updated_at"`
}

// RecurrenceRule is the persisted recurrence state of a template. Pattern is
// "none" until a series has been generated from the template.
type RecurrenceRule struct {
	Pattern string     `db:"recurrence"          json:"pattern"`
	EndDate *time.Time `db:"recurrence_end_date" json:"end_date,omitempty"`
}

// JobTemplate is a job row that owns a recurrence rule and spawns
// occurrences. A template never has a parent reference.
type JobTemplate struct {
	JobCore
	Recurrence RecurrenceRule `json:"recurrence"`
}

// JobOccurrence is one concrete, dated job generated from a template.
// An occurrence carries no recurrence rule; that is structurally
// unrepresentable here rather than enforced by convention.
type JobOccurrence struct {
	JobCore
	TemplateID uuid.UUID `db:"parent_id" json:"template_id"`
}
