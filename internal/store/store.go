package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrConflict = errors.New("conflicting state")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here
// and every query is scoped by a tenant id.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error

	GetJobTemplate(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.JobTemplate, error)
	CreateJobOccurrence(ctx context.Context, occ *models.JobOccurrence) error
	SetTemplateRecurrence(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, pattern string, endDate time.Time) error
	GetJobCore(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.JobCore, error)
	ListJobsInRange(ctx context.Context, filter CalendarJobFilter) ([]*models.JobCore, error)
	RescheduleJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, start time.Time, end *time.Time) error
	AssignJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, assigneeID uuid.UUID) error
	UpdateJobStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status string) error

	CloneChecklistPlan(ctx context.Context, planID uuid.UUID, tenantID uuid.UUID) (uuid.UUID, error)

	ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]*models.Employee, error)
	GetCustomersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Customer, error)

	ListApprovedTimeOff(ctx context.Context, tenantID uuid.UUID, from time.Time, to time.Time) ([]*models.TimeOffRequest, error)

	GetShiftSwap(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.ShiftSwapRequest, error)
	ApproveShiftSwap(ctx context.Context, swap *models.ShiftSwapRequest) error
	RejectShiftSwap(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	ListReminderCandidates(ctx context.Context, tenantID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]*models.ReminderCandidate, error)

	CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}

// CalendarJobFilter selects jobs whose scheduled start falls inside [From, To],
// optionally narrowed to a single assignee.
type CalendarJobFilter struct {
	TenantID   uuid.UUID
	From       time.Time
	To         time.Time
	AssigneeID *uuid.UUID
}
