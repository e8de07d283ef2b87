package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/priyankverma/cleansched/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

// --- Jobs ---

const jobCoreCols = `id, tenant_id, customer_id, assignee_id, title, location,
	scheduled_start, scheduled_end, duration_minutes, status, price,
	checklist_plan_id, assignee_accepted, created_at, updated_at`

func scanJobCore(row pgx.Row, j *models.JobCore) error {
	return row.Scan(&j.ID, &j.TenantID, &j.CustomerID, &j.AssigneeID, &j.Title, &j.Location,
		&j.ScheduledStart, &j.ScheduledEnd, &j.DurationMinutes, &j.Status, &j.Price,
		&j.ChecklistPlanID, &j.AssigneeAccepted, &j.CreatedAt, &j.UpdatedAt)
}

// GetJobTemplate loads a recurrence template. A job that exists but is an
// occurrence (has a parent) is reported as not found: there is no template
// by that id.
func (s *PostgresStore) GetJobTemplate(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.JobTemplate, error) {
	var t models.JobTemplate
	err := s.pool.QueryRow(ctx,
		`SELECT `+jobCoreCols+`, recurrence, recurrence_end_date
		 FROM jobs WHERE id = $1 AND tenant_id = $2 AND parent_id IS NULL`, id, tenantID,
	).Scan(&t.ID, &t.TenantID, &t.CustomerID, &t.AssigneeID, &t.Title, &t.Location,
		&t.ScheduledStart, &t.ScheduledEnd, &t.DurationMinutes, &t.Status, &t.Price,
		&t.ChecklistPlanID, &t.AssigneeAccepted, &t.CreatedAt, &t.UpdatedAt,
		&t.Recurrence.Pattern, &t.Recurrence.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job template: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateJobOccurrence(ctx context.Context, occ *models.JobOccurrence) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, tenant_id, customer_id, assignee_id, title, location,
		   scheduled_start, scheduled_end, duration_minutes, status, price,
		   checklist_plan_id, assignee_accepted, parent_id, recurrence, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'none', $15, $16)`,
		occ.ID, occ.TenantID, occ.CustomerID, occ.AssigneeID, occ.Title, occ.Location,
		occ.ScheduledStart, occ.ScheduledEnd, occ.DurationMinutes, occ.Status, occ.Price,
		occ.ChecklistPlanID, occ.AssigneeAccepted, occ.TemplateID, occ.CreatedAt, occ.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job occurrence: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetTemplateRecurrence(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, pattern string, endDate time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET recurrence = $3, recurrence_end_date = $4, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND parent_id IS NULL`, id, tenantID, pattern, endDate)
	if err != nil {
		return fmt.Errorf("set template recurrence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetJobCore(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.JobCore, error) {
	var j models.JobCore
	err := scanJobCore(s.pool.QueryRow(ctx,
		`SELECT `+jobCoreCols+` FROM jobs WHERE id = $1 AND tenant_id = $2`, id, tenantID), &j)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &j, nil
}

func (s *PostgresStore) ListJobsInRange(ctx context.Context, filter CalendarJobFilter) ([]*models.JobCore, error) {
	query := `SELECT ` + jobCoreCols + `
		 FROM jobs WHERE tenant_id = $1 AND scheduled_start >= $2 AND scheduled_start <= $3`
	args := []any{filter.TenantID, filter.From, filter.To}
	if filter.AssigneeID != nil {
		query += ` AND assignee_id = $4`
		args = append(args, *filter.AssigneeID)
	}
	query += ` ORDER BY scheduled_start ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs in range: %w", err)
	}
	defer rows.Close()

	var jobs []*models.JobCore
	for rows.Next() {
		var j models.JobCore
		if err := scanJobCore(rows, &j); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

// RescheduleJob moves a job's schedule window. Completed and cancelled jobs
// are frozen; moving them is a conflict.
func (s *PostgresStore) RescheduleJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, start time.Time, end *time.Time) error {
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT status FROM jobs WHERE id = $1 AND tenant_id = $2`, id, tenantID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}
	if status == models.JobStatusCompleted || status == models.JobStatusCancelled {
		return ErrConflict
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE jobs SET scheduled_start = $3, scheduled_end = $4, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`, id, tenantID, start, end)
	if err != nil {
		return fmt.Errorf("reschedule job: %w", err)
	}
	return nil
}

// AssignJob moves a job to a new assignee and resets the acceptance flag,
// since the new assignee has not confirmed anything yet.
func (s *PostgresStore) AssignJob(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, assigneeID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET assignee_id = $3, assignee_accepted = FALSE, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`, id, tenantID, assigneeID)
	if err != nil {
		return fmt.Errorf("assign job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $3, updated_at = NOW() WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Checklists ---

// CloneChecklistPlan copies a plan and its ordered tasks, with all tasks
// reset to not done. Both inserts happen in one transaction.
func (s *PostgresStore) CloneChecklistPlan(ctx context.Context, planID uuid.UUID, tenantID uuid.UUID) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin clone checklist plan: %w", err)
	}
	defer tx.Rollback(ctx)

	var name string
	err = tx.QueryRow(ctx,
		`SELECT name FROM checklist_plans WHERE id = $1 AND tenant_id = $2`, planID, tenantID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("get checklist plan: %w", err)
	}

	newID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO checklist_plans (id, tenant_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())`, newID, tenantID, name)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert cloned plan: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO checklist_tasks (id, plan_id, position, label, done)
		 SELECT gen_random_uuid(), $2, position, label, FALSE
		 FROM checklist_tasks WHERE plan_id = $1 ORDER BY position`, planID, newID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("copy checklist tasks: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit clone checklist plan: %w", err)
	}
	return newID, nil
}

// --- Employees & Customers ---

func (s *PostgresStore) ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]*models.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, email, phone, active, created_at, updated_at
		 FROM employees WHERE tenant_id = $1 AND active ORDER BY name ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Email, &e.Phone, &e.Active,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

func (s *PostgresStore) GetCustomersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Customer, error) {
	customers := make(map[uuid.UUID]*models.Customer, len(ids))
	if len(ids) == 0 {
		return customers, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, email, phone, address, created_at, updated_at
		 FROM customers WHERE tenant_id = $1 AND id = ANY($2)`, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("get customers by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.Address,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers[c.ID] = &c
	}
	return customers, rows.Err()
}

// --- Time Off ---

// ListApprovedTimeOff returns approved requests overlapping [from, to].
func (s *PostgresStore) ListApprovedTimeOff(ctx context.Context, tenantID uuid.UUID, from time.Time, to time.Time) ([]*models.TimeOffRequest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, employee_id, start_date, end_date, reason, status, created_at, updated_at
		 FROM time_off_requests
		 WHERE tenant_id = $1 AND status = $2 AND start_date <= $4 AND end_date >= $3
		 ORDER BY start_date ASC`, tenantID, models.TimeOffStatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("list approved time off: %w", err)
	}
	defer rows.Close()

	var requests []*models.TimeOffRequest
	for rows.Next() {
		var r models.TimeOffRequest
		if err := rows.Scan(&r.ID, &r.TenantID, &r.EmployeeID, &r.StartDate, &r.EndDate,
			&r.Reason, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan time off request: %w", err)
		}
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

// --- Shift Swaps ---

func (s *PostgresStore) GetShiftSwap(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.ShiftSwapRequest, error) {
	var r models.ShiftSwapRequest
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, from_job_id, to_job_id, from_employee_id, to_employee_id,
		   reason, status, resolved_at, created_at, updated_at
		 FROM shift_swap_requests WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&r.ID, &r.TenantID, &r.FromJobID, &r.ToJobID, &r.FromEmployeeID, &r.ToEmployeeID,
		&r.Reason, &r.Status, &r.ResolvedAt, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shift swap: %w", err)
	}
	return &r, nil
}

// ApproveShiftSwap performs the four swap writes in one transaction: mark the
// request approved, cross-assign both jobs, and clear both acceptance flags.
// The pending guard is re-checked inside the transaction so two concurrent
// approvals cannot both succeed; the loser gets ErrConflict.
func (s *PostgresStore) ApproveShiftSwap(ctx context.Context, swap *models.ShiftSwapRequest) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin approve shift swap: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE shift_swap_requests SET status = $3, resolved_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND status = $4`,
		swap.ID, swap.TenantID, models.SwapStatusApproved, models.SwapStatusPending)
	if err != nil {
		return fmt.Errorf("mark swap approved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}

	tag, err = tx.Exec(ctx,
		`UPDATE jobs SET assignee_id = $3, assignee_accepted = FALSE, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`, swap.FromJobID, swap.TenantID, swap.ToEmployeeID)
	if err != nil {
		return fmt.Errorf("reassign from-job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reassign from-job: %w", ErrNotFound)
	}

	tag, err = tx.Exec(ctx,
		`UPDATE jobs SET assignee_id = $3, assignee_accepted = FALSE, updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2`, swap.ToJobID, swap.TenantID, swap.FromEmployeeID)
	if err != nil {
		return fmt.Errorf("reassign to-job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reassign to-job: %w", ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit approve shift swap: %w", err)
	}
	return nil
}

// RejectShiftSwap marks a pending request rejected without touching any job.
// A request already resolved by a concurrent caller yields ErrConflict.
func (s *PostgresStore) RejectShiftSwap(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE shift_swap_requests SET status = $3, resolved_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND status = $4`,
		id, tenantID, models.SwapStatusRejected, models.SwapStatusPending)
	if err != nil {
		return fmt.Errorf("mark swap rejected: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// --- Billing ---

func (s *PostgresStore) ListReminderCandidates(ctx context.Context, tenantID uuid.UUID, windowStart time.Time, windowEnd time.Time) ([]*models.ReminderCandidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT i.id, i.tenant_id, i.customer_id, i.number, i.total, i.status, i.due_date,
		   i.created_at, i.updated_at, c.name, c.email
		 FROM invoices i
		 JOIN customers c ON c.id = i.customer_id AND c.tenant_id = i.tenant_id
		 WHERE i.tenant_id = $1 AND i.status = ANY($2) AND i.due_date >= $3 AND i.due_date <= $4
		 ORDER BY i.due_date ASC`,
		tenantID, []string{models.InvoiceStatusSent, models.InvoiceStatusOverdue}, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*models.ReminderCandidate
	for rows.Next() {
		var c models.ReminderCandidate
		if err := rows.Scan(&c.Invoice.ID, &c.Invoice.TenantID, &c.Invoice.CustomerID,
			&c.Invoice.Number, &c.Invoice.Total, &c.Invoice.Status, &c.Invoice.DueDate,
			&c.Invoice.CreatedAt, &c.Invoice.UpdatedAt, &c.CustomerName, &c.CustomerEmail); err != nil {
			return nil, fmt.Errorf("scan reminder candidate: %w", err)
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}

// --- Audit ---

func (s *PostgresStore) CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO audit_entries (id, tenant_id, event_type, entity_type, entity_id, description, metadata, actor, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.TenantID, entry.EventType, entry.EntityType, entry.EntityID,
		entry.Description, metadata, entry.Actor, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
