package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/internal/holiday"
	"github.com/priyankverma/cleansched/internal/store"
	"github.com/priyankverma/cleansched/pkg/models"
)

// defaultEventWindow is the rendered length of a job with no explicit end.
const defaultEventWindow = 60 * time.Minute

const dayKeyFormat = "2006-01-02"

// statusColors maps job status to a calendar display color.
var statusColors = map[string]string{
	models.JobStatusPending:    "#f59e0b",
	models.JobStatusScheduled:  "#3b82f6",
	models.JobStatusInProgress: "#8b5cf6",
	models.JobStatusCompleted:  "#22c55e",
	models.JobStatusCancelled:  "#9ca3af",
}

// CalendarStore is the slice of the store the calendar service needs.
type CalendarStore interface {
	ListJobsInRange(ctx context.Context, filter store.CalendarJobFilter) ([]*models.JobCore, error)
	ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]*models.Employee, error)
	GetCustomersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.Customer, error)
	ListApprovedTimeOff(ctx context.Context, tenantID uuid.UUID, from time.Time, to time.Time) ([]*models.TimeOffRequest, error)
}

// CalendarService aggregates jobs, approved time off, and cached public
// holidays into one view for day- and resource-oriented rendering.
type CalendarService struct {
	store    CalendarStore
	holidays holiday.Source
}

// NewCalendarService creates a new CalendarService.
func NewCalendarService(st CalendarStore, holidays holiday.Source) *CalendarService {
	return &CalendarService{store: st, holidays: holidays}
}

// CalendarParams holds validated parameters for a calendar query.
type CalendarParams struct {
	TenantID   uuid.UUID
	From       time.Time
	To         time.Time
	ResourceID *uuid.UUID
}

// PartySummary is a denormalized reference to a customer or employee.
type PartySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CalendarEvent is one job rendered onto the calendar.
type CalendarEvent struct {
	JobID    uuid.UUID     `json:"job_id"`
	Title    string        `json:"title"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Status   string        `json:"status"`
	Color    string        `json:"color"`
	Location string        `json:"location"`
	Price    float64       `json:"price"`
	Customer *PartySummary `json:"customer,omitempty"`
	Assignee *PartySummary `json:"assignee,omitempty"`
}

// DayStats aggregates one day's events.
type DayStats struct {
	Date             string         `json:"date"`
	TotalJobs        int            `json:"total_jobs"`
	StatusCounts     map[string]int `json:"status_counts"`
	EstimatedRevenue float64        `json:"estimated_revenue"`
}

// CalendarView is the full aggregation result.
type CalendarView struct {
	Events         []CalendarEvent                   `json:"events"`
	Resources      []*models.Employee                `json:"resources"`
	ByDay          map[string][]CalendarEvent        `json:"by_day"`
	ByResource     map[string][]CalendarEvent        `json:"by_resource"`
	DailyStats     []DayStats                        `json:"daily_stats"`
	TimeOffByDate  map[string][]PartySummary         `json:"time_off_by_date"`
	HolidaysByDate map[string][]models.PublicHoliday `json:"holidays_by_date"`
}

// GetCalendar builds the calendar view for a date range, optionally filtered
// to one employee. A holiday feed failure degrades to an empty holiday map
// and never fails the aggregation.
func (s *CalendarService) GetCalendar(ctx context.Context, p CalendarParams) (*CalendarView, error) {
	if p.From.IsZero() || p.To.IsZero() {
		return nil, fmt.Errorf("%w: range start and end are required", ErrValidation)
	}
	if p.To.Before(p.From) {
		return nil, fmt.Errorf("%w: range end precedes range start", ErrValidation)
	}

	jobs, err := s.store.ListJobsInRange(ctx, store.CalendarJobFilter{
		TenantID:   p.TenantID,
		From:       p.From,
		To:         p.To,
		AssigneeID: p.ResourceID,
	})
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	employees, err := s.store.ListEmployees(ctx, p.TenantID)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	employeesByID := make(map[uuid.UUID]*models.Employee, len(employees))
	for _, e := range employees {
		employeesByID[e.ID] = e
	}

	customers, err := s.store.GetCustomersByIDs(ctx, p.TenantID, customerIDs(jobs))
	if err != nil {
		return nil, fmt.Errorf("resolving customers: %w", err)
	}

	view := &CalendarView{
		Events:         make([]CalendarEvent, 0, len(jobs)),
		Resources:      employees,
		ByDay:          make(map[string][]CalendarEvent),
		ByResource:     make(map[string][]CalendarEvent),
		TimeOffByDate:  make(map[string][]PartySummary),
		HolidaysByDate: make(map[string][]models.PublicHoliday),
	}

	stats := make(map[string]*DayStats)
	for _, job := range jobs {
		ev := s.buildEvent(job, customers, employeesByID)
		view.Events = append(view.Events, ev)

		day := ev.Start.Format(dayKeyFormat)
		view.ByDay[day] = append(view.ByDay[day], ev)

		resource := ""
		if ev.Assignee != nil {
			resource = ev.Assignee.ID.String()
		}
		view.ByResource[resource] = append(view.ByResource[resource], ev)

		st, ok := stats[day]
		if !ok {
			st = &DayStats{Date: day, StatusCounts: make(map[string]int)}
			stats[day] = st
		}
		st.TotalJobs++
		st.StatusCounts[ev.Status]++
		st.EstimatedRevenue += ev.Price
	}
	view.DailyStats = sortedStats(stats)

	if err := s.addTimeOff(ctx, p, employeesByID, view); err != nil {
		return nil, err
	}
	s.addHolidays(ctx, p, view)

	return view, nil
}

// buildEvent resolves one job into a renderable event with denormalized
// customer and assignee summaries.
func (s *CalendarService) buildEvent(job *models.JobCore, customers map[uuid.UUID]*models.Customer, employees map[uuid.UUID]*models.Employee) CalendarEvent {
	end := resolveEnd(job)

	ev := CalendarEvent{
		JobID:    job.ID,
		Title:    job.Title,
		Start:    job.ScheduledStart,
		End:      end,
		Status:   job.Status,
		Color:    statusColor(job.Status),
		Location: job.Location,
		Price:    job.Price,
	}
	if c, ok := customers[job.CustomerID]; ok {
		ev.Customer = &PartySummary{ID: c.ID, Name: c.Name}
	}
	if job.AssigneeID != nil {
		if e, ok := employees[*job.AssigneeID]; ok {
			ev.Assignee = &PartySummary{ID: e.ID, Name: e.Name}
		}
	}
	return ev
}

// addTimeOff fills the day-keyed map of employees on approved time off,
// clipping each interval to the query range and listing an employee at most
// once per day even when requests overlap.
func (s *CalendarService) addTimeOff(ctx context.Context, p CalendarParams, employees map[uuid.UUID]*models.Employee, view *CalendarView) error {
	requests, err := s.store.ListApprovedTimeOff(ctx, p.TenantID, p.From, p.To)
	if err != nil {
		return fmt.Errorf("listing time off: %w", err)
	}

	seen := make(map[string]map[uuid.UUID]bool)
	for _, r := range requests {
		from := dateOnly(latest(r.StartDate, p.From))
		to := dateOnly(earliest(r.EndDate, p.To))
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			day := d.Format(dayKeyFormat)
			if seen[day] == nil {
				seen[day] = make(map[uuid.UUID]bool)
			}
			if seen[day][r.EmployeeID] {
				continue
			}
			seen[day][r.EmployeeID] = true

			summary := PartySummary{ID: r.EmployeeID}
			if e, ok := employees[r.EmployeeID]; ok {
				summary.Name = e.Name
			}
			view.TimeOffByDate[day] = append(view.TimeOffByDate[day], summary)
		}
	}
	return nil
}

// addHolidays fills the day-keyed holiday map from the cached feed. Feed
// failure is logged and yields an empty map.
func (s *CalendarService) addHolidays(ctx context.Context, p CalendarParams, view *CalendarView) {
	for year := p.From.Year(); year <= p.To.Year(); year++ {
		holidays, err := s.holidays.Holidays(ctx, year)
		if err != nil {
			slog.Warn("holiday feed unavailable, calendar rendered without holidays",
				"year", year, "error", err)
			continue
		}
		for _, h := range holidays {
			if h.Date.Before(dateOnly(p.From)) || h.Date.After(dateOnly(p.To)) {
				continue
			}
			day := h.Date.Format(dayKeyFormat)
			view.HolidaysByDate[day] = append(view.HolidaysByDate[day], h)
		}
	}
}

// resolveEnd returns the event's end: the explicit end when present, the
// job's duration when set, else the default window.
func resolveEnd(job *models.JobCore) time.Time {
	if job.ScheduledEnd != nil {
		return *job.ScheduledEnd
	}
	if job.DurationMinutes > 0 {
		return job.ScheduledStart.Add(time.Duration(job.DurationMinutes) * time.Minute)
	}
	return job.ScheduledStart.Add(defaultEventWindow)
}

func statusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return statusColors[models.JobStatusPending]
}

func customerIDs(jobs []*models.JobCore) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(jobs))
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		if !seen[j.CustomerID] {
			seen[j.CustomerID] = true
			ids = append(ids, j.CustomerID)
		}
	}
	return ids
}

func sortedStats(stats map[string]*DayStats) []DayStats {
	out := make([]DayStats, 0, len(stats))
	for _, st := range stats {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
