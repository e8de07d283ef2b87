package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/priyankverma/cleansched/internal/store"
	"github.com/priyankverma/cleansched/pkg/models"
)

// SeriesStore is the slice of the store the series service needs.
type SeriesStore interface {
	GetJobTemplate(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.JobTemplate, error)
	CreateJobOccurrence(ctx context.Context, occ *models.JobOccurrence) error
	CloneChecklistPlan(ctx context.Context, planID uuid.UUID, tenantID uuid.UUID) (uuid.UUID, error)
	SetTemplateRecurrence(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, pattern string, endDate time.Time) error
	CreateAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}

// SeriesService expands a recurrence template into dated occurrence jobs.
type SeriesService struct {
	store SeriesStore
}

// NewSeriesService creates a new SeriesService.
func NewSeriesService(st SeriesStore) *SeriesService {
	return &SeriesService{store: st}
}

// CreateSeriesParams holds validated parameters for a series creation.
type CreateSeriesParams struct {
	TenantID       uuid.UUID
	TemplateID     uuid.UUID
	Pattern        string
	StartDate      *time.Time
	EndDate        *time.Time
	DaysOfWeek     []time.Weekday
	MaxOccurrences int
	Actor          string
}

// CreateSeriesResult is the output of a series creation.
type CreateSeriesResult struct {
	Pattern     string
	RangeStart  time.Time
	RangeEnd    time.Time
	Occurrences []*models.JobOccurrence
}

// CreateSeries expands the template's recurrence into occurrence jobs, one
// per candidate date, then persists the chosen pattern and end date back
// onto the template so it is queryable as recurring. A checklist clone
// failure is logged and never aborts the occurrence or the series.
func (s *SeriesService) CreateSeries(ctx context.Context, p CreateSeriesParams) (*CreateSeriesResult, error) {
	tmpl, err := s.store.GetJobTemplate(ctx, p.TemplateID, p.TenantID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, p.TemplateID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	dates, err := ExpandRecurrence(ExpandParams{
		Pattern:        p.Pattern,
		TemplateStart:  tmpl.ScheduledStart,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		DaysOfWeek:     p.DaysOfWeek,
		MaxOccurrences: p.MaxOccurrences,
	})
	if err != nil {
		return nil, err
	}

	rangeStart := dateOnly(tmpl.ScheduledStart)
	if p.StartDate != nil {
		rangeStart = dateOnly(*p.StartDate)
	}
	rangeEnd := rangeStart.AddDate(0, DefaultHorizonMonths, 0)
	if p.EndDate != nil {
		rangeEnd = dateOnly(*p.EndDate)
	}

	occurrences := make([]*models.JobOccurrence, 0, len(dates))
	for _, date := range dates {
		occ := s.materialize(ctx, tmpl, date)
		if err := s.store.CreateJobOccurrence(ctx, occ); err != nil {
			return nil, fmt.Errorf("creating occurrence for %s: %w", date.Format("2006-01-02"), err)
		}
		occurrences = append(occurrences, occ)
	}

	if err := s.store.SetTemplateRecurrence(ctx, tmpl.ID, p.TenantID, p.Pattern, rangeEnd); err != nil {
		return nil, fmt.Errorf("persisting template recurrence: %w", err)
	}

	entry := &models.AuditEntry{
		ID:          uuid.New(),
		TenantID:    p.TenantID,
		EventType:   models.AuditEventSeriesCreated,
		EntityType:  "job",
		EntityID:    tmpl.ID,
		Description: fmt.Sprintf("created %d %s occurrences", len(occurrences), p.Pattern),
		Metadata: map[string]any{
			"pattern":          p.Pattern,
			"range_start":      rangeStart.Format("2006-01-02"),
			"range_end":        rangeEnd.Format("2006-01-02"),
			"occurrence_count": len(occurrences),
		},
		Actor:     p.Actor,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateAuditEntry(ctx, entry); err != nil {
		// Occurrences are already persisted; the series stands regardless.
		slog.Error("audit write failed for series creation", "template_id", tmpl.ID, "error", err)
	}

	return &CreateSeriesResult{
		Pattern:     p.Pattern,
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
		Occurrences: occurrences,
	}, nil
}

// materialize builds one occurrence from the template: all core fields
// copied, status forced to scheduled, end time preserving the template's
// start-to-end offset, checklist plan cloned when the template has one.
func (s *SeriesService) materialize(ctx context.Context, tmpl *models.JobTemplate, start time.Time) *models.JobOccurrence {
	now := time.Now().UTC()

	occ := &models.JobOccurrence{
		JobCore:    tmpl.JobCore,
		TemplateID: tmpl.ID,
	}
	occ.ID = uuid.New()
	occ.Status = models.JobStatusScheduled
	occ.ScheduledStart = start
	occ.ScheduledEnd = nil
	if tmpl.ScheduledEnd != nil {
		end := start.Add(tmpl.ScheduledEnd.Sub(tmpl.ScheduledStart))
		occ.ScheduledEnd = &end
	}
	occ.ChecklistPlanID = nil
	occ.CreatedAt = now
	occ.UpdatedAt = now

	if tmpl.ChecklistPlanID != nil {
		planID, err := s.store.CloneChecklistPlan(ctx, *tmpl.ChecklistPlanID, tmpl.TenantID)
		if err != nil {
			slog.Warn("checklist clone failed, occurrence created without plan",
				"template_id", tmpl.ID,
				"plan_id", *tmpl.ChecklistPlanID,
				"occurrence_start", start,
				"error", err,
			)
		} else {
			occ.ChecklistPlanID = &planID
		}
	}
	return occ
}
