package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/schedule"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// SeriesCreator defines the interface the handler depends on.
type SeriesCreator interface {
	CreateSeries(ctx context.Context, p schedule.CreateSeriesParams) (*schedule.CreateSeriesResult, error)
}

// NewCreateSeriesHandler returns an http.HandlerFunc for POST /api/v1/schedule/series.
func NewCreateSeriesHandler(svc SeriesCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			TemplateID     string   `json:"template_id"`
			Pattern        string   `json:"pattern"`
			StartDate      string   `json:"start_date"`
			EndDate        string   `json:"end_date"`
			DaysOfWeek     []string `json:"days_of_week"`
			MaxOccurrences int      `json:"max_occurrences"`
			Actor          string   `json:"actor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		templateID, err := uuid.Parse(req.TemplateID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "template_id must be a valid UUID", nil)
			return
		}

		if req.Pattern == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "pattern is required", nil)
			return
		}

		params := schedule.CreateSeriesParams{
			TenantID:       tenantID,
			TemplateID:     templateID,
			Pattern:        req.Pattern,
			MaxOccurrences: req.MaxOccurrences,
			Actor:          req.Actor,
		}

		if req.StartDate != "" {
			t, err := parseDate(req.StartDate)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"start_date must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
				return
			}
			params.StartDate = &t
		}
		if req.EndDate != "" {
			t, err := parseDate(req.EndDate)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"end_date must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
				return
			}
			params.EndDate = &t
		}

		for _, name := range req.DaysOfWeek {
			day, ok := weekdayNames[strings.ToLower(name)]
			if !ok {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"days_of_week entries must be weekday names", nil)
				return
			}
			params.DaysOfWeek = append(params.DaysOfWeek, day)
		}

		result, err := svc.CreateSeries(r.Context(), params)
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		occurrences := make([]occurrenceSummary, 0, len(result.Occurrences))
		for _, occ := range result.Occurrences {
			occurrences = append(occurrences, occurrenceSummary{
				ID:             occ.ID,
				ScheduledStart: occ.ScheduledStart.UTC().Format(time.RFC3339),
			})
		}

		response.Created(w, createSeriesResponse{
			Pattern:    result.Pattern,
			RangeStart: result.RangeStart.UTC().Format(time.RFC3339),
			RangeEnd:   result.RangeEnd.UTC().Format(time.RFC3339),
			Count:      len(occurrences),
			Jobs:       occurrences,
		})
	}
}

type createSeriesResponse struct {
	Pattern    string              `json:"pattern"`
	RangeStart string              `json:"range_start"`
	RangeEnd   string              `json:"range_end"`
	Count      int                 `json:"count"`
	Jobs       []occurrenceSummary `json:"jobs"`
}

type occurrenceSummary struct {
	ID             uuid.UUID `json:"id"`
	ScheduledStart string    `json:"scheduled_start"`
}

// parseDate accepts either a full RFC3339 timestamp or a bare date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
