package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/schedule"
)

// CalendarProvider defines the interface the handler depends on.
type CalendarProvider interface {
	GetCalendar(ctx context.Context, p schedule.CalendarParams) (*schedule.CalendarView, error)
}

// NewCalendarHandler returns an http.HandlerFunc for GET /api/v1/schedule/calendar.
func NewCalendarHandler(svc CalendarProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		q := r.URL.Query()

		startRaw := q.Get("start")
		if startRaw == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "start is required", nil)
			return
		}
		start, err := parseDate(startRaw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"start must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
			return
		}

		endRaw := q.Get("end")
		if endRaw == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "end is required", nil)
			return
		}
		end, err := parseDate(endRaw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"end must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
			return
		}

		params := schedule.CalendarParams{
			TenantID: tenantID,
			From:     start,
			To:       end,
		}

		if raw := q.Get("resource_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"resource_id must be a valid UUID", nil)
				return
			}
			params.ResourceID = &id
		}

		view, err := svc.GetCalendar(r.Context(), params)
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		response.JSON(w, view)
	}
}
