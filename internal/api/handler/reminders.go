package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/billing"
)

// ReminderRunner defines the interface the handler depends on.
type ReminderRunner interface {
	Run(ctx context.Context, p billing.RunParams) (*billing.RunResult, error)
}

// NewRunRemindersHandler returns an http.HandlerFunc for
// POST /api/v1/billing/reminders/run.
func NewRunRemindersHandler(svc ReminderRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			WindowStart string `json:"window_start"`
			WindowEnd   string `json:"window_end"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.WindowStart == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "window_start is required", nil)
			return
		}
		start, err := parseDate(req.WindowStart)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"window_start must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
			return
		}

		if req.WindowEnd == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "window_end is required", nil)
			return
		}
		end, err := parseDate(req.WindowEnd)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"window_end must be an RFC3339 timestamp or YYYY-MM-DD date", nil)
			return
		}

		// A bare YYYY-MM-DD end parses to midnight; stretch it so the whole
		// day counts as inside the window.
		if end.Equal(end.Truncate(24 * time.Hour)) {
			end = end.Add(24*time.Hour - time.Second)
		}

		result, err := svc.Run(r.Context(), billing.RunParams{
			TenantID:    tenantID,
			WindowStart: start,
			WindowEnd:   end,
		})
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		response.JSON(w, result)
	}
}
