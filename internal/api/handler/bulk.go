package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/schedule"
)

// BulkApplier defines the interface the handler depends on.
type BulkApplier interface {
	Apply(ctx context.Context, p schedule.BulkParams) (*schedule.BulkResult, error)
}

// NewBulkHandler returns an http.HandlerFunc for POST /api/v1/schedule/bulk.
func NewBulkHandler(svc BulkApplier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		var req struct {
			Action  string   `json:"action"`
			JobIDs  []string `json:"job_ids"`
			Changes struct {
				ScheduledStart string `json:"scheduled_start"`
				ScheduledEnd   string `json:"scheduled_end"`
				AssigneeID     string `json:"assignee_id"`
				Status         string `json:"status"`
			} `json:"changes"`
			Actor string `json:"actor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		jobIDs := make([]uuid.UUID, 0, len(req.JobIDs))
		for _, raw := range req.JobIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"job_ids entries must be valid UUIDs", nil)
				return
			}
			jobIDs = append(jobIDs, id)
		}

		params := schedule.BulkParams{
			TenantID: tenantID,
			Action:   req.Action,
			JobIDs:   jobIDs,
			Actor:    req.Actor,
		}

		if req.Changes.ScheduledStart != "" {
			t, err := time.Parse(time.RFC3339, req.Changes.ScheduledStart)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"changes.scheduled_start must be a valid RFC3339 timestamp", nil)
				return
			}
			params.Changes.ScheduledStart = &t
		}
		if req.Changes.ScheduledEnd != "" {
			t, err := time.Parse(time.RFC3339, req.Changes.ScheduledEnd)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"changes.scheduled_end must be a valid RFC3339 timestamp", nil)
				return
			}
			params.Changes.ScheduledEnd = &t
		}
		if req.Changes.AssigneeID != "" {
			id, err := uuid.Parse(req.Changes.AssigneeID)
			if err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"changes.assignee_id must be a valid UUID", nil)
				return
			}
			params.Changes.AssigneeID = &id
		}
		if req.Changes.Status != "" {
			status := req.Changes.Status
			params.Changes.Status = &status
		}

		result, err := svc.Apply(r.Context(), params)
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		response.JSON(w, result)
	}
}
