package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/priyankverma/cleansched/internal/api/middleware"
	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/notify"
	"github.com/priyankverma/cleansched/internal/schedule"
)

// SwapResolver defines the interface the handler depends on.
type SwapResolver interface {
	Resolve(ctx context.Context, p schedule.ResolveSwapParams) (*schedule.ResolveSwapResult, error)
}

// NewResolveSwapHandler returns an http.HandlerFunc for
// POST /api/v1/schedule/swaps/{swapID}/resolve. Notification intents from an
// applied decision are handed to the dispatcher after the response state is
// settled; their delivery never changes the outcome.
func NewResolveSwapHandler(svc SwapResolver, dispatcher *notify.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := mw.GetTenantID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
			return
		}

		swapID, err := uuid.Parse(chi.URLParam(r, "swapID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "swapID must be a valid UUID", nil)
			return
		}

		var req struct {
			Decision string `json:"decision"`
			Actor    string `json:"actor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		result, err := svc.Resolve(r.Context(), schedule.ResolveSwapParams{
			TenantID: tenantID,
			SwapID:   swapID,
			Decision: req.Decision,
			Actor:    req.Actor,
		})
		if err != nil {
			writeScheduleError(w, err)
			return
		}

		if dispatcher != nil {
			dispatcher.Dispatch(r.Context(), result.Notifications)
		}

		response.JSON(w, resolveSwapResponse{
			SwapID: swapID,
			Status: result.Status,
		})
	}
}

type resolveSwapResponse struct {
	SwapID uuid.UUID `json:"swap_id"`
	Status string    `json:"status"`
}
