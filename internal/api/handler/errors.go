package handler

import (
	"errors"
	"net/http"

	"github.com/priyankverma/cleansched/internal/api/response"
	"github.com/priyankverma/cleansched/internal/schedule"
)

// writeScheduleError maps the scheduling core's sentinel errors onto the
// API error contract. Anything unrecognized is a 500 with no detail leaked.
func writeScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrValidation):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, schedule.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, schedule.ErrConflict):
		response.Error(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
