package handler

import (
	"errors"
	"net/http"

	"healthcare-plus-api/internal/usecase"
	"healthcare-plus-api/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
	}
}

// GetFreeSlots returns the open slots for a doctor on a date. The optional
// "exclude" query parameter names an appointment whose slot should be shown
// as free, used by the edit form so the current slot stays selectable.
func (h *AvailabilityHandler) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "Query parameter 'date' is required", nil)
		return
	}

	excludeID := uuid.Nil
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		excludeID, err = uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid exclude appointment ID", nil)
			return
		}
	}

	slots, err := h.availabilityUsecase.GetFreeSlots(r.Context(), doctorID, date, excludeID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrInvalidDate):
			response.Error(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format", nil)
		default:
			response.InternalServerError(w, "Failed to resolve free slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Free slots retrieved successfully", slots)
}
