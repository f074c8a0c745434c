package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/delivery/http/middleware"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/internal/scheduling"
	"healthcare-plus-api/internal/usecase"
	"healthcare-plus-api/pkg/response"
	"healthcare-plus-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	// Link the booking to the patient account when one is logged in.
	var actorID *uuid.UUID
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok && id != uuid.Nil {
		actorID = &id
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrDoctorNotFound):
			response.NotFound(w, "Doctor not found")
		case errors.Is(err, usecase.ErrPastDate):
			response.Error(w, http.StatusBadRequest, "Appointment date cannot be in the past", nil)
		case errors.Is(err, usecase.ErrSlotUnavailable):
			response.Error(w, http.StatusBadRequest, "Requested time is outside the doctor's availability", nil)
		case errors.Is(err, usecase.ErrSlotConflict):
			response.Conflict(w, "This slot is already booked, please choose another time")
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	appointment, err := h.appointmentUsecase.GetByID(r.Context(), id, actorID, isAdmin(r))
	if err != nil {
		h.writeAppointmentError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid session")
		return
	}

	appointments, err := h.appointmentUsecase.GetMine(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := entity.AppointmentFilter{
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		DoctorName: query.Get("doctor_name"),
		Department: query.Get("department"),
		Status:     entity.AppointmentStatus(query.Get("status")),
	}

	appointments, err := h.appointmentUsecase.GetAll(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	appointment, err := h.appointmentUsecase.Update(r.Context(), id, actorID, isAdmin(r), &req)
	if err != nil {
		h.writeAppointmentError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	// Body is optional: an email may be supplied for the cancellation notice.
	var req dto.CancelAppointmentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.appointmentUsecase.Cancel(r.Context(), id, actorID, isAdmin(r), &req); err != nil {
		h.writeAppointmentError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.writeAppointmentError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	if err := h.appointmentUsecase.Delete(r.Context(), id); err != nil {
		h.writeAppointmentError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

func (h *AppointmentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.appointmentUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointment statistics")
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *AppointmentHandler) writeAppointmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrAppointmentNotOwned):
		response.Forbidden(w, "Appointment does not belong to you")
	case errors.Is(err, usecase.ErrAppointmentCancelled):
		response.Error(w, http.StatusConflict, "Appointment is cancelled and cannot be modified", nil)
	case errors.Is(err, usecase.ErrDoctorNotFound):
		response.NotFound(w, "Doctor not found")
	case errors.Is(err, usecase.ErrPastDate):
		response.Error(w, http.StatusBadRequest, "Appointment date cannot be in the past", nil)
	case errors.Is(err, usecase.ErrSlotUnavailable):
		response.Error(w, http.StatusBadRequest, "Requested time is outside the doctor's availability", nil)
	case errors.Is(err, usecase.ErrSlotConflict):
		response.Conflict(w, "This slot is already booked, please choose another time")
	case errors.Is(err, usecase.ErrInvalidTransition):
		response.Error(w, http.StatusConflict, "Invalid status transition", nil)
	case errors.Is(err, scheduling.ErrInvalidWindow), errors.Is(err, scheduling.ErrInvalidClock):
		response.Error(w, http.StatusBadRequest, "Invalid time value", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func isAdmin(r *http.Request) bool {
	role, _ := middleware.GetRoleFromContext(r.Context())
	return role == entity.RoleAdmin
}
