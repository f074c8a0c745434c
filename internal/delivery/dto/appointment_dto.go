package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientName    string `json:"patient_name" validate:"required,max=255"`
	PatientContact string `json:"patient_contact" validate:"required,len=10,numeric"`
	PatientAddress string `json:"patient_address" validate:"required,max=500"`
	PatientEmail   string `json:"patient_email" validate:"omitempty,email"`
	Symptoms       string `json:"symptoms" validate:"required,max=1000"`
	Department     string `json:"department" validate:"required,max=100"`
	DoctorName     string `json:"doctor_name" validate:"required,max=255"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
}

// UpdateAppointmentRequest carries a partial edit. Changing any of doctor,
// date or time re-triggers the conflict check against the new triple.
type UpdateAppointmentRequest struct {
	PatientName    string `json:"patient_name" validate:"omitempty,max=255"`
	PatientContact string `json:"patient_contact" validate:"omitempty,len=10,numeric"`
	PatientAddress string `json:"patient_address" validate:"omitempty,max=500"`
	PatientEmail   string `json:"patient_email" validate:"omitempty,email"`
	Symptoms       string `json:"symptoms" validate:"omitempty,max=1000"`
	Department     string `json:"department" validate:"omitempty,max=100"`
	DoctorName     string `json:"doctor_name" validate:"omitempty,max=255"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time           string `json:"time" validate:"omitempty,datetime=15:04"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled"`
}

type CancelAppointmentRequest struct {
	PatientEmail string `json:"patient_email" validate:"omitempty,email"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      *uuid.UUID `json:"patient_id,omitempty"`
	PatientName    string     `json:"patient_name"`
	PatientContact string     `json:"patient_contact"`
	PatientAddress string     `json:"patient_address"`
	Symptoms       string     `json:"symptoms"`
	Department     string     `json:"department"`
	DoctorName     string     `json:"doctor_name"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type StatsResponse struct {
	TotalAppointments int64            `json:"total_appointments"`
	ByStatus          map[string]int64 `json:"by_status"`
	ByDepartment      map[string]int64 `json:"by_department"`
}
