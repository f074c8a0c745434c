package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type WindowRequest struct {
	StartTime string `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // Format: HH:MM
}

type CreateDoctorRequest struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Department string          `json:"department" validate:"required,max=100"`
	Fee        string          `json:"fee" validate:"omitempty,max=20"`
	Windows    []WindowRequest `json:"windows" validate:"omitempty,dive"`
}

type UpdateDoctorRequest struct {
	Name       string           `json:"name" validate:"omitempty,max=255"`
	Department string           `json:"department" validate:"omitempty,max=100"`
	Fee        string           `json:"fee" validate:"omitempty,max=20"`
	Windows    *[]WindowRequest `json:"windows" validate:"omitempty,dive"`
}

// Response DTOs

type WindowResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type DoctorResponse struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Department string           `json:"department"`
	Fee        string           `json:"fee,omitempty"`
	Windows    []WindowResponse `json:"windows"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
