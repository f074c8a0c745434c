package dto

import "github.com/google/uuid"

// Response DTOs

// FreeSlotsResponse lists the bookable slot start times for one doctor on one
// date, at the patient-facing booking granularity.
type FreeSlotsResponse struct {
	DoctorID           uuid.UUID `json:"doctor_id"`
	DoctorName         string    `json:"doctor_name"`
	Date               string    `json:"date"`
	GranularityMinutes int       `json:"granularity_minutes"`
	Slots              []string  `json:"slots"`
}
