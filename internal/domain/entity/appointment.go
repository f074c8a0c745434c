package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents one scheduled consultation. The doctor is referenced
// by name, not by foreign key: deleting a doctor must keep historical
// appointments intact. PatientID is the stable owner reference; older records
// predate patient accounts and are matched by contact string instead.
//
// At most one non-cancelled appointment may exist per (doctor_name, date,
// time). A partial unique index enforces this in the database; cancelled rows
// are kept and do not count against it.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      *uuid.UUID        `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	PatientName    string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientContact string            `gorm:"type:varchar(20);not null;index" json:"patient_contact"`
	PatientAddress string            `gorm:"type:text;not null" json:"patient_address"`
	Symptoms       string            `gorm:"type:text;not null" json:"symptoms"`
	Department     string            `gorm:"type:varchar(100);not null" json:"department"`
	DoctorName     string            `gorm:"type:varchar(255);not null;index:idx_appointments_slot" json:"doctor_name"`
	Date           string            `gorm:"type:varchar(10);not null;index:idx_appointments_slot" json:"date"` // YYYY-MM-DD
	Time           string            `gorm:"type:varchar(5);not null;index:idx_appointments_slot" json:"time"`  // HH:MM
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsTerminal reports whether no further status transition is allowed.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCompleted || a.Status == AppointmentStatusCancelled
}

// CanTransitionTo reports whether moving to the target status is a legal
// transition. scheduled -> {confirmed, completed, cancelled},
// confirmed -> {completed, cancelled}; completed and cancelled are terminal.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	switch a.Status {
	case AppointmentStatusScheduled:
		return target == AppointmentStatusConfirmed ||
			target == AppointmentStatusCompleted ||
			target == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return target == AppointmentStatusCompleted ||
			target == AppointmentStatusCancelled
	default:
		return false
	}
}

// OwnedBy reports whether the appointment belongs to the given patient.
// PatientID is authoritative; records created before patient accounts existed
// fall back to contact equality.
func (a *Appointment) OwnedBy(patientID uuid.UUID, contact string) bool {
	if a.PatientID != nil {
		return *a.PatientID == patientID
	}
	return contact != "" && a.PatientContact == contact
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}
