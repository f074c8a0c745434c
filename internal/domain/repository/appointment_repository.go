package repository

import (
	"healthcare-plus-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	FindByDoctorAndDate(db *gorm.DB, doctorName, date string) ([]entity.Appointment, error)
	FindByPatient(db *gorm.DB, patientID uuid.UUID, contact string) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error

	// Cancel marks the appointment cancelled only if it is not already
	// cancelled. Returns affected rows: 1 = transitioned, 0 = was already
	// cancelled, making a repeated cancel a no-op.
	Cancel(db *gorm.DB, id uuid.UUID) (int64, error)

	// Delete permanently removes the row (hard delete, loses history and
	// frees the slot).
	Delete(db *gorm.DB, id uuid.UUID) error

	// ActiveSlotExists reports whether a non-cancelled appointment holds the
	// (doctorName, date, time) triple, ignoring excludeID (uuid.Nil excludes
	// nothing). Runs against current persisted state.
	ActiveSlotExists(db *gorm.DB, doctorName, date, timeOfDay string, excludeID uuid.UUID) (bool, error)

	// CountByStatus and CountByDepartment feed the admin dashboard.
	CountByStatus(db *gorm.DB) (map[entity.AppointmentStatus]int64, error)
	CountByDepartment(db *gorm.DB) (map[string]int64, error)
}
