package repository

import (
	"healthcare-plus-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByName(db *gorm.DB, name string) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	FindByDepartment(db *gorm.DB, department string) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error

	// ReplaceWindows swaps the doctor's availability windows for the given
	// set. Windows are exclusively owned by the doctor.
	ReplaceWindows(db *gorm.DB, doctorID uuid.UUID, windows []entity.AvailabilityWindow) error

	// Delete removes the doctor and its windows. Appointments are untouched:
	// they reference the doctor by name and remain valid history.
	Delete(db *gorm.DB, id uuid.UUID) error
}
