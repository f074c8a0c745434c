package repository

import (
	"context"

	"healthcare-plus-api/internal/domain/repository"
	"healthcare-plus-api/internal/scheduling"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormConflictChecker answers slot-held queries for the booking guard against
// the live appointments table.
type GormConflictChecker struct {
	db              *gorm.DB
	appointmentRepo repository.AppointmentRepository
}

func NewGormConflictChecker(db *gorm.DB, appointmentRepo repository.AppointmentRepository) *GormConflictChecker {
	return &GormConflictChecker{
		db:              db,
		appointmentRepo: appointmentRepo,
	}
}

var _ scheduling.ConflictChecker = (*GormConflictChecker)(nil)

func (c *GormConflictChecker) ActiveAppointmentExists(ctx context.Context, key scheduling.SlotKey, excludeID uuid.UUID) (bool, error) {
	return c.appointmentRepo.ActiveSlotExists(c.db.WithContext(ctx), key.DoctorName, key.Date, key.Time, excludeID)
}
