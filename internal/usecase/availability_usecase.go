package usecase

import (
	"context"
	"errors"
	"time"

	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/repository"
	"healthcare-plus-api/internal/scheduling"

	"healthcare-plus-api/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

type AvailabilityUsecase interface {
	// GetFreeSlots resolves the bookable slots for the doctor on the date:
	// window expansion at the booking granularity minus slots held by
	// non-cancelled appointments. excludeID omits one appointment from the
	// occupied set so a patient editing that appointment sees its current
	// slot as available (uuid.Nil excludes nothing).
	GetFreeSlots(ctx context.Context, doctorID uuid.UUID, date string, excludeID uuid.UUID) (*dto.FreeSlotsResponse, error)
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	scheduling      config.SchedulingConfig
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	schedulingCfg config.SchedulingConfig,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		scheduling:      schedulingCfg,
	}
}

func (u *availabilityUsecase) GetFreeSlots(ctx context.Context, doctorID uuid.UUID, date string, excludeID uuid.UUID) (*dto.FreeSlotsResponse, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	windows, err := scheduling.WindowsFromEntity(doctor.Windows)
	if err != nil {
		u.log.Warnf("Doctor %s has malformed availability windows: %+v", doctor.Name, err)
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByDoctorAndDate(u.db.WithContext(ctx), doctor.Name, date)
	if err != nil {
		u.log.Warnf("Failed to list appointments for doctor %s on %s: %+v", doctor.Name, date, err)
		return nil, err
	}

	slots, err := scheduling.FreeSlots(windows, u.scheduling.BookingGranularityMinutes, appointments, doctor.Name, date, excludeID)
	if err != nil {
		return nil, err
	}

	return &dto.FreeSlotsResponse{
		DoctorID:           doctor.ID,
		DoctorName:         doctor.Name,
		Date:               date,
		GranularityMinutes: u.scheduling.BookingGranularityMinutes,
		Slots:              slots,
	}, nil
}
