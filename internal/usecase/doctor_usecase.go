package usecase

import (
	"context"
	"errors"
	"fmt"

	"healthcare-plus-api/internal/converter"
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/internal/domain/repository"
	"healthcare-plus-api/internal/scheduling"
	"healthcare-plus-api/internal/service"

	"healthcare-plus-api/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrDoctorNameTaken = errors.New("a doctor with this name already exists")
)

type DoctorUsecase interface {
	Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	GetAll(ctx context.Context, department string) (*dto.DoctorListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type doctorUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	doctorRepo repository.DoctorRepository
	audit      service.AuditService
	scheduling config.SchedulingConfig
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	audit service.AuditService,
	schedulingCfg config.SchedulingConfig,
) DoctorUsecase {
	return &doctorUsecase{
		db:         db,
		log:        log,
		doctorRepo: doctorRepo,
		audit:      audit,
		scheduling: schedulingCfg,
	}
}

func (u *doctorUsecase) Create(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	windows, err := u.windowsFromRequests(req.Windows)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		Name:       req.Name,
		Department: req.Department,
		Fee:        req.Fee,
		Windows:    windows,
	}

	if err := u.doctorRepo.Create(u.db.WithContext(ctx), doctor); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDoctorNameTaken
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionDoctorCreate, entity.JSON{
		"doctor_id":   doctor.ID.String(),
		"doctor_name": doctor.Name,
	})

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAll(ctx context.Context, department string) (*dto.DoctorListResponse, error) {
	var (
		doctors []entity.Doctor
		err     error
	)
	if department != "" {
		doctors, err = u.doctorRepo.FindByDepartment(u.db.WithContext(ctx), department)
	} else {
		doctors, err = u.doctorRepo.FindAll(u.db.WithContext(ctx))
	}
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Department != "" {
		doctor.Department = req.Department
	}
	if req.Fee != "" {
		doctor.Fee = req.Fee
	}

	if err := u.doctorRepo.Update(u.db.WithContext(ctx), doctor); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDoctorNameTaken
		}
		u.log.Warnf("Failed to update doctor %s: %+v", id, err)
		return nil, err
	}

	// Windows are replaced as a set, never merged. A request without the
	// windows field leaves the current set untouched; an empty list clears it.
	if req.Windows != nil {
		windows, err := u.windowsFromRequests(*req.Windows)
		if err != nil {
			return nil, err
		}
		if err := u.doctorRepo.ReplaceWindows(u.db.WithContext(ctx), doctor.ID, windows); err != nil {
			u.log.Warnf("Failed to replace windows for doctor %s: %+v", id, err)
			return nil, err
		}
		doctor.Windows = windows
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionDoctorUpdate, entity.JSON{
		"doctor_id":   doctor.ID.String(),
		"doctor_name": doctor.Name,
	})

	return converter.DoctorToResponse(doctor), nil
}

// Delete removes the doctor and its availability windows. Existing
// appointments keep their denormalized doctor name and stay queryable as
// history; no new bookings can target the removed doctor.
func (u *doctorUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.doctorRepo.Delete(u.db.WithContext(ctx), id); err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", id, err)
		return err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionDoctorDelete, entity.JSON{
		"doctor_id":   doctor.ID.String(),
		"doctor_name": doctor.Name,
	})

	return nil
}

// windowsFromRequests validates window definitions: parseable bounds, start
// strictly before end, and both boundaries aligned to the window granularity.
func (u *doctorUsecase) windowsFromRequests(reqs []dto.WindowRequest) ([]entity.AvailabilityWindow, error) {
	windows := make([]entity.AvailabilityWindow, 0, len(reqs))
	for _, r := range reqs {
		if _, err := scheduling.NewWindow(r.StartTime, r.EndTime); err != nil {
			return nil, fmt.Errorf("window %s-%s: %w", r.StartTime, r.EndTime, err)
		}
		for _, boundary := range []string{r.StartTime, r.EndTime} {
			aligned, err := scheduling.AlignedToGranularity(boundary, u.scheduling.WindowGranularityMinutes)
			if err != nil {
				return nil, err
			}
			if !aligned {
				return nil, fmt.Errorf("window boundary %s: %w", boundary, scheduling.ErrInvalidWindow)
			}
		}
		windows = append(windows, entity.AvailabilityWindow{
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
	}
	return windows, nil
}
