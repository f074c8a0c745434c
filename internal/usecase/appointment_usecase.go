package usecase

import (
	"context"
	"errors"
	"slices"
	"time"

	"healthcare-plus-api/internal/converter"
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/internal/domain/repository"
	"healthcare-plus-api/internal/infrastructure/cache"
	"healthcare-plus-api/internal/scheduling"
	"healthcare-plus-api/internal/service"

	"healthcare-plus-api/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotOwned  = errors.New("appointment does not belong to this patient")
	ErrAppointmentCancelled = errors.New("appointment is cancelled and cannot be modified")
	ErrPastDate             = errors.New("appointment date cannot be in the past")
	ErrSlotUnavailable      = errors.New("requested time is outside the doctor's availability")
	ErrInvalidTransition    = errors.New("invalid status transition")

	// ErrSlotConflict is surfaced by the booking guard when the slot is
	// already held. Re-exported so handlers depend on one package.
	ErrSlotConflict = scheduling.ErrSlotConflict
)

type AppointmentUsecase interface {
	Create(ctx context.Context, actorID *uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool) (*dto.AppointmentResponse, error)
	GetMine(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetAll(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool, req *dto.CancelAppointmentRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	guard           *scheduling.Guard
	notifications   *service.NotificationService
	audit           service.AuditService
	scheduling      config.SchedulingConfig
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	guard *scheduling.Guard,
	notifications *service.NotificationService,
	audit service.AuditService,
	schedulingCfg config.SchedulingConfig,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		guard:           guard,
		notifications:   notifications,
		audit:           audit,
		scheduling:      schedulingCfg,
	}
}

// Create books a new appointment. The slot availability a client saw earlier
// is never trusted: the booking guard re-checks the slot under a per-slot lock
// immediately before the insert, and the partial unique index on
// (doctor_name, date, time) backstops it.
func (u *appointmentUsecase) Create(ctx context.Context, actorID *uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.Date < time.Now().Format("2006-01-02") {
		return nil, ErrPastDate
	}

	doctor, err := u.doctorRepo.FindByName(u.db.WithContext(ctx), req.DoctorName)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorName, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	if err := u.ensureBookable(doctor, req.Time); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:      actorID,
		PatientName:    req.PatientName,
		PatientContact: req.PatientContact,
		PatientAddress: req.PatientAddress,
		Symptoms:       req.Symptoms,
		Department:     doctor.Department,
		DoctorName:     doctor.Name,
		Date:           req.Date,
		Time:           req.Time,
		Status:         entity.AppointmentStatusScheduled,
	}

	key := scheduling.SlotKey{DoctorName: doctor.Name, Date: req.Date, Time: req.Time}
	err = u.guard.Reserve(ctx, key, uuid.Nil, func(ctx context.Context) error {
		return u.appointmentRepo.Create(u.db.WithContext(ctx), appointment)
	})
	if err != nil {
		return nil, u.mapReserveError(err, key)
	}

	u.audit.Record(u.db.WithContext(ctx), actorID, entity.AuditActionAppointmentCreate, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_name":    appointment.DoctorName,
		"date":           appointment.Date,
		"time":           appointment.Time,
	})

	if email := u.notifyAddress(ctx, req.PatientEmail, actorID); email != "" {
		go u.notifications.NotifyConfirmation(appointment, email)
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		if err := u.ensureOwned(ctx, appointment, actorID); err != nil {
			return nil, err
		}
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetMine(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	contact, err := u.patientContact(ctx, patientID)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByPatient(u.db.WithContext(ctx), patientID, contact)
	if err != nil {
		u.log.Warnf("Failed to list appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAll(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Update edits an appointment. When doctor, date or time change, the edit is
// treated as a fresh booking of the new slot: the conflict check runs against
// the new triple with the appointment's own row excluded, so an appointment
// keeping its slot never conflicts with itself.
func (u *appointmentUsecase) Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		if err := u.ensureOwned(ctx, appointment, actorID); err != nil {
			return nil, err
		}
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	oldKey := scheduling.SlotKey{DoctorName: appointment.DoctorName, Date: appointment.Date, Time: appointment.Time}

	if req.PatientName != "" {
		appointment.PatientName = req.PatientName
	}
	if req.PatientContact != "" {
		appointment.PatientContact = req.PatientContact
	}
	if req.PatientAddress != "" {
		appointment.PatientAddress = req.PatientAddress
	}
	if req.Symptoms != "" {
		appointment.Symptoms = req.Symptoms
	}
	if req.Date != "" {
		appointment.Date = req.Date
	}
	if req.Time != "" {
		appointment.Time = req.Time
	}

	if req.DoctorName != "" && req.DoctorName != appointment.DoctorName {
		doctor, err := u.doctorRepo.FindByName(u.db.WithContext(ctx), req.DoctorName)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorName, err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		appointment.DoctorName = doctor.Name
		appointment.Department = doctor.Department
	}

	newKey := scheduling.SlotKey{DoctorName: appointment.DoctorName, Date: appointment.Date, Time: appointment.Time}

	if newKey != oldKey {
		if appointment.Date < time.Now().Format("2006-01-02") {
			return nil, ErrPastDate
		}

		doctor, err := u.doctorRepo.FindByName(u.db.WithContext(ctx), appointment.DoctorName)
		if err != nil {
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
		if err := u.ensureBookable(doctor, appointment.Time); err != nil {
			return nil, err
		}

		err = u.guard.Reserve(ctx, newKey, appointment.ID, func(ctx context.Context) error {
			return u.appointmentRepo.Update(u.db.WithContext(ctx), appointment)
		})
		if err != nil {
			return nil, u.mapReserveError(err, newKey)
		}
	} else {
		if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
			u.log.Warnf("Failed to update appointment %s: %+v", id, err)
			return nil, err
		}
	}

	auditActor := actorIDForAudit(&actorID, isAdmin)
	u.audit.Record(u.db.WithContext(ctx), auditActor, entity.AuditActionAppointmentUpdate, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_name":    appointment.DoctorName,
		"date":           appointment.Date,
		"time":           appointment.Time,
	})

	return converter.AppointmentToResponse(appointment), nil
}

// Cancel soft-cancels the appointment, freeing its slot while keeping the row
// as history. Cancelling an already-cancelled appointment is a no-op;
// cancelling a completed one is rejected.
func (u *appointmentUsecase) Cancel(ctx context.Context, id uuid.UUID, actorID uuid.UUID, isAdmin bool, req *dto.CancelAppointmentRequest) error {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin {
		if err := u.ensureOwned(ctx, appointment, actorID); err != nil {
			return err
		}
	}

	if appointment.Status == entity.AppointmentStatusCompleted {
		return ErrInvalidTransition
	}

	rows, err := u.appointmentRepo.Cancel(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		// Already cancelled, nothing to do.
		return nil
	}
	appointment.Status = entity.AppointmentStatusCancelled

	auditActor := actorIDForAudit(&actorID, isAdmin)
	u.audit.Record(u.db.WithContext(ctx), auditActor, entity.AuditActionAppointmentCancel, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_name":    appointment.DoctorName,
		"date":           appointment.Date,
		"time":           appointment.Time,
	})

	var notifyActor *uuid.UUID
	if !isAdmin {
		notifyActor = &actorID
	}
	if email := u.notifyAddress(ctx, req.PatientEmail, notifyActor); email != "" {
		go u.notifications.NotifyCancellation(appointment, email)
	}

	return nil
}

// UpdateStatus moves the appointment through the status machine. Setting an
// already-cancelled appointment to cancelled is accepted as a no-op; every
// other illegal transition is rejected.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	target := entity.AppointmentStatus(req.Status)
	if appointment.Status == target {
		return converter.AppointmentToResponse(appointment), nil
	}
	if !appointment.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	appointment.Status = target
	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", id, err)
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionAppointmentStatus, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"status":         string(target),
	})

	return converter.AppointmentToResponse(appointment), nil
}

// Delete hard-deletes the row. Unlike Cancel this destroys history and frees
// the slot; it is an administrative operation.
func (u *appointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	appointment, err := u.findAppointment(ctx, id)
	if err != nil {
		return err
	}

	if err := u.appointmentRepo.Delete(u.db.WithContext(ctx), id); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionAppointmentDelete, entity.JSON{
		"appointment_id": appointment.ID.String(),
		"doctor_name":    appointment.DoctorName,
		"date":           appointment.Date,
		"time":           appointment.Time,
	})

	return nil
}

func (u *appointmentUsecase) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	byStatus, err := u.appointmentRepo.CountByStatus(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to count appointments by status: %+v", err)
		return nil, err
	}

	byDepartment, err := u.appointmentRepo.CountByDepartment(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to count appointments by department: %+v", err)
		return nil, err
	}

	stats := &dto.StatsResponse{
		ByStatus:     make(map[string]int64, len(byStatus)),
		ByDepartment: byDepartment,
	}
	for status, count := range byStatus {
		stats.ByStatus[string(status)] = count
		stats.TotalAppointments += count
	}

	return stats, nil
}

func (u *appointmentUsecase) findAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

// ensureOwned enforces patient ownership. The patient's contact is looked up
// so records that predate patient accounts still match by contact string.
func (u *appointmentUsecase) ensureOwned(ctx context.Context, appointment *entity.Appointment, patientID uuid.UUID) error {
	contact, err := u.patientContact(ctx, patientID)
	if err != nil {
		return err
	}
	if !appointment.OwnedBy(patientID, contact) {
		return ErrAppointmentNotOwned
	}
	return nil
}

func (u *appointmentUsecase) patientContact(ctx context.Context, patientID uuid.UUID) (string, error) {
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return "", err
	}
	if patient == nil {
		return "", ErrPatientNotFound
	}
	return patient.Contact, nil
}

// ensureBookable verifies the requested time is one of the doctor's bookable
// slots at the patient-facing granularity.
func (u *appointmentUsecase) ensureBookable(doctor *entity.Doctor, timeOfDay string) error {
	windows, err := scheduling.WindowsFromEntity(doctor.Windows)
	if err != nil {
		u.log.Warnf("Doctor %s has malformed availability windows: %+v", doctor.Name, err)
		return err
	}

	slots, err := scheduling.GenerateSlots(windows, u.scheduling.BookingGranularityMinutes)
	if err != nil {
		return err
	}
	if !slices.Contains(slots, timeOfDay) {
		return ErrSlotUnavailable
	}
	return nil
}

// mapReserveError normalizes the failure modes of a guarded booking. A lost
// lock race and a unique-index violation both mean another booking won the
// slot, so they surface as the same conflict.
func (u *appointmentUsecase) mapReserveError(err error, key scheduling.SlotKey) error {
	switch {
	case errors.Is(err, scheduling.ErrSlotConflict):
		return ErrSlotConflict
	case errors.Is(err, cache.ErrLockNotAcquired):
		u.log.Infof("Slot lock contention on %s", key.LockKey())
		return ErrSlotConflict
	case isUniqueViolation(err):
		return ErrSlotConflict
	default:
		u.log.Warnf("Failed to reserve slot %s %s %s: %+v", key.DoctorName, key.Date, key.Time, err)
		return err
	}
}

// actorIDForAudit returns nil for admin actions: the admin is not a database
// record, so audit rows carry no actor reference for it.
func actorIDForAudit(actorID *uuid.UUID, isAdmin bool) *uuid.UUID {
	if isAdmin {
		return nil
	}
	return actorID
}

// notifyAddress picks the email to notify: the address supplied on the
// request wins, else the authenticated patient's account email.
func (u *appointmentUsecase) notifyAddress(ctx context.Context, requested string, actorID *uuid.UUID) string {
	if requested != "" {
		return requested
	}
	if actorID == nil || *actorID == uuid.Nil {
		return ""
	}
	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), *actorID)
	if err != nil || patient == nil {
		return ""
	}
	return patient.Email
}
