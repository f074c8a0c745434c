package repository

import (
	"errors"

	"healthcare-plus-api/internal/domain/entity"
	domainRepo "healthcare-plus-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.Model(&entity.Appointment{})
	if filter.StartDate != "" {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		query = query.Where("date <= ?", filter.EndDate)
	}
	if filter.DoctorName != "" {
		query = query.Where("doctor_name = ?", filter.DoctorName)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var appointments []entity.Appointment
	err := query.Order("date ASC, time ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorName, date string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("doctor_name = ? AND date = ?", doctorName, date).
		Order("time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatient(db *gorm.DB, patientID uuid.UUID, contact string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	// patient_id is the stable reference; legacy rows predate patient
	// accounts and are matched by contact.
	err := db.Where("patient_id = ? OR (patient_id IS NULL AND patient_contact = ?)", patientID, contact).
		Order("date ASC, time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Save(appointment).Error
}

// Cancel atomically cancels an appointment ONLY if it is not already
// cancelled. Returns affected rows: 1 = transitioned, 0 = already cancelled.
func (r *appointmentRepository) Cancel(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status != ?", id, entity.AppointmentStatusCancelled).
		Update("status", entity.AppointmentStatusCancelled)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.Appointment{}).Error
}

func (r *appointmentRepository) ActiveSlotExists(db *gorm.DB, doctorName, date, timeOfDay string, excludeID uuid.UUID) (bool, error) {
	query := db.Model(&entity.Appointment{}).
		Where("doctor_name = ? AND date = ? AND time = ? AND status != ?",
			doctorName, date, timeOfDay, entity.AppointmentStatusCancelled)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB) (map[entity.AppointmentStatus]int64, error) {
	type row struct {
		Status entity.AppointmentStatus
		Count  int64
	}
	var rows []row
	err := db.Model(&entity.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.AppointmentStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *appointmentRepository) CountByDepartment(db *gorm.DB) (map[string]int64, error) {
	type row struct {
		Department string
		Count      int64
	}
	var rows []row
	err := db.Model(&entity.Appointment{}).
		Select("department, COUNT(*) AS count").
		Group("department").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Department] = r.Count
	}
	return counts, nil
}
