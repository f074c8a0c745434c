package repository

import (
	"errors"

	"healthcare-plus-api/internal/domain/entity"
	domainRepo "healthcare-plus-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Windows").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByName(db *gorm.DB, name string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Windows").Where("name = ?", name).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Preload("Windows").Order("name ASC").Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) FindByDepartment(db *gorm.DB, department string) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.Preload("Windows").
		Where("department = ?", department).
		Order("name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Windows").Save(doctor).Error
}

func (r *doctorRepository) ReplaceWindows(db *gorm.DB, doctorID uuid.UUID, windows []entity.AvailabilityWindow) error {
	if err := db.Where("doctor_id = ?", doctorID).Delete(&entity.AvailabilityWindow{}).Error; err != nil {
		return err
	}
	if len(windows) == 0 {
		return nil
	}
	for i := range windows {
		windows[i].ID = 0
		windows[i].DoctorID = doctorID
	}
	return db.Create(&windows).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	// Windows cascade with the doctor; appointments keep their denormalized
	// doctor_name and survive.
	if err := db.Where("doctor_id = ?", id).Delete(&entity.AvailabilityWindow{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&entity.Doctor{}).Error
}
