package usecase

import (
	"context"
	"errors"

	"healthcare-plus-api/internal/converter"
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
	"healthcare-plus-api/internal/domain/repository"
	"healthcare-plus-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrDepartmentNameTaken = errors.New("a department with this name already exists")
)

type DepartmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id int) (*dto.DepartmentResponse, error)
	GetAll(ctx context.Context) (*dto.DepartmentListResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id int) error
}

type departmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	departmentRepo repository.DepartmentRepository
	audit          service.AuditService
}

func NewDepartmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	departmentRepo repository.DepartmentRepository,
	audit service.AuditService,
) DepartmentUsecase {
	return &departmentUsecase{
		db:             db,
		log:            log,
		departmentRepo: departmentRepo,
		audit:          audit,
	}
}

func (u *departmentUsecase) Create(ctx context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	department := &entity.Department{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := u.departmentRepo.Create(u.db.WithContext(ctx), department); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDepartmentNameTaken
		}
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionDepartmentCreate, entity.JSON{
		"department": department.Name,
	})

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) GetByID(ctx context.Context, id int) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) GetAll(ctx context.Context) (*dto.DepartmentListResponse, error) {
	departments, err := u.departmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list departments: %+v", err)
		return nil, err
	}

	return &dto.DepartmentListResponse{
		Departments: converter.DepartmentsToResponses(departments),
		Total:       len(departments),
	}, nil
}

func (u *departmentUsecase) Update(ctx context.Context, id int, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	if req.Name != "" {
		department.Name = req.Name
	}
	if req.Description != "" {
		department.Description = req.Description
	}

	if err := u.departmentRepo.Update(u.db.WithContext(ctx), department); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDepartmentNameTaken
		}
		u.log.Warnf("Failed to update department %d: %+v", id, err)
		return nil, err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionDepartmentUpdate, entity.JSON{
		"department": department.Name,
	})

	return converter.DepartmentToResponse(department), nil
}

func (u *departmentUsecase) Delete(ctx context.Context, id int) error {
	department, err := u.departmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department %d: %+v", id, err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}

	if err := u.departmentRepo.Delete(u.db.WithContext(ctx), id); err != nil {
		u.log.Warnf("Failed to delete department %d: %+v", id, err)
		return err
	}

	u.audit.Record(u.db.WithContext(ctx), nil, entity.AuditActionDepartmentDelete, entity.JSON{
		"department": department.Name,
	})

	return nil
}
