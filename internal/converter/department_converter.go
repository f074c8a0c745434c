package converter

import (
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
)

// DepartmentToResponse converts a Department entity to DepartmentResponse DTO
func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		CreatedAt:   department.CreatedAt,
		UpdatedAt:   department.UpdatedAt,
	}
}

// DepartmentsToResponses converts a slice of Department entities to response DTOs
func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i, department := range departments {
		resp := DepartmentToResponse(&department)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
