package converter

import (
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	windows := make([]dto.WindowResponse, len(doctor.Windows))
	for i, w := range doctor.Windows {
		windows[i] = dto.WindowResponse{
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
		}
	}

	return &dto.DoctorResponse{
		ID:         doctor.ID,
		Name:       doctor.Name,
		Department: doctor.Department,
		Fee:        doctor.Fee,
		Windows:    windows,
		CreatedAt:  doctor.CreatedAt,
		UpdatedAt:  doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to response DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
