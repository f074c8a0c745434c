package converter

import (
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:        patient.ID,
		Username:  patient.Username,
		Name:      patient.Name,
		Contact:   patient.Contact,
		Email:     patient.Email,
		Address:   patient.Address,
		CreatedAt: patient.CreatedAt,
	}
}
