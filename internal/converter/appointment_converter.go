package converter

import (
	"healthcare-plus-api/internal/delivery/dto"
	"healthcare-plus-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:             appointment.ID,
		PatientID:      appointment.PatientID,
		PatientName:    appointment.PatientName,
		PatientContact: appointment.PatientContact,
		PatientAddress: appointment.PatientAddress,
		Symptoms:       appointment.Symptoms,
		Department:     appointment.Department,
		DoctorName:     appointment.DoctorName,
		Date:           appointment.Date,
		Time:           appointment.Time,
		Status:         string(appointment.Status),
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to response DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
