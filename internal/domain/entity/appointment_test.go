package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusConfirmed, true},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusConfirmed, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
	}
	for _, tt := range tests {
		a := &Appointment{Status: tt.from}
		assert.Equal(t, tt.allowed, a.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAppointment_IsTerminal(t *testing.T) {
	assert.False(t, (&Appointment{Status: AppointmentStatusScheduled}).IsTerminal())
	assert.False(t, (&Appointment{Status: AppointmentStatusConfirmed}).IsTerminal())
	assert.True(t, (&Appointment{Status: AppointmentStatusCompleted}).IsTerminal())
	assert.True(t, (&Appointment{Status: AppointmentStatusCancelled}).IsTerminal())
}

func TestAppointment_OwnedBy(t *testing.T) {
	patientID := uuid.New()
	otherID := uuid.New()

	withID := &Appointment{PatientID: &patientID, PatientContact: "9876543210"}
	assert.True(t, withID.OwnedBy(patientID, "0000000000"))
	assert.False(t, withID.OwnedBy(otherID, "9876543210"), "contact fallback must not apply when patient_id is set")

	legacy := &Appointment{PatientContact: "9876543210"}
	assert.True(t, legacy.OwnedBy(patientID, "9876543210"))
	assert.False(t, legacy.OwnedBy(patientID, "1234567890"))
	assert.False(t, legacy.OwnedBy(patientID, ""))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(AppointmentStatusScheduled))
	assert.True(t, ValidStatus(AppointmentStatusCancelled))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus(""))
}
