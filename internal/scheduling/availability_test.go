package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare-plus-api/internal/domain/entity"
)

func appointmentAt(doctor, date, timeStr string, status entity.AppointmentStatus) entity.Appointment {
	return entity.Appointment{
		ID:         uuid.New(),
		DoctorName: doctor,
		Date:       date,
		Time:       timeStr,
		Status:     status,
	}
}

func TestFreeSlots_SubtractsBookedSlots(t *testing.T) {
	windows := []Window{mustWindow(t, "09:00", "09:45")}
	appointments := []entity.Appointment{
		appointmentAt("Dr. Smith", "2026-09-01", "09:15", entity.AppointmentStatusScheduled),
	}

	free, err := FreeSlots(windows, 15, appointments, "Dr. Smith", "2026-09-01", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, free)
}

func TestFreeSlots_CancelledAppointmentFreesSlot(t *testing.T) {
	windows := []Window{mustWindow(t, "09:00", "09:45")}
	appointments := []entity.Appointment{
		appointmentAt("Dr. Smith", "2026-09-01", "09:15", entity.AppointmentStatusCancelled),
	}

	free, err := FreeSlots(windows, 15, appointments, "Dr. Smith", "2026-09-01", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:15", "09:30"}, free)
}

func TestFreeSlots_IgnoresOtherDoctorAndDate(t *testing.T) {
	windows := []Window{mustWindow(t, "09:00", "09:45")}
	appointments := []entity.Appointment{
		appointmentAt("Dr. Jones", "2026-09-01", "09:00", entity.AppointmentStatusScheduled),
		appointmentAt("Dr. Smith", "2026-09-02", "09:15", entity.AppointmentStatusConfirmed),
	}

	free, err := FreeSlots(windows, 15, appointments, "Dr. Smith", "2026-09-01", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:15", "09:30"}, free)
}

func TestFreeSlots_SelfExclusionOnEdit(t *testing.T) {
	windows := []Window{mustWindow(t, "09:00", "09:45")}
	own := appointmentAt("Dr. Smith", "2026-09-01", "09:15", entity.AppointmentStatusScheduled)
	other := appointmentAt("Dr. Smith", "2026-09-01", "09:30", entity.AppointmentStatusScheduled)

	free, err := FreeSlots(windows, 15, []entity.Appointment{own, other}, "Dr. Smith", "2026-09-01", own.ID)
	require.NoError(t, err)
	// The appointment's own slot stays selectable; the other booking does not.
	assert.Equal(t, []string{"09:00", "09:15"}, free)
}

func TestFreeSlots_ExclusionVoidAfterDoctorChange(t *testing.T) {
	// Editing an appointment from Dr. Smith to Dr. Jones: the old 09:15 slot
	// carries no special status when resolving Dr. Jones's availability, and
	// Dr. Jones's own bookings still block.
	windows := []Window{mustWindow(t, "09:00", "09:45")}
	own := appointmentAt("Dr. Smith", "2026-09-01", "09:15", entity.AppointmentStatusScheduled)
	jones := appointmentAt("Dr. Jones", "2026-09-01", "09:15", entity.AppointmentStatusScheduled)

	free, err := FreeSlots(windows, 15, []entity.Appointment{own, jones}, "Dr. Jones", "2026-09-01", own.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30"}, free)
}

func TestFreeSlots_AllBooked(t *testing.T) {
	windows := []Window{mustWindow(t, "09:00", "09:30")}
	appointments := []entity.Appointment{
		appointmentAt("Dr. Smith", "2026-09-01", "09:00", entity.AppointmentStatusScheduled),
		appointmentAt("Dr. Smith", "2026-09-01", "09:15", entity.AppointmentStatusConfirmed),
	}

	free, err := FreeSlots(windows, 15, appointments, "Dr. Smith", "2026-09-01", uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestFreeSlots_InvalidGranularityPropagates(t *testing.T) {
	_, err := FreeSlots([]Window{mustWindow(t, "09:00", "10:00")}, 0, nil, "Dr. Smith", "2026-09-01", uuid.Nil)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestWindowsFromEntity(t *testing.T) {
	windows, err := WindowsFromEntity([]entity.AvailabilityWindow{
		{StartTime: "08:00", EndTime: "10:00"},
		{StartTime: "14:00", EndTime: "16:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Window{{480, 600}, {840, 990}}, windows)

	_, err = WindowsFromEntity([]entity.AvailabilityWindow{
		{StartTime: "10:00", EndTime: "08:00"},
	})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
