package usecase

import (
	"testing"

	"healthcare-plus-api/internal/delivery/dto"

	"healthcare-plus-api/config"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWindowValidator(granularity int) *doctorUsecase {
	return &doctorUsecase{
		scheduling: config.SchedulingConfig{WindowGranularityMinutes: granularity},
	}
}

func TestWindowsFromRequests_AcceptsAlignedWindows(t *testing.T) {
	u := newWindowValidator(30)

	windows, err := u.windowsFromRequests([]dto.WindowRequest{
		{StartTime: "09:00", EndTime: "12:30"},
		{StartTime: "14:00", EndTime: "17:00"},
	})
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, "09:00", windows[0].StartTime)
	assert.Equal(t, "12:30", windows[0].EndTime)
}

func TestWindowsFromRequests_RejectsMisalignedBoundary(t *testing.T) {
	u := newWindowValidator(30)

	_, err := u.windowsFromRequests([]dto.WindowRequest{
		{StartTime: "09:15", EndTime: "12:00"},
	})
	assert.Error(t, err)
}

func TestWindowsFromRequests_RejectsInvertedWindow(t *testing.T) {
	u := newWindowValidator(30)

	_, err := u.windowsFromRequests([]dto.WindowRequest{
		{StartTime: "12:00", EndTime: "09:00"},
	})
	assert.Error(t, err)
}

func TestWindowsFromRequests_RejectsMalformedClock(t *testing.T) {
	u := newWindowValidator(30)

	_, err := u.windowsFromRequests([]dto.WindowRequest{
		{StartTime: "9am", EndTime: "12:00"},
	})
	assert.Error(t, err)
}

func TestWindowsFromRequests_EmptyClearsWindows(t *testing.T) {
	u := newWindowValidator(30)

	windows, err := u.windowsFromRequests(nil)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestIsDuplicateKeyError(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "idx_patients_username"}

	assert.True(t, isDuplicateKeyError(err, "username"))
	assert.False(t, isDuplicateKeyError(err, "email"))
	assert.True(t, isUniqueViolation(err))

	other := &pgconn.PgError{Code: "23503"}
	assert.False(t, isUniqueViolation(other))
}
