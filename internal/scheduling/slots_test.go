package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) Window {
	t.Helper()
	w, err := NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9:30", 0, true},
		{"0930", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "23:45", FormatClock(1425))
}

func TestGenerateSlots_SlotMustFitInsideWindow(t *testing.T) {
	slots, err := GenerateSlots([]Window{mustWindow(t, "09:00", "10:00")}, 30)
	require.NoError(t, err)
	// 10:00 is the exclusive end boundary, a slot starting there never fits.
	assert.Equal(t, []string{"09:00", "09:30"}, slots)
}

func TestGenerateSlots_OverlappingWindowsDeduplicated(t *testing.T) {
	windows := []Window{
		mustWindow(t, "09:00", "10:00"),
		mustWindow(t, "09:30", "10:30"),
	}
	slots, err := GenerateSlots(windows, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slots)
}

func TestGenerateSlots_UnorderedDisjointWindows(t *testing.T) {
	windows := []Window{
		mustWindow(t, "14:00", "15:00"),
		mustWindow(t, "08:00", "09:00"),
	}
	slots, err := GenerateSlots(windows, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "08:30", "14:00", "14:30"}, slots)
}

func TestGenerateSlots_PatientGranularity(t *testing.T) {
	slots, err := GenerateSlots([]Window{mustWindow(t, "09:00", "10:00")}, 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45"}, slots)
}

func TestGenerateSlots_EmptyWindows(t *testing.T) {
	slots, err := GenerateSlots(nil, 15)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_WindowShorterThanGranularity(t *testing.T) {
	slots, err := GenerateSlots([]Window{mustWindow(t, "09:00", "09:20")}, 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_InvalidGranularity(t *testing.T) {
	_, err := GenerateSlots([]Window{mustWindow(t, "09:00", "10:00")}, 0)
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = GenerateSlots([]Window{mustWindow(t, "09:00", "10:00")}, -15)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestGenerateSlots_InvalidWindow(t *testing.T) {
	_, err := GenerateSlots([]Window{{Start: 600, End: 540}}, 30)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestNewWindow_RejectsInvertedBounds(t *testing.T) {
	_, err := NewWindow("10:00", "09:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewWindow("10:00", "10:00")
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestAlignedToGranularity(t *testing.T) {
	ok, err := AlignedToGranularity("09:30", 30)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlignedToGranularity("09:15", 30)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = AlignedToGranularity("09:30", 0)
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}
