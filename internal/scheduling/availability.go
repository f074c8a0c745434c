package scheduling

import (
	"github.com/google/uuid"

	"healthcare-plus-api/internal/domain/entity"
)

// FreeSlots computes the bookable slots for one doctor on one calendar date:
// all slots generated from the doctor's windows minus the times already held
// by non-cancelled appointments for that doctor and date, ascending order
// preserved.
//
// excludeID implements self-exclusion for the edit-in-place case: when a
// patient edits an appointment, its own current slot must stay selectable.
// Pass uuid.Nil for a new booking. The exclusion only matters when the
// appointment being edited sits on the same doctor+date being resolved; if
// the edit moved to a different doctor or date the old time carries no
// special status here and is validated like any other candidate.
func FreeSlots(windows []Window, granularityMinutes int, appointments []entity.Appointment, doctorName, date string, excludeID uuid.UUID) ([]string, error) {
	all, err := GenerateSlots(windows, granularityMinutes)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{})
	for _, a := range appointments {
		if a.DoctorName != doctorName || a.Date != date {
			continue
		}
		if a.IsCancelled() {
			continue
		}
		if excludeID != uuid.Nil && a.ID == excludeID {
			continue
		}
		taken[a.Time] = struct{}{}
	}

	free := make([]string, 0, len(all))
	for _, slot := range all {
		if _, ok := taken[slot]; ok {
			continue
		}
		free = append(free, slot)
	}
	return free, nil
}
