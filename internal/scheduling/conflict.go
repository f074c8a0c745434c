package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSlotConflict is returned when the candidate (doctor, date, time) triple
// is already held by a non-cancelled appointment.
var ErrSlotConflict = errors.New("this slot is already booked")

// SlotKey identifies one bookable slot.
type SlotKey struct {
	DoctorName string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM
}

// LockKey returns the serialization key used by the Locker for this slot.
func (k SlotKey) LockKey() string {
	return fmt.Sprintf("lock:slot:%s:%s:%s", k.DoctorName, k.Date, k.Time)
}

// ConflictChecker answers whether a slot is held, queried against the current
// persisted state, never a cached snapshot.
type ConflictChecker interface {
	// ActiveAppointmentExists reports whether any non-cancelled appointment
	// holds the key, ignoring the appointment with excludeID (uuid.Nil means
	// exclude nothing).
	ActiveAppointmentExists(ctx context.Context, key SlotKey, excludeID uuid.UUID) (bool, error)
}

// Locker serializes the check-then-write critical section for one slot key so
// two concurrent bookings of the same slot cannot interleave between the
// conflict check and the commit.
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Guard is the authoritative write-path gate. Reserve re-checks the slot
// immediately before commit, under the slot lock, so the availability a
// client observed earlier is never trusted.
type Guard struct {
	checker ConflictChecker
	locker  Locker
}

func NewGuard(checker ConflictChecker, locker Locker) *Guard {
	return &Guard{checker: checker, locker: locker}
}

// Check verifies the slot is free without committing anything. Callers that
// go on to write must use Reserve instead; a bare Check is only a preview and
// is not race-safe on its own.
func (g *Guard) Check(ctx context.Context, key SlotKey, excludeID uuid.UUID) error {
	held, err := g.checker.ActiveAppointmentExists(ctx, key, excludeID)
	if err != nil {
		return err
	}
	if held {
		return ErrSlotConflict
	}
	return nil
}

// Reserve runs the conflict check and the commit as one serialized unit for
// the slot key. commit is only invoked when the slot is free; on conflict
// Reserve returns ErrSlotConflict and nothing is mutated. excludeID skips the
// appointment's own row during an edit of its date/time/doctor.
func (g *Guard) Reserve(ctx context.Context, key SlotKey, excludeID uuid.UUID, commit func(ctx context.Context) error) error {
	return g.locker.WithSlotLock(ctx, key.LockKey(), func(ctx context.Context) error {
		if err := g.Check(ctx, key, excludeID); err != nil {
			return err
		}
		return commit(ctx)
	})
}
