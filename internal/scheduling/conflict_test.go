package scheduling

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory appointment set implementing ConflictChecker.
type memStore struct {
	mu   sync.Mutex
	held map[SlotKey]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{held: make(map[SlotKey]uuid.UUID)}
}

func (s *memStore) ActiveAppointmentExists(ctx context.Context, key SlotKey, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.held[key]
	if !ok {
		return false, nil
	}
	if excludeID != uuid.Nil && id == excludeID {
		return false, nil
	}
	return true, nil
}

func (s *memStore) commit(key SlotKey, id uuid.UUID) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.held[key] = id
		return nil
	}
}

// memLocker serializes per key with in-process mutexes.
type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *memLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

func TestGuard_CheckThenCommitBlocksSecondBooking(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store, newMemLocker())
	key := SlotKey{DoctorName: "Dr. Smith", Date: "2026-09-01", Time: "09:15"}
	ctx := context.Background()

	// Two sequential checks with no intervening write both report free.
	require.NoError(t, guard.Check(ctx, key, uuid.Nil))
	require.NoError(t, guard.Check(ctx, key, uuid.Nil))

	// First booking commits.
	require.NoError(t, guard.Reserve(ctx, key, uuid.Nil, store.commit(key, uuid.New())))

	// Second booking for the identical triple now conflicts.
	err := guard.Reserve(ctx, key, uuid.Nil, store.commit(key, uuid.New()))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.ErrorIs(t, guard.Check(ctx, key, uuid.Nil), ErrSlotConflict)
}

func TestGuard_ConflictLeavesNoPartialMutation(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store, newMemLocker())
	key := SlotKey{DoctorName: "Dr. Smith", Date: "2026-09-01", Time: "10:00"}
	ctx := context.Background()

	first := uuid.New()
	require.NoError(t, guard.Reserve(ctx, key, uuid.Nil, store.commit(key, first)))

	committed := false
	err := guard.Reserve(ctx, key, uuid.Nil, func(ctx context.Context) error {
		committed = true
		return nil
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, committed, "commit must not run on conflict")
	assert.Equal(t, first, store.held[key], "original booking must be untouched")
}

func TestGuard_SelfExclusionAllowsKeepingOwnSlot(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store, newMemLocker())
	key := SlotKey{DoctorName: "Dr. Smith", Date: "2026-09-01", Time: "11:30"}
	ctx := context.Background()

	own := uuid.New()
	require.NoError(t, guard.Reserve(ctx, key, uuid.Nil, store.commit(key, own)))

	// Editing the appointment without moving it re-validates the same triple.
	assert.NoError(t, guard.Check(ctx, key, own))
	assert.NoError(t, guard.Reserve(ctx, key, own, store.commit(key, own)))

	// A different appointment still conflicts.
	assert.ErrorIs(t, guard.Check(ctx, key, uuid.New()), ErrSlotConflict)
}

func TestGuard_ConcurrentRaceCommitsExactlyOnce(t *testing.T) {
	store := newMemStore()
	guard := NewGuard(store, newMemLocker())
	key := SlotKey{DoctorName: "Dr. Smith", Date: "2026-09-01", Time: "09:00"}
	ctx := context.Background()

	const attempts = 32
	var (
		wg        sync.WaitGroup
		commits   int
		conflicts int
		mu        sync.Mutex
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := guard.Reserve(ctx, key, uuid.Nil, store.commit(key, uuid.New()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				commits++
			case err == ErrSlotConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, commits, "exactly one booking must commit")
	assert.Equal(t, attempts-1, conflicts)
}

func TestSlotKey_LockKey(t *testing.T) {
	key := SlotKey{DoctorName: "Dr. Smith", Date: "2026-09-01", Time: "09:00"}
	assert.Equal(t, "lock:slot:Dr. Smith:2026-09-01:09:00", key.LockKey())
}
