package appointment

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository stores appointments. Create must reject a second confirmed
// appointment for the same provider slot with ErrSlotTaken.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	// Transition moves an appointment from one status to another and applies
	// mutate under the same lock. It wraps ErrNotConfirmed when the stored
	// status is not from.
	Transition(ctx context.Context, id string, from, to Status, mutate func(*Appointment)) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string, status Status) ([]*Appointment, error)
	SlotTaken(ctx context.Context, key string) (bool, error)
}

type memoryRepo struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment // appointment ID -> appointment
	slotBookings map[string]string       // slot key -> appointment ID
}

// NewMemoryRepo returns a Repository held in process memory.
func NewMemoryRepo() Repository {
	return &memoryRepo{
		appointments: make(map[string]*Appointment),
		slotBookings: make(map[string]string),
	}
}

func (r *memoryRepo) Create(ctx context.Context, a *Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := a.key()
	if _, booked := r.slotBookings[key]; booked {
		return ErrSlotTaken
	}
	cp := *a
	r.appointments[a.ID] = &cp
	if a.Status == StatusConfirmed {
		r.slotBookings[key] = a.ID
	}
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id string) (*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// Transition checks and changes the status in one critical section. Leaving
// the confirmed state frees the slot.
func (r *memoryRepo) Transition(ctx context.Context, id string, from, to Status, mutate func(*Appointment)) (*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if stored.Status != from {
		return nil, fmt.Errorf("%w: status is %s", ErrNotConfirmed, stored.Status)
	}
	cp := *stored
	cp.Status = to
	if mutate != nil {
		mutate(&cp)
	}
	r.appointments[id] = &cp
	if from == StatusConfirmed && to != StatusConfirmed {
		key := cp.key()
		if r.slotBookings[key] == id {
			delete(r.slotBookings, key)
		}
	}
	out := cp
	return &out, nil
}

// ListByPatient returns the patient's appointments, newest first.
func (r *memoryRepo) ListByPatient(ctx context.Context, patientID string, status Status) ([]*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Appointment
	for _, a := range r.appointments {
		if a.PatientID != patientID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *memoryRepo) SlotTaken(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, booked := r.slotBookings[key]
	return booked, nil
}
