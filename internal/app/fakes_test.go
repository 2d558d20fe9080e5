package app

import (
	"context"
	"sync"
	"time"

	"github.com/solerma/slotreserve/internal/domain"
)

// fakeSlotRepo mimics the storage contract in memory, including the
// version-checked conditional save.
type fakeSlotRepo struct {
	mu       sync.Mutex
	slots    map[int64]domain.Slot
	nextID   int64
	saveErrs []error
}

func newFakeSlotRepo(slots ...domain.Slot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: make(map[int64]domain.Slot)}
	for _, slot := range slots {
		repo.nextID++
		if slot.ID == 0 {
			slot.ID = repo.nextID
		}
		repo.slots[slot.ID] = slot
	}
	return repo
}

// failSavesWith queues errors returned by upcoming Save calls, in order.
func (r *fakeSlotRepo) failSavesWith(errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErrs = append(r.saveErrs, errs...)
}

func (r *fakeSlotRepo) Create(_ context.Context, slot domain.Slot) (domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	slot.ID = r.nextID
	r.slots[slot.ID] = slot
	return slot, nil
}

func (r *fakeSlotRepo) FindByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r *fakeSlotRepo) Save(_ context.Context, slot domain.Slot) (domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.saveErrs) > 0 {
		err := r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
		if err != nil {
			return domain.Slot{}, err
		}
	}
	current, ok := r.slots[slot.ID]
	if !ok {
		return domain.Slot{}, domain.ErrSlotNotFound
	}
	if current.Version != slot.Version {
		return domain.Slot{}, domain.ErrStaleSlot
	}
	slot.Version++
	r.slots[slot.ID] = slot
	return slot, nil
}

func (r *fakeSlotRepo) List(_ context.Context) ([]domain.Slot, error) {
	return r.filter(func(domain.Slot) bool { return true }), nil
}

func (r *fakeSlotRepo) ListByMode(_ context.Context, mode domain.DeliveryMode) ([]domain.Slot, error) {
	return r.filter(func(s domain.Slot) bool { return s.Mode == mode }), nil
}

func (r *fakeSlotRepo) ListByDate(_ context.Context, date time.Time) ([]domain.Slot, error) {
	return r.filter(func(s domain.Slot) bool { return s.Date.Equal(date) }), nil
}

func (r *fakeSlotRepo) ListByModeAndDate(_ context.Context, mode domain.DeliveryMode, date time.Time) ([]domain.Slot, error) {
	return r.filter(func(s domain.Slot) bool { return s.Mode == mode && s.Date.Equal(date) }), nil
}

func (r *fakeSlotRepo) ListAvailable(_ context.Context, mode domain.DeliveryMode, date time.Time) ([]domain.Slot, error) {
	return r.filter(func(s domain.Slot) bool {
		return s.Mode == mode && s.Date.Equal(date) && s.CurrentReservations < s.Capacity
	}), nil
}

func (r *fakeSlotRepo) filter(keep func(domain.Slot) bool) []domain.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Slot
	for id := int64(1); id <= r.nextID; id++ {
		if slot, ok := r.slots[id]; ok && keep(slot) {
			out = append(out, slot)
		}
	}
	return out
}

func (r *fakeSlotRepo) get(id int64) domain.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[id]
}

func (r *fakeSlotRepo) drop(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, id)
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[int64]domain.Reservation
	nextID       int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[int64]domain.Reservation)}
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	reservation.ID = r.nextID
	r.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (r *fakeReservationRepo) Update(_ context.Context, reservation domain.Reservation) (domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, nil
	}
	return &reservation, nil
}

func (r *fakeReservationRepo) List(_ context.Context) ([]domain.Reservation, error) {
	return r.filter(func(domain.Reservation) bool { return true }), nil
}

func (r *fakeReservationRepo) ListByCustomerEmail(_ context.Context, email string) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.CustomerEmail == email }), nil
}

func (r *fakeReservationRepo) ListByStatus(_ context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.Status == status }), nil
}

func (r *fakeReservationRepo) ListBySlotID(_ context.Context, slotID int64) ([]domain.Reservation, error) {
	return r.filter(func(res domain.Reservation) bool { return res.SlotID == slotID }), nil
}

func (r *fakeReservationRepo) filter(keep func(domain.Reservation) bool) []domain.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Reservation
	for id := int64(1); id <= r.nextID; id++ {
		if res, ok := r.reservations[id]; ok && keep(res) {
			out = append(out, res)
		}
	}
	return out
}

func (r *fakeReservationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reservations)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

// failWith makes every subsequent Publish call return err.
func (p *capturePublisher) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *capturePublisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) captured() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.events))
	copy(out, p.events)
	return out
}
