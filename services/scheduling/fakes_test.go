package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// memBookingRepo is an in-memory BookingRepository for service tests. It
// applies the same status CAS semantics as the Mongo implementation;
// WithTransaction just runs fn since a single test goroutine needs no
// isolation.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo(seed ...models.Booking) *memBookingRepo {
	repo := &memBookingRepo{bookings: make(map[string]*models.Booking)}
	for i := range seed {
		b := seed[i]
		repo.bookings[b.ID] = &b
	}
	return repo
}

func (r *memBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *booking
	r.bookings[booking.ID] = &clone
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *b
	return &clone, nil
}

func (r *memBookingRepo) selectBookings(pred func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if pred(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinTime.Before(out[j].JoinTime) })
	return out
}

func (r *memBookingRepo) ActiveByEmployee(ctx context.Context, employeeID string) ([]models.Booking, error) {
	return r.selectBookings(func(b *models.Booking) bool {
		return b.EmployeeID == employeeID && b.Status.IsActive()
	}), nil
}

func (r *memBookingRepo) HasActiveSameDay(ctx context.Context, employeeID, customerID string, dayStart, dayEnd time.Time) (bool, error) {
	matches := r.selectBookings(func(b *models.Booking) bool {
		return b.EmployeeID == employeeID && b.CustomerID == customerID && b.Status.IsActive() &&
			!b.JoinTime.Before(dayStart) && b.JoinTime.Before(dayEnd)
	})
	return len(matches) > 0, nil
}

func (r *memBookingRepo) DownstreamOf(ctx context.Context, employeeID string, from time.Time) ([]models.Booking, error) {
	return r.selectBookings(func(b *models.Booking) bool {
		return b.EmployeeID == employeeID && b.Status.IsActive() && !b.JoinTime.Before(from)
	}), nil
}

func (r *memBookingRepo) AnchorBefore(ctx context.Context, employeeID string, before time.Time) (*models.Booking, error) {
	candidates := r.selectBookings(func(b *models.Booking) bool {
		return b.EmployeeID == employeeID && b.Status != models.StatusCancelled && b.EndTime.Before(before)
	})
	if len(candidates) == 0 {
		return nil, nil
	}
	anchor := candidates[0]
	for _, c := range candidates[1:] {
		if c.EndTime.After(anchor.EndTime) {
			anchor = c
		}
	}
	return &anchor, nil
}

func (r *memBookingRepo) DueForService(ctx context.Context, employeeID string, now time.Time) ([]models.Booking, error) {
	return r.selectBookings(func(b *models.Booking) bool {
		if employeeID != "" && b.EmployeeID != employeeID {
			return false
		}
		return b.Status == models.StatusBooked && !b.JoinTime.After(now)
	}), nil
}

func (r *memBookingRepo) DueForCompletion(ctx context.Context, employeeID string, now time.Time) ([]models.Booking, error) {
	return r.selectBookings(func(b *models.Booking) bool {
		if employeeID != "" && b.EmployeeID != employeeID {
			return false
		}
		return b.Status == models.StatusInService && !b.EndTime.After(now)
	}), nil
}

func (r *memBookingRepo) UpdateTimes(ctx context.Context, bookingID string, joinTime, endTime, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	b.JoinTime = joinTime
	b.EndTime = endTime
	b.UpdatedAt = now
	return nil
}

func (r *memBookingRepo) TransitionStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = now
	return true, nil
}

func (r *memBookingRepo) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	return fn(nil)
}

func (r *memBookingRepo) EnsureIndexes() error { return nil }

// memDirectory is a fixed in-memory DirectoryRepository.
type memDirectory struct {
	shops     map[string]models.Shop
	employees map[string]models.Employee
	customers map[string]models.Customer
}

func newMemDirectory() *memDirectory {
	services := []models.Service{
		{ID: "svc-cut", Name: "Haircut", DurationMinutes: 30},
		{ID: "svc-beard", Name: "Beard Trim", DurationMinutes: 15},
	}
	return &memDirectory{
		shops: map[string]models.Shop{
			"shop-1": {ID: "shop-1", Name: "Corner Cuts", Active: true},
		},
		employees: map[string]models.Employee{
			"emp-1": {ID: "emp-1", ShopID: "shop-1", Name: "Ravi", Active: true, Services: services},
			"emp-2": {ID: "emp-2", ShopID: "shop-1", Name: "Sana", Active: true, Services: services},
		},
		customers: map[string]models.Customer{
			"cust-1": {ID: "cust-1", Name: "Asha", Active: true},
			"cust-2": {ID: "cust-2", Name: "Vikram", Active: true},
		},
	}
}

func (d *memDirectory) GetShop(ctx context.Context, shopID string) (*models.Shop, error) {
	s, ok := d.shops[shopID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (d *memDirectory) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	e, ok := d.employees[employeeID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &e, nil
}

func (d *memDirectory) ListEmployeesByShop(ctx context.Context, shopID string) ([]models.Employee, error) {
	var out []models.Employee
	for _, e := range d.employees {
		if e.ShopID == shopID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memDirectory) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	c, ok := d.customers[customerID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (d *memDirectory) ClearCustomerFCMToken(ctx context.Context, customerID string) error { return nil }
func (d *memDirectory) ClearShopFCMToken(ctx context.Context, shopID string) error         { return nil }

// recordingNotifier captures payloads instead of sending them.
type recordingNotifier struct {
	mu       sync.Mutex
	payloads []models.PushPayload
}

func (n *recordingNotifier) Notify(ctx context.Context, payload models.PushPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payloads = append(n.payloads, payload)
	return nil
}

func (n *recordingNotifier) byType(notifyType string) []models.PushPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.PushPayload
	for _, p := range n.payloads {
		if p.Type == notifyType {
			out = append(out, p)
		}
	}
	return out
}

func newTestService(repo *memBookingRepo) (*DefaultSchedulingService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := &DefaultSchedulingService{
		Repo:      repo,
		Directory: newMemDirectory(),
		Notifier:  notifier,
	}
	return svc, notifier
}
