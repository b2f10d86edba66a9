// Package memory is an in-process implementation of the repository
// interfaces. It mirrors the database rules the services rely on (unique
// emails, one review per booking, the booking overlap constraint) and is used
// by HTTP tests and local runs without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/database"
	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type state struct {
	mu          sync.Mutex
	users       map[string]models.User
	prefs       map[string]models.NotificationPreference
	businesses  map[string]models.Business
	vehicles    map[string]models.Vehicle
	photos      []models.VehiclePhoto
	bookings    map[string]models.Booking
	payments    map[string]models.Payment
	messages    []models.Message
	archive     []models.Message
	reviews     []models.Review
	lastCreated time.Time
}

// NewStore returns an empty in-memory store
func NewStore() *repository.Store {
	s := &state{
		users:      map[string]models.User{},
		prefs:      map[string]models.NotificationPreference{},
		businesses: map[string]models.Business{},
		vehicles:   map[string]models.Vehicle{},
		bookings:   map[string]models.Booking{},
		payments:   map[string]models.Payment{},
	}
	return &repository.Store{
		Users:       users{s},
		Preferences: preferences{s},
		Businesses:  businesses{s},
		Vehicles:    vehicles{s},
		Bookings:    bookings{s},
		Messages:    messages{s},
		Reviews:     reviews{s},
	}
}

// stamp returns a strictly increasing creation time so list order is stable
func (s *state) stamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Microsecond)
	}
	s.lastCreated = now
	return now
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// ============================================================================
// Users and preferences
// ============================================================================

type users struct{ s *state }

func (r users) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = newID(u.ID)
	u.CreatedAt = r.s.stamp()
	u.UpdatedAt = u.CreatedAt
	if u.Role == "" {
		u.Role = models.UserRoleCustomer
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r users) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r users) UpdateProfile(_ context.Context, id string, name, phone *string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = *phone
	}
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return &u, nil
}

func (r users) SetFCMToken(_ context.Context, id, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FCMToken = token
	r.s.users[id] = u
	return nil
}

type preferences struct{ s *state }

func (r preferences) Get(_ context.Context, userID string) (*models.NotificationPreference, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.prefs[userID]; ok {
		return &p, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (r preferences) Save(_ context.Context, p *models.NotificationPreference) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.prefs[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uint(len(r.s.prefs) + 1)
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.prefs[p.UserID] = *p
	return nil
}

// ============================================================================
// Businesses and vehicles
// ============================================================================

type businesses struct{ s *state }

func (r businesses) Create(_ context.Context, b *models.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = newID(b.ID)
	b.CreatedAt = r.s.stamp()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Owner = nil
	r.s.businesses[b.ID] = stored
	return nil
}

func (r businesses) FindByID(_ context.Context, id string) (*models.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r businesses) ListByOwner(_ context.Context, ownerID string) ([]models.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Business
	for _, b := range r.s.businesses {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type vehicles struct{ s *state }

func (r vehicles) Create(_ context.Context, v *models.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = newID(v.ID)
	v.CreatedAt = r.s.stamp()
	v.UpdatedAt = v.CreatedAt
	stored := *v
	stored.Business = nil
	stored.Photos = nil
	r.s.vehicles[v.ID] = stored
	return nil
}

// loadVehicle returns a vehicle with its business and photos. Caller holds
// the lock.
func (s *state) loadVehicle(id string) (*models.Vehicle, bool) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, false
	}
	if b, ok := s.businesses[v.BusinessID]; ok {
		v.Business = &b
	}
	for _, p := range s.photos {
		if p.VehicleID == id {
			v.Photos = append(v.Photos, p)
		}
	}
	return &v, true
}

func (r vehicles) FindByID(_ context.Context, id string) (*models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.loadVehicle(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (r vehicles) List(_ context.Context, f repository.VehicleFilter) ([]models.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Vehicle
	for id := range r.s.vehicles {
		v, _ := r.s.loadVehicle(id)
		switch {
		case !v.IsActive:
		case f.MaxPrice > 0 && v.PricePerDay > f.MaxPrice:
		case f.Make != "" && !strings.HasPrefix(strings.ToLower(v.Make), strings.ToLower(f.Make)):
		case f.City != "" && (v.Business == nil || !strings.EqualFold(v.Business.City, f.City)):
		default:
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r vehicles) AddPhoto(_ context.Context, p *models.VehiclePhoto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = newID(p.ID)
	p.CreatedAt = r.s.stamp()
	p.UpdatedAt = p.CreatedAt
	r.s.photos = append(r.s.photos, *p)
	return nil
}

// ============================================================================
// Bookings
// ============================================================================

type bookings struct{ s *state }

// overlapError has the shape Postgres reports for the exclusion constraint
func overlapError() error {
	return &pgconn.PgError{
		Code:           "23P01",
		ConstraintName: database.OverlapConstraint,
		Message:        `conflicting key value violates exclusion constraint "` + database.OverlapConstraint + `"`,
	}
}

// conflicts reports whether b would overlap a committed booking of the same
// vehicle, using half-open [start, OccupiedEnd) ranges. Caller holds the lock.
func (s *state) conflicts(b models.Booking) bool {
	if !b.Status.IsCommitted() {
		return false
	}
	for _, other := range s.bookings {
		if other.ID == b.ID || other.VehicleID != b.VehicleID || !other.Status.IsCommitted() {
			continue
		}
		if b.StartDate.Before(other.OccupiedEnd()) && other.StartDate.Before(b.OccupiedEnd()) {
			return true
		}
	}
	return false
}

func (r bookings) Create(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.ID = newID(b.ID)
	if b.Status == "" {
		b.Status = models.BookingStatusPending
	}
	if r.s.conflicts(*b) {
		return overlapError()
	}
	b.CreatedAt = r.s.stamp()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Vehicle = nil
	stored.User = nil
	r.s.bookings[b.ID] = stored
	return nil
}

func (r bookings) FindByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := r.s.loadVehicle(b.VehicleID); ok {
		v.Photos = nil
		b.Vehicle = v
	}
	return &b, nil
}

func (r bookings) ListByUser(_ context.Context, userID string, q repository.BookingListQuery) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.UserID == userID }, q), nil
}

func (r bookings) ListByVehicle(_ context.Context, vehicleID string, q repository.BookingListQuery) ([]models.Booking, error) {
	return r.list(func(b models.Booking) bool { return b.VehicleID == vehicleID }, q), nil
}

func (r bookings) list(match func(models.Booking) bool, q repository.BookingListQuery) []models.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if !match(b) || (q.Status != nil && b.Status != *q.Status) {
			continue
		}
		if q.After != nil {
			older := b.CreatedAt.Before(q.After.CreatedAt) ||
				(b.CreatedAt.Equal(q.After.CreatedAt) && b.ID < q.After.ID)
			if !older {
				continue
			}
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if q.Fetch > 0 && len(out) > q.Fetch {
		out = out[:q.Fetch]
	}
	return out
}

func (r bookings) CommittedRanges(_ context.Context, vehicleID string, since time.Time) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.VehicleID == vehicleID && b.Status.IsCommitted() && !b.EndDate.Before(since) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r bookings) Transition(_ context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if b.Status != status {
			continue
		}
		b.Status = to
		if r.s.conflicts(b) {
			return false, overlapError()
		}
		b.UpdatedAt = time.Now().UTC()
		r.s.bookings[id] = b
		return true, nil
	}
	return false, nil
}

func (r bookings) Pay(_ context.Context, booking *models.Booking, payment *models.Payment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[booking.ID]
	if !ok || b.Status != models.BookingStatusConfirmed {
		return false, nil
	}
	if existing, ok := r.s.payments[booking.ID]; ok {
		existing.Status = payment.Status
		existing.UpdatedAt = time.Now().UTC()
		r.s.payments[booking.ID] = existing
	} else {
		payment.ID = newID(payment.ID)
		payment.CreatedAt = r.s.stamp()
		payment.UpdatedAt = payment.CreatedAt
		r.s.payments[booking.ID] = *payment
	}
	b.Status = models.BookingStatusActive
	b.UpdatedAt = time.Now().UTC()
	r.s.bookings[b.ID] = b
	return true, nil
}

func (r bookings) FindPayment(_ context.Context, bookingID string) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// ============================================================================
// Messages and reviews
// ============================================================================

type messages struct{ s *state }

func (r messages) Create(_ context.Context, m *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = newID(m.ID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.s.stamp()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = m.CreatedAt
	}
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r messages) Conversation(_ context.Context, a, b string, limit int) ([]models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Message
	for _, m := range r.s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r messages) MarkRead(_ context.Context, id, receiverID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.messages {
		if m.ID == id && m.ReceiverID == receiverID {
			r.s.messages[i].IsRead = true
			r.s.messages[i].UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (r messages) Archive(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []models.Message
	var moved int64
	for _, m := range r.s.messages {
		if m.UpdatedAt.After(cutoff) {
			kept = append(kept, m)
			continue
		}
		r.s.archive = append(r.s.archive, m)
		moved++
	}
	r.s.messages = kept
	return moved, nil
}

type reviews struct{ s *state }

func (r reviews) Create(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.BookingID == review.BookingID {
			return repository.ErrDuplicate
		}
	}
	review.ID = newID(review.ID)
	review.CreatedAt = r.s.stamp()
	review.UpdatedAt = review.CreatedAt
	stored := *review
	stored.User = nil
	r.s.reviews = append(r.s.reviews, stored)
	return nil
}

func (r reviews) ListByVehicle(_ context.Context, vehicleID string) ([]models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Review
	for i := len(r.s.reviews) - 1; i >= 0; i-- {
		review := r.s.reviews[i]
		if review.VehicleID != vehicleID {
			continue
		}
		if u, ok := r.s.users[review.UserID]; ok {
			review.User = &u
		}
		out = append(out, review)
	}
	return out, nil
}
