package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chachabrian/rentmyride-backend/internal/models"
	"github.com/chachabrian/rentmyride-backend/internal/repository"
	"github.com/google/uuid"
)

// ============================================================================
// Bookings
// ============================================================================

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	payments map[string]*models.Payment
	vehicles *fakeVehicleRepo

	findErrs       []error // consumed one per FindByID call
	transitionErrs []error // consumed one per Transition call
	createErr      error
	// beforeTransition runs before the conditional update, simulating a
	// concurrent writer
	beforeTransition func(id string)
	findCalls        int
	transitionCalls  int
	clock            time.Time
}

func newFakeBookingRepo(vehicles *fakeVehicleRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[string]*models.Booking{},
		payments: map[string]*models.Payment{},
		vehicles: vehicles,
		clock:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeBookingRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = r.tick()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	stored.Vehicle = nil
	r.bookings[b.ID] = &stored
	return nil
}

func (r *fakeBookingRepo) put(b *models.Booking) *models.Booking {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b.CreatedAt = r.tick()
	stored := *b
	stored.Vehicle = nil
	r.bookings[b.ID] = &stored
	return b
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	r.findCalls++
	if len(r.findErrs) > 0 {
		err := r.findErrs[0]
		r.findErrs = r.findErrs[1:]
		r.mu.Unlock()
		return nil, err
	}
	stored, ok := r.bookings[id]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	b := *stored
	if v, err := r.vehicles.FindByID(ctx, b.VehicleID); err == nil {
		b.Vehicle = v
	}
	return &b, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string, q repository.BookingListQuery) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.UserID == userID }, q), nil
}

func (r *fakeBookingRepo) ListByVehicle(_ context.Context, vehicleID string, q repository.BookingListQuery) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.VehicleID == vehicleID }, q), nil
}

func (r *fakeBookingRepo) list(match func(*models.Booking) bool, q repository.BookingListQuery) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rows []models.Booking
	for _, b := range r.bookings {
		if !match(b) {
			continue
		}
		if q.Status != nil && b.Status != *q.Status {
			continue
		}
		if q.After != nil {
			older := b.CreatedAt.Before(q.After.CreatedAt) ||
				(b.CreatedAt.Equal(q.After.CreatedAt) && b.ID < q.After.ID)
			if !older {
				continue
			}
		}
		rows = append(rows, *b)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if q.Fetch > 0 && len(rows) > q.Fetch {
		rows = rows[:q.Fetch]
	}
	return rows
}

func (r *fakeBookingRepo) CommittedRanges(_ context.Context, vehicleID string, since time.Time) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []models.Booking
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID && b.Status.IsCommitted() && !b.EndDate.Before(since) {
			rows = append(rows, *b)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].StartDate.Before(rows[j].StartDate) })
	return rows, nil
}

func (r *fakeBookingRepo) Transition(_ context.Context, id string, from []models.BookingStatus, to models.BookingStatus) (bool, error) {
	if r.beforeTransition != nil {
		r.beforeTransition(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitionCalls++
	if len(r.transitionErrs) > 0 {
		err := r.transitionErrs[0]
		r.transitionErrs = r.transitionErrs[1:]
		if err != nil {
			return false, err
		}
	}
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			b.UpdatedAt = r.tick()
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) Pay(_ context.Context, booking *models.Booking, payment *models.Payment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[booking.ID]
	if !ok || b.Status != models.BookingStatusConfirmed {
		return false, nil
	}
	if existing, ok := r.payments[booking.ID]; ok {
		existing.Status = payment.Status
	} else {
		payment.ID = uuid.NewString()
		r.payments[booking.ID] = payment
	}
	b.Status = models.BookingStatusActive
	return true, nil
}

func (r *fakeBookingRepo) FindPayment(_ context.Context, bookingID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakeBookingRepo) status(id string) models.BookingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id].Status
}

// ============================================================================
// Vehicles and businesses
// ============================================================================

type fakeVehicleRepo struct {
	mu         sync.Mutex
	vehicles   map[string]*models.Vehicle
	businesses *fakeBusinessRepo
	photos     []models.VehiclePhoto
}

func newFakeVehicleRepo(businesses *fakeBusinessRepo) *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[string]*models.Vehicle{}, businesses: businesses}
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	stored := *v
	stored.Business = nil
	r.vehicles[v.ID] = &stored
	return nil
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	r.mu.Lock()
	stored, ok := r.vehicles[id]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := *stored
	if b, err := r.businesses.FindByID(ctx, v.BusinessID); err == nil {
		v.Business = b
	}
	return &v, nil
}

func (r *fakeVehicleRepo) List(ctx context.Context, filter repository.VehicleFilter) ([]models.Vehicle, error) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.vehicles))
	for id := range r.vehicles {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	sort.Strings(ids)

	var out []models.Vehicle
	for _, id := range ids {
		v, _ := r.FindByID(ctx, id)
		if !v.IsActive {
			continue
		}
		if filter.MaxPrice > 0 && v.PricePerDay > filter.MaxPrice {
			continue
		}
		if filter.Make != "" && v.Make != filter.Make {
			continue
		}
		if filter.City != "" && (v.Business == nil || v.Business.City != filter.City) {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeVehicleRepo) AddPhoto(_ context.Context, p *models.VehiclePhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.NewString()
	r.photos = append(r.photos, *p)
	return nil
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*models.Business
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: map[string]*models.Business{}}
}

func (r *fakeBusinessRepo) Create(_ context.Context, b *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	stored := *b
	r.businesses[b.ID] = &stored
	return nil
}

func (r *fakeBusinessRepo) FindByID(_ context.Context, id string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBusinessRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Business
	for _, b := range r.businesses {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ============================================================================
// Notifier and cache
// ============================================================================

type recordingNotifier struct {
	mu     sync.Mutex
	events []BookingEvent
}

func (n *recordingNotifier) BookingChanged(_ context.Context, e BookingEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) last() BookingEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type memoryCache struct {
	mu          sync.Mutex
	ranges      map[string][]DateRange
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{ranges: map[string][]DateRange{}}
}

func (c *memoryCache) Get(_ context.Context, id string) ([]DateRange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.ranges[id]
	return r, ok
}

func (c *memoryCache) Set(_ context.Context, id string, r []DateRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranges[id] = r
}

func (c *memoryCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ranges, id)
	c.invalidated = append(c.invalidated, id)
}

// ============================================================================
// World: one owner, one customer, one vehicle
// ============================================================================

type world struct {
	businesses *fakeBusinessRepo
	vehicles   *fakeVehicleRepo
	bookings   *fakeBookingRepo
	notifier   *recordingNotifier
	cache      *memoryCache

	ownerID    string
	customerID string
	strangerID string
	vehicle    *models.Vehicle
}

func newWorld() *world {
	w := &world{
		businesses: newFakeBusinessRepo(),
		notifier:   &recordingNotifier{},
		cache:      newMemoryCache(),
		ownerID:    uuid.NewString(),
		customerID: uuid.NewString(),
		strangerID: uuid.NewString(),
	}
	w.vehicles = newFakeVehicleRepo(w.businesses)
	w.bookings = newFakeBookingRepo(w.vehicles)

	ctx := context.Background()
	business := &models.Business{Name: "OwnerRentals", City: "Nairobi", OwnerID: w.ownerID}
	_ = w.businesses.Create(ctx, business)
	w.vehicle = &models.Vehicle{BusinessID: business.ID, Make: "Toyota", Model: "Yaris", Year: 2022, PricePerDay: 45.99, IsActive: true}
	_ = w.vehicles.Create(ctx, w.vehicle)
	return w
}

func (w *world) booking(status models.BookingStatus) *models.Booking {
	start := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)
	return w.bookings.put(&models.Booking{
		VehicleID:  w.vehicle.ID,
		UserID:     w.customerID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 3),
		TotalDays:  3,
		TotalPrice: 137.97,
		Status:     status,
	})
}

// ============================================================================
// Users, preferences, messages, reviews
// ============================================================================

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, name, phone *string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = *phone
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) SetFCMToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FCMToken = token
	return nil
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	_ = r.Create(context.Background(), u)
	return u
}

type fakePreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]models.NotificationPreference
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: map[string]models.NotificationPreference{}}
}

func (r *fakePreferenceRepo) Get(_ context.Context, userID string) (*models.NotificationPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prefs[userID]; ok {
		return &p, nil
	}
	return models.DefaultPreferences(userID), nil
}

func (r *fakePreferenceRepo) Save(_ context.Context, p *models.NotificationPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[p.UserID] = *p
	return nil
}

type fakeMessageRepo struct {
	mu         sync.Mutex
	messages   []models.Message
	archived   []models.Message
	clock      time.Time
	archiveErr error
}

func (r *fakeMessageRepo) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		r.clock = r.clock.Add(time.Second)
		m.CreatedAt = r.clock
		m.UpdatedAt = r.clock
	}
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeMessageRepo) Conversation(_ context.Context, a, b string, limit int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id, receiverID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id && r.messages[i].ReceiverID == receiverID {
			r.messages[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMessageRepo) Archive(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.archiveErr != nil {
		return 0, r.archiveErr
	}
	var kept []models.Message
	var moved int64
	for _, m := range r.messages {
		if !m.UpdatedAt.After(cutoff) {
			r.archived = append(r.archived, m)
			moved++
			continue
		}
		kept = append(kept, m)
	}
	r.messages = kept
	return moved, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []models.Review
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookingID == review.BookingID {
			return repository.ErrDuplicate
		}
	}
	review.ID = uuid.NewString()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) ListByVehicle(_ context.Context, vehicleID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Review
	for _, review := range r.reviews {
		if review.VehicleID == vehicleID {
			out = append(out, review)
		}
	}
	return out, nil
}
