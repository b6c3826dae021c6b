package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"

	"hotel_booking/internal/domain"
)

// ---- users ----

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]domain.User
	nextID int64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int64]domain.User{}} }

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.byID {
		if x.Username == u.Username {
			ve := domain.NewValidationError("username", "already exists")
			ve.Err = domain.ErrConflict
			return 0, ve
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return u.ID, nil
}

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := f.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for id := int64(1); id <= f.nextID; id++ {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- revocation ----

type fakeRevoked struct {
	mu   sync.Mutex
	rows map[string]domain.RevokedToken
}

func newFakeRevoked() *fakeRevoked { return &fakeRevoked{rows: map[string]domain.RevokedToken{}} }

func (f *fakeRevoked) RevokeToken(ctx context.Context, t domain.RevokedToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[t.JTI]; ok {
		return domain.ErrConflict
	}
	f.rows[t.JTI] = t
	return nil
}

func (f *fakeRevoked) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[jti]
	return ok, nil
}

func (f *fakeRevoked) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, t := range f.rows {
		if t.ExpiresAt.Before(now) {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

// ---- cache ----

// fakeCache stores JSON like the Redis adapter does, so cached values never
// alias the caller's slices.
type fakeCache struct {
	store map[string][]byte
	ttls  map[string]int
	sets  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}, ttls: map[string]int{}} }

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.ttls[key] = ttlSec
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

// ---- catalog ----

type fakeCatalog struct {
	mu sync.Mutex

	cities    []domain.CityRecord
	hotels    []domain.HotelSummary
	aggregate map[int64]domain.HotelAggregate
	rooms     []domain.RoomRecord
	reviews   []domain.ReviewRecord

	lastHotels domain.HotelsQuery
	lastRooms  domain.RoomsQuery
	cityCalls  int

	// writer state
	countries   map[string]domain.Country
	cityRows    []domain.City
	services    map[string]domain.Service
	hotelRows   []domain.Hotel
	hotelImages []domain.HotelImage
	roomRows    []domain.Room
	roomImages  []domain.RoomImage
	nextID      int64
	// CreateRoom fails for these room numbers
	failRooms map[uint32]bool
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		aggregate: map[int64]domain.HotelAggregate{},
		countries: map[string]domain.Country{},
		services:  map[string]domain.Service{},
	}
}

func (f *fakeCatalog) ListCities(ctx context.Context) ([]domain.CityRecord, error) {
	f.cityCalls++
	return f.cities, nil
}

func (f *fakeCatalog) GetCity(ctx context.Context, id int64) (domain.CityRecord, error) {
	for _, c := range f.cities {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.CityRecord{}, domain.ErrNotFound
}

func (f *fakeCatalog) ListHotelsByCity(ctx context.Context, cityID int64) ([]domain.HotelSummary, error) {
	var out []domain.HotelSummary
	for _, h := range f.hotels {
		if h.CityID == cityID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	f.lastHotels = q
	return domain.HotelsPage{Items: f.hotels, Total: len(f.hotels)}, nil
}

func (f *fakeCatalog) GetHotel(ctx context.Context, id int64) (domain.HotelAggregate, error) {
	h, ok := f.aggregate[id]
	if !ok {
		return domain.HotelAggregate{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeCatalog) ListRooms(ctx context.Context, q domain.RoomsQuery) (domain.RoomsPage, error) {
	f.lastRooms = q
	return domain.RoomsPage{Items: f.rooms, Total: len(f.rooms)}, nil
}

func (f *fakeCatalog) GetRoom(ctx context.Context, id int64) (domain.RoomRecord, error) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.RoomRecord{}, domain.ErrNotFound
}

func (f *fakeCatalog) ListReviews(ctx context.Context) ([]domain.ReviewRecord, error) {
	return f.reviews, nil
}

func (f *fakeCatalog) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeCatalog) CreateCountry(ctx context.Context, c domain.Country) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	f.countries[c.Name] = c
	return c.ID, nil
}

func (f *fakeCatalog) FindCountryByName(ctx context.Context, name string) (domain.Country, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.countries[name]
	if !ok {
		return domain.Country{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCatalog) DeleteCountry(ctx context.Context, id int64) error { return nil }

func (f *fakeCatalog) CreateCity(ctx context.Context, c domain.City) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	f.cityRows = append(f.cityRows, c)
	return c.ID, nil
}

func (f *fakeCatalog) FindCityByName(ctx context.Context, countryID int64, name string) (domain.City, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cityRows {
		if c.CountryID == countryID && c.Name == name {
			return c, nil
		}
	}
	return domain.City{}, domain.ErrNotFound
}

func (f *fakeCatalog) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.id()
	f.services[s.Name] = s
	return s.ID, nil
}

func (f *fakeCatalog) FindServiceByName(ctx context.Context, name string) (domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[name]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeCatalog) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.hotelRows {
		if x.PostalCode == h.PostalCode {
			ve := domain.NewValidationError("postal_code", "already exists")
			ve.Err = domain.ErrConflict
			return 0, ve
		}
	}
	linked := map[int64]bool{}
	for _, sid := range h.ServiceIDs {
		if linked[sid] {
			ve := domain.NewValidationError("non_field_errors", "a record with this non field errors already exists")
			ve.Err = domain.ErrConflict
			return 0, ve
		}
		linked[sid] = true
	}
	h.ID = f.id()
	f.hotelRows = append(f.hotelRows, h)
	return h.ID, nil
}

// DeleteHotel cascades to images, rooms and room images like the schema does.
func (f *fakeCatalog) DeleteHotel(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotelRows = slices.DeleteFunc(f.hotelRows, func(h domain.Hotel) bool { return h.ID == id })
	f.hotelImages = slices.DeleteFunc(f.hotelImages, func(i domain.HotelImage) bool { return i.HotelID == id })
	gone := map[int64]bool{}
	f.roomRows = slices.DeleteFunc(f.roomRows, func(r domain.Room) bool {
		if r.HotelID == id {
			gone[r.ID] = true
		}
		return r.HotelID == id
	})
	f.roomImages = slices.DeleteFunc(f.roomImages, func(i domain.RoomImage) bool { return gone[i.RoomID] })
	return nil
}

func (f *fakeCatalog) AddHotelImage(ctx context.Context, img domain.HotelImage) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img.ID = f.id()
	f.hotelImages = append(f.hotelImages, img)
	return img.ID, nil
}

func (f *fakeCatalog) CreateRoom(ctx context.Context, r domain.Room) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRooms[r.Number] {
		return 0, errors.New("insert room: deadlock")
	}
	r.ID = f.id()
	f.roomRows = append(f.roomRows, r)
	return r.ID, nil
}

func (f *fakeCatalog) DeleteRoom(ctx context.Context, id int64) error { return nil }

func (f *fakeCatalog) AddRoomImage(ctx context.Context, img domain.RoomImage) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img.ID = f.id()
	f.roomImages = append(f.roomImages, img)
	return img.ID, nil
}

func (f *fakeCatalog) CreateReview(ctx context.Context, r domain.Review) (int64, error) {
	return f.id(), nil
}

// ---- bookings ----

type fakeBookings struct {
	rows      map[int64]domain.Booking
	roomHotel map[int64]int64
	nextID    int64
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{rows: map[int64]domain.Booking{}, roomHotel: map[int64]int64{}}
}

func (f *fakeBookings) record(b domain.Booking) domain.BookingRecord {
	return domain.BookingRecord{
		Booking: b,
		User:    domain.User{ID: b.UserID, Username: "user", Role: domain.RoleClient},
		Hotel:   domain.Hotel{ID: b.HotelID, Name: "Hotel"},
		Room:    domain.Room{ID: b.RoomID, Number: uint32(100 + b.RoomID)},
	}
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b domain.Booking) (int64, error) {
	f.nextID++
	b.ID = f.nextID
	b.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.rows[b.ID] = b
	return b.ID, nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id int64) (domain.BookingRecord, error) {
	b, ok := f.rows[id]
	if !ok {
		return domain.BookingRecord{}, domain.ErrNotFound
	}
	return f.record(b), nil
}

func (f *fakeBookings) ListBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	for id := int64(1); id <= f.nextID; id++ {
		if b, ok := f.rows[id]; ok {
			out = append(out, f.record(b))
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateBooking(ctx context.Context, b domain.Booking) error {
	if _, ok := f.rows[b.ID]; !ok {
		return domain.ErrNotFound
	}
	f.rows[b.ID] = b
	return nil
}

func (f *fakeBookings) DeleteBooking(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBookings) RoomHotel(ctx context.Context, roomID int64) (int64, error) {
	h, ok := f.roomHotel[roomID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return h, nil
}

// ---- feed ----

type fakeFeed struct {
	cat domain.Catalog
	err error
}

func (f fakeFeed) FetchCatalog(ctx context.Context) (domain.Catalog, error) { return f.cat, f.err }

func ptr[T any](v T) *T { return &v }
