package domain

import (
	"context"
	"math"
	"time"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]User, error)
}

type CatalogRepository interface {
	ListCities(ctx context.Context) ([]CityRecord, error)
	GetCity(ctx context.Context, id int64) (CityRecord, error)
	ListHotelsByCity(ctx context.Context, cityID int64) ([]HotelSummary, error)

	ListHotels(ctx context.Context, q HotelsQuery) (HotelsPage, error)
	GetHotel(ctx context.Context, id int64) (HotelAggregate, error)

	ListRooms(ctx context.Context, q RoomsQuery) (RoomsPage, error)
	GetRoom(ctx context.Context, id int64) (RoomRecord, error)

	ListReviews(ctx context.Context) ([]ReviewRecord, error)
}

// CatalogWriter covers the write paths used to populate the catalog.
type CatalogWriter interface {
	CreateCountry(ctx context.Context, c Country) (int64, error)
	FindCountryByName(ctx context.Context, name string) (Country, error)
	DeleteCountry(ctx context.Context, id int64) error
	CreateCity(ctx context.Context, c City) (int64, error)
	FindCityByName(ctx context.Context, countryID int64, name string) (City, error)
	CreateService(ctx context.Context, s Service) (int64, error)
	FindServiceByName(ctx context.Context, name string) (Service, error)
	CreateHotel(ctx context.Context, h Hotel) (int64, error)
	DeleteHotel(ctx context.Context, id int64) error
	AddHotelImage(ctx context.Context, img HotelImage) (int64, error)
	CreateRoom(ctx context.Context, r Room) (int64, error)
	DeleteRoom(ctx context.Context, id int64) error
	AddRoomImage(ctx context.Context, img RoomImage) (int64, error)
	CreateReview(ctx context.Context, r Review) (int64, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) (int64, error)
	GetBooking(ctx context.Context, id int64) (BookingRecord, error)
	ListBookings(ctx context.Context) ([]BookingRecord, error)
	UpdateBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id int64) error
	// RoomHotel returns the hotel a room belongs to.
	RoomHotel(ctx context.Context, roomID int64) (int64, error)
}

// RevocationStore is the durable set of blacklisted tokens keyed by jti.
type RevocationStore interface {
	RevokeToken(ctx context.Context, t RevokedToken) error // ErrConflict when already present
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// CatalogFeed fetches the bulk import document.
type CatalogFeed interface {
	FetchCatalog(ctx context.Context) (Catalog, error)
}

type RevokedToken struct {
	JTI           string    `db:"jti"`
	UserID        int64     `db:"user_id"`
	TokenType     string    `db:"token_type"`
	ExpiresAt     time.Time `db:"expires_at"`
	BlacklistedAt time.Time `db:"blacklisted_at"`
}

// Read models

type CityRecord struct {
	City
	Country Country `db:"country"`
}

type HotelSummary struct {
	Hotel
	City    City         `db:"city"`
	Country Country      `db:"country"`
	Rating  RatingStats  `db:"rating"`
	Images  []HotelImage `db:"-"`
}

type HotelAggregate struct {
	HotelSummary
	Owner    User           `db:"owner"`
	Services []Service      `db:"-"`
	Rooms    []Room         `db:"-"`
	Reviews  []ReviewRecord `db:"-"`
}

type ReviewRecord struct {
	Review
	Author  User    `db:"author"`
	Hotel   Hotel   `db:"hotel"`
	Country Country `db:"country"` // the reviewed hotel's country
}

type RoomRecord struct {
	Room
	Hotel  Hotel       `db:"hotel"`
	Images []RoomImage `db:"-"`
}

type BookingRecord struct {
	Booking
	User  User  `db:"user"`
	Hotel Hotel `db:"hotel"`
	Room  Room  `db:"room"`
}

// Queries & pages

type PageQuery struct {
	Page  int // 1-based
	Limit int
}

// Offset is the number of rows before the page. It saturates at
// math.MaxInt instead of wrapping for absurd page numbers.
func (p PageQuery) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

type HotelsQuery struct {
	CityID    *int64
	CountryID *int64
	MinStars  *int
	MaxStars  *int
	ServiceID *int64
	Search    string
	Ordering  string // "", "hotel_stars" or "-hotel_stars"
	Page      PageQuery
}

type RoomsQuery struct {
	HotelID  *int64
	Type     *RoomType
	Status   *RoomStatus
	MinPrice *string
	MaxPrice *string
	Search   string
	Ordering string // "", "price" or "-price"
	Page     PageQuery
}

type HotelsPage struct {
	Items []HotelSummary
	Total int
}

type RoomsPage struct {
	Items []RoomRecord
	Total int
}

// Catalog is the bulk import document.
type Catalog struct {
	Countries []CatalogCountry `json:"countries"`
	Services  []CatalogService `json:"services"`
	Owners    []CatalogOwner   `json:"owners"`
}

type CatalogCountry struct {
	Name   string        `json:"name"`
	Image  string        `json:"image"`
	Cities []CatalogCity `json:"cities"`
}

type CatalogCity struct {
	Name   string         `json:"name"`
	Image  string         `json:"image"`
	Hotels []CatalogHotel `json:"hotels"`
}

type CatalogHotel struct {
	Name        string        `json:"name"`
	Street      string        `json:"street"`
	PostalCode  uint32        `json:"postal_code"`
	Stars       *int          `json:"stars"`
	Video       *string       `json:"video"`
	Description string        `json:"description"`
	Owner       string        `json:"owner"` // username from Owners
	Services    []string      `json:"services"`
	Images      []string      `json:"images"`
	Rooms       []CatalogRoom `json:"rooms"`
}

type CatalogRoom struct {
	Number      uint32   `json:"number"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type CatalogService struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type CatalogOwner struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

type TokenPair struct {
	Access  string
	Refresh string
}

type TokenClaims struct {
	JTI       string
	UserID    int64
	Type      string
	ExpiresAt time.Time
}

type TokenService interface {
	IssuePair(userID int64) (TokenPair, error)
	IssueAccess(userID int64) (string, error)
	// Parse verifies the token and that it is of wantType.
	Parse(raw, wantType string) (TokenClaims, error)
}
