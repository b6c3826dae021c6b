package domain

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleOwner  Role = "owner"
)

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomFamily   RoomType = "family"
	RoomSingle   RoomType = "single"
	RoomSuite    RoomType = "suite"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomFamily, RoomSingle, RoomSuite:
		return true
	}
	return false
}

type RoomStatus string

const (
	RoomOccupied RoomStatus = "occupied"
	RoomBooked   RoomStatus = "booked"
	RoomFree     RoomStatus = "free"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomOccupied, RoomBooked, RoomFree:
		return true
	}
	return false
}

type Country struct {
	ID    int64  `db:"id"`
	Name  string `db:"country_name" validate:"required,max=50"`
	Image string `db:"country_image" validate:"max=255"`
}

type User struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username" validate:"required,max=150"`
	Password       string    `db:"password"` // bcrypt hash, never the raw password
	Email          string    `db:"email" validate:"omitempty,email,max=254"`
	FirstName      string    `db:"first_name" validate:"max=150"`
	LastName       string    `db:"last_name" validate:"max=150"`
	Age            *int      `db:"age" validate:"omitempty,min=18,max=60"`
	Photo          *string   `db:"photo"`
	Role           Role      `db:"user_role" validate:"oneof=client owner"`
	Phone          *string   `db:"phone" validate:"omitempty,e164"`
	CountryID      *int64    `db:"country_id"`
	IsActive       bool      `db:"is_active"`
	DateRegistered time.Time `db:"date_registered"`
}

type City struct {
	ID        int64  `db:"id"`
	Name      string `db:"city_name" validate:"required,max=50"`
	Image     string `db:"city_image" validate:"max=255"`
	CountryID int64  `db:"country_id" validate:"required"`
}

type Service struct {
	ID    int64  `db:"id"`
	Name  string `db:"service_name" validate:"required,max=50"`
	Image string `db:"service_image" validate:"max=255"`
}

type Hotel struct {
	ID          int64   `db:"id"`
	CreatorID   int64   `db:"user_id" validate:"required"`
	OwnerID     int64   `db:"owner_id" validate:"required"`
	CountryID   int64   `db:"country_id" validate:"required"`
	CityID      int64   `db:"city_id" validate:"required"`
	Name        string  `db:"hotel_name" validate:"required,max=100"`
	Street      string  `db:"street" validate:"required,max=100"`
	PostalCode  uint32  `db:"postal_code" validate:"required"`
	Stars       *int    `db:"hotel_stars" validate:"omitempty,min=1,max=5"`
	Video       *string `db:"hotel_video"`
	Description string  `db:"description"`
	ServiceIDs  []int64 `db:"-"`
}

type HotelImage struct {
	ID      int64  `db:"id"`
	HotelID int64  `db:"hotel_id" validate:"required"`
	Image   string `db:"image" validate:"required,max=255"`
}

type Room struct {
	ID          int64      `db:"id"`
	HotelID     int64      `db:"hotel_id" validate:"required"`
	Number      uint32     `db:"room_number" validate:"required"`
	Type        RoomType   `db:"room_type" validate:"oneof=standard family single suite"`
	Status      RoomStatus `db:"room_status" validate:"oneof=occupied booked free"`
	Price       string     `db:"price" validate:"required,numeric"` // DECIMAL(10,2) kept as text
	Description string     `db:"description"`
}

type RoomImage struct {
	ID     int64  `db:"id"`
	RoomID int64  `db:"room_id" validate:"required"`
	Image  string `db:"image" validate:"required,max=255"`
}

type Booking struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id" validate:"required"`
	HotelID   int64      `db:"hotel_id" validate:"required"`
	RoomID    int64      `db:"room_id" validate:"required"`
	CheckIn   time.Time  `db:"check_in" validate:"required"`
	CheckOut  *time.Time `db:"check_out"` // nil for an open-ended stay
	CreatedAt time.Time  `db:"created_date"`
}

type Review struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id" validate:"required"`
	HotelID   int64     `db:"hotel_id" validate:"required"`
	Stars     int       `db:"stars" validate:"min=1,max=5"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_date"`
}
