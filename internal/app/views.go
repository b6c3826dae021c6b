package app

import (
	"time"

	"hotel_booking/internal/domain"
)

// Every projection below embeds related entities through their minimal
// view only, so nesting depth stays fixed whatever the relation graph is.

// ---- users ----

type UserListView struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type UserDetailView struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"user_role"`
}

type UserSimpleView struct {
	Username string  `json:"username"`
	Photo    *string `json:"photo"`
}

func userListView(u domain.User) UserListView {
	return UserListView{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Username: u.Username}
}

func userDetailView(u domain.User) UserDetailView {
	return UserDetailView{Username: u.Username, Role: u.Role}
}

func userSimpleView(u domain.User) UserSimpleView {
	return UserSimpleView{Username: u.Username, Photo: u.Photo}
}

// ---- countries & cities ----

type CountryImageView struct {
	Image string `json:"country_image"`
}

type CountrySimpleView struct {
	Name  string `json:"country_name"`
	Image string `json:"country_image"`
}

func countrySimpleView(c domain.Country) CountrySimpleView {
	return CountrySimpleView{Name: c.Name, Image: c.Image}
}

type CityListView struct {
	ID      int64            `json:"id"`
	Name    string           `json:"city_name"`
	Country CountryImageView `json:"country"`
	Image   string           `json:"city_image"`
}

type CitySimpleView struct {
	Name    string            `json:"city_name"`
	Image   string            `json:"city_image"`
	Country CountrySimpleView `json:"country"`
}

type CityDetailView struct {
	Name   string          `json:"city_name"`
	Hotels []HotelListView `json:"hotel"`
}

func cityListView(c domain.CityRecord) CityListView {
	return CityListView{
		ID:      c.ID,
		Name:    c.Name,
		Country: CountryImageView{Image: c.Country.Image},
		Image:   c.Image,
	}
}

func citySimpleView(c domain.City, country domain.Country) CitySimpleView {
	return CitySimpleView{Name: c.Name, Image: c.Image, Country: countrySimpleView(country)}
}

func cityDetailView(c domain.CityRecord, hotels []domain.HotelSummary) CityDetailView {
	out := CityDetailView{Name: c.Name, Hotels: make([]HotelListView, 0, len(hotels))}
	for _, h := range hotels {
		out.Hotels = append(out.Hotels, hotelListView(h))
	}
	return out
}

// ---- hotels ----

type ServiceView struct {
	Name  string `json:"service_name"`
	Image string `json:"service_image"`
}

type HotelImageView struct {
	ID    int64  `json:"id"`
	Hotel int64  `json:"hotel"`
	Image string `json:"image"`
}

type HotelSimpleView struct {
	Name string `json:"hotel_name"`
}

type HotelCountryView struct {
	Country CountrySimpleView `json:"country"`
}

type HotelListView struct {
	ID          int64            `json:"id"`
	Name        string           `json:"hotel_name"`
	City        CitySimpleView   `json:"city"`
	Images      []HotelImageView `json:"hotel_image"`
	Stars       *int             `json:"hotel_stars"`
	Description string           `json:"description"`
	AvgRating   float64          `json:"avg_rating"`
	CountPeople int              `json:"count_people"`
}

type HotelDetailView struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"hotel_name"`
	Street      string                 `json:"street"`
	PostalCode  uint32                 `json:"postal_code"`
	City        CitySimpleView         `json:"city"`
	Country     CountrySimpleView      `json:"country"`
	Images      []HotelImageView       `json:"hotel_image"`
	Video       *string                `json:"hotel_video"`
	Stars       *int                   `json:"hotel_stars"`
	Description string                 `json:"description"`
	Services    []ServiceView          `json:"service"`
	Owner       UserDetailView         `json:"owner"`
	AvgRating   float64                `json:"avg_rating"`
	CountPeople int                    `json:"count_people"`
	Rooms       []RoomListView         `json:"hotel_room"`
	Reviews     []HotelReviewEntryView `json:"review"`
}

// HotelReviewEntryView is a review as embedded in a hotel detail.
type HotelReviewEntryView struct {
	User  UserSimpleView   `json:"user"`
	Hotel HotelCountryView `json:"hotel"`
	Text  string           `json:"text"`
}

func hotelImageViews(imgs []domain.HotelImage) []HotelImageView {
	out := make([]HotelImageView, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, HotelImageView{ID: img.ID, Hotel: img.HotelID, Image: img.Image})
	}
	return out
}

func hotelListView(h domain.HotelSummary) HotelListView {
	return HotelListView{
		ID:          h.ID,
		Name:        h.Name,
		City:        citySimpleView(h.City, h.Country),
		Images:      hotelImageViews(h.Images),
		Stars:       h.Stars,
		Description: h.Description,
		AvgRating:   h.Rating.Average(),
		CountPeople: h.Rating.Count,
	}
}

func hotelDetailView(h domain.HotelAggregate) HotelDetailView {
	out := HotelDetailView{
		ID:          h.ID,
		Name:        h.Name,
		Street:      h.Street,
		PostalCode:  h.PostalCode,
		City:        citySimpleView(h.City, h.Country),
		Country:     countrySimpleView(h.Country),
		Images:      hotelImageViews(h.Images),
		Video:       h.Video,
		Stars:       h.Stars,
		Description: h.Description,
		Services:    make([]ServiceView, 0, len(h.Services)),
		Owner:       userDetailView(h.Owner),
		AvgRating:   h.Rating.Average(),
		CountPeople: h.Rating.Count,
		Rooms:       make([]RoomListView, 0, len(h.Rooms)),
		Reviews:     make([]HotelReviewEntryView, 0, len(h.Reviews)),
	}
	for _, s := range h.Services {
		out.Services = append(out.Services, ServiceView{Name: s.Name, Image: s.Image})
	}
	for _, r := range h.Rooms {
		out.Rooms = append(out.Rooms, roomListView(r))
	}
	for _, rv := range h.Reviews {
		out.Reviews = append(out.Reviews, HotelReviewEntryView{
			User:  userSimpleView(rv.Author),
			Hotel: HotelCountryView{Country: countrySimpleView(rv.Country)},
			Text:  rv.Text,
		})
	}
	return out
}

// ---- rooms ----

type RoomListView struct {
	ID   int64           `json:"id"`
	Type domain.RoomType `json:"room_type"`
}

type RoomSimpleView struct {
	Number uint32 `json:"room_number"`
}

type RoomImageView struct {
	ID    int64  `json:"id"`
	Room  int64  `json:"room"`
	Image string `json:"image"`
}

type RoomDetailView struct {
	Hotel       HotelSimpleView   `json:"hotel"`
	Number      uint32            `json:"room_number"`
	Images      []RoomImageView   `json:"image"`
	Type        domain.RoomType   `json:"room_type"`
	Status      domain.RoomStatus `json:"room_status"`
	Price       string            `json:"price"`
	Description string            `json:"description"`
}

func roomListView(r domain.Room) RoomListView { return RoomListView{ID: r.ID, Type: r.Type} }

func roomDetailView(r domain.RoomRecord) RoomDetailView {
	out := RoomDetailView{
		Hotel:       HotelSimpleView{Name: r.Hotel.Name},
		Number:      r.Number,
		Images:      make([]RoomImageView, 0, len(r.Images)),
		Type:        r.Type,
		Status:      r.Status,
		Price:       r.Price,
		Description: r.Description,
	}
	for _, img := range r.Images {
		out.Images = append(out.Images, RoomImageView{ID: img.ID, Room: img.RoomID, Image: img.Image})
	}
	return out
}

// ---- bookings & reviews ----

type BookingView struct {
	ID       int64           `json:"id"`
	User     UserDetailView  `json:"user"`
	Hotel    HotelSimpleView `json:"hotel"`
	Room     RoomSimpleView  `json:"room"`
	CheckIn  Date            `json:"check_in"`
	CheckOut *Date           `json:"check_out"`
}

func bookingView(b domain.BookingRecord) BookingView {
	out := BookingView{
		ID:      b.ID,
		User:    userDetailView(b.User),
		Hotel:   HotelSimpleView{Name: b.Hotel.Name},
		Room:    RoomSimpleView{Number: b.Room.Number},
		CheckIn: Date{b.CheckIn},
	}
	if b.CheckOut != nil {
		out.CheckOut = &Date{*b.CheckOut}
	}
	return out
}

type ReviewView struct {
	User      UserDetailView  `json:"user"`
	Hotel     HotelSimpleView `json:"hotel"`
	Stars     int             `json:"stars"`
	Text      string          `json:"text"`
	CreatedAt time.Time       `json:"created_date"`
}

func reviewView(r domain.ReviewRecord) ReviewView {
	return ReviewView{
		User:      userDetailView(r.Author),
		Hotel:     HotelSimpleView{Name: r.Hotel.Name},
		Stars:     r.Stars,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// Paged is one page of a list plus the total row count across pages.
type Paged[T any] struct {
	Items []T
	Total int
}
