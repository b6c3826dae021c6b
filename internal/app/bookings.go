package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// BookingInput is the write body of /booking/. Pointers separate absent
// fields from zero values so PATCH can leave them untouched.
type BookingInput struct {
	Hotel    *int64       `json:"hotel"`
	Room     *int64       `json:"room"`
	CheckIn  *Date        `json:"check_in"`
	CheckOut NullableDate `json:"check_out"`
}

type BookingService struct {
	repo domain.BookingRepository
}

func NewBookingService(r domain.BookingRepository) *BookingService {
	return &BookingService{repo: r}
}

func (s *BookingService) List(ctx context.Context) ([]BookingView, error) {
	bs, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingView(b))
	}
	return out, nil
}

func (s *BookingService) Get(ctx context.Context, id int64) (BookingView, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return BookingView{}, err
	}
	return bookingView(b), nil
}

// Create books a room for userID, the authenticated caller.
func (s *BookingService) Create(ctx context.Context, userID int64, in BookingInput) (BookingView, error) {
	if userID == 0 {
		return BookingView{}, domain.ErrPermissionDenied
	}
	b := domain.Booking{UserID: userID}
	if err := apply(&b, in, false); err != nil {
		return BookingView{}, err
	}
	if err := s.check(ctx, b); err != nil {
		return BookingView{}, err
	}
	id, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return BookingView{}, err
	}
	log.Info().Int64("booking_id", id).Int64("user_id", userID).Int64("room_id", b.RoomID).Msg("booking created")
	return s.Get(ctx, id)
}

// Update replaces a booking (partial=false) or changes only the fields
// present in the body (partial=true). The booking keeps its user and
// creation time.
func (s *BookingService) Update(ctx context.Context, userID, id int64, in BookingInput, partial bool) (BookingView, error) {
	if userID == 0 {
		return BookingView{}, domain.ErrPermissionDenied
	}
	cur, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return BookingView{}, err
	}
	b := cur.Booking
	if err := apply(&b, in, partial); err != nil {
		return BookingView{}, err
	}
	if err := s.check(ctx, b); err != nil {
		return BookingView{}, err
	}
	if err := s.repo.UpdateBooking(ctx, b); err != nil {
		return BookingView{}, err
	}
	return s.Get(ctx, id)
}

func (s *BookingService) Delete(ctx context.Context, userID, id int64) error {
	if userID == 0 {
		return domain.ErrPermissionDenied
	}
	return s.repo.DeleteBooking(ctx, id)
}

// apply copies the input onto b. Outside partial mode hotel, room and
// check_in are all required and an absent check_out clears it.
func apply(b *domain.Booking, in BookingInput, partial bool) error {
	ve := &domain.ValidationError{}
	if in.Hotel != nil {
		b.HotelID = *in.Hotel
	} else if !partial {
		ve.Add("hotel", "this field is required")
	}
	if in.Room != nil {
		b.RoomID = *in.Room
	} else if !partial {
		ve.Add("room", "this field is required")
	}
	if in.CheckIn != nil {
		b.CheckIn = in.CheckIn.Time
	} else if !partial {
		ve.Add("check_in", "this field is required")
	}
	if in.CheckOut.Set || !partial {
		b.CheckOut = in.CheckOut.Ptr()
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func (s *BookingService) check(ctx context.Context, b domain.Booking) error {
	if err := validateStruct(b); err != nil {
		return err
	}
	if b.CheckOut != nil && b.CheckOut.Before(b.CheckIn) {
		return domain.NewValidationError("check_out", "check-out must not be before check-in")
	}
	hotelID, err := s.repo.RoomHotel(ctx, b.RoomID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("room", "invalid pk - object does not exist")
	}
	if err != nil {
		return err
	}
	if hotelID != b.HotelID {
		return domain.NewValidationError("room", "room does not belong to the selected hotel")
	}
	return nil
}
