package mysql

import (
	"context"
	"time"

	"hotel_booking/internal/domain"
)

func dateOnly(t time.Time) string { return t.Format(time.DateOnly) }

func valDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return dateOnly(*t)
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) (int64, error) {
	return r.insert(ctx, insertBookingSQL, b.UserID, b.HotelID, b.RoomID, dateOnly(b.CheckIn), valDate(b.CheckOut))
}

func (r *Repo) GetBooking(ctx context.Context, id int64) (domain.BookingRecord, error) {
	var b domain.BookingRecord
	if err := r.db.GetContext(ctx, &b, selectBookingSQL+` WHERE b.id = ?`, id); err != nil {
		return domain.BookingRecord{}, translate(err)
	}
	return b, nil
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.BookingRecord, error) {
	var out []domain.BookingRecord
	if err := r.db.SelectContext(ctx, &out, selectBookingSQL+` ORDER BY b.id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, updateBookingSQL,
		b.UserID, b.HotelID, b.RoomID, dateOnly(b.CheckIn), valDate(b.CheckOut), b.ID)
	return translate(err)
}

func (r *Repo) DeleteBooking(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteBookingSQL, id)
}
