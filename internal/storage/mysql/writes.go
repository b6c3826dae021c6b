package mysql

import (
	"context"
	"fmt"

	"hotel_booking/internal/domain"
)

func (r *Repo) CreateCountry(ctx context.Context, c domain.Country) (int64, error) {
	return r.insert(ctx, insertCountrySQL, c.Name, c.Image)
}

func (r *Repo) FindCountryByName(ctx context.Context, name string) (domain.Country, error) {
	var c domain.Country
	err := r.db.GetContext(ctx, &c, `SELECT id, country_name, country_image FROM countries WHERE country_name = ?`, name)
	return c, translate(err)
}

// DeleteCountry removes the country; cities, hotels and everything below
// them go with it through ON DELETE CASCADE.
func (r *Repo) DeleteCountry(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteCountrySQL, id)
}

func (r *Repo) CreateCity(ctx context.Context, c domain.City) (int64, error) {
	return r.insert(ctx, insertCitySQL, c.Name, c.Image, c.CountryID)
}

func (r *Repo) FindCityByName(ctx context.Context, countryID int64, name string) (domain.City, error) {
	var c domain.City
	err := r.db.GetContext(ctx, &c,
		`SELECT id, city_name, city_image, country_id FROM cities WHERE country_id = ? AND city_name = ?`, countryID, name)
	return c, translate(err)
}

func (r *Repo) CreateService(ctx context.Context, s domain.Service) (int64, error) {
	return r.insert(ctx, insertServiceSQL, s.Name, s.Image)
}

func (r *Repo) FindServiceByName(ctx context.Context, name string) (domain.Service, error) {
	var s domain.Service
	err := r.db.GetContext(ctx, &s, `SELECT id, service_name, service_image FROM services WHERE service_name = ?`, name)
	return s, translate(err)
}

// CreateHotel writes the hotel row and its service links in one transaction.
func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertHotelSQL,
		h.CreatorID,
		h.OwnerID,
		h.CountryID,
		h.CityID,
		h.Name,
		h.Street,
		h.PostalCode,
		valInt(h.Stars),
		valStr(h.Video),
		h.Description,
	)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, sid := range h.ServiceIDs {
		if _, err := tx.ExecContext(ctx, insertHotelServiceSQL, id, sid); err != nil {
			return 0, fmt.Errorf("link service %d: %w", sid, translate(err))
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteHotelSQL, id)
}

func (r *Repo) AddHotelImage(ctx context.Context, img domain.HotelImage) (int64, error) {
	return r.insert(ctx, insertHotelImageSQL, img.HotelID, img.Image)
}

func (r *Repo) CreateRoom(ctx context.Context, rm domain.Room) (int64, error) {
	return r.insert(ctx, insertRoomSQL,
		rm.HotelID,
		rm.Number,
		string(rm.Type),
		string(rm.Status),
		formatPrice(rm.Price),
		rm.Description,
	)
}

func (r *Repo) DeleteRoom(ctx context.Context, id int64) error {
	return r.delete(ctx, deleteRoomSQL, id)
}

func (r *Repo) AddRoomImage(ctx context.Context, img domain.RoomImage) (int64, error) {
	return r.insert(ctx, insertRoomImageSQL, img.RoomID, img.Image)
}

func (r *Repo) CreateReview(ctx context.Context, rv domain.Review) (int64, error) {
	var created any
	if !rv.CreatedAt.IsZero() {
		created = rv.CreatedAt.UTC()
	}
	return r.insert(ctx, insertReviewSQL, rv.UserID, rv.HotelID, rv.Stars, rv.Text, created)
}
