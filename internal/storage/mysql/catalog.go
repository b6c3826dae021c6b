package mysql

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"

	"hotel_booking/internal/domain"
)

func (r *Repo) ListCities(ctx context.Context) ([]domain.CityRecord, error) {
	var out []domain.CityRecord
	if err := r.db.SelectContext(ctx, &out, selectCitySQL+` ORDER BY c.id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetCity(ctx context.Context, id int64) (domain.CityRecord, error) {
	var c domain.CityRecord
	if err := r.db.GetContext(ctx, &c, selectCitySQL+` WHERE c.id = ?`, id); err != nil {
		return domain.CityRecord{}, translate(err)
	}
	return c, nil
}

func (r *Repo) ListHotelsByCity(ctx context.Context, cityID int64) ([]domain.HotelSummary, error) {
	var out []domain.HotelSummary
	q := hotelSummaryColumns + hotelSummaryFrom + ` WHERE h.city_id = ? ORDER BY h.id`
	if err := r.db.SelectContext(ctx, &out, q, cityID); err != nil {
		return nil, err
	}
	if err := r.attachHotelImages(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func hotelFilter(q domain.HotelsQuery) *where {
	w := &where{}
	if q.CityID != nil {
		w.add("h.city_id = ?", *q.CityID)
	}
	if q.CountryID != nil {
		w.add("h.country_id = ?", *q.CountryID)
	}
	if q.MinStars != nil {
		w.add("h.hotel_stars >= ?", *q.MinStars)
	}
	if q.MaxStars != nil {
		w.add("h.hotel_stars <= ?", *q.MaxStars)
	}
	if q.ServiceID != nil {
		w.add("EXISTS (SELECT 1 FROM hotel_services hs WHERE hs.hotel_id = h.id AND hs.service_id = ?)", *q.ServiceID)
	}
	if q.Search != "" {
		w.add("h.hotel_name LIKE ?", likeContains(q.Search))
	}
	return w
}

func hotelOrder(ordering string) string {
	switch ordering {
	case "hotel_stars":
		return " ORDER BY h.hotel_stars ASC, h.id ASC"
	case "-hotel_stars":
		return " ORDER BY h.hotel_stars DESC, h.id ASC"
	default:
		return " ORDER BY h.id ASC"
	}
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	w := hotelFilter(q)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM hotels h`+w.String(), w.args...); err != nil {
		return domain.HotelsPage{}, err
	}

	args := append(append([]any{}, w.args...), q.Page.Limit, q.Page.Offset())
	stmt := hotelSummaryColumns + hotelSummaryFrom + w.String() + hotelOrder(q.Ordering) + ` LIMIT ? OFFSET ?`

	var items []domain.HotelSummary
	if err := r.db.SelectContext(ctx, &items, stmt, args...); err != nil {
		return domain.HotelsPage{}, err
	}
	if err := r.attachHotelImages(ctx, items); err != nil {
		return domain.HotelsPage{}, err
	}
	return domain.HotelsPage{Items: items, Total: total}, nil
}

// attachHotelImages loads every image of the given hotels in one query.
func (r *Repo) attachHotelImages(ctx context.Context, hs []domain.HotelSummary) error {
	if len(hs) == 0 {
		return nil
	}
	ids := make([]int64, len(hs))
	for i := range hs {
		ids[i] = hs[i].ID
	}
	query, args, err := sqlx.In(hotelImagesSQL, ids)
	if err != nil {
		return err
	}
	var imgs []domain.HotelImage
	if err := r.db.SelectContext(ctx, &imgs, r.db.Rebind(query), args...); err != nil {
		return err
	}
	byHotel := make(map[int64][]domain.HotelImage, len(hs))
	for _, img := range imgs {
		byHotel[img.HotelID] = append(byHotel[img.HotelID], img)
	}
	for i := range hs {
		hs[i].Images = byHotel[hs[i].ID]
	}
	return nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelAggregate, error) {
	var h domain.HotelAggregate
	if err := r.db.GetContext(ctx, &h, getHotelSQL, id); err != nil {
		return domain.HotelAggregate{}, translate(err)
	}

	one := []domain.HotelSummary{h.HotelSummary}
	if err := r.attachHotelImages(ctx, one); err != nil {
		return domain.HotelAggregate{}, err
	}
	h.Images = one[0].Images

	if err := r.db.SelectContext(ctx, &h.Services, hotelServicesSQL, id); err != nil {
		return domain.HotelAggregate{}, err
	}
	if err := r.db.SelectContext(ctx, &h.Rooms, hotelRoomsSQL, id); err != nil {
		return domain.HotelAggregate{}, err
	}
	if err := r.db.SelectContext(ctx, &h.Reviews, selectReviewSQL+` WHERE r.hotel_id = ? ORDER BY r.id`, id); err != nil {
		return domain.HotelAggregate{}, err
	}

	// The detail rating always agrees with the review list it is shown with.
	stars := make([]int, len(h.Reviews))
	for i, rv := range h.Reviews {
		stars[i] = rv.Stars
	}
	h.Rating = domain.StatsOf(stars)
	return h, nil
}

func roomFilter(q domain.RoomsQuery) *where {
	w := &where{}
	if q.HotelID != nil {
		w.add("rm.hotel_id = ?", *q.HotelID)
	}
	if q.Type != nil {
		w.add("rm.room_type = ?", string(*q.Type))
	}
	if q.Status != nil {
		w.add("rm.room_status = ?", string(*q.Status))
	}
	if q.MinPrice != nil {
		w.add("rm.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		w.add("rm.price <= ?", *q.MaxPrice)
	}
	if q.Search != "" {
		w.add("CAST(rm.room_number AS CHAR) LIKE ?", likeContains(q.Search))
	}
	return w
}

func roomOrder(ordering string) string {
	switch ordering {
	case "price":
		return " ORDER BY rm.price ASC, rm.id ASC"
	case "-price":
		return " ORDER BY rm.price DESC, rm.id ASC"
	default:
		return " ORDER BY rm.id ASC"
	}
}

func (r *Repo) ListRooms(ctx context.Context, q domain.RoomsQuery) (domain.RoomsPage, error) {
	w := roomFilter(q)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM rooms rm`+w.String(), w.args...); err != nil {
		return domain.RoomsPage{}, err
	}

	args := append(append([]any{}, w.args...), q.Page.Limit, q.Page.Offset())
	stmt := `SELECT` + roomColumns + ` FROM rooms rm` + w.String() + roomOrder(q.Ordering) + ` LIMIT ? OFFSET ?`

	var items []domain.RoomRecord
	if err := r.db.SelectContext(ctx, &items, stmt, args...); err != nil {
		return domain.RoomsPage{}, err
	}
	return domain.RoomsPage{Items: items, Total: total}, nil
}

func (r *Repo) GetRoom(ctx context.Context, id int64) (domain.RoomRecord, error) {
	var rm domain.RoomRecord
	if err := r.db.GetContext(ctx, &rm, getRoomSQL, id); err != nil {
		return domain.RoomRecord{}, translate(err)
	}
	if err := r.db.SelectContext(ctx, &rm.Images, roomImagesSQL, id); err != nil {
		return domain.RoomRecord{}, err
	}
	return rm, nil
}

func (r *Repo) RoomHotel(ctx context.Context, roomID int64) (int64, error) {
	var hotelID int64
	if err := r.db.GetContext(ctx, &hotelID, roomHotelSQL, roomID); err != nil {
		return 0, translate(err)
	}
	return hotelID, nil
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.ReviewRecord, error) {
	var out []domain.ReviewRecord
	if err := r.db.SelectContext(ctx, &out, selectReviewSQL+` ORDER BY r.id`); err != nil {
		return nil, err
	}
	return out, nil
}

func formatPrice(p string) string {
	if f, err := strconv.ParseFloat(p, 64); err == nil {
		return strconv.FormatFloat(f, 'f', 2, 64)
	}
	return p
}
