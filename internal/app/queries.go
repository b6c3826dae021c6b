package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const cityListKey = "cities:list"

// QueryService serves every read of the catalog. Only the city list goes
// through the cache; hotel and rating data are always composed fresh.
type QueryService struct {
	repo     domain.CatalogRepository
	users    domain.UserRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.CatalogRepository, u domain.UserRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, users: u, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListUsers(ctx context.Context) ([]UserListView, error) {
	us, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserListView, 0, len(us))
	for _, u := range us {
		out = append(out, userListView(u))
	}
	return out, nil
}

func (s *QueryService) GetUser(ctx context.Context, id int64) (UserDetailView, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return UserDetailView{}, err
	}
	return userDetailView(u), nil
}

func (s *QueryService) ListCities(ctx context.Context) ([]CityListView, error) {
	var out []CityListView
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, cityListKey, &out); ok && err == nil {
			return out, nil
		}
	}
	cs, err := s.repo.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]CityListView, 0, len(cs))
	for _, c := range cs {
		out = append(out, cityListView(c))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cityListKey, out, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("key", cityListKey).Msg("cache set failed")
		}
	}
	return out, nil
}

// InvalidateCities drops the cached city list after catalog writes.
func (s *QueryService) InvalidateCities(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cityListKey); err != nil {
		log.Warn().Err(err).Str("key", cityListKey).Msg("cache del failed")
	}
}

func (s *QueryService) GetCity(ctx context.Context, id int64) (CityDetailView, error) {
	c, err := s.repo.GetCity(ctx, id)
	if err != nil {
		return CityDetailView{}, err
	}
	hs, err := s.repo.ListHotelsByCity(ctx, id)
	if err != nil {
		return CityDetailView{}, err
	}
	return cityDetailView(c, hs), nil
}

func (s *QueryService) ListHotels(ctx context.Context, q domain.HotelsQuery) (Paged[HotelListView], error) {
	if err := checkOrdering(q.Ordering, "hotel_stars"); err != nil {
		return Paged[HotelListView]{}, err
	}
	if q.MinStars != nil && q.MaxStars != nil && *q.MinStars > *q.MaxStars {
		return Paged[HotelListView]{}, domain.NewValidationError("min_stars", "must not exceed max_stars")
	}
	pg, err := s.repo.ListHotels(ctx, q)
	if err != nil {
		return Paged[HotelListView]{}, err
	}
	out := Paged[HotelListView]{Items: make([]HotelListView, 0, len(pg.Items)), Total: pg.Total}
	for _, h := range pg.Items {
		out.Items = append(out.Items, hotelListView(h))
	}
	return out, nil
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (HotelDetailView, error) {
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return HotelDetailView{}, err
	}
	return hotelDetailView(h), nil
}

func (s *QueryService) ListRooms(ctx context.Context, q domain.RoomsQuery) (Paged[RoomListView], error) {
	if err := checkOrdering(q.Ordering, "price"); err != nil {
		return Paged[RoomListView]{}, err
	}
	if q.Type != nil && !q.Type.Valid() {
		return Paged[RoomListView]{}, domain.NewValidationError("room_type", `"`+string(*q.Type)+`" is not a valid choice`)
	}
	if q.Status != nil && !q.Status.Valid() {
		return Paged[RoomListView]{}, domain.NewValidationError("room_status", `"`+string(*q.Status)+`" is not a valid choice`)
	}
	pg, err := s.repo.ListRooms(ctx, q)
	if err != nil {
		return Paged[RoomListView]{}, err
	}
	out := Paged[RoomListView]{Items: make([]RoomListView, 0, len(pg.Items)), Total: pg.Total}
	for _, r := range pg.Items {
		out.Items = append(out.Items, roomListView(r.Room))
	}
	return out, nil
}

func (s *QueryService) GetRoom(ctx context.Context, id int64) (RoomDetailView, error) {
	r, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return RoomDetailView{}, err
	}
	return roomDetailView(r), nil
}

func (s *QueryService) ListReviews(ctx context.Context) ([]ReviewView, error) {
	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewView, 0, len(rs))
	for _, r := range rs {
		out = append(out, reviewView(r))
	}
	return out, nil
}

func checkOrdering(got, field string) error {
	switch got {
	case "", field, "-" + field:
		return nil
	}
	return domain.NewValidationError("ordering", `"`+got+`" is not a valid ordering, use `+field+` or -`+field)
}
