package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
)

// ImportReport counts what an import run did.
type ImportReport struct {
	Created  map[string]int
	Existing map[string]int
	Failed   int
}

func (r *ImportReport) add(kind, outcome string) {
	switch outcome {
	case "created":
		r.Created[kind]++
	case "existing":
		r.Existing[kind]++
	default:
		r.Failed++
	}
	observability.ObserveImport(kind, outcome)
}

// ImportService seeds the catalog from a CatalogFeed. Records that already
// exist are reused rather than duplicated, so a run can be repeated.
type ImportService struct {
	feed     domain.CatalogFeed
	users    domain.UserRepository
	w        domain.CatalogWriter
	workers  int64
	hashCost int
}

func NewImportService(f domain.CatalogFeed, u domain.UserRepository, w domain.CatalogWriter, workers int) *ImportService {
	if workers <= 0 {
		workers = 1
	}
	return &ImportService{feed: f, users: u, w: w, workers: int64(workers), hashCost: bcrypt.DefaultCost}
}

func (s *ImportService) WithHashCost(cost int) *ImportService {
	s.hashCost = cost
	return s
}

type hotelJob struct {
	countryID int64
	cityID    int64
	hotel     domain.CatalogHotel
}

// Run imports owners, services, countries and cities sequentially, then
// hotels with their rooms and images on up to workers goroutines. A failed
// hotel is logged and counted; it does not stop the run.
func (s *ImportService) Run(ctx context.Context) (ImportReport, error) {
	rep := ImportReport{Created: map[string]int{}, Existing: map[string]int{}}

	cat, err := s.feed.FetchCatalog(ctx)
	if err != nil {
		return rep, fmt.Errorf("fetch catalog: %w", err)
	}

	owners := make(map[string]int64, len(cat.Owners))
	for _, o := range cat.Owners {
		id, outcome, err := s.owner(ctx, o)
		if err != nil {
			return rep, fmt.Errorf("owner %q: %w", o.Username, err)
		}
		rep.add("owner", outcome)
		owners[o.Username] = id
	}

	services := make(map[string]int64, len(cat.Services))
	for _, sv := range cat.Services {
		id, outcome, err := s.service(ctx, sv)
		if err != nil {
			return rep, fmt.Errorf("service %q: %w", sv.Name, err)
		}
		rep.add("service", outcome)
		services[sv.Name] = id
	}

	var jobs []hotelJob
	for _, co := range cat.Countries {
		countryID, outcome, err := s.country(ctx, co)
		if err != nil {
			return rep, fmt.Errorf("country %q: %w", co.Name, err)
		}
		rep.add("country", outcome)
		for _, ci := range co.Cities {
			cityID, outcome, err := s.city(ctx, countryID, ci)
			if err != nil {
				return rep, fmt.Errorf("city %q: %w", ci.Name, err)
			}
			rep.add("city", outcome)
			for _, h := range ci.Hotels {
				jobs = append(jobs, hotelJob{countryID: countryID, cityID: cityID, hotel: h})
			}
		}
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(s.workers)
	)
	for _, j := range jobs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return rep, err
		}
		wg.Add(1)
		go func(j hotelJob) {
			defer wg.Done()
			defer sem.Release(1)

			outcome, err := s.hotel(ctx, j, owners, services)
			mu.Lock()
			rep.add("hotel", outcome)
			mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("hotel", j.hotel.Name).Msg("hotel import failed")
				return
			}
			log.Debug().Str("hotel", j.hotel.Name).Str("outcome", outcome).Msg("hotel imported")
		}(j)
	}
	wg.Wait()

	log.Info().
		Interface("created", rep.Created).
		Interface("existing", rep.Existing).
		Int("failed", rep.Failed).
		Msg("catalog import finished")
	return rep, nil
}

func (s *ImportService) owner(ctx context.Context, o domain.CatalogOwner) (int64, string, error) {
	u, err := s.users.GetUserByUsername(ctx, o.Username)
	if err == nil {
		return u.ID, "existing", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, "failed", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), s.hashCost)
	if err != nil {
		return 0, "failed", err
	}
	nu := domain.User{Username: o.Username, Password: string(hash), Email: o.Email, Role: domain.RoleOwner, IsActive: true}
	if err := validateStruct(nu); err != nil {
		return 0, "failed", err
	}
	id, err := s.users.CreateUser(ctx, nu)
	return id, "created", err
}

func (s *ImportService) service(ctx context.Context, sv domain.CatalogService) (int64, string, error) {
	got, err := s.w.FindServiceByName(ctx, sv.Name)
	if err == nil {
		return got.ID, "existing", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, "failed", err
	}
	ns := domain.Service{Name: sv.Name, Image: sv.Image}
	if err := validateStruct(ns); err != nil {
		return 0, "failed", err
	}
	id, err := s.w.CreateService(ctx, ns)
	return id, "created", err
}

func (s *ImportService) country(ctx context.Context, co domain.CatalogCountry) (int64, string, error) {
	got, err := s.w.FindCountryByName(ctx, co.Name)
	if err == nil {
		return got.ID, "existing", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, "failed", err
	}
	nc := domain.Country{Name: co.Name, Image: co.Image}
	if err := validateStruct(nc); err != nil {
		return 0, "failed", err
	}
	id, err := s.w.CreateCountry(ctx, nc)
	return id, "created", err
}

func (s *ImportService) city(ctx context.Context, countryID int64, ci domain.CatalogCity) (int64, string, error) {
	got, err := s.w.FindCityByName(ctx, countryID, ci.Name)
	if err == nil {
		return got.ID, "existing", nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, "failed", err
	}
	nc := domain.City{Name: ci.Name, Image: ci.Image, CountryID: countryID}
	if err := validateStruct(nc); err != nil {
		return 0, "failed", err
	}
	id, err := s.w.CreateCity(ctx, nc)
	return id, "created", err
}

func (s *ImportService) hotel(ctx context.Context, j hotelJob, owners, services map[string]int64) (string, error) {
	h := j.hotel
	ownerID, ok := owners[h.Owner]
	if !ok {
		return "failed", fmt.Errorf("unknown owner %q", h.Owner)
	}
	nh := domain.Hotel{
		CreatorID:   ownerID,
		OwnerID:     ownerID,
		CountryID:   j.countryID,
		CityID:      j.cityID,
		Name:        h.Name,
		Street:      h.Street,
		PostalCode:  h.PostalCode,
		Stars:       h.Stars,
		Video:       h.Video,
		Description: h.Description,
	}
	seen := map[int64]bool{}
	for _, name := range h.Services {
		sid, ok := services[name]
		if !ok {
			return "failed", fmt.Errorf("unknown service %q", name)
		}
		if !seen[sid] {
			seen[sid] = true
			nh.ServiceIDs = append(nh.ServiceIDs, sid)
		}
	}
	if err := validateStruct(nh); err != nil {
		return "failed", err
	}

	// every room is checked before the hotel row exists
	rooms := make([]domain.Room, 0, len(h.Rooms))
	for _, r := range h.Rooms {
		room := domain.Room{
			Number:      r.Number,
			Type:        domain.RoomType(r.Type),
			Status:      domain.RoomStatus(r.Status),
			Price:       r.Price,
			Description: r.Description,
		}
		if room.Status == "" {
			room.Status = domain.RoomFree
		}
		if err := validateExcept(room, "HotelID"); err != nil {
			return "failed", fmt.Errorf("room %d: %w", r.Number, err)
		}
		rooms = append(rooms, room)
	}

	hotelID, err := s.w.CreateHotel(ctx, nh)
	if postalConflict(err) {
		// postal codes are unique; the hotel is already in the catalog
		return "existing", nil
	}
	if err != nil {
		return "failed", err
	}

	if err := s.fill(ctx, hotelID, h, rooms); err != nil {
		// a half-built hotel would be taken as existing on the next run
		if derr := s.w.DeleteHotel(ctx, hotelID); derr != nil {
			log.Error().Err(derr).Int64("hotel_id", hotelID).Msg("import: remove partial hotel")
		}
		return "failed", err
	}
	return "created", nil
}

// fill adds the images and rooms of a freshly created hotel.
func (s *ImportService) fill(ctx context.Context, hotelID int64, h domain.CatalogHotel, rooms []domain.Room) error {
	for _, img := range h.Images {
		if _, err := s.w.AddHotelImage(ctx, domain.HotelImage{HotelID: hotelID, Image: img}); err != nil {
			return fmt.Errorf("hotel image: %w", err)
		}
	}
	for i, room := range rooms {
		room.HotelID = hotelID
		roomID, err := s.w.CreateRoom(ctx, room)
		if err != nil {
			return fmt.Errorf("room %d: %w", room.Number, err)
		}
		for _, img := range h.Rooms[i].Images {
			if _, err := s.w.AddRoomImage(ctx, domain.RoomImage{RoomID: roomID, Image: img}); err != nil {
				return fmt.Errorf("room %d image: %w", room.Number, err)
			}
		}
	}
	return nil
}

// postalConflict is the duplicate-key error for the hotel's postal code.
// Other conflicts, like a repeated service link, are real failures.
func postalConflict(err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || !errors.Is(err, domain.ErrConflict) {
		return false
	}
	_, ok := ve.Fields["postal_code"]
	return ok
}
