package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func sampleFeed() domain.Catalog {
	return domain.Catalog{
		Owners:   []domain.CatalogOwner{{Username: "owner1", Password: "owner-pass", Email: "o@example.com"}},
		Services: []domain.CatalogService{{Name: "wifi"}, {Name: "pool"}},
		Countries: []domain.CatalogCountry{{
			Name: "Kyrgyzstan",
			Cities: []domain.CatalogCity{{
				Name: "Bishkek",
				Hotels: []domain.CatalogHotel{
					{
						Name: "Ala-Too", Street: "Chui 1", PostalCode: 720001, Stars: ptr(4), Owner: "owner1",
						Services: []string{"wifi", "pool"}, Images: []string{"a.png", "b.png"},
						Rooms: []domain.CatalogRoom{
							{Number: 101, Type: "single", Status: "free", Price: "50", Images: []string{"r.png"}},
							{Number: 102, Type: "suite", Price: "150.5"},
						},
					},
					{Name: "Orion", Street: "Manas 2", PostalCode: 720002, Owner: "owner1"},
				},
			}},
		}},
	}
}

func TestImport_CreatesCatalog(t *testing.T) {
	cat, users := newFakeCatalog(), newFakeUsers()
	svc := app.NewImportService(fakeFeed{cat: sampleFeed()}, users, cat, 2).WithHashCost(bcrypt.MinCost)

	rep, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Failed)
	assert.Equal(t, 2, rep.Created["hotel"])
	assert.Equal(t, 2, rep.Created["service"])
	assert.Len(t, cat.hotelRows, 2)
	assert.Len(t, cat.hotelImages, 2)
	assert.Len(t, cat.roomRows, 2)
	assert.Len(t, cat.roomImages, 1)

	owner, err := users.GetUserByUsername(context.Background(), "owner1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, owner.Role)
	for _, h := range cat.hotelRows {
		assert.Equal(t, owner.ID, h.OwnerID)
		if h.Name == "Ala-Too" {
			assert.Len(t, h.ServiceIDs, 2)
		}
	}
	for _, r := range cat.roomRows {
		assert.Equal(t, domain.RoomFree, r.Status)
	}
}

func TestImport_RerunReusesExisting(t *testing.T) {
	cat, users := newFakeCatalog(), newFakeUsers()
	svc := app.NewImportService(fakeFeed{cat: sampleFeed()}, users, cat, 4).WithHashCost(bcrypt.MinCost)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	rep, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, rep.Existing["hotel"])
	assert.Equal(t, 1, rep.Existing["country"])
	assert.Equal(t, 1, rep.Existing["city"])
	assert.Equal(t, 1, rep.Existing["owner"])
	assert.Empty(t, rep.Created)
	assert.Len(t, cat.hotelRows, 2)
	assert.Len(t, cat.cityRows, 1)
}

func TestImport_BadHotelDoesNotStopRun(t *testing.T) {
	feed := sampleFeed()
	hotels := feed.Countries[0].Cities[0].Hotels
	hotels[1].Owner = "ghost"
	hotels = append(hotels, domain.CatalogHotel{Name: "Stars", Street: "X", PostalCode: 720003, Stars: ptr(9), Owner: "owner1"})
	feed.Countries[0].Cities[0].Hotels = hotels

	cat := newFakeCatalog()
	rep, err := app.NewImportService(fakeFeed{cat: feed}, newFakeUsers(), cat, 1).WithHashCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Failed)
	assert.Equal(t, 1, rep.Created["hotel"])
	assert.Len(t, cat.hotelRows, 1)
}

func roomsOf(cat *fakeCatalog, hotel string) int {
	var id int64
	for _, h := range cat.hotelRows {
		if h.Name == hotel {
			id = h.ID
		}
	}
	n := 0
	for _, r := range cat.roomRows {
		if id != 0 && r.HotelID == id {
			n++
		}
	}
	return n
}

func TestImport_InvalidRoomLeavesNoHotel(t *testing.T) {
	feed := sampleFeed()
	feed.Countries[0].Cities[0].Hotels[0].Rooms[1].Type = "penthouse"

	cat, users := newFakeCatalog(), newFakeUsers()
	rep, err := app.NewImportService(fakeFeed{cat: feed}, users, cat, 2).WithHashCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.Created["hotel"])
	assert.Len(t, cat.hotelRows, 1)
	assert.Empty(t, cat.hotelImages)
	assert.Empty(t, cat.roomRows)

	// once the feed is corrected the hotel comes in whole
	rep, err = app.NewImportService(fakeFeed{cat: sampleFeed()}, users, cat, 2).WithHashCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Failed)
	assert.Equal(t, 1, rep.Created["hotel"])
	assert.Equal(t, 1, rep.Existing["hotel"])
	assert.Equal(t, 2, roomsOf(cat, "Ala-Too"))
}

func TestImport_RoomInsertFailureRemovesHotel(t *testing.T) {
	cat, users := newFakeCatalog(), newFakeUsers()
	cat.failRooms = map[uint32]bool{102: true}
	svc := app.NewImportService(fakeFeed{cat: sampleFeed()}, users, cat, 1).WithHashCost(bcrypt.MinCost)

	rep, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.Len(t, cat.hotelRows, 1)
	assert.Empty(t, cat.hotelImages)
	assert.Empty(t, cat.roomRows)
	assert.Empty(t, cat.roomImages)

	cat.failRooms = nil
	rep, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Failed)
	assert.Equal(t, 1, rep.Created["hotel"])
	assert.Equal(t, 2, roomsOf(cat, "Ala-Too"))
	assert.Len(t, cat.roomImages, 1)
}

func TestImport_RepeatedServiceLinkedOnce(t *testing.T) {
	feed := sampleFeed()
	feed.Countries[0].Cities[0].Hotels[0].Services = []string{"wifi", "pool", "wifi"}

	cat := newFakeCatalog()
	rep, err := app.NewImportService(fakeFeed{cat: feed}, newFakeUsers(), cat, 1).WithHashCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Failed)
	assert.Equal(t, 2, rep.Created["hotel"])
	for _, h := range cat.hotelRows {
		if h.Name == "Ala-Too" {
			assert.Len(t, h.ServiceIDs, 2)
		}
	}
}

func TestImport_OnlyPostalConflictCountsAsExisting(t *testing.T) {
	feed := sampleFeed()
	feed.Countries[0].Cities[0].Hotels = feed.Countries[0].Cities[0].Hotels[:1]

	cat := newFakeCatalog()
	w := &linkConflictWriter{fakeCatalog: cat}
	rep, err := app.NewImportService(fakeFeed{cat: feed}, newFakeUsers(), w, 1).WithHashCost(bcrypt.MinCost).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.Zero(t, rep.Existing["hotel"])
	assert.Empty(t, cat.hotelRows)
}

// linkConflictWriter rejects every hotel with a conflict on a field other
// than the postal code.
type linkConflictWriter struct{ *fakeCatalog }

func (w *linkConflictWriter) CreateHotel(ctx context.Context, h domain.Hotel) (int64, error) {
	ve := domain.NewValidationError("non_field_errors", "a record with this non field errors already exists")
	ve.Err = domain.ErrConflict
	return 0, ve
}

func TestImport_FeedError(t *testing.T) {
	boom := errors.New("feed down")
	svc := app.NewImportService(fakeFeed{err: boom}, newFakeUsers(), newFakeCatalog(), 1)
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}
