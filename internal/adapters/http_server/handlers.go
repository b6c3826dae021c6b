package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

type Catalog interface {
	ListUsers(ctx context.Context) ([]app.UserListView, error)
	GetUser(ctx context.Context, id int64) (app.UserDetailView, error)
	ListCities(ctx context.Context) ([]app.CityListView, error)
	GetCity(ctx context.Context, id int64) (app.CityDetailView, error)
	ListHotels(ctx context.Context, q domain.HotelsQuery) (app.Paged[app.HotelListView], error)
	GetHotel(ctx context.Context, id int64) (app.HotelDetailView, error)
	ListRooms(ctx context.Context, q domain.RoomsQuery) (app.Paged[app.RoomListView], error)
	GetRoom(ctx context.Context, id int64) (app.RoomDetailView, error)
	ListReviews(ctx context.Context) ([]app.ReviewView, error)
}

type Auth interface {
	Authenticator
	Register(ctx context.Context, in app.RegisterInput) (app.AuthResult, error)
	Login(ctx context.Context, in app.LoginInput) (app.AuthResult, error)
	Logout(ctx context.Context, refresh string) error
	Refresh(ctx context.Context, refresh string) (string, error)
}

type Bookings interface {
	List(ctx context.Context) ([]app.BookingView, error)
	Get(ctx context.Context, id int64) (app.BookingView, error)
	Create(ctx context.Context, userID int64, in app.BookingInput) (app.BookingView, error)
	Update(ctx context.Context, userID, id int64, in app.BookingInput, partial bool) (app.BookingView, error)
	Delete(ctx context.Context, userID, id int64) error
}

type Handlers struct {
	Catalog  Catalog
	Auth     Auth
	Bookings Bookings
	// AuthLimit throttles register and login per client IP; nil disables it.
	AuthLimit *IPLimiter
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

const maxBody = 1 << 20

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(h.AuthLimit))
		r.Post("/register/", h.register)
		r.Post("/login/", h.login)
	})
	s.mux.Post("/logout/", h.logout)
	s.mux.Post("/token/refresh/", h.refresh)

	s.mux.Group(func(r chi.Router) {
		r.Use(BearerAuth(h.Auth))

		r.Get("/user/", h.listUsers)
		r.Get("/user/{id}/", h.getUser)
		r.Get("/city/", h.listCities)
		r.Get("/city/{id}/", h.getCity)
		r.Get("/hotel/", h.listHotels)
		r.Get("/hotel/{id}/", h.getHotel)
		r.Get("/room/", h.listRooms)
		r.Get("/room/{id}/", h.getRoom)
		r.Get("/review/", h.listReviews)

		r.Get("/booking/", h.listBookings)
		r.Post("/booking/", h.createBooking)
		r.Get("/booking/{id}/", h.getBooking)
		r.Put("/booking/{id}/", h.updateBooking(false))
		r.Patch("/booking/{id}/", h.updateBooking(true))
		r.Delete("/booking/{id}/", h.deleteBooking)
	})
}

// ---- responses ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemFields(w, status, title, detail, nil)
}

func writeProblemFields(w http.ResponseWriter, status int, title, detail string, fields map[string][]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemFields(w, http.StatusBadRequest, "Bad Request", ve.Error(), ve.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrPermissionDenied):
		writeProblem(w, http.StatusForbidden, "Forbidden", domain.ErrPermissionDenied.Error())
	default:
		log.Error().
			Err(err).
			Str("err_type", observability.LabelErr(err)).
			Str("route", routeOf(r)).
			Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v. Reads carry an ETag and honour If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error")
		return
	}
	if r.Method == http.MethodGet && etag != "" {
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

// decodeJSON reads a JSON body into dst, reporting malformed input as a
// validation error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return domain.NewValidationError("non_field_errors", "request body too large or unreadable")
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			return domain.NewValidationError(te.Field, "expected "+te.Type.String())
		}
		return domain.NewValidationError("non_field_errors", err.Error())
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// ---- auth ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

type refreshBody struct {
	Refresh string `json:"refresh"`
}

// logout answers every token problem with the same 400.
func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	var in refreshBody
	if err := decodeJSON(w, r, &in); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", domain.ErrInvalidToken.Error())
		return
	}
	err := h.Auth.Logout(r.Context(), in.Refresh)
	if errors.Is(err, domain.ErrInvalidToken) {
		writeProblem(w, http.StatusBadRequest, "Bad Request", domain.ErrInvalidToken.Error())
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusResetContent)
}

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshBody
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	access, err := h.Auth.Refresh(r.Context(), in.Refresh)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"access": access})
}

// ---- catalog ----

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListCities(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getCity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetCity(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q, err := hotelsQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if unreachable(q.Page) {
		writeProblem(w, http.StatusNotFound, "Not Found", "invalid page")
		return
	}
	out, err := h.Catalog.ListHotels(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, q.Page, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	q, err := roomsQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if unreachable(q.Page) {
		writeProblem(w, http.StatusNotFound, "Not Found", "invalid page")
		return
	}
	out, err := h.Catalog.ListRooms(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, r, q.Page, out)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Catalog.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListReviews(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// ---- bookings ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Bookings.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	uid := UserID(r.Context())
	if uid == 0 {
		writeError(w, r, domain.ErrPermissionDenied)
		return
	}
	var in app.BookingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Bookings.Create(r.Context(), uid, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

func (h *Handlers) updateBooking(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := UserID(r.Context())
		if uid == 0 {
			writeError(w, r, domain.ErrPermissionDenied)
			return
		}
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		var in app.BookingInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, err)
			return
		}
		out, err := h.Bookings.Update(r.Context(), uid, id, in, partial)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, out)
	}
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	uid := UserID(r.Context())
	if uid == 0 {
		writeError(w, r, domain.ErrPermissionDenied)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Bookings.Delete(r.Context(), uid, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
