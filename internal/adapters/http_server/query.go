package httpserver

import (
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// params collects query parameter errors so one response reports them all.
type params struct {
	q  url.Values
	ve *domain.ValidationError
}

func newParams(r *http.Request) *params {
	return &params{q: r.URL.Query(), ve: &domain.ValidationError{}}
}

func (p *params) err() error {
	if len(p.ve.Fields) == 0 {
		return nil
	}
	return p.ve
}

func (p *params) id(name string) *int64 {
	v := p.q.Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.ve.Add(name, "a valid integer is required")
		return nil
	}
	return &n
}

func (p *params) integer(name string) *int {
	n := p.id(name)
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

func (p *params) number(name string) *string {
	v := p.q.Get(name)
	if v == "" {
		return nil
	}
	// ParseFloat also takes NaN, Inf and hex floats, which MySQL would read as 0
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || strings.ContainsAny(v, "xX") {
		p.ve.Add(name, "a valid number is required")
		return nil
	}
	return &v
}

func (p *params) page() domain.PageQuery {
	pq := domain.PageQuery{Page: 1, Limit: defaultPageSize}
	if n := p.integer("page"); n != nil {
		if *n < 1 {
			p.ve.Add("page", "invalid page")
		} else {
			pq.Page = *n
		}
	}
	if n := p.integer("page_size"); n != nil {
		switch {
		case *n < 1:
			p.ve.Add("page_size", "ensure this value is greater than or equal to 1")
		case *n > maxPageSize:
			pq.Limit = maxPageSize
		default:
			pq.Limit = *n
		}
	}
	return pq
}

func hotelsQuery(r *http.Request) (domain.HotelsQuery, error) {
	p := newParams(r)
	q := domain.HotelsQuery{
		CityID:    p.id("city"),
		CountryID: p.id("country"),
		MinStars:  p.integer("min_stars"),
		MaxStars:  p.integer("max_stars"),
		ServiceID: p.id("service"),
		Search:    strings.TrimSpace(p.q.Get("search")),
		Ordering:  p.q.Get("ordering"),
		Page:      p.page(),
	}
	return q, p.err()
}

func roomsQuery(r *http.Request) (domain.RoomsQuery, error) {
	p := newParams(r)
	q := domain.RoomsQuery{
		HotelID:  p.id("hotel"),
		MinPrice: p.number("min_price"),
		MaxPrice: p.number("max_price"),
		Search:   strings.TrimSpace(p.q.Get("search")),
		Ordering: p.q.Get("ordering"),
		Page:     p.page(),
	}
	if v := p.q.Get("room_type"); v != "" {
		t := domain.RoomType(v)
		q.Type = &t
	}
	if v := p.q.Get("room_status"); v != "" {
		s := domain.RoomStatus(v)
		q.Status = &s
	}
	return q, p.err()
}

// pageLink rebuilds the request URL pointing at page n. Page 1 drops the
// parameter entirely.
func pageLink(r *http.Request, n int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	q := r.URL.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}

// unreachable reports a page so far out that its offset saturated; no
// result set can be that long.
func unreachable(pq domain.PageQuery) bool { return pq.Offset() == math.MaxInt }

// writePage wraps one page of results in the count/next/previous envelope.
// Asking for a page past the end is a 404, page 1 of an empty set is not.
func writePage[T any](w http.ResponseWriter, r *http.Request, pq domain.PageQuery, pg app.Paged[T]) {
	if pq.Page > 1 && pq.Offset() >= pg.Total {
		writeProblem(w, http.StatusNotFound, "Not Found", "invalid page")
		return
	}
	out := page[T]{Count: pg.Total, Results: pg.Items}
	if out.Results == nil {
		out.Results = []T{}
	}
	if pq.Offset()+len(pg.Items) < pg.Total {
		out.Next = pageLink(r, pq.Page+1)
	}
	if pq.Page > 1 {
		out.Previous = pageLink(r, pq.Page-1)
	}
	writeJSON(w, r, http.StatusOK, out)
}
